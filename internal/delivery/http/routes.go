package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kuinque/korzina/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestLogMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		api.GET("/health", handler.HealthCheck)
		api.GET("/stats", handler.Stats)
		api.GET("/offers", handler.ListOffers)
		api.GET("/products", handler.SellerProducts)

		search := api.Group("/search")
		{
			search.POST("", handler.Search)
			search.GET("/get", handler.SearchGet)
		}
	}

	return router
}
