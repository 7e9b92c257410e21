package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/metrics"
	"github.com/kuinque/korzina/internal/usecase"
)

const (
	serviceName    = "korzina"
	serviceVersion = "1.0.0"
)

// ShopSearcher finds the best seller for a shopping list
type ShopSearcher interface {
	FindCheapestShop(ctx context.Context, items []string) (domain.SellerSolution, bool, error)
}

// CatalogReader exposes read-only catalog views
type CatalogReader interface {
	Stats(ctx context.Context) (*domain.CatalogStats, error)
	ListOffers(ctx context.Context, query domain.OfferQuery) (*domain.OfferPage, error)
	SellerProducts(ctx context.Context, seller, q string) ([]domain.Offer, error)
	Ping(ctx context.Context) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	search         ShopSearcher
	catalog        CatalogReader
	requestTimeout time.Duration
	logger         *zap.Logger
}

// NewHandler creates a new HTTP handler. A zero requestTimeout leaves
// request contexts without a deadline.
func NewHandler(search ShopSearcher, catalog CatalogReader, requestTimeout time.Duration, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		search:         search,
		catalog:        catalog,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

func (h *Handler) context(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.requestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.requestTimeout)
}

// HealthCheck reports whether the offer store is reachable
func (h *Handler) HealthCheck(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	body := gin.H{
		"service": serviceName,
		"version": serviceVersion,
	}

	if err := h.catalog.Ping(ctx); err != nil {
		metrics.HealthUp.Set(0)
		h.logger.Warn("health check failed", zap.Error(err))
		body["status"] = "unhealthy"
		body["database"] = "unhealthy"
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}

	metrics.HealthUp.Set(1)
	body["status"] = "healthy"
	body["database"] = "healthy"
	c.JSON(http.StatusOK, body)
}

// Stats returns seller and offer counts
func (h *Handler) Stats(c *gin.Context) {
	ctx, cancel := h.context(c)
	defer cancel()

	stats, err := h.catalog.Stats(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "success",
		"shops_count":    stats.SellersCount,
		"products_count": stats.OffersCount,
		"shops":          stats.Sellers,
	})
}

// ListOffers returns one filtered page of the catalog
func (h *Handler) ListOffers(c *gin.Context) {
	var q offersQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid query parameters: limit must be 1..100, offset must be >= 0"))
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	page, err := h.catalog.ListOffers(ctx, domain.OfferQuery{
		Seller:   q.Seller,
		Category: q.Category,
		Query:    q.Q,
		Limit:    q.Limit,
		Offset:   q.Offset,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// SellerProducts lists one seller's offers, optionally filtered by q
func (h *Handler) SellerProducts(c *gin.Context) {
	var q productsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Missing 'shop' parameter"))
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	offers, err := h.catalog.SellerProducts(ctx, q.Shop, q.Q)
	if err != nil {
		h.respondError(c, err)
		return
	}

	products := newSellerOfferResponses(offers)
	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"shop":     ShopRef{ID: q.Shop, Name: q.Shop},
		"count":    len(products),
		"products": products,
	})
}

// Search finds the best seller for the posted shopping list
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Invalid request: 'products' must be a non-empty string or list"))
		return
	}

	ctx, cancel := h.context(c)
	defer cancel()

	solution, ok, err := h.search.FindCheapestShop(ctx, req.Products)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, errorBody("No suitable shops found for your products"))
		return
	}

	bestShop := ShopRef{ID: solution.SellerID, Name: solution.SellerName}
	c.JSON(http.StatusOK, newSearchResponse(solution, bestShop, len(req.Products)))
}

// SearchGet is the query-string variant of Search. By default it returns
// the matched offers as a bare array ([] when no seller matched); debug=1
// returns the full search payload.
func (h *Handler) SearchGet(c *gin.Context) {
	var q searchGetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("Missing 'products' parameter"))
		return
	}

	items := usecase.ParseShoppingList(q.Products)

	ctx, cancel := h.context(c)
	defer cancel()

	solution, ok, err := h.search.FindCheapestShop(ctx, items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusOK, []domain.Offer{})
		return
	}

	if q.Debug == 1 {
		c.JSON(http.StatusOK, newSearchResponse(solution, solution.SellerName, len(items)))
		return
	}

	offers := make([]domain.Offer, 0, solution.MatchedCount)
	for _, m := range solution.Matches {
		if m.Found() {
			offers = append(offers, *m.Offer)
		}
	}
	c.JSON(http.StatusOK, offers)
}

// respondError maps domain errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, domain.ErrEmptyShoppingList):
		c.JSON(http.StatusBadRequest, errorBody("Products list cannot be empty"))
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrSellerNotFound):
		c.JSON(http.StatusNotFound, errorBody("Seller not found"))
	case errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		h.logger.Error("offer store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, errorBody("Offer store unavailable"))
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
	}
}
