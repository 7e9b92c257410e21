package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/kuinque/korzina/config"
	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/usecase"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubStore struct {
	offers  []domain.Offer
	err     error
	pingErr error
}

func (s *stubStore) GetAllOffers(ctx context.Context) ([]domain.Offer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.offers, nil
}

func (s *stubStore) GetOffersBySeller(ctx context.Context, sellerName string) ([]domain.Offer, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []domain.Offer
	for _, o := range s.offers {
		if o.SellerName == sellerName {
			out = append(out, o)
		}
	}
	return out, nil
}

func (s *stubStore) ListSellers(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	seen := map[string]bool{}
	var out []string
	for _, o := range s.offers {
		if o.SellerName != "" && !seen[o.SellerName] {
			seen[o.SellerName] = true
			out = append(out, o.SellerName)
		}
	}
	return out, nil
}

func (s *stubStore) Ping(ctx context.Context) error {
	return s.pingErr
}

func testCatalog() []domain.Offer {
	return []domain.Offer{
		{ID: "1", Title: "Молоко", Price: 80, SellerName: "Лента", CategoryName: "Молочное", Images: []string{"milk.jpg"}},
		{ID: "2", Title: "Хлеб", Price: 40, SellerName: "Лента", CategoryName: "Выпечка"},
		{ID: "3", Title: "Яблоки красные", Price: 120, SellerName: "Лента", CategoryName: "Фрукты"},
		{ID: "4", Title: "Молоко", Price: 75, SellerName: "Магнит", CategoryName: "Молочное"},
		{ID: "5", Title: "Сыр", Price: 300, SellerName: "Магнит", CategoryName: "Молочное"},
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"https://*.korzina.ru", "http://localhost:3000"},
		},
		RateLimit: config.RateLimitConfig{PerIP: 1000},
	}
}

// setupTestRouter wires real services over store
func setupTestRouter(t *testing.T, store domain.OfferStore) *gin.Engine {
	t.Helper()
	logger := zaptest.NewLogger(t)

	search := usecase.NewShopSearchService(store, usecase.ShopSearchServiceConfig{
		PenaltyPrice: 1000,
		Workers:      2,
	}, logger)
	catalog := usecase.NewCatalogService(store, logger)

	return SetupRouter(testConfig(), NewHandler(search, catalog, 0, logger), logger)
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(t, &stubStore{})

		w := doRequest(router, http.MethodGet, "/health", "")
		assert.Equal(t, http.StatusOK, w.Code)

		response := decodeMap(t, w)
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "korzina", response["service"])
		assert.Equal(t, "healthy", response["database"])
		assert.NotEmpty(t, response["version"])
	})

	t.Run("returns 503 when store is down", func(t *testing.T) {
		router := setupTestRouter(t, &stubStore{pingErr: domain.ErrStoreUnavailable})

		w := doRequest(router, http.MethodGet, "/api/health", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", decodeMap(t, w)["database"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(t, &stubStore{})

		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch} {
			w := doRequest(router, method, "/health", "")
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	w := doRequest(router, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	response := decodeMap(t, w)
	assert.Equal(t, "success", response["status"])
	assert.Equal(t, float64(2), response["shops_count"])
	assert.Equal(t, float64(5), response["products_count"])
	assert.Equal(t, []interface{}{"Лента", "Магнит"}, response["shops"])
}

func TestOffersEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	t.Run("default page", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/offers", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page domain.OfferPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 5, page.Total)
		assert.Equal(t, 20, page.Limit)
		assert.Equal(t, 0, page.Offset)
		assert.Equal(t, 5, page.Count)
	})

	t.Run("filters and paginates", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/offers?category=%D0%9C%D0%BE%D0%BB%D0%BE%D1%87%D0%BD%D0%BE%D0%B5&limit=1&offset=1", "")
		require.Equal(t, http.StatusOK, w.Code)

		var page domain.OfferPage
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 3, page.Total)
		require.Len(t, page.Offers, 1)
		assert.Equal(t, "4", page.Offers[0].ID)
	})

	for _, query := range []string{"limit=0", "limit=101", "offset=-1", "limit=abc"} {
		t.Run("rejects "+query, func(t *testing.T) {
			w := doRequest(router, http.MethodGet, "/api/offers?"+query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "error", decodeMap(t, w)["status"])
		})
	}
}

func TestProductsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	t.Run("lists seller offers", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products?shop="+urlEncode("Лента"), "")
		require.Equal(t, http.StatusOK, w.Code)

		response := decodeMap(t, w)
		assert.Equal(t, float64(3), response["count"])
		shop := response["shop"].(map[string]interface{})
		assert.Equal(t, "Лента", shop["name"])

		products := response["products"].([]interface{})
		first := products[0].(map[string]interface{})
		assert.Equal(t, "Молоко", first["name"])
		assert.Equal(t, []interface{}{"milk.jpg"}, first["images"])
	})

	t.Run("filters by q", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products?shop="+urlEncode("Лента")+"&q="+urlEncode("хлеб"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), decodeMap(t, w)["count"])
	})

	t.Run("missing shop", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank shop", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products?shop=%20%20", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown shop", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/products?shop="+urlEncode("Ашан"), "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSearchEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	t.Run("list of products", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/search", `{"products": ["молоко", "хлеб"]}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "success", response.Status)
		assert.Equal(t, map[string]interface{}{"id": "Лента", "name": "Лента"}, response.BestShop)
		assert.Equal(t, 120.0, response.TotalPrice)
		assert.Equal(t, 2, response.ProductsFound)
		assert.Equal(t, 2, response.ProductsTotal)
		assert.Equal(t, 1.0, response.MatchPercentage)
		require.Len(t, response.Products, 2)
		assert.Equal(t, ProductMatchResponse{
			Target:     "молоко",
			Found:      "Молоко",
			Price:      80,
			Similarity: 1,
			MatchType:  "exact_full",
		}, response.Products[0])
	})

	t.Run("comma separated string", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/search", `{"products": "сыр, хлеб, бананы"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response SearchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, 3, response.ProductsTotal)
		assert.Equal(t, 1, response.ProductsFound)
		require.Len(t, response.Products, 3)
		assert.Equal(t, notFoundLabel, response.Products[2].Found)
		assert.Equal(t, "none", response.Products[2].MatchType)
		assert.Equal(t, 1000.0, response.Products[2].Price)
	})

	t.Run("no seller matches", func(t *testing.T) {
		w := doRequest(router, http.MethodPost, "/api/search", `{"products": ["апельсины"]}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "error", decodeMap(t, w)["status"])
	})

	badBodies := map[string]string{
		"invalid JSON":     `{"products":`,
		"missing products": `{}`,
		"wrong type":       `{"products": 42}`,
		"empty list":       `{"products": []}`,
		"blank string":     `{"products": " , "}`,
		"only blank items": `{"products": ["", "  "]}`,
		"null products":    `{"products": null}`,
	}
	for name, body := range badBodies {
		t.Run(name, func(t *testing.T) {
			w := doRequest(router, http.MethodPost, "/api/search", body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}

	t.Run("store failure", func(t *testing.T) {
		failing := setupTestRouter(t, &stubStore{err: fmt.Errorf("%w: connection refused", domain.ErrStoreUnavailable)})

		w := doRequest(failing, http.MethodPost, "/api/search", `{"products": ["молоко"]}`)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSearchGetEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	t.Run("returns matched offers", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get?products="+urlEncode("молоко,хлеб,бананы"), "")
		require.Equal(t, http.StatusOK, w.Code)

		var offers []domain.Offer
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &offers))
		require.Len(t, offers, 2)
		assert.Equal(t, "1", offers[0].ID)
		assert.Equal(t, "2", offers[1].ID)
	})

	t.Run("debug payload", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get?debug=1&products="+urlEncode("молоко"), "")
		require.Equal(t, http.StatusOK, w.Code)

		response := decodeMap(t, w)
		assert.Equal(t, "success", response["status"])
		assert.Equal(t, "Магнит", response["best_shop"])
		assert.Equal(t, float64(75), response["total_price"])
	})

	t.Run("no match returns empty array", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get?products="+urlEncode("апельсины"), "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[]`, w.Body.String())
	})

	t.Run("missing products", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("blank products", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get?products=,,", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid debug", func(t *testing.T) {
		w := doRequest(router, http.MethodGet, "/api/search/get?debug=2&products=a", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	t.Run("health endpoint has CORS for web app", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.korzina.ru")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.korzina.ru", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("search preflight from localhost", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "POST")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRecoveryMiddleware(t *testing.T) {
	router := setupTestRouter(t, &stubStore{})
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := doRequest(router, http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", decodeMap(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	doRequest(router, http.MethodPost, "/api/search", `{"products": ["молоко"]}`)
	w := doRequest(router, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "korzina_searches_total")
}

func TestJSONResponses(t *testing.T) {
	router := setupTestRouter(t, &stubStore{offers: testCatalog()})

	endpoints := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/health", ""},
		{http.MethodGet, "/api/stats", ""},
		{http.MethodGet, "/api/offers", ""},
		{http.MethodPost, "/api/search", `{"products": ["молоко"]}`},
		{http.MethodGet, "/api/search/get?products=a", ""},
	}

	for _, endpoint := range endpoints {
		t.Run(endpoint.method+" "+endpoint.path, func(t *testing.T) {
			w := doRequest(router, endpoint.method, endpoint.path, endpoint.body)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.True(t, json.Valid(w.Body.Bytes()), w.Body.String())
		})
	}
}

func urlEncode(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
