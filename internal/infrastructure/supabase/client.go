package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kuinque/korzina/internal/domain"
)

const (
	offersTable    = "offers"
	maxAttempts    = 3
	maxErrorBody   = 4096
	defaultTimeout = 30 * time.Second
)

// Client reads the offers table through the Supabase PostgREST API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
	backoff     func(attempt int) time.Duration
	debug       bool
}

// NewClient creates a new Supabase client. requestsPerSecond caps the
// outgoing request rate; non-positive means 10.
func NewClient(baseURL, apiKey string, requestsPerSecond float64, logger *zap.Logger) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 10
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), int(requestsPerSecond)+1),
		logger:      logger.Named("supabase"),
		backoff:     exponentialBackoff,
	}
}

// SetDebug toggles logging of every request URL
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes of an error response
func readLimitedBody(r io.Reader, limit int64) string {
	body, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return ""
	}
	return string(body)
}

// GetAllOffers loads every row of the offers table
func (c *Client) GetAllOffers(ctx context.Context) ([]domain.Offer, error) {
	params := url.Values{}
	params.Set("select", "*")

	var rows []offerRow
	if err := c.query(ctx, params, &rows); err != nil {
		return nil, err
	}
	return mapOffers(rows), nil
}

// GetOffersBySeller loads the rows whose seller_name equals sellerName
func (c *Client) GetOffersBySeller(ctx context.Context, sellerName string) ([]domain.Offer, error) {
	params := url.Values{}
	params.Set("select", "*")
	params.Set("seller_name", "eq."+sellerName)

	var rows []offerRow
	if err := c.query(ctx, params, &rows); err != nil {
		return nil, err
	}
	return mapOffers(rows), nil
}

// ListSellers returns the distinct non-empty seller names, sorted
func (c *Client) ListSellers(ctx context.Context) ([]string, error) {
	params := url.Values{}
	params.Set("select", "seller_name")

	var rows []struct {
		SellerName *string `json:"seller_name"`
	}
	if err := c.query(ctx, params, &rows); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	sellers := make([]string, 0)
	for _, row := range rows {
		if row.SellerName == nil || *row.SellerName == "" {
			continue
		}
		if _, ok := seen[*row.SellerName]; ok {
			continue
		}
		seen[*row.SellerName] = struct{}{}
		sellers = append(sellers, *row.SellerName)
	}
	sort.Strings(sellers)

	return sellers, nil
}

// Ping fetches a single offer id to confirm the API answers
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("select", "offer_id")
	params.Set("limit", "1")

	var rows []json.RawMessage
	return c.query(ctx, params, &rows)
}

// query runs a GET against the offers table, retrying transport failures,
// 429 and 5xx responses. Other non-2xx statuses fail immediately.
func (c *Client) query(ctx context.Context, params url.Values, out interface{}) error {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, offersTable, params.Encode())
	if c.debug {
		c.logger.Debug("request", zap.String("url", reqURL))
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		body, retry, err := c.doRequest(ctx, reqURL)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("%w: decoding response: %v", domain.ErrStoreUnavailable, err)
			}
			return nil
		}

		lastErr = err
		if !retry || attempt == maxAttempts {
			break
		}

		c.logger.Warn("request failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.backoff(attempt)):
		}
	}

	return lastErr
}

// doRequest executes one request. retry reports whether the failure is
// worth another attempt.
func (c *Client) doRequest(ctx context.Context, reqURL string) (body []byte, retry bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Korzina/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := readLimitedBody(resp.Body, maxErrorBody)
		retry = resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retry, fmt.Errorf("%w: status %d: %s", domain.ErrStoreUnavailable, resp.StatusCode, msg)
	}

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("%w: reading response: %v", domain.ErrStoreUnavailable, err)
	}
	return body, false, nil
}
