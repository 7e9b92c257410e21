package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/metrics"
)

const snapshotKey = "offers:all"

// OfferStore caches the full catalog snapshot of another store. Only
// GetAllOffers is cached; the other calls go straight through. Cache
// failures fall back to the wrapped store, store errors are returned
// untouched.
type OfferStore struct {
	store  domain.OfferStore
	cache  domain.CacheRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewOfferStore wraps store with a snapshot cache
func NewOfferStore(store domain.OfferStore, cache domain.CacheRepository, ttl time.Duration, logger *zap.Logger) *OfferStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfferStore{
		store:  store,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// GetAllOffers returns the cached snapshot or loads and caches a fresh one
func (s *OfferStore) GetAllOffers(ctx context.Context) ([]domain.Offer, error) {
	if payload, err := s.cache.Get(ctx, snapshotKey); err == nil {
		var offers []domain.Offer
		if err := json.Unmarshal(payload, &offers); err == nil {
			metrics.CacheHitsTotal.Inc()
			return offers, nil
		}
		s.logger.Warn("discarding undecodable catalog snapshot")
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("catalog cache read failed", zap.Error(err))
	}
	metrics.CacheMissesTotal.Inc()

	offers, err := s.store.GetAllOffers(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(offers)
	if err != nil {
		s.logger.Warn("encoding catalog snapshot", zap.Error(err))
		return offers, nil
	}
	if err := s.cache.Set(ctx, snapshotKey, payload, s.ttl); err != nil {
		s.logger.Warn("catalog cache write failed", zap.Error(err))
	}

	return offers, nil
}

// GetOffersBySeller is not cached
func (s *OfferStore) GetOffersBySeller(ctx context.Context, sellerName string) ([]domain.Offer, error) {
	return s.store.GetOffersBySeller(ctx, sellerName)
}

// ListSellers is not cached
func (s *OfferStore) ListSellers(ctx context.Context) ([]string, error) {
	return s.store.ListSellers(ctx)
}

// Ping checks the wrapped store, not the cache
func (s *OfferStore) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Invalidate drops the cached snapshot
func (s *OfferStore) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, snapshotKey)
}
