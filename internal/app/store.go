// Package app wires configuration into the concrete offer store and
// services shared by the server and the CLI.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kuinque/korzina/config"
	"github.com/kuinque/korzina/internal/domain"
	"github.com/kuinque/korzina/internal/infrastructure/cache"
	"github.com/kuinque/korzina/internal/infrastructure/postgres"
	"github.com/kuinque/korzina/internal/infrastructure/supabase"
	"github.com/kuinque/korzina/internal/usecase"
)

// Store is the configured offer store plus whatever must be closed with it
type Store struct {
	domain.OfferStore
	closers []func() error
}

// Close releases connections held by the store and its cache
func (s *Store) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// OpenStore builds the offer store selected by cfg.Store and wraps it in a
// snapshot cache unless cfg.Cache.Type is "none".
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store := &Store{}

	switch cfg.Store.Type {
	case config.StorePostgres:
		pg, err := postgres.Open(postgres.Config{
			DSN:          cfg.Store.PostgresDSN,
			MaxOpenConns: cfg.Store.MaxOpenConns,
			MaxIdleConns: cfg.Store.MaxIdleConns,
		})
		if err != nil {
			return nil, err
		}
		store.OfferStore = pg
		store.closers = append(store.closers, pg.Close)
	case config.StoreSupabase:
		client := supabase.NewClient(cfg.Store.SupabaseURL, cfg.Store.SupabaseKey, cfg.Store.RateLimit, logger)
		if cfg.Server.Environment == "development" {
			client.SetDebug(true)
		}
		store.OfferStore = client
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	switch cfg.Cache.Type {
	case config.CacheMemory:
		store.OfferStore = cache.NewOfferStore(store.OfferStore, cache.NewMemoryCache(), cfg.Cache.TTL, logger.Named("cache"))
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cfg.Cache.RedisURL)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		store.closers = append(store.closers, rc.Close)
		store.OfferStore = cache.NewOfferStore(store.OfferStore, rc, cfg.Cache.TTL, logger.Named("cache"))
	}

	logger.Info("offer store ready",
		zap.String("store", cfg.Store.Type),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL))

	return store, nil
}

// SearchConfig maps the matching section onto the search service settings
func SearchConfig(cfg *config.Config) usecase.ShopSearchServiceConfig {
	return usecase.ShopSearchServiceConfig{
		PenaltyPrice:          cfg.Matching.PenaltyPrice,
		PartialFullThreshold:  cfg.Matching.PartialFullThreshold,
		PartialCleanThreshold: cfg.Matching.PartialCleanThreshold,
		StopWords:             cfg.Matching.StopWords,
		Workers:               cfg.Matching.Workers,
	}
}
