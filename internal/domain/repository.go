package domain

import (
	"context"
	"time"
)

// OfferStore is the read side of the offers table populated by ingestion.
// Implementations must fail with an error rather than return a partial
// catalog.
type OfferStore interface {
	GetAllOffers(ctx context.Context) ([]Offer, error)
	GetOffersBySeller(ctx context.Context, sellerName string) ([]Offer, error)
	ListSellers(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
