package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/kuinque/korzina/internal/domain"
)

const cleanupInterval = 10 * time.Minute

// MemoryCache is a thread-safe in-memory cache with TTL support
type MemoryCache struct {
	data *gocache.Cache
}

// NewMemoryCache creates a new in-memory cache. Expired entries are purged
// every 10 minutes.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	value, ok := c.data.Get(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	payload, ok := value.([]byte)
	if !ok {
		return nil, domain.ErrCacheMiss
	}

	return payload, nil
}

// Set stores a copy of value in the cache with TTL
func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	c.data.Set(key, stored, ttl)
	return nil
}

// Delete removes a value from the cache
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.data.Delete(key)
	return nil
}

// Exists checks if a key exists in the cache and is not expired
func (c *MemoryCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := c.data.Get(key)
	return ok, nil
}

// Size returns the current number of items in the cache, possibly including
// expired entries not yet purged.
func (c *MemoryCache) Size() int {
	return c.data.ItemCount()
}

// Clear removes all items from the cache
func (c *MemoryCache) Clear() {
	c.data.Flush()
}
