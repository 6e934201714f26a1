package cache

import (
	"context"
	"time"

	goCache "github.com/patrickmn/go-cache"
)

// Cache defines the interface for the engine's memoization caches.
// Instances are scoped to a single totals pass: the totals engine creates
// a fresh cache per computation so that no schedule date or shipping rate
// ever leaks between passes.
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache
	Set(ctx context.Context, key string, value interface{})

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Key prefixes for the engine's pass-scoped entries
const (
	PrefixSyncDate     = "syncdate:v1:"
	PrefixShippingRate = "shiprate:v1:"
)

// InMemoryCache implements Cache using github.com/patrickmn/go-cache.
// Entries never expire on their own; the cache is discarded with its pass.
type InMemoryCache struct {
	cache *goCache.Cache
}

// NewInMemoryCache creates a pass-scoped cache instance.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		cache: goCache.New(goCache.NoExpiration, time.Hour),
	}
}

func (c *InMemoryCache) Get(_ context.Context, key string) (interface{}, bool) {
	return c.cache.Get(key)
}

func (c *InMemoryCache) Set(_ context.Context, key string, value interface{}) {
	c.cache.Set(key, value, goCache.NoExpiration)
}

func (c *InMemoryCache) Delete(_ context.Context, key string) {
	c.cache.Delete(key)
}

func (c *InMemoryCache) Flush(_ context.Context) {
	c.cache.Flush()
}
