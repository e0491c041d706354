package cachemanager

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/inchworm-units/inchworm/internal/log"
)

const (
	// NoExpiration keeps entries until they are deleted or flushed.
	NoExpiration = gocache.NoExpiration
	// DefaultCleanupInterval is how often expired entries are purged.
	DefaultCleanupInterval = 30 * time.Minute
)

// InMemoryCacheManager is the go-cache backed CacheManager.
type InMemoryCacheManager[V any] struct {
	useCase    string
	expiration time.Duration
	cache      *gocache.Cache
}

var _ CacheManager[int] = (*InMemoryCacheManager[int])(nil)

// NewInMemoryCacheManager creates a cache. useCase only labels log output.
func NewInMemoryCacheManager[V any](useCase string, expiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase:    useCase,
		expiration: expiration,
		cache:      gocache.New(expiration, cleanupInterval),
	}
}

// Get retrieves an item by key.
func (c *InMemoryCacheManager[V]) Get(key string) (V, bool) {
	var zero V

	value, found := c.cache.Get(key)
	if !found {
		return zero, false
	}

	v, ok := value.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// Set stores value under key with the cache's default expiration.
func (c *InMemoryCacheManager[V]) Set(key string, value V) {
	c.cache.Set(key, value, gocache.DefaultExpiration)
}

// Delete removes the given keys.
func (c *InMemoryCacheManager[V]) Delete(keys ...string) {
	for _, key := range keys {
		c.cache.Delete(key)
	}
}

// Flush removes every item.
func (c *InMemoryCacheManager[V]) Flush() {
	if n := c.cache.ItemCount(); n > 0 {
		log.Debug(log.CatCache, "cache flushed", "cache", c.useCase, "items", n)
	}
	c.cache.Flush()
}

// ItemCount returns the number of cached items, including expired ones
// not yet purged.
func (c *InMemoryCacheManager[V]) ItemCount() int {
	return c.cache.ItemCount()
}
