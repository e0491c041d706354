// Package cachemanager provides small typed caches over patrickmn/go-cache.
package cachemanager

// CacheManager stores values of type V by string key.
type CacheManager[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Delete(keys ...string)
	Flush()
	ItemCount() int
}
