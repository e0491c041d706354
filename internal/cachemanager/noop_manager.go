package cachemanager

// NoopCacheManager stores nothing. Every Get misses.
type NoopCacheManager[V any] struct{}

func (NoopCacheManager[V]) Get(string) (V, bool) {
	var zero V
	return zero, false
}

func (NoopCacheManager[V]) Set(string, V)    {}
func (NoopCacheManager[V]) Delete(...string) {}
func (NoopCacheManager[V]) Flush()           {}
func (NoopCacheManager[V]) ItemCount() int   { return 0 }
