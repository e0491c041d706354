package cachemanager

// ReadThroughCache loads missing values with a caller-supplied function and
// remembers successful results. Errors are never cached.
type ReadThroughCache[V any] struct {
	cache CacheManager[V]
}

// NewReadThroughCache wraps cache.
func NewReadThroughCache[V any](cache CacheManager[V]) *ReadThroughCache[V] {
	return &ReadThroughCache[V]{cache: cache}
}

// Get returns the cached value for key or calls load and caches its result.
func (r *ReadThroughCache[V]) Get(key string, load func() (V, error)) (V, error) {
	if value, ok := r.cache.Get(key); ok {
		return value, nil
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value)
	return value, nil
}

// Invalidate drops every cached value.
func (r *ReadThroughCache[V]) Invalidate() {
	r.cache.Flush()
}
