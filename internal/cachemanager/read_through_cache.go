package cachemanager

import "time"

// ReadThroughCache wraps a loader function with a CacheManager: misses call
// the loader and store its result, errors are never cached.
type ReadThroughCache[K ~string, V any] struct {
	cache CacheManager[K, V]
	fn    func(key K) (V, error)
}

// NewReadThroughCache creates a read-through cache around fn.
func NewReadThroughCache[K ~string, V any](cache CacheManager[K, V], fn func(key K) (V, error)) *ReadThroughCache[K, V] {
	return &ReadThroughCache[K, V]{cache: cache, fn: fn}
}

// Get returns the cached value for key, loading and caching it on a miss.
func (r *ReadThroughCache[K, V]) Get(key K, ttl time.Duration) (V, error) {
	if value, ok := r.cache.Get(key); ok {
		return value, nil
	}

	value, err := r.fn(key)
	if err != nil {
		return value, err
	}

	r.cache.Set(key, value, ttl)
	return value, nil
}

// Invalidate drops any cached entries for the given keys.
func (r *ReadThroughCache[K, V]) Invalidate(keys ...K) {
	r.cache.Delete(keys...)
}

// Flush drops every cached entry.
func (r *ReadThroughCache[K, V]) Flush() {
	r.cache.Flush()
}
