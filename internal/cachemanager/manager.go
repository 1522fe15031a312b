// Package cachemanager provides a small generic caching layer over
// patrickmn/go-cache, used to memoize resolved coordinate values.
package cachemanager

import "time"

// CacheManager is a generic TTL cache.
type CacheManager[K ~string, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V, ttl time.Duration)
	Delete(keys ...K)
	Flush()
}
