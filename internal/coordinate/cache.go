package coordinate

import (
	"time"

	"github.com/zjrosen/markers/internal/cachemanager"
	"github.com/zjrosen/markers/internal/log"
	"github.com/zjrosen/markers/internal/marker"
)

const resolvedTTL = time.Minute

// CachedResolver memoizes resolved anchor values.
//
// It registers itself as a listener on the marker list and flushes the
// cache whenever the list changes, so stale positions are never served.
// Register it with list.AddListener after construction, or use
// NewCachedListResolver which does both.
type CachedResolver struct {
	inner Resolver
	cache *cachemanager.ReadThroughCache[string, float64]
}

// NewCachedResolver wraps an arbitrary resolver with a read-through cache.
func NewCachedResolver(inner Resolver) *CachedResolver {
	mgr := cachemanager.NewInMemoryCacheManager[string, float64](
		"resolved-coordinates",
		cachemanager.DefaultExpiration,
		cachemanager.DefaultCleanupInterval,
	)
	return &CachedResolver{
		inner: inner,
		cache: cachemanager.NewReadThroughCache(mgr, inner.ResolveAnchor),
	}
}

// NewCachedListResolver builds a list resolver over list, wraps it in a
// cache, and registers the cache for change-driven invalidation.
func NewCachedListResolver(list *marker.List, extern Resolver) *CachedResolver {
	r := NewCachedResolver(NewListResolver(list, extern))
	list.AddListener(r)
	return r
}

// ResolveAnchor implements Resolver.
func (c *CachedResolver) ResolveAnchor(name string) (float64, error) {
	return c.cache.Get(name, resolvedTTL)
}

// MarkersChanged implements marker.Listener: any list change invalidates
// every cached value, since anchors may depend on each other.
func (c *CachedResolver) MarkersChanged(*marker.List) {
	log.Debug(log.CatCache, "marker list changed, flushing resolved values")
	c.cache.Flush()
}

// ListClosing implements marker.Listener.
func (c *CachedResolver) ListClosing(*marker.List) {
	c.cache.Flush()
}
