package cachemanager

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInMemoryCacheManager(t *testing.T) {
	cache := NewInMemoryCacheManager[string, int]("test", DefaultExpiration, DefaultCleanupInterval)

	_, found := cache.Get("missing")
	require.False(t, found)

	cache.Set("a", 1, 0)
	cache.Set("b", 2, time.Hour)

	got, found := cache.Get("a")
	require.True(t, found)
	require.Equal(t, 1, got)

	cache.Delete("a", "missing")
	_, found = cache.Get("a")
	require.False(t, found)

	cache.Flush()
	_, found = cache.Get("b")
	require.False(t, found)
}

func TestReadThroughCache(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("test", DefaultExpiration, DefaultCleanupInterval)
	loads := 0
	rt := NewReadThroughCache(cache, func(key string) (string, error) {
		loads++
		if key == "bad" {
			return "", fmt.Errorf("load failed")
		}
		return "value-" + key, nil
	})

	got, err := rt.Get("a", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "value-a", got)

	got, err = rt.Get("a", time.Hour)
	require.NoError(t, err)
	require.Equal(t, "value-a", got)
	require.Equal(t, 1, loads)

	// Errors pass through and are never cached.
	_, err = rt.Get("bad", time.Hour)
	require.Error(t, err)
	_, err = rt.Get("bad", time.Hour)
	require.Error(t, err)
	require.Equal(t, 3, loads)

	rt.Invalidate("a")
	_, err = rt.Get("a", time.Hour)
	require.NoError(t, err)
	require.Equal(t, 4, loads)
}
