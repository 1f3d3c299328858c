package cachemanager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type blob struct {
	Data []byte
	OK   bool
}

func TestInMemoryCacheManager_GetExistingValue(t *testing.T) {
	cache := NewInMemoryCacheManager[string, blob]("slot", DefaultExpiration, DefaultCleanupInterval)
	want := blob{Data: []byte(`[]`), OK: true}
	cache.Set(context.Background(), "clients", want, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "clients")
	require.True(t, ok)
	require.Equal(t, want, got)
}

func TestInMemoryCacheManager_GetMissing(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("slot", DefaultExpiration, DefaultCleanupInterval)

	got, ok := cache.Get(context.Background(), "clients")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_GetWrongType(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("slot", DefaultExpiration, DefaultCleanupInterval)
	cache.cache.Set("clients", 123, DefaultExpiration)

	got, ok := cache.Get(context.Background(), "clients")
	require.False(t, ok)
	require.Empty(t, got)
}

func TestInMemoryCacheManager_Expiry(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("slot", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "clients", "x", time.Millisecond)

	require.Eventually(t, func() bool {
		_, ok := cache.Get(context.Background(), "clients")
		return !ok
	}, time.Second, 5*time.Millisecond)
}

func TestInMemoryCacheManager_GetWithRefreshExtendsTTL(t *testing.T) {
	cache := NewInMemoryCacheManager[string, string]("slot", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(context.Background(), "clients", "x", 50*time.Millisecond)

	_, ok := cache.GetWithRefresh(context.Background(), "clients", time.Hour)
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)
	got, ok := cache.Get(context.Background(), "clients")
	require.True(t, ok)
	require.Equal(t, "x", got)
}

func TestInMemoryCacheManager_DeleteAndFlush(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemoryCacheManager[string, string]("slot", DefaultExpiration, DefaultCleanupInterval)
	cache.Set(ctx, "a", "1", DefaultExpiration)
	cache.Set(ctx, "b", "2", DefaultExpiration)

	require.NoError(t, cache.Delete(ctx, "a"))
	_, ok := cache.Get(ctx, "a")
	require.False(t, ok)

	require.NoError(t, cache.Flush(ctx))
	_, ok = cache.Get(ctx, "b")
	require.False(t, ok)
}
