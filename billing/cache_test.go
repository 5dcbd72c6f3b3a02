package billing

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, _ := newTestCacheServer(t)
	return cache
}

func newTestCacheServer(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCacheFetchJSONUsesStoredValue(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (interface{}, error) {
		calls++
		return map[string]int{"parcels": calls}, nil
	}

	key, err := cache.BuildKey(ctx, "analytics", "snapshot", "-")
	require.NoError(t, err)
	assert.Equal(t, "analytics:snapshot:-:1", key)

	var first, second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestCacheBumpInvalidates(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "k")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "k")
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestNilCachePassesThrough(t *testing.T) {
	var cache *Cache
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "a:b", key)
	require.NoError(t, cache.Bump(ctx))

	var out []string
	err = cache.FetchJSON(ctx, key, &out, func(context.Context) (interface{}, error) {
		return []string{"x"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, out)

	assert.Error(t, cache.FetchJSON(ctx, key, &out, nil))
}

func TestAnalyticsServiceCachesUntilWrite(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	entries := newMemEntryRepo(flatEntry(1, day(2024, 4, 1), 10, 700, "Udupi"))
	vendors := newMemVendorRepo(analyticsVendors()...)
	analytics := NewAnalyticsService(entries, vendors, cache)
	analytics.Now = fixedNow(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))

	first, err := analytics.BuildAnalytics(ctx, nil)
	require.NoError(t, err)
	_, err = analytics.BuildAnalytics(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, entries.lists)

	entrySvc := NewEntryService(entries, vendors, &recordingSink{}, cache, nil)
	_, err = entrySvc.CreateEntry(ctx, "clerk", entryInput("2024-04-09", "1", "5", "350"))
	require.NoError(t, err)

	second, err := analytics.BuildAnalytics(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, entries.lists)
	assert.Greater(t, second.Revenue, first.Revenue)
}

func TestAnalyticsSurvivesRedisOutage(t *testing.T) {
	cache, mr := newTestCacheServer(t)
	ctx := context.Background()

	entries := newMemEntryRepo(flatEntry(1, day(2024, 4, 1), 10, 700, "Udupi"))
	analytics := NewAnalyticsService(entries, newMemVendorRepo(analyticsVendors()...), cache)
	analytics.Now = fixedNow(time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC))

	mr.Close()

	snap, err := analytics.BuildAnalytics(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 700.0, snap.Revenue)
	assert.Equal(t, 1, entries.lists)
}

func TestFetchJSONLoadsWhenRedisDown(t *testing.T) {
	cache, mr := newTestCacheServer(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "analytics", "snapshot", "-")
	require.NoError(t, err)
	mr.Close()

	var out map[string]int
	err = cache.FetchJSON(ctx, key, &out, func(context.Context) (interface{}, error) {
		return map[string]int{"parcels": 10}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out["parcels"])

	_, err = cache.BuildKey(ctx, "analytics")
	assert.Error(t, err)
}
