package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	cache := NewMemoryCache()
	ctx := context.Background()

	_, ok := cache.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "sim:1", `{"labels":[]}`, 0))
	val, ok := cache.Get(ctx, "sim:1")
	assert.True(t, ok)
	assert.Equal(t, `{"labels":[]}`, val)
}

func TestMemoryCache_Expiry(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "v", time.Minute))

	now = now.Add(59 * time.Second)
	_, ok := cache.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestMemoryCache_SweepDropsExpiredEntries(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Stop()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 500; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("sim:%d", i), "v", time.Millisecond))
	}
	require.NoError(t, cache.Set(ctx, "long", "v", time.Hour))
	require.NoError(t, cache.Set(ctx, "forever", "v", 0))
	assert.Equal(t, 502, cache.Len())

	now = now.Add(time.Second)
	assert.Equal(t, 500, cache.sweep())
	assert.Equal(t, 2, cache.Len())

	_, ok := cache.Get(ctx, "long")
	assert.True(t, ok)
	_, ok = cache.Get(ctx, "forever")
	assert.True(t, ok)
}

func TestMemoryCache_ExpiredReadKeepsFreshValue(t *testing.T) {
	cache := NewMemoryCache()
	defer cache.Stop()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", "stale", time.Minute))

	// A Set lands between Get's read lock and its write lock.
	calls := 0
	cache.now = func() time.Time {
		calls++
		if calls == 1 {
			_ = cache.Set(ctx, "k", "fresh", 0)
		}
		return now.Add(time.Hour)
	}

	_, ok := cache.Get(ctx, "k")
	assert.False(t, ok)

	cache.now = func() time.Time { return now.Add(time.Hour) }
	val, ok := cache.Get(ctx, "k")
	assert.True(t, ok)
	assert.Equal(t, "fresh", val)
}

func TestMemoryCache_StopTwice(t *testing.T) {
	cache := NewMemoryCache()

	assert.NotPanics(t, func() {
		cache.Stop()
		cache.Stop()
	})
}
