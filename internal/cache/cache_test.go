package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"hirehub/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	var got payload
	found, err := c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "k", payload{Name: "nursing", Count: 2}, 0))
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, payload{Name: "nursing", Count: 2}, got)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Keys)
	assert.InDelta(t, 0.5, stats.HitRatio, 0.001)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var v int
	found, err := c.Get(ctx, "short", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheDeletePrefix(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "stats:jobs", 1, 0))
	require.NoError(t, c.Set(ctx, "stats:apps", 2, 0))
	require.NoError(t, c.Set(ctx, "other", 3, 0))

	require.NoError(t, c.DeletePrefix(ctx, "stats:"))

	var v int
	found, _ := c.Get(ctx, "stats:jobs", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "stats:apps", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "other", &v)
	assert.True(t, found)
	assert.Equal(t, 3, v)
}

func TestMemoryCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemoryCache(time.Minute, 2, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	time.Sleep(time.Millisecond)
	require.NoError(t, c.Set(ctx, "b", 2, 0))
	time.Sleep(time.Millisecond)

	var v int
	found, _ := c.Get(ctx, "a", &v) // a is now the most recently used
	require.True(t, found)
	time.Sleep(time.Millisecond)

	require.NoError(t, c.Set(ctx, "c", 3, 0))

	found, _ = c.Get(ctx, "b", &v)
	assert.False(t, found)
	found, _ = c.Get(ctx, "a", &v)
	assert.True(t, found)
	found, _ = c.Get(ctx, "c", &v)
	assert.True(t, found)
}

func TestNewSelectsProvider(t *testing.T) {
	memory, err := New(config.CacheConfig{Provider: "memory"}, zap.NewNop())
	require.NoError(t, err)
	defer memory.Close()
	stats, err := memory.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ProviderMemory, stats.Provider)

	none, err := New(config.CacheConfig{Provider: "none"}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, none.Set(context.Background(), "k", 1, 0))
	var v int
	found, err := none.Get(context.Background(), "k", &v)
	require.NoError(t, err)
	assert.False(t, found)

	_, err = New(config.CacheConfig{Provider: "memcached"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRemember(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10, zap.NewNop())
	defer c.Close()
	ctx := context.Background()

	calls := 0
	compute := func() ([]string, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	first, err := Remember(ctx, c, zap.NewNop(), "key", 0, compute)
	require.NoError(t, err)
	second, err := Remember(ctx, c, zap.NewNop(), "key", 0, compute)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	boom := errors.New("boom")
	_, err = Remember(ctx, c, zap.NewNop(), "failing", 0, func() (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)

	var v int
	found, _ := c.Get(ctx, "failing", &v)
	assert.False(t, found, "errors are not cached")
}
