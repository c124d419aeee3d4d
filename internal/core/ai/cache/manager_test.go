package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"bread-converter/internal/infrastructure/config"
	"bread-converter/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, maxSize int) (*CacheManager, *time.Time) {
	t.Helper()
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: maxSize, TTL: time.Hour})
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	t.Cleanup(func() { _ = m.Close() })
	return m, &now
}

func TestCacheManagerGetSet(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, 10)
	ctx := context.Background()

	_, err := m.Get(ctx, "convert", "500g flour")
	assert.ErrorIs(t, err, common.ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "convert", "500g flour", `{"id":"1"}`))
	got, err := m.Get(ctx, "convert", "500g flour")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1"}`, got)

	_, err = m.Get(ctx, "ai-parse", "500g flour")
	assert.ErrorIs(t, err, common.ErrCacheMiss, "namespaces do not collide")

	stats := m.Stats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(2), stats["misses"])
}

func TestCacheManagerExpiry(t *testing.T) {
	t.Parallel()
	m, now := newTestManager(t, 10)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "convert", "a", "1"))
	*now = now.Add(2 * time.Hour)

	_, err := m.Get(ctx, "convert", "a")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	assert.Equal(t, 0, m.Stats()["size"])
}

func TestCacheManagerEvictsLeastUsed(t *testing.T) {
	t.Parallel()
	m, now := newTestManager(t, 2)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "convert", "a", "1"))
	*now = now.Add(time.Minute)
	require.NoError(t, m.Set(ctx, "convert", "b", "2"))
	_, err := m.Get(ctx, "convert", "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "convert", "c", "3"))

	_, err = m.Get(ctx, "convert", "b")
	assert.ErrorIs(t, err, common.ErrCacheMiss)
	for _, k := range []string{"a", "c"} {
		_, err := m.Get(ctx, "convert", k)
		assert.NoError(t, err, k)
	}
}

func TestCacheManagerOverwriteAtCapacity(t *testing.T) {
	t.Parallel()
	m, _ := newTestManager(t, 1)
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "convert", "a", "1"))
	require.NoError(t, m.Set(ctx, "convert", "a", "2"))

	got, err := m.Get(ctx, "convert", "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got)
	assert.Equal(t, int64(0), m.Stats()["evictions"])
}

func TestCacheManagerConcurrentAccess(t *testing.T) {
	t.Parallel()
	m := NewManager(config.CacheConfig{Enabled: true, MaxSize: 50, TTL: time.Hour, CleanupInterval: time.Millisecond})
	t.Cleanup(func() { _ = m.Close() })
	ctx := context.Background()

	done := make(chan struct{})
	for w := 0; w < 8; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("%d-%d", w, i%10)
				_ = m.Set(ctx, "convert", key, key)
				_, _ = m.Get(ctx, "convert", key)
			}
		}(w)
	}
	for w := 0; w < 8; w++ {
		<-done
	}
	assert.LessOrEqual(t, m.Stats()["size"].(int), 50)
}

func TestNewStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := New(ctx, config.CacheConfig{Enabled: false})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(ctx, config.CacheConfig{Enabled: true, Backend: config.CacheBackendMemory, MaxSize: 1, TTL: time.Minute})
	require.NoError(t, err)
	assert.IsType(t, &CacheManager{}, store)
	require.NoError(t, store.Close())

	_, err = New(ctx, config.CacheConfig{Enabled: true, Backend: "memcached"})
	assert.Error(t, err)
}
