package memory

import (
	"context"
	"testing"
	"time"

	"github.com/esasma/API-Recettes/internal/ports/outbound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*CacheRepository, *time.Time) {
	t.Helper()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewCacheRepository(0)
	cache.now = func() time.Time { return now }
	t.Cleanup(cache.Close)
	return cache, &now
}

func TestCacheRepository_SetThenGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "recipe:detail:1", []byte(`{"recipe_id":1}`), time.Minute))

	value, err := cache.Get(ctx, "recipe:detail:1")
	require.NoError(t, err)
	assert.Equal(t, `{"recipe_id":1}`, string(value))
}

func TestCacheRepository_MissingKey(t *testing.T) {
	cache, _ := newTestCache(t)

	_, err := cache.Get(context.Background(), "absent")

	assert.ErrorIs(t, err, outbound.ErrCacheMiss)
}

func TestCacheRepository_ExpiredEntryIsAMiss(t *testing.T) {
	cache, now := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Minute))

	*now = now.Add(2 * time.Minute)

	_, err := cache.Get(ctx, "k")
	assert.ErrorIs(t, err, outbound.ErrCacheMiss)

	cache.evictExpired()
	assert.Zero(t, cache.Len())
}

func TestCacheRepository_DeleteManyKeys(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, cache.Set(ctx, "b", []byte("2"), 0))
	require.NoError(t, cache.Set(ctx, "c", []byte("3"), 0))

	require.NoError(t, cache.Delete(ctx, "a", "b", "unknown"))

	assert.Equal(t, 1, cache.Len())
	_, err := cache.Get(ctx, "c")
	assert.NoError(t, err)
}

func TestCacheRepository_StoredValueIsCopied(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()
	value := []byte("original")
	require.NoError(t, cache.Set(ctx, "k", value, time.Minute))

	value[0] = 'X'

	stored, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "original", string(stored))
}
