package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPageCache(t *testing.T, ttl time.Duration) (*PageCache, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewPageCache(rdb, ttl), mr
}

func TestPageCacheStoreAndLookup(t *testing.T) {
	pc, _ := setupPageCache(t, DefaultIndexTTL)
	ctx := context.Background()

	_, ok := pc.IndexSnapshot(ctx)
	assert.False(t, ok, "cache should start empty")

	body := []byte(`{"page":{"items":[]}}`)
	require.NoError(t, pc.StoreIndexSnapshot(ctx, body))

	got, ok := pc.IndexSnapshot(ctx)
	require.True(t, ok)
	assert.Equal(t, body, got)
}

func TestPageCacheServesStaleSnapshotUntilInvalidated(t *testing.T) {
	pc, _ := setupPageCache(t, DefaultIndexTTL)
	ctx := context.Background()

	stale := []byte(`{"page":{"count":1}}`)
	require.NoError(t, pc.StoreIndexSnapshot(ctx, stale))

	// New content appearing in the store does not touch the snapshot;
	// lookups keep returning the old body.
	got, ok := pc.IndexSnapshot(ctx)
	require.True(t, ok)
	assert.Equal(t, stale, got)

	require.NoError(t, pc.InvalidateIndex(ctx))

	_, ok = pc.IndexSnapshot(ctx)
	assert.False(t, ok, "snapshot should be gone after invalidation")
}

func TestPageCacheSnapshotExpires(t *testing.T) {
	pc, mr := setupPageCache(t, DefaultIndexTTL)
	ctx := context.Background()

	require.NoError(t, pc.StoreIndexSnapshot(ctx, []byte("body")))

	mr.FastForward(DefaultIndexTTL + time.Second)

	_, ok := pc.IndexSnapshot(ctx)
	assert.False(t, ok, "snapshot should expire after the TTL")
}

func TestPageCacheNilClientMissesQuietly(t *testing.T) {
	pc := NewPageCache(nil, DefaultIndexTTL)
	ctx := context.Background()

	assert.NoError(t, pc.StoreIndexSnapshot(ctx, []byte("body")))
	_, ok := pc.IndexSnapshot(ctx)
	assert.False(t, ok)
	assert.NoError(t, pc.InvalidateIndex(ctx))
}
