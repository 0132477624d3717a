package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// IndexSnapshotKey is the fixed key holding the cached index page body.
const IndexSnapshotKey = "page:index"

// DefaultIndexTTL bounds how long a stale index snapshot may be served.
const DefaultIndexTTL = 20 * time.Second

// PageCache stores a rendered snapshot of the home listing under a fixed key.
// A stored snapshot stays valid until its TTL elapses or InvalidateIndex is
// called; no mutation handler invalidates it, so the home page may serve
// stale content within the TTL window.
type PageCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPageCache returns a PageCache writing through the given client.
// A nil client disables caching; every lookup misses and stores are dropped.
func NewPageCache(rdb *redis.Client, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultIndexTTL
	}
	return &PageCache{rdb: rdb, ttl: ttl}
}

// IndexSnapshot returns the cached index body, if one is stored.
func (p *PageCache) IndexSnapshot(ctx context.Context) ([]byte, bool) {
	if p.rdb == nil {
		return nil, false
	}
	body, err := p.rdb.Get(ctx, IndexSnapshotKey).Bytes()
	if err != nil {
		return nil, false
	}
	return body, true
}

// StoreIndexSnapshot stores the rendered index body under the fixed key.
func (p *PageCache) StoreIndexSnapshot(ctx context.Context, body []byte) error {
	if p.rdb == nil {
		return nil
	}
	return p.rdb.Set(ctx, IndexSnapshotKey, body, p.ttl).Err()
}

// InvalidateIndex drops the stored snapshot, forcing the next index request
// to rebuild from the content store.
func (p *PageCache) InvalidateIndex(ctx context.Context) error {
	if p.rdb == nil {
		return nil
	}
	err := p.rdb.Del(ctx, IndexSnapshotKey).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}
