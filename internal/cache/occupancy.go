// Package cache stores computed occupancy snapshots in Redis so
// repeated dashboard reads do not hit MySQL. Entries have no TTL:
// the allocation engine invalidates the whole cache whenever a write
// changes occupancy, so a cached value is correct until evicted.
package cache

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// OccupancyCache wraps a Redis client. A nil client disables caching:
// every Get misses and every Put/Invalidate is a no-op, so the service
// keeps working against MySQL alone when Redis is unreachable.
type OccupancyCache struct {
	rdb    *redis.Client
	prefix string
}

// NewOccupancyCache constructs a cache with the given key prefix.
// rdb may be nil.
func NewOccupancyCache(rdb *redis.Client, prefix string) *OccupancyCache {
	if prefix == "" {
		prefix = "occupancy"
	}
	return &OccupancyCache{rdb: rdb, prefix: prefix}
}

func (c *OccupancyCache) valueKey(key string) string { return c.prefix + ":" + key }

// keysKey is the Redis SET that tracks every live value key, so
// Invalidate can drop them all without a SCAN.
func (c *OccupancyCache) keysKey() string { return c.prefix + ":keys" }

// Get returns the cached snapshots for key, or (nil, false) on a miss.
// Redis errors and corrupt entries are treated as misses.
func (c *OccupancyCache) Get(ctx context.Context, key string) ([]model.OccupancySnapshot, bool) {
	if c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.valueKey(key)).Bytes()
	if err != nil {
		return nil, false
	}
	var snaps []model.OccupancySnapshot
	if err := json.Unmarshal(raw, &snaps); err != nil {
		return nil, false
	}
	return snaps, true
}

// Put stores snapshots under key and registers the key for later
// invalidation. Failures are swallowed: a cache that cannot store is
// just a cache that misses.
func (c *OccupancyCache) Put(ctx context.Context, key string, snaps []model.OccupancySnapshot) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(snaps)
	if err != nil {
		return
	}
	pipe := c.rdb.Pipeline()
	pipe.Set(ctx, c.valueKey(key), raw, 0)
	pipe.SAdd(ctx, c.keysKey(), c.valueKey(key))
	_, _ = pipe.Exec(ctx)
}

// Invalidate drops every cached entry. It is called after any write
// that can change occupancy (park, release, reconcile, box or yard
// mutation), so stale snapshots are never served.
func (c *OccupancyCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	keys, err := c.rdb.SMembers(ctx, c.keysKey()).Result()
	if err != nil {
		return
	}
	pipe := c.rdb.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, c.keysKey())
	_, _ = pipe.Exec(ctx)
}
