package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

func newTestCache(t *testing.T) (*OccupancyCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewOccupancyCache(rdb, "occupancy"), mr
}

func sampleSnapshots() []model.OccupancySnapshot {
	return []model.OccupancySnapshot{
		{
			YardID:        1,
			YardName:      "North Yard",
			YardStatus:    "ACTIVE",
			TotalBoxes:    10,
			OccupiedBoxes: 4,
			FreeBoxes:     6,
			OccupancyRate: 40,
			ComputedAt:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

func TestCachePutGet(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "all"); ok {
		t.Fatal("expected miss on empty cache")
	}

	want := sampleSnapshots()
	c.Put(ctx, "all", want)

	got, ok := c.Get(ctx, "all")
	if !ok {
		t.Fatal("expected hit after Put")
	}
	if len(got) != 1 || got[0].YardID != 1 || got[0].OccupancyRate != 40 {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestCacheInvalidateDropsAllKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	c.Put(ctx, "all", sampleSnapshots())
	c.Put(ctx, "yard:1", sampleSnapshots())
	c.Put(ctx, "status=ACTIVE", sampleSnapshots())

	c.Invalidate(ctx)

	for _, key := range []string{"all", "yard:1", "status=ACTIVE"} {
		if _, ok := c.Get(ctx, key); ok {
			t.Errorf("key %q survived Invalidate", key)
		}
	}
	if mr.Exists("occupancy:keys") {
		t.Error("key-tracking set survived Invalidate")
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set("occupancy:all", "not json")
	if _, ok := c.Get(ctx, "all"); ok {
		t.Error("corrupt entry should read as a miss")
	}
}

func TestCacheNilClientDegradesGracefully(t *testing.T) {
	c := NewOccupancyCache(nil, "occupancy")
	ctx := context.Background()

	// none of these may panic
	c.Put(ctx, "all", sampleSnapshots())
	c.Invalidate(ctx)
	if _, ok := c.Get(ctx, "all"); ok {
		t.Error("nil client must always miss")
	}
}
