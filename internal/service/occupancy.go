package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/fleet-yard-manager/internal/cache"
	"github.com/iliyamo/fleet-yard-manager/internal/model"
	"github.com/iliyamo/fleet-yard-manager/internal/repository"
)

// OccupancyFilter narrows and orders aggregated snapshots. Yard
// criteria (name, status, box-count bounds) are pushed into the yards
// query; the numeric bounds apply AFTER aggregation: a yard is
// computed first, then kept or dropped based on its numbers.
type OccupancyFilter struct {
	YardName     string   // substring match on yard name, pushed to SQL
	YardStatus   string   // keep yards in this status only (ACTIVE/INACTIVE), pushed to SQL
	BoxesMin     *int     // keep yards owning at least this many boxes, pushed to SQL
	BoxesMax     *int     // keep yards owning at most this many boxes, pushed to SQL
	MinRate      *float64 // keep yards at or above this occupancy percentage
	MaxRate      *float64 // keep yards at or below this occupancy percentage
	MinFreeBoxes *int     // keep yards with at least this many free boxes
	MinOccupied  *int     // keep yards with at least this many occupied boxes
	MaxOccupied  *int     // keep yards with at most this many occupied boxes
	SortBy       string   // name | rate | occupied (default: yard id order)
}

// Key derives the canonical cache key for this filter. An empty filter
// maps to "all" so unfiltered reads share one cache entry.
func (f *OccupancyFilter) Key() string {
	if f == nil {
		return "all"
	}
	parts := make([]string, 0, 10)
	if f.YardName != "" {
		parts = append(parts, "name="+f.YardName)
	}
	if f.YardStatus != "" {
		parts = append(parts, "status="+f.YardStatus)
	}
	if f.BoxesMin != nil {
		parts = append(parts, fmt.Sprintf("boxmin=%d", *f.BoxesMin))
	}
	if f.BoxesMax != nil {
		parts = append(parts, fmt.Sprintf("boxmax=%d", *f.BoxesMax))
	}
	if f.MinRate != nil {
		parts = append(parts, fmt.Sprintf("minrate=%g", *f.MinRate))
	}
	if f.MaxRate != nil {
		parts = append(parts, fmt.Sprintf("maxrate=%g", *f.MaxRate))
	}
	if f.MinFreeBoxes != nil {
		parts = append(parts, fmt.Sprintf("minfree=%d", *f.MinFreeBoxes))
	}
	if f.MinOccupied != nil {
		parts = append(parts, fmt.Sprintf("minocc=%d", *f.MinOccupied))
	}
	if f.MaxOccupied != nil {
		parts = append(parts, fmt.Sprintf("maxocc=%d", *f.MaxOccupied))
	}
	if f.SortBy != "" {
		parts = append(parts, "sort="+f.SortBy)
	}
	if len(parts) == 0 {
		return "all"
	}
	return strings.Join(parts, "&")
}

// OccupancyService aggregates box and parking counts into per-yard
// occupancy snapshots, optionally served from the Redis cache.
type OccupancyService struct {
	yards    *repository.YardRepo
	boxes    *repository.BoxRepo
	parkings *repository.ParkingRepo
	cache    *cache.OccupancyCache
}

// NewOccupancyService wires the aggregator to its repositories and cache.
func NewOccupancyService(yards *repository.YardRepo, boxes *repository.BoxRepo, parkings *repository.ParkingRepo, c *cache.OccupancyCache) *OccupancyService {
	return &OccupancyService{yards: yards, boxes: boxes, parkings: parkings, cache: c}
}

// snapshotYard computes one yard's snapshot from live counts. The
// occupied count comes from active parkings, not from box status, so
// a drifted status column cannot inflate the rate.
func (s *OccupancyService) snapshotYard(ctx context.Context, y *model.Yard) (*model.OccupancySnapshot, error) {
	total, err := s.boxes.CountByYard(ctx, y.ID)
	if err != nil {
		return nil, err
	}
	occupied, err := s.parkings.CountActiveByYard(ctx, y.ID)
	if err != nil {
		return nil, err
	}
	rate := 0.0
	if total > 0 {
		rate = float64(occupied) / float64(total) * 100
	}
	return &model.OccupancySnapshot{
		YardID:        y.ID,
		YardName:      y.Name,
		YardStatus:    y.Status,
		TotalBoxes:    total,
		OccupiedBoxes: occupied,
		FreeBoxes:     total - occupied,
		OccupancyRate: rate,
		ComputedAt:    time.Now().UTC(),
	}, nil
}

// ForYard computes the snapshot of a single yard directly from MySQL.
func (s *OccupancyService) ForYard(ctx context.Context, yardID uint64) (*model.OccupancySnapshot, error) {
	y, err := s.yards.GetByID(ctx, yardID)
	if err != nil {
		return nil, err
	}
	return s.snapshotYard(ctx, y)
}

// yardFilter translates the filter's yard criteria into the repository
// filter so they run inside the yards query instead of client-side.
func yardFilter(f *OccupancyFilter) *repository.YardFilter {
	if f == nil {
		return nil
	}
	yf := &repository.YardFilter{
		Name:     f.YardName,
		Status:   f.YardStatus,
		BoxesMin: f.BoxesMin,
		BoxesMax: f.BoxesMax,
	}
	if !yf.HasCriteria() {
		return nil
	}
	return yf
}

// All computes snapshots for every matching yard, then applies the
// filter's post-aggregation bounds and ordering.
func (s *OccupancyService) All(ctx context.Context, f *OccupancyFilter) ([]model.OccupancySnapshot, error) {
	yards, err := s.yards.List(ctx, yardFilter(f))
	if err != nil {
		return nil, err
	}
	out := make([]model.OccupancySnapshot, 0, len(yards))
	for i := range yards {
		snap, err := s.snapshotYard(ctx, &yards[i])
		if err != nil {
			return nil, err
		}
		if !keepSnapshot(f, snap) {
			continue
		}
		out = append(out, *snap)
	}
	sortSnapshots(f, out)
	return out, nil
}

// keepSnapshot applies the filter's post-aggregation bounds. Yard
// criteria are not rechecked here; the yards query already applied
// them.
func keepSnapshot(f *OccupancyFilter, s *model.OccupancySnapshot) bool {
	if f == nil {
		return true
	}
	if f.MinRate != nil && s.OccupancyRate < *f.MinRate {
		return false
	}
	if f.MaxRate != nil && s.OccupancyRate > *f.MaxRate {
		return false
	}
	if f.MinFreeBoxes != nil && s.FreeBoxes < *f.MinFreeBoxes {
		return false
	}
	if f.MinOccupied != nil && s.OccupiedBoxes < *f.MinOccupied {
		return false
	}
	if f.MaxOccupied != nil && s.OccupiedBoxes > *f.MaxOccupied {
		return false
	}
	return true
}

// sortSnapshots reorders the snapshots when a sort criterion is set.
// Without one the yard-id ordering of the yards query is kept as-is.
func sortSnapshots(f *OccupancyFilter, snaps []model.OccupancySnapshot) {
	if f == nil || f.SortBy == "" {
		return
	}
	switch f.SortBy {
	case "rate":
		sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].OccupancyRate > snaps[j].OccupancyRate })
	case "occupied":
		sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].OccupiedBoxes > snaps[j].OccupiedBoxes })
	case "name":
		sort.SliceStable(snaps, func(i, j int) bool { return snaps[i].YardName < snaps[j].YardName })
	}
}

// Cached serves All through the occupancy cache: hit returns the
// cached slice untouched, miss computes, stores and returns.
func (s *OccupancyService) Cached(ctx context.Context, f *OccupancyFilter) ([]model.OccupancySnapshot, error) {
	key := f.Key()
	if snaps, ok := s.cache.Get(ctx, key); ok {
		return snaps, nil
	}
	snaps, err := s.All(ctx, f)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, key, snaps)
	return snaps, nil
}

// CachedForYard serves a single yard's snapshot through the cache.
func (s *OccupancyService) CachedForYard(ctx context.Context, yardID uint64) (*model.OccupancySnapshot, error) {
	key := fmt.Sprintf("yard:%d", yardID)
	if snaps, ok := s.cache.Get(ctx, key); ok && len(snaps) == 1 {
		return &snaps[0], nil
	}
	snap, err := s.ForYard(ctx, yardID)
	if err != nil {
		return nil, err
	}
	s.cache.Put(ctx, key, []model.OccupancySnapshot{*snap})
	return snap, nil
}

// Snapshots computes the full unfiltered set. The snapshot publisher
// calls this on every tick.
func (s *OccupancyService) Snapshots(ctx context.Context) ([]model.OccupancySnapshot, error) {
	return s.All(ctx, nil)
}

// InvalidateCache drops every cached snapshot. The allocation engine
// and the admin handlers call this after occupancy-changing writes.
func (s *OccupancyService) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx)
}
