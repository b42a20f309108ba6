package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// SnapshotSource supplies the snapshots a publisher fans out. It is
// satisfied by OccupancyService.
type SnapshotSource interface {
	Snapshots(ctx context.Context) ([]model.OccupancySnapshot, error)
}

// SnapshotPublisher recomputes occupancy on a fixed interval and fans
// the result out to subscribers. Each subscriber gets its own ticker
// goroutine, so a slow consumer cannot stall the others; a tick whose
// send would block is dropped, and a tick whose computation fails is
// skipped and logged while the stream stays open.
type SnapshotPublisher struct {
	source   SnapshotSource
	interval time.Duration
}

// NewSnapshotPublisher builds a publisher over source. A non-positive
// interval falls back to five seconds.
func NewSnapshotPublisher(source SnapshotSource, interval time.Duration) *SnapshotPublisher {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &SnapshotPublisher{source: source, interval: interval}
}

// Interval reports the publish period.
func (p *SnapshotPublisher) Interval() time.Duration { return p.interval }

// Subscribe starts a snapshot stream. The first snapshot is computed
// immediately, then one per interval. The returned cancel function
// stops the stream and closes the channel; calling it more than once
// is safe.
func (p *SnapshotPublisher) Subscribe(ctx context.Context) (<-chan []model.OccupancySnapshot, func()) {
	ch := make(chan []model.OccupancySnapshot, 1)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() { once.Do(func() { close(done) }) }

	go func() {
		defer close(ch)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick(ctx, ch)
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick(ctx, ch)
			}
		}
	}()
	return ch, cancel
}

// tick computes one snapshot set and offers it to the subscriber
// without blocking.
func (p *SnapshotPublisher) tick(ctx context.Context, ch chan<- []model.OccupancySnapshot) {
	snaps, err := p.source.Snapshots(ctx)
	if err != nil {
		log.Printf("snapshot-publisher: compute failed: %v", err)
		return
	}
	select {
	case ch <- snaps:
	default:
		// subscriber still digesting the previous tick; drop this one
	}
}
