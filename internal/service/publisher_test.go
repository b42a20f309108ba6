package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// stubSource serves canned snapshots and can be told to fail.
type stubSource struct {
	calls atomic.Int64
	fail  atomic.Bool
}

func (s *stubSource) Snapshots(ctx context.Context) ([]model.OccupancySnapshot, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, errors.New("db down")
	}
	return []model.OccupancySnapshot{{YardID: 1, YardName: "North Yard", TotalBoxes: 2, OccupiedBoxes: 1, FreeBoxes: 1, OccupancyRate: 50}}, nil
}

func TestPublisherDeliversInitialSnapshot(t *testing.T) {
	src := &stubSource{}
	p := NewSnapshotPublisher(src, 10*time.Millisecond)

	ch, cancel := p.Subscribe(context.Background())
	defer cancel()

	select {
	case snaps := <-ch:
		if len(snaps) != 1 || snaps[0].YardID != 1 {
			t.Errorf("unexpected snapshot payload: %+v", snaps)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot before timeout")
	}
}

func TestPublisherCancelClosesChannel(t *testing.T) {
	src := &stubSource{}
	p := NewSnapshotPublisher(src, 10*time.Millisecond)

	ch, cancel := p.Subscribe(context.Background())
	cancel()
	cancel() // second cancel must be a no-op

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return // closed as expected
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}

func TestPublisherContextCancellationStopsStream(t *testing.T) {
	src := &stubSource{}
	p := NewSnapshotPublisher(src, 10*time.Millisecond)

	ctx, stop := context.WithCancel(context.Background())
	ch, cancel := p.Subscribe(ctx)
	defer cancel()
	stop()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after context cancellation")
		}
	}
}

func TestPublisherSurvivesComputeErrors(t *testing.T) {
	src := &stubSource{}
	src.fail.Store(true)
	p := NewSnapshotPublisher(src, 5*time.Millisecond)

	ch, cancel := p.Subscribe(context.Background())
	defer cancel()

	// let a few failing ticks pass, then recover
	time.Sleep(30 * time.Millisecond)
	src.fail.Store(false)

	select {
	case snaps, ok := <-ch:
		if !ok {
			t.Fatal("stream closed by compute errors")
		}
		if len(snaps) != 1 {
			t.Errorf("unexpected payload after recovery: %+v", snaps)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot after source recovered")
	}
}

func TestPublisherDefaultInterval(t *testing.T) {
	p := NewSnapshotPublisher(&stubSource{}, 0)
	if p.Interval() != 5*time.Second {
		t.Errorf("Interval() = %v, want 5s", p.Interval())
	}
}
