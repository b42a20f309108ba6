// Package service holds the allocation engine and the occupancy
// aggregation pipeline that sit between the HTTP handlers and the
// repositories.
package service

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
	"github.com/iliyamo/fleet-yard-manager/internal/queue"
	"github.com/iliyamo/fleet-yard-manager/internal/repository"
	"github.com/iliyamo/fleet-yard-manager/internal/utils"
)

// ParkRequest asks the engine to place a vehicle in a yard. When
// PreferredBoxID is set that exact box is used or the request fails;
// otherwise the lowest-id free box of the yard is taken.
type ParkRequest struct {
	Plate          string  `json:"plate"`
	YardID         uint64  `json:"yard_id"`
	PreferredBoxID *uint64 `json:"preferred_box_id"`
	Notes          *string `json:"notes"`
}

// Ticket is the receipt of a successful park operation.
type Ticket struct {
	ParkingID uint64    `json:"parking_id"`
	Plate     string    `json:"plate"`
	VehicleID uint64    `json:"vehicle_id"`
	BoxID     uint64    `json:"box_id"`
	BoxName   string    `json:"box_name"`
	YardID    uint64    `json:"yard_id"`
	YardName  string    `json:"yard_name"`
	EnteredAt time.Time `json:"entered_at"`
}

// ReleaseReceipt is the receipt of a successful release operation.
type ReleaseReceipt struct {
	Plate         string    `json:"plate"`
	VehicleID     uint64    `json:"vehicle_id"`
	BoxID         uint64    `json:"box_id"`
	BoxName       string    `json:"box_name"`
	YardID        uint64    `json:"yard_id"`
	YardName      string    `json:"yard_name"`
	EnteredAt     time.Time `json:"entered_at"`
	ExitedAt      time.Time `json:"exited_at"`
	ParkedMinutes *int64    `json:"parked_minutes"`
}

// AllocationService runs the park/release/reconcile state machine.
// Every state change happens inside one MySQL transaction with the
// affected rows locked, so two concurrent requests can never assign
// the same box or double-park the same vehicle.
type AllocationService struct {
	vehicles  *repository.VehicleRepo
	boxes     *repository.BoxRepo
	parkings  *repository.ParkingRepo
	movements *repository.MovementLogRepo
	yards     *repository.YardRepo
	occupancy *OccupancyService

	// publish is swappable so tests can capture events instead of
	// dialing a broker.
	publish func(ctx context.Context, ev queue.VehicleMovedEvent) error
}

// NewAllocationService wires the engine to its repositories and the
// occupancy service whose cache it invalidates after every write.
func NewAllocationService(
	vehicles *repository.VehicleRepo,
	boxes *repository.BoxRepo,
	parkings *repository.ParkingRepo,
	movements *repository.MovementLogRepo,
	yards *repository.YardRepo,
	occupancy *OccupancyService,
) *AllocationService {
	return &AllocationService{
		vehicles:  vehicles,
		boxes:     boxes,
		parkings:  parkings,
		movements: movements,
		yards:     yards,
		occupancy: occupancy,
		publish:   PublishVehicleMoved,
	}
}

// SetPublisher replaces the event publish function. Passing nil
// disables event publishing entirely.
func (s *AllocationService) SetPublisher(fn func(ctx context.Context, ev queue.VehicleMovedEvent) error) {
	s.publish = fn
}

// Park places the vehicle with the given plate into a box of the
// requested yard. Failure modes:
//
//	ErrInvalidInput     – plate does not normalize to a valid format
//	ErrVehicleNotFound  – plate is valid but not registered
//	ErrConflict         – vehicle already parked, or preferred box taken
//	ErrNotAllowed       – preferred box is under maintenance
//	ErrNoFreeBox        – yard has no free box left
func (s *AllocationService) Park(ctx context.Context, req ParkRequest) (*Ticket, error) {
	plate := utils.NormalizePlate(req.Plate)
	if plate == "" {
		return nil, repository.ErrInvalidInput
	}
	vehicle, err := s.vehicles.GetByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	tx, err := s.parkings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// A vehicle may hold at most one active session.
	if _, err := s.parkings.ActiveByVehicleTx(ctx, tx, vehicle.ID); err == nil {
		return nil, repository.ErrConflict
	} else if err != repository.ErrNoActiveParking {
		return nil, err
	}

	box, err := s.resolveBoxTx(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	if err := s.boxes.OccupyTx(ctx, tx, box.ID); err != nil {
		return nil, err
	}
	parking := &model.Parking{VehicleID: vehicle.ID, BoxID: box.ID, YardID: box.YardID}
	if err := s.parkings.CreateTx(ctx, tx, parking); err != nil {
		return nil, err
	}
	if err := s.movements.RecordEntryTx(ctx, tx, vehicle.ID, box.ID, box.YardID, req.Notes); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.occupancy.InvalidateCache(ctx)

	yardName := ""
	if y, err := s.yards.GetByID(ctx, box.YardID); err == nil {
		yardName = y.Name
	}
	now := time.Now().UTC()
	s.publishMoved(ctx, queue.VehicleMovedEvent{
		Direction:  model.MovementEntry,
		Plate:      plate,
		VehicleID:  vehicle.ID,
		BoxID:      box.ID,
		BoxName:    box.Name,
		YardID:     box.YardID,
		YardName:   yardName,
		OccurredAt: now.Format(time.RFC3339),
	})

	return &Ticket{
		ParkingID: parking.ID,
		Plate:     plate,
		VehicleID: vehicle.ID,
		BoxID:     box.ID,
		BoxName:   box.Name,
		YardID:    box.YardID,
		YardName:  yardName,
		EnteredAt: now,
	}, nil
}

// resolveBoxTx picks and locks the box a park request will use.
func (s *AllocationService) resolveBoxTx(ctx context.Context, tx *sql.Tx, req ParkRequest) (*model.Box, error) {
	if req.PreferredBoxID == nil {
		return s.boxes.FirstFreeTx(ctx, tx, req.YardID)
	}
	box, err := s.boxes.GetByIDTx(ctx, tx, *req.PreferredBoxID)
	if err != nil {
		return nil, err
	}
	if req.YardID != 0 && box.YardID != req.YardID {
		return nil, repository.ErrInvalidInput
	}
	switch box.Status {
	case model.BoxMaintenance:
		return nil, repository.ErrNotAllowed
	case model.BoxOccupied:
		return nil, repository.ErrConflict
	}
	// Status alone is not trusted; an active session on the box wins.
	taken, err := s.parkings.ActiveExistsForBoxTx(ctx, tx, box.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, repository.ErrConflict
	}
	return box, nil
}

// Release ends the active session of the vehicle with the given plate.
// The EXIT movement row is written before the box and session rows
// change, so the log always reflects the state the exit was computed
// from; any failure rolls the whole release back.
func (s *AllocationService) Release(ctx context.Context, rawPlate string, notes *string) (*ReleaseReceipt, error) {
	plate := utils.NormalizePlate(rawPlate)
	if plate == "" {
		return nil, repository.ErrInvalidInput
	}
	vehicle, err := s.vehicles.GetByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}

	tx, err := s.parkings.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	parking, err := s.parkings.ActiveByVehicleTx(ctx, tx, vehicle.ID)
	if err != nil {
		return nil, err
	}
	minutes, err := s.movements.RecordExitTx(ctx, tx, vehicle.ID, parking.BoxID, parking.YardID, notes)
	if err != nil {
		return nil, err
	}
	if err := s.boxes.FreeTx(ctx, tx, parking.BoxID); err != nil {
		return nil, err
	}
	if err := s.parkings.CloseTx(ctx, tx, parking.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	s.occupancy.InvalidateCache(ctx)

	boxName := ""
	if b, err := s.boxes.GetByID(ctx, parking.BoxID); err == nil {
		boxName = b.Name
	}
	yardName := ""
	if y, err := s.yards.GetByID(ctx, parking.YardID); err == nil {
		yardName = y.Name
	}
	now := time.Now().UTC()
	s.publishMoved(ctx, queue.VehicleMovedEvent{
		Direction:     model.MovementExit,
		Plate:         plate,
		VehicleID:     vehicle.ID,
		BoxID:         parking.BoxID,
		BoxName:       boxName,
		YardID:        parking.YardID,
		YardName:      yardName,
		ParkedMinutes: minutes,
		OccurredAt:    now.Format(time.RFC3339),
	})

	return &ReleaseReceipt{
		Plate:         plate,
		VehicleID:     vehicle.ID,
		BoxID:         parking.BoxID,
		BoxName:       boxName,
		YardID:        parking.YardID,
		YardName:      yardName,
		EnteredAt:     parking.EnteredAt,
		ExitedAt:      now,
		ParkedMinutes: minutes,
	}, nil
}

// Reconcile repairs boxes whose OCCUPIED status has drifted away from
// the parkings table and returns how many were fixed. The cache is
// dropped only when something actually changed.
func (s *AllocationService) Reconcile(ctx context.Context) (int64, error) {
	fixed, err := s.boxes.ReconcileInconsistent(ctx)
	if err != nil {
		return 0, err
	}
	if fixed > 0 {
		s.occupancy.InvalidateCache(ctx)
	}
	return fixed, nil
}

// publishMoved sends a movement event best-effort. A broker outage
// must never fail a park or release that already committed.
func (s *AllocationService) publishMoved(ctx context.Context, ev queue.VehicleMovedEvent) {
	if s.publish == nil {
		return
	}
	if err := s.publish(ctx, ev); err != nil {
		log.Printf("allocation: publish movement event failed: %v", err)
	}
}
