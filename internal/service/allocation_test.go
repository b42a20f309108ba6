package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/fleet-yard-manager/internal/cache"
	"github.com/iliyamo/fleet-yard-manager/internal/queue"
	"github.com/iliyamo/fleet-yard-manager/internal/repository"
)

var (
	vehicleCols = []string{"id", "plate", "chassis", "registration", "manufacturer", "model", "model_year", "ble_tag_id", "status", "created_at", "updated_at"}
	boxCols     = []string{"id", "yard_id", "name", "status", "entry_at", "exit_at", "created_at", "updated_at"}
	parkingCols = []string{"id", "vehicle_id", "box_id", "yard_id", "is_active", "entered_at", "exited_at"}
)

type allocFixture struct {
	svc    *AllocationService
	mock   sqlmock.Sqlmock
	events []queue.VehicleMovedEvent
}

func newAllocFixture(t *testing.T) *allocFixture {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	occ := NewOccupancyService(
		repository.NewYardRepo(db),
		repository.NewBoxRepo(db),
		repository.NewParkingRepo(db),
		cache.NewOccupancyCache(nil, "occupancy"),
	)
	svc := NewAllocationService(
		repository.NewVehicleRepo(db),
		repository.NewBoxRepo(db),
		repository.NewParkingRepo(db),
		repository.NewMovementLogRepo(db),
		repository.NewYardRepo(db),
		occ,
	)
	f := &allocFixture{svc: svc, mock: mock}
	svc.SetPublisher(func(ctx context.Context, ev queue.VehicleMovedEvent) error {
		f.events = append(f.events, ev)
		return nil
	})
	return f
}

func (f *allocFixture) expectVehicleByPlate(plate string, id uint64) {
	now := time.Now()
	f.mock.ExpectQuery(`FROM vehicles WHERE plate`).
		WithArgs(plate).
		WillReturnRows(sqlmock.NewRows(vehicleCols).
			AddRow(id, plate, "CH123", "REG123", "Acme", "Hauler", nil, "TAG-000001", "ACTIVE", now, now))
}

func (f *allocFixture) expectNoActiveParking(vehicleID uint64) {
	f.mock.ExpectQuery(`FROM parkings\s+WHERE vehicle_id = \? AND is_active = 1\s+FOR UPDATE`).
		WithArgs(vehicleID).
		WillReturnError(errNoRows())
}

func errNoRows() error { return sql.ErrNoRows }

func TestParkAssignsFirstFreeBox(t *testing.T) {
	f := newAllocFixture(t)
	now := time.Now()

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.expectNoActiveParking(5)
	f.mock.ExpectQuery(`(?s)FROM boxes\s+WHERE status = 'FREE'.*AND yard_id = \?`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows(boxCols).AddRow(30, 2, "B-3", "FREE", nil, nil, now, now))
	f.mock.ExpectExec(`UPDATE boxes\s+SET status = 'OCCUPIED'`).
		WithArgs(uint64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`INSERT INTO parkings`).
		WithArgs(uint64(5), uint64(30), uint64(2)).
		WillReturnResult(sqlmock.NewResult(11, 1))
	f.mock.ExpectExec(`INSERT INTO movement_logs`).
		WithArgs(uint64(5), uint64(30), uint64(2), nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(`FROM yards WHERE id`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "address", "contact_phone", "created_at", "updated_at"}).
			AddRow(2, "North Yard", "ACTIVE", nil, nil, now, now))

	ticket, err := f.svc.Park(context.Background(), ParkRequest{Plate: "abc-1234", YardID: 2})
	if err != nil {
		t.Fatalf("Park: %v", err)
	}
	if ticket.ParkingID != 11 || ticket.BoxID != 30 || ticket.BoxName != "B-3" {
		t.Errorf("unexpected ticket: %+v", ticket)
	}
	if ticket.Plate != "ABC1234" {
		t.Errorf("plate not normalized on ticket: %q", ticket.Plate)
	}
	if len(f.events) != 1 || f.events[0].Direction != "ENTRY" {
		t.Errorf("expected one ENTRY event, got %+v", f.events)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestParkRejectsInvalidPlate(t *testing.T) {
	f := newAllocFixture(t)
	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "NOPE", YardID: 1})
	if !errors.Is(err, repository.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if len(f.events) != 0 {
		t.Error("no event may be published on rejection")
	}
}

func TestParkRejectsUnknownVehicle(t *testing.T) {
	f := newAllocFixture(t)
	f.mock.ExpectQuery(`FROM vehicles WHERE plate`).
		WithArgs("ABC1234").
		WillReturnError(errNoRows())

	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "ABC1234", YardID: 1})
	if !errors.Is(err, repository.ErrVehicleNotFound) {
		t.Errorf("err = %v, want ErrVehicleNotFound", err)
	}
}

func TestParkRejectsDoubleParking(t *testing.T) {
	f := newAllocFixture(t)
	now := time.Now()

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM parkings\s+WHERE vehicle_id = \? AND is_active = 1\s+FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(parkingCols).AddRow(9, 5, 30, 2, true, now, nil))
	f.mock.ExpectRollback()

	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "ABC1234", YardID: 2})
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if len(f.events) != 0 {
		t.Error("no event may be published on conflict")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestParkFailsWhenYardFull(t *testing.T) {
	f := newAllocFixture(t)

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.expectNoActiveParking(5)
	f.mock.ExpectQuery(`(?s)FROM boxes\s+WHERE status = 'FREE'.*AND yard_id = \?`).
		WithArgs(uint64(2)).
		WillReturnError(errNoRows())
	f.mock.ExpectRollback()

	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "ABC1234", YardID: 2})
	if !errors.Is(err, repository.ErrNoFreeBox) {
		t.Errorf("err = %v, want ErrNoFreeBox", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestParkPreferredBoxConflicts(t *testing.T) {
	f := newAllocFixture(t)
	now := time.Now()
	boxID := uint64(30)

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.expectNoActiveParking(5)
	f.mock.ExpectQuery(`FROM boxes WHERE id = \? FOR UPDATE`).
		WithArgs(boxID).
		WillReturnRows(sqlmock.NewRows(boxCols).AddRow(30, 2, "B-3", "OCCUPIED", now, nil, now, now))
	f.mock.ExpectRollback()

	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "ABC1234", YardID: 2, PreferredBoxID: &boxID})
	if !errors.Is(err, repository.ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestParkPreferredBoxUnderMaintenance(t *testing.T) {
	f := newAllocFixture(t)
	now := time.Now()
	boxID := uint64(31)

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.expectNoActiveParking(5)
	f.mock.ExpectQuery(`FROM boxes WHERE id = \? FOR UPDATE`).
		WithArgs(boxID).
		WillReturnRows(sqlmock.NewRows(boxCols).AddRow(31, 2, "B-4", "MAINTENANCE", nil, nil, now, now))
	f.mock.ExpectRollback()

	_, err := f.svc.Park(context.Background(), ParkRequest{Plate: "ABC1234", YardID: 2, PreferredBoxID: &boxID})
	if !errors.Is(err, repository.ErrNotAllowed) {
		t.Errorf("err = %v, want ErrNotAllowed", err)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

// The EXIT movement row must be written before the box and session
// rows change; sqlmock's ordered expectations enforce that sequence.
func TestReleaseWritesExitLogBeforeFreeingBox(t *testing.T) {
	f := newAllocFixture(t)
	now := time.Now()

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM parkings\s+WHERE vehicle_id = \? AND is_active = 1\s+FOR UPDATE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows(parkingCols).AddRow(11, 5, 30, 2, true, now.Add(-95*time.Minute), nil))
	f.mock.ExpectQuery(`SELECT TIMESTAMPDIFF\(MINUTE`).
		WithArgs(uint64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"minutes"}).AddRow(95))
	f.mock.ExpectExec(`INSERT INTO movement_logs`).
		WithArgs(uint64(5), uint64(30), uint64(2), int64(95), nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	f.mock.ExpectExec(`UPDATE boxes\s+SET status = 'FREE'`).
		WithArgs(uint64(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`UPDATE parkings\s+SET is_active = 0`).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectCommit()
	f.mock.ExpectQuery(`FROM boxes WHERE id`).
		WithArgs(uint64(30)).
		WillReturnRows(sqlmock.NewRows(boxCols).AddRow(30, 2, "B-3", "FREE", nil, now, now, now))
	f.mock.ExpectQuery(`FROM yards WHERE id`).
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "status", "address", "contact_phone", "created_at", "updated_at"}).
			AddRow(2, "North Yard", "ACTIVE", nil, nil, now, now))

	receipt, err := f.svc.Release(context.Background(), "ABC1234", nil)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if receipt.ParkedMinutes == nil || *receipt.ParkedMinutes != 95 {
		t.Errorf("parked minutes = %v, want 95", receipt.ParkedMinutes)
	}
	if len(f.events) != 1 || f.events[0].Direction != "EXIT" {
		t.Errorf("expected one EXIT event, got %+v", f.events)
	}
	if f.events[0].ParkedMinutes == nil || *f.events[0].ParkedMinutes != 95 {
		t.Errorf("event minutes = %v, want 95", f.events[0].ParkedMinutes)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReleaseWithoutActiveParking(t *testing.T) {
	f := newAllocFixture(t)

	f.expectVehicleByPlate("ABC1234", 5)
	f.mock.ExpectBegin()
	f.expectNoActiveParking(5)
	f.mock.ExpectRollback()

	_, err := f.svc.Release(context.Background(), "ABC1234", nil)
	if !errors.Is(err, repository.ErrNoActiveParking) {
		t.Errorf("err = %v, want ErrNoActiveParking", err)
	}
	if len(f.events) != 0 {
		t.Error("no event may be published on failed release")
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReconcileReportsRepairedCount(t *testing.T) {
	f := newAllocFixture(t)
	f.mock.ExpectExec(`UPDATE boxes\s+SET status = 'FREE'`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	fixed, err := f.svc.Reconcile(context.Background())
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if fixed != 3 {
		t.Errorf("fixed = %d, want 3", fixed)
	}
	if err := f.mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
