package repository // repository defines data access for parking sessions

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrNoActiveParking is returned when a vehicle has no open session.
var ErrNoActiveParking = errors.New("no active parking for vehicle")

// ParkingRepo provides methods to work with parking sessions.
type ParkingRepo struct {
	db *sql.DB
}

// NewParkingRepo constructs a ParkingRepo with the given DB handle.
func NewParkingRepo(db *sql.DB) *ParkingRepo {
	return &ParkingRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ParkingRepo) DB() *sql.DB { return r.db }

const parkingColumns = `id, vehicle_id, box_id, yard_id, is_active, entered_at, exited_at`

// scanParking scans one parkings row, converting the nullable exit time.
func scanParking(row interface{ Scan(...any) error }) (*model.Parking, error) {
	var p model.Parking
	var exited sql.NullTime
	if err := row.Scan(&p.ID, &p.VehicleID, &p.BoxID, &p.YardID, &p.IsActive, &p.EnteredAt, &exited); err != nil {
		return nil, err
	}
	if exited.Valid {
		p.ExitedAt = &exited.Time
	}
	return &p, nil
}

// CreateTx opens a parking session inside tx.
func (r *ParkingRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Parking) error {
	const q = `INSERT INTO parkings (vehicle_id, box_id, yard_id, is_active, entered_at)
	           VALUES (?, ?, ?, 1, UTC_TIMESTAMP())`
	res, err := tx.ExecContext(ctx, q, p.VehicleID, p.BoxID, p.YardID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.IsActive = true
	return nil
}

// CloseTx ends a session: the row stays as history with is_active = 0
// and the exit time stamped.
func (r *ParkingRepo) CloseTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE parkings
	           SET is_active = 0, exited_at = UTC_TIMESTAMP()
	           WHERE id = ? AND is_active = 1`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoActiveParking
	}
	return nil
}

// ActiveByVehicleTx locks and returns the vehicle's open session, if
// any. The row lock serializes concurrent park/release attempts for
// the same vehicle.
func (r *ParkingRepo) ActiveByVehicleTx(ctx context.Context, tx *sql.Tx, vehicleID uint64) (*model.Parking, error) {
	const q = `SELECT ` + parkingColumns + `
	           FROM parkings
	           WHERE vehicle_id = ? AND is_active = 1
	           FOR UPDATE`
	p, err := scanParking(tx.QueryRowContext(ctx, q, vehicleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveParking
		}
		return nil, err
	}
	return p, nil
}

// ActiveExistsForBoxTx reports whether a box already holds a vehicle,
// locking the matching row if one exists.
func (r *ParkingRepo) ActiveExistsForBoxTx(ctx context.Context, tx *sql.Tx, boxID uint64) (bool, error) {
	const q = `SELECT 1 FROM parkings WHERE box_id = ? AND is_active = 1 FOR UPDATE`
	var one int
	err := tx.QueryRowContext(ctx, q, boxID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

const parkingDetailSelect = `SELECT p.id, p.vehicle_id, p.box_id, p.yard_id, p.is_active, p.entered_at, p.exited_at,
	       v.plate, b.name, y.name
	FROM parkings p
	JOIN vehicles v ON v.id = p.vehicle_id
	JOIN boxes b ON b.id = p.box_id
	JOIN yards y ON y.id = p.yard_id`

// scanParkingDetail scans one joined parkings row.
func scanParkingDetail(row interface{ Scan(...any) error }) (*model.ParkingDetail, error) {
	var d model.ParkingDetail
	var exited sql.NullTime
	if err := row.Scan(&d.ID, &d.VehicleID, &d.BoxID, &d.YardID, &d.IsActive, &d.EnteredAt, &exited,
		&d.Plate, &d.BoxName, &d.YardName); err != nil {
		return nil, err
	}
	if exited.Valid {
		d.ExitedAt = &exited.Time
	}
	return &d, nil
}

// ActiveByPlate returns the open session of the vehicle with the given
// normalized plate.
func (r *ParkingRepo) ActiveByPlate(ctx context.Context, plate string) (*model.ParkingDetail, error) {
	const q = parkingDetailSelect + `
	WHERE v.plate = ? AND p.is_active = 1`
	d, err := scanParkingDetail(r.db.QueryRowContext(ctx, q, plate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoActiveParking
		}
		return nil, err
	}
	return d, nil
}

// ActiveByYard lists a yard's open sessions ordered by box id.
func (r *ParkingRepo) ActiveByYard(ctx context.Context, yardID uint64) ([]model.ParkingDetail, error) {
	const q = parkingDetailSelect + `
	WHERE p.yard_id = ? AND p.is_active = 1
	ORDER BY p.box_id ASC`
	return r.queryDetails(ctx, q, yardID)
}

// ActiveAll lists every open session across all yards.
func (r *ParkingRepo) ActiveAll(ctx context.Context) ([]model.ParkingDetail, error) {
	const q = parkingDetailSelect + `
	WHERE p.is_active = 1
	ORDER BY p.yard_id ASC, p.box_id ASC`
	return r.queryDetails(ctx, q)
}

// HistoryByPlate lists every session of a vehicle, newest first.
func (r *ParkingRepo) HistoryByPlate(ctx context.Context, plate string) ([]model.ParkingDetail, error) {
	const q = parkingDetailSelect + `
	WHERE v.plate = ?
	ORDER BY p.entered_at DESC, p.id DESC`
	return r.queryDetails(ctx, q, plate)
}

func (r *ParkingRepo) queryDetails(ctx context.Context, q string, args ...any) ([]model.ParkingDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ParkingDetail, 0)
	for rows.Next() {
		d, err := scanParkingDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// CountActiveByYard returns the number of open sessions in a yard.
func (r *ParkingRepo) CountActiveByYard(ctx context.Context, yardID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parkings WHERE yard_id = ? AND is_active = 1`, yardID).Scan(&n)
	return n, err
}
