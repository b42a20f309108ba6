package repository // repository defines data access for vehicles

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"fmt"          // fmt for generated BLE tag ids

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrVehicleNotFound is returned when a vehicle lookup yields no rows.
var ErrVehicleNotFound = errors.New("vehicle not found")

// VehicleRepo provides methods to work with vehicles in the database.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the given DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

const vehicleColumns = `id, plate, chassis, registration, manufacturer, model, model_year, ble_tag_id, status, created_at, updated_at`

// scanVehicle scans one vehicles row, converting the nullable year.
func scanVehicle(row interface{ Scan(...any) error }) (*model.Vehicle, error) {
	var v model.Vehicle
	var year sql.NullInt32
	if err := row.Scan(&v.ID, &v.Plate, &v.Chassis, &v.Registration, &v.Manufacturer,
		&v.Model, &year, &v.BleTagID, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	if year.Valid {
		y := uint32(year.Int32)
		v.ModelYear = &y
	}
	return &v, nil
}

// Create inserts a vehicle. The plate must already be normalized by
// the caller. When no BLE tag is supplied one is generated from the
// next free sequence number. Duplicate plate, chassis or tag is
// reported as ErrConflict.
func (r *VehicleRepo) Create(ctx context.Context, v *model.Vehicle) error {
	if v.BleTagID == "" {
		tag, err := r.nextBleTag(ctx)
		if err != nil {
			return err
		}
		v.BleTagID = tag
	}
	if v.Status == "" {
		v.Status = "ACTIVE"
	}
	const q = `INSERT INTO vehicles (plate, chassis, registration, manufacturer, model, model_year, ble_tag_id, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, v.Plate, v.Chassis, v.Registration,
		v.Manufacturer, v.Model, nullableUint32(v.ModelYear), v.BleTagID, v.Status)
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
	v.ID = uint64(id)

	created, err := r.GetByID(ctx, v.ID)
	if err != nil {
		return err
	}
	*v = *created
	return nil
}

// nextBleTag derives a sequential TAG-NNNNNN identifier from the
// current row count. Collisions with manually assigned tags surface as
// a duplicate-key error on insert.
func (r *VehicleRepo) nextBleTag(ctx context.Context) (string, error) {
	var n uint64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles`).Scan(&n); err != nil {
		return "", err
	}
	return fmt.Sprintf("TAG-%06d", n+1), nil
}

// GetByID fetches a single vehicle by primary key.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*model.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// GetByPlate fetches a vehicle by its normalized plate.
func (r *VehicleRepo) GetByPlate(ctx context.Context, plate string) (*model.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles WHERE plate = ?`
	v, err := scanVehicle(r.db.QueryRowContext(ctx, q, plate))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

// List retrieves all vehicles ordered by plate.
func (r *VehicleRepo) List(ctx context.Context) ([]model.Vehicle, error) {
	const q = `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY plate ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Vehicle, 0)
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Update rewrites a vehicle's mutable fields. The plate is immutable
// after registration.
func (r *VehicleRepo) Update(ctx context.Context, v *model.Vehicle) error {
	const q = `UPDATE vehicles
	           SET chassis = ?, registration = ?, manufacturer = ?, model = ?, model_year = ?, ble_tag_id = ?, status = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, v.Chassis, v.Registration, v.Manufacturer,
		v.Model, nullableUint32(v.ModelYear), v.BleTagID, v.Status, v.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM vehicles WHERE id = ?`, v.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

// Delete removes a vehicle. A vehicle that is currently parked cannot
// be deleted and is reported as ErrConflict.
func (r *VehicleRepo) Delete(ctx context.Context, id uint64) error {
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parkings WHERE vehicle_id = ? AND is_active = 1`, id).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVehicleNotFound
	}
	return nil
}

// nullableUint32 converts an optional uint32 into a driver-friendly value.
func nullableUint32(v *uint32) any {
	if v == nil {
		return nil
	}
	return *v
}
