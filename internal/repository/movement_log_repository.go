package repository // repository defines data access for movement logs

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel checks

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// MovementLogRepo provides methods to work with the append-only
// movement log.
type MovementLogRepo struct {
	db *sql.DB
}

// NewMovementLogRepo constructs a MovementLogRepo with the given DB handle.
func NewMovementLogRepo(db *sql.DB) *MovementLogRepo {
	return &MovementLogRepo{db: db}
}

// RecordEntryTx appends an ENTRY row inside tx.
func (r *MovementLogRepo) RecordEntryTx(ctx context.Context, tx *sql.Tx, vehicleID, boxID, yardID uint64, notes *string) error {
	const q = `INSERT INTO movement_logs (vehicle_id, box_id, yard_id, movement_type, recorded_at, notes)
	           VALUES (?, ?, ?, 'ENTRY', UTC_TIMESTAMP(), ?)`
	_, err := tx.ExecContext(ctx, q, vehicleID, boxID, yardID, nullableString(notes))
	return err
}

// RecordExitTx appends an EXIT row inside tx, deriving the parked
// duration in whole minutes from the vehicle's latest ENTRY row. When
// no ENTRY exists the duration is left NULL rather than failing the
// release.
func (r *MovementLogRepo) RecordExitTx(ctx context.Context, tx *sql.Tx, vehicleID, boxID, yardID uint64, notes *string) (*int64, error) {
	const sel = `SELECT TIMESTAMPDIFF(MINUTE, recorded_at, UTC_TIMESTAMP())
	             FROM movement_logs
	             WHERE vehicle_id = ? AND movement_type = 'ENTRY'
	             ORDER BY recorded_at DESC, id DESC
	             LIMIT 1`
	var minutes *int64
	var m int64
	err := tx.QueryRowContext(ctx, sel, vehicleID).Scan(&m)
	switch {
	case err == nil:
		minutes = &m
	case errors.Is(err, sql.ErrNoRows):
		// no prior ENTRY; record the EXIT without a duration
	default:
		return nil, err
	}

	const ins = `INSERT INTO movement_logs (vehicle_id, box_id, yard_id, movement_type, recorded_at, parked_minutes, notes)
	             VALUES (?, ?, ?, 'EXIT', UTC_TIMESTAMP(), ?, ?)`
	if _, err := tx.ExecContext(ctx, ins, vehicleID, boxID, yardID, nullableInt64(minutes), nullableString(notes)); err != nil {
		return nil, err
	}
	return minutes, nil
}

// ListByVehicle retrieves a vehicle's movement rows, newest first.
func (r *MovementLogRepo) ListByVehicle(ctx context.Context, vehicleID uint64) ([]model.MovementLog, error) {
	const q = `SELECT id, vehicle_id, box_id, yard_id, movement_type, recorded_at, parked_minutes, notes
	           FROM movement_logs
	           WHERE vehicle_id = ?
	           ORDER BY recorded_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MovementLog, 0)
	for rows.Next() {
		var l model.MovementLog
		var minutes sql.NullInt64
		var notes sql.NullString
		if err := rows.Scan(&l.ID, &l.VehicleID, &l.BoxID, &l.YardID, &l.MovementType, &l.RecordedAt, &minutes, &notes); err != nil {
			return nil, err
		}
		if minutes.Valid {
			l.ParkedMinutes = &minutes.Int64
		}
		if notes.Valid {
			l.Notes = &notes.String
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// nullableInt64 converts an optional int64 into a driver-friendly value.
func nullableInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
