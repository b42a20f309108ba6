package repository // repository defines data access for yard zones

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrZoneNotFound is returned when a zone lookup yields no rows.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneRepo provides methods to work with zones in the database.
type ZoneRepo struct {
	db *sql.DB
}

// NewZoneRepo constructs a ZoneRepo with the given DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// scanZone scans one zones row, converting the nullable description.
func scanZone(row interface{ Scan(...any) error }) (*model.Zone, error) {
	var z model.Zone
	var desc sql.NullString
	if err := row.Scan(&z.ID, &z.YardID, &z.Name, &desc, &z.CreatedAt); err != nil {
		return nil, err
	}
	if desc.Valid {
		z.Description = &desc.String
	}
	return &z, nil
}

// Create inserts a zone under an existing yard. A missing yard is
// reported as ErrYardNotFound; a duplicate name within the yard as
// ErrConflict.
func (r *ZoneRepo) Create(ctx context.Context, z *model.Zone) error {
	const q = `INSERT INTO zones (yard_id, name, description) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, z.YardID, z.Name, nullableString(z.Description))
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		if isForeignKeyViolation(err) {
			return ErrYardNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	z.ID = uint64(id)

	const sel = `SELECT id, yard_id, name, description, created_at FROM zones WHERE id = ?`
	created, err := scanZone(r.db.QueryRowContext(ctx, sel, z.ID))
	if err != nil {
		return err
	}
	*z = *created
	return nil
}

// GetByID fetches a single zone by primary key.
func (r *ZoneRepo) GetByID(ctx context.Context, id uint64) (*model.Zone, error) {
	const q = `SELECT id, yard_id, name, description, created_at FROM zones WHERE id = ?`
	z, err := scanZone(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return z, nil
}

// ListByYard retrieves all zones of a yard ordered by name.
func (r *ZoneRepo) ListByYard(ctx context.Context, yardID uint64) ([]model.Zone, error) {
	const q = `SELECT id, yard_id, name, description, created_at
	           FROM zones
	           WHERE yard_id = ?
	           ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, yardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Zone, 0)
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *z)
	}
	return out, rows.Err()
}

// Update rewrites a zone's name and description.
func (r *ZoneRepo) Update(ctx context.Context, z *model.Zone) error {
	const q = `UPDATE zones SET name = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, z.Name, nullableString(z.Description), z.ID)
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
		// RowsAffected is 0 both for a missing row and for a no-op
		// update, so re-check existence before reporting not found.
		var one int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM zones WHERE id = ?`, z.ID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrZoneNotFound
		}
		return err
	}
	return nil
}

// Delete removes a zone by id.
func (r *ZoneRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM zones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrZoneNotFound
	}
	return nil
}

// nullableString converts an optional string into a driver-friendly value.
func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
