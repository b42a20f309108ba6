package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions
	"strings"      // strings for building dynamic WHERE clauses

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrYardNotFound indicates that a yard was not located in the DB.
var ErrYardNotFound = errors.New("yard not found")

// YardFilter restricts which yards a List call returns. All criteria
// are optional and combined with AND. Box-count bounds are evaluated
// against the number of boxes each yard owns at query time.
type YardFilter struct {
	Name     string // substring match on yard name, case-insensitive
	Status   string // exact status match (ACTIVE/INACTIVE)
	BoxesMin *int   // minimum number of boxes (inclusive)
	BoxesMax *int   // maximum number of boxes (inclusive)
}

// HasCriteria reports whether the filter restricts the result set.
func (f *YardFilter) HasCriteria() bool {
	if f == nil {
		return false
	}
	return f.Name != "" || f.Status != "" || f.BoxesMin != nil || f.BoxesMax != nil
}

// YardRepo manages persistence for yards.
type YardRepo struct {
	db *sql.DB
}

// NewYardRepo returns a new YardRepo bound to the given database.
func NewYardRepo(db *sql.DB) *YardRepo { return &YardRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *YardRepo) DB() *sql.DB { return r.db }

// scanYard scans one yards row into a model.Yard, converting nullable
// columns to pointers.
func scanYard(row interface{ Scan(...any) error }) (*model.Yard, error) {
	var y model.Yard
	var addr, phone sql.NullString
	if err := row.Scan(&y.ID, &y.Name, &y.Status, &addr, &phone, &y.CreatedAt, &y.UpdatedAt); err != nil {
		return nil, err
	}
	if addr.Valid {
		a := addr.String
		y.Address = &a
	}
	if phone.Valid {
		p := phone.String
		y.ContactPhone = &p
	}
	return &y, nil
}

// Create inserts a new yard and populates the generated ID plus the
// DB-default status and timestamps on the provided struct. Duplicate
// yard names yield ErrConflict.
func (r *YardRepo) Create(ctx context.Context, y *model.Yard) error {
	const q = `INSERT INTO yards (name, status, address, contact_phone) VALUES (?, ?, ?, ?)`
	status := y.Status
	if status == "" {
		status = "ACTIVE"
	}
	res, err := r.db.ExecContext(ctx, q, y.Name, status, y.Address, y.ContactPhone)
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
	y.ID = uint64(id)
	// Query the inserted row back to obtain default timestamps.
	const sel = `SELECT id, name, status, address, contact_phone, created_at, updated_at FROM yards WHERE id = ?`
	got, err := scanYard(r.db.QueryRowContext(ctx, sel, y.ID))
	if err != nil {
		return err
	}
	*y = *got
	return nil
}

// GetByID returns a single yard or ErrYardNotFound.
func (r *YardRepo) GetByID(ctx context.Context, id uint64) (*model.Yard, error) {
	const q = `SELECT id, name, status, address, contact_phone, created_at, updated_at FROM yards WHERE id = ?`
	y, err := scanYard(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrYardNotFound
		}
		return nil, err
	}
	return y, nil
}

// List returns yards matching the optional filter, ordered by id
// ascending so results are stable across calls. Box-count bounds are
// pushed into the query as a correlated subquery rather than filtered
// client-side.
func (r *YardRepo) List(ctx context.Context, f *YardFilter) ([]model.Yard, error) {
	where := []string{}
	args := []any{}
	if f != nil {
		if f.Name != "" {
			where = append(where, "LOWER(y.name) LIKE ?")
			args = append(args, "%"+strings.ToLower(f.Name)+"%")
		}
		if f.Status != "" {
			where = append(where, "y.status = ?")
			args = append(args, f.Status)
		}
		if f.BoxesMin != nil {
			where = append(where, "(SELECT COUNT(*) FROM boxes b WHERE b.yard_id = y.id) >= ?")
			args = append(args, *f.BoxesMin)
		}
		if f.BoxesMax != nil {
			where = append(where, "(SELECT COUNT(*) FROM boxes b WHERE b.yard_id = y.id) <= ?")
			args = append(args, *f.BoxesMax)
		}
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT y.id, y.name, y.status, y.address, y.contact_phone, y.created_at, y.updated_at
		  FROM yards y
		  WHERE ` + cond + `
		  ORDER BY y.id ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Yard, 0)
	for rows.Next() {
		y, err := scanYard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies name, status, address and contact phone of a yard.
// It returns ErrYardNotFound when the yard does not exist.
func (r *YardRepo) Update(ctx context.Context, y *model.Yard) error {
	const q = `UPDATE yards SET name = ?, status = ?, address = ?, contact_phone = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, y.Name, y.Status, y.Address, y.ContactPhone, y.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Distinguish "missing" from "no change": re-check existence.
		if _, gerr := r.GetByID(ctx, y.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// DeleteCascade removes a yard together with its dependent rows inside
// a single transaction, in dependency order: movement logs, parkings,
// zones, boxes, then the yard itself. This replaces ORM-level cascade
// configuration with explicit ordered deletes.
func (r *YardRepo) DeleteCascade(ctx context.Context, id uint64) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	steps := []string{
		`DELETE FROM movement_logs WHERE yard_id = ?`,
		`DELETE FROM parkings WHERE yard_id = ?`,
		`DELETE FROM zones WHERE yard_id = ?`,
		`DELETE FROM boxes WHERE yard_id = ?`,
		`DELETE FROM yards WHERE id = ?`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
