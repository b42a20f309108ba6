package repository // repository defines data access for boxes

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"fmt"          // fmt for generated box names

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrBoxNotFound is returned when a box lookup yields no rows.
var ErrBoxNotFound = errors.New("box not found")

// ErrNoFreeBox is returned when a yard has no FREE box left to allocate.
var ErrNoFreeBox = errors.New("no free box available")

// BoxRepo provides methods to work with boxes in the database.
type BoxRepo struct {
	db *sql.DB
}

// NewBoxRepo constructs a BoxRepo with the given DB handle.
func NewBoxRepo(db *sql.DB) *BoxRepo {
	return &BoxRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *BoxRepo) DB() *sql.DB { return r.db }

const boxColumns = `id, yard_id, name, status, entry_at, exit_at, created_at, updated_at`

// scanBox scans one boxes row, converting the nullable timestamps.
func scanBox(row interface{ Scan(...any) error }) (*model.Box, error) {
	var b model.Box
	var entry, exit sql.NullTime
	if err := row.Scan(&b.ID, &b.YardID, &b.Name, &b.Status, &entry, &exit, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if entry.Valid {
		b.EntryAt = &entry.Time
	}
	if exit.Valid {
		b.ExitAt = &exit.Time
	}
	return &b, nil
}

// Create inserts a single box. New boxes always start FREE. A missing
// yard is reported as ErrYardNotFound; a duplicate name within the
// yard as ErrConflict.
func (r *BoxRepo) Create(ctx context.Context, b *model.Box) error {
	const q = `INSERT INTO boxes (yard_id, name, status) VALUES (?, ?, 'FREE')`
	res, err := r.db.ExecContext(ctx, q, b.YardID, b.Name)
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
	b.ID = uint64(id)

	created, err := r.GetByID(ctx, b.ID)
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

// CreateBatch inserts quantity boxes named prefix-1 .. prefix-quantity
// in a single statement and returns the created rows. A quantity below
// one is rejected with ErrInvalidInput.
func (r *BoxRepo) CreateBatch(ctx context.Context, yardID uint64, prefix string, quantity int) ([]model.Box, error) {
	if quantity < 1 {
		return nil, ErrInvalidInput
	}
	query := `INSERT INTO boxes (yard_id, name, status) VALUES `
	args := make([]any, 0, quantity*2)
	for i := 0; i < quantity; i++ {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, 'FREE')"
		args = append(args, yardID, fmt.Sprintf("%s-%d", prefix, i+1))
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		if isForeignKeyViolation(err) {
			return nil, ErrYardNotFound
		}
		return nil, err
	}
	firstID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	// MySQL returns the first auto-increment id of a multi-row insert;
	// the batch occupies a contiguous id range.
	const sel = `SELECT ` + boxColumns + ` FROM boxes WHERE id >= ? AND id < ? ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, sel, firstID, firstID+int64(quantity))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Box, 0, quantity)
	for rows.Next() {
		b, err := scanBox(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// GetByID fetches a single box by primary key.
func (r *BoxRepo) GetByID(ctx context.Context, id uint64) (*model.Box, error) {
	const q = `SELECT ` + boxColumns + ` FROM boxes WHERE id = ?`
	b, err := scanBox(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoxNotFound
		}
		return nil, err
	}
	return b, nil
}

// GetByIDTx fetches a box inside tx with a row lock, so the caller can
// decide on its status without racing concurrent allocations.
func (r *BoxRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Box, error) {
	const q = `SELECT ` + boxColumns + ` FROM boxes WHERE id = ? FOR UPDATE`
	b, err := scanBox(tx.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBoxNotFound
		}
		return nil, err
	}
	return b, nil
}

// ListByYard retrieves all boxes of a yard ordered by id. When status
// is non-empty only boxes in that status are returned.
func (r *BoxRepo) ListByYard(ctx context.Context, yardID uint64, status string) ([]model.Box, error) {
	q := `SELECT ` + boxColumns + ` FROM boxes WHERE yard_id = ?`
	args := []any{yardID}
	if status != "" {
		q += ` AND status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Box, 0)
	for rows.Next() {
		b, err := scanBox(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// FirstFreeTx locks and returns the lowest-id box that is FREE and not
// referenced by any active parking. A yardID of zero searches across
// all yards. The extra NOT IN guard keeps allocation safe even when a
// box's status column has drifted out of sync with the parkings table.
func (r *BoxRepo) FirstFreeTx(ctx context.Context, tx *sql.Tx, yardID uint64) (*model.Box, error) {
	q := `SELECT ` + boxColumns + `
	           FROM boxes
	           WHERE status = 'FREE'
	             AND id NOT IN (SELECT box_id FROM parkings WHERE is_active = 1)`
	args := []any{}
	if yardID != 0 {
		q += `
	             AND yard_id = ?`
		args = append(args, yardID)
	}
	q += `
	           ORDER BY id ASC
	           LIMIT 1
	           FOR UPDATE`
	b, err := scanBox(tx.QueryRowContext(ctx, q, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoFreeBox
		}
		return nil, err
	}
	return b, nil
}

// OccupyTx marks a box OCCUPIED and stamps its entry time.
func (r *BoxRepo) OccupyTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE boxes
	           SET status = 'OCCUPIED', entry_at = UTC_TIMESTAMP(), exit_at = NULL
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBoxNotFound
	}
	return nil
}

// FreeTx marks a box FREE and stamps its exit time.
func (r *BoxRepo) FreeTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	const q = `UPDATE boxes
	           SET status = 'FREE', entry_at = NULL, exit_at = UTC_TIMESTAMP()
	           WHERE id = ?`
	res, err := tx.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBoxNotFound
	}
	return nil
}

// SetStatus switches a box between FREE and MAINTENANCE. Boxes that
// currently hold a vehicle cannot change status; the active parking
// must be released first.
func (r *BoxRepo) SetStatus(ctx context.Context, id uint64, status string) (*model.Box, error) {
	if status != model.BoxFree && status != model.BoxMaintenance {
		return nil, ErrInvalidInput
	}
	b, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BoxOccupied {
		return nil, ErrNotAllowed
	}
	const q = `UPDATE boxes SET status = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, status, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ReconcileInconsistent flips every box marked OCCUPIED without a
// matching active parking back to FREE and returns how many boxes were
// repaired. The whole sweep is a single statement so a concurrent park
// cannot observe a half-reconciled yard.
func (r *BoxRepo) ReconcileInconsistent(ctx context.Context) (int64, error) {
	const q = `UPDATE boxes
	           SET status = 'FREE', entry_at = NULL, exit_at = UTC_TIMESTAMP()
	           WHERE status = 'OCCUPIED'
	             AND id NOT IN (SELECT box_id FROM parkings WHERE is_active = 1)`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// CountByYard returns the total number of boxes a yard owns.
func (r *BoxRepo) CountByYard(ctx context.Context, yardID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM boxes WHERE yard_id = ?`, yardID).Scan(&n)
	return n, err
}

// Delete removes a box. A box referenced by an active parking cannot
// be deleted and is reported as ErrConflict.
func (r *BoxRepo) Delete(ctx context.Context, id uint64) error {
	var active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM parkings WHERE box_id = ? AND is_active = 1`, id).Scan(&active)
	if err != nil {
		return err
	}
	if active > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM boxes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrBoxNotFound
	}
	return nil
}
