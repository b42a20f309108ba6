// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrConflict indicates that an operation cannot proceed due
// to conflicting state (a vehicle that is already parked, a box that
// is not free, a duplicate plate), while ErrNotAllowed signals a
// state transition the allocation rules forbid (such as moving an
// occupied box into maintenance). Not-found sentinels live alongside
// the repository that owns the entity.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrConflict is returned when a mutation cannot be performed because
// of conflicting state, such as parking a vehicle that already holds an
// active parking, occupying a non-free box, or registering a duplicate
// plate. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrInvalidInput is returned when a caller-supplied value is malformed
// or out of range, such as an unnormalizable plate or a non-positive
// batch quantity. Handlers should translate this into an HTTP 400
// response.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotAllowed is returned when the requested state transition is
// forbidden by the allocation rules, such as putting an occupied box
// into maintenance. Handlers should translate this into an HTTP 409
// response.
var ErrNotAllowed = errors.New("operation not allowed")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (errno 1062). Repositories use it to convert unique-constraint
// failures into ErrConflict instead of leaking driver errors upward.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// isForeignKeyViolation reports whether err is a MySQL referential
// integrity violation (errno 1452), raised when an INSERT references a
// missing parent row.
func isForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1452
}
