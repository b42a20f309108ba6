package repository // repository defines data access for driver licenses

import (
	"context"      // context allows query cancellation and timeouts
	"database/sql" // sql provides DB primitives
	"errors"       // errors for sentinel definitions
	"regexp"       // regexp validates the registration number
	"strings"      // strings for building dynamic WHERE clauses

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

// ErrLicenseNotFound is returned when a license lookup yields no rows.
var ErrLicenseNotFound = errors.New("license not found")

// registrationPattern: national registration numbers are exactly 11
// digits.
var registrationPattern = regexp.MustCompile(`^[0-9]{11}$`)

// licenseCategories enumerates the valid category codes.
var licenseCategories = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true,
	"AB": true, "AC": true, "AD": true, "AE": true,
}

// validateLicense checks the fields every write must satisfy: an
// 11-digit registration number, a known category and an expiry date
// after the issue date.
func validateLicense(l *model.License) error {
	if !registrationPattern.MatchString(l.RegistrationNumber) {
		return ErrInvalidInput
	}
	if !licenseCategories[l.Category] {
		return ErrInvalidInput
	}
	if !l.ExpiresAt.After(l.IssuedAt) {
		return ErrInvalidInput
	}
	return nil
}

// LicenseFilter restricts which licenses a List call returns. All
// criteria are optional and combined with AND. The expiry criteria
// are evaluated inside the query against UTC_TIMESTAMP().
type LicenseFilter struct {
	DriverName   string // substring match on driver name, case-insensitive
	Category     string // exact category match
	ExpiredOnly  bool   // keep licenses past their expiry date
	ExpiringOnly bool   // keep licenses expiring within thirty days
}

// LicenseRepo provides methods to work with driver licenses.
type LicenseRepo struct {
	db *sql.DB
}

// NewLicenseRepo constructs a LicenseRepo with the given DB handle.
func NewLicenseRepo(db *sql.DB) *LicenseRepo {
	return &LicenseRepo{db: db}
}

const licenseColumns = `id, driver_name, registration_number, category, issued_at, expires_at, created_at, updated_at`

func scanLicense(row interface{ Scan(...any) error }) (*model.License, error) {
	var l model.License
	if err := row.Scan(&l.ID, &l.DriverName, &l.RegistrationNumber, &l.Category,
		&l.IssuedAt, &l.ExpiresAt, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}

// Create inserts a license after validating it. A duplicate
// registration number is reported as ErrConflict.
func (r *LicenseRepo) Create(ctx context.Context, l *model.License) error {
	if err := validateLicense(l); err != nil {
		return err
	}
	const q = `INSERT INTO licenses (driver_name, registration_number, category, issued_at, expires_at)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, l.DriverName, l.RegistrationNumber,
		l.Category, l.IssuedAt, l.ExpiresAt)
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
	l.ID = uint64(id)

	created, err := r.getByID(ctx, l.ID)
	if err != nil {
		return err
	}
	*l = *created
	return nil
}

func (r *LicenseRepo) getByID(ctx context.Context, id uint64) (*model.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE id = ?`
	l, err := scanLicense(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLicenseNotFound
		}
		return nil, err
	}
	return l, nil
}

// GetByNumber fetches a license by its registration number.
func (r *LicenseRepo) GetByNumber(ctx context.Context, number string) (*model.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE registration_number = ?`
	l, err := scanLicense(r.db.QueryRowContext(ctx, q, number))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLicenseNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns licenses matching the optional filter, ordered by
// expiry date so the soonest-expiring records come first.
func (r *LicenseRepo) List(ctx context.Context, f *LicenseFilter) ([]model.License, error) {
	where := []string{}
	args := []any{}
	if f != nil {
		if f.DriverName != "" {
			where = append(where, "LOWER(driver_name) LIKE ?")
			args = append(args, "%"+strings.ToLower(f.DriverName)+"%")
		}
		if f.Category != "" {
			where = append(where, "category = ?")
			args = append(args, f.Category)
		}
		if f.ExpiredOnly {
			where = append(where, "expires_at < UTC_TIMESTAMP()")
		}
		if f.ExpiringOnly {
			where = append(where, "expires_at >= UTC_TIMESTAMP() AND expires_at < UTC_TIMESTAMP() + INTERVAL 30 DAY")
		}
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}
	q := `SELECT ` + licenseColumns + `
	      FROM licenses
	      WHERE ` + cond + `
	      ORDER BY expires_at ASC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.License, 0)
	for rows.Next() {
		l, err := scanLicense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

// Update modifies the mutable fields of the license carrying the given
// registration number. The number itself is immutable, like plates.
func (r *LicenseRepo) Update(ctx context.Context, l *model.License) error {
	if err := validateLicense(l); err != nil {
		return err
	}
	const q = `UPDATE licenses SET driver_name = ?, category = ?, issued_at = ?, expires_at = ?
	           WHERE registration_number = ?`
	res, err := r.db.ExecContext(ctx, q, l.DriverName, l.Category,
		l.IssuedAt, l.ExpiresAt, l.RegistrationNumber)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// zero rows may mean an identical update; distinguish from absent
		if _, err := r.GetByNumber(ctx, l.RegistrationNumber); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a license by registration number.
func (r *LicenseRepo) Delete(ctx context.Context, number string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM licenses WHERE registration_number = ?`, number)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLicenseNotFound
	}
	return nil
}
