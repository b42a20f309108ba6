package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/fleet-yard-manager/internal/model"
)

func newLicenseRepo(t *testing.T) (*LicenseRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewLicenseRepo(db), mock
}

var licenseTestCols = []string{"id", "driver_name", "registration_number", "category", "issued_at", "expires_at", "created_at", "updated_at"}

func validTestLicense() *model.License {
	return &model.License{
		DriverName:         "Ana Souza",
		RegistrationNumber: "12345678901",
		Category:           "AB",
		IssuedAt:           time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpiresAt:          time.Date(2030, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestLicenseCreateRejectsInvalidFields(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	tests := []struct {
		name   string
		mutate func(*model.License)
	}{
		{"short registration", func(l *model.License) { l.RegistrationNumber = "1234567890" }},
		{"letters in registration", func(l *model.License) { l.RegistrationNumber = "1234567890X" }},
		{"unknown category", func(l *model.License) { l.Category = "F" }},
		{"combined without A", func(l *model.License) { l.Category = "BC" }},
		{"expiry before issue", func(l *model.License) { l.ExpiresAt = l.IssuedAt.AddDate(-1, 0, 0) }},
		{"expiry equals issue", func(l *model.License) { l.ExpiresAt = l.IssuedAt }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := validTestLicense()
			tt.mutate(l)
			if err := repo.Create(context.Background(), l); !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLicenseCreateAndSelectBack(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	l := validTestLicense()
	now := time.Now()

	mock.ExpectExec(`INSERT INTO licenses \(driver_name, registration_number, category, issued_at, expires_at\)`).
		WithArgs(l.DriverName, l.RegistrationNumber, l.Category, l.IssuedAt, l.ExpiresAt).
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectQuery(`FROM licenses WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(licenseTestCols).
			AddRow(9, l.DriverName, l.RegistrationNumber, l.Category, l.IssuedAt, l.ExpiresAt, now, now))

	if err := repo.Create(context.Background(), l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID != 9 {
		t.Errorf("id = %d, want 9", l.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLicenseCreateDuplicateNumberIsConflict(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec(`INSERT INTO licenses`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "duplicate"})

	if err := repo.Create(context.Background(), validTestLicense()); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLicenseListExpiredFilter(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	now := time.Now()
	mock.ExpectQuery(`(?s)FROM licenses\s+WHERE expires_at < UTC_TIMESTAMP\(\)\s+ORDER BY expires_at ASC`).
		WillReturnRows(sqlmock.NewRows(licenseTestCols).
			AddRow(1, "Ana Souza", "12345678901", "A", now.AddDate(-6, 0, 0), now.AddDate(-1, 0, 0), now, now))

	out, err := repo.List(context.Background(), &LicenseFilter{ExpiredOnly: true})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(out) != 1 || out[0].RegistrationNumber != "12345678901" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestLicenseDeleteMissingIsNotFound(t *testing.T) {
	repo, mock := newLicenseRepo(t)
	mock.ExpectExec(`DELETE FROM licenses WHERE registration_number = \?`).
		WithArgs("12345678901").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "12345678901"); !errors.Is(err, ErrLicenseNotFound) {
		t.Errorf("err = %v, want ErrLicenseNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
