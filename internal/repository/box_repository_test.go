package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newBoxRepo(t *testing.T) (*BoxRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewBoxRepo(db), mock
}

var boxTestCols = []string{"id", "yard_id", "name", "status", "entry_at", "exit_at", "created_at", "updated_at"}

func TestCreateBatchRejectsBadQuantity(t *testing.T) {
	repo, mock := newBoxRepo(t)
	for _, qty := range []int{0, -1, -100} {
		if _, err := repo.CreateBatch(context.Background(), 1, "B", qty); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("quantity %d: err = %v, want ErrInvalidInput", qty, err)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestCreateBatchInsertsSequentialNames(t *testing.T) {
	repo, mock := newBoxRepo(t)
	now := time.Now()

	mock.ExpectExec(`INSERT INTO boxes \(yard_id, name, status\) VALUES \(\?, \?, 'FREE'\),\(\?, \?, 'FREE'\),\(\?, \?, 'FREE'\)`).
		WithArgs(uint64(2), "B-1", uint64(2), "B-2", uint64(2), "B-3").
		WillReturnResult(sqlmock.NewResult(40, 3))
	rows := sqlmock.NewRows(boxTestCols)
	for i := 0; i < 3; i++ {
		rows.AddRow(40+i, 2, "B-"+string(rune('1'+i)), "FREE", nil, nil, now, now)
	}
	mock.ExpectQuery(`FROM boxes WHERE id >= \? AND id < \?`).
		WithArgs(int64(40), int64(43)).
		WillReturnRows(rows)

	boxes, err := repo.CreateBatch(context.Background(), 2, "B", 3)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(boxes) != 3 || boxes[0].Name != "B-1" || boxes[2].Name != "B-3" {
		t.Errorf("unexpected batch: %+v", boxes)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetStatusRefusesOccupiedBox(t *testing.T) {
	repo, mock := newBoxRepo(t)
	now := time.Now()

	mock.ExpectQuery(`FROM boxes WHERE id`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(boxTestCols).AddRow(7, 1, "B-7", "OCCUPIED", now, nil, now, now))

	if _, err := repo.SetStatus(context.Background(), 7, "MAINTENANCE"); !errors.Is(err, ErrNotAllowed) {
		t.Errorf("err = %v, want ErrNotAllowed", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	repo, mock := newBoxRepo(t)
	if _, err := repo.SetStatus(context.Background(), 7, "OCCUPIED"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput (OCCUPIED cannot be set directly)", err)
	}
	if _, err := repo.SetStatus(context.Background(), 7, "BROKEN"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestDeleteRefusesBoxWithActiveParking(t *testing.T) {
	repo, mock := newBoxRepo(t)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM parkings WHERE box_id`).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	if err := repo.Delete(context.Background(), 7); !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestReconcileInconsistentCountsRepairs(t *testing.T) {
	repo, mock := newBoxRepo(t)
	mock.ExpectExec(`(?s)UPDATE boxes\s+SET status = 'FREE'.*NOT IN \(SELECT box_id FROM parkings WHERE is_active = 1\)`).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := repo.ReconcileInconsistent(context.Background())
	if err != nil {
		t.Fatalf("ReconcileInconsistent: %v", err)
	}
	if n != 2 {
		t.Errorf("repaired = %d, want 2", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
