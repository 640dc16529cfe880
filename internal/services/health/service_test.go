package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	st := NewService(nil, "snap").Status(context.Background())
	if !st.OK || st.SessionStore != "memory" || st.AdjustPolicy != "snap" {
		t.Fatalf("unexpected status %+v", st)
	}
}

func TestStatusPingsDatabase(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectPing()
	st := NewService(db, "clamp").Status(context.Background())
	if !st.OK || st.SessionStore != "sqlite" {
		t.Fatalf("unexpected status %+v", st)
	}

	mock.ExpectPing().WillReturnError(errors.New("closed"))
	st = NewService(db, "clamp").Status(context.Background())
	if st.OK || st.SessionStore != "unavailable" {
		t.Fatalf("expected unavailable status, got %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
