package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

var postColumns = []string{
	"id", "title", "text", "points", "creator_id", "created_at", "updated_at",
	"creator_username", "creator_email", "creator_created_at", "creator_updated_at",
	"vote_value",
}

func newMockDB(t *testing.T) (*PostgresDB, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	db := &PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	cleanup := func() {
		_ = mockDB.Close()
	}
	return db, mock, cleanup
}
