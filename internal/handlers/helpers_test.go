package handlers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"lilypad/internal/database"
	"lilypad/internal/forum"
	"lilypad/internal/middleware"
	"lilypad/internal/utils"
)

var postColumns = []string{
	"id", "title", "text", "points", "creator_id", "created_at", "updated_at",
	"creator_username", "creator_email", "creator_created_at", "creator_updated_at",
	"vote_value",
}

// newTestServer wires the full stack over a mocked database connection.
func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	metrics := utils.NewMetricsCollector()
	svc := forum.NewService(db, metrics)
	auth := middleware.NewJWTAuth("test-secret")
	server := NewServer(svc, auth, nil, metrics)

	cleanup := func() {
		_ = mockDB.Close()
	}
	return server, mock, cleanup
}
