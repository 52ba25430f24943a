// internal/database/database.go
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"lilypad/internal/utils"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "database").Logger()

// PostgresDB represents a PostgreSQL database connection
type PostgresDB struct {
	DB *sqlx.DB
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(connectionString string) (*PostgresDB, error) {
	db, err := sqlx.Connect("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %v", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %v", err)
	}

	logger.Info().Msg("connected to PostgreSQL")

	return &PostgresDB{
		DB: db,
	}, nil
}

// Close closes the database connection
func (p *PostgresDB) Close(ctx context.Context) error {
	logger.Info().Msg("closing PostgreSQL connection")
	return p.DB.Close()
}

// Ping verifies the connection is still alive.
func (p *PostgresDB) Ping(ctx context.Context) error {
	if err := p.DB.PingContext(ctx); err != nil {
		return utils.NewAppError(utils.ErrDatabase, "database unreachable", err)
	}
	return nil
}

// InitializeTables creates all necessary tables if they don't exist
func (p *PostgresDB) InitializeTables(ctx context.Context) error {
	// Users table
	_, err := p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			username VARCHAR(50) UNIQUE NOT NULL,
			email VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(100) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %v", err)
	}

	// Posts table
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY,
			title VARCHAR(300) NOT NULL,
			text TEXT NOT NULL,
			points INTEGER NOT NULL DEFAULT 0,
			creator_id UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create posts table: %v", err)
	}

	// Votes table. One row per (user, post); deleting a post removes its votes.
	_, err = p.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS votes (
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			value INTEGER NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (user_id, post_id)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create votes table: %v", err)
	}

	// The feed reads newest-first with an id tiebreak.
	_, err = p.DB.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts (created_at DESC, id DESC)
	`)
	if err != nil {
		return fmt.Errorf("failed to create posts index: %v", err)
	}

	return nil
}

// classifyWriteError maps PostgreSQL error codes onto the application error
// taxonomy so callers can decide whether a retry is safe.
func classifyWriteError(err error, message string) *utils.AppError {
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code.Name() {
		case "serialization_failure", "deadlock_detected":
			return utils.NewAppError(utils.ErrConflictRetry, message, err)
		case "unique_violation":
			return utils.NewAppError(utils.ErrDuplicate, fmt.Sprintf("%s: %v", message, pqErr.Constraint), err)
		case "foreign_key_violation":
			return utils.NewAppError(utils.ErrNotFound, message, err)
		}
	}
	return utils.NewAppError(utils.ErrDatabase, message, err)
}
