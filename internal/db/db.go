// Package db provides PostgreSQL storage for submitted survey responses.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS survey_responses (
	id                   UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	"overallEnjoyment"    TEXT NOT NULL,
	"organizationQuality" TEXT NOT NULL,
	"supportSatisfaction" TEXT NOT NULL,
	"scheduleTimeliness"  TEXT NOT NULL,
	"delaysComment"       TEXT,
	"communication"       TEXT NOT NULL,
	"troubleshooting"     TEXT NOT NULL,
	"issuesComment"       TEXT,
	"venueSetup"          TEXT NOT NULL,
	"layoutComment"       TEXT,
	"backupStrategies"    TEXT NOT NULL,
	"backupComment"       TEXT,
	"generalFeedback"     TEXT,
	submitted_at         TIMESTAMPTZ NOT NULL,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_survey_responses_submitted_at
	ON survey_responses (submitted_at DESC);
`

// Migrate creates the survey tables if they do not exist.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
