package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver
)

// ErrEmptyDatabaseURL is returned by Open when no connection string is configured.
var ErrEmptyDatabaseURL = errors.New("database URL cannot be empty")

// Open creates a pooled connection to PostgreSQL and verifies it with a ping.
// maxOpenConns caps the pool; values <= 0 leave the driver default.
func Open(ctx context.Context, databaseURL string, maxOpenConns int) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, ErrEmptyDatabaseURL
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
		db.SetMaxIdleConns(maxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Reset drops and recreates the ledger tables so a run starts from empty state.
func Reset(ctx context.Context, db *sql.DB) error {
	for _, stmt := range resetStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema: %w", err)
		}
	}
	return nil
}

var resetStatements = []string{
	`DROP TABLE IF EXISTS transactions`,
	`DROP TABLE IF EXISTS corrections`,
	`DROP TABLE IF EXISTS records`,
	`CREATE TABLE transactions (
		tx             BIGINT PRIMARY KEY,
		client         INTEGER NOT NULL,
		tx_type        TEXT NOT NULL,
		dispute_status TEXT NOT NULL DEFAULT 'None',
		amount         NUMERIC
	)`,
	`CREATE TABLE corrections (
		tx      BIGINT NOT NULL,
		client  INTEGER NOT NULL,
		tx_type TEXT NOT NULL
	)`,
	`CREATE TABLE records (
		client    INTEGER PRIMARY KEY,
		available NUMERIC NOT NULL,
		held      NUMERIC NOT NULL,
		total     NUMERIC NOT NULL,
		locked    BOOLEAN NOT NULL DEFAULT FALSE
	)`,
}
