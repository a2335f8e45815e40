// Package db provides PostgreSQL persistence for the run registry. The
// registry mirrors progress for dashboards and audits; file checkpoints
// remain the source of truth for resume.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Run represents a row in the review_runs table.
type Run struct {
	ID            uuid.UUID
	Signature     string
	Mode          string
	InputFile     string
	Status        string
	TotalProduced int
	StartedAt     time.Time
	CompletedAt   *time.Time
}

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

// CreateRun creates a new run record and returns its ID
func (db *DB) CreateRun(ctx context.Context, signature, mode, inputFile string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO review_runs (signature, mode, input_file, status)
		 VALUES ($1, $2, $3, 'running')
		 RETURNING id`,
		signature, mode, inputFile,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// UpdateProgress records the cumulative review count for a run
func (db *DB) UpdateProgress(ctx context.Context, runID uuid.UUID, totalProduced int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE review_runs SET total_produced = $1, updated_at = NOW() WHERE id = $2`,
		totalProduced, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run progress: %w", err)
	}
	return nil
}

// CompleteRun marks a run as completed
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE review_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves a run record by ID. Returns nil when no row matches.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, signature, mode, input_file, status, total_produced, started_at, completed_at
		 FROM review_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Signature, &run.Mode, &run.InputFile, &run.Status,
		&run.TotalProduced, &run.StartedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs for a signature, newest first
func (db *DB) ListRuns(ctx context.Context, signature string, limit int) ([]Run, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, signature, mode, input_file, status, total_produced, started_at, completed_at
		 FROM review_runs WHERE signature = $1
		 ORDER BY started_at DESC LIMIT $2`,
		signature, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Signature, &run.Mode, &run.InputFile, &run.Status,
			&run.TotalProduced, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
