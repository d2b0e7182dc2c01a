package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vacuumworld/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the results database at the given DSN.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS results (
			result_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			width INTEGER NOT NULL,
			height INTEGER NOT NULL,
			dirt_rate REAL NOT NULL,
			seed INTEGER NOT NULL,
			initial_dirt INTEGER NOT NULL,
			performance INTEGER NOT NULL,
			steps_taken INTEGER NOT NULL,
			termination_reason TEXT NOT NULL,
			finished_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished ON results(finished_at)`,
	}
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// SaveResult inserts one archived run summary.
func (s *SQLiteStore) SaveResult(ctx context.Context, r *domain.RunResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO results
			(result_id, session_id, width, height, dirt_rate, seed, initial_dirt,
			 performance, steps_taken, termination_reason, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ResultID, r.SessionID, r.Width, r.Height, r.DirtRate, r.Seed,
		r.InitialDirt, r.Performance, r.StepsTaken, string(r.TerminationReason),
		r.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// ListResults returns archived runs ordered by finish time, newest first.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]domain.RunResult, error) {
	query := `SELECT result_id, session_id, width, height, dirt_rate, seed,
			initial_dirt, performance, steps_taken, termination_reason, finished_at
		FROM results ORDER BY finished_at DESC`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []domain.RunResult
	for rows.Next() {
		var r domain.RunResult
		var reason string
		var finishedAt time.Time
		if err := rows.Scan(&r.ResultID, &r.SessionID, &r.Width, &r.Height,
			&r.DirtRate, &r.Seed, &r.InitialDirt, &r.Performance,
			&r.StepsTaken, &reason, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.TerminationReason = domain.TerminationReason(reason)
		r.FinishedAt = finishedAt
		results = append(results, r)
	}
	return results, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
