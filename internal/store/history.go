// Package store persists the results of aggregate ability scans. Only scan
// outcomes are stored; the catalog and detail records are never written to
// disk.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pokedex/internal/logging"
)

// AbilityCount is one row of a stored leaderboard.
type AbilityCount struct {
	Ability string `json:"ability"`
	Count   int    `json:"count"`
}

// ScanRun is one recorded scan.
type ScanRun struct {
	ID          uuid.UUID
	Ability     string
	Count       int
	Scanned     int
	Concurrency int
	StartedAt   time.Time
	Duration    time.Duration
	Top         []AbilityCount
}

// HistoryStore records scan runs in SQLite.
type HistoryStore struct {
	db     *sql.DB
	mu     sync.Mutex
	dbPath string
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*HistoryStore, error) {
	timer := logging.StartTimer(logging.CategoryStore, "history open")
	defer timer.Stop()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logging.StoreError("Failed to open database at %s: %v", path, err)
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}

	s := &HistoryStore{db: db, dbPath: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logging.Store("History store ready at %s", path)
	return s, nil
}

func (s *HistoryStore) initialize() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS scan_runs (
		id TEXT PRIMARY KEY,
		ability TEXT NOT NULL,
		count INTEGER NOT NULL,
		scanned INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_scan_runs_started ON scan_runs(started_at);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create scan_runs table: %w", err)
	}
	return RunMigrations(s.db)
}

// Record stores run. A nil ID is replaced with a fresh one, which is returned.
func (s *HistoryStore) Record(ctx context.Context, run ScanRun) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	top, err := json.Marshal(run.Top)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scan_runs (id, ability, count, scanned, concurrency, started_at, duration_ms, top_json)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID.String(), run.Ability, run.Count, run.Scanned, run.Concurrency,
		run.StartedAt.UnixMilli(), run.Duration.Milliseconds(), string(top),
	)
	if err != nil {
		logging.StoreError("Failed to record scan %s: %v", run.ID, err)
		return uuid.Nil, fmt.Errorf("failed to record scan: %w", err)
	}

	logging.Store("Recorded scan %s: %s x%d", run.ID, run.Ability, run.Count)
	return run.ID, nil
}

// Recent returns up to limit runs, newest first.
func (s *HistoryStore) Recent(ctx context.Context, limit int) ([]ScanRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ability, count, scanned, concurrency, started_at, duration_ms, top_json
		 FROM scan_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var runs []ScanRun
	for rows.Next() {
		var (
			run       ScanRun
			id        string
			startedMs int64
			durMs     int64
			topJSON   sql.NullString
		)
		if err := rows.Scan(&id, &run.Ability, &run.Count, &run.Scanned, &run.Concurrency, &startedMs, &durMs, &topJSON); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if run.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("bad run id %q: %w", id, err)
		}
		run.StartedAt = time.UnixMilli(startedMs)
		run.Duration = time.Duration(durMs) * time.Millisecond
		if topJSON.Valid && topJSON.String != "" {
			if err := json.Unmarshal([]byte(topJSON.String), &run.Top); err != nil {
				logging.StoreDebug("Ignoring malformed leaderboard for %s: %v", id, err)
			}
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Close closes the database.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
