// Package runstore persists a per-run summary to SQLite so the history
// command and daemon status can show past runs. It deliberately stores no
// URL-to-path mappings: the asset cache itself is in-memory per run, and
// cross-run reuse happens purely through the deterministic filenames on disk.
package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/mediamirror/internal/assets"
)

// RunRecord is one persisted run summary.
type RunRecord struct {
	RunID            string
	Root             string
	Started          time.Time
	Finished         time.Time
	DocumentsScanned int
	DocumentsChanged int
	Downloaded       int
	Reused           int
	Failed           int
	Outcome          string
}

// Store is a SQLite-backed run history.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (and initializes) the store at dbPath.
// Use ":memory:" for an ephemeral store in tests.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		root TEXT NOT NULL,
		started INTEGER NOT NULL,
		finished INTEGER NOT NULL,
		documents_scanned INTEGER NOT NULL,
		documents_changed INTEGER NOT NULL,
		downloaded INTEGER NOT NULL,
		reused INTEGER NOT NULL,
		failed INTEGER NOT NULL,
		outcome TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record persists one completed run.
func (s *Store) Record(ctx context.Context, report *assets.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, root, started, finished, documents_scanned,
		 documents_changed, downloaded, reused, failed, outcome)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.RunID, report.Root, report.Started.Unix(), report.Finished.Unix(),
		report.DocumentsScanned, report.DocumentsChanged,
		report.Downloaded, report.Reused, report.Failed, report.Outcome(),
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, root, started, finished, documents_scanned,
		 documents_changed, downloaded, reused, failed, outcome
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished int64
		if err := rows.Scan(&r.RunID, &r.Root, &started, &finished,
			&r.DocumentsScanned, &r.DocumentsChanged,
			&r.Downloaded, &r.Reused, &r.Failed, &r.Outcome); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Started = time.Unix(started, 0)
		r.Finished = time.Unix(finished, 0)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
