package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// SQLiteStore is the SQLite-backed data store.
// Thread-safe for concurrent callers.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// schema defines the run tables.
const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    lang TEXT NOT NULL,
    kind_order TEXT NOT NULL,
    reference INTEGER NOT NULL,
    examples INTEGER NOT NULL,
    parsed INTEGER NOT NULL,
    fully_covered INTEGER NOT NULL,
    correct INTEGER NOT NULL,
    coverage REAL NOT NULL,
    coverage_score REAL NOT NULL,
    resolution_failures INTEGER NOT NULL,
    kinds TEXT,
    created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_lang ON runs(lang, created_at);

-- No foreign keys: entries are removed with their run at application level
CREATE TABLE IF NOT EXISTS run_entries (
    run_id TEXT NOT NULL,
    seq INTEGER NOT NULL,
    text TEXT NOT NULL,
    matches INTEGER NOT NULL,
    fully_covers INTEGER DEFAULT 0,
    correct INTEGER DEFAULT 0,
    coverage REAL NOT NULL,
    failures INTEGER NOT NULL,
    PRIMARY KEY (run_id, seq)
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// every pooled connection to :memory: would see its own database
	db.SetMaxOpenConns(1)

	// Create schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// =============================================================================
// Runs
// =============================================================================

// SaveRun writes a run and replaces its entries in one transaction.
func (s *SQLiteStore) SaveRun(run *Run, entries []*RunEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kinds, err := json.Marshal(run.Kinds)
	if err != nil {
		return fmt.Errorf("failed to encode kinds: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT OR REPLACE INTO runs (
			id, lang, kind_order, reference, examples, parsed, fully_covered,
			correct, coverage, coverage_score, resolution_failures, kinds, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Lang, run.KindOrder, run.Reference, run.Examples, run.Parsed, run.FullyCovered,
		run.Correct, run.Coverage, run.CoverageScore, run.ResolutionFailures, string(kinds), run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM run_entries WHERE run_id = ?", run.ID); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`
		INSERT INTO run_entries (run_id, seq, text, matches, fully_covers, correct, coverage, failures)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(run.ID, e.Seq, e.Text, e.Matches,
			boolToInt(e.FullyCovers), boolToInt(e.Correct), e.Coverage, e.Failures); err != nil {
			return fmt.Errorf("failed to save entry %d: %w", e.Seq, err)
		}
	}
	return tx.Commit()
}

const runColumns = `id, lang, kind_order, reference, examples, parsed, fully_covered,
	correct, coverage, coverage_score, resolution_failures, kinds, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var kinds sql.NullString
	err := row.Scan(
		&run.ID, &run.Lang, &run.KindOrder, &run.Reference, &run.Examples, &run.Parsed, &run.FullyCovered,
		&run.Correct, &run.Coverage, &run.CoverageScore, &run.ResolutionFailures, &kinds, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Kinds = make(map[string]int)
	if kinds.Valid && kinds.String != "" {
		if err := json.Unmarshal([]byte(kinds.String), &run.Kinds); err != nil {
			return nil, fmt.Errorf("failed to decode kinds: %w", err)
		}
	}
	return &run, nil
}

// GetRun returns nil, nil when no run has the id.
func (s *SQLiteStore) GetRun(id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

// DeleteRun removes a run and its entries.
func (s *SQLiteStore) DeleteRun(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec("DELETE FROM run_entries WHERE run_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM runs WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// ListRuns returns runs newest first. An empty lang lists every language.
func (s *SQLiteStore) ListRuns(lang string) ([]*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows *sql.Rows
	var err error
	if lang == "" {
		rows, err = s.db.Query("SELECT " + runColumns + " FROM runs ORDER BY created_at DESC, id")
	} else {
		rows, err = s.db.Query("SELECT "+runColumns+" FROM runs WHERE lang = ? ORDER BY created_at DESC, id", lang)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// CountRuns returns the number of stored runs.
func (s *SQLiteStore) CountRuns() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count)
	return count, err
}

// =============================================================================
// Entries
// =============================================================================

// ListEntries returns the entries of a run in example order.
func (s *SQLiteStore) ListEntries(runID string) ([]*RunEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT run_id, seq, text, matches, fully_covers, correct, coverage, failures
		FROM run_entries WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*RunEntry
	for rows.Next() {
		var e RunEntry
		var fully, correct int
		if err := rows.Scan(&e.RunID, &e.Seq, &e.Text, &e.Matches, &fully, &correct, &e.Coverage, &e.Failures); err != nil {
			return nil, err
		}
		e.FullyCovers = fully == 1
		e.Correct = correct == 1
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
