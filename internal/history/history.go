// Package history persists run and check outcomes to a local SQLite database
// so past gate results survive run log rotation and stay queryable.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the SQLite history database.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens or creates the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

const schemaV1 = `
CREATE TABLE IF NOT EXISTS schema_version (
    version    INTEGER PRIMARY KEY,
    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS runs (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    task        TEXT NOT NULL,
    task_type   TEXT NOT NULL,
    risk_score  INTEGER NOT NULL,
    risk_level  TEXT NOT NULL,
    result      TEXT NOT NULL CHECK(result IN ('pass','fail','blocked','plan-only')),
    duration_ms INTEGER NOT NULL DEFAULT 0,
    cache_hits  INTEGER NOT NULL DEFAULT 0,
    log_path    TEXT,
    timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_runs_task ON runs(task, timestamp DESC);

CREATE TABLE IF NOT EXISTS check_results (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id      INTEGER NOT NULL REFERENCES runs(id),
    gate        TEXT NOT NULL,
    stack       TEXT,
    title       TEXT NOT NULL,
    command     TEXT NOT NULL,
    passed      BOOLEAN NOT NULL,
    exit_code   INTEGER NOT NULL,
    from_cache  BOOLEAN NOT NULL DEFAULT FALSE,
    timestamp   TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_check_results_run ON check_results(run_id, gate);
`

// Migrate applies the database schema.
func (s *Store) Migrate() error {
	var count int
	err := s.conn.QueryRow("SELECT COUNT(*) FROM schema_version WHERE version = 1").Scan(&count)
	if err == nil && count > 0 {
		return nil
	}

	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(schemaV1); err != nil {
		return fmt.Errorf("apply schema v1: %w", err)
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (1)"); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// Run is one recorded gated run.
type Run struct {
	ID         int
	Task       string
	TaskType   string
	RiskScore  int
	RiskLevel  string
	Result     string
	DurationMS int
	CacheHits  int
	LogPath    string
	Timestamp  string
}

// CheckResult is one recorded check execution within a run.
type CheckResult struct {
	ID        int
	RunID     int
	Gate      string
	Stack     string
	Title     string
	Command   string
	Passed    bool
	ExitCode  int
	FromCache bool
	Timestamp string
}

// LogRun inserts a run record and returns its id.
func (s *Store) LogRun(r Run) (int, error) {
	res, err := s.conn.Exec(
		`INSERT INTO runs (task, task_type, risk_score, risk_level, result, duration_ms, cache_hits, log_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Task, r.TaskType, r.RiskScore, r.RiskLevel, r.Result, r.DurationMS, r.CacheHits, r.LogPath,
	)
	if err != nil {
		return 0, fmt.Errorf("log run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("run id: %w", err)
	}
	return int(id), nil
}

// LogCheck inserts one check result under a run.
func (s *Store) LogCheck(runID int, c CheckResult) error {
	_, err := s.conn.Exec(
		`INSERT INTO check_results (run_id, gate, stack, title, command, passed, exit_code, from_cache)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, c.Gate, c.Stack, c.Title, c.Command, c.Passed, c.ExitCode, c.FromCache,
	)
	if err != nil {
		return fmt.Errorf("log check: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(limit int) ([]Run, error) {
	rows, err := s.conn.Query(
		`SELECT id, task, task_type, risk_score, risk_level, result, duration_ms, cache_hits, log_path, timestamp
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var logPath sql.NullString
		if err := rows.Scan(&r.ID, &r.Task, &r.TaskType, &r.RiskScore, &r.RiskLevel, &r.Result,
			&r.DurationMS, &r.CacheHits, &logPath, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if logPath.Valid {
			r.LogPath = logPath.String
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Checks returns the check results of one run in insertion order.
func (s *Store) Checks(runID int) ([]CheckResult, error) {
	rows, err := s.conn.Query(
		`SELECT id, run_id, gate, stack, title, command, passed, exit_code, from_cache, timestamp
		 FROM check_results WHERE run_id = ? ORDER BY id ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var checks []CheckResult
	for rows.Next() {
		var c CheckResult
		var stack sql.NullString
		if err := rows.Scan(&c.ID, &c.RunID, &c.Gate, &stack, &c.Title, &c.Command,
			&c.Passed, &c.ExitCode, &c.FromCache, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if stack.Valid {
			c.Stack = stack.String
		}
		checks = append(checks, c)
	}
	return checks, rows.Err()
}
