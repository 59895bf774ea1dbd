// Package history stores past audit runs in a local SQLite database so an
// operator can compare reports across kernel or database updates.
package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hwcompat/hwcompat/internal/audit"
)

// DefaultPath is the default history database location
const DefaultPath = "/var/lib/hwcompat/history.db"

// Run is one recorded audit run.
type Run struct {
	ID            string
	CreatedAt     time.Time
	Kernel        string
	TargetVersion int
	Findings      []audit.Finding
}

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
	path string
}

// Open opens or creates the history database at the given path
func Open(path string) (*DB, error) {
	if path == "" {
		path = DefaultPath
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	db := &DB{conn: conn, path: path}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (d *DB) Close() error {
	return d.conn.Close()
}

// Path returns the database file path
func (d *DB) Path() string {
	return d.path
}

const migrationV1 = `
CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	kernel TEXT NOT NULL,
	target_version INTEGER NOT NULL,
	findings TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// migrate runs the database schema migrations
func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = d.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}
		if _, err := d.conn.Exec(migration); err != nil {
			return fmt.Errorf("migration v%d failed: %w", v, err)
		}
		if _, err := d.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			return err
		}
	}

	return nil
}

// SaveRun records an audit run. A missing ID or timestamp is filled in.
func (d *DB) SaveRun(run *Run) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	findings, err := json.Marshal(run.Findings)
	if err != nil {
		return fmt.Errorf("failed to encode findings: %w", err)
	}

	_, err = d.conn.Exec(`
		INSERT INTO runs (id, created_at, kernel, target_version, findings)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.CreatedAt.Format(time.RFC3339), run.Kernel, run.TargetVersion, string(findings))
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}

	return nil
}

// ListRuns returns all recorded runs, oldest first.
func (d *DB) ListRuns() ([]*Run, error) {
	rows, err := d.conn.Query(`
		SELECT id, created_at, kernel, target_version, findings
		FROM runs
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		var createdAt, findings string
		if err := rows.Scan(&run.ID, &createdAt, &run.Kernel, &run.TargetVersion, &findings); err != nil {
			return nil, err
		}
		if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("run %s has a bad timestamp: %w", run.ID, err)
		}
		if err := json.Unmarshal([]byte(findings), &run.Findings); err != nil {
			return nil, fmt.Errorf("run %s has bad findings: %w", run.ID, err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}
