// Package history records completed benchmark runs in a local SQLite
// database, so successive benchmarks of the same target can be compared
// after the fact without keeping every raw timing log around.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/mbuckley/pairscale/internal/config"
	"github.com/mbuckley/pairscale/internal/stats"
	"github.com/mbuckley/pairscale/internal/sysinfo"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	recorded_at TEXT NOT NULL,
	hostname TEXT NOT NULL DEFAULT '',
	git_commit TEXT NOT NULL DEFAULT '',
	command_template TEXT NOT NULL,
	min_threads INTEGER NOT NULL,
	max_threads INTEGER NOT NULL,
	trials_per_setting INTEGER NOT NULL,
	baseline_seconds REAL NOT NULL,
	peak_speedup REAL NOT NULL,
	peak_threads INTEGER NOT NULL
);
`

// Run is one recorded benchmark run summary.
type Run struct {
	ID               int64
	RecordedAt       time.Time
	Hostname         string
	GitCommit        string
	CommandTemplate  string
	MinThreads       int
	MaxThreads       int
	TrialsPerSetting int
	BaselineSeconds  float64
	PeakSpeedup      float64
	PeakThreads      int
}

// DB wraps the run-history database.
type DB struct {
	conn *sql.DB
}

// Open opens (and if necessary creates) the history database at path.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", "file:"+path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close releases the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record stores the summary of a successfully reduced run.
func (db *DB) Record(red *stats.Reduction, spec *config.BenchSpec, info sysinfo.Info) error {
	peakSpeedup, peakThreads := red.PeakSpeedup()

	_, err := db.conn.Exec(`
		INSERT INTO runs (
			recorded_at, hostname, git_commit, command_template,
			min_threads, max_threads, trials_per_setting,
			baseline_seconds, peak_speedup, peak_threads
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339),
		info.Hostname,
		info.GitCommit,
		spec.CommandTemplate,
		spec.MinThreads,
		spec.MaxThreads,
		spec.TrialsPerSetting,
		red.BaselineSeconds,
		peakSpeedup,
		peakThreads,
	)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// List returns all recorded runs, newest first.
func (db *DB) List() ([]Run, error) {
	rows, err := db.conn.Query(`
		SELECT id, recorded_at, hostname, git_commit, command_template,
		       min_threads, max_threads, trials_per_setting,
		       baseline_seconds, peak_speedup, peak_threads
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var recordedAt string
		if err := rows.Scan(
			&r.ID, &recordedAt, &r.Hostname, &r.GitCommit, &r.CommandTemplate,
			&r.MinThreads, &r.MaxThreads, &r.TrialsPerSetting,
			&r.BaselineSeconds, &r.PeakSpeedup, &r.PeakThreads,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339, recordedAt); err == nil {
			r.RecordedAt = ts
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	return runs, nil
}
