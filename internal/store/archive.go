package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/devdiv-tools/jobdumper/internal/model"
)

// RunArchive records a summary row for each completed pipeline run in a
// SQLite database, queried by the history command.
type RunArchive struct {
	db *sql.DB
}

// NewRunArchive opens (or creates) the database at dbPath and ensures the
// runs table exists.
func NewRunArchive(dbPath string) (*RunArchive, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS runs (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at      DATETIME NOT NULL,
		duration_ms     INTEGER NOT NULL,
		jobs            INTEGER NOT NULL,
		keywords        INTEGER NOT NULL,
		failed_keywords TEXT NOT NULL DEFAULT ''
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating runs table: %w", err)
	}

	return &RunArchive{db: db}, nil
}

// RecordRun appends one run summary.
func (a *RunArchive) RecordRun(sum model.RunSummary) error {
	_, err := a.db.Exec(
		"INSERT INTO runs (started_at, duration_ms, jobs, keywords, failed_keywords) VALUES (?, ?, ?, ?, ?)",
		sum.StartedAt, sum.Duration.Milliseconds(), sum.Jobs, sum.Keywords,
		strings.Join(sum.FailedKeywords, ","),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RecentRuns returns up to limit summaries, newest first.
func (a *RunArchive) RecentRuns(limit int) ([]model.RunSummary, error) {
	rows, err := a.db.Query(
		"SELECT started_at, duration_ms, jobs, keywords, failed_keywords FROM runs ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var sums []model.RunSummary
	for rows.Next() {
		var (
			sum        model.RunSummary
			durationMs int64
			failed     string
		)
		if err := rows.Scan(&sum.StartedAt, &durationMs, &sum.Jobs, &sum.Keywords, &failed); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		sum.Duration = time.Duration(durationMs) * time.Millisecond
		if failed != "" {
			sum.FailedKeywords = strings.Split(failed, ",")
		}
		sums = append(sums, sum)
	}
	return sums, rows.Err()
}

// Close closes the underlying database connection.
func (a *RunArchive) Close() error {
	return a.db.Close()
}
