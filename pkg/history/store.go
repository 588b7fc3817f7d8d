package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okriens/mirrormate/pkg/models"
)

// Store provides SQLite-backed run history. Best-effort by design:
// callers log store errors but never fail a migration over them.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database and runs migrations
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run history migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	return nil
}

func (s *Store) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id          TEXT PRIMARY KEY,
		started_at  TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		succeeded   INTEGER NOT NULL,
		warned      INTEGER NOT NULL,
		failed      INTEGER NOT NULL,
		dry_run     INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS outcomes (
		id             TEXT PRIMARY KEY,
		run_id         TEXT NOT NULL REFERENCES runs(id),
		source         TEXT NOT NULL,
		dest           TEXT NOT NULL,
		exit_code      INTEGER NOT NULL,
		classification TEXT NOT NULL,
		failure_kind   TEXT NOT NULL DEFAULT '',
		log_path       TEXT NOT NULL DEFAULT '',
		error          TEXT NOT NULL DEFAULT '',
		started_at     TIMESTAMP NOT NULL,
		completed_at   TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_outcomes_run ON outcomes(run_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// RecordRun persists a completed run and all of its outcomes atomically
func (s *Store) RecordRun(report *models.RunReport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	const insertRun = `
		INSERT INTO runs (id, started_at, finished_at, succeeded, warned, failed, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := tx.Exec(insertRun,
		report.RunID, report.StartTime, report.EndTime,
		report.Succeeded, report.Warned, report.Failed, report.DryRun,
	); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	const insertOutcome = `
		INSERT INTO outcomes (
			id, run_id, source, dest, exit_code, classification,
			failure_kind, log_path, error, started_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, o := range report.Outcomes {
		if _, err := tx.Exec(insertOutcome,
			o.ID, report.RunID, o.Pair.Source, o.Pair.Dest, o.ExitCode,
			string(o.Classification), string(o.FailureKind),
			o.LogPath, o.Err, o.StartedAt, o.CompletedAt,
		); err != nil {
			return fmt.Errorf("failed to insert outcome: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history: %w", err)
	}
	return nil
}

// RunSummary is one row of recorded run history
type RunSummary struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Warned     int
	Failed     int
	DryRun     bool
}

// ListRuns retrieves the most recent runs, newest first.
// onlyFailed keeps runs with at least one failed pair.
func (s *Store) ListRuns(limit int, onlyFailed bool) ([]RunSummary, error) {
	query := `
		SELECT id, started_at, finished_at, succeeded, warned, failed, dry_run
		FROM runs
	`
	if onlyFailed {
		query += " WHERE failed > 0"
	}
	query += " ORDER BY started_at DESC"

	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.FinishedAt,
			&r.Succeeded, &r.Warned, &r.Failed, &r.DryRun,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

// ListOutcomes retrieves the outcomes of a single run in insertion order
func (s *Store) ListOutcomes(runID string) ([]models.Outcome, error) {
	const query = `
		SELECT id, source, dest, exit_code, classification,
		       failure_kind, log_path, error, started_at, completed_at
		FROM outcomes WHERE run_id = ? ORDER BY started_at ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []models.Outcome
	for rows.Next() {
		var o models.Outcome
		var class, kind string
		if err := rows.Scan(
			&o.ID, &o.Pair.Source, &o.Pair.Dest, &o.ExitCode,
			&class, &kind, &o.LogPath, &o.Err, &o.StartedAt, &o.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Classification = models.Classification(class)
		o.FailureKind = models.FailureKind(kind)
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate outcomes: %w", err)
	}

	return outcomes, nil
}
