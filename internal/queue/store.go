package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"batchmux/internal/config"
	"batchmux/internal/mediakit"
)

// Store manages ledger persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "jobs.db"))
}

// OpenPath opens the ledger at an explicit database path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Enqueue inserts a ledger row for a job about to run. The full request is
// stored alongside so a run can be audited later. Re-enqueueing an existing
// job id resets its row to queued.
func (s *Store) Enqueue(ctx context.Context, job mediakit.JobRequest, outputPath string) (*Item, error) {
	requestJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("marshal job request: %w", err)
	}
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO mux_jobs (
            job_id, video_path, output_path, status, progress_percent,
            output_size, message, warnings_json, request_json, created_at, updated_at
        ) VALUES (?, ?, ?, ?, 0, 0, NULL, NULL, ?, ?, ?)
        ON CONFLICT(job_id) DO UPDATE SET
            video_path = excluded.video_path,
            output_path = excluded.output_path,
            status = excluded.status,
            progress_percent = 0,
            output_size = 0,
            message = NULL,
            warnings_json = NULL,
            request_json = excluded.request_json,
            updated_at = excluded.updated_at`,
		job.ID,
		job.Video.Path,
		outputPath,
		StatusQueued,
		string(requestJSON),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return s.GetByJobID(ctx, job.ID)
}

// GetByJobID fetches one row by its job identifier.
func (s *Store) GetByJobID(ctx context.Context, jobID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM mux_jobs WHERE job_id = ?", jobID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// List returns rows filtered to the given statuses, oldest first. With no
// filter it returns everything.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns + " FROM mux_jobs"
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, status)
		}
		query += " WHERE status IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetStatus transitions a row, recording an optional message.
func (s *Store) SetStatus(ctx context.Context, jobID string, status Status, message string) error {
	_, err := s.db.ExecContext(
		ctx,
		"UPDATE mux_jobs SET status = ?, message = ?, updated_at = ? WHERE job_id = ?",
		status,
		nullableString(message),
		time.Now().UTC().Format(time.RFC3339Nano),
		jobID,
	)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

// SetProgress records percent progress on a processing row.
func (s *Store) SetProgress(ctx context.Context, jobID string, percent float64) error {
	_, err := s.db.ExecContext(
		ctx,
		"UPDATE mux_jobs SET progress_percent = ?, updated_at = ? WHERE job_id = ?",
		percent,
		time.Now().UTC().Format(time.RFC3339Nano),
		jobID,
	)
	if err != nil {
		return fmt.Errorf("set progress: %w", err)
	}
	return nil
}

// Finish completes a row with its result size and any warnings collected
// during the run.
func (s *Store) Finish(ctx context.Context, jobID string, status Status, outputSize int64, message string, warnings []string) error {
	var warningsJSON any
	if len(warnings) > 0 {
		data, err := json.Marshal(warnings)
		if err != nil {
			return fmt.Errorf("marshal warnings: %w", err)
		}
		warningsJSON = string(data)
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE mux_jobs SET status = ?, progress_percent = 100, output_size = ?,
            message = ?, warnings_json = ?, updated_at = ? WHERE job_id = ?`,
		status,
		outputSize,
		nullableString(message),
		warningsJSON,
		time.Now().UTC().Format(time.RFC3339Nano),
		jobID,
	)
	if err != nil {
		return fmt.Errorf("finish job: %w", err)
	}
	return nil
}

// StopActive marks every queued or processing row stopped, preventing stale
// jobs from being resubmitted after a user-initiated stop.
func (s *Store) StopActive(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		"UPDATE mux_jobs SET status = ?, updated_at = ? WHERE status IN (?, ?)",
		StatusStopped,
		time.Now().UTC().Format(time.RFC3339Nano),
		StatusQueued,
		StatusProcessing,
	)
	if err != nil {
		return 0, fmt.Errorf("stop active: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes one row.
func (s *Store) Remove(ctx context.Context, jobID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mux_jobs WHERE job_id = ?", jobID)
	if err != nil {
		return false, fmt.Errorf("remove job: %w", err)
	}
	affected, err := res.RowsAffected()
	return affected > 0, err
}

// Clear deletes every row and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mux_jobs")
	if err != nil {
		return 0, fmt.Errorf("clear jobs: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted deletes finished rows, keeping errors for inspection.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM mux_jobs WHERE status = ?", StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// Health aggregates row counts per status bucket.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(1) FROM mux_jobs GROUP BY status")
	if err != nil {
		return HealthSummary{}, fmt.Errorf("health query: %w", err)
	}
	defer rows.Close()

	var health HealthSummary
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return HealthSummary{}, err
		}
		health.Total += count
		switch status {
		case StatusQueued:
			health.Queued += count
		case StatusProcessing:
			health.Processing += count
		case StatusCompleted:
			health.Completed += count
		case StatusError:
			health.Errored += count
		case StatusStopped:
			health.Stopped += count
		}
	}
	return health, rows.Err()
}

const selectColumns = `SELECT id, job_id, video_path, output_path, status,
    progress_percent, output_size, message, warnings_json, request_json,
    created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var message, warningsJSON, requestJSON sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&item.ID,
		&item.JobID,
		&item.VideoPath,
		&item.OutputPath,
		&item.Status,
		&item.ProgressPercent,
		&item.OutputSize,
		&message,
		&warningsJSON,
		&requestJSON,
		&createdAt,
		&updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	item.Message = message.String
	item.requestJSON = requestJSON.String
	if warningsJSON.Valid && warningsJSON.String != "" {
		if err := json.Unmarshal([]byte(warningsJSON.String), &item.Warnings); err != nil {
			return nil, fmt.Errorf("decode warnings: %w", err)
		}
	}
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		item.CreatedAt = ts
	}
	if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		item.UpdatedAt = ts
	}
	return &item, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
