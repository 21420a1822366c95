package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// Config holds SQLite store configuration
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	return &SQLiteStore{
		path: cfg.Path,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Connection-level setting
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction
func (s *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
}

// CommitTx commits a transaction
func (s *SQLiteStore) CommitTx(tx *sql.Tx) error {
	return tx.Commit()
}

// RollbackTx rolls back a transaction
func (s *SQLiteStore) RollbackTx(tx *sql.Tx) error {
	return tx.Rollback()
}

// CreateRun creates a new processing run record
func (s *SQLiteStore) CreateRun(ctx context.Context, run *ProcessingRun) error {
	query := `
		INSERT INTO processing_runs (id, document, kind, status, started_at, completed_at, problem, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Document,
		run.Kind,
		run.Status,
		run.StartedAt,
		run.CompletedAt,
		run.Problem,
		run.Metadata,
		run.CreatedAt,
		run.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	return nil
}

// GetRun retrieves a processing run by ID
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*ProcessingRun, error) {
	query := `
		SELECT id, document, kind, status, started_at, completed_at, problem, metadata, created_at, updated_at
		FROM processing_runs
		WHERE id = ?
	`

	run := &ProcessingRun{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&run.ID,
		&run.Document,
		&run.Kind,
		&run.Status,
		&run.StartedAt,
		&run.CompletedAt,
		&run.Problem,
		&run.Metadata,
		&run.CreatedAt,
		&run.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// UpdateRunStatus updates the status of a processing run
func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, id string, status RunStatus, problem *string) error {
	query := `
		UPDATE processing_runs
		SET status = ?, problem = ?, completed_at = ?
		WHERE id = ?
	`

	var completedAt *time.Time
	if status == RunStatusProcessed || status == RunStatusProblem {
		now := time.Now()
		completedAt = &now
	}

	result, err := s.db.ExecContext(ctx, query, status, problem, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// clampLimit maps a non-positive limit to SQLite's "no limit" value.
func clampLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// ListRuns lists processing runs with pagination
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*ProcessingRun, error) {
	query := `
		SELECT id, document, kind, status, started_at, completed_at, problem, metadata, created_at, updated_at
		FROM processing_runs
		ORDER BY started_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*ProcessingRun{}
	for rows.Next() {
		run := &ProcessingRun{}
		err := rows.Scan(
			&run.ID,
			&run.Document,
			&run.Kind,
			&run.Status,
			&run.StartedAt,
			&run.CompletedAt,
			&run.Problem,
			&run.Metadata,
			&run.CreatedAt,
			&run.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun deletes a processing run by ID
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	query := `DELETE FROM processing_runs WHERE id = ?`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// AppendWriteback appends a writeback audit record
func (s *SQLiteStore) AppendWriteback(ctx context.Context, record *WritebackRecord) error {
	query := `
		INSERT INTO writeback_entries (run_id, property, old_value, new_value, status, reason, category, applied_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		record.RunID,
		record.Property,
		record.OldValue,
		record.NewValue,
		record.Status,
		record.Reason,
		record.Category,
		record.AppliedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to append writeback record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get writeback record ID: %w", err)
	}

	record.ID = id
	return nil
}

// ListWritebacksByRun lists all writeback records for a run
func (s *SQLiteStore) ListWritebacksByRun(ctx context.Context, runID string) ([]*WritebackRecord, error) {
	query := `
		SELECT id, run_id, property, old_value, new_value, status, reason, category, applied_at
		FROM writeback_entries
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list writeback records: %w", err)
	}
	defer rows.Close()

	records := []*WritebackRecord{}
	for rows.Next() {
		record := &WritebackRecord{}
		err := rows.Scan(
			&record.ID,
			&record.RunID,
			&record.Property,
			&record.OldValue,
			&record.NewValue,
			&record.Status,
			&record.Reason,
			&record.Category,
			&record.AppliedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan writeback record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating writeback records: %w", err)
	}

	return records, nil
}

// UpsertBaseline inserts or updates a part baseline
func (s *SQLiteStore) UpsertBaseline(ctx context.Context, baseline *Baseline) error {
	query := `
		INSERT INTO baselines (id, part_number, fields, recorded_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(part_number) DO UPDATE SET
			fields = excluded.fields,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		baseline.ID,
		baseline.PartNumber,
		baseline.Fields,
		baseline.RecordedAt,
		baseline.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to upsert baseline: %w", err)
	}

	return nil
}

// GetBaseline retrieves a baseline by part number
func (s *SQLiteStore) GetBaseline(ctx context.Context, partNumber string) (*Baseline, error) {
	query := `
		SELECT id, part_number, fields, recorded_at, updated_at
		FROM baselines
		WHERE part_number = ?
	`

	baseline := &Baseline{}
	err := s.db.QueryRowContext(ctx, query, partNumber).Scan(
		&baseline.ID,
		&baseline.PartNumber,
		&baseline.Fields,
		&baseline.RecordedAt,
		&baseline.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("baseline not found: %s", partNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get baseline: %w", err)
	}

	return baseline, nil
}

// ListBaselines lists baselines with pagination
func (s *SQLiteStore) ListBaselines(ctx context.Context, limit, offset int) ([]*Baseline, error) {
	query := `
		SELECT id, part_number, fields, recorded_at, updated_at
		FROM baselines
		ORDER BY part_number ASC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list baselines: %w", err)
	}
	defer rows.Close()

	baselines := []*Baseline{}
	for rows.Next() {
		baseline := &Baseline{}
		err := rows.Scan(
			&baseline.ID,
			&baseline.PartNumber,
			&baseline.Fields,
			&baseline.RecordedAt,
			&baseline.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan baseline: %w", err)
		}
		baselines = append(baselines, baseline)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating baselines: %w", err)
	}

	return baselines, nil
}

// DeleteBaseline deletes a baseline by part number
func (s *SQLiteStore) DeleteBaseline(ctx context.Context, partNumber string) error {
	query := `DELETE FROM baselines WHERE part_number = ?`

	result, err := s.db.ExecContext(ctx, query, partNumber)
	if err != nil {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("baseline not found: %s", partNumber)
	}

	return nil
}

// AppendEvent appends a new event to the log
func (s *SQLiteStore) AppendEvent(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (run_id, level, message, details, timestamp)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := s.db.ExecContext(ctx, query,
		event.RunID,
		event.Level,
		event.Message,
		event.Details,
		event.Timestamp,
	)

	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get event ID: %w", err)
	}

	event.ID = id
	return nil
}

// GetEvents retrieves events with optional filters and pagination
func (s *SQLiteStore) GetEvents(ctx context.Context, runID *string, level *EventLevel, limit, offset int) ([]*Event, error) {
	query := `
		SELECT id, run_id, level, message, details, timestamp
		FROM events
		WHERE (? IS NULL OR run_id = ?)
		  AND (? IS NULL OR level = ?)
		ORDER BY timestamp DESC
		LIMIT ? OFFSET ?
	`

	rows, err := s.db.QueryContext(ctx, query, runID, runID, level, level, clampLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get events: %w", err)
	}
	defer rows.Close()

	events := []*Event{}
	for rows.Next() {
		event := &Event{}
		err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.Level,
			&event.Message,
			&event.Details,
			&event.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// HealthCheck verifies the database connection is healthy
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	return s.db.PingContext(ctx)
}
