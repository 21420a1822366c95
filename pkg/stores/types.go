package stores

import (
	"context"
	"database/sql"
	"time"
)

// RunStatus represents the status of a processing run
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusProcessed RunStatus = "processed"
	RunStatusProblem   RunStatus = "problem"
)

// EventLevel represents the severity level of an event
type EventLevel string

const (
	EventLevelDebug   EventLevel = "debug"
	EventLevelInfo    EventLevel = "info"
	EventLevelWarning EventLevel = "warning"
	EventLevelError   EventLevel = "error"
)

// ProcessingRun represents one document processing run
type ProcessingRun struct {
	ID          string     `json:"id"`
	Document    string     `json:"document"`
	Kind        string     `json:"kind"` // part, assembly, drawing
	Status      RunStatus  `json:"status"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Problem     *string    `json:"problem,omitempty"`
	Metadata    string     `json:"metadata"` // JSON blob
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// WritebackRecord is the persisted audit row for one writeback entry
type WritebackRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Property  string    `json:"property"`
	OldValue  string    `json:"old_value"`
	NewValue  string    `json:"new_value"`
	Status    string    `json:"status"` // applied, skipped, failed
	Reason    *string   `json:"reason,omitempty"`
	Category  *string   `json:"category,omitempty"`
	AppliedAt time.Time `json:"applied_at"`
}

// Baseline represents the recorded expected output for one part
type Baseline struct {
	ID         string    `json:"id"`
	PartNumber string    `json:"part_number"`
	Fields     string    `json:"fields"` // JSON blob of field name -> expected field
	RecordedAt time.Time `json:"recorded_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Event represents an append-only log event
type Event struct {
	ID        int64      `json:"id"`
	RunID     *string    `json:"run_id,omitempty"`
	Level     EventLevel `json:"level"`
	Message   string     `json:"message"`
	Details   *string    `json:"details,omitempty"` // JSON blob
	Timestamp time.Time  `json:"timestamp"`
}

// Store defines the interface for the persistence layer
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)
	CommitTx(tx *sql.Tx) error
	RollbackTx(tx *sql.Tx) error

	// Processing run operations
	CreateRun(ctx context.Context, run *ProcessingRun) error
	GetRun(ctx context.Context, id string) (*ProcessingRun, error)
	UpdateRunStatus(ctx context.Context, id string, status RunStatus, problem *string) error
	ListRuns(ctx context.Context, limit, offset int) ([]*ProcessingRun, error)
	DeleteRun(ctx context.Context, id string) error

	// Writeback audit operations
	AppendWriteback(ctx context.Context, record *WritebackRecord) error
	ListWritebacksByRun(ctx context.Context, runID string) ([]*WritebackRecord, error)

	// Baseline operations
	UpsertBaseline(ctx context.Context, baseline *Baseline) error
	GetBaseline(ctx context.Context, partNumber string) (*Baseline, error)
	ListBaselines(ctx context.Context, limit, offset int) ([]*Baseline, error)
	DeleteBaseline(ctx context.Context, partNumber string) error

	// Event operations
	AppendEvent(ctx context.Context, event *Event) error
	GetEvents(ctx context.Context, runID *string, level *EventLevel, limit, offset int) ([]*Event, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
