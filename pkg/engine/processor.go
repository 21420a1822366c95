package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/document"
	"github.com/partforge/partforge/pkg/facts"
	"github.com/partforge/partforge/pkg/policy"
	"github.com/partforge/partforge/pkg/resolvers"
	"github.com/partforge/partforge/pkg/stores"
	"github.com/partforge/partforge/pkg/telemetry"
)

// ProcessResult summarizes one document processing run.
type ProcessResult struct {
	// RunID is the unique identifier of this run.
	RunID string `json:"run_id"`

	// Document is the processed document name.
	Document string `json:"document"`

	// State is the document lifecycle state after the run.
	State document.State `json:"state"`

	// Problem describes the failure when State is problem.
	Problem string `json:"problem,omitempty"`

	// Suggestions is the full suggestion set produced by the resolvers.
	Suggestions []document.Suggestion `json:"suggestions,omitempty"`

	// Rejected are the suggestions blocked by policy.
	Rejected []document.Suggestion `json:"rejected,omitempty"`

	// Violations lists every policy violation raised across the batch.
	Violations []policy.Violation `json:"violations,omitempty"`

	// Entries is the writeback audit trail for the approved suggestions.
	Entries []document.WritebackEntry `json:"entries,omitempty"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration"`
}

// Processor runs the full document pipeline: validate the facts, build
// property suggestions, evaluate them against policy, write the approved
// set back to the property cache, and persist the audit trail.
type Processor struct {
	cfg      *config.EngineConfig
	builder  *SuggestionBuilder
	policies *policy.Engine
	store    stores.Store
	metrics  *telemetry.Metrics
	logger   zerolog.Logger
}

// NewProcessor creates a processor. The store may be nil, in which case
// runs are not persisted; everything else is required.
func NewProcessor(cfg *config.EngineConfig, tables *resolvers.TableProvider, formulas *config.FormulaEvaluator, policies *policy.Engine, store stores.Store, metrics *telemetry.Metrics, logger zerolog.Logger) *Processor {
	return &Processor{
		cfg:      cfg,
		builder:  NewSuggestionBuilder(cfg, tables, formulas, metrics, logger),
		policies: policies,
		store:    store,
		metrics:  metrics,
		logger:   logger.With().Str("component", "processor").Logger(),
	}
}

// ProcessDocument processes one document against the given facts. The
// document must be freshly created (Unprocessed). A validation or
// processing failure lands the document in the Problem state and is not
// an error; only pipeline defects (wrong lifecycle state, policy engine
// breakage, broken formulas) return one.
func (p *Processor) ProcessDocument(ctx context.Context, doc *document.Document, f facts.PartFacts) (*ProcessResult, error) {
	start := time.Now()
	result := &ProcessResult{
		RunID:    uuid.New().String(),
		Document: doc.Name,
	}

	p.metrics.RecordDocumentStarted()
	p.createRun(ctx, result.RunID, doc)

	logger := p.logger.With().
		Str("run_id", result.RunID).
		Str("document", doc.Name).
		Str("kind", string(doc.Kind)).
		Logger()

	// Validation concludes the lifecycle's first transition either way.
	if err := p.validate(doc, f); err != nil {
		if lcErr := doc.Lifecycle.Validate(false, err.Error()); lcErr != nil {
			return nil, fmt.Errorf("failed to record validation outcome: %w", lcErr)
		}
		logger.Warn().Err(err).Msg("Document validation failed")
		return p.finish(ctx, result, doc, start), nil
	}
	if err := doc.Lifecycle.Validate(true, ""); err != nil {
		return nil, fmt.Errorf("failed to record validation outcome: %w", err)
	}
	if err := doc.Lifecycle.Start(); err != nil {
		return nil, fmt.Errorf("failed to start processing: %w", err)
	}

	suggestions, err := p.builder.Build(ctx, f)
	if err != nil {
		if lcErr := doc.Lifecycle.Complete(false, err.Error()); lcErr != nil {
			return nil, fmt.Errorf("failed to record processing outcome: %w", lcErr)
		}
		p.finish(ctx, result, doc, start)
		return result, err
	}
	result.Suggestions = suggestions

	batch, err := p.policies.EvaluateBatch(ctx, suggestions, p.cfg.Properties, &policy.Context{
		Document:  doc.Name,
		Kind:      string(doc.Kind),
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		if lcErr := doc.Lifecycle.Complete(false, err.Error()); lcErr != nil {
			return nil, fmt.Errorf("failed to record processing outcome: %w", lcErr)
		}
		p.finish(ctx, result, doc, start)
		return result, NewPermanentError("policy evaluation failed", err)
	}
	result.Rejected = batch.Rejected
	result.Violations = batch.Violations
	for _, v := range batch.Violations {
		p.metrics.RecordPolicyDenial(string(v.Severity))
	}

	executor := document.NewExecutor(doc.Props, p.logger)
	entries := executor.ApplyAll(batch.Approved)
	result.Entries = entries

	failures := 0
	for i := range entries {
		p.metrics.RecordWritebackEntry(string(entries[i].Status))
		p.appendWriteback(ctx, result.RunID, &entries[i])
		if entries[i].Status == document.WritebackFailed {
			failures++
		}
		if p.cfg.Logging.LogWritebacks {
			logger.Debug().
				Str("property", entries[i].Name).
				Str("status", string(entries[i].Status)).
				Str("reason", entries[i].Reason).
				Msg("Writeback entry")
		}
	}

	problem := ""
	if failures > 0 {
		problem = fmt.Sprintf("%d of %d writeback entries failed", failures, len(entries))
	}
	if err := doc.Lifecycle.Complete(failures == 0, problem); err != nil {
		return nil, fmt.Errorf("failed to record processing outcome: %w", err)
	}
	if doc.Lifecycle.State() == document.StateProcessed {
		doc.MarkAllClean()
	}

	p.finish(ctx, result, doc, start)
	logger.Info().
		Str("state", string(result.State)).
		Int("suggestions", len(result.Suggestions)).
		Int("rejected", len(result.Rejected)).
		Dur("duration", result.Duration).
		Msg("Document processed")
	return result, nil
}

// validate checks the document kind and the part facts.
func (p *Processor) validate(doc *document.Document, f facts.PartFacts) error {
	if err := doc.Kind.Validate(); err != nil {
		return err
	}
	return f.Validate()
}

// finish stamps the result from the lifecycle, records metrics, and
// persists the final run status.
func (p *Processor) finish(ctx context.Context, result *ProcessResult, doc *document.Document, start time.Time) *ProcessResult {
	result.State = doc.Lifecycle.State()
	result.Problem = doc.Lifecycle.Problem()
	result.Duration = time.Since(start)

	status := stores.RunStatusProcessed
	metricStatus := "processed"
	if result.State == document.StateProblem {
		status = stores.RunStatusProblem
		metricStatus = "problem"
	}
	p.metrics.RecordDocumentProcessed(metricStatus, result.Duration)

	if p.store != nil {
		var problem *string
		if result.Problem != "" {
			problem = &result.Problem
		}
		if err := p.store.UpdateRunStatus(ctx, result.RunID, status, problem); err != nil {
			p.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Failed to update run status")
		}
		p.appendEvent(ctx, result)
	}
	return result
}

// createRun persists the initial run record. Persistence failures are
// logged and do not block processing.
func (p *Processor) createRun(ctx context.Context, runID string, doc *document.Document) {
	if p.store == nil {
		return
	}

	now := time.Now().UTC()
	run := &stores.ProcessingRun{
		ID:        runID,
		Document:  doc.Name,
		Kind:      string(doc.Kind),
		Status:    stores.RunStatusRunning,
		StartedAt: now,
		Metadata:  "{}",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := p.store.CreateRun(ctx, run); err != nil {
		p.logger.Warn().Err(err).Str("run_id", runID).Msg("Failed to persist run record")
	}
}

func (p *Processor) appendWriteback(ctx context.Context, runID string, entry *document.WritebackEntry) {
	if p.store == nil {
		return
	}

	record := &stores.WritebackRecord{
		RunID:     runID,
		Property:  entry.Name,
		OldValue:  entry.OldValue,
		NewValue:  entry.NewValue,
		Status:    string(entry.Status),
		AppliedAt: time.Now().UTC(),
	}
	if entry.Reason != "" {
		record.Reason = &entry.Reason
	}
	if entry.Category != "" {
		record.Category = &entry.Category
	}
	if err := p.store.AppendWriteback(ctx, record); err != nil {
		p.logger.Warn().Err(err).Str("run_id", runID).Msg("Failed to persist writeback record")
	}
}

func (p *Processor) appendEvent(ctx context.Context, result *ProcessResult) {
	level := stores.EventLevelInfo
	message := "document processed"
	if result.State == document.StateProblem {
		level = stores.EventLevelError
		message = "document processing failed"
	}

	failed := 0
	for _, e := range result.Entries {
		if e.Status == document.WritebackFailed {
			failed++
		}
	}
	details, err := json.Marshal(map[string]any{
		"document":    result.Document,
		"state":       string(result.State),
		"suggestions": len(result.Suggestions),
		"rejected":    len(result.Rejected),
		"failed":      failed,
	})
	if err != nil {
		return
	}
	detailsStr := string(details)

	event := &stores.Event{
		RunID:     &result.RunID,
		Level:     level,
		Message:   message,
		Details:   &detailsStr,
		Timestamp: time.Now().UTC(),
	}
	if err := p.store.AppendEvent(ctx, event); err != nil {
		p.logger.Warn().Err(err).Str("run_id", result.RunID).Msg("Failed to persist event")
	}
}
