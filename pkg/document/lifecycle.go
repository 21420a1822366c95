package document

import (
	"fmt"
	"time"
)

// State represents the processing state of a document.
type State string

const (
	// StateUnprocessed is the initial state of every document.
	StateUnprocessed State = "unprocessed"

	// StateValidated indicates the document passed validation.
	StateValidated State = "validated"

	// StateProcessing indicates processing has started.
	StateProcessing State = "processing"

	// StateProcessed indicates processing completed successfully.
	StateProcessed State = "processed"

	// StateProblem indicates validation or processing failed.
	StateProblem State = "problem"
)

// IsTerminal returns true if the state is final. A terminal document
// cannot transition again; recovery requires a fresh lifecycle.
func (s State) IsTerminal() bool {
	return s == StateProcessed || s == StateProblem
}

// Validate checks if the state is valid.
func (s State) Validate() error {
	switch s {
	case StateUnprocessed, StateValidated, StateProcessing, StateProcessed, StateProblem:
		return nil
	default:
		return fmt.Errorf("invalid document state: %s", s)
	}
}

// defaultProblem describes a failure when the caller supplies no detail.
const defaultProblem = "unspecified processing problem"

// InvalidTransitionError reports a lifecycle operation attempted from the
// wrong state. It indicates a caller defect, not a data condition.
type InvalidTransitionError struct {
	// Op is the attempted operation.
	Op string

	// State is the state the document was in.
	State State
}

// Error implements the error interface.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s document in state %s", e.Op, e.State)
}

// Lifecycle tracks a single document's processing progress. It has no
// internal locking; callers serialize access per document.
type Lifecycle struct {
	state   State
	problem string

	// ValidatedAt is set when validation concludes, success or failure.
	ValidatedAt *time.Time

	// ProcessedAt is set when processing concludes, success or failure.
	ProcessedAt *time.Time
}

// NewLifecycle creates a lifecycle in the Unprocessed state.
func NewLifecycle() *Lifecycle {
	return &Lifecycle{state: StateUnprocessed}
}

// State returns the current state.
func (l *Lifecycle) State() State {
	return l.state
}

// Problem returns the problem description, empty unless in StateProblem.
func (l *Lifecycle) Problem() string {
	return l.problem
}

// Validate concludes validation. Legal only from Unprocessed: success
// moves to Validated, failure to Problem. The validation timestamp is
// recorded either way.
func (l *Lifecycle) Validate(ok bool, problem string) error {
	if l.state != StateUnprocessed {
		return &InvalidTransitionError{Op: "validate", State: l.state}
	}

	now := time.Now().UTC()
	l.ValidatedAt = &now

	if ok {
		l.state = StateValidated
		return nil
	}
	l.toProblem(problem)
	return nil
}

// Start begins processing. Legal only from Validated.
func (l *Lifecycle) Start() error {
	if l.state != StateValidated {
		return &InvalidTransitionError{Op: "start processing", State: l.state}
	}
	l.state = StateProcessing
	return nil
}

// Complete concludes processing. Legal only from Processing: success moves
// to Processed, failure to Problem. The processing timestamp is recorded
// either way.
func (l *Lifecycle) Complete(ok bool, problem string) error {
	if l.state != StateProcessing {
		return &InvalidTransitionError{Op: "complete processing", State: l.state}
	}

	now := time.Now().UTC()
	l.ProcessedAt = &now

	if ok {
		l.state = StateProcessed
		return nil
	}
	l.toProblem(problem)
	return nil
}

func (l *Lifecycle) toProblem(problem string) {
	if problem == "" {
		problem = defaultProblem
	}
	l.state = StateProblem
	l.problem = problem
}
