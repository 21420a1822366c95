package policy

import (
	"time"

	"github.com/partforge/partforge/pkg/document"
)

// Severity represents the severity level of a policy violation.
type Severity string

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = "info"

	// SeverityWarning is for warnings that should be reviewed.
	SeverityWarning Severity = "warning"

	// SeverityError is for errors that block a suggestion.
	SeverityError Severity = "error"
)

// Policy represents a policy rule with its Rego code.
type Policy struct {
	// Name is the unique name of the policy.
	Name string `json:"name"`

	// Description provides a human-readable description.
	Description string `json:"description"`

	// Rego contains the Rego policy code.
	Rego string `json:"rego"`

	// Severity is the default severity for violations.
	Severity Severity `json:"severity"`

	// Enabled indicates if the policy is active.
	Enabled bool `json:"enabled"`

	// Tags are labels for organizing policies.
	Tags []string `json:"tags,omitempty"`
}

// Violation represents a single policy violation.
type Violation struct {
	// Policy is the name of the policy that was violated.
	Policy string `json:"policy"`

	// Property is the property name the suggestion targeted.
	Property string `json:"property,omitempty"`

	// Message is a human-readable violation message.
	Message string `json:"message"`

	// Severity is the violation severity level.
	Severity Severity `json:"severity"`
}

// Result represents the outcome of evaluating one suggestion.
type Result struct {
	// Allowed indicates if the suggestion may be written.
	Allowed bool `json:"allowed"`

	// Violations lists all policy violations.
	Violations []Violation `json:"violations,omitempty"`

	// Warnings lists messages from policies that failed to evaluate.
	Warnings []string `json:"warnings,omitempty"`

	// EvaluatedAt is when the evaluation happened.
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// Input is the document sent to Rego for one suggestion.
type Input struct {
	// Suggestion is the proposed property write.
	Suggestion *document.Suggestion `json:"suggestion"`

	// RecognizedProperties is the configured property-name allowlist.
	RecognizedProperties []string `json:"recognized_properties"`

	// Context carries evaluation metadata.
	Context *Context `json:"context"`
}

// Context provides context information for policy evaluation.
type Context struct {
	// Document is the name of the document being processed.
	Document string `json:"document,omitempty"`

	// Kind is the document kind (part, assembly, drawing).
	Kind string `json:"kind,omitempty"`

	// Timestamp is when the evaluation is occurring.
	Timestamp time.Time `json:"timestamp"`

	// DryRun indicates if this is a dry-run evaluation.
	DryRun bool `json:"dry_run"`
}

// BatchResult is the outcome of evaluating a suggestion batch: the
// approved subset plus every violation raised across the batch.
type BatchResult struct {
	// Approved are the suggestions cleared for writeback, in input order.
	Approved []document.Suggestion `json:"approved"`

	// Rejected are the suggestions blocked by an error violation.
	Rejected []document.Suggestion `json:"rejected,omitempty"`

	// Violations lists every violation, including non-blocking ones.
	Violations []Violation `json:"violations,omitempty"`
}
