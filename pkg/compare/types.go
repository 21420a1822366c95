// Package compare reconciles computed field values against recorded
// baselines and aggregates per-field match statuses into per-part and
// whole-report summaries. Mismatches are data, never errors.
package compare

import (
	"fmt"
	"time"
)

// MatchStatus classifies one field comparison.
type MatchStatus string

const (
	// StatusMatch means expected and actual are identical.
	StatusMatch MatchStatus = "match"

	// StatusTolerancePass means the values differ within tolerance.
	StatusTolerancePass MatchStatus = "tolerance_pass"

	// StatusIntentionalDeviation means the values differ and the baseline
	// marks the field as an accepted deviation from the legacy output.
	StatusIntentionalDeviation MatchStatus = "intentional_deviation"

	// StatusNotImplemented means the field is recorded but the producing
	// feature is not implemented yet.
	StatusNotImplemented MatchStatus = "not_implemented"

	// StatusFail means the values differ beyond tolerance.
	StatusFail MatchStatus = "fail"

	// StatusMissingActual means the baseline has the field but the
	// computed output does not.
	StatusMissingActual MatchStatus = "missing_actual"

	// StatusMissingExpected means the computed output has the field but
	// the baseline does not.
	StatusMissingExpected MatchStatus = "missing_expected"
)

// Validate checks if the status is valid.
func (s MatchStatus) Validate() error {
	switch s {
	case StatusMatch, StatusTolerancePass, StatusIntentionalDeviation,
		StatusNotImplemented, StatusFail, StatusMissingActual, StatusMissingExpected:
		return nil
	default:
		return fmt.Errorf("invalid match status: %s", s)
	}
}

// Priority orders statuses for worst-status aggregation; higher is worse.
func (s MatchStatus) Priority() int {
	switch s {
	case StatusFail:
		return 6
	case StatusMissingActual, StatusMissingExpected:
		return 5
	case StatusNotImplemented:
		return 4
	case StatusIntentionalDeviation:
		return 3
	case StatusTolerancePass:
		return 2
	default:
		return 1
	}
}

// reportOrder is the status grouping order used by the detailed report.
var reportOrder = []MatchStatus{
	StatusFail,
	StatusMissingActual,
	StatusMissingExpected,
	StatusNotImplemented,
	StatusIntentionalDeviation,
	StatusTolerancePass,
}

// allStatuses lists every status for summary counting, worst first.
var allStatuses = append(append([]MatchStatus{}, reportOrder...), StatusMatch)

// FieldComparison is one compared field.
type FieldComparison struct {
	// Field is the field name.
	Field string `json:"field"`

	// Expected is the baseline value ("" when missing).
	Expected string `json:"expected"`

	// Actual is the computed value ("" when missing).
	Actual string `json:"actual"`

	// Status is the match outcome.
	Status MatchStatus `json:"status"`

	// Tolerance is the numeric tolerance applied, zero for exact fields.
	Tolerance float64 `json:"tolerance,omitempty"`

	// Note carries the baseline's annotation for the field.
	Note string `json:"note,omitempty"`
}

// PartComparisonResult aggregates the field comparisons for one part.
type PartComparisonResult struct {
	// PartNumber identifies the part.
	PartNumber string `json:"part_number"`

	// Fields are the per-field comparisons.
	Fields []FieldComparison `json:"fields"`
}

// OverallStatus derives the part's worst field status. A part with no
// fields reports a match.
func (p *PartComparisonResult) OverallStatus() MatchStatus {
	worst := StatusMatch
	for i := range p.Fields {
		if p.Fields[i].Status.Priority() > worst.Priority() {
			worst = p.Fields[i].Status
		}
	}
	return worst
}

// fieldsWithStatus returns the part's fields carrying the given status.
func (p *PartComparisonResult) fieldsWithStatus(s MatchStatus) []FieldComparison {
	var out []FieldComparison
	for i := range p.Fields {
		if p.Fields[i].Status == s {
			out = append(out, p.Fields[i])
		}
	}
	return out
}

// FullComparisonReport aggregates part results.
type FullComparisonReport struct {
	// ID identifies the comparison run.
	ID string `json:"id"`

	// GeneratedAt is when the report was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// Parts are the per-part results.
	Parts []PartComparisonResult `json:"parts"`
}

// FieldCount is the total number of compared fields across parts.
func (r *FullComparisonReport) FieldCount() int {
	n := 0
	for i := range r.Parts {
		n += len(r.Parts[i].Fields)
	}
	return n
}

// CountByStatus sums fields with the given status across parts.
func (r *FullComparisonReport) CountByStatus(s MatchStatus) int {
	n := 0
	for i := range r.Parts {
		for j := range r.Parts[i].Fields {
			if r.Parts[i].Fields[j].Status == s {
				n++
			}
		}
	}
	return n
}

// PercentByStatus is the share of fields with the given status. A report
// with zero fields reports 0% for every status.
func (r *FullComparisonReport) PercentByStatus(s MatchStatus) float64 {
	total := r.FieldCount()
	if total == 0 {
		return 0
	}
	return 100 * float64(r.CountByStatus(s)) / float64(total)
}
