package compare

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ExpectedField is one baseline field with its comparison directives.
type ExpectedField struct {
	// Value is the recorded value in text form.
	Value string `json:"value" yaml:"value"`

	// Tolerance is the allowed absolute numeric difference; zero means
	// the field must match exactly.
	Tolerance float64 `json:"tolerance,omitempty" yaml:"tolerance,omitempty"`

	// NotImplemented marks a field whose producing feature is known to
	// be absent; differences are reported as such, not as failures.
	NotImplemented bool `json:"not_implemented,omitempty" yaml:"not_implemented,omitempty"`

	// IntentionalDeviation marks a field whose difference from the
	// legacy output is accepted.
	IntentionalDeviation bool `json:"intentional_deviation,omitempty" yaml:"intentional_deviation,omitempty"`

	// Note carries a free-form annotation into the report.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`
}

// PartBaseline is the recorded expected output for one part.
type PartBaseline struct {
	// PartNumber identifies the part.
	PartNumber string `json:"part_number" yaml:"part_number"`

	// Fields maps field name to its expected value and directives.
	Fields map[string]ExpectedField `json:"fields" yaml:"fields"`
}

// Engine compares computed field values against recorded baselines.
type Engine struct {
	logger zerolog.Logger
}

// NewEngine creates a comparison engine.
func NewEngine(logger zerolog.Logger) *Engine {
	return &Engine{
		logger: logger.With().Str("component", "compare").Logger(),
	}
}

// ComparePart compares one part's actual field values against its
// baseline. Field order is the sorted union of baseline and actual names,
// so the result is deterministic for a given input.
func (e *Engine) ComparePart(baseline PartBaseline, actual map[string]string) PartComparisonResult {
	result := PartComparisonResult{PartNumber: baseline.PartNumber}

	names := make([]string, 0, len(baseline.Fields)+len(actual))
	for name := range baseline.Fields {
		names = append(names, name)
	}
	for name := range actual {
		if _, ok := baseline.Fields[name]; !ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		expected, hasExpected := baseline.Fields[name]
		actualValue, hasActual := actual[name]

		fc := FieldComparison{
			Field:     name,
			Expected:  expected.Value,
			Actual:    actualValue,
			Tolerance: expected.Tolerance,
			Note:      expected.Note,
		}

		switch {
		case !hasExpected:
			fc.Status = StatusMissingExpected
		case !hasActual:
			if expected.NotImplemented {
				fc.Status = StatusNotImplemented
			} else {
				fc.Status = StatusMissingActual
			}
		default:
			fc.Status = classify(expected, actualValue)
		}

		result.Fields = append(result.Fields, fc)
	}

	e.logger.Debug().
		Str("part", baseline.PartNumber).
		Int("fields", len(result.Fields)).
		Str("status", string(result.OverallStatus())).
		Msg("Part compared")
	return result
}

// Compare runs ComparePart over every baseline in order and assembles a
// report. Parts present in actuals but absent from the baselines are a
// caller concern; the baseline set defines the comparison universe.
func (e *Engine) Compare(baselines []PartBaseline, actuals map[string]map[string]string) FullComparisonReport {
	report := FullComparisonReport{
		ID:          uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
	}
	for _, b := range baselines {
		report.Parts = append(report.Parts, e.ComparePart(b, actuals[b.PartNumber]))
	}
	return report
}

// classify compares a present expected/actual pair.
func classify(expected ExpectedField, actual string) MatchStatus {
	if strings.EqualFold(strings.TrimSpace(expected.Value), strings.TrimSpace(actual)) {
		return StatusMatch
	}
	if expected.NotImplemented {
		return StatusNotImplemented
	}
	if expected.Tolerance > 0 {
		if within, ok := withinTolerance(expected.Value, actual, expected.Tolerance); ok && within {
			return StatusTolerancePass
		}
	}
	if expected.IntentionalDeviation {
		return StatusIntentionalDeviation
	}
	return StatusFail
}

// withinTolerance reports whether two values parse as numbers and differ
// by at most tol, with the boundary itself passing. The second result is
// false when either value is not numeric, in which case tolerance does
// not apply.
func withinTolerance(expected, actual string, tol float64) (bool, bool) {
	e, err := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	if err != nil {
		return false, false
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(actual), 64)
	if err != nil {
		return false, false
	}
	diff := math.Abs(e - a)
	// Parsed decimals carry representation error, so a diff landing
	// exactly on the boundary can overshoot by a few ULPs. Absorb that
	// before comparing.
	return diff <= tol || math.Abs(diff-tol) <= 1e-9*math.Max(1, math.Abs(tol)), true
}
