package document

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Property name conventions that mark a value as numeric: setup/run hour
// suffixes and the operation-number prefix.
const (
	setupSuffix     = "_S"
	runSuffix       = "_R"
	operationMarker = "OP"
)

// WritebackStatus classifies the outcome of one writeback entry.
type WritebackStatus string

const (
	// WritebackApplied means the value was written to the cache.
	WritebackApplied WritebackStatus = "applied"

	// WritebackSkipped means the suggestion was intentionally not
	// applied (empty name, unchanged value).
	WritebackSkipped WritebackStatus = "skipped"

	// WritebackFailed means the cache write raised an error.
	WritebackFailed WritebackStatus = "failed"
)

// Suggestion is a proposed property name/value pair, produced upstream and
// already approved by the caller.
type Suggestion struct {
	// Name is the target property name.
	Name string `json:"name"`

	// Value is the proposed value in text form.
	Value string `json:"value"`

	// Category labels where the suggestion came from.
	Category string `json:"category,omitempty"`
}

// WritebackEntry is one audit record from applying a suggestion.
type WritebackEntry struct {
	// Name is the target property name.
	Name string `json:"name"`

	// OldValue is the cache value before the write ("" when absent).
	OldValue string `json:"old_value"`

	// NewValue is the proposed value.
	NewValue string `json:"new_value"`

	// Status is the outcome.
	Status WritebackStatus `json:"status"`

	// Reason explains a skip or failure.
	Reason string `json:"reason,omitempty"`

	// Category is carried over from the suggestion.
	Category string `json:"category,omitempty"`
}

// PropertyWriter is the slice of the property cache the executor needs.
type PropertyWriter interface {
	GetText(name string) string
	Set(name, value string, typ PropertyType) error
}

// Executor applies approved property suggestions to a property cache,
// producing an audit trail. Per-entry failures never abort the batch.
type Executor struct {
	cache  PropertyWriter
	logger zerolog.Logger
}

// NewExecutor creates an executor targeting a property cache.
func NewExecutor(cache PropertyWriter, logger zerolog.Logger) *Executor {
	return &Executor{
		cache:  cache,
		logger: logger.With().Str("component", "writeback").Logger(),
	}
}

// ApplyAll applies each suggestion in order and returns one entry per
// suggestion. Skips and failures are recorded, not raised.
func (x *Executor) ApplyAll(suggestions []Suggestion) []WritebackEntry {
	entries := make([]WritebackEntry, 0, len(suggestions))
	for _, s := range suggestions {
		entries = append(entries, x.apply(s))
	}
	return entries
}

// Apply applies a single name/value pair directly, following the same
// type-inference and error-capture rules as the batch path. Duplicate-name
// cross-checking is a caller concern, not handled here.
func (x *Executor) Apply(name, value string) WritebackEntry {
	return x.apply(Suggestion{Name: name, Value: value})
}

func (x *Executor) apply(s Suggestion) WritebackEntry {
	entry := WritebackEntry{
		Name:     s.Name,
		NewValue: s.Value,
		Category: s.Category,
	}

	if strings.TrimSpace(s.Name) == "" {
		entry.Status = WritebackSkipped
		entry.Reason = "name empty"
		return entry
	}

	current := x.cache.GetText(s.Name)
	entry.OldValue = current

	if strings.EqualFold(current, s.Value) {
		entry.Status = WritebackSkipped
		entry.Reason = "already matches"
		return entry
	}

	typ := inferType(s.Name, s.Value)
	if err := x.cache.Set(s.Name, s.Value, typ); err != nil {
		entry.Status = WritebackFailed
		entry.Reason = err.Error()
		x.logger.Warn().Err(err).Str("property", s.Name).Msg("Property write failed")
		return entry
	}

	entry.Status = WritebackApplied
	x.logger.Debug().
		Str("property", s.Name).
		Str("old", current).
		Str("new", s.Value).
		Msg("Property written")
	return entry
}

// inferType decides whether a value is numeric: the name must follow a
// numeric naming convention (setup/run suffix or operation-number marker)
// and the value must parse as a number under invariant formatting.
func inferType(name, value string) PropertyType {
	if !numericName(name) {
		return PropertyText
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err != nil {
		return PropertyText
	}
	return PropertyNumber
}

func numericName(name string) bool {
	upper := strings.ToUpper(name)
	return strings.HasSuffix(upper, setupSuffix) ||
		strings.HasSuffix(upper, runSuffix) ||
		upper == operationMarker ||
		strings.HasPrefix(upper, operationMarker)
}
