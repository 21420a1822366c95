package policy

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/partforge/partforge/pkg/document"
)

var recognized = []string{"PartNo", "Material", "RollForm_S", "RollForm_R", "Deburr_S"}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(zerolog.Nop())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e
}

func evaluate(t *testing.T, e *Engine, s document.Suggestion) *Result {
	t.Helper()
	result, err := e.EvaluateSuggestion(t.Context(), &Input{
		Suggestion:           &s,
		RecognizedProperties: recognized,
		Context:              &Context{Timestamp: time.Now()},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	return result
}

func TestBuiltinPoliciesCompile(t *testing.T) {
	e := newTestEngine(t)

	policies := e.ListPolicies()
	if len(policies) != len(GetBuiltinPolicies()) {
		t.Fatalf("loaded %d policies, want %d", len(policies), len(GetBuiltinPolicies()))
	}
	for _, p := range policies {
		if !p.Enabled {
			t.Errorf("built-in policy %s not enabled", p.Name)
		}
	}
}

func TestRecognizedPropertyPolicy(t *testing.T) {
	e := newTestEngine(t)

	result := evaluate(t, e, document.Suggestion{Name: "Bogus_X", Value: "1"})
	if result.Allowed {
		t.Fatal("unrecognized property allowed")
	}
	found := false
	for _, v := range result.Violations {
		if v.Policy == "recognized-property" && v.Property == "Bogus_X" {
			found = true
		}
	}
	if !found {
		t.Errorf("violations = %+v", result.Violations)
	}

	// Allowlist match is case-insensitive.
	if got := evaluate(t, e, document.Suggestion{Name: "material", Value: "A36"}); !got.Allowed {
		t.Errorf("case-insensitive match rejected: %+v", got.Violations)
	}
}

func TestNumericHoursPolicy(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name    string
		value   string
		allowed bool
	}{
		{"RollForm_S", "0.25", true},
		{"RollForm_R", "0.2917", true},
		{"Deburr_S", "n/a", false},
		{"RollForm_S", "-0.5", false},
		{"Material", "A36", true}, // not an hours property
	}

	for _, tt := range tests {
		result := evaluate(t, e, document.Suggestion{Name: tt.name, Value: tt.value})
		if result.Allowed != tt.allowed {
			t.Errorf("%s=%q allowed = %v, want %v (violations %+v)",
				tt.name, tt.value, result.Allowed, tt.allowed, result.Violations)
		}
	}
}

func TestEmptyValueWarnsWithoutBlocking(t *testing.T) {
	e := newTestEngine(t)

	result := evaluate(t, e, document.Suggestion{Name: "Material", Value: "  "})
	if !result.Allowed {
		t.Fatalf("warning blocked suggestion: %+v", result.Violations)
	}
	found := false
	for _, v := range result.Violations {
		if v.Policy == "empty-value" && v.Severity == SeverityWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("empty value not flagged: %+v", result.Violations)
	}
}

func TestEvaluateBatchSplitsApprovedRejected(t *testing.T) {
	e := newTestEngine(t)

	batch, err := e.EvaluateBatch(t.Context(),
		[]document.Suggestion{
			{Name: "PartNo", Value: "PF-1001"},
			{Name: "Bogus_X", Value: "1"},
			{Name: "RollForm_R", Value: "0.2917"},
		},
		recognized,
		&Context{Document: "bracket", Kind: "part", Timestamp: time.Now()},
	)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	if len(batch.Approved) != 2 {
		t.Errorf("approved = %d, want 2", len(batch.Approved))
	}
	if len(batch.Rejected) != 1 || batch.Rejected[0].Name != "Bogus_X" {
		t.Errorf("rejected = %+v", batch.Rejected)
	}
	// Approved suggestions keep input order.
	if batch.Approved[0].Name != "PartNo" || batch.Approved[1].Name != "RollForm_R" {
		t.Errorf("approved order = %+v", batch.Approved)
	}
}

func TestDisablePolicy(t *testing.T) {
	e := newTestEngine(t)

	if err := e.DisablePolicy("recognized-property"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got := evaluate(t, e, document.Suggestion{Name: "Bogus_X", Value: "1"}); !got.Allowed {
		t.Errorf("disabled policy still blocking: %+v", got.Violations)
	}

	if err := e.EnablePolicy("recognized-property"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := evaluate(t, e, document.Suggestion{Name: "Bogus_X", Value: "1"}); got.Allowed {
		t.Error("re-enabled policy not blocking")
	}

	if err := e.DisablePolicy("nosuch"); err == nil {
		t.Error("disabling unknown policy succeeded")
	}
}
