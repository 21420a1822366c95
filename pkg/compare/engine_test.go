package compare

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestEngine() *Engine {
	return NewEngine(zerolog.Nop())
}

func fieldByName(t *testing.T, result PartComparisonResult, name string) FieldComparison {
	t.Helper()
	for _, fc := range result.Fields {
		if fc.Field == name {
			return fc
		}
	}
	t.Fatalf("field %q not in result", name)
	return FieldComparison{}
}

func TestComparePartStatuses(t *testing.T) {
	e := newTestEngine()

	baseline := PartBaseline{
		PartNumber: "PF-1001",
		Fields: map[string]ExpectedField{
			"Material":   {Value: "A36"},
			"RollForm_R": {Value: "0.2917", Tolerance: 0.001},
			"Weight":     {Value: "150"},
			"Tonnage":    {Value: "12.5", NotImplemented: true},
			"Deburr_S":   {Value: "0.03", IntentionalDeviation: true, Note: "rounding changed"},
			"Length":     {Value: "120"},
		},
	}
	actual := map[string]string{
		"Material":   "a36",    // case differs, still a match
		"RollForm_R": "0.2912", // inside tolerance
		"Weight":     "151",    // exact field, differs
		"Deburr_S":   "0.031",
		"Kerf":       "0.008", // not in baseline
	}

	result := e.ComparePart(baseline, actual)

	want := map[string]MatchStatus{
		"Material":   StatusMatch,
		"RollForm_R": StatusTolerancePass,
		"Weight":     StatusFail,
		"Tonnage":    StatusNotImplemented,
		"Deburr_S":   StatusIntentionalDeviation,
		"Length":     StatusMissingActual,
		"Kerf":       StatusMissingExpected,
	}
	if len(result.Fields) != len(want) {
		t.Fatalf("fields = %d, want %d", len(result.Fields), len(want))
	}
	for name, status := range want {
		if got := fieldByName(t, result, name).Status; got != status {
			t.Errorf("%s status = %s, want %s", name, got, status)
		}
	}

	if fc := fieldByName(t, result, "Deburr_S"); fc.Note != "rounding changed" {
		t.Errorf("note not carried: %+v", fc)
	}
	if result.OverallStatus() != StatusFail {
		t.Errorf("overall = %s, want fail", result.OverallStatus())
	}
}

func TestToleranceBoundary(t *testing.T) {
	tests := []struct {
		name     string
		expected ExpectedField
		actual   string
		want     MatchStatus
	}{
		{"exact boundary", ExpectedField{Value: "1.00", Tolerance: 0.01}, "1.01", StatusTolerancePass},
		{"boundary despite float error", ExpectedField{Value: "2.00", Tolerance: 0.03}, "2.03", StatusTolerancePass},
		{"just outside", ExpectedField{Value: "1.00", Tolerance: 0.01}, "1.011", StatusFail},
		{"zero tolerance differs", ExpectedField{Value: "1.00"}, "1.001", StatusFail},
		{"non-numeric with tolerance", ExpectedField{Value: "A36", Tolerance: 0.5}, "304", StatusFail},
		{"whitespace match", ExpectedField{Value: " 40 "}, "40", StatusMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.expected, tt.actual); got != tt.want {
				t.Errorf("classify = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOverallStatusPrecedence(t *testing.T) {
	part := PartComparisonResult{
		PartNumber: "PF-2",
		Fields: []FieldComparison{
			{Field: "a", Status: StatusMatch},
			{Field: "b", Status: StatusFail},
			{Field: "c", Status: StatusMatch},
		},
	}
	if part.OverallStatus() != StatusFail {
		t.Errorf("overall = %s, want fail", part.OverallStatus())
	}

	part.Fields[1].Status = StatusTolerancePass
	if part.OverallStatus() != StatusTolerancePass {
		t.Errorf("overall = %s, want tolerance_pass", part.OverallStatus())
	}

	empty := PartComparisonResult{PartNumber: "PF-3"}
	if empty.OverallStatus() != StatusMatch {
		t.Errorf("empty part overall = %s, want match", empty.OverallStatus())
	}
}

func TestEmptyReportPercentages(t *testing.T) {
	var r FullComparisonReport
	for _, s := range allStatuses {
		if got := r.PercentByStatus(s); got != 0 {
			t.Errorf("%s percent = %g, want 0", s, got)
		}
	}
	if r.FieldCount() != 0 {
		t.Errorf("field count = %d", r.FieldCount())
	}
}

func TestCompareDeterministicOrder(t *testing.T) {
	e := newTestEngine()
	baseline := PartBaseline{
		PartNumber: "PF-4",
		Fields: map[string]ExpectedField{
			"c": {Value: "3"},
			"a": {Value: "1"},
			"b": {Value: "2"},
		},
	}
	actual := map[string]string{"a": "1", "b": "2", "c": "3", "d": "4"}

	first := e.ComparePart(baseline, actual)
	for i := 0; i < 10; i++ {
		again := e.ComparePart(baseline, actual)
		for j := range first.Fields {
			if again.Fields[j].Field != first.Fields[j].Field {
				t.Fatalf("run %d field order diverged at %d: %s vs %s",
					i, j, again.Fields[j].Field, first.Fields[j].Field)
			}
		}
	}
	want := []string{"a", "b", "c", "d"}
	for i, fc := range first.Fields {
		if fc.Field != want[i] {
			t.Errorf("fields[%d] = %s, want %s", i, fc.Field, want[i])
		}
	}
}

func TestReportRendering(t *testing.T) {
	e := newTestEngine()
	report := e.Compare(
		[]PartBaseline{
			{
				PartNumber: "PF-1",
				Fields: map[string]ExpectedField{
					"Material": {Value: "A36"},
					"Weight":   {Value: "150"},
				},
			},
			{
				PartNumber: "PF-2",
				Fields: map[string]ExpectedField{
					"Material": {Value: "304"},
				},
			},
		},
		map[string]map[string]string{
			"PF-1": {"Material": "A36", "Weight": "149"},
			"PF-2": {"Material": "304"},
		},
	)

	summary := Summary(&report)
	if !strings.Contains(summary, "2 parts, 3 fields") {
		t.Errorf("summary missing totals:\n%s", summary)
	}
	if !strings.Contains(summary, "FAILURES") {
		t.Errorf("summary missing failure line:\n%s", summary)
	}

	detailed := Detailed(&report)
	if !strings.Contains(detailed, "Part PF-1 [fail]") {
		t.Errorf("detailed missing failing part:\n%s", detailed)
	}
	if strings.Contains(detailed, "Part PF-2") {
		t.Errorf("clean part should be omitted from breakdown:\n%s", detailed)
	}
	if !strings.Contains(detailed, `Weight: expected "150", actual "149"`) {
		t.Errorf("detailed missing field line:\n%s", detailed)
	}

	if again := Detailed(&report); again != detailed {
		t.Error("detailed report not deterministic")
	}
}
