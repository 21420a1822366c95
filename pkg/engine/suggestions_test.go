package engine

import (
	"math"
	"strconv"
	"testing"

	"github.com/rs/zerolog"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/document"
	"github.com/partforge/partforge/pkg/facts"
	"github.com/partforge/partforge/pkg/resolvers"
	"github.com/partforge/partforge/pkg/telemetry"
)

// newTestBuilder wires a builder over the default configuration with
// telemetry disabled.
func newTestBuilder(t *testing.T) *SuggestionBuilder {
	t.Helper()

	metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	return NewSuggestionBuilder(
		config.DefaultConfig(),
		resolvers.NewTableProvider(),
		config.NewFormulaEvaluator(0),
		metrics,
		zerolog.Nop(),
	)
}

// suggestionValue finds a suggestion by name; missing is a test failure.
func suggestionValue(t *testing.T, suggestions []document.Suggestion, name string) string {
	t.Helper()
	for _, s := range suggestions {
		if s.Name == name {
			return s.Value
		}
	}
	t.Fatalf("suggestion %s not produced in %+v", name, suggestions)
	return ""
}

func hasSuggestion(suggestions []document.Suggestion, name string) bool {
	for _, s := range suggestions {
		if s.Name == name {
			return true
		}
	}
	return false
}

func numericValue(t *testing.T, suggestions []document.Suggestion, name string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(suggestionValue(t, suggestions, name), 64)
	if err != nil {
		t.Fatalf("suggestion %s is not numeric: %v", name, err)
	}
	return v
}

func TestBuildFullSuggestionSet(t *testing.T) {
	b := newTestBuilder(t)

	suggestions, err := b.Build(t.Context(), facts.PartFacts{
		OutsideDiameter:    2.375,
		WallThickness:      0.154,
		Material:           facts.MaterialCarbonSteel,
		MaterialDesignator: "A36",
		Weight:             150,
		Length:             60,
		FlatThickness:      0.25,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := suggestionValue(t, suggestions, "PipeSize"); got != "2" {
		t.Errorf("PipeSize = %q, want 2", got)
	}
	if got := suggestionValue(t, suggestions, "PipeSchedule"); got != "40" {
		t.Errorf("PipeSchedule = %q, want 40", got)
	}

	// Heavy tier: 0.75 h roll-form setup, run = weight rate plus fixed.
	if got := numericValue(t, suggestions, "RollForm_S"); got != 0.75 {
		t.Errorf("RollForm_S = %g, want 0.75", got)
	}
	wantRun := 150*(5.0/3600.0) + 5.0/60.0
	if got := numericValue(t, suggestions, "RollForm_R"); math.Abs(got-wantRun) > 1e-9 {
		t.Errorf("RollForm_R = %g, want %g", got, wantRun)
	}

	// Thick heavy part triggers the press brake: formula setup, tier run.
	if got := numericValue(t, suggestions, "PressBrake_S"); got != 0.2 {
		t.Errorf("PressBrake_S = %g, want 0.2", got)
	}
	if got := numericValue(t, suggestions, "PressBrake_R"); got != 0.25 {
		t.Errorf("PressBrake_R = %g, want 0.25", got)
	}

	if got := numericValue(t, suggestions, "Deburr_S"); got != 0.03 {
		t.Errorf("Deburr_S = %g, want 0.03", got)
	}
	if got := numericValue(t, suggestions, "Deburr_R"); math.Abs(got-60.0/3600.0) > 1e-9 {
		t.Errorf("Deburr_R = %g", got)
	}

	// 150 lb of A36 at the default price.
	if got := suggestionValue(t, suggestions, "MaterialCost"); got != "93.00" {
		t.Errorf("MaterialCost = %q, want 93.00", got)
	}
}

func TestBuildCuttingParameters(t *testing.T) {
	b := newTestBuilder(t)

	suggestions, err := b.Build(t.Context(), facts.PartFacts{
		WallThickness: 0.045,
		Material:      facts.MaterialCarbonSteel,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// Thin carbon feeds at 295 in/min scaled by the finish factor.
	if got := numericValue(t, suggestions, "CutSpeed"); math.Abs(got-250.75) > 1e-9 {
		t.Errorf("CutSpeed = %g, want 250.75", got)
	}
	if !hasSuggestion(suggestions, "KerfWidth") || !hasSuggestion(suggestions, "PierceTime") {
		t.Errorf("cutting group incomplete: %+v", suggestions)
	}
}

func TestBuildAluminumCutsAtZero(t *testing.T) {
	b := newTestBuilder(t)

	suggestions, err := b.Build(t.Context(), facts.PartFacts{
		WallThickness: 0.125,
		Material:      facts.MaterialAluminum,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := numericValue(t, suggestions, "CutSpeed"); got != 0 {
		t.Errorf("aluminum CutSpeed = %g, want 0", got)
	}
	if got := numericValue(t, suggestions, "PierceTime"); got != 0 {
		t.Errorf("aluminum PierceTime = %g, want 0", got)
	}
}

func TestBuildScheduleMissDropsPipeGroup(t *testing.T) {
	b := newTestBuilder(t)

	suggestions, err := b.Build(t.Context(), facts.PartFacts{
		OutsideDiameter: 2.375,
		WallThickness:   0.162, // outside wall tolerance of every schedule
		Material:        facts.MaterialCarbonSteel,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if hasSuggestion(suggestions, "PipeSize") || hasSuggestion(suggestions, "PipeSchedule") {
		t.Errorf("pipe group produced on miss: %+v", suggestions)
	}
	// Cutting still resolves from the wall alone.
	if !hasSuggestion(suggestions, "CutSpeed") {
		t.Errorf("cutting group missing: %+v", suggestions)
	}
}

func TestBuildEstimatesWeightFromDensity(t *testing.T) {
	b := newTestBuilder(t)

	f := facts.PartFacts{
		OutsideDiameter:    2.375,
		WallThickness:      0.154,
		Material:           facts.MaterialCarbonSteel,
		MaterialDesignator: "A36",
		Length:             60,
	}
	suggestions, err := b.Build(t.Context(), f)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	// No weight means no work-center estimates, but pricing falls back to
	// the annular-section weight estimate.
	if hasSuggestion(suggestions, "RollForm_S") {
		t.Errorf("work-center group produced without weight: %+v", suggestions)
	}

	id := 2.375 - 2*0.154
	area := math.Pi / 4 * (2.375*2.375 - id*id)
	wantCost := area * 60 * 0.2836 * 0.62
	got := numericValue(t, suggestions, "MaterialCost")
	if math.Abs(got-wantCost) > 0.01 {
		t.Errorf("MaterialCost = %g, want about %g", got, wantCost)
	}
}

func TestBuildUnknownDesignatorSkipsPricing(t *testing.T) {
	b := newTestBuilder(t)

	suggestions, err := b.Build(t.Context(), facts.PartFacts{
		Material:           facts.MaterialCarbonSteel,
		MaterialDesignator: "unobtainium",
		Weight:             20,
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if hasSuggestion(suggestions, "MaterialCost") {
		t.Errorf("pricing produced for unknown designator: %+v", suggestions)
	}
}

func TestBuildBrokenSetupFormula(t *testing.T) {
	metrics, err := telemetry.NewMetrics(telemetry.MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Manufacturing.SetupFormula = "result = undefined_name"
	b := NewSuggestionBuilder(cfg, resolvers.NewTableProvider(), config.NewFormulaEvaluator(0), metrics, zerolog.Nop())

	// Heavy and thick, so the press-brake formula must run.
	_, err = b.Build(t.Context(), facts.PartFacts{
		Material:      facts.MaterialCarbonSteel,
		Weight:        150,
		FlatThickness: 0.25,
	})
	if err == nil {
		t.Fatal("broken setup formula did not fail the build")
	}
	if ClassOf(err) != ErrorClassPermanent {
		t.Errorf("error class = %s, want permanent", ClassOf(err))
	}
}
