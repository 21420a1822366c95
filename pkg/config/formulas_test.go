package config

import (
	"context"
	"math"
	"testing"
	"time"
)

func TestEvaluateDefaultFormulas(t *testing.T) {
	fe := NewFormulaEvaluator(0)
	cfg := DefaultConfig()
	ctx := context.Background()

	setup, err := fe.Evaluate(ctx, cfg.Manufacturing.SetupFormula, map[string]float64{
		"weight": 100, "thickness": 0.25, "length": 48,
	})
	if err != nil {
		t.Fatalf("setup formula: %v", err)
	}
	if setup != 0.20 {
		t.Errorf("setup = %g, want 0.20", setup)
	}

	tonnage, err := fe.Evaluate(ctx, cfg.Manufacturing.TonnageFormula, map[string]float64{
		"thickness": 0.25, "length": 96, "tensile": 60000,
	})
	if err != nil {
		t.Fatalf("tonnage formula: %v", err)
	}
	want := 575.0 * 0.25 * 0.25 * 96 / 12
	if math.Abs(tonnage-want) > 1e-9 {
		t.Errorf("tonnage = %g, want %g", tonnage, want)
	}

	run, err := fe.Evaluate(ctx, cfg.Manufacturing.TappingRunFormula, map[string]float64{
		"holes": 12, "thickness": 0.125,
	})
	if err != nil {
		t.Fatalf("tapping run formula: %v", err)
	}
	want = 12 * (0.25 + 0.125) / 60
	if math.Abs(run-want) > 1e-9 {
		t.Errorf("tapping run = %g, want %g", run, want)
	}
}

func TestEvaluateErrors(t *testing.T) {
	fe := NewFormulaEvaluator(time.Second)
	ctx := context.Background()

	if _, err := fe.Evaluate(ctx, "x = 1", nil); err == nil {
		t.Error("formula without result accepted")
	}
	if _, err := fe.Evaluate(ctx, "result = 'text'", nil); err == nil {
		t.Error("non-numeric result accepted")
	}
	if _, err := fe.Evaluate(ctx, "result = ", nil); err == nil {
		t.Error("syntax error accepted")
	}
}

func TestEvaluateIntResult(t *testing.T) {
	fe := NewFormulaEvaluator(time.Second)

	got, err := fe.Evaluate(context.Background(), "result = 3", nil)
	if err != nil {
		t.Fatalf("int result: %v", err)
	}
	if got != 3 {
		t.Errorf("result = %g, want 3", got)
	}
}
