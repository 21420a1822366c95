package config

import (
	"context"
	"fmt"
	"time"

	"go.starlark.net/starlark"
)

// FormulaEvaluator executes the small Starlark formula scripts carried in
// the manufacturing configuration (press-brake setup, tonnage capacity,
// tapping setup/run). A formula assigns its answer to a global named
// "result".
type FormulaEvaluator struct {
	timeout time.Duration
}

// NewFormulaEvaluator creates a new formula evaluator.
func NewFormulaEvaluator(timeout time.Duration) *FormulaEvaluator {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &FormulaEvaluator{
		timeout: timeout,
	}
}

// Evaluate executes a formula with the given named inputs and returns the
// value of the "result" global.
func (fe *FormulaEvaluator) Evaluate(ctx context.Context, formula string, inputs map[string]float64) (float64, error) {
	evalCtx, cancel := context.WithTimeout(ctx, fe.timeout)
	defer cancel()

	resultCh := make(chan float64, 1)
	errCh := make(chan error, 1)

	go func() {
		result, err := fe.evaluateSync(formula, inputs)
		if err != nil {
			errCh <- err
		} else {
			resultCh <- result
		}
	}()

	select {
	case <-evalCtx.Done():
		return 0, fmt.Errorf("formula evaluation timeout after %v", fe.timeout)
	case err := <-errCh:
		return 0, err
	case result := <-resultCh:
		return result, nil
	}
}

// evaluateSync performs the actual Starlark evaluation synchronously.
func (fe *FormulaEvaluator) evaluateSync(formula string, inputs map[string]float64) (float64, error) {
	thread := &starlark.Thread{
		Name: "partforge",
		Print: func(_ *starlark.Thread, _ string) {
			// Formulas have no business printing.
		},
	}

	predeclared := starlark.StringDict{}
	for key, val := range inputs {
		predeclared[key] = starlark.Float(val)
	}

	globals, err := starlark.ExecFile(thread, "formula.star", formula, predeclared)
	if err != nil {
		return 0, fmt.Errorf("formula execution failed: %w", err)
	}

	result, ok := globals["result"]
	if !ok {
		return 0, fmt.Errorf("formula did not assign a result")
	}

	switch v := result.(type) {
	case starlark.Float:
		return float64(v), nil
	case starlark.Int:
		f, ok := v.Int64()
		if !ok {
			return 0, fmt.Errorf("formula result too large")
		}
		return float64(f), nil
	default:
		return 0, fmt.Errorf("formula result must be numeric, got %s", result.Type())
	}
}
