package engine

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/partforge/partforge/pkg/config"
	"github.com/partforge/partforge/pkg/document"
	"github.com/partforge/partforge/pkg/facts"
	"github.com/partforge/partforge/pkg/resolvers"
	"github.com/partforge/partforge/pkg/telemetry"
)

// Suggestion categories, carried into the writeback audit trail.
const (
	categoryPipe       = "pipe"
	categoryCutting    = "cutting"
	categoryWorkCenter = "workcenter"
	categoryPricing    = "pricing"
)

// SuggestionBuilder turns part facts into property suggestions by running
// the resolvers and estimators and formatting their outputs under the
// configured property names.
type SuggestionBuilder struct {
	cfg       *config.EngineConfig
	tables    *resolvers.TableProvider
	estimator *resolvers.Estimator
	formulas  *config.FormulaEvaluator
	metrics   *telemetry.Metrics
	logger    zerolog.Logger
}

// NewSuggestionBuilder creates a builder over the given tables and config.
func NewSuggestionBuilder(cfg *config.EngineConfig, tables *resolvers.TableProvider, formulas *config.FormulaEvaluator, metrics *telemetry.Metrics, logger zerolog.Logger) *SuggestionBuilder {
	return &SuggestionBuilder{
		cfg:       cfg,
		tables:    tables,
		estimator: resolvers.NewEstimator(cfg),
		formulas:  formulas,
		metrics:   metrics,
		logger:    logger.With().Str("component", "suggestions").Logger(),
	}
}

// Build produces the full suggestion set for one part. A resolver miss
// drops that suggestion group; only a formula failure is an error.
func (b *SuggestionBuilder) Build(ctx context.Context, f facts.PartFacts) ([]document.Suggestion, error) {
	var suggestions []document.Suggestion

	suggestions = append(suggestions, b.pipeSuggestions(f)...)
	suggestions = append(suggestions, b.cuttingSuggestions(f)...)

	wc, err := b.workCenterSuggestions(ctx, f)
	if err != nil {
		return nil, err
	}
	suggestions = append(suggestions, wc...)

	suggestions = append(suggestions, b.pricingSuggestions(f)...)

	b.logger.Debug().
		Int("count", len(suggestions)).
		Msg("Suggestions built")
	return suggestions, nil
}

// pipeSuggestions resolves the pipe schedule. No match is a normal
// outcome, not a fault; the group is simply absent.
func (b *SuggestionBuilder) pipeSuggestions(f facts.PartFacts) []document.Suggestion {
	if f.OutsideDiameter <= 0 || f.WallThickness <= 0 {
		return nil
	}

	match, ok := b.tables.ResolveSchedule(f.OutsideDiameter, f.WallThickness, string(f.Material))
	if !ok {
		b.metrics.RecordScheduleResolution("missed")
		if b.cfg.Logging.LogResolutions {
			b.logger.Debug().
				Float64("od", f.OutsideDiameter).
				Float64("wall", f.WallThickness).
				Msg("Pipe schedule resolution missed")
		}
		return nil
	}
	b.metrics.RecordScheduleResolution("matched")

	return []document.Suggestion{
		{Name: "PipeSize", Value: match.NPS, Category: categoryPipe},
		{Name: "PipeSchedule", Value: match.Schedule, Category: categoryPipe},
	}
}

// cuttingSuggestions resolves kerf, pierce time, and cut speed.
func (b *SuggestionBuilder) cuttingSuggestions(f facts.PartFacts) []document.Suggestion {
	if f.WallThickness <= 0 {
		return nil
	}

	cp := b.tables.CutParams(f.Material, f.WallThickness)
	b.metrics.RecordCutParamLookup(string(f.Material))

	return []document.Suggestion{
		{Name: "KerfWidth", Value: formatNumber(cp.Kerf), Category: categoryCutting},
		{Name: "PierceTime", Value: formatNumber(cp.PierceTime), Category: categoryCutting},
		{Name: "CutSpeed", Value: formatNumber(cp.CutSpeed), Category: categoryCutting},
	}
}

// workCenterSuggestions estimates roll-form, press-brake, and deburr hours.
// Press-brake setup comes from the configured formula, so a broken formula
// surfaces as an error.
func (b *SuggestionBuilder) workCenterSuggestions(ctx context.Context, f facts.PartFacts) ([]document.Suggestion, error) {
	if f.Weight <= 0 {
		return nil, nil
	}

	var suggestions []document.Suggestion

	rf := b.estimator.RollForm(f.Weight, f.FlatThickness)
	suggestions = append(suggestions,
		document.Suggestion{Name: "RollForm_S", Value: formatNumber(rf.SetupHours), Category: categoryWorkCenter},
		document.Suggestion{Name: "RollForm_R", Value: formatNumber(rf.RunHours), Category: categoryWorkCenter},
	)

	if rf.RequiresPressBrake {
		setup, err := b.formulas.Evaluate(ctx, b.cfg.Manufacturing.SetupFormula, map[string]float64{
			"weight":    f.Weight,
			"thickness": f.FlatThickness,
			"length":    f.Length,
		})
		if err != nil {
			return nil, NewPermanentError("press-brake setup formula failed", err)
		}

		pb := b.estimator.PressBrake(f.Weight, f.FlatThickness, setup)
		suggestions = append(suggestions,
			document.Suggestion{Name: "PressBrake_S", Value: formatNumber(pb.SetupHours), Category: categoryWorkCenter},
			document.Suggestion{Name: "PressBrake_R", Value: formatNumber(pb.RunHours), Category: categoryWorkCenter},
		)
	}

	if f.Length > 0 {
		d := b.estimator.Deburr(f.Length, 0)
		suggestions = append(suggestions,
			document.Suggestion{Name: "Deburr_S", Value: formatNumber(d.SetupHours), Category: categoryWorkCenter},
			document.Suggestion{Name: "Deburr_R", Value: formatNumber(d.RunHours), Category: categoryWorkCenter},
		)
	}

	return suggestions, nil
}

// pricingSuggestions computes the material cost from the pricing table.
// When the part carries no weight but pipe dimensions are present, the
// weight is estimated from the material density.
func (b *SuggestionBuilder) pricingSuggestions(f facts.PartFacts) []document.Suggestion {
	price, ok := b.cfg.MaterialPricing[f.MaterialDesignator]
	if !ok {
		return nil
	}

	weight := f.Weight
	if weight <= 0 {
		weight = b.estimateWeight(f)
	}
	if weight <= 0 {
		return nil
	}

	cost := weight * price
	return []document.Suggestion{
		{Name: "MaterialCost", Value: fmt.Sprintf("%.2f", cost), Category: categoryPricing},
	}
}

// estimateWeight derives a pipe weight from the annular cross-section and
// the configured density. Zero when the dimensions or density are absent.
func (b *SuggestionBuilder) estimateWeight(f facts.PartFacts) float64 {
	density, ok := b.cfg.MaterialDensities[f.MaterialDesignator]
	if !ok || f.OutsideDiameter <= 0 || f.WallThickness <= 0 || f.Length <= 0 {
		return 0
	}

	spec := facts.PipeSpec{OutsideDiameter: f.OutsideDiameter, WallThickness: f.WallThickness}
	id := spec.InsideDiameter()
	area := math.Pi / 4 * (f.OutsideDiameter*f.OutsideDiameter - id*id)
	return area * f.Length * density
}

// formatNumber renders a value under invariant numeric formatting, the
// same form the property cache uses for numeric entries.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
