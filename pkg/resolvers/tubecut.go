package resolvers

import (
	"github.com/partforge/partforge/pkg/facts"
)

// finishFactor scales the base feed rate down for finish-quality cuts.
const finishFactor = 0.85

// CutParams are the resolved tube cutting parameters. All values are
// non-negative; zero is a valid value (aluminum feed and pierce are
// defined as exactly zero).
type CutParams struct {
	// Kerf is the cut width in inches.
	Kerf float64 `json:"kerf"`

	// PierceTime is the pierce time in seconds.
	PierceTime float64 `json:"pierce_time"`

	// CutSpeed is the finished cut speed in in/min.
	CutSpeed float64 `json:"cut_speed"`
}

// CutParams resolves the cutting parameters for a material family and wall
// thickness. Cut speed is the banded base feed scaled by the finishing
// factor; pierce time comes from an independently banded step function.
// An unrecognized material uses the carbon steel tables. Both step
// functions treat band boundaries as inclusive upper bounds and fall
// through to the table's final value past the last boundary.
func (p *TableProvider) CutParams(material facts.MaterialCategory, wall float64) CutParams {
	p.mu.RLock()
	defer p.mu.RUnlock()

	table, ok := p.cut[material]
	if !ok {
		// MaterialOther and anything else unrecognized cut like carbon.
		table, ok = p.cut[facts.MaterialCarbonSteel]
		if !ok {
			return CutParams{}
		}
	}

	return CutParams{
		Kerf:       table.kerf,
		PierceTime: stepLookup(table.pierceBands, table.pierceElse, wall),
		CutSpeed:   stepLookup(table.feedBands, table.feedElse, wall) * finishFactor,
	}
}
