package resolvers

import (
	"math"
	"testing"

	"github.com/partforge/partforge/pkg/facts"
)

func TestCutParamsCarbonSteel(t *testing.T) {
	p := NewTableProvider()

	// 0.045 in falls in the 295 in/min base feed band.
	cp := p.CutParams(facts.MaterialCarbonSteel, 0.045)
	want := 295 * 0.85
	if math.Abs(cp.CutSpeed-want) > 1e-9 {
		t.Errorf("cut speed = %g, want %g", cp.CutSpeed, want)
	}
	if cp.Kerf != 0.008 {
		t.Errorf("kerf = %g, want 0.008", cp.Kerf)
	}
	if cp.PierceTime != 0.5 {
		t.Errorf("pierce = %g, want 0.5", cp.PierceTime)
	}
}

func TestCutParamsBandBoundariesInclusive(t *testing.T) {
	p := NewTableProvider()

	// Exactly on a boundary stays in the band.
	cp := p.CutParams(facts.MaterialCarbonSteel, 0.048)
	if math.Abs(cp.CutSpeed-295*0.85) > 1e-9 {
		t.Errorf("cut speed at boundary = %g, want %g", cp.CutSpeed, 295*0.85)
	}

	// Just past the boundary drops to the next band.
	cp = p.CutParams(facts.MaterialCarbonSteel, 0.0481)
	if math.Abs(cp.CutSpeed-270*0.85) > 1e-9 {
		t.Errorf("cut speed past boundary = %g, want %g", cp.CutSpeed, 270*0.85)
	}
}

func TestCutParamsBeyondLastBand(t *testing.T) {
	p := NewTableProvider()

	cp := p.CutParams(facts.MaterialCarbonSteel, 0.75)
	if math.Abs(cp.CutSpeed-25*0.85) > 1e-9 {
		t.Errorf("else-band cut speed = %g, want %g", cp.CutSpeed, 25*0.85)
	}
	if cp.PierceTime != 7.0 {
		t.Errorf("else-band pierce = %g, want 7.0", cp.PierceTime)
	}
}

func TestCutParamsAluminumZero(t *testing.T) {
	p := NewTableProvider()

	for _, wall := range []float64{0.010, 0.045, 0.125, 0.500, 2.0} {
		cp := p.CutParams(facts.MaterialAluminum, wall)
		if cp.CutSpeed != 0 || cp.PierceTime != 0 {
			t.Errorf("aluminum at %g: speed=%g pierce=%g, want zeros", wall, cp.CutSpeed, cp.PierceTime)
		}
		if cp.Kerf != 0.010 {
			t.Errorf("aluminum kerf = %g, want 0.010", cp.Kerf)
		}
	}
}

func TestCutParamsUnknownMaterialFallsBackToCarbon(t *testing.T) {
	p := NewTableProvider()

	carbon := p.CutParams(facts.MaterialCarbonSteel, 0.045)
	other := p.CutParams(facts.MaterialOther, 0.045)
	if other != carbon {
		t.Errorf("unknown material params %+v, want carbon %+v", other, carbon)
	}
}

func TestCutParamsStainless(t *testing.T) {
	p := NewTableProvider()

	cp := p.CutParams(facts.MaterialStainlessSteel, 0.045)
	if math.Abs(cp.CutSpeed-250*0.85) > 1e-9 {
		t.Errorf("stainless cut speed = %g, want %g", cp.CutSpeed, 250*0.85)
	}
	if cp.Kerf != 0.006 {
		t.Errorf("stainless kerf = %g, want 0.006", cp.Kerf)
	}
}
