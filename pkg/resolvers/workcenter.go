package resolvers

import (
	"github.com/partforge/partforge/pkg/config"
)

// Weight tier boundaries in pounds. The medium tier starts at the
// configured press-brake weight threshold; the heavy tier is fixed.
const heavyTierWeight = 150.0

// Roll-forming setup hours by weight tier.
const (
	rollFormSetupLight  = 0.25
	rollFormSetupMedium = 0.375
	rollFormSetupHeavy  = 0.75
)

// Press-braking run hours by weight tier.
const (
	pressBrakeRunMedium = 0.08
	pressBrakeRunHeavy  = 0.25
)

// deburrSetupHours is the fixed deburring setup time.
const deburrSetupHours = 0.03

// WorkCenterTime is a setup/run hour pair for one operation.
type WorkCenterTime struct {
	// SetupHours is the operation setup time in hours.
	SetupHours float64 `json:"setup_hours"`

	// RunHours is the operation run time in hours.
	RunHours float64 `json:"run_hours"`
}

// RollFormResult is the roll-forming estimate plus the derived
// press-brake requirement.
type RollFormResult struct {
	WorkCenterTime

	// RequiresPressBrake reports whether the weight/thickness tier rule
	// flags a press-brake operation.
	RequiresPressBrake bool `json:"requires_press_brake"`
}

// Estimator computes work-center setup and run hours from part facts. It
// is a pure function of its inputs and the injected configuration.
type Estimator struct {
	cfg *config.EngineConfig
}

// NewEstimator creates an estimator bound to a configuration.
func NewEstimator(cfg *config.EngineConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// RollForm estimates the roll-forming operation. Run hours are a fixed
// per-pound rate plus a fixed time offset. Setup hours follow the weight
// tier, and the press-brake requirement fires only when the weight reaches
// the medium tier AND the thickness reaches the configured threshold;
// thickness alone never triggers it.
func (e *Estimator) RollForm(weight, thickness float64) RollFormResult {
	run := weight*e.cfg.WorkCenters.RollFormRate + e.cfg.WorkCenters.RollFormFixedMinutes/60.0

	thick := thickness >= e.cfg.Manufacturing.PressBrakeThicknessThreshold

	switch {
	case weight < e.cfg.Manufacturing.PressBrakeWeightThreshold:
		return RollFormResult{
			WorkCenterTime: WorkCenterTime{SetupHours: rollFormSetupLight, RunHours: run},
		}
	case weight < heavyTierWeight:
		return RollFormResult{
			WorkCenterTime:     WorkCenterTime{SetupHours: rollFormSetupMedium, RunHours: run},
			RequiresPressBrake: thick,
		}
	default:
		return RollFormResult{
			WorkCenterTime:     WorkCenterTime{SetupHours: rollFormSetupHeavy, RunHours: run},
			RequiresPressBrake: thick,
		}
	}
}

// PressBrake estimates the press-braking operation. The caller supplies
// the setup hours (usually from the configured setup formula). Run hours
// follow the weight tier but are forced to zero below the thickness
// threshold regardless of weight.
func (e *Estimator) PressBrake(weight, thickness, setupHours float64) WorkCenterTime {
	t := WorkCenterTime{SetupHours: setupHours}

	if thickness < e.cfg.Manufacturing.PressBrakeThicknessThreshold {
		return t
	}

	switch {
	case weight < e.cfg.Manufacturing.PressBrakeWeightThreshold:
		// Below the weight threshold the operation is not applied even
		// when the thickness qualifies.
	case weight < heavyTierWeight:
		t.RunHours = pressBrakeRunMedium
	default:
		t.RunHours = pressBrakeRunHeavy
	}

	return t
}

// Deburr estimates the deburring operation: fixed setup plus traverse time
// for the part length. A non-positive rate silently clamps to the
// configured default.
func (e *Estimator) Deburr(length, rate float64) WorkCenterTime {
	if rate <= 0 {
		rate = e.cfg.WorkCenters.DeburrRate
	}
	return WorkCenterTime{
		SetupHours: deburrSetupHours,
		RunHours:   length / rate,
	}
}
