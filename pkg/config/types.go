package config

import (
	"os"
)

// BendTableKFactorSentinel is the bend-table path value that selects
// K-factor mode instead of a file-backed bend table.
const BendTableKFactorSentinel = "-1"

// EngineConfig is the versioned configuration object consumed by the
// resolution engine. It is read-only to the engine; all tunable numeric
// constants live here.
type EngineConfig struct {
	// Version is the configuration schema version.
	Version string `yaml:"version" json:"version"`

	// WorkCenters holds per-work-center rate constants.
	WorkCenters WorkCenterConfig `yaml:"work_centers" json:"work_centers"`

	// Manufacturing holds manufacturing parameter thresholds and formulas.
	Manufacturing ManufacturingConfig `yaml:"manufacturing" json:"manufacturing"`

	// MaterialPricing is price per pound keyed by alloy designator.
	MaterialPricing map[string]float64 `yaml:"material_pricing" json:"material_pricing"`

	// MaterialDensities is density in lb/in^3 keyed by alloy designator.
	MaterialDensities map[string]float64 `yaml:"material_densities" json:"material_densities"`

	// PricingModifiers holds order-level pricing adjustments.
	PricingModifiers PricingModifiers `yaml:"pricing_modifiers" json:"pricing_modifiers"`

	// TensileStrengths is tensile strength in psi keyed by material
	// designator. The "default" key supplies the fallback value.
	TensileStrengths map[string]float64 `yaml:"tensile_strengths" json:"tensile_strengths"`

	// Paths holds file-system fallback path lists.
	Paths PathConfig `yaml:"paths" json:"paths"`

	// Processing holds document-processing defaults.
	Processing ProcessingConfig `yaml:"processing" json:"processing"`

	// Logging holds logging flags.
	Logging LoggingFlags `yaml:"logging" json:"logging"`

	// Properties is the list of recognized custom property names.
	Properties []string `yaml:"properties" json:"properties"`
}

// WorkCenterConfig holds per-work-center rates.
type WorkCenterConfig struct {
	// RollFormRate is the roll-forming run rate in hours per pound.
	RollFormRate float64 `yaml:"roll_form_rate" json:"roll_form_rate" validate:"gt=0"`

	// RollFormFixedMinutes is the fixed roll-forming time offset in minutes.
	RollFormFixedMinutes float64 `yaml:"roll_form_fixed_minutes" json:"roll_form_fixed_minutes" validate:"gte=0"`

	// DeburrRate is the deburring traverse rate in in/h.
	DeburrRate float64 `yaml:"deburr_rate" json:"deburr_rate" validate:"gt=0"`

	// LaserSetupMinutes is the laser cell setup time in minutes.
	LaserSetupMinutes float64 `yaml:"laser_setup_minutes" json:"laser_setup_minutes" validate:"gte=0"`

	// WaterjetSetupMinutes is the waterjet cell setup time in minutes.
	WaterjetSetupMinutes float64 `yaml:"waterjet_setup_minutes" json:"waterjet_setup_minutes" validate:"gte=0"`
}

// ManufacturingConfig holds manufacturing parameter thresholds and the
// configurable formulas evaluated through the Starlark evaluator.
type ManufacturingConfig struct {
	// PressBrakeRate is the press-brake shop rate in $/h.
	PressBrakeRate float64 `yaml:"press_brake_rate" json:"press_brake_rate" validate:"gte=0"`

	// PressBrakeWeightThreshold is the weight in pounds at which
	// press-braking becomes a candidate operation.
	PressBrakeWeightThreshold float64 `yaml:"press_brake_weight_threshold" json:"press_brake_weight_threshold" validate:"gt=0"`

	// PressBrakeThicknessThreshold is the flat thickness in inches at
	// which press-braking is required.
	PressBrakeThicknessThreshold float64 `yaml:"press_brake_thickness_threshold" json:"press_brake_thickness_threshold" validate:"gt=0"`

	// PressBrakeLengthThreshold is the maximum bend length in inches.
	PressBrakeLengthThreshold float64 `yaml:"press_brake_length_threshold" json:"press_brake_length_threshold" validate:"gt=0"`

	// SetupFormula is a Starlark expression for press-brake setup hours.
	// Inputs: weight, thickness, length.
	SetupFormula string `yaml:"setup_formula" json:"setup_formula"`

	// TonnageFormula is a Starlark expression for press-brake tonnage
	// capacity. Inputs: thickness, length, tensile.
	TonnageFormula string `yaml:"tonnage_formula" json:"tonnage_formula"`

	// TappingSetupFormula is a Starlark expression for tapping setup hours.
	// Inputs: holes, thickness.
	TappingSetupFormula string `yaml:"tapping_setup_formula" json:"tapping_setup_formula"`

	// TappingRunFormula is a Starlark expression for tapping run hours.
	// Inputs: holes, thickness.
	TappingRunFormula string `yaml:"tapping_run_formula" json:"tapping_run_formula"`

	// StandardSheetWidth is the standard stock sheet width in inches.
	StandardSheetWidth float64 `yaml:"standard_sheet_width" json:"standard_sheet_width" validate:"gt=0"`

	// StandardSheetHeight is the standard stock sheet height in inches.
	StandardSheetHeight float64 `yaml:"standard_sheet_height" json:"standard_sheet_height" validate:"gt=0"`

	// PierceConstant is the fixed per-pierce cost constant.
	PierceConstant float64 `yaml:"pierce_constant" json:"pierce_constant" validate:"gte=0"`

	// TabSpacing is the nest tab spacing in inches.
	TabSpacing float64 `yaml:"tab_spacing" json:"tab_spacing" validate:"gte=0"`
}

// PricingModifiers holds order-level pricing adjustments.
type PricingModifiers struct {
	// ToleranceMultipliers scale price by tolerance class name.
	ToleranceMultipliers map[string]float64 `yaml:"tolerance_multipliers" json:"tolerance_multipliers"`

	// OrderSetup is the per-order setup charge in dollars.
	OrderSetup float64 `yaml:"order_setup" json:"order_setup" validate:"gte=0"`

	// OrderRun is the per-order run charge in dollars.
	OrderRun float64 `yaml:"order_run" json:"order_run" validate:"gte=0"`
}

// PathConfig holds file-system fallback path lists. The first existing
// path in each list wins.
type PathConfig struct {
	// PipeTableWorkbook lists candidate paths for the pipe schedule
	// workbook used to refresh the built-in table.
	PipeTableWorkbook []string `yaml:"pipe_table_workbook" json:"pipe_table_workbook"`

	// BendTable lists candidate bend table paths. The sentinel value
	// "-1" selects K-factor mode instead of a file-backed table.
	BendTable []string `yaml:"bend_table" json:"bend_table"`

	// BaselineDir lists candidate directories for recorded baselines.
	BaselineDir []string `yaml:"baseline_dir" json:"baseline_dir"`
}

// ProcessingConfig holds document-processing defaults.
type ProcessingConfig struct {
	// DefaultKFactor is the bend-allowance K-factor used in K-factor mode.
	DefaultKFactor float64 `yaml:"default_k_factor" json:"default_k_factor" validate:"gt=0,lte=1"`

	// DefaultQuantity is the order quantity assumed when none is supplied.
	DefaultQuantity int `yaml:"default_quantity" json:"default_quantity" validate:"gte=1"`

	// MaxRetries bounds workbook open retries.
	MaxRetries int `yaml:"max_retries" json:"max_retries" validate:"gte=0"`

	// RetryBackoffMillis is the fixed backoff between workbook open
	// retries, in milliseconds.
	RetryBackoffMillis int `yaml:"retry_backoff_millis" json:"retry_backoff_millis" validate:"gte=0"`

	// NestEfficiency is the assumed sheet nesting efficiency (0..1].
	NestEfficiency float64 `yaml:"nest_efficiency" json:"nest_efficiency" validate:"gt=0,lte=1"`
}

// LoggingFlags holds logging flags consumed at startup.
type LoggingFlags struct {
	// Level is the minimum log level.
	Level string `yaml:"level" json:"level"`

	// LogResolutions enables per-lookup resolution logging.
	LogResolutions bool `yaml:"log_resolutions" json:"log_resolutions"`

	// LogWritebacks enables per-entry writeback logging.
	LogWritebacks bool `yaml:"log_writebacks" json:"log_writebacks"`
}

// FirstExistingPath returns the first path in the list that exists on
// disk, or "" when none do.
func FirstExistingPath(paths []string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// UseKFactorMode reports whether bend allowance should come from the
// configured K-factor instead of a bend table file. The sentinel "-1" in
// the bend table path list forces K-factor mode.
func (c *EngineConfig) UseKFactorMode() bool {
	for _, p := range c.Paths.BendTable {
		if p == BendTableKFactorSentinel {
			return true
		}
	}
	return FirstExistingPath(c.Paths.BendTable) == ""
}

// TensileStrength returns the tensile strength for a material designator,
// falling back to the "default" entry when the designator is unknown.
func (c *EngineConfig) TensileStrength(designator string) float64 {
	if v, ok := c.TensileStrengths[designator]; ok {
		return v
	}
	return c.TensileStrengths["default"]
}

// RecognizesProperty reports whether name is in the recognized custom
// property list.
func (c *EngineConfig) RecognizesProperty(name string) bool {
	for _, p := range c.Properties {
		if p == name {
			return true
		}
	}
	return false
}
