package config

// DefaultConfig returns the built-in engineering configuration. Values
// mirror the shop's legacy constants; a YAML file loaded with Load
// overrides them section by section.
func DefaultConfig() *EngineConfig {
	return &EngineConfig{
		Version: "1",
		WorkCenters: WorkCenterConfig{
			RollFormRate:         5.0 / 3600.0,
			RollFormFixedMinutes: 5,
			DeburrRate:           3600,
			LaserSetupMinutes:    15,
			WaterjetSetupMinutes: 30,
		},
		Manufacturing: ManufacturingConfig{
			PressBrakeRate:               85,
			PressBrakeWeightThreshold:    40,
			PressBrakeThicknessThreshold: 0.165,
			PressBrakeLengthThreshold:    120,
			SetupFormula:                 "result = 0.20",
			TonnageFormula:               "result = (575.0 * thickness * thickness * length / 12.0) * (tensile / 60000.0)",
			TappingSetupFormula:          "result = 0.10",
			TappingRunFormula:            "result = holes * (0.25 + thickness) / 60.0",
			StandardSheetWidth:           60,
			StandardSheetHeight:          120,
			PierceConstant:               0.02,
			TabSpacing:                   18,
		},
		MaterialPricing: map[string]float64{
			"A36":  0.62,
			"A572": 0.68,
			"304":  2.10,
			"304L": 2.18,
			"316":  2.95,
			"5052": 1.85,
			"6061": 1.92,
		},
		MaterialDensities: map[string]float64{
			"A36":  0.2836,
			"A572": 0.2836,
			"304":  0.2890,
			"304L": 0.2890,
			"316":  0.2890,
			"5052": 0.0968,
			"6061": 0.0975,
		},
		PricingModifiers: PricingModifiers{
			ToleranceMultipliers: map[string]float64{
				"standard":  1.00,
				"tight":     1.15,
				"precision": 1.35,
			},
			OrderSetup: 45,
			OrderRun:   0,
		},
		TensileStrengths: map[string]float64{
			"A36":     58000,
			"A572":    65000,
			"304":     75000,
			"304L":    70000,
			"316":     75000,
			"5052":    33000,
			"6061":    45000,
			"default": 60000,
		},
		Paths: PathConfig{
			PipeTableWorkbook: []string{},
			BendTable:         []string{BendTableKFactorSentinel},
			BaselineDir:       []string{},
		},
		Processing: ProcessingConfig{
			DefaultKFactor:     0.33,
			DefaultQuantity:    1,
			MaxRetries:         3,
			RetryBackoffMillis: 500,
			NestEfficiency:     0.75,
		},
		Logging: LoggingFlags{
			Level:          "info",
			LogResolutions: false,
			LogWritebacks:  true,
		},
		Properties: []string{
			"PartNo",
			"Description",
			"Material",
			"Weight",
			"PipeSize",
			"PipeSchedule",
			"CutSpeed",
			"PierceTime",
			"KerfWidth",
			"MaterialCost",
			"RollForm_S",
			"RollForm_R",
			"PressBrake_S",
			"PressBrake_R",
			"Deburr_S",
			"Deburr_R",
		},
	}
}
