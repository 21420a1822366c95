// Package facts defines the immutable part facts consumed by the resolvers
// and estimators, along with the material and document-kind enumerations.
package facts

import (
	"fmt"
	"strings"
)

// MaterialCategory classifies the part's stock material family.
type MaterialCategory string

const (
	// MaterialCarbonSteel is the carbon steel material family.
	MaterialCarbonSteel MaterialCategory = "CarbonSteel"

	// MaterialStainlessSteel is the stainless steel material family.
	MaterialStainlessSteel MaterialCategory = "StainlessSteel"

	// MaterialAluminum is the aluminum material family.
	MaterialAluminum MaterialCategory = "Aluminum"

	// MaterialOther is any material outside the recognized families.
	// Cutting parameter lookups fall back to the carbon steel tables.
	MaterialOther MaterialCategory = "Other"
)

// ParseMaterialCategory maps a free-form material string to a category.
// Matching is case-insensitive; unrecognized strings map to MaterialOther.
func ParseMaterialCategory(s string) MaterialCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "carbonsteel", "carbon steel", "carbon":
		return MaterialCarbonSteel
	case "stainlesssteel", "stainless steel", "stainless":
		return MaterialStainlessSteel
	case "aluminum", "aluminium":
		return MaterialAluminum
	default:
		return MaterialOther
	}
}

// Validate checks if the material category is valid.
func (m MaterialCategory) Validate() error {
	switch m {
	case MaterialCarbonSteel, MaterialStainlessSteel, MaterialAluminum, MaterialOther:
		return nil
	default:
		return fmt.Errorf("invalid material category: %s", m)
	}
}

// PartFacts is an immutable snapshot of the geometric and material facts
// about a fabricated part. One snapshot is created per computation request
// and discarded after use.
type PartFacts struct {
	// OutsideDiameter is the outside diameter in inches.
	OutsideDiameter float64 `json:"outside_diameter"`

	// WallThickness is the wall thickness in inches.
	WallThickness float64 `json:"wall_thickness"`

	// Material is the material category of the stock.
	Material MaterialCategory `json:"material"`

	// MaterialDesignator is the alloy designator (e.g. "A36", "304L"),
	// used for pricing, density and tensile lookups.
	MaterialDesignator string `json:"material_designator,omitempty"`

	// Weight is the part weight in pounds.
	Weight float64 `json:"weight"`

	// Length is the part length in inches.
	Length float64 `json:"length"`

	// FlatThickness is the flattened sheet thickness in inches.
	FlatThickness float64 `json:"flat_thickness"`
}

// Validate checks the facts for structural problems. Zero values are legal
// for most fields; negative dimensions are not.
func (f PartFacts) Validate() error {
	if f.OutsideDiameter < 0 {
		return fmt.Errorf("outside diameter must not be negative: %g", f.OutsideDiameter)
	}
	if f.WallThickness < 0 {
		return fmt.Errorf("wall thickness must not be negative: %g", f.WallThickness)
	}
	if f.Weight < 0 {
		return fmt.Errorf("weight must not be negative: %g", f.Weight)
	}
	if f.Length < 0 {
		return fmt.Errorf("length must not be negative: %g", f.Length)
	}
	if f.FlatThickness < 0 {
		return fmt.Errorf("flat thickness must not be negative: %g", f.FlatThickness)
	}
	return f.Material.Validate()
}

// PipeSpec describes a pipe cross-section.
type PipeSpec struct {
	// OutsideDiameter is the outside diameter in inches.
	OutsideDiameter float64 `json:"outside_diameter"`

	// WallThickness is the wall thickness in inches.
	WallThickness float64 `json:"wall_thickness"`
}

// InsideDiameter derives the inside diameter. It is clamped at zero so a
// wall thicker than the radius can never yield a negative bore.
func (p PipeSpec) InsideDiameter() float64 {
	id := p.OutsideDiameter - 2*p.WallThickness
	if id < 0 {
		return 0
	}
	return id
}
