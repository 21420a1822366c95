package config

import (
	"encoding/json"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// SchemaRegistry manages CUE schemas for configuration validation.
type SchemaRegistry struct {
	ctx     *cue.Context
	schemas map[string]cue.Value
	mu      sync.RWMutex
}

// NewSchemaRegistry creates a new schema registry with built-in schemas.
func NewSchemaRegistry() *SchemaRegistry {
	ctx := cuecontext.New()
	sr := &SchemaRegistry{
		ctx:     ctx,
		schemas: make(map[string]cue.Value),
	}

	sr.registerBuiltInSchemas()

	return sr
}

// registerBuiltInSchemas registers all built-in schemas.
func (sr *SchemaRegistry) registerBuiltInSchemas() {
	sr.RegisterSchema("engine", builtinEngineSchema)
}

// RegisterSchema registers a CUE schema with the given name.
func (sr *SchemaRegistry) RegisterSchema(name, schema string) error {
	sr.mu.Lock()
	defer sr.mu.Unlock()

	val := sr.ctx.CompileString(schema)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", name, err)
	}

	sr.schemas[name] = val
	return nil
}

// ValidateConfig validates an EngineConfig against the engine schema.
func (sr *SchemaRegistry) ValidateConfig(cfg *EngineConfig) error {
	sr.mu.RLock()
	schema, ok := sr.schemas["engine"]
	sr.mu.RUnlock()
	if !ok {
		return fmt.Errorf("engine schema not registered")
	}

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	val := sr.ctx.CompileBytes(data)
	if err := val.Err(); err != nil {
		return fmt.Errorf("failed to compile config value: %w", err)
	}

	unified := schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}

	return nil
}

// builtinEngineSchema constrains the shape and ranges of the engineering
// configuration. Struct-tag validation catches most range errors; the CUE
// schema additionally pins section shapes and the tensile default key.
const builtinEngineSchema = `
{
	version: string & !=""
	work_centers: {
		roll_form_rate:          >0
		roll_form_fixed_minutes: >=0
		deburr_rate:             >0
		laser_setup_minutes:     >=0
		waterjet_setup_minutes:  >=0
	}
	manufacturing: {
		press_brake_rate:                >=0
		press_brake_weight_threshold:    >0
		press_brake_thickness_threshold: >0
		press_brake_length_threshold:    >0
		setup_formula:                   string
		tonnage_formula:                 string
		tapping_setup_formula:           string
		tapping_run_formula:             string
		standard_sheet_width:            >0
		standard_sheet_height:           >0
		pierce_constant:                 >=0
		tab_spacing:                     >=0
	}
	material_pricing: {[string]: >=0}
	material_densities: {[string]: >0}
	pricing_modifiers: {
		tolerance_multipliers: {[string]: >0}
		order_setup: >=0
		order_run:   >=0
	}
	tensile_strengths: {
		default: >0
		[string]: >0
	}
	paths: {
		pipe_table_workbook: [...string]
		bend_table: [...string]
		baseline_dir: [...string]
	}
	processing: {
		default_k_factor:     >0 & <=1
		default_quantity:     >=1
		max_retries:          >=0
		retry_backoff_millis: >=0
		nest_efficiency:      >0 & <=1
	}
	logging: {
		level:           string
		log_resolutions: bool
		log_writebacks:  bool
	}
	properties: [...string]
}
`
