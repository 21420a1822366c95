package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Loader loads and validates engineering configuration files.
type Loader struct {
	validator *validator.Validate
	schemas   *SchemaRegistry
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		validator: validator.New(),
		schemas:   NewSchemaRegistry(),
	}
}

// Load reads a YAML configuration file, overlays it on the defaults, and
// validates the result with struct tags and the CUE schema.
func (l *Loader) Load(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return l.Parse(data)
}

// Parse overlays YAML bytes on the defaults and validates the result.
func (l *Loader) Parse(data []byte) (*EngineConfig, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := l.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate runs struct-tag validation and CUE schema validation.
func (l *Loader) Validate(cfg *EngineConfig) error {
	if err := l.validator.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := l.schemas.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("config schema validation failed: %w", err)
	}

	return nil
}
