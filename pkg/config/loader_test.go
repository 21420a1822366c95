package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigValid(t *testing.T) {
	l := NewLoader()
	if err := l.Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestParseOverlaysDefaults(t *testing.T) {
	l := NewLoader()

	cfg, err := l.Parse([]byte(`
work_centers:
  deburr_rate: 4200
processing:
  default_quantity: 10
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if cfg.WorkCenters.DeburrRate != 4200 {
		t.Errorf("deburr rate = %g, want 4200", cfg.WorkCenters.DeburrRate)
	}
	if cfg.Processing.DefaultQuantity != 10 {
		t.Errorf("default quantity = %d, want 10", cfg.Processing.DefaultQuantity)
	}
	// Untouched sections keep their defaults.
	if cfg.Processing.DefaultKFactor != 0.33 {
		t.Errorf("k-factor = %g, want default 0.33", cfg.Processing.DefaultKFactor)
	}
	if cfg.WorkCenters.LaserSetupMinutes != 15 {
		t.Errorf("laser setup = %g, want default 15", cfg.WorkCenters.LaserSetupMinutes)
	}
}

func TestParseRejectsOutOfRange(t *testing.T) {
	l := NewLoader()

	tests := []struct {
		name string
		yaml string
	}{
		{"zero deburr rate", "work_centers:\n  deburr_rate: 0\n"},
		{"negative quantity", "processing:\n  default_quantity: -1\n"},
		{"k-factor above one", "processing:\n  default_k_factor: 1.5\n"},
		{"nest efficiency zero", "processing:\n  nest_efficiency: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := l.Parse([]byte(tt.yaml)); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "partforge.yaml")
	if err := os.WriteFile(path, []byte("version: \"2\"\n"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewLoader().Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Version != "2" {
		t.Errorf("version = %q, want %q", cfg.Version, "2")
	}
}

func TestFirstExistingPath(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "table.xlsx")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	got := FirstExistingPath([]string{"", "/nonexistent/one", existing, "/nonexistent/two"})
	if got != existing {
		t.Errorf("FirstExistingPath = %q, want %q", got, existing)
	}

	if got := FirstExistingPath([]string{"/nonexistent"}); got != "" {
		t.Errorf("FirstExistingPath = %q, want empty", got)
	}
}

func TestUseKFactorMode(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.UseKFactorMode() {
		t.Error("default config should use K-factor mode (sentinel path)")
	}

	dir := t.TempDir()
	table := filepath.Join(dir, "bend.csv")
	if err := os.WriteFile(table, []byte("x"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfg.Paths.BendTable = []string{table}
	if cfg.UseKFactorMode() {
		t.Error("existing bend table should disable K-factor mode")
	}

	cfg.Paths.BendTable = []string{"/nonexistent/bend.csv"}
	if !cfg.UseKFactorMode() {
		t.Error("missing bend table should fall back to K-factor mode")
	}
}

func TestTensileStrengthFallback(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.TensileStrength("A36"); got != 58000 {
		t.Errorf("A36 tensile = %g, want 58000", got)
	}
	if got := cfg.TensileStrength("Unknownium"); got != 60000 {
		t.Errorf("unknown tensile = %g, want default 60000", got)
	}
}
