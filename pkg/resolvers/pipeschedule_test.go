package resolvers

import (
	"testing"
)

func TestResolveScheduleExact(t *testing.T) {
	p := NewTableProvider()

	tests := []struct {
		name     string
		od, wall float64
		material string
		wantNPS  string
		wantCode string
	}{
		{"2 sch 40", 2.375, 0.154, "CarbonSteel", "2", "40"},
		{"2 sch 80", 2.375, 0.218, "CarbonSteel", "2", "80"},
		{"4 sch 40", 4.500, 0.237, "CarbonSteel", "4", "40"},
		{"4 double extra strong", 4.500, 0.674, "CarbonSteel", "4", "XX"},
		{"12 standard", 12.750, 0.375, "CarbonSteel", "12", "STD"},
		{"16 standard", 16.000, 0.375, "CarbonSteel", "16", "STD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := p.ResolveSchedule(tt.od, tt.wall, tt.material)
			if !ok {
				t.Fatalf("ResolveSchedule(%g, %g) missed", tt.od, tt.wall)
			}
			if m.NPS != tt.wantNPS || m.Schedule != tt.wantCode {
				t.Errorf("got %s/%s, want %s/%s", m.NPS, m.Schedule, tt.wantNPS, tt.wantCode)
			}
		})
	}
}

func TestResolveScheduleWithinTolerance(t *testing.T) {
	p := NewTableProvider()

	// Within ±0.010 OD and ±0.005 wall of the 2 in sch 40 entry.
	m, ok := p.ResolveSchedule(2.383, 0.158, "CarbonSteel")
	if !ok {
		t.Fatal("in-tolerance lookup missed")
	}
	if m.NPS != "2" || m.Schedule != "40" {
		t.Errorf("got %s/%s, want 2/40", m.NPS, m.Schedule)
	}
}

func TestResolveScheduleMiss(t *testing.T) {
	p := NewTableProvider()

	tests := []struct {
		name     string
		od, wall float64
	}{
		{"od out of tolerance", 2.390, 0.154},
		{"wall out of tolerance", 2.375, 0.162},
		{"no such diameter", 5.000, 0.250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := p.ResolveSchedule(tt.od, tt.wall, "CarbonSteel"); ok {
				t.Errorf("ResolveSchedule(%g, %g) matched, want miss", tt.od, tt.wall)
			}
		})
	}
}

func TestResolveScheduleMaterialOverride(t *testing.T) {
	p := NewTableProvider()

	m, ok := p.ResolveSchedule(16.000, 0.500, "StainlessSteel")
	if !ok {
		t.Fatal("stainless override missed")
	}
	if m.Schedule != "80S" {
		t.Errorf("stainless schedule = %s, want 80S", m.Schedule)
	}

	// Material comparison is case-insensitive.
	m, ok = p.ResolveSchedule(16.000, 0.500, "stainlesssteel")
	if !ok || m.Schedule != "80S" {
		t.Errorf("case-insensitive stainless schedule = %s, want 80S", m.Schedule)
	}

	m, ok = p.ResolveSchedule(16.000, 0.500, "CarbonSteel")
	if !ok {
		t.Fatal("carbon override missed")
	}
	if m.Schedule != "40" {
		t.Errorf("carbon schedule = %s, want 40", m.Schedule)
	}
}

func TestLookupBySchedule(t *testing.T) {
	p := NewTableProvider()

	spec, ok := p.LookupBySchedule("2", "40")
	if !ok {
		t.Fatal("legacy lookup missed")
	}
	if spec.OutsideDiameter != 2.375 || spec.WallThickness != 0.154 {
		t.Errorf("legacy lookup = %+v, want 2.375/0.154", spec)
	}

	if _, ok := p.LookupBySchedule("2", "160"); ok {
		t.Error("unrecorded pair matched")
	}
}

func TestClearedProviderMisses(t *testing.T) {
	p := NewTableProvider()
	p.Clear()

	if _, ok := p.ResolveSchedule(2.375, 0.154, "CarbonSteel"); ok {
		t.Error("cleared provider matched")
	}
	if _, ok := p.LookupBySchedule("2", "40"); ok {
		t.Error("cleared legacy table matched")
	}

	p.Load()
	if _, ok := p.ResolveSchedule(2.375, 0.154, "CarbonSteel"); !ok {
		t.Error("reloaded provider missed")
	}
}

func TestLoadPipeTableFromRows(t *testing.T) {
	p := NewTableProvider()

	err := p.LoadPipeTable([][]string{
		{"NPS", "OD", "Wall", "Schedule"},
		{"2", "2.375", "0.154", "40"},
		{"2", "2.375", "0.218", "80"},
		{"3", "3.500", "0.216", "40"},
	})
	if err != nil {
		t.Fatalf("LoadPipeTable: %v", err)
	}

	m, ok := p.ResolveSchedule(3.500, 0.216, "CarbonSteel")
	if !ok || m.Schedule != "40" {
		t.Errorf("loaded table lookup = %v/%v, want 3/40 match", m, ok)
	}

	// The built-in 4 in bucket is gone after replacement.
	if _, ok := p.ResolveSchedule(4.500, 0.237, "CarbonSteel"); ok {
		t.Error("replaced table still serves built-in entries")
	}

	if err := p.LoadPipeTable([][]string{{"NPS", "OD", "Wall", "Schedule"}}); err == nil {
		t.Error("header-only table accepted")
	}
	if err := p.LoadPipeTable([][]string{{"2", "2.375"}}); err == nil {
		t.Error("short row accepted")
	}
}
