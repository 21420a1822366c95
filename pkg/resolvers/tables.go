package resolvers

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/partforge/partforge/pkg/facts"
)

// wallEntry maps one wall thickness to its schedule code within a
// diameter bucket.
type wallEntry struct {
	wall     float64
	schedule string
}

// pipeEntry is one nominal-diameter bucket of the pipe schedule table.
// Declaration order is load-bearing: the tolerant resolver returns the
// first entry within tolerance, not the nearest.
type pipeEntry struct {
	nps   string
	od    float64
	walls []wallEntry
}

// stepBand is one band of a piecewise step function over wall thickness.
// The limit is an inclusive upper bound.
type stepBand struct {
	limit float64
	value float64
}

// cutTable holds the per-material-family cutting parameter tables.
type cutTable struct {
	kerf        float64
	feedBands   []stepBand
	feedElse    float64
	pierceBands []stepBand
	pierceElse  float64
}

// legacyKey indexes the exact (NPS, schedule) lookup.
type legacyKey struct {
	nps      string
	schedule string
}

// TableProvider owns the lookup tables used by the resolvers. It is
// constructed with the built-in tables and may be refreshed from an
// external workbook; it is injected into callers rather than held as
// shared process state.
type TableProvider struct {
	mu     sync.RWMutex
	pipe   []pipeEntry
	legacy map[legacyKey]facts.PipeSpec
	cut    map[facts.MaterialCategory]cutTable
}

// NewTableProvider creates a provider loaded with the built-in tables.
func NewTableProvider() *TableProvider {
	p := &TableProvider{}
	p.Load()
	return p
}

// Load installs the built-in tables, replacing any previous contents.
func (p *TableProvider) Load() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pipe = builtinPipeTable()
	p.legacy = builtinLegacyTable()
	p.cut = builtinCutTables()
}

// Clear drops all tables. Lookups against a cleared provider miss.
func (p *TableProvider) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pipe = nil
	p.legacy = nil
	p.cut = nil
}

// LoadPipeTable replaces the pipe schedule table from workbook rows of the
// form [nps, od, wall, schedule]. Row order becomes table declaration
// order. A header row is skipped when the OD column does not parse.
func (p *TableProvider) LoadPipeTable(rows [][]string) error {
	var entries []pipeEntry
	index := make(map[string]int)

	for i, row := range rows {
		if len(row) < 4 {
			return fmt.Errorf("pipe table row %d: want 4 columns, got %d", i, len(row))
		}
		od, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return fmt.Errorf("pipe table row %d: bad outside diameter %q", i, row[1])
		}
		wall, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return fmt.Errorf("pipe table row %d: bad wall thickness %q", i, row[2])
		}

		we := wallEntry{wall: wall, schedule: row[3]}
		if idx, ok := index[row[0]]; ok {
			entries[idx].walls = append(entries[idx].walls, we)
			continue
		}
		index[row[0]] = len(entries)
		entries = append(entries, pipeEntry{nps: row[0], od: od, walls: []wallEntry{we}})
	}

	if len(entries) == 0 {
		return fmt.Errorf("pipe table has no data rows")
	}

	p.mu.Lock()
	p.pipe = entries
	p.mu.Unlock()
	return nil
}

// builtinPipeTable is the ANSI schedule table keyed by nominal OD.
// The 16 in bucket deliberately omits the 0.500 wall; that pair is handled
// by the material-dependent override in ResolveSchedule.
func builtinPipeTable() []pipeEntry {
	return []pipeEntry{
		{nps: "1/2", od: 0.840, walls: []wallEntry{{0.109, "40"}, {0.147, "80"}}},
		{nps: "3/4", od: 1.050, walls: []wallEntry{{0.113, "40"}, {0.154, "80"}}},
		{nps: "1", od: 1.315, walls: []wallEntry{{0.133, "40"}, {0.179, "80"}}},
		{nps: "1-1/4", od: 1.660, walls: []wallEntry{{0.140, "40"}, {0.191, "80"}}},
		{nps: "1-1/2", od: 1.900, walls: []wallEntry{{0.145, "40"}, {0.200, "80"}}},
		{nps: "2", od: 2.375, walls: []wallEntry{{0.154, "40"}, {0.218, "80"}}},
		{nps: "2-1/2", od: 2.875, walls: []wallEntry{{0.203, "40"}, {0.276, "80"}}},
		{nps: "3", od: 3.500, walls: []wallEntry{{0.216, "40"}, {0.300, "80"}}},
		{nps: "4", od: 4.500, walls: []wallEntry{{0.237, "40"}, {0.337, "80"}, {0.674, "XX"}}},
		{nps: "6", od: 6.625, walls: []wallEntry{{0.280, "40"}, {0.432, "80"}}},
		{nps: "8", od: 8.625, walls: []wallEntry{{0.322, "40"}, {0.500, "80"}}},
		{nps: "10", od: 10.750, walls: []wallEntry{{0.365, "40"}, {0.500, "60"}}},
		{nps: "12", od: 12.750, walls: []wallEntry{{0.375, "STD"}, {0.406, "40"}}},
		{nps: "14", od: 14.000, walls: []wallEntry{{0.375, "STD"}, {0.438, "40"}}},
		{nps: "16", od: 16.000, walls: []wallEntry{{0.375, "STD"}, {0.656, "80"}}},
	}
}

// builtinLegacyTable is the exact lookup indexed by (NPS, schedule),
// disjoint from the tolerant resolver.
func builtinLegacyTable() map[legacyKey]facts.PipeSpec {
	return map[legacyKey]facts.PipeSpec{
		{"2", "40"}:  {OutsideDiameter: 2.375, WallThickness: 0.154},
		{"2", "80"}:  {OutsideDiameter: 2.375, WallThickness: 0.218},
		{"3", "40"}:  {OutsideDiameter: 3.500, WallThickness: 0.216},
		{"4", "40"}:  {OutsideDiameter: 4.500, WallThickness: 0.237},
		{"4", "80"}:  {OutsideDiameter: 4.500, WallThickness: 0.337},
		{"6", "40"}:  {OutsideDiameter: 6.625, WallThickness: 0.280},
		{"8", "40"}:  {OutsideDiameter: 8.625, WallThickness: 0.322},
		{"16", "40"}: {OutsideDiameter: 16.000, WallThickness: 0.500},
	}
}

// builtinCutTables holds the laser cutting parameter tables. Aluminum is a
// degenerate table: kerf differs and both feed and pierce are zero at any
// thickness. That reproduces the legacy behavior exactly; do not "fix" it.
func builtinCutTables() map[facts.MaterialCategory]cutTable {
	return map[facts.MaterialCategory]cutTable{
		facts.MaterialCarbonSteel: {
			kerf: 0.008,
			feedBands: []stepBand{
				{0.036, 325}, {0.048, 295}, {0.060, 270}, {0.075, 240},
				{0.105, 200}, {0.135, 160}, {0.188, 120}, {0.250, 85},
				{0.375, 55}, {0.500, 35},
			},
			feedElse: 25,
			pierceBands: []stepBand{
				{0.060, 0.5}, {0.125, 0.8}, {0.250, 1.5}, {0.375, 2.8}, {0.500, 4.5},
			},
			pierceElse: 7.0,
		},
		facts.MaterialStainlessSteel: {
			kerf: 0.006,
			feedBands: []stepBand{
				{0.036, 280}, {0.048, 250}, {0.060, 220}, {0.075, 185},
				{0.105, 150}, {0.135, 115}, {0.188, 80}, {0.250, 55},
				{0.375, 35},
			},
			feedElse: 20,
			pierceBands: []stepBand{
				{0.060, 0.6}, {0.125, 1.0}, {0.250, 1.9}, {0.375, 3.5},
			},
			pierceElse: 6.0,
		},
		facts.MaterialAluminum: {
			kerf: 0.010,
		},
	}
}

// stepLookup evaluates a piecewise step function: the first band whose
// inclusive upper bound covers the thickness wins; past the last band the
// else value applies.
func stepLookup(bands []stepBand, elseValue, thickness float64) float64 {
	for _, b := range bands {
		if thickness <= b.limit {
			return b.value
		}
	}
	return elseValue
}
