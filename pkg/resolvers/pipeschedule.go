package resolvers

import (
	"math"
	"strings"

	"github.com/partforge/partforge/pkg/facts"
)

// Matching tolerances for the pipe schedule lookup, in inches.
const (
	odTolerance   = 0.010
	wallTolerance = 0.005
)

// The 16 in OD / 0.500 in wall pair is absent from the generic table and
// resolves by material instead.
const (
	overrideOD   = 16.000
	overrideWall = 0.500
)

// ScheduleMatch is a resolved nominal pipe size and schedule code.
type ScheduleMatch struct {
	// NPS is the nominal pipe size label.
	NPS string `json:"nps"`

	// Schedule is the schedule code (e.g. "40", "80S", "XX").
	Schedule string `json:"schedule"`
}

// ResolveSchedule maps an outside diameter and wall thickness to a nominal
// size and schedule code. The outside diameter must fall within ±0.010 in
// of a table bucket and the wall within ±0.005 in of a bucket entry; the
// first entry within tolerance in table declaration order wins, even when
// a later entry is numerically closer.
//
// A miss returns false, not an error: no match within tolerance is a
// normal outcome and the caller decides the fallback.
func (p *TableProvider) ResolveSchedule(od, wall float64, material string) (ScheduleMatch, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, entry := range p.pipe {
		if math.Abs(od-entry.od) > odTolerance {
			continue
		}
		for _, we := range entry.walls {
			if math.Abs(wall-we.wall) <= wallTolerance {
				return ScheduleMatch{NPS: entry.nps, Schedule: we.schedule}, true
			}
		}
	}

	// Material-dependent override for the 16 x 0.500 pair, applied only
	// when the generic table missed.
	if math.Abs(od-overrideOD) <= odTolerance && math.Abs(wall-overrideWall) <= wallTolerance {
		if strings.EqualFold(material, string(facts.MaterialStainlessSteel)) {
			return ScheduleMatch{NPS: "16", Schedule: "80S"}, true
		}
		return ScheduleMatch{NPS: "16", Schedule: "40"}, true
	}

	return ScheduleMatch{}, false
}

// LookupBySchedule is the legacy exact lookup: given a nominal size label
// and schedule code it returns the outside diameter and wall thickness for
// the small fixed set of recorded pairs. It shares no data path with
// ResolveSchedule.
func (p *TableProvider) LookupBySchedule(nps, schedule string) (facts.PipeSpec, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	spec, ok := p.legacy[legacyKey{nps: nps, schedule: schedule}]
	return spec, ok
}
