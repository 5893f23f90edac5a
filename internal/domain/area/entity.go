// Package area converts density clusters and isolated occurrence points into
// ConservationArea candidates with derived bounds, population estimates, and
// risk attributes.
package area

import (
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Type distinguishes how a conservation area candidate was derived.
type Type string

const (
	TypeDensityCluster Type = "density_cluster"
	TypeIsolatedPoint  Type = "isolated_point"
)

// Habitat carries the optional habitat-condition factors of an area.  All
// values are clamped to [0,1]; zero means unknown.
type Habitat struct {
	ForestCover      float64 `json:"forest_cover"`
	Fragmentation    float64 `json:"fragmentation"`
	HumanDisturbance float64 `json:"human_disturbance"`
}

// Quality derives the composite habitat quality in [0,1].  Unknown factors
// default to zero, yielding a worst-case quality of zero.
func (h Habitat) Quality() float64 {
	forest := common.Clamp01(h.ForestCover)
	frag := common.Clamp01(h.Fragmentation)
	dist := common.Clamp01(h.HumanDisturbance)
	return common.Clamp01(forest * (1 - frag) * (1 - dist))
}

// ConservationArea is a candidate conservation area derived once per analysis
// run from a density cluster or an isolated occurrence point.  It is
// read-only downstream; the priority ranker produces new records rather than
// mutating areas.
type ConservationArea struct {
	ID   common.ID `json:"id"`
	Name string    `json:"name"`
	Type Type      `json:"type"`

	Bounds  common.GeoBounds `json:"bounds"`
	Species []common.Species `json:"species"`

	// PopulationSize is the estimated individual count derived from
	// occurrence counts and per-species density factors.
	PopulationSize float64 `json:"population_size"`

	// AreaHectares is the geodesic bounding-box area.
	AreaHectares float64 `json:"area"`

	// ExtinctionRisk is the spatially derived risk in [0,1]; the viability
	// simulator later supplies the more authoritative demographic estimate.
	ExtinctionRisk float64 `json:"extinction_risk"`

	// GeneticDiversity is the [0,1] proxy looked up from genomic samples,
	// 0.5 when no sample matches.
	GeneticDiversity float64 `json:"genetic_diversity"`

	Priority common.Priority `json:"priority"`

	// Urgency is the provisional [0,1] urgency assigned at synthesis; the
	// ranker recomputes it with viability results.
	Urgency float64 `json:"urgency"`

	TotalOccurrences int              `json:"total_occurrences"`
	TemporalCoverage common.YearRange `json:"temporal_coverage"`
	Habitat          Habitat          `json:"habitat"`
}

// SpatialConservationPriority is the [0,1] spatial component of the urgency
// score: population scarcity, genetic diversity, and threat level combined.
func (a *ConservationArea) SpatialConservationPriority() float64 {
	scarcity := 1 - common.Clamp01(a.PopulationSize/1000)
	return common.Clamp01(0.4*scarcity + 0.3*a.GeneticDiversity + 0.3*a.ExtinctionRisk)
}

// Centroid returns the center of the area's bounds.
func (a *ConservationArea) Centroid() common.GeoPoint { return a.Bounds.Center() }
