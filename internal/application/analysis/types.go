// Package analysis orchestrates the full analytics pipeline: density
// clustering, area synthesis, diversity statistics, phylogenetics,
// viability simulation, and priority ranking, behind a memoized
// query surface.
package analysis

import (
	"time"

	"github.com/geowild/ConserveIQ/internal/domain/area"
	"github.com/geowild/ConserveIQ/internal/domain/genetics"
	"github.com/geowild/ConserveIQ/internal/domain/priority"
	"github.com/geowild/ConserveIQ/internal/domain/viability"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Cache keys, one per analysis kind.  Invalidation always covers all of
// them at once.
const (
	KeyDiversity    = "diversity"
	KeyPhylogenetic = "phylogenetic"
	KeyConservation = "conservation"
)

// DiversitySummary aggregates the per-species profiles into a cross-species
// overview.
type DiversitySummary struct {
	SpeciesCount int `json:"species_count"`
	TotalSamples int `json:"total_samples"`

	// DominantSpecies is the species with the most samples, ties broken
	// alphabetically; empty when there are no samples.
	DominantSpecies common.Species `json:"dominant_species,omitempty"`

	// Means are taken over species with at least one sample; zero when no
	// species qualifies.
	MeanShannon          float64 `json:"mean_shannon"`
	MeanSimpson          float64 `json:"mean_simpson"`
	MeanGeneticDiversity float64 `json:"mean_genetic_diversity"`
}

// DiversityAnalysis is the full diversity query result.
type DiversityAnalysis struct {
	Profiles    map[common.Species]*genetics.DiversityProfile `json:"profiles"`
	Summary     DiversitySummary                              `json:"summary"`
	GeneratedAt time.Time                                     `json:"generated_at"`
}

// SpatialAnalysis bundles the spatial half of the conservation query.
type SpatialAnalysis struct {
	Areas     []*area.ConservationArea           `json:"areas"`
	Corridors []*priority.CorridorRecommendation `json:"corridors"`

	ClusterCount  int `json:"cluster_count"`
	IsolatedCount int `json:"isolated_count"`
}

// ConservationAnalysis is the full conservation query result: spatial areas
// and corridors, per-species viability, the urgency-ranked priority list,
// and the union of recommended actions.
type ConservationAnalysis struct {
	Spatial    *SpatialAnalysis                      `json:"spatial"`
	Viability  map[common.Species]*viability.Result  `json:"viability"`
	Priorities []*priority.Record                    `json:"priorities"`
	Actions    map[common.Species][]viability.Action `json:"actions"`

	GeneratedAt time.Time `json:"generated_at"`
}
