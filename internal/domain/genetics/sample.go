// Package genetics implements the genetic track of the engine: per-species
// diversity statistics, Jukes-Cantor distance matrices, and hierarchical
// grouping trees over genomic samples.
package genetics

import (
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Sample is a genomic sample supplied by the external collaborator.  The
// engine never mutates samples.
type Sample struct {
	Species common.Species `json:"species"`

	// Sequence is the raw nucleotide string; non-ACGT symbols are tolerated
	// and ignored by composition counting.
	Sequence string `json:"sequence"`

	// PopulationSize is the sampled population's estimated size.
	PopulationSize int `json:"population_size"`

	// GeneticDiversity is the collaborator-computed [0,1] diversity scalar.
	GeneticDiversity float64 `json:"genetic_diversity"`

	Location common.GeoPoint `json:"location"`
}

// BySpecies buckets samples by species, preserving input order within each
// bucket.
func BySpecies(samples []*Sample) map[common.Species][]*Sample {
	out := make(map[common.Species][]*Sample)
	for _, s := range samples {
		out[s.Species] = append(out[s.Species], s)
	}
	return out
}

// SpeciesOf returns the distinct species present in samples, in first-seen
// order.
func SpeciesOf(samples []*Sample) []common.Species {
	seen := make(map[common.Species]struct{})
	var out []common.Species
	for _, s := range samples {
		if _, ok := seen[s.Species]; !ok {
			seen[s.Species] = struct{}{}
			out = append(out, s.Species)
		}
	}
	return out
}
