// Package priority fuses conservation areas with viability results into an
// urgency-ordered priority list and proposes habitat corridors between the
// top-ranked areas.
package priority

import (
	"sort"

	"github.com/geowild/ConserveIQ/internal/domain/area"
	"github.com/geowild/ConserveIQ/internal/domain/viability"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Urgency score weights.
const (
	spatialWeight    = 0.4
	extinctionWeight = 0.4
	habitatWeight    = 0.2
)

// Record is a ConservationArea enriched with the species' viability-derived
// extinction probability and a recomputed urgency.  The ranker produces new
// records; source areas are never mutated.
type Record struct {
	Area *area.ConservationArea `json:"area"`

	// ExtinctionProbability is the demographic estimate taken from the
	// matching species' viability result; it supersedes the area's spatial
	// risk in the urgency score.
	ExtinctionProbability float64 `json:"extinction_probability"`

	Urgency  float64         `json:"urgency"`
	Priority common.Priority `json:"priority"`
}

// FloorFunc resolves a species to its critical population floor.
type FloorFunc func(common.Species) float64

// Ranker orders conservation areas by urgency using viability results.
type Ranker struct {
	floorFor FloorFunc
	logger   logging.Logger
}

// NewRanker constructs a Ranker.  floorFor supplies per-species critical
// population floors for priority reassignment.
func NewRanker(floorFor FloorFunc, logger logging.Logger) *Ranker {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Ranker{floorFor: floorFor, logger: logger.Named("priority")}
}

// Rank builds one Record per area, recomputes urgency with the viability
// extinction probability, and returns the records sorted descending by
// urgency.  Equal urgencies order by area ID ascending so repeated runs over
// permuted input produce identical output.
func (r *Ranker) Rank(areas []*area.ConservationArea, results map[common.Species]*viability.Result) []*Record {
	records := make([]*Record, 0, len(areas))
	for _, a := range areas {
		extProb := r.extinctionProbability(a, results)
		urgency := common.Clamp01(
			spatialWeight*a.SpatialConservationPriority() +
				extinctionWeight*extProb +
				habitatWeight*(1-a.Habitat.Quality()))

		records = append(records, &Record{
			Area:                  a,
			ExtinctionProbability: extProb,
			Urgency:               urgency,
			Priority:              r.reassignPriority(a, extProb),
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Urgency != records[j].Urgency {
			return records[i].Urgency > records[j].Urgency
		}
		return records[i].Area.ID < records[j].Area.ID
	})

	r.logger.Debug("priority ranking complete", logging.Int("areas", len(records)))
	return records
}

// extinctionProbability returns the worst matching species' viability
// probability, falling back to the area's spatial risk when no species has a
// viability result.
func (r *Ranker) extinctionProbability(a *area.ConservationArea, results map[common.Species]*viability.Result) float64 {
	worst := -1.0
	for _, sp := range a.Species {
		if res, ok := results[sp]; ok && res.ExtinctionProbability > worst {
			worst = res.ExtinctionProbability
		}
	}
	if worst < 0 {
		return a.ExtinctionRisk
	}
	return worst
}

// reassignPriority applies the synthesis thresholds with the more
// authoritative viability-derived extinction probability.
func (r *Ranker) reassignPriority(a *area.ConservationArea, extProb float64) common.Priority {
	floor := 0.0
	for _, sp := range a.Species {
		if f := r.floorFor(sp); f > floor {
			floor = f
		}
	}
	return area.PriorityFor(extProb, a.PopulationSize, floor)
}
