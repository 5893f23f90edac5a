package area

import (
	"fmt"

	"github.com/geowild/ConserveIQ/internal/domain/density"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// NeutralGeneticDiversity is assumed when no genomic sample matches an
// area's species.
const NeutralGeneticDiversity = 0.5

// Extinction-risk weighting.  Density scarcity and population scarcity
// dominate; record quality contributes the remainder.
const (
	riskWeightDensity    = 0.4
	riskWeightPopulation = 0.4
	riskWeightQuality    = 0.2

	// densityRiskCeiling is the neighbor-count mean at which density ceases
	// to contribute risk.
	densityRiskCeiling = 20.0

	// populationRiskCeiling is the population estimate at which population
	// size ceases to contribute risk.
	populationRiskCeiling = 500.0
)

// SpeciesFactors holds the per-species synthesis constants from the species
// table.
type SpeciesFactors struct {
	// DensityFactor is the expected individuals per occurrence record.
	DensityFactor float64

	// CriticalFloor is the population estimate below which an area is rated
	// critical outright.
	CriticalFloor float64
}

// FactorFunc resolves a species to its synthesis constants.  The application
// layer adapts the configured species table to this signature.
type FactorFunc func(common.Species) SpeciesFactors

// DiversityFunc resolves a species to its genetic-diversity proxy from
// genomic samples.  The boolean reports whether a sample matched.
type DiversityFunc func(common.Species) (float64, bool)

// Synthesizer derives ConservationArea candidates from density-analysis
// output.
type Synthesizer struct {
	factors        FactorFunc
	diversity      DiversityFunc
	clusterMargin  float64
	isolatedMargin float64
	logger         logging.Logger
}

// NewSynthesizer constructs a Synthesizer.  clusterMarginDeg and
// isolatedMarginDeg are the bounding-box buffers (decimal degrees) applied
// around clusters and isolated points respectively.
func NewSynthesizer(factors FactorFunc, diversity DiversityFunc, clusterMarginDeg, isolatedMarginDeg float64, logger logging.Logger) *Synthesizer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Synthesizer{
		factors:        factors,
		diversity:      diversity,
		clusterMargin:  clusterMarginDeg,
		isolatedMargin: isolatedMarginDeg,
		logger:         logger.Named("area"),
	}
}

// Synthesize builds one ConservationArea per cluster and per isolated point.
// The input result is read-only; every returned area is newly owned by the
// caller.
func (s *Synthesizer) Synthesize(res *density.Result) []*ConservationArea {
	areas := make([]*ConservationArea, 0, len(res.Clusters)+len(res.Isolated))
	for i, c := range res.Clusters {
		areas = append(areas, s.fromCluster(c, i+1))
	}
	for i, p := range res.Isolated {
		areas = append(areas, s.fromIsolated(p, i+1))
	}
	s.logger.Debug("area synthesis complete", logging.Int("areas", len(areas)))
	return areas
}

func (s *Synthesizer) fromCluster(c *density.Cluster, ordinal int) *ConservationArea {
	members := c.Members()
	a := &ConservationArea{
		ID:               common.NewID(),
		Name:             fmt.Sprintf("Cluster Area %d", ordinal),
		Type:             TypeDensityCluster,
		Bounds:           common.BoundsOf(occurrence.CoordinatesOf(members)).Expand(s.clusterMargin),
		Species:          c.Species,
		TotalOccurrences: len(members),
		TemporalCoverage: occurrence.YearRangeOf(members),
	}
	a.AreaHectares = a.Bounds.AreaHectares()
	a.PopulationSize = s.estimatePopulation(members)
	a.ExtinctionRisk = extinctionRisk(c.AvgDensity, a.PopulationSize, occurrence.AverageQualityScore(members))
	a.GeneticDiversity = s.lookupDiversity(a.Species)
	a.Priority = s.assignPriority(a.ExtinctionRisk, a.PopulationSize, a.Species)
	a.Urgency = provisionalUrgency(a)
	return a
}

func (s *Synthesizer) fromIsolated(p *occurrence.Point, ordinal int) *ConservationArea {
	members := []*occurrence.Point{p}
	a := &ConservationArea{
		ID:               common.NewID(),
		Name:             fmt.Sprintf("Isolated %s Site %d", common.FormatSpecies(p.Species), ordinal),
		Type:             TypeIsolatedPoint,
		Bounds:           common.BoundsOf([]common.GeoPoint{p.Coordinates}).Expand(s.isolatedMargin),
		Species:          []common.Species{p.Species},
		TotalOccurrences: 1,
		TemporalCoverage: occurrence.YearRangeOf(members),
	}
	a.AreaHectares = a.Bounds.AreaHectares()
	a.PopulationSize = s.estimatePopulation(members)
	a.ExtinctionRisk = extinctionRisk(0, a.PopulationSize, p.DataQuality.Score())
	a.GeneticDiversity = s.lookupDiversity(a.Species)
	a.Priority = s.assignPriority(a.ExtinctionRisk, a.PopulationSize, a.Species)
	a.Urgency = provisionalUrgency(a)
	return a
}

// estimatePopulation sums the per-record density factor over members, which
// equals occurrence count times the mean factor of the species present.
func (s *Synthesizer) estimatePopulation(members []*occurrence.Point) float64 {
	var pop float64
	for _, m := range members {
		pop += s.factors(m.Species).DensityFactor
	}
	return pop
}

// lookupDiversity averages the genomic diversity proxy over the species that
// have matching samples, falling back to the neutral value when none do.
func (s *Synthesizer) lookupDiversity(species []common.Species) float64 {
	var sum float64
	var matched int
	for _, sp := range species {
		if d, ok := s.diversity(sp); ok {
			sum += d
			matched++
		}
	}
	if matched == 0 {
		return NeutralGeneticDiversity
	}
	return sum / float64(matched)
}

// extinctionRisk fuses occurrence-density scarcity, population scarcity, and
// record quality into a [0,1] spatial risk estimate.
func extinctionRisk(avgDensity, population, qualityScore float64) float64 {
	densityRisk := 1 - common.Clamp01(avgDensity/densityRiskCeiling)
	populationRisk := 1 - common.Clamp01(population/populationRiskCeiling)
	qualityRisk := 1 - common.Clamp01(qualityScore)
	return common.Clamp01(riskWeightDensity*densityRisk +
		riskWeightPopulation*populationRisk +
		riskWeightQuality*qualityRisk)
}

// assignPriority applies the fixed categorical thresholds.  The critical
// floor is the strictest (highest) floor among the species present.
func (s *Synthesizer) assignPriority(risk, population float64, species []common.Species) common.Priority {
	var floor float64
	for _, sp := range species {
		if f := s.factors(sp).CriticalFloor; f > floor {
			floor = f
		}
	}
	return PriorityFor(risk, population, floor)
}

// PriorityFor maps an extinction-risk estimate and population to the
// categorical priority.  The same thresholds are reused by the ranker once
// viability-derived probabilities are available.
func PriorityFor(risk, population, criticalFloor float64) common.Priority {
	switch {
	case risk > 0.7 || population < criticalFloor:
		return common.PriorityCritical
	case risk > 0.4:
		return common.PriorityHigh
	case risk > 0.2:
		return common.PriorityMedium
	default:
		return common.PriorityLow
	}
}

// provisionalUrgency scores urgency before viability results exist, using
// the spatial extinction risk as the demographic signal.
func provisionalUrgency(a *ConservationArea) float64 {
	return common.Clamp01(0.4*a.SpatialConservationPriority() +
		0.4*a.ExtinctionRisk +
		0.2*(1-a.Habitat.Quality()))
}
