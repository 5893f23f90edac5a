package area

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/internal/domain/density"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

func pt(id string, species common.Species, lat, lng float64) *occurrence.Point {
	return &occurrence.Point{
		ID:          common.ID(id),
		Species:     species,
		Coordinates: common.GeoPoint{Lat: lat, Lng: lng},
		Year:        2019,
		DataQuality: occurrence.QualityGood,
	}
}

func uniformFactors(densityFactor, floor float64) FactorFunc {
	return func(common.Species) SpeciesFactors {
		return SpeciesFactors{DensityFactor: densityFactor, CriticalFloor: floor}
	}
}

func noDiversity(common.Species) (float64, bool) { return 0, false }

func analyze(t *testing.T, points []*occurrence.Point) *density.Result {
	t.Helper()
	a, err := density.NewAnalyzer(25, logging.NewNopLogger())
	require.NoError(t, err)
	res, err := a.Analyze(points)
	require.NoError(t, err)
	return res
}

func TestSynthesize_ClusterArea(t *testing.T) {
	points := []*occurrence.Point{
		pt("a", "tapirus_bairdii", 17.200, -89.000),
		pt("b", "tapirus_bairdii", 17.220, -89.010),
		pt("c", "tapirus_bairdii", 17.230, -89.020),
	}
	res := analyze(t, points)
	require.Len(t, res.Clusters, 1)

	s := NewSynthesizer(uniformFactors(3, 40), noDiversity, 0.05, 0.01, logging.NewNopLogger())
	areas := s.Synthesize(res)
	require.Len(t, areas, 1)

	a := areas[0]
	assert.Equal(t, TypeDensityCluster, a.Type)
	assert.Equal(t, 3, a.TotalOccurrences)
	assert.Equal(t, 9.0, a.PopulationSize) // 3 records × factor 3
	assert.Equal(t, []common.Species{"tapirus_bairdii"}, a.Species)
	assert.Equal(t, NeutralGeneticDiversity, a.GeneticDiversity)
	assert.NotEmpty(t, a.ID)
	assert.Greater(t, a.AreaHectares, 0.0)

	// Bounds cover every member plus the margin.
	assert.LessOrEqual(t, a.Bounds.South, 17.200-0.049)
	assert.GreaterOrEqual(t, a.Bounds.North, 17.230+0.049)

	// Tiny population far below the floor: rated critical.
	assert.Equal(t, common.PriorityCritical, a.Priority)
	assert.GreaterOrEqual(t, a.Urgency, 0.0)
	assert.LessOrEqual(t, a.Urgency, 1.0)
}

func TestSynthesize_IsolatedArea(t *testing.T) {
	points := []*occurrence.Point{pt("solo", "panthera_onca", 18.0, -90.0)}
	res := analyze(t, points)
	require.Len(t, res.Isolated, 1)

	s := NewSynthesizer(uniformFactors(4, 50), noDiversity, 0.05, 0.01, logging.NewNopLogger())
	areas := s.Synthesize(res)
	require.Len(t, areas, 1)

	a := areas[0]
	assert.Equal(t, TypeIsolatedPoint, a.Type)
	assert.Equal(t, 1, a.TotalOccurrences)
	assert.Equal(t, 4.0, a.PopulationSize)

	// Isolated buffer is the smaller margin.
	assert.InDelta(t, 18.0+0.01, a.Bounds.North, 1e-9)
	assert.InDelta(t, 18.0-0.01, a.Bounds.South, 1e-9)
}

func TestSynthesize_DiversityLookup(t *testing.T) {
	points := []*occurrence.Point{
		pt("a", "panthera_onca", 17.200, -89.000),
		pt("b", "tapirus_bairdii", 17.205, -89.002),
	}
	res := analyze(t, points)

	lookup := func(sp common.Species) (float64, bool) {
		if sp == "panthera_onca" {
			return 0.8, true
		}
		return 0, false
	}
	s := NewSynthesizer(uniformFactors(100, 10), lookup, 0.05, 0.01, logging.NewNopLogger())
	areas := s.Synthesize(res)
	require.Len(t, areas, 1)
	// Only the matched species contributes.
	assert.InDelta(t, 0.8, areas[0].GeneticDiversity, 1e-9)
}

func TestPriorityFor(t *testing.T) {
	tests := []struct {
		name       string
		risk, pop  float64
		floor      float64
		want       common.Priority
	}{
		{"critical_by_risk", 0.75, 1000, 50, common.PriorityCritical},
		{"critical_by_floor", 0.1, 30, 50, common.PriorityCritical},
		{"high", 0.5, 1000, 50, common.PriorityHigh},
		{"medium", 0.3, 1000, 50, common.PriorityMedium},
		{"low", 0.1, 1000, 50, common.PriorityLow},
		{"boundary_not_high", 0.4, 1000, 50, common.PriorityMedium},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityFor(tt.risk, tt.pop, tt.floor))
		})
	}
}

func TestHabitatQuality(t *testing.T) {
	assert.Equal(t, 0.0, Habitat{}.Quality()) // unknown defaults to worst case
	h := Habitat{ForestCover: 0.8, Fragmentation: 0.25, HumanDisturbance: 0.5}
	assert.InDelta(t, 0.8*0.75*0.5, h.Quality(), 1e-9)

	// Out-of-range inputs are clamped, never negative or above one.
	wild := Habitat{ForestCover: 2, Fragmentation: -1, HumanDisturbance: 0}
	assert.Equal(t, 1.0, wild.Quality())
}

func TestExtinctionRisk_Monotonicity(t *testing.T) {
	// Risk falls as density rises.
	assert.Greater(t, extinctionRisk(0, 100, 0.8), extinctionRisk(10, 100, 0.8))
	// Risk falls as population rises.
	assert.Greater(t, extinctionRisk(5, 50, 0.8), extinctionRisk(5, 400, 0.8))
	// Risk falls as quality rises.
	assert.Greater(t, extinctionRisk(5, 100, 0.2), extinctionRisk(5, 100, 1.0))
	// Always within [0,1].
	assert.GreaterOrEqual(t, extinctionRisk(0, 0, 0), 0.0)
	assert.LessOrEqual(t, extinctionRisk(100, 1e6, 1), 1.0)
}
