package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/internal/domain/area"
	"github.com/geowild/ConserveIQ/internal/domain/viability"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

func testFloor(common.Species) float64 { return 50 }

func testArea(id string, species common.Species, risk, population float64) *area.ConservationArea {
	return &area.ConservationArea{
		ID:             common.ID(id),
		Name:           id,
		Type:           area.TypeDensityCluster,
		Species:        []common.Species{species},
		PopulationSize: population,
		ExtinctionRisk: risk,
		Bounds: common.GeoBounds{
			North: 17.1, South: 16.9, East: -89.9, West: -90.1,
		},
	}
}

func TestRankUsesViabilityExtinctionProbability(t *testing.T) {
	areas := []*area.ConservationArea{
		testArea("area-a", "panthera_onca", 0.1, 800),
		testArea("area-b", "tapirus_bairdii", 0.1, 800),
	}
	results := map[common.Species]*viability.Result{
		"panthera_onca":   {Species: "panthera_onca", ExtinctionProbability: 0.9},
		"tapirus_bairdii": {Species: "tapirus_bairdii", ExtinctionProbability: 0.05},
	}

	records := NewRanker(testFloor, logging.NewNopLogger()).Rank(areas, results)
	require.Len(t, records, 2)

	assert.Equal(t, common.ID("area-a"), records[0].Area.ID)
	assert.InDelta(t, 0.9, records[0].ExtinctionProbability, 1e-9)
	assert.Greater(t, records[0].Urgency, records[1].Urgency)
	assert.Equal(t, common.PriorityCritical, records[0].Priority)
	assert.Equal(t, common.PriorityLow, records[1].Priority)
}

func TestRankFallsBackToSpatialRisk(t *testing.T) {
	areas := []*area.ConservationArea{testArea("area-a", "jabiru_mycteria", 0.45, 800)}

	records := NewRanker(testFloor, logging.NewNopLogger()).Rank(areas, nil)
	require.Len(t, records, 1)

	assert.InDelta(t, 0.45, records[0].ExtinctionProbability, 1e-9)
	assert.Equal(t, common.PriorityHigh, records[0].Priority)
}

func TestRankDeterministicTieBreak(t *testing.T) {
	// Identical attributes force identical urgencies; order must come from
	// the area IDs regardless of input permutation.
	build := func(ids ...string) []*area.ConservationArea {
		out := make([]*area.ConservationArea, len(ids))
		for i, id := range ids {
			out[i] = testArea(id, "panthera_onca", 0.3, 400)
		}
		return out
	}
	ranker := NewRanker(testFloor, logging.NewNopLogger())

	first := ranker.Rank(build("area-c", "area-a", "area-b"), nil)
	second := ranker.Rank(build("area-b", "area-c", "area-a"), nil)

	require.Len(t, first, 3)
	for i := range first {
		assert.Equal(t, first[i].Area.ID, second[i].Area.ID)
	}
	assert.Equal(t, common.ID("area-a"), first[0].Area.ID)
	assert.Equal(t, common.ID("area-b"), first[1].Area.ID)
	assert.Equal(t, common.ID("area-c"), first[2].Area.ID)
}

func TestRankUrgencyInUnitInterval(t *testing.T) {
	areas := []*area.ConservationArea{
		testArea("area-a", "panthera_onca", 1.0, 0),
		testArea("area-b", "panthera_onca", 0.0, 100000),
	}
	results := map[common.Species]*viability.Result{
		"panthera_onca": {Species: "panthera_onca", ExtinctionProbability: 1.0},
	}

	for _, rec := range NewRanker(testFloor, logging.NewNopLogger()).Rank(areas, results) {
		assert.GreaterOrEqual(t, rec.Urgency, 0.0)
		assert.LessOrEqual(t, rec.Urgency, 1.0)
	}
}
