package occurrence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geowild/ConserveIQ/pkg/types/common"
)

func pt(id string, species common.Species, lat, lng float64) *Point {
	return &Point{
		ID:          common.ID(id),
		Species:     species,
		Coordinates: common.GeoPoint{Lat: lat, Lng: lng},
		Year:        2020,
		DataQuality: QualityGood,
	}
}

func TestDataQuality_Score(t *testing.T) {
	tests := []struct {
		quality DataQuality
		want    float64
	}{
		{QualityExcellent, 1.0},
		{QualityGood, 0.8},
		{QualityFair, 0.6},
		{QualityPoor, 0.4},
		{QualityVeryPoor, 0.2},
		{DataQuality("unknown"), 0.5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.quality.Score(), "quality %s", tt.quality)
	}
}

func TestPoint_Validate(t *testing.T) {
	valid := pt("a", "panthera_onca", 17.5, -89.1)
	assert.NoError(t, valid.Validate())

	noID := pt("", "panthera_onca", 17.5, -89.1)
	assert.Error(t, noID.Validate())

	noSpecies := pt("a", "", 17.5, -89.1)
	assert.Error(t, noSpecies.Validate())

	badLat := pt("a", "panthera_onca", 91, 0)
	assert.Error(t, badLat.Validate())

	badLng := pt("a", "panthera_onca", 0, 181)
	assert.Error(t, badLng.Validate())
}

func TestPoint_DistanceKm_Symmetric(t *testing.T) {
	a := pt("a", "panthera_onca", 17.50, -89.10)
	b := pt("b", "tapirus_bairdii", 17.62, -89.25)
	assert.InDelta(t, a.DistanceKm(b), b.DistanceKm(a), 1e-12)
	assert.Greater(t, a.DistanceKm(b), 0.0)
	assert.Zero(t, a.DistanceKm(a))
}

func TestSpeciesOf(t *testing.T) {
	points := []*Point{
		pt("a", "tapirus_bairdii", 0, 0),
		pt("b", "panthera_onca", 0, 0),
		pt("c", "panthera_onca", 0, 0),
	}
	assert.Equal(t,
		[]common.Species{"panthera_onca", "tapirus_bairdii"},
		SpeciesOf(points))
	assert.Empty(t, SpeciesOf(nil))
}

func TestYearRangeOf(t *testing.T) {
	points := []*Point{
		{ID: "a", Year: 1998},
		{ID: "b", Year: 2015},
		{ID: "c", Year: 0}, // missing year is skipped
		{ID: "d", Year: 2003},
	}
	r := YearRangeOf(points)
	assert.Equal(t, 1998, r.MinYear)
	assert.Equal(t, 2015, r.MaxYear)
	assert.Equal(t, 17, r.Span)

	assert.Equal(t, common.YearRange{}, YearRangeOf(nil))
}

func TestAverageQualityScore(t *testing.T) {
	points := []*Point{
		{DataQuality: QualityExcellent},
		{DataQuality: QualityVeryPoor},
	}
	assert.InDelta(t, 0.6, AverageQualityScore(points), 1e-9)
	assert.Equal(t, 0.5, AverageQualityScore(nil))
}
