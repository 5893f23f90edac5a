package genetics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geowild/ConserveIQ/pkg/types/common"
)

func TestShannonIndex(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"four equal values", []float64{1, 1, 1, 1}, math.Log(4)},
		{"single value", []float64{5}, 0},
		{"empty", nil, 0},
		{"all zero", []float64{0, 0, 0}, 0},
		{"negative values ignored", []float64{-1, 1, 1}, math.Log(2)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ShannonIndex(tt.values), 1e-9)
		})
	}
}

func TestSimpsonIndex(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"four equal values", []float64{1, 1, 1, 1}, 0.75},
		{"single value", []float64{3}, 0},
		{"empty", nil, 0},
		{"two equal values", []float64{2, 2}, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SimpsonIndex(tt.values), 1e-9)
		})
	}
}

func TestNucleotideComposition(t *testing.T) {
	t.Run("counts across sequences", func(t *testing.T) {
		freqs := NucleotideComposition([]string{"AATT", "CCGG"})
		assert.InDelta(t, 0.25, freqs["A"], 1e-9)
		assert.InDelta(t, 0.25, freqs["T"], 1e-9)
		assert.InDelta(t, 0.25, freqs["C"], 1e-9)
		assert.InDelta(t, 0.25, freqs["G"], 1e-9)
	})

	t.Run("ignores non-ACGT symbols", func(t *testing.T) {
		freqs := NucleotideComposition([]string{"AA-N?aa"})
		assert.InDelta(t, 1.0, freqs["A"], 1e-9)
		assert.Zero(t, freqs["T"])
	})

	t.Run("empty input yields all zeros", func(t *testing.T) {
		freqs := NucleotideComposition(nil)
		for _, base := range []string{"A", "T", "C", "G"} {
			assert.Zero(t, freqs[base])
		}
	})
}

func TestBuildProfile(t *testing.T) {
	status := func(common.Species) (string, string) { return "endangered", "decreasing" }

	t.Run("full profile", func(t *testing.T) {
		samples := []*Sample{
			{Species: "panthera_onca", Sequence: "ATCG", GeneticDiversity: 1},
			{Species: "panthera_onca", Sequence: "ATCG", GeneticDiversity: 1},
			{Species: "panthera_onca", Sequence: "ATCG", GeneticDiversity: 1},
			{Species: "panthera_onca", Sequence: "ATCG", GeneticDiversity: 1},
		}
		p := BuildProfile("panthera_onca", samples, status)

		assert.Equal(t, 4, p.SampleSize)
		assert.InDelta(t, math.Log(4), p.ShannonIndex, 1e-3)
		assert.InDelta(t, 0.75, p.SimpsonIndex, 1e-9)
		assert.InDelta(t, 1.0, p.AvgGeneticDiversity, 1e-9)
		assert.Equal(t, "endangered", p.ConservationStatus)
		assert.Equal(t, "decreasing", p.PopulationTrend)
		assert.Equal(t, ProfileQualityOK, p.DataQuality)
	})

	t.Run("no samples yields insufficient record", func(t *testing.T) {
		p := BuildProfile("tapirus_bairdii", nil, status)

		assert.Equal(t, 0, p.SampleSize)
		assert.Zero(t, p.ShannonIndex)
		assert.Zero(t, p.SimpsonIndex)
		assert.Equal(t, ProfileQualityInsufficient, p.DataQuality)
		assert.Equal(t, "endangered", p.ConservationStatus)
		assert.Contains(t, p.NucleotideFreqs, "A")
	})
}
