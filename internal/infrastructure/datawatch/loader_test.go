package datawatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/pkg/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const occurrenceJSON = `[
  {"id": "occ-1", "species": "panthera_onca",
   "coordinates": {"lat": 17.2, "lng": -89.6},
   "year": 2019, "data_quality": "good", "locality": "Tikal"},
  {"id": "occ-2", "species": "tapirus_bairdii",
   "coordinates": {"lat": 17.3, "lng": -89.5},
   "year": 2021, "data_quality": "excellent"}
]`

const sampleJSON = `[
  {"species": "panthera_onca", "sequence": "ATCGATCG",
   "population_size": 120, "genetic_diversity": 0.62,
   "location": {"lat": 17.2, "lng": -89.6}}
]`

func TestLoadOccurrences(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "occurrences.json", occurrenceJSON)

	points, err := LoadOccurrences(path)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "Tikal", points[0].Locality)
	assert.InDelta(t, 17.3, points[1].Coordinates.Lat, 1e-9)
}

func TestLoadOccurrencesRejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.json", `[
	  {"id": "occ-1", "species": "panthera_onca",
	   "coordinates": {"lat": 95.0, "lng": -89.6},
	   "year": 2019, "data_quality": "good"}
	]`)

	_, err := LoadOccurrences(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeOccurrenceInvalid))
}

func TestLoadOccurrencesRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.json", `{not json`)

	_, err := LoadOccurrences(path)
	assert.Error(t, err)
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "samples.json", sampleJSON)

	samples, err := LoadSamples(path)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, "ATCGATCG", samples[0].Sequence)
	assert.InDelta(t, 0.62, samples[0].GeneticDiversity, 1e-9)
}

func TestLoadBothWithEmptyPaths(t *testing.T) {
	in, err := Load("", "")
	require.NoError(t, err)
	assert.Empty(t, in.Points)
	assert.Empty(t, in.Samples)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"), "")
	assert.Error(t, err)
}
