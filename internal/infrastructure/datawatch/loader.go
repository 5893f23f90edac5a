// Package datawatch loads collaborator-supplied input files and keeps the
// analysis engine's inputs fresh by watching them for changes.
package datawatch

import (
	"encoding/json"
	"os"

	"github.com/geowild/ConserveIQ/internal/domain/genetics"
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/pkg/errors"
)

// Inputs is the parsed content of the collaborator input files.
type Inputs struct {
	Points  []*occurrence.Point
	Samples []*genetics.Sample
}

// LoadOccurrences parses a JSON array of occurrence points from path.
func LoadOccurrences(path string) ([]*occurrence.Point, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOccurrenceInvalid, "read occurrence file")
	}
	var points []*occurrence.Point
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeOccurrenceInvalid, "parse occurrence file")
	}
	for i, p := range points {
		if err := p.Validate(); err != nil {
			return nil, errors.Wrapf(err, errors.ErrCodeOccurrenceInvalid,
				"occurrence record %d invalid", i)
		}
	}
	return points, nil
}

// LoadSamples parses a JSON array of genomic samples from path.
func LoadSamples(path string) ([]*genetics.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSequenceInvalid, "read sample file")
	}
	var samples []*genetics.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSequenceInvalid, "parse sample file")
	}
	return samples, nil
}

// Load reads both input files.  Either path may be empty, yielding an empty
// slice for that input.
func Load(occurrencePath, samplePath string) (*Inputs, error) {
	in := &Inputs{}
	if occurrencePath != "" {
		points, err := LoadOccurrences(occurrencePath)
		if err != nil {
			return nil, err
		}
		in.Points = points
	}
	if samplePath != "" {
		samples, err := LoadSamples(samplePath)
		if err != nil {
			return nil, err
		}
		in.Samples = samples
	}
	return in, nil
}
