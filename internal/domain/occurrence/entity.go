// Package occurrence defines the georeferenced species-occurrence record,
// the engine's primary spatial input.  Records arrive already normalised and
// schema-validated from the ingestion collaborator and are immutable once
// ingested.
package occurrence

import (
	"sort"

	"github.com/geowild/ConserveIQ/pkg/errors"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// DataQuality is the categorical record-quality assessment attached to an
// occurrence by the upstream data provider.
type DataQuality string

const (
	QualityExcellent DataQuality = "excellent"
	QualityGood      DataQuality = "good"
	QualityFair      DataQuality = "fair"
	QualityPoor      DataQuality = "poor"
	QualityVeryPoor  DataQuality = "very_poor"
)

// Score maps the quality category to a [0,1] scalar used in risk weighting.
// Unknown categories score a neutral 0.5.
func (q DataQuality) Score() float64 {
	switch q {
	case QualityExcellent:
		return 1.0
	case QualityGood:
		return 0.8
	case QualityFair:
		return 0.6
	case QualityPoor:
		return 0.4
	case QualityVeryPoor:
		return 0.2
	default:
		return 0.5
	}
}

// IsValid reports whether q is one of the known categories.
func (q DataQuality) IsValid() bool {
	switch q {
	case QualityExcellent, QualityGood, QualityFair, QualityPoor, QualityVeryPoor:
		return true
	default:
		return false
	}
}

// Point is a single georeferenced occurrence record.
type Point struct {
	ID          common.ID       `json:"id"`
	Species     common.Species  `json:"species"`
	Coordinates common.GeoPoint `json:"coordinates"`
	Year        int             `json:"year"`
	DataQuality DataQuality     `json:"data_quality"`

	// Optional provenance metadata.
	Locality    string `json:"locality,omitempty"`
	Institution string `json:"institution,omitempty"`
}

// Validate checks the caller contract on a single record.  The engine trusts
// upstream schema validation; this guards only against collaborator bugs
// that would corrupt spatial math.
func (p *Point) Validate() error {
	if p.ID == "" {
		return errors.New(errors.ErrCodeOccurrenceInvalid, "occurrence id must not be empty")
	}
	if p.Species == "" {
		return errors.New(errors.ErrCodeOccurrenceInvalid, "occurrence species must not be empty").
			WithDetail("id=" + string(p.ID))
	}
	if p.Coordinates.Lat < -90 || p.Coordinates.Lat > 90 ||
		p.Coordinates.Lng < -180 || p.Coordinates.Lng > 180 {
		return errors.New(errors.ErrCodeCoordinatesInvalid, "occurrence coordinates out of range").
			WithDetail("id=" + string(p.ID))
	}
	return nil
}

// DistanceKm returns the great-circle distance to another occurrence.
func (p *Point) DistanceKm(other *Point) float64 {
	return p.Coordinates.DistanceKm(other.Coordinates)
}

// SpeciesOf returns the sorted distinct species present in points.
func SpeciesOf(points []*Point) []common.Species {
	seen := make(map[common.Species]struct{}, len(points))
	for _, p := range points {
		seen[p.Species] = struct{}{}
	}
	out := make([]common.Species, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// YearRangeOf returns the temporal coverage of points; the zero value when
// points is empty or carries no year information.
func YearRangeOf(points []*Point) common.YearRange {
	var r common.YearRange
	for _, p := range points {
		if p.Year == 0 {
			continue
		}
		if r.MinYear == 0 || p.Year < r.MinYear {
			r.MinYear = p.Year
		}
		if p.Year > r.MaxYear {
			r.MaxYear = p.Year
		}
	}
	if r.MinYear != 0 {
		r.Span = r.MaxYear - r.MinYear
	}
	return r
}

// CoordinatesOf projects points to their coordinate slice.
func CoordinatesOf(points []*Point) []common.GeoPoint {
	out := make([]common.GeoPoint, len(points))
	for i, p := range points {
		out[i] = p.Coordinates
	}
	return out
}

// AverageQualityScore returns the mean data-quality score of points, or the
// neutral 0.5 when points is empty.
func AverageQualityScore(points []*Point) float64 {
	if len(points) == 0 {
		return 0.5
	}
	var sum float64
	for _, p := range points {
		sum += p.DataQuality.Score()
	}
	return sum / float64(len(points))
}
