// Package common defines the shared scalar and value types used across the
// ConserveIQ analytics engine.  No behaviour lives here beyond small pure
// helpers; every layer (domain, application, interfaces) imports these types
// so that JSON shapes stay consistent across the API surface.
package common

import (
	"math"

	"github.com/google/uuid"
)

// ID is a string alias for UUID v4 entity identifiers.
type ID string

// NewID returns a freshly generated UUID v4 ID.
func NewID() ID { return ID(uuid.NewString()) }

// Species is the scientific-name key of a species in the configured species
// table, e.g. "panthera_onca".  The engine never invents species values; it
// only carries what the ingestion collaborator and configuration supply.
type Species string

// Priority is the categorical conservation priority of an area or action.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// IsValid reports whether the priority is one of the known categories.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string { return string(p) }

// ─────────────────────────────────────────────────────────────────────────────
// Geospatial value types
// ─────────────────────────────────────────────────────────────────────────────

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6371.0

// GeoPoint is a WGS84 coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// DistanceKm returns the great-circle (haversine) distance in kilometres
// between p and q.  The function is symmetric: p.DistanceKm(q) ==
// q.DistanceKm(p).
func (p GeoPoint) DistanceKm(q GeoPoint) float64 {
	lat1 := p.Lat * math.Pi / 180
	lat2 := q.Lat * math.Pi / 180
	dLat := (q.Lat - p.Lat) * math.Pi / 180
	dLng := (q.Lng - p.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// GeoBounds is a latitude/longitude axis-aligned bounding box.
type GeoBounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Center returns the midpoint of the bounding box.
func (b GeoBounds) Center() GeoPoint {
	return GeoPoint{Lat: (b.North + b.South) / 2, Lng: (b.East + b.West) / 2}
}

// Expand returns a copy of the bounds grown by marginDeg decimal degrees on
// every side.
func (b GeoBounds) Expand(marginDeg float64) GeoBounds {
	return GeoBounds{
		North: b.North + marginDeg,
		South: b.South - marginDeg,
		East:  b.East + marginDeg,
		West:  b.West - marginDeg,
	}
}

// AreaHectares approximates the geodesic surface area of the bounding box in
// hectares.  Longitudinal width is measured at the box's mid-latitude.
func (b GeoBounds) AreaHectares() float64 {
	midLat := (b.North + b.South) / 2
	heightKm := GeoPoint{Lat: b.South, Lng: b.West}.DistanceKm(GeoPoint{Lat: b.North, Lng: b.West})
	widthKm := GeoPoint{Lat: midLat, Lng: b.West}.DistanceKm(GeoPoint{Lat: midLat, Lng: b.East})
	return heightKm * widthKm * 100 // 1 km² = 100 ha
}

// BoundsOf computes the minimal bounding box of the given points.  It returns
// the zero value when points is empty.
func BoundsOf(points []GeoPoint) GeoBounds {
	if len(points) == 0 {
		return GeoBounds{}
	}
	b := GeoBounds{
		North: points[0].Lat, South: points[0].Lat,
		East: points[0].Lng, West: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lng)
		b.West = math.Min(b.West, p.Lng)
	}
	return b
}

// ─────────────────────────────────────────────────────────────────────────────
// Misc helpers
// ─────────────────────────────────────────────────────────────────────────────

// YearRange is the inclusive temporal coverage of a record set.
type YearRange struct {
	MinYear int `json:"min_year"`
	MaxYear int `json:"max_year"`
	Span    int `json:"span"`
}

// Clamp01 clips v to the closed interval [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FormatSpecies renders a species key as a display name, e.g. "panthera_onca"
// → "Panthera onca".
func FormatSpecies(s Species) string {
	out := []rune(s)
	for i, r := range out {
		if r == '_' {
			out[i] = ' '
		}
	}
	if len(out) == 0 {
		return ""
	}
	if out[0] >= 'a' && out[0] <= 'z' {
		out[0] -= 'a' - 'A'
	}
	return string(out)
}
