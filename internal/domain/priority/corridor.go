package priority

import (
	"sort"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Corridor recommendation defaults.
const (
	// DefaultCorridorMaxDistanceKm is the centroid-distance cutoff for a
	// corridor to be worth proposing.
	DefaultCorridorMaxDistanceKm = 50.0

	// DefaultCorridorTopN bounds how many top-ranked areas enter the
	// pairwise corridor search.
	DefaultCorridorTopN = 10
)

// CorridorRecommendation proposes a habitat-connectivity link between two
// high-priority conservation areas.
type CorridorRecommendation struct {
	From       common.ID `json:"from"`
	To         common.ID `json:"to"`
	DistanceKm float64   `json:"distance_km"`

	// Priority is the mean of the two areas' spatial conservation priority
	// scores, in [0,1].
	Priority float64 `json:"priority"`
}

// CorridorRecommender proposes corridors between top-ranked areas within a
// distance threshold.
type CorridorRecommender struct {
	maxDistanceKm float64
	topN          int
	logger        logging.Logger
}

// NewCorridorRecommender constructs a CorridorRecommender.  Non-positive
// arguments fall back to the defaults.
func NewCorridorRecommender(maxDistanceKm float64, topN int, logger logging.Logger) *CorridorRecommender {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultCorridorMaxDistanceKm
	}
	if topN <= 0 {
		topN = DefaultCorridorTopN
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CorridorRecommender{maxDistanceKm: maxDistanceKm, topN: topN, logger: logger.Named("corridor")}
}

// Recommend searches every pair among the top-N ranked records and emits a
// corridor for each pair whose centroid distance is under the threshold,
// sorted descending by priority.  records must already be urgency-ordered.
func (c *CorridorRecommender) Recommend(records []*Record) []*CorridorRecommendation {
	top := records
	if len(top) > c.topN {
		top = top[:c.topN]
	}

	var corridors []*CorridorRecommendation
	for i := 0; i < len(top); i++ {
		for j := i + 1; j < len(top); j++ {
			a, b := top[i].Area, top[j].Area
			dist := a.Centroid().DistanceKm(b.Centroid())
			if dist >= c.maxDistanceKm {
				continue
			}
			corridors = append(corridors, &CorridorRecommendation{
				From:       a.ID,
				To:         b.ID,
				DistanceKm: dist,
				Priority:   (a.SpatialConservationPriority() + b.SpatialConservationPriority()) / 2,
			})
		}
	}

	sort.Slice(corridors, func(i, j int) bool {
		if corridors[i].Priority != corridors[j].Priority {
			return corridors[i].Priority > corridors[j].Priority
		}
		if corridors[i].From != corridors[j].From {
			return corridors[i].From < corridors[j].From
		}
		return corridors[i].To < corridors[j].To
	})

	c.logger.Debug("corridor search complete",
		logging.Int("candidates", len(top)), logging.Int("corridors", len(corridors)))
	return corridors
}
