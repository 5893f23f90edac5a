package density

import (
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Cluster is a connected component of occurrence points under the
// fixed-radius adjacency relation.  Clusters always contain at least two
// members and are never mutated after creation.
type Cluster struct {
	ID       common.ID       `json:"id"`
	Centroid common.GeoPoint `json:"centroid"`

	// MemberIDs lists the member occurrence ids in input order.
	MemberIDs []common.ID `json:"member_point_ids"`

	// AvgDensity is the mean neighbor count of the members.
	AvgDensity float64 `json:"avg_density"`

	// Level is the majority density category among members, ties broken
	// toward the denser category.
	Level Category `json:"density_level"`

	// Species is the sorted union of member species.
	Species []common.Species `json:"species"`

	// members retains the underlying records for downstream synthesis; the
	// slice and the records are owned by the analysis run that produced them
	// and treated as read-only.
	members []*occurrence.Point
}

// Members returns the member occurrence records in input order.
func (c *Cluster) Members() []*occurrence.Point { return c.members }

// Size returns the member count.
func (c *Cluster) Size() int { return len(c.members) }

// newCluster derives a Cluster from its member points and their neighbor
// counts.  Members must be in input order so repeated runs over the same
// input produce identical clusters.
func newCluster(members []*occurrence.Point, counts map[common.ID]int) *Cluster {
	c := &Cluster{
		ID:        common.NewID(),
		MemberIDs: make([]common.ID, len(members)),
		Species:   occurrence.SpeciesOf(members),
		members:   members,
	}

	var latSum, lngSum, countSum float64
	byCategory := make(map[Category]int)
	for i, m := range members {
		c.MemberIDs[i] = m.ID
		latSum += m.Coordinates.Lat
		lngSum += m.Coordinates.Lng
		n := counts[m.ID]
		countSum += float64(n)
		byCategory[CategoryForCount(n)]++
	}

	n := float64(len(members))
	c.Centroid = common.GeoPoint{Lat: latSum / n, Lng: lngSum / n}
	c.AvgDensity = countSum / n
	c.Level = majorityCategory(byCategory)
	return c
}

// majorityCategory returns the category with the highest member count,
// breaking ties toward the denser category.
func majorityCategory(byCategory map[Category]int) Category {
	best := CategoryIsolated
	bestVotes := -1
	for _, cat := range []Category{CategoryVeryLow, CategoryLow, CategoryMedium, CategoryHigh, CategoryVeryHigh} {
		votes := byCategory[cat]
		if votes > bestVotes || (votes == bestVotes && cat.Denser(best)) {
			best = cat
			bestVotes = votes
		}
	}
	return best
}
