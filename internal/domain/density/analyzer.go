package density

import (
	"github.com/geowild/ConserveIQ/internal/domain/occurrence"
	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/errors"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// PointDensity pairs an occurrence with its neighbor count and category.
type PointDensity struct {
	Point       *occurrence.Point `json:"point"`
	NearbyCount int               `json:"nearby_points_count"`
	Category    Category          `json:"density_category"`
}

// Result is the complete output of a density analysis run.  Clusters and
// isolated points partition the input: every point belongs to exactly one
// cluster or appears in Isolated.
type Result struct {
	// Densities carries per-point neighbor counts in input order.
	Densities []PointDensity `json:"densities"`

	// Clusters are the connected components of size ≥ 2, ordered by the
	// input position of their first member.
	Clusters []*Cluster `json:"clusters"`

	// Isolated lists points with no neighbor inside the radius, in input order.
	Isolated []*occurrence.Point `json:"isolated"`
}

// Analyzer groups occurrence points into density clusters over a fixed
// great-circle radius.  Clustering is connected-components over the pairwise
// adjacency graph (union-find), not greedy chaining, so results do not depend
// on input order.
//
// The pairwise pass is O(n²); acceptable for the moderate record counts this
// engine serves.  Callers needing larger inputs should front the same
// contract with a spatial index.
type Analyzer struct {
	radiusKm float64
	logger   logging.Logger
}

// NewAnalyzer constructs an Analyzer.  radiusKm must be positive.
func NewAnalyzer(radiusKm float64, logger logging.Logger) (*Analyzer, error) {
	if radiusKm <= 0 {
		return nil, errors.Newf(errors.ErrCodeDensityRadiusInvalid,
			"cluster radius must be positive, got %v", radiusKm)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Analyzer{radiusKm: radiusKm, logger: logger.Named("density")}, nil
}

// Analyze computes neighbor counts, density categories, and clusters for the
// given points.  Points are treated as read-only; the result owns all newly
// created structures.  An empty input yields an empty Result, not an error.
func (a *Analyzer) Analyze(points []*occurrence.Point) (*Result, error) {
	for _, p := range points {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	n := len(points)
	res := &Result{
		Densities: make([]PointDensity, n),
		Clusters:  []*Cluster{},
		Isolated:  []*occurrence.Point{},
	}
	if n == 0 {
		return res, nil
	}

	counts := make([]int, n)
	uf := newUnionFind(n)

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if points[i].DistanceKm(points[j]) <= a.radiusKm {
				counts[i]++
				counts[j]++
				uf.union(i, j)
			}
		}
	}

	countByID := make(map[common.ID]int, n)
	for i, p := range points {
		countByID[p.ID] = counts[i]
		res.Densities[i] = PointDensity{
			Point:       p,
			NearbyCount: counts[i],
			Category:    CategoryForCount(counts[i]),
		}
	}

	// Collect components keyed by root, preserving input order of members
	// and of component discovery.
	componentOrder := []int{}
	componentMembers := make(map[int][]*occurrence.Point)
	for i, p := range points {
		root := uf.find(i)
		if _, seen := componentMembers[root]; !seen {
			componentOrder = append(componentOrder, root)
		}
		componentMembers[root] = append(componentMembers[root], p)
	}

	for _, root := range componentOrder {
		members := componentMembers[root]
		if len(members) < 2 {
			res.Isolated = append(res.Isolated, members[0])
			continue
		}
		res.Clusters = append(res.Clusters, newCluster(members, countByID))
	}

	a.logger.Debug("density analysis complete",
		logging.Int("points", n),
		logging.Int("clusters", len(res.Clusters)),
		logging.Int("isolated", len(res.Isolated)),
		logging.Float64("radius_km", a.radiusKm))
	return res, nil
}

// unionFind is a classic disjoint-set structure with path compression and
// union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(x, y int) {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
}
