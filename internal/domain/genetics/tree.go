package genetics

import (
	"fmt"
	"math/rand"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
	"github.com/geowild/ConserveIQ/pkg/errors"
	"github.com/geowild/ConserveIQ/pkg/types/common"
)

// Tree construction methods reported on the result.
const (
	MethodNeighborJoining = "neighbor_joining"
	MethodSpeciesGrouping = "species_grouping"
	MethodEmpty           = "empty"
)

// fallbackBootstrapSupport fills the placeholder bootstrap array when tree
// construction falls back to the empty tree.
const fallbackBootstrapSupport = 0.5

// Node is one vertex of the hierarchical grouping tree.  Leaves carry a
// species label; internal nodes are synthetic.
type Node struct {
	Name     string         `json:"name"`
	Species  common.Species `json:"species,omitempty"`
	Length   float64        `json:"branch_length"`
	Children []*Node        `json:"children,omitempty"`
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// LeafCount returns the number of leaves under n (inclusive).
func (n *Node) LeafCount() int {
	if n.IsLeaf() {
		return 1
	}
	total := 0
	for _, c := range n.Children {
		total += c.LeafCount()
	}
	return total
}

// Tree is the hierarchical grouping result over genomic samples.
type Tree struct {
	Root   *Node  `json:"root"`
	Method string `json:"method"`
}

// PhylogeneticAnalysis bundles the full output of the phylogenetic builder.
// The distance matrix is authoritative; the tree is derived from it.
type PhylogeneticAnalysis struct {
	DistanceMatrix [][]float64 `json:"distance_matrix"`
	Tree           *Tree       `json:"tree"`
	Bootstrap      []float64   `json:"bootstrap_values"`
	SampleCount    int         `json:"sample_count"`
}

// TreeBuilder constructs distance matrices, grouping trees, and bootstrap
// support values from genomic samples.  The random source behind bootstrap
// resampling is seeded explicitly so tests are reproducible.
type TreeBuilder struct {
	resamples int
	seed      int64
	logger    logging.Logger
}

// NewTreeBuilder constructs a TreeBuilder.  resamples caps the bootstrap
// cost and must be at least 1.
func NewTreeBuilder(resamples int, seed int64, logger logging.Logger) *TreeBuilder {
	if resamples < 1 {
		resamples = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &TreeBuilder{resamples: resamples, seed: seed, logger: logger.Named("phylo")}
}

// Build runs the full phylogenetic analysis.  It is total: malformed or
// empty input degrades to the documented fallback (empty-root tree, uniform
// bootstrap placeholder) rather than failing.
func (b *TreeBuilder) Build(samples []*Sample) *PhylogeneticAnalysis {
	out := &PhylogeneticAnalysis{
		DistanceMatrix: DistanceMatrix(samples),
		SampleCount:    len(samples),
	}

	if len(samples) == 0 {
		out.Tree = &Tree{Root: &Node{Name: "root"}, Method: MethodEmpty}
		out.Bootstrap = uniformBootstrap(b.resamples)
		return out
	}

	tree, err := b.buildTree(samples, out.DistanceMatrix)
	if err != nil {
		// Construction failure is a defined fallback, not a fault.
		b.logger.Warn("tree construction failed, using species grouping",
			logging.Err(err), logging.Int("samples", len(samples)))
		tree = speciesGroupingTree(samples)
	}
	out.Tree = tree

	rng := rand.New(rand.NewSource(b.seed))
	out.Bootstrap = bootstrapValues(samples, out.DistanceMatrix, b.resamples, rng)
	return out
}

// buildTree selects neighbor joining when the sample count supports it and
// species grouping otherwise.
func (b *TreeBuilder) buildTree(samples []*Sample, matrix [][]float64) (*Tree, error) {
	if len(samples) < 3 {
		return speciesGroupingTree(samples), nil
	}
	root, err := neighborJoin(samples, matrix)
	if err != nil {
		return nil, err
	}
	return &Tree{Root: root, Method: MethodNeighborJoining}, nil
}

// uniformBootstrap returns the placeholder support array used by the empty
// fallback tree.
func uniformBootstrap(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = fallbackBootstrapSupport
	}
	return out
}

// speciesGroupingTree attaches one subtree per species to a synthetic root,
// with synthetic branch lengths increasing by species insertion order.
func speciesGroupingTree(samples []*Sample) *Tree {
	root := &Node{Name: "root"}
	grouped := BySpecies(samples)
	for si, sp := range SpeciesOf(samples) {
		subtree := &Node{
			Name:    string(sp),
			Species: sp,
			Length:  0.1 * float64(si+1),
		}
		for i, s := range grouped[sp] {
			subtree.Children = append(subtree.Children, &Node{
				Name:    fmt.Sprintf("%s_%d", sp, i+1),
				Species: s.Species,
				Length:  0.05,
			})
		}
		root.Children = append(root.Children, subtree)
	}
	return &Tree{Root: root, Method: MethodSpeciesGrouping}
}

// neighborJoin runs the standard neighbor-joining agglomeration over the
// distance matrix: the closest pair under the Q criterion is merged into a
// synthetic node until two clusters remain, which join at the root.
func neighborJoin(samples []*Sample, matrix [][]float64) (*Node, error) {
	n := len(samples)
	if n < 3 {
		return nil, errors.Newf(errors.ErrCodeTreeBuildFailed,
			"neighbor joining requires at least 3 samples, got %d", n)
	}

	nodes := make([]*Node, n)
	for i, s := range samples {
		nodes[i] = &Node{
			Name:    fmt.Sprintf("%s_%d", s.Species, i+1),
			Species: s.Species,
		}
	}

	// Working copy of the distance matrix; it shrinks as clusters merge.
	d := make([][]float64, n)
	for i := range d {
		d[i] = append([]float64(nil), matrix[i]...)
	}

	for len(nodes) > 2 {
		m := len(nodes)

		rowSums := make([]float64, m)
		for i := 0; i < m; i++ {
			for k := 0; k < m; k++ {
				rowSums[i] += d[i][k]
			}
		}

		// Minimise Q(i,j) = (m-2)·d(i,j) - r_i - r_j.
		bi, bj := 0, 1
		bestQ := float64(m-2)*d[0][1] - rowSums[0] - rowSums[1]
		for i := 0; i < m; i++ {
			for j := i + 1; j < m; j++ {
				q := float64(m-2)*d[i][j] - rowSums[i] - rowSums[j]
				if q < bestQ {
					bestQ = q
					bi, bj = i, j
				}
			}
		}

		li := d[bi][bj]/2 + (rowSums[bi]-rowSums[bj])/(2*float64(m-2))
		lj := d[bi][bj] - li
		if li < 0 {
			li = 0
		}
		if lj < 0 {
			lj = 0
		}
		nodes[bi].Length = li
		nodes[bj].Length = lj
		merged := &Node{
			Name:     fmt.Sprintf("node_%d", n-m+1),
			Children: []*Node{nodes[bi], nodes[bj]},
		}

		// Distances from the merged cluster to every survivor.
		mergedDist := make([]float64, 0, m-1)
		for k := 0; k < m; k++ {
			if k == bi || k == bj {
				continue
			}
			mergedDist = append(mergedDist, (d[bi][k]+d[bj][k]-d[bi][bj])/2)
		}

		// Rebuild nodes and matrix without bi/bj, appending the merge.
		nextNodes := make([]*Node, 0, m-1)
		keep := make([]int, 0, m-2)
		for k := 0; k < m; k++ {
			if k == bi || k == bj {
				continue
			}
			keep = append(keep, k)
			nextNodes = append(nextNodes, nodes[k])
		}
		nextNodes = append(nextNodes, merged)

		nextD := make([][]float64, len(nextNodes))
		for i := range nextD {
			nextD[i] = make([]float64, len(nextNodes))
		}
		for a, ka := range keep {
			for b, kb := range keep {
				nextD[a][b] = d[ka][kb]
			}
		}
		last := len(nextNodes) - 1
		for a := range keep {
			nextD[a][last] = mergedDist[a]
			nextD[last][a] = mergedDist[a]
		}

		nodes = nextNodes
		d = nextD
	}

	half := d[0][1] / 2
	nodes[0].Length = half
	nodes[1].Length = half
	return &Node{Name: "root", Children: []*Node{nodes[0], nodes[1]}}, nil
}

// bootstrapValues resamples the sample set with replacement and reports, per
// resample, the fraction of drawn samples whose nearest neighbor (by
// Jukes-Cantor distance) shares their species — a cohesion score in [0,1].
func bootstrapValues(samples []*Sample, matrix [][]float64, resamples int, rng *rand.Rand) []float64 {
	n := len(samples)
	out := make([]float64, resamples)
	for b := range out {
		if n < 2 {
			out[b] = 1.0
			continue
		}
		idx := make([]int, n)
		for i := range idx {
			idx[i] = rng.Intn(n)
		}

		cohesive := 0
		for i, si := range idx {
			bestDist := -1.0
			bestSame := false
			for j, sj := range idx {
				if i == j {
					continue
				}
				dist := matrix[si][sj]
				if bestDist < 0 || dist < bestDist {
					bestDist = dist
					bestSame = samples[si].Species == samples[sj].Species
				}
			}
			if bestSame {
				cohesive++
			}
		}
		out[b] = float64(cohesive) / float64(n)
	}
	return out
}
