package genetics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geowild/ConserveIQ/internal/infrastructure/monitoring/logging"
)

func testBuilder(resamples int) *TreeBuilder {
	return NewTreeBuilder(resamples, 42, logging.NewNopLogger())
}

func TestTreeBuilderEmptyInput(t *testing.T) {
	out := testBuilder(5).Build(nil)

	require.NotNil(t, out.Tree)
	assert.Equal(t, MethodEmpty, out.Tree.Method)
	assert.Equal(t, "root", out.Tree.Root.Name)
	assert.Empty(t, out.Tree.Root.Children)
	assert.Equal(t, 0, out.SampleCount)
	assert.Empty(t, out.DistanceMatrix)

	require.Len(t, out.Bootstrap, 5)
	for _, v := range out.Bootstrap {
		assert.InDelta(t, 0.5, v, 1e-9)
	}
}

func TestTreeBuilderSpeciesGrouping(t *testing.T) {
	samples := []*Sample{
		{Species: "panthera_onca", Sequence: "ATCG"},
		{Species: "tapirus_bairdii", Sequence: "TTCG"},
	}
	out := testBuilder(3).Build(samples)

	assert.Equal(t, MethodSpeciesGrouping, out.Tree.Method)
	require.Len(t, out.Tree.Root.Children, 2)
	assert.Equal(t, "panthera_onca", out.Tree.Root.Children[0].Name)
	assert.Equal(t, "tapirus_bairdii", out.Tree.Root.Children[1].Name)
	assert.Less(t, out.Tree.Root.Children[0].Length, out.Tree.Root.Children[1].Length)
	assert.Equal(t, 2, out.Tree.Root.LeafCount())
}

func TestTreeBuilderNeighborJoining(t *testing.T) {
	samples := []*Sample{
		{Species: "panthera_onca", Sequence: "ATCGATCGATCGATCG"},
		{Species: "panthera_onca", Sequence: "ATCGATCGATCGATCT"},
		{Species: "tapirus_bairdii", Sequence: "TTTTATCGTTTTATCG"},
		{Species: "tapirus_bairdii", Sequence: "TTTTATCGTTTTATCT"},
	}
	out := testBuilder(10).Build(samples)

	assert.Equal(t, MethodNeighborJoining, out.Tree.Method)
	assert.Equal(t, 4, out.Tree.Root.LeafCount())
	assert.Len(t, out.DistanceMatrix, 4)
	assert.Equal(t, 4, out.SampleCount)

	// Branch lengths must be finite and non-negative.
	var walk func(n *Node)
	walk = func(n *Node) {
		assert.GreaterOrEqual(t, n.Length, 0.0)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(out.Tree.Root)
}

func TestTreeBuilderBootstrap(t *testing.T) {
	samples := []*Sample{
		{Species: "a", Sequence: "AAAAAAAA"},
		{Species: "a", Sequence: "AAAAAAAT"},
		{Species: "b", Sequence: "TTTTTTTT"},
		{Species: "b", Sequence: "TTTTTTTA"},
	}

	out := testBuilder(20).Build(samples)
	require.Len(t, out.Bootstrap, 20)
	for _, v := range out.Bootstrap {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}

	// Same seed, same resampling, same support values.
	again := testBuilder(20).Build(samples)
	assert.Equal(t, out.Bootstrap, again.Bootstrap)
}

func TestTreeBuilderSingleSample(t *testing.T) {
	out := testBuilder(4).Build([]*Sample{{Species: "a", Sequence: "ATCG"}})

	assert.Equal(t, MethodSpeciesGrouping, out.Tree.Method)
	require.Len(t, out.Bootstrap, 4)
	for _, v := range out.Bootstrap {
		assert.InDelta(t, 1.0, v, 1e-9)
	}
}
