package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/recgo/model"
)

func TestGraphAddEdge(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)

	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 2, g.EdgeCount())
	assert.True(t, g.HasEdge(1, 2))
	assert.False(t, g.HasEdge(2, 1), "edges are directed by default")
	assert.Equal(t, []model.RecordID{2, 3}, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(2))
}

func TestGraphUndirected(t *testing.T) {
	g := New(WithUndirected())
	g.AddEdge(1, 2)

	assert.True(t, g.HasEdge(1, 2))
	assert.True(t, g.HasEdge(2, 1))
	assert.Equal(t, 2, g.EdgeCount(), "one relation, two directions")
	assert.Equal(t, []model.RecordID{1}, g.Neighbors(2))
}

func TestGraphDuplicateEdges(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(1, 2)

	assert.Equal(t, 1, g.EdgeCount(), "distinct edge count ignores repeats")
	assert.Equal(t, 2, g.Degree(1), "the adjacency list keeps repeats")
	assert.Equal(t, []model.RecordID{2, 2}, g.Neighbors(1))

	// Removal strips every occurrence.
	require.True(t, g.RemoveEdge(1, 2))
	assert.Equal(t, 0, g.Degree(1))
	assert.False(t, g.HasEdge(1, 2))
	assert.False(t, g.RemoveEdge(1, 2))
}

func TestGraphNeighborsIsCopy(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)

	n := g.Neighbors(1)
	n[0] = 99

	assert.Equal(t, []model.RecordID{2}, g.Neighbors(1))
}

func TestGraphAddNode(t *testing.T) {
	g := New()

	require.True(t, g.AddNode(7))
	require.False(t, g.AddNode(7))

	assert.True(t, g.HasNode(7))
	assert.Equal(t, 1, g.NodeCount())
	assert.Equal(t, 0, g.Degree(7))
}

func TestGraphRemoveNode(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 2)
	g.AddEdge(4, 2)
	g.AddEdge(4, 2) // duplicate entry in 4's list

	require.True(t, g.RemoveNode(2))

	assert.False(t, g.HasNode(2))
	assert.Equal(t, []model.RecordID{1, 3, 4}, g.Nodes())
	assert.Empty(t, g.Neighbors(1))
	assert.Empty(t, g.Neighbors(3))
	assert.Empty(t, g.Neighbors(4), "every occurrence is stripped")
	assert.Equal(t, 0, g.EdgeCount())

	assert.False(t, g.RemoveNode(2), "removal is idempotent")
}

func TestGraphRemoveNodeSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge(5, 5)
	g.AddEdge(5, 6)

	require.True(t, g.RemoveNode(5))
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, []model.RecordID{6}, g.Nodes())
}

func TestGraphShortestPath(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 4)
	g.AddEdge(1, 5)
	g.AddEdge(5, 4)

	path, ok := g.ShortestPath(1, 4)
	require.True(t, ok)
	assert.Equal(t, []model.RecordID{1, 5, 4}, path, "two hops beat three")

	path, ok = g.ShortestPath(1, 1)
	require.True(t, ok)
	assert.Equal(t, []model.RecordID{1}, path)

	_, ok = g.ShortestPath(4, 1)
	assert.False(t, ok, "directed edges do not run backwards")

	_, ok = g.ShortestPath(1, 99)
	assert.False(t, ok, "unknown target")
	_, ok = g.ShortestPath(99, 1)
	assert.False(t, ok, "unknown source")
}

func TestGraphShortestPathTieBreak(t *testing.T) {
	g := New()
	// Two equal-length paths 1->2->4 and 1->3->4; the neighbor added
	// first must win.
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)

	path, ok := g.ShortestPath(1, 4)
	require.True(t, ok)
	assert.Equal(t, []model.RecordID{1, 2, 4}, path)
}

func TestGraphBFSOrder(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)
	g.AddEdge(4, 1) // cycle must not loop the traversal

	assert.Equal(t, []model.RecordID{1, 2, 3, 4}, g.BFSOrder(1))
	assert.Equal(t, []model.RecordID{2, 4, 1, 3}, g.BFSOrder(2))
	assert.Nil(t, g.BFSOrder(99))
}

func TestGraphDFSOrder(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(2, 4)
	g.AddEdge(3, 4)

	assert.Equal(t, []model.RecordID{1, 2, 4, 3}, g.DFSOrder(1))
	assert.Nil(t, g.DFSOrder(99))
}

func TestGraphDFSOrderPolicy(t *testing.T) {
	build := func(optFns ...Option) *Graph {
		g := New(optFns...)
		g.AddEdge(1, 5)
		g.AddEdge(1, 2)
		g.AddEdge(1, 9)
		return g
	}

	assert.Equal(t, []model.RecordID{1, 5, 2, 9}, build().DFSOrder(1))
	assert.Equal(t, []model.RecordID{1, 2, 5, 9},
		build(WithTraversalOrder(OrderAscending)).DFSOrder(1))
	assert.Equal(t, []model.RecordID{1, 9, 5, 2},
		build(WithTraversalOrder(OrderDescending)).DFSOrder(1))
}

func TestGraphClusteringCoefficient(t *testing.T) {
	g := New()

	// Fewer than two neighbors scores zero.
	g.AddEdge(1, 2)
	assert.Zero(t, g.ClusteringCoefficient(1))
	assert.Zero(t, g.ClusteringCoefficient(2))
	assert.Zero(t, g.ClusteringCoefficient(99))

	// Triangle: both neighbor pairs of 1 connected.
	g.AddEdge(1, 3)
	g.AddEdge(2, 3)
	assert.InDelta(t, 1.0, g.ClusteringCoefficient(1), 1e-9)

	// A third neighbor with no links to the others dilutes the score:
	// one connected pair out of three.
	g.AddEdge(1, 4)
	assert.InDelta(t, 1.0/3.0, g.ClusteringCoefficient(1), 1e-9)
}

func TestGraphClusteringCoefficientEitherDirection(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(1, 3)
	g.AddEdge(3, 2) // reverse of 2->3, still counts as a link

	assert.InDelta(t, 1.0, g.ClusteringCoefficient(1), 1e-9)
}

func TestGraphPathToRoot(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(2, 4)

	assert.Equal(t, []model.RecordID{1, 2, 3}, g.PathToRoot(3))
	assert.Equal(t, []model.RecordID{1, 2, 4}, g.PathToRoot(4))
	assert.Equal(t, []model.RecordID{1}, g.PathToRoot(1), "a root is its own chain")
	assert.Nil(t, g.PathToRoot(9))

	// With several predecessors the smallest identifier is followed.
	g.AddEdge(7, 3)
	assert.Equal(t, []model.RecordID{1, 2, 3}, g.PathToRoot(3))
}

func TestGraphPathToRootCycle(t *testing.T) {
	g := New()
	g.AddEdge(1, 2)
	g.AddEdge(2, 3)
	g.AddEdge(3, 1)

	assert.Equal(t, []model.RecordID{1, 2, 3}, g.PathToRoot(3))
}
