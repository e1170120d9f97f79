package graph

import (
	"testing"

	"github.com/cornell-brg/uecgra-model/params"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, g *Graph, name string) *Node {
	t.Helper()
	n, err := g.AddNode(name, params.OpMul, 0.90, 1.00)
	require.NoError(t, err)

	return n
}

func TestAddNodeDuplicate(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a")
	_, err := g.AddNode("a", params.OpMul, 0.90, 1.00)
	require.ErrorIs(t, err, ErrDuplicateNode)
}

func TestAddNodeEmptyName(t *testing.T) {
	g := NewGraph()
	_, err := g.AddNode("", params.OpMul, 0.90, 1.00)
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestConnectAdjacencySymmetry(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a")
	mustAdd(t, g, "b")
	require.NoError(t, g.Connect("a", "b", false))

	require.Equal(t, []string{"b"}, g.GetDsts("a"))
	require.Equal(t, []string{"a"}, g.GetSrcs("b"))

	// Invariant: y in srcs[x] <=> x in dsts[y].
	for _, x := range g.AllNodes() {
		for _, y := range g.GetSrcs(x) {
			require.Contains(t, g.GetDsts(y), x)
		}
	}
}

func TestConnectDuplicateCollapses(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a")
	mustAdd(t, g, "b")
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("a", "b", false))
	require.Len(t, g.GetDsts("a"), 1)
}

func TestSelfEdgeRejected(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a")
	require.ErrorIs(t, g.Connect("a", "a", false), ErrSelfEdge)
}

func TestLiveInsLiveOuts(t *testing.T) {
	g := NewGraph()
	for _, n := range []string{"s", "a", "b", "t"} {
		mustAdd(t, g, n)
	}
	require.NoError(t, g.Connect("s", "a", false))
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("b", "t", false))

	require.Equal(t, []string{"s"}, g.GetLiveins())
	require.Equal(t, []string{"t"}, g.GetLiveouts())
}

func TestTopologicalSortLinearChain(t *testing.T) {
	g := NewGraph()
	for _, n := range []string{"s", "a", "b", "t"} {
		mustAdd(t, g, n)
	}
	require.NoError(t, g.Connect("s", "a", false))
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("b", "t", false))

	order, diags, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Equal(t, []string{"s", "a", "b", "t"}, order)
}

func TestTopologicalSortIgnoresRecurrenceEdge(t *testing.T) {
	// 0 -> 1 -> 2 -> 0 (recurrence).
	g := NewGraph()
	for _, n := range []string{"0", "1", "2"} {
		mustAdd(t, g, n)
	}
	require.NoError(t, g.Connect("0", "1", false))
	require.NoError(t, g.Connect("1", "2", false))
	require.NoError(t, g.Connect("2", "0", true))

	order, diags, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Empty(t, diags)
	require.Equal(t, []string{"0", "1", "2"}, order)
}

func TestTopologicalSortBreaksUndeclaredCycle(t *testing.T) {
	g := NewGraph()
	for _, n := range []string{"a", "b"} {
		mustAdd(t, g, n)
	}
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("b", "a", false)) // undeclared cycle

	order, diags, err := g.TopologicalSort()
	require.NoError(t, err)
	require.Len(t, order, 2)
	require.NotEmpty(t, diags)
	require.Equal(t, "cycle-break", diags[0].Kind)
}

func TestTopologicalSortContainsExactlyAllNodes(t *testing.T) {
	g := NewGraph()
	names := []string{"z", "y", "x", "w"}
	for _, n := range names {
		mustAdd(t, g, n)
	}
	require.NoError(t, g.Connect("w", "x", false))
	require.NoError(t, g.Connect("x", "y", false))
	require.NoError(t, g.Connect("y", "z", false))

	order, _, err := g.TopologicalSort()
	require.NoError(t, err)
	require.ElementsMatch(t, names, order)
	require.Len(t, order, len(names))
}

func TestDeleteNodeRemovesIncidentEdgesAndRecurrence(t *testing.T) {
	g := NewGraph()
	mustAdd(t, g, "a")
	mustAdd(t, g, "b")
	require.NoError(t, g.Connect("a", "b", true))
	require.NoError(t, g.DeleteNode("b"))

	require.Empty(t, g.GetDsts("a"))
	require.Empty(t, g.RecurrenceEdges())
	_, err := g.GetNode("b")
	require.ErrorIs(t, err, ErrNodeNotFound)
}
