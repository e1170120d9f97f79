package sim

import (
	"testing"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, g *graph.Graph, name string, class params.OpClass, mode params.Mode) {
	t.Helper()
	v, tt := params.Operating(mode)
	_, err := g.AddNode(name, class, v, tt)
	require.NoError(t, err)
}

// buildLinearChain is a simple s -> a -> b -> t chain, all mul at nominal.
func buildLinearChain(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	for _, n := range []string{"s", "a", "b", "t"} {
		mustAdd(t, g, n, params.OpMul, params.Nominal)
	}
	require.NoError(t, g.Connect("s", "a", false))
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("b", "t", false))

	return g
}

func TestSimulatorLinearChainThroughput(t *testing.T) {
	g := buildLinearChain(t)
	sim, diags, err := New(g)
	require.NoError(t, err)
	require.Empty(t, diags)

	result, diags, err := sim.Run(10, 1000)
	require.NoError(t, err)
	require.Empty(t, diags)
	require.InDelta(t, 1.0, result.Throughput, 0.05)
	require.InDelta(t, 10.0, result.Latency, 1.0)
}

func TestSimulatorDeterministic(t *testing.T) {
	g := buildLinearChain(t)
	sim, _, err := New(g)
	require.NoError(t, err)

	r1, _, err := sim.Run(10, 1000)
	require.NoError(t, err)
	r2, _, err := sim.Run(10, 1000)
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

// buildRecurrence is a ring 0..6 with 6 -> 0 marked recurrence.
func buildRecurrence(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	for i := 0; i < 7; i++ {
		mustAdd(t, g, indexName(i), params.OpMul, params.Nominal)
	}
	for i := 0; i < 6; i++ {
		require.NoError(t, g.Connect(indexName(i), indexName(i+1), false))
	}
	require.NoError(t, g.Connect(indexName(6), indexName(0), true))

	return g
}

func indexName(i int) string {
	return string(rune('0' + i))
}

func TestSimulatorRecurrenceDoesNotDeadlock(t *testing.T) {
	g := buildRecurrence(t)
	sim, _, err := New(g)
	require.NoError(t, err)

	result, _, err := sim.Run(10, 5000)
	require.NoError(t, err)
	require.Greater(t, result.Throughput, 0.0)
}

// TestSimulatorDVFSMixBottleneck: a sprinted, b rested, should bottleneck
// on the slowest tile in the chain.
func TestSimulatorDVFSMixBottleneck(t *testing.T) {
	g := graph.NewGraph()
	mustAdd(t, g, "s", params.OpMul, params.Nominal)
	mustAdd(t, g, "a", params.OpMul, params.Sprint)
	mustAdd(t, g, "b", params.OpMul, params.Rest)
	mustAdd(t, g, "t", params.OpMul, params.Nominal)
	require.NoError(t, g.Connect("s", "a", false))
	require.NoError(t, g.Connect("a", "b", false))
	require.NoError(t, g.Connect("b", "t", false))

	sim, _, err := New(g)
	require.NoError(t, err)

	result, _, err := sim.Run(10, 5000)
	require.NoError(t, err)
	require.InDelta(t, 1.0/3.0, result.Throughput, 0.05)
}

// TestSimulatorSoleLiveInLiveOut covers the boundary scenario where a single
// node is both live-in and live-out: it must still report a finite
// throughput, driven entirely by liveOutToken.
func TestSimulatorSoleLiveInLiveOut(t *testing.T) {
	g := graph.NewGraph()
	mustAdd(t, g, "only", params.OpMul, params.Nominal)

	sim, _, err := New(g)
	require.NoError(t, err)

	result, _, err := sim.Run(10, 1000)
	require.NoError(t, err)
	require.Greater(t, result.Throughput, 0.0)
	require.False(t, result.Throughput == result.Throughput+1) // sanity: finite
}

func TestRationalClockSnap(t *testing.T) {
	require.InDelta(t, 2.00, snapRationalClock(0.66, 1.98), 1e-9)
	require.InDelta(t, 0.99, snapRationalClock(0.66, 0.99), 1e-9)
	require.InDelta(t, 1.98, snapRationalClock(1.0, 1.98), 1e-9)
}

func TestQueueDepthBound(t *testing.T) {
	g := buildLinearChain(t)
	sim, _, err := New(g)
	require.NoError(t, err)

	_, _, err = sim.Run(10, 1000)
	require.NoError(t, err)

	for _, sn := range sim.nodes {
		for _, q := range sn.queues {
			require.LessOrEqual(t, len(q), maxQueueDepth)
		}
		for _, q := range sn.shadowQueues {
			require.LessOrEqual(t, len(q), maxQueueDepth)
		}
	}
}

func TestSimulatorNoLiveIn(t *testing.T) {
	g := graph.NewGraph()
	mustAdd(t, g, "a", params.OpMul, params.Nominal)
	mustAdd(t, g, "b", params.OpMul, params.Nominal)
	require.NoError(t, g.Connect("a", "b", true))
	require.NoError(t, g.Connect("b", "a", true))

	_, _, err := New(g)
	require.ErrorIs(t, err, ErrNoLiveIn)
}
