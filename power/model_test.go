package power

import (
	"testing"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/cornell-brg/uecgra-model/sim"
	"github.com/stretchr/testify/require"
)

// buildOneMulTwoSRAM builds one mul at nominal plus two SRAM-bearing edges
// (one live-in, one live-out).
func buildOneMulTwoSRAM(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.NewGraph()
	v, tt := params.Operating(params.Nominal)
	_, err := g.AddNode("src_sram", params.OpSram, v, tt)
	require.NoError(t, err)
	_, err = g.AddNode("op", params.OpMul, v, tt)
	require.NoError(t, err)
	_, err = g.AddNode("dst_sram", params.OpSram, v, tt)
	require.NoError(t, err)
	require.NoError(t, g.Connect("src_sram", "op", false))
	require.NoError(t, g.Connect("op", "dst_sram", false))

	return g
}

func TestCGRATotalsMatchesClosedForm(t *testing.T) {
	g := buildOneMulTwoSRAM(t)
	s, _, err := sim.New(g)
	require.NoError(t, err)

	m := New(g, s)
	_, err = m.CalcPerformance()
	require.NoError(t, err)

	totals := m.CGRATotals()

	wantTileStatic := m.TileStaticPower(params.VNominal)*2 + m.TileStaticPower(params.VNominal)
	wantTileDyn := m.TileDynamicPower(params.VNominal, params.OpSram)*2 + m.TileDynamicPower(params.VNominal, params.OpMul)
	wantSRAMStatic := m.SRAMStaticPower(params.VNominal) * 2
	wantSRAMDyn := m.SRAMDynamicPower(params.VNominal) * 2

	require.InEpsilon(t, wantTileStatic, totals.TileStatic, 1e-9)
	require.InEpsilon(t, wantTileDyn, totals.TileDynamic, 1e-9)
	require.InEpsilon(t, wantSRAMStatic, totals.SRAMStatic, 1e-9)
	require.InEpsilon(t, wantSRAMDyn, totals.SRAMDynamic, 1e-9)
}

func TestSetVoltageRejectsNonModeValue(t *testing.T) {
	g := buildOneMulTwoSRAM(t)
	s, _, err := sim.New(g)
	require.NoError(t, err)
	m := New(g, s)

	require.ErrorIs(t, m.SetVoltage("op", 0.77), ErrVoltageNotAMode)
	require.NoError(t, m.SetVoltage("op", 1.23))

	n, err := g.GetNode("op")
	require.NoError(t, err)
	require.Equal(t, 1.23, n.V)
	require.Equal(t, 0.66, n.T)
}

func TestPAllocPositive(t *testing.T) {
	g := buildOneMulTwoSRAM(t)
	s, _, err := sim.New(g)
	require.NoError(t, err)
	m := New(g, s)

	require.Greater(t, m.PAlloc(), 0.0)
}
