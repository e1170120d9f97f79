package dfgio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cornell-brg/uecgra-model/params"
	"github.com/stretchr/testify/require"
)

func dir(d Direction) *Direction { return &d }

func TestReadDFGLinearChain(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal", Dst: []Direction{East}},
		{X: 1, Y: 0, Op: "mul", DVFS: "nominal", SrcA: dir(West), Dst: []Direction{East}},
		{X: 2, Y: 0, Op: "mul", DVFS: "nominal", SrcA: dir(West)},
	}

	g, err := ReadDFG(records)
	require.NoError(t, err)

	require.ElementsMatch(t, []string{"t0_0", "t1_0", "t2_0"}, g.AllNodes())
	require.Equal(t, []string{"t1_0"}, g.GetDsts("t0_0"))
	require.Equal(t, []string{"t2_0"}, g.GetDsts("t1_0"))
}

func TestReadDFGOffGridSynthesizesSRAM(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal", SrcA: dir(West), Dst: []Direction{East}},
	}

	g, err := ReadDFG(records)
	require.NoError(t, err)

	names := g.AllNodes()
	require.Len(t, names, 3) // t0_0 plus its synthesized ld/st SRAMs
	require.Contains(t, names, "t0_0")
}

func TestReadDFGSelfDirectionIgnored(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal", SrcA: dir(Self)},
	}

	g, err := ReadDFG(records)
	require.NoError(t, err)
	require.Equal(t, []string{"t0_0"}, g.AllNodes())
	require.Empty(t, g.GetSrcs("t0_0"))
}

func TestReadDFGBypassPath(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal", BpsSrc: []Direction{West}, BpsDst: []Direction{East}},
	}

	g, err := ReadDFG(records)
	require.NoError(t, err)
	require.Contains(t, g.AllNodes(), "t0_0_byp")
}

func TestReadDFGUnknownOp(t *testing.T) {
	records := []TileRecord{{X: 0, Y: 0, Op: "frobnicate", DVFS: "nominal"}}
	_, err := ReadDFG(records)
	require.Error(t, err)
}

func TestReadDFGBranchMissingFields(t *testing.T) {
	records := []TileRecord{{X: 0, Y: 0, Op: "br", DVFS: "nominal"}}
	_, err := ReadDFG(records)
	require.ErrorIs(t, err, ErrMissingBranchFields)
}

func TestWriteDVFSRoundTrip(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal"},
		{X: 1, Y: 0, Op: "mul", DVFS: "slow"},
	}
	voltages := map[string]float64{"t0_0": 1.23, "t1_0": 0.61}

	path := filepath.Join(t.TempDir(), "dfg.json")
	require.NoError(t, WriteDVFS(records, voltages, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out []TileRecord
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, "sprint", out[0].DVFS)
	require.Equal(t, "rest", out[1].DVFS)
}

func TestLoadDFGFile(t *testing.T) {
	records := []TileRecord{
		{X: 0, Y: 0, Op: "mul", DVFS: "nominal", Dst: []Direction{East}},
		{X: 1, Y: 0, Op: "mul", DVFS: "nominal", SrcA: dir(West)},
	}
	data, err := json.MarshalIndent(records, "", " ")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "dfg.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, g, err := LoadDFGFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	require.ElementsMatch(t, []string{"t0_0", "t1_0"}, g.AllNodes())
}

func TestLoadDFGFileMissing(t *testing.T) {
	_, _, err := LoadDFGFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestOutputPathDefaultSuffix(t *testing.T) {
	require.Equal(t, "dfg_dvfs.json", OutputPath("dfg.json", DefaultDVFSSuffix))
}

func TestIntermediatePaths(t *testing.T) {
	require.Equal(t, "dfg.pre.nodes", IntermediatePath("dfg.json", StagePreNodes, "nodes", false))
	require.Equal(t, "dfg.pre.eeff.groups", IntermediatePath("dfg.json", StagePreNodes, "groups", true))
	require.Equal(t, "dfg.final.nodes", IntermediatePath("dfg.json", StageFinalNodes, "nodes", false))
}

func TestGroupModesRoundTrip(t *testing.T) {
	modes := map[string]params.Mode{"a": params.Rest, "b": params.Sprint}
	path := filepath.Join(t.TempDir(), "dfg.pre.groups")
	require.NoError(t, WriteGroupModes(path, modes))

	back, err := ReadGroupModes(path)
	require.NoError(t, err)
	require.Equal(t, modes, back)
}

func TestNodeVoltagesRoundTrip(t *testing.T) {
	voltages := map[string]float64{"t0_0": 0.90}
	path := filepath.Join(t.TempDir(), "dfg.final.nodes")
	require.NoError(t, WriteNodeVoltages(path, voltages))

	back, err := ReadNodeVoltages(path)
	require.NoError(t, err)
	require.Equal(t, voltages, back)
}
