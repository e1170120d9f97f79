package power

import (
	"errors"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/cornell-brg/uecgra-model/sim"
)

// ErrVoltageNotAMode is returned by SetVoltage when v does not match one of
// the three DVFS operating points exactly. Autosearch trials are expected to
// only ever request one of the three table voltages.
var ErrVoltageNotAMode = errors.New("power: voltage does not match a DVFS mode")

// defaultMaxTokens is the measurement token count CalcPerformance fixes for
// a clean run; Autosearch trials use the same constant for their own
// fixed-length measurement runs.
const defaultMaxTokens = 50

// defaultMaxTime bounds a CalcPerformance run; large enough that only a
// genuinely deadlocked graph would hit it.
const defaultMaxTime = 1_000_000.0

// Model is the analytical power/energy model coupled to a single Simulator
// instance. It caches throughput/latency from the most recent
// CalcPerformance call; everything else is computed on read from the
// Graph's current per-node V/T.
type Model struct {
	g   *graph.Graph
	sim *sim.Simulator

	throughput float64
	latency    float64

	leakageCurrent float64
}

// New builds a Model over g and s. s must have been constructed from g (the
// Model does not validate this; callers own that invariant as the single
// owner of the coupling).
func New(g *graph.Graph, s *sim.Simulator) *Model {
	m := &Model{g: g, sim: s}
	m.leakageCurrent = m.computeLeakageCurrent()

	return m
}

// computeLeakageCurrent derives I_L = gamma * P_tile_dyn(V_N, mul, 1.0) /
// (V_N * (1 - gamma)). The reference throughput of 1.0
// token/cycle is the model's fixed calibration point, not a measured value.
func (m *Model) computeLeakageCurrent() float64 {
	pDyn := tileDynamicPower(params.VNominal, params.OpMul, 1.0)

	return params.LeakageFraction * pDyn / (params.VNominal * (1 - params.LeakageFraction))
}

// tileDynamicPower evaluates P_tile_dyn(V, op) = alpha(op) * throughput *
// f(V) * V^s.
func tileDynamicPower(v float64, op params.OpClass, throughput float64) float64 {
	return params.Alpha(op) * throughput * params.FrequencyHz(v) * pow(v, params.DynamicPowerExponent)
}

func pow(v, exp float64) float64 {
	if exp == 2.0 {
		return v * v
	}
	// Only the exponent of 2.0 is used in this model (s = 2.0); a general
	// pow would pull in math.Pow for no benefit here. The loop below is
	// exact for whole-number exponents only; a fractional exponent is
	// rounded up.
	result := 1.0
	for i := 0.0; i < exp; i++ {
		result *= v
	}

	return result
}

// TileStaticPower returns P_tile_static(V) = V * I_L.
func (m *Model) TileStaticPower(v float64) float64 {
	return v * m.leakageCurrent
}

// TileDynamicPower returns P_tile_dyn(V, op) using the Model's cached
// throughput.
func (m *Model) TileDynamicPower(v float64, op params.OpClass) float64 {
	return tileDynamicPower(v, op, m.throughput)
}

// SRAMStaticPower returns P_sram_static(V) = V * I_L * beta.
func (m *Model) SRAMStaticPower(v float64) float64 {
	return v * m.leakageCurrent * params.SRAMLeakageRatio
}

// SRAMDynamicPower returns P_sram_dyn(V) using the Model's cached
// throughput and the sram op-class alpha.
func (m *Model) SRAMDynamicPower(v float64) float64 {
	return tileDynamicPower(v, params.OpSram, m.throughput)
}

// Throughput and Latency return the most recently measured values (zero
// before the first CalcPerformance call).
func (m *Model) Throughput() float64 { return m.throughput }
func (m *Model) Latency() float64    { return m.latency }

// CalcPerformance re-runs the coupled Simulator from a clean reset and
// updates the cached throughput/latency. The model is stateless across
// invocations apart from the cached throughput, latency, and the current
// per-node V/T.
func (m *Model) CalcPerformance() ([]graph.Diagnostic, error) {
	result, diags, err := m.sim.Run(defaultMaxTokens, defaultMaxTime)
	if err != nil {
		return diags, err
	}
	m.throughput = result.Throughput
	m.latency = result.Latency

	return diags, nil
}

// SetVoltage sets node name's V (and, via table lookup, its T) to one of
// the three DVFS operating points. Returns ErrVoltageNotAMode if v is not
// exactly one of the three table voltages: a non-matching V is a hard
// error during normal operation.
func (m *Model) SetVoltage(name string, v float64) error {
	if _, err := params.PeriodForVoltage(v); err != nil {
		return ErrVoltageNotAMode
	}

	n, err := m.g.GetNode(name)
	if err != nil {
		return err
	}

	return n.SetVT(v, false)
}

// Totals is the aggregated power/energy readout.
type Totals struct {
	TileStatic  float64
	TileDynamic float64
	SRAMStatic  float64
	SRAMDynamic float64
	Total       float64
	Energy      float64
}

// CGRATotals aggregates power over every non-const node (the tile terms)
// and every non-const live-in/live-out node (the paired-SRAM terms), using
// the Model's cached throughput and latency.
func (m *Model) CGRATotals() Totals {
	var t Totals

	for _, name := range m.g.AllNodes() {
		n, err := m.g.GetNode(name)
		if err != nil || n.OpClass == params.OpConst {
			continue
		}
		t.TileStatic += m.TileStaticPower(n.V)
		t.TileDynamic += m.TileDynamicPower(n.V, n.OpClass)
	}

	for _, name := range liveNodes(m.g) {
		n, err := m.g.GetNode(name)
		if err != nil {
			continue
		}
		t.SRAMStatic += m.SRAMStaticPower(n.V)
		t.SRAMDynamic += m.SRAMDynamicPower(n.V)
	}

	t.Total = t.TileStatic + t.TileDynamic + t.SRAMStatic + t.SRAMDynamic
	t.Energy = t.Total * m.latency

	return t
}

// liveNodes returns live-in union live-out names (deduplicated, sorted,
// const excluded).
func liveNodes(g *graph.Graph) []string {
	seen := make(map[string]bool)
	var out []string
	for _, name := range append(g.GetLiveins(), g.GetLiveouts()...) {
		if seen[name] {
			continue
		}
		seen[name] = true
		n, err := g.GetNode(name)
		if err != nil || n.OpClass == params.OpConst {
			continue
		}
		out = append(out, name)
	}

	return out
}

// PAlloc returns the fixed, reporting-only power envelope P_alloc = N_T *
// P_tile_total(V_N, mul) + N_S * P_sram_total(V_N), evaluated at the
// Model's current cached throughput. It is never enforced
// by Autosearch, only reported.
func (m *Model) PAlloc() float64 {
	tileTotal := m.TileStaticPower(params.VNominal) + m.TileDynamicPower(params.VNominal, params.OpMul)
	sramTotal := m.SRAMStaticPower(params.VNominal) + m.SRAMDynamicPower(params.VNominal)

	return params.TileCount*tileTotal + params.SRAMCount*sramTotal
}
