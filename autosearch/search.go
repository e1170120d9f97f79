package autosearch

import (
	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/cornell-brg/uecgra-model/power"
)

// PerfNominalCeiling is the undocumented "1.07" Phase 2 performance-first
// threshold, kept as a tunable constant.
const PerfNominalCeiling = 1.07

// TrialMaxTokens is the measurement token count of a Phase 2/3 trial. It is
// not passed to the simulator: measure runs every trial through
// power.Model.CalcPerformance, which uses its own fixed 50-token count.
const TrialMaxTokens = 50

// SearchMode selects between the two Phase 2/3 trial-acceptance policies.
type SearchMode int

const (
	// PerformanceFirst starts every group at sprint and only backs off
	// toward rest/nominal when the energy-delay product stays favorable.
	PerformanceFirst SearchMode = iota
	// EnergyFirst starts every group at nominal and only drops to rest when
	// the energy-delay product stays favorable.
	EnergyFirst
)

// Option configures a Run.
type Option func(*config)

type config struct {
	mode           SearchMode
	preloadedModes map[string]params.Mode
	skipRequested  bool
}

// WithPrioritizeEnergy selects EnergyFirst mode in place of the default
// PerformanceFirst.
func WithPrioritizeEnergy() Option {
	return func(c *config) { c.mode = EnergyFirst }
}

// WithSkipSearch reloads Phase 2's intermediate per-group mode map instead
// of running Phase 2. Decoding the serialized intermediate is dfgio's job;
// Run only consumes the resulting map, keyed by Group.Key.
func WithSkipSearch(groupModes map[string]params.Mode) Option {
	return func(c *config) {
		c.skipRequested = true
		c.preloadedModes = groupModes
	}
}

// Measurement is one (throughput, latency, energy) sample taken at a fixed
// voltage assignment, used as the comparison basis for compare.
type Measurement struct {
	Throughput float64
	Latency    float64
	Energy     float64
}

// measure re-runs the coupled simulator via m and reads back a Measurement.
func measure(m *power.Model) (Measurement, []graph.Diagnostic, error) {
	diags, err := m.CalcPerformance()
	if err != nil {
		return Measurement{}, diags, err
	}
	totals := m.CGRATotals()

	return Measurement{
		Throughput: m.Throughput(),
		Latency:    m.Latency(),
		Energy:     totals.Energy,
	}, diags, nil
}

// compare returns perf_ratio * eeff_ratio of candidate against baseline:
// perf_ratio is the throughput ratio, eeff_ratio is the (throughput/energy)
// ratio -- i.e. candidate is favored when it is both faster and more
// energy-efficient than baseline. Either ratio is treated as 1.0 if its
// denominator is zero (an unmeasurable baseline never forces a reject).
func compare(baseline, candidate Measurement) float64 {
	perfRatio := safeRatio(candidate.Throughput, baseline.Throughput)
	eeffRatio := safeRatio(efficiency(candidate), efficiency(baseline))

	return perfRatio * eeffRatio
}

func efficiency(m Measurement) float64 {
	if m.Energy == 0 {
		return 0
	}

	return m.Throughput / m.Energy
}

func safeRatio(candidate, baseline float64) float64 {
	if baseline == 0 {
		return 1.0
	}

	return candidate / baseline
}

// Result is the full output of Run: the per-group mode decisions from
// Phase 2, the final per-node voltage map after Phase 3, and any
// diagnostics accumulated along the way.
type Result struct {
	Groups      []Group
	GroupModes  map[string]params.Mode // keyed by Group.Key
	NodeVoltage map[string]float64
	Diagnostics []graph.Diagnostic
	// Baseline is the all-nominal reference measurement Phase 2 records
	// before trying any group assignment. Zero-valued when Phase 2 was
	// skipped via WithSkipSearch.
	Baseline Measurement
}

// setGroupMode sets every node in grp to mode's (V, T) pair via m.
func setGroupMode(m *power.Model, grp Group, mode params.Mode) error {
	v, _ := params.Operating(mode)
	for _, name := range grp.Nodes {
		if err := m.SetVoltage(name, v); err != nil {
			return err
		}
	}

	return nil
}

// Run executes the full three-phase search over g using m (a power.Model
// already coupled to a Simulator over g) and returns the final per-node
// voltage assignment.
func Run(g *graph.Graph, m *power.Model, opts ...Option) (*Result, error) {
	cfg := config{mode: PerformanceFirst}
	for _, opt := range opts {
		opt(&cfg)
	}

	groups, err := BuildGroups(g)
	if err != nil {
		return nil, err
	}

	var diags []graph.Diagnostic
	var groupModes map[string]params.Mode
	var baseline Measurement

	if cfg.skipRequested {
		groupModes = cfg.preloadedModes
		if err := applyGroupModes(m, groups, groupModes); err != nil {
			return nil, err
		}
	} else {
		groupModes, baseline, diags, err = runPhase2(g, m, groups, cfg.mode)
		if err != nil {
			return nil, err
		}
	}

	phase3Diags, err := runPhase3(g, m, cfg.mode)
	if err != nil {
		return nil, err
	}
	diags = append(diags, phase3Diags...)

	return &Result{
		Groups:      groups,
		GroupModes:  groupModes,
		NodeVoltage: currentVoltages(g),
		Diagnostics: diags,
		Baseline:    baseline,
	}, nil
}

func applyGroupModes(m *power.Model, groups []Group, modes map[string]params.Mode) error {
	for _, grp := range groups {
		mode, ok := modes[grp.Key]
		if !ok {
			continue
		}
		if err := setGroupMode(m, grp, mode); err != nil {
			return err
		}
	}

	return nil
}

func currentVoltages(g *graph.Graph) map[string]float64 {
	out := make(map[string]float64)
	for _, name := range g.AllNodes() {
		if n, err := g.GetNode(name); err == nil {
			out[name] = n.V
		}
	}

	return out
}
