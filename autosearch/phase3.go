package autosearch

import (
	"sort"
	"strings"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/power"
)

// edTolerance is the 1% energy-delay-product tolerance Phase 3 uses when
// choosing among near-tied candidate voltages.
const edTolerance = 0.01

// tilePrefix strips a synthesized bypass-node suffix, mapping a node name
// back to the physical tile it shares with its `_byp`/`_bypalt` siblings.
func tilePrefix(name string) string {
	switch {
	case strings.HasSuffix(name, "_bypalt"):
		return strings.TrimSuffix(name, "_bypalt")
	case strings.HasSuffix(name, "_byp"):
		return strings.TrimSuffix(name, "_byp")
	default:
		return name
	}
}

func groupByTile(g *graph.Graph) map[string][]string {
	tiles := make(map[string][]string)
	for _, name := range g.AllNodes() {
		tile := tilePrefix(name)
		tiles[tile] = append(tiles[tile], name)
	}

	return tiles
}

func shareVoltage(g *graph.Graph, names []string) bool {
	var v float64
	for i, name := range names {
		n, err := g.GetNode(name)
		if err != nil {
			continue
		}
		if i == 0 {
			v = n.V
			continue
		}
		if n.V != v {
			return false
		}
	}

	return true
}

// candidateVoltages enumerates the Phase 3 candidate set for one tile,
// given its members' current voltages and the active search mode.
// Ascending order, so "prefer the highest V" among near-tied candidates is
// simply "prefer the later entry".
func candidateVoltages(g *graph.Graph, names []string, mode SearchMode) []float64 {
	if mode == EnergyFirst {
		return []float64{0.61, 0.90}
	}

	anyBelowRest := false
	allBelowNominal := true
	for _, name := range names {
		n, err := g.GetNode(name)
		if err != nil {
			continue
		}
		if n.V < 0.65 {
			anyBelowRest = true
		}
		if n.V >= 0.95 {
			allBelowNominal = false
		}
	}

	var out []float64
	if anyBelowRest {
		out = append(out, 0.61)
	}
	if allBelowNominal {
		out = append(out, 0.90)

		return out
	}
	out = append(out, 0.90, 1.23)

	return out
}

// runPhase3 re-imposes the physical tile co-location constraint: every
// node sharing a tile prefix must end up at the same voltage.
func runPhase3(g *graph.Graph, m *power.Model, mode SearchMode) ([]graph.Diagnostic, error) {
	tiles := groupByTile(g)
	tileNames := make([]string, 0, len(tiles))
	for tile := range tiles {
		tileNames = append(tileNames, tile)
	}
	sort.Strings(tileNames)

	accepted, diags, err := measure(m)
	if err != nil {
		return diags, err
	}

	for _, tile := range tileNames {
		members := tiles[tile]
		if len(members) <= 1 || shareVoltage(g, members) {
			continue
		}

		candidates := candidateVoltages(g, members, mode)
		ratios := make([]float64, len(candidates))
		measurements := make([]Measurement, len(candidates))

		for i, v := range candidates {
			if err := setTileVoltage(m, members, v); err != nil {
				return diags, err
			}
			candidate, stepDiags, err := measure(m)
			diags = append(diags, stepDiags...)
			if err != nil {
				return diags, err
			}
			measurements[i] = candidate
			ratios[i] = compare(accepted, candidate)
		}

		// Prefer the highest voltage among candidates within edTolerance of
		// the best ED ratio: iterate from the top voltage down and stop at
		// the first one that still qualifies.
		best := bestRatio(ratios)
		chosen := len(candidates) - 1
		for i := len(candidates) - 1; i >= 0; i-- {
			if ratios[i] >= best*(1-edTolerance) {
				chosen = i

				break
			}
		}

		if err := setTileVoltage(m, members, candidates[chosen]); err != nil {
			return diags, err
		}
		accepted = measurements[chosen]

		diags = append(diags, graph.Diagnostic{
			Kind:    "colocate",
			Message: "tile " + tile + " nodes reassigned a shared voltage in Phase 3",
		})
	}

	return diags, nil
}

func bestRatio(ratios []float64) float64 {
	best := ratios[0]
	for _, r := range ratios[1:] {
		if r > best {
			best = r
		}
	}

	return best
}

func setTileVoltage(m *power.Model, names []string, v float64) error {
	for _, name := range names {
		if err := m.SetVoltage(name, v); err != nil {
			return err
		}
	}

	return nil
}
