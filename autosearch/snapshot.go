package autosearch

import "github.com/cornell-brg/uecgra-model/graph"

// VoltageSnapshot is a plain name -> V mapping, the "snapshot -> restore"
// primitive used in place of deep-copying the Graph.
type VoltageSnapshot map[string]float64

// Snapshot captures the current V of every node in g.
func Snapshot(g *graph.Graph) VoltageSnapshot {
	names := g.AllNodes()
	snap := make(VoltageSnapshot, len(names))
	for _, name := range names {
		if n, err := g.GetNode(name); err == nil {
			snap[name] = n.V
		}
	}

	return snap
}

// Restore resets every node named in snap back to its captured V (and,
// through Node.SetVT, its paired T). Nodes not present in snap are left
// untouched.
func Restore(g *graph.Graph, snap VoltageSnapshot) {
	for name, v := range snap {
		if n, err := g.GetNode(name); err == nil {
			_ = n.SetVT(v, true)
		}
	}
}
