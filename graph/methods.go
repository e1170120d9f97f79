package graph

import (
	"sort"

	"github.com/cornell-brg/uecgra-model/params"
)

// AddNode registers a new Node under name with the given op-class and
// operating point. Returns ErrEmptyName or ErrDuplicateNode.
//
// Complexity: O(1).
func (g *Graph) AddNode(name string, class params.OpClass, v, t float64) (*Node, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	g.muNodes.Lock()
	defer g.muNodes.Unlock()

	if _, exists := g.nodes[name]; exists {
		return nil, ErrDuplicateNode
	}

	n := &Node{Name: name, OpClass: class, V: v, T: t, g: g}
	g.nodes[name] = n

	g.muAdj.Lock()
	if g.srcs[name] == nil {
		g.srcs[name] = make(map[string]struct{})
	}
	if g.dsts[name] == nil {
		g.dsts[name] = make(map[string]struct{})
	}
	g.muAdj.Unlock()

	return n, nil
}

// GetNode returns the node named name, or ErrNodeNotFound.
//
// Complexity: O(1).
func (g *Graph) GetNode(name string) (*Node, error) {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	n, ok := g.nodes[name]
	if !ok {
		return nil, ErrNodeNotFound
	}

	return n, nil
}

// DeleteNode removes a node and every edge incident to it. Returns
// ErrNodeNotFound if absent.
//
// Complexity: O(deg(name)).
func (g *Graph) DeleteNode(name string) error {
	g.muNodes.Lock()
	defer g.muNodes.Unlock()
	g.muAdj.Lock()
	defer g.muAdj.Unlock()

	if _, ok := g.nodes[name]; !ok {
		return ErrNodeNotFound
	}

	for succ := range g.dsts[name] {
		delete(g.srcs[succ], name)
	}
	for pred := range g.srcs[name] {
		delete(g.dsts[pred], name)
	}
	delete(g.srcs, name)
	delete(g.dsts, name)
	delete(g.nodes, name)

	filtered := g.recurrence[:0]
	for _, e := range g.recurrence {
		if e.Src == name || e.Dst == name {
			delete(g.isRecur, e)
			continue
		}
		filtered = append(filtered, e)
	}
	g.recurrence = filtered

	return nil
}

// AllNodes returns every node name in lexicographic ascending order, for
// deterministic iteration.
//
// Complexity: O(V log V).
func (g *Graph) AllNodes() []string {
	g.muNodes.RLock()
	defer g.muNodes.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Connect adds a directed edge src -> dst, optionally flagged as a
// recurrence edge. Both endpoints must already exist. Duplicate calls for
// the same (src, dst) collapse into a single adjacency entry, matching
// core.Graph's multi-edge collapsing. Connecting a node to
// itself returns ErrSelfEdge: the simulator has no firing rule for a node
// that waits on its own output.
//
// Complexity: O(1).
func (g *Graph) Connect(src, dst string, recurrence bool) error {
	if src == dst {
		return ErrSelfEdge
	}

	if _, err := g.GetNode(src); err != nil {
		return err
	}
	if _, err := g.GetNode(dst); err != nil {
		return err
	}

	g.muAdj.Lock()
	defer g.muAdj.Unlock()

	if g.dsts[src] == nil {
		g.dsts[src] = make(map[string]struct{})
	}
	if g.srcs[dst] == nil {
		g.srcs[dst] = make(map[string]struct{})
	}
	g.dsts[src][dst] = struct{}{}
	g.srcs[dst][src] = struct{}{}

	e := Edge{Src: src, Dst: dst}
	if recurrence && !g.isRecur[e] {
		g.isRecur[e] = true
		g.recurrence = append(g.recurrence, e)
	}

	return nil
}

// Disconnect removes the directed edge src -> dst, including its
// recurrence flag if set. A missing edge is a silent no-op, matching
// core.Graph's idempotent removal style.
//
// Complexity: O(1) amortized (O(len(recurrence)) if the edge was a
// recurrence edge, to preserve the ordered recurrence slice).
func (g *Graph) Disconnect(src, dst string) {
	g.muAdj.Lock()
	defer g.muAdj.Unlock()

	delete(g.dsts[src], dst)
	delete(g.srcs[dst], src)

	e := Edge{Src: src, Dst: dst}
	if g.isRecur[e] {
		delete(g.isRecur, e)
		for i, re := range g.recurrence {
			if re == e {
				g.recurrence = append(g.recurrence[:i], g.recurrence[i+1:]...)
				break
			}
		}
	}
}

// GetSrcs returns the predecessor names of name in lexicographic order.
//
// Complexity: O(deg log deg).
func (g *Graph) GetSrcs(name string) []string {
	return g.sortedAdjSet(g.srcs, name)
}

// GetDsts returns the successor names of name in lexicographic order.
//
// Complexity: O(deg log deg).
func (g *Graph) GetDsts(name string) []string {
	return g.sortedAdjSet(g.dsts, name)
}

func (g *Graph) sortedAdjSet(adj map[string]map[string]struct{}, name string) []string {
	g.muAdj.RLock()
	defer g.muAdj.RUnlock()

	set := adj[name]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}

// GetLiveins returns every node with no predecessors, in lexicographic
// order: each live-in is assumed fed by an implicit SRAM source.
//
// Complexity: O(V).
func (g *Graph) GetLiveins() []string {
	return g.filterNodes(func(name string) bool { return len(g.GetSrcs(name)) == 0 })
}

// GetLiveouts returns every node with no successors, in lexicographic order.
//
// Complexity: O(V).
func (g *Graph) GetLiveouts() []string {
	return g.filterNodes(func(name string) bool { return len(g.GetDsts(name)) == 0 })
}

func (g *Graph) filterNodes(keep func(string) bool) []string {
	names := g.AllNodes()
	out := make([]string, 0, len(names))
	for _, n := range names {
		if keep(n) {
			out = append(out, n)
		}
	}

	return out
}

// RecurrenceEdges returns the declared recurrence edges in insertion order.
// Simulator.Reset relies on this exact order being stable across calls.
//
// Complexity: O(R).
func (g *Graph) RecurrenceEdges() []Edge {
	g.muAdj.RLock()
	defer g.muAdj.RUnlock()

	out := make([]Edge, len(g.recurrence))
	copy(out, g.recurrence)

	return out
}

// IsRecurrence reports whether (src, dst) was flagged as a recurrence edge.
func (g *Graph) IsRecurrence(src, dst string) bool {
	g.muAdj.RLock()
	defer g.muAdj.RUnlock()

	return g.isRecur[Edge{Src: src, Dst: dst}]
}
