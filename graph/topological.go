package graph

import (
	"errors"
	"fmt"
	"sort"
)

// ErrTopoSortDidNotTerminate is returned when TopologicalSort's iteration
// bound is exceeded: a hard backstop against the possible non-termination
// risk in the arbitrary-edge-break path below.
var ErrTopoSortDidNotTerminate = errors.New("graph: topological sort did not terminate within the iteration bound")

// Diagnostic is a non-fatal event surfaced by a graph or simulator
// operation: a topology warning, a timeout, or similar. Diagnostics are
// returned to the caller rather than logged from inside library code, so
// tests can assert on them and a CLI can render them.
type Diagnostic struct {
	// Kind categorizes the diagnostic, e.g. "cycle-break", "timeout".
	Kind string
	// Message is a human-readable description, already including any
	// offending node/edge names.
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// TopologicalSort computes a linear ordering of every node such that for
// every non-recurrence edge (u -> v), u precedes v.
//
// It is a Kahn-style sort on a working copy of predecessor lists with
// recurrence edges pre-removed. If at any iteration the
// ready frontier (nodes with no remaining unprocessed predecessor) is empty
// while nodes remain -- an undeclared cycle -- the algorithm arbitrarily
// breaks one remaining incoming edge of the lexicographically last
// unprocessed node's lexicographically last remaining predecessor, emits a
// Diagnostic, and continues. Iteration over the frontier is always in
// sorted order, so the break is deterministic for a fixed graph.
//
// Complexity: O(V^2) in the common (acyclic-after-recurrence-removal)
// case, since every iteration rescans all V nodes for the frontier; each
// arbitrary edge break adds one more O(V) iteration.
func (g *Graph) TopologicalSort() ([]string, []Diagnostic, error) {
	names := g.AllNodes()

	// remaining[x] = set of not-yet-emitted predecessors of x, with
	// recurrence edges never added in the first place.
	remaining := make(map[string]map[string]struct{}, len(names))
	recur := make(map[Edge]bool, len(g.recurrence))
	for _, e := range g.RecurrenceEdges() {
		recur[e] = true
	}
	edges := 0
	for _, x := range names {
		preds := make(map[string]struct{})
		for _, p := range g.GetSrcs(x) {
			if recur[Edge{Src: p, Dst: x}] {
				continue
			}
			preds[p] = struct{}{}
		}
		remaining[x] = preds
		edges += len(preds)
	}

	emitted := make(map[string]bool, len(names))
	order := make([]string, 0, len(names))
	var diags []Diagnostic

	// Every iteration either emits at least one node or breaks one edge.
	maxIterations := len(names) + edges + 1
	for iteration := 0; len(order) < len(names); iteration++ {
		if iteration > maxIterations {
			return nil, diags, ErrTopoSortDidNotTerminate
		}

		frontier := readyFrontier(names, remaining, emitted)
		if len(frontier) == 0 {
			msg, broke := breakOneEdge(names, remaining, emitted)
			if !broke {
				// No remaining node has any predecessor left to break --
				// this can only happen if every node was already emitted,
				// which the outer loop condition already excludes.
				return nil, diags, ErrTopoSortDidNotTerminate
			}
			diags = append(diags, Diagnostic{Kind: "cycle-break", Message: msg})

			continue
		}

		for _, x := range frontier {
			emitted[x] = true
			order = append(order, x)
		}
		for x, preds := range remaining {
			if emitted[x] {
				continue
			}
			for _, done := range frontier {
				delete(preds, done)
			}
		}
	}

	return order, diags, nil
}

// readyFrontier returns, in sorted order, every not-yet-emitted node with no
// remaining predecessors.
func readyFrontier(names []string, remaining map[string]map[string]struct{}, emitted map[string]bool) []string {
	var frontier []string
	for _, x := range names {
		if emitted[x] {
			continue
		}
		if len(remaining[x]) == 0 {
			frontier = append(frontier, x)
		}
	}

	return frontier
}

// breakOneEdge finds the lexicographically last unprocessed node that still
// has remaining predecessors and drops its lexicographically last remaining
// predecessor, returning a description of the break. Reports false if no
// such node exists.
func breakOneEdge(names []string, remaining map[string]map[string]struct{}, emitted map[string]bool) (string, bool) {
	for i := len(names) - 1; i >= 0; i-- {
		x := names[i]
		if emitted[x] || len(remaining[x]) == 0 {
			continue
		}

		preds := make([]string, 0, len(remaining[x]))
		for p := range remaining[x] {
			preds = append(preds, p)
		}
		sort.Strings(preds)
		last := preds[len(preds)-1]
		delete(remaining[x], last)

		return fmt.Sprintf("undeclared cycle: broke edge %s -> %s", last, x), true
	}

	return "", false
}
