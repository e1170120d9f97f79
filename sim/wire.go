package sim

import "github.com/cornell-brg/uecgra-model/graph"

// EdgeState is the double-buffered token pair owned by exactly one directed
// edge: Real is what nodes read, Shadow is what nodes
// write during a tick. The global scheduling loop copies Shadow into Real
// whenever popped-event time exceeds the current global time.
type EdgeState struct {
	Real   Token
	Shadow Token
}

// wireTable indexes one EdgeState per directed edge in a Graph.
type wireTable map[graph.Edge]*EdgeState

func newWireTable(g *graph.Graph) wireTable {
	wt := make(wireTable)
	for _, src := range g.AllNodes() {
		for _, dst := range g.GetDsts(src) {
			wt[graph.Edge{Src: src, Dst: dst}] = &EdgeState{}
		}
	}

	return wt
}

func (wt wireTable) get(src, dst string) *EdgeState {
	return wt[graph.Edge{Src: src, Dst: dst}]
}

// resetAll clears every wire's real and shadow tokens to the empty state.
func (wt wireTable) resetAll() {
	for _, e := range wt {
		e.Real.DeassertGuard()
		e.Shadow.DeassertGuard()
	}
}

// advance performs the atomic shadow -> real copy the scheduling loop runs
// once per wire whenever the popped event's time exceeds global_time.
func (wt wireTable) advance() {
	for _, e := range wt {
		e.Real.Copy(e.Shadow)
	}
}
