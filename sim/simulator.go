package sim

import (
	"container/heap"
	"errors"
	"math"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
)

// ErrNoLiveIn indicates the graph has no live-in node, a programmer error
// since it makes throughput measurement impossible; returned rather than
// panicking so callers building Graphs from untrusted JSON can surface it
// as a configuration error.
var ErrNoLiveIn = errors.New("sim: graph has no live-in node")

// Option configures a Simulator at construction.
type Option func(*Simulator)

// WithPipelining enables a successor to accept a second push from the same
// predecessor in the same logical cycle even while its pipewait flag is
// set. Disabled by default.
func WithPipelining(enabled bool) Option {
	return func(s *Simulator) { s.pipelining = enabled }
}

// Result is the throughput/latency readout of a completed Run.
type Result struct {
	Throughput float64
	Latency    float64
}

// Simulator is the discrete-event token-flow engine. It owns one wireTable
// (the real/shadow token pair per edge) and one SimNode per graph node, and
// drives them through a single priority queue of (time, node) events.
type Simulator struct {
	g     *graph.Graph
	nodes map[string]*SimNode
	order []string // topological order, sinks-first is order reversed
	rank  map[string]int

	wires wireTable
	pq    eventPQ

	globalTime float64
	pipelining bool
}

// New builds a Simulator over g. It computes g's topological order (to
// derive the reverse-topological tiebreak rank) and returns any topology
// Diagnostics (undeclared-cycle breaks) alongside the Simulator. New always
// calls Reset before returning, so the Simulator is immediately runnable.
func New(g *graph.Graph, opts ...Option) (*Simulator, []graph.Diagnostic, error) {
	order, diags, err := g.TopologicalSort()
	if err != nil {
		return nil, diags, err
	}

	rank := make(map[string]int, len(order))
	for i, name := range order {
		rank[name] = len(order) - 1 - i
	}

	nodes := make(map[string]*SimNode, len(order))
	for _, name := range order {
		nodes[name] = newSimNode(g, name)
	}

	if len(g.GetLiveins()) == 0 {
		return nil, diags, ErrNoLiveIn
	}

	s := &Simulator{
		g:     g,
		nodes: nodes,
		order: order,
		rank:  rank,
		wires: newWireTable(g),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reset()

	return s, diags, nil
}

// Reset returns the Simulator to its initial state:
// global time zeroed, every SimNode's queues/counters/pipewait cleared,
// every wire token cleared, recurrence edges seeded with a value-1 token at
// time 0, and every phi node's outgoing wires seeded with one initial
// iteration.
func (s *Simulator) Reset() {
	s.globalTime = 0
	for _, sn := range s.nodes {
		sn.resetState()
	}
	s.wires.resetAll()

	s.pq = make(eventPQ, 0, len(s.order))
	heap.Init(&s.pq)
	for _, name := range s.order {
		heap.Push(&s.pq, &event{time: 0, name: name, rank: s.rank[name]})
	}

	for _, e := range s.g.RecurrenceEdges() {
		w := s.wires.get(e.Src, e.Dst)
		w.Real.GuardedSet(1, 0, 0)
		w.Shadow.GuardedSet(1, 0, 0)
	}

	for _, name := range s.order {
		sn := s.nodes[name]
		if sn.node.OpClass != params.OpPhi {
			continue
		}
		for _, dst := range sn.succs {
			w := s.wires.get(name, dst)
			w.Real.GuardedSet(1, 0, sn.node.T)
			w.Shadow.GuardedSet(1, 0, sn.node.T)
		}
	}
}

// Run advances the Simulator until either the canonical live-in's token
// counter exceeds maxTokens, or global time exceeds maxTime (a timeout,
// reported as a Diagnostic rather than an error). It returns the
// throughput/latency readout of whatever state exists at termination.
func (s *Simulator) Run(maxTokens int64, maxTime float64) (Result, []graph.Diagnostic, error) {
	s.Reset()

	liveIns := s.g.GetLiveins()
	canonical := liveIns[0]

	var diags []graph.Diagnostic
	for s.pq.Len() > 0 {
		ev := heap.Pop(&s.pq).(*event)

		if ev.time > s.globalTime {
			s.wires.advance()
			s.advanceQueues()
			s.clearPipewait()
			s.globalTime = ev.time
		}

		sn := s.nodes[ev.name]
		s.tickNode(sn)

		newTime := sn.time + sn.node.T
		newTime = snapRationalClock(sn.node.T, newTime)
		sn.time = newTime
		heap.Push(&s.pq, &event{time: newTime, name: sn.name, rank: s.rank[sn.name]})

		if s.nodes[canonical].tokenCounter > maxTokens {
			break
		}
		if s.globalTime > maxTime {
			diags = append(diags, graph.Diagnostic{
				Kind:    "timeout",
				Message: "global_time exceeded max_time before max_tokens was reached",
			})

			break
		}
	}

	result := Result{Latency: s.globalTime}
	if s.globalTime > 0 {
		result.Throughput = float64(s.nodes[canonical].tokenCounter) / s.globalTime
	}

	return result, diags, nil
}

// snapRationalClock implements the "rational-clock snap": three consecutive
// sprint ticks (T=0.66) accumulate a 1.98 fractional remainder that should
// land exactly on an integer (the synchronous relation between a 3x sprint
// clock and a 1x nominal clock), so it is rounded rather than left at 1.98.
func snapRationalClock(period, newTime float64) float64 {
	if period != 0.66 {
		return newTime
	}
	frac := newTime - math.Floor(newTime)
	if math.Abs(frac-0.98) < 1e-6 {
		return math.Round(newTime)
	}

	return newTime
}

// advanceQueues copies every SimNode's shadow input queues into its real
// input queues, preserving order.
func (s *Simulator) advanceQueues() {
	for _, sn := range s.nodes {
		for _, p := range sn.preds {
			cp := make(tokenQueue, len(sn.shadowQueues[p]))
			copy(cp, sn.shadowQueues[p])
			sn.queues[p] = cp
		}
	}
}

func (s *Simulator) clearPipewait() {
	for _, sn := range s.nodes {
		sn.pipewait = false
	}
}

// tickNode runs the three sub-phases of a single node's tick: output
// drain, input dequeue, and (for live-ins) production.
func (s *Simulator) tickNode(sn *SimNode) {
	s.drainOutputs(sn)
	if !sn.liveIn {
		s.dequeueInputs(sn)
	}
	if sn.liveIn {
		s.produceLiveIn(sn)
	}
}

// drainOutputs is sub-phase 1 of a tick. For a node with successors, it
// attempts to push every elapsed, armed outgoing real token into the
// corresponding downstream queue. A node with no successors (live-out)
// instead drains its single liveOutToken unconditionally once its guard
// elapses, modeling the implicit, infinite-capacity external SRAM sink.
func (s *Simulator) drainOutputs(sn *SimNode) {
	if len(sn.succs) == 0 {
		if sn.liveOutToken.Ready(s.globalTime) {
			sn.liveOutToken.DeassertGuard()
		}

		return
	}

	for _, dst := range sn.succs {
		w := s.wires.get(sn.name, dst)
		if !w.Real.Ready(s.globalTime) {
			continue
		}

		downstream := s.nodes[dst]
		if !downstream.ready(sn.name, s.pipelining) {
			continue
		}

		value := w.Real.Value
		downstream.push(sn.name, value, s.globalTime, func(v int64, now float64) {
			s.fire(downstream, v, now)
		})

		w.Real.DeassertGuard()
		w.Shadow.DeassertGuard()
		sn.pipewait = true
	}
}

// outputsClear reports whether sn's outgoing side is fully drained: every
// outgoing real wire unarmed, or (for a live-out) the liveOutToken unarmed.
func (s *Simulator) outputsClear(sn *SimNode) bool {
	if len(sn.succs) == 0 {
		return !sn.liveOutToken.Armed
	}
	for _, dst := range sn.succs {
		if s.wires.get(sn.name, dst).Real.Armed {
			return false
		}
	}

	return true
}

// dequeueInputs is sub-phase 2 of a tick. If the node's outputs are
// clear and every input queue has a live tail, it pops one token (real and
// shadow) from each predecessor's queue; if every queue still has a live
// tail afterward, it immediately refires with the max of the popped
// values.
func (s *Simulator) dequeueInputs(sn *SimNode) {
	if !s.outputsClear(sn) {
		return
	}
	if !sn.allRealQueuesHaveTail() {
		return
	}

	var maxVal int64
	first := true
	for _, p := range sn.preds {
		rq := sn.queues[p]
		v := rq.pop()
		sn.queues[p] = rq

		sq := sn.shadowQueues[p]
		sq.pop()
		sn.shadowQueues[p] = sq

		if first || v > maxVal {
			maxVal = v
			first = false
		}
	}

	if sn.allRealQueuesHaveTail() {
		s.fire(sn, maxVal, s.globalTime)
	}
}

// produceLiveIn is sub-phase 3 of a tick: if sn is a live-in and every
// outgoing shadow slot is currently unset, emit a fresh token carrying the
// node's token counter and increment it.
func (s *Simulator) produceLiveIn(sn *SimNode) {
	unset := true
	if len(sn.succs) == 0 {
		unset = !sn.liveOutToken.Armed
	} else {
		for _, dst := range sn.succs {
			if s.wires.get(sn.name, dst).Shadow.Armed {
				unset = false

				break
			}
		}
	}
	if !unset {
		return
	}

	if len(sn.succs) == 0 {
		sn.liveOutToken.GuardedSet(sn.tokenCounter, s.globalTime, sn.node.T)
	} else {
		for _, dst := range sn.succs {
			s.wires.get(sn.name, dst).Shadow.GuardedSet(sn.tokenCounter, s.globalTime, sn.node.T)
		}
	}
	sn.tokenCounter++
}

// fire writes sn's own outgoing shadow state (wires, or the liveOutToken
// if sn has no successors) with value, guarded from now for sn.node.T.
// Called both by an upstream push transitioning a queue empty->1-with-all-
// tails, and by dequeueInputs' immediate refire.
func (s *Simulator) fire(sn *SimNode, value int64, now float64) {
	if len(sn.succs) == 0 {
		sn.liveOutToken.GuardedSet(value, now, sn.node.T)

		return
	}
	for _, dst := range sn.succs {
		s.wires.get(sn.name, dst).Shadow.GuardedSet(value, now, sn.node.T)
	}
}

// GlobalTime returns the simulator's current global time. (power.Model
// reads latency from Run's Result, not from here.)
func (s *Simulator) GlobalTime() float64 { return s.globalTime }

// TokenCounter returns the current token_counter of node name, or 0 if name
// does not exist. Exposed for tests asserting on non-canonical live-ins.
func (s *Simulator) TokenCounter(name string) int64 {
	sn, ok := s.nodes[name]
	if !ok {
		return 0
	}

	return sn.tokenCounter
}
