package sim

import "github.com/cornell-brg/uecgra-model/graph"

// maxQueueDepth is the bound on every per-predecessor input queue: both
// real and shadow queues are FIFO, bounded to length 2.
const maxQueueDepth = 2

// tokenQueue is a bounded FIFO of raw token values. Index 0 is the tail
// (oldest, next to pop); the last index is the head (most recently pushed).
type tokenQueue []int64

func (q tokenQueue) hasTail() bool { return len(q) > 0 }

func (q *tokenQueue) push(value int64) {
	if len(*q) >= maxQueueDepth {
		// Callers must check Ready/full state before pushing; this is a
		// defensive clamp, not a path the documented protocol exercises.
		*q = (*q)[1:]
	}
	*q = append(*q, value)
}

func (q *tokenQueue) pop() int64 {
	v := (*q)[0]
	*q = (*q)[1:]

	return v
}

// SimNode wraps a graph.Node with the simulator's per-node mutable state:
// bounded real/shadow input queues keyed by predecessor name, the live-in
// token counter, the pipewait flag, and the node's next scheduled tick time.
type SimNode struct {
	node *graph.Node
	name string

	preds []string // sorted predecessor names, cached at construction
	succs []string // sorted successor names, cached at construction

	queues       map[string]tokenQueue // real input queues, by predecessor
	shadowQueues map[string]tokenQueue // shadow input queues, by predecessor

	tokenCounter int64
	pipewait     bool
	time         float64

	liveIn  bool
	liveOut bool

	// liveOutToken is the single token used by a live-out node in place of
	// an outgoing wire.
	liveOutToken Token
}

func newSimNode(g *graph.Graph, name string) *SimNode {
	preds := g.GetSrcs(name)
	succs := g.GetDsts(name)
	n, _ := g.GetNode(name)

	sn := &SimNode{
		node:         n,
		name:         name,
		preds:        preds,
		succs:        succs,
		queues:       make(map[string]tokenQueue, len(preds)),
		shadowQueues: make(map[string]tokenQueue, len(preds)),
		liveIn:       len(preds) == 0,
		liveOut:      len(succs) == 0,
	}
	for _, p := range preds {
		sn.queues[p] = nil
		sn.shadowQueues[p] = nil
	}

	return sn
}

// resetState clears all transient simulation state for a fresh Reset,
// without touching the cached adjacency (preds/succs never change once a
// Simulator is built).
func (sn *SimNode) resetState() {
	for p := range sn.queues {
		sn.queues[p] = nil
		sn.shadowQueues[p] = nil
	}
	sn.tokenCounter = 1
	sn.pipewait = false
	sn.time = 0
	sn.liveOutToken.DeassertGuard()
}

// ready reports whether this node can currently accept a push from
// predecessor src: false if src's queue is
// full, or has exactly one slot filled and this node's pipewait is set
// while pipelining is disabled.
func (sn *SimNode) ready(src string, pipeliningEnabled bool) bool {
	q := sn.shadowQueues[src]
	switch {
	case len(q) >= maxQueueDepth:
		return false
	case len(q) == 1 && sn.pipewait && !pipeliningEnabled:
		return false
	default:
		return true
	}
}

// push enqueues value into the shadow input queue for predecessor src, then
// fires (writes this node's own outgoing shadow state) if, after the push,
// every shadow input queue has a live tail and src's queue transitioned
// from empty to length 1.
func (sn *SimNode) push(src string, value int64, now float64, fireFn func(value int64, now float64)) {
	q := sn.shadowQueues[src]
	wasEmpty := len(q) == 0
	q.push(value)
	sn.shadowQueues[src] = q

	if !wasEmpty || len(q) != 1 {
		return
	}
	if !sn.allShadowQueuesHaveTail() {
		return
	}

	fireFn(sn.maxShadowTail(), now)
}

func (sn *SimNode) allShadowQueuesHaveTail() bool {
	for _, p := range sn.preds {
		if !sn.shadowQueues[p].hasTail() {
			return false
		}
	}

	return true
}

func (sn *SimNode) allRealQueuesHaveTail() bool {
	for _, p := range sn.preds {
		if !sn.queues[p].hasTail() {
			return false
		}
	}

	return true
}

func (sn *SimNode) maxShadowTail() int64 {
	var max int64
	first := true
	for _, p := range sn.preds {
		q := sn.shadowQueues[p]
		if !q.hasTail() {
			continue
		}
		if first || q[0] > max {
			max = q[0]
			first = false
		}
	}

	return max
}
