package sim

import "container/heap"

// event is one (node-time, node) entry in the global scheduling queue.
// rank is the node's precomputed reverse-topological order index, used as
// a deterministic tiebreak among events scheduled at the same time.
type event struct {
	time float64
	name string
	rank int
}

// eventPQ is a min-heap of *event ordered by (time, rank) ascending,
// grounded on katalvlaran-lvlath/dijkstra/dijkstra.go's nodePQ: a plain
// container/heap.Interface slice, pushed/popped by value comparison rather
// than a lazy decrease-key (events are never decreased in place; each node
// is reinserted fresh after every tick).
type eventPQ []*event

func (pq eventPQ) Len() int { return len(pq) }

func (pq eventPQ) Less(i, j int) bool {
	if pq[i].time != pq[j].time {
		return pq[i].time < pq[j].time
	}

	return pq[i].rank < pq[j].rank
}

func (pq eventPQ) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *eventPQ) Push(x interface{}) { *pq = append(*pq, x.(*event)) }

func (pq *eventPQ) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]

	return item
}

var _ = heap.Interface(&eventPQ{})
