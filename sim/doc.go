// Package sim implements the discrete-event, token-flow Simulator: a
// priority queue of (node-time, node) events in reverse-topological
// tiebreak order, double-buffered real/shadow wire tokens, bounded 2-slot
// input queues with a pipeline-wait flag, and a reset/run/throughput
// lifecycle.
//
// Grounded on: katalvlaran-lvlath/dijkstra/dijkstra.go's container/heap
// "lazy decrease-key" priority queue (renamed here to order by (time, rank)
// instead of distance) and katalvlaran-lvlath/dfs/topological.go's
// functional-option shape for configuring a simulator (WithCancelContext
// there, WithPipelining here). The event-loop/tick
// structure itself has no direct analogue inside lvlath (which has no
// discrete-event engine); its "pop an event, advance clock, re-tick" shape
// instead follows the generic discrete-event pattern shown by the pack's
// other_examples eventloop files (joeycumines-go-utilpkg/eventloop), adapted
// to this model's specific three-subphase tick (drain/dequeue/produce) and
// double-buffer copy rule.
package sim
