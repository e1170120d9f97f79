// Package graph implements the directed multi-graph of Nodes that the rest
// of this module simulates and optimizes: named compute/SRAM nodes, an
// op-class and (V, T) operating point per node, forward/reverse adjacency,
// a flagged subset of recurrence (back-)edges, and a deterministic
// cycle-breaking topological sort.
//
// Grounded on: katalvlaran-lvlath/core/types.go (split sync.RWMutex guarding
// vertex catalogue vs. edge/adjacency state, functional GraphOption/EdgeOption
// constructors, sentinel errors) and katalvlaran-lvlath/core/methods_vertices.go
// (deterministic sorted-ID enumeration surfaces). The topological sort is
// grounded on katalvlaran-lvlath/dfs/topological.go's option/error shape, but
// uses Kahn's algorithm (frontier-queue, predecessor-count) rather than DFS
// post-order, because this package requires breaking an arbitrary remaining
// edge when the frontier goes empty before every node is emitted -- a
// DFS-based sort has no natural "frontier" to prune from mid-traversal.
package graph
