// Package autosearch implements a three-phase DVFS mapping search:
// grouping (Phase 1), a greedy energy-delay group search (Phase 2), and a
// physical tile co-location pass (Phase 3).
//
// The search mutates graph.Node.V/T in place between simulator runs via
// power.Model, following katalvlaran-lvlath's functional-option
// constructor idiom (Option/WithXxx) and sentinel-error style. No part of
// this package deep-copies the Graph: Phase 2/3 undo a trial by setting the
// affected nodes back to a mode voltage, and VoltageSnapshot (see
// snapshot.go) offers a separate name -> V snapshot/restore.
package autosearch
