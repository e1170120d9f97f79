// Package dfgio is the external-interfaces layer: it builds a graph.Graph
// from tile-level DFG configuration JSON (including bypass-path lowering
// and implicit SRAM synthesis), writes the final DVFS assignment back out
// as a parallel JSON array, and reads/writes the Autosearch Phase 2/3
// intermediate artifacts.
//
// Grounded on junjiewwang-perf-analysis's generic writer.JSONWriter[T]
// (encoding/json with SetIndent for diff-stable output) for the encoder
// side, and on katalvlaran-lvlath's sentinel-error style for configuration
// error reporting.
package dfgio
