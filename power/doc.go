// Package power implements a closed-form static/dynamic power and energy
// model: a first-order quadratic frequency curve and a set of per-op-class
// dynamic-power weights, aggregated per tile and per SRAM.
//
// Grounded on other_examples' roofline-style analytical power model (named
// calibration constants, per-phase equations, no iterative solve) and on
// katalvlaran-lvlath's doc-comment style ("Complexity:" lines, sentinel
// errors). The Model holds a single Simulator reference rather than
// re-deriving throughput from scratch on every read.
package power
