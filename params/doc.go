// Package params holds the design-time constants shared by every other
// package in this module: the three DVFS operating points, the op-class
// lookup used to classify a tile's configured operation, and the
// first-order power-model coefficients consumed by package power.
//
// Grounded on: katalvlaran-lvlath/dijkstra/types.go (sentinel-free constant
// catalogue with a doc-comment table per constant group) and
// katalvlaran-lvlath/builder/constants.go (grouped named constants with a
// short "what it means" comment per line rather than one comment per
// constant).
package params
