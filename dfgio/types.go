package dfgio

import "errors"

// Configuration-error sentinels: all fatal, all abort construction with a
// message identifying the offending record.
var (
	// ErrInvalidDirection indicates a direction field outside {N, E, S, W,
	// self}.
	ErrInvalidDirection = errors.New("dfgio: invalid direction")

	// ErrMissingBranchFields indicates a br-op tile record lacking
	// src_data/src_bool/dst_true/dst_false.
	ErrMissingBranchFields = errors.New("dfgio: branch record missing required fields")
)

// Direction is a neighbor-tile compass direction, or "self" for an
// intra-tile edge.
type Direction string

const (
	North Direction = "N"
	East  Direction = "E"
	South Direction = "S"
	West  Direction = "W"
	Self  Direction = "self"
)

func (d Direction) valid() bool {
	switch d {
	case North, East, South, West, Self:
		return true
	default:
		return false
	}
}

// delta returns the (dx, dy) grid offset for a compass direction. North
// decreases y, matching the row-major (x, y) grid convention the rest of
// this package uses; Self has no offset.
func (d Direction) delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case South:
		return 0, 1
	case East:
		return 1, 0
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// TileRecord is one entry of the DFG configuration JSON array. Singular
// fields (src_a, src_b, src_data, src_bool, dst_true, dst_false) are
// exactly one direction; the remaining connectivity fields are lists,
// since a tile may fan out to more than one neighbor.
type TileRecord struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Op   string `json:"op"`
	DVFS string `json:"dvfs"`

	SrcA *Direction  `json:"src_a,omitempty"`
	SrcB *Direction  `json:"src_b,omitempty"`
	Dst  []Direction `json:"dst,omitempty"`

	SrcData  *Direction `json:"src_data,omitempty"`
	SrcBool  *Direction `json:"src_bool,omitempty"`
	DstTrue  *Direction `json:"dst_true,omitempty"`
	DstFalse *Direction `json:"dst_false,omitempty"`

	BpsSrc    []Direction `json:"bps_src,omitempty"`
	BpsDst    []Direction `json:"bps_dst,omitempty"`
	BpsAltSrc []Direction `json:"bps_alt_src,omitempty"`
	BpsAltDst []Direction `json:"bps_alt_dst,omitempty"`
}
