package dfgio

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cornell-brg/uecgra-model/graph"
	"github.com/cornell-brg/uecgra-model/params"
)

// LoadDFGFile decodes the DFG configuration JSON at path and builds a Graph
// from it. It returns the decoded records alongside the Graph so a caller
// (cmd/uecgra's dvfs-dump command) can later rewrite them with an updated
// dvfs field without re-deriving the original JSON shape.
func LoadDFGFile(path string) ([]TileRecord, *graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dfgio: reading %s: %w", path, err)
	}

	var records []TileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil, fmt.Errorf("dfgio: decoding %s: %w", path, err)
	}

	g, err := ReadDFG(records)
	if err != nil {
		return nil, nil, err
	}

	return records, g, nil
}

// coord is a grid position key.
type coord struct{ x, y int }

// ReadDFG builds a graph.Graph from a decoded DFG configuration array.
// Every configuration error (duplicate coordinate, unknown op, unknown
// DVFS selector, invalid direction, or a branch record missing its
// required fields) aborts construction and names the offending tile.
func ReadDFG(records []TileRecord) (*graph.Graph, error) {
	g := graph.NewGraph()
	grid := make(map[coord]string, len(records))

	for _, rec := range records {
		c := coord{rec.X, rec.Y}
		name := tileName(rec.X, rec.Y)
		if _, exists := grid[c]; exists {
			return nil, fmt.Errorf("dfgio: duplicate tile at (%d,%d): %w", rec.X, rec.Y, graph.ErrDuplicateNode)
		}
		grid[c] = name

		class, err := params.OpClassForString(rec.Op)
		if err != nil {
			return nil, fmt.Errorf("dfgio: tile %s: %w", name, err)
		}
		mode, err := params.ModeByName(rec.DVFS)
		if err != nil {
			return nil, fmt.Errorf("dfgio: tile %s: %w", name, err)
		}
		v, t := params.Operating(mode)

		if _, err := g.AddNode(name, class, v, t); err != nil {
			return nil, fmt.Errorf("dfgio: tile %s: %w", name, err)
		}

		if class == params.OpBr {
			if rec.SrcData == nil || rec.SrcBool == nil || rec.DstTrue == nil || rec.DstFalse == nil {
				return nil, fmt.Errorf("dfgio: tile %s: %w", name, ErrMissingBranchFields)
			}
		}
	}

	for _, rec := range records {
		if err := wireTile(g, grid, rec); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func tileName(x, y int) string {
	return fmt.Sprintf("t%d_%d", x, y)
}

// wireTile connects one tile record's edges, synthesizing _ld_sram/_st_sram
// nodes for out-of-grid endpoints and dedicated _byp/_bypalt nodes for
// bypass paths.
func wireTile(g *graph.Graph, grid map[coord]string, rec TileRecord) error {
	name := tileName(rec.X, rec.Y)
	class, err := params.OpClassForString(rec.Op)
	if err != nil {
		return fmt.Errorf("dfgio: tile %s: %w", name, err)
	}
	mode, err := params.ModeByName(rec.DVFS)
	if err != nil {
		return fmt.Errorf("dfgio: tile %s: %w", name, err)
	}
	v, t := params.Operating(mode)

	if class == params.OpBr {
		if err := connectIn(g, grid, rec, name, v, t, *rec.SrcData, "data"); err != nil {
			return err
		}
		if err := connectIn(g, grid, rec, name, v, t, *rec.SrcBool, "bool"); err != nil {
			return err
		}
		if err := connectOut(g, grid, rec, name, v, t, *rec.DstTrue, "true"); err != nil {
			return err
		}
		if err := connectOut(g, grid, rec, name, v, t, *rec.DstFalse, "false"); err != nil {
			return err
		}
	} else {
		if rec.SrcA != nil {
			if err := connectIn(g, grid, rec, name, v, t, *rec.SrcA, "a"); err != nil {
				return err
			}
		}
		if rec.SrcB != nil {
			if err := connectIn(g, grid, rec, name, v, t, *rec.SrcB, "b"); err != nil {
				return err
			}
		}
		for i, d := range rec.Dst {
			if err := connectOut(g, grid, rec, name, v, t, d, fmt.Sprintf("%d", i)); err != nil {
				return err
			}
		}
	}

	if err := wireBypass(g, grid, rec, name+"_byp", v, t, rec.BpsSrc, rec.BpsDst); err != nil {
		return err
	}
	if err := wireBypass(g, grid, rec, name+"_bypalt", v, t, rec.BpsAltSrc, rec.BpsAltDst); err != nil {
		return err
	}

	return nil
}

// connectIn wires neighbor(dir) -> name, synthesizing a per-direction
// _ld_sram node if dir points off-grid.
func connectIn(g *graph.Graph, grid map[coord]string, rec TileRecord, name string, v, t float64, dir Direction, tag string) error {
	if !dir.valid() {
		return fmt.Errorf("dfgio: tile %s: %w", name, ErrInvalidDirection)
	}
	if dir == Self {
		return nil
	}

	src, err := neighborOrSRAM(g, grid, rec, name, v, t, dir, "ld", tag)
	if err != nil {
		return err
	}

	return g.Connect(src, name, false)
}

// connectOut wires name -> neighbor(dir), synthesizing a per-direction
// _st_sram node if dir points off-grid.
func connectOut(g *graph.Graph, grid map[coord]string, rec TileRecord, name string, v, t float64, dir Direction, tag string) error {
	if !dir.valid() {
		return fmt.Errorf("dfgio: tile %s: %w", name, ErrInvalidDirection)
	}
	if dir == Self {
		return nil
	}

	dst, err := neighborOrSRAM(g, grid, rec, name, v, t, dir, "st", tag)
	if err != nil {
		return err
	}

	return g.Connect(name, dst, false)
}

// neighborOrSRAM resolves dir from rec's coordinate to an existing
// neighbor tile's node name, or lazily creates and returns a uniquely
// named <name>_<kind>_sram_<tag> node if the neighbor is off-grid.
func neighborOrSRAM(g *graph.Graph, grid map[coord]string, rec TileRecord, name string, v, t float64, dir Direction, kind, tag string) (string, error) {
	dx, dy := dir.delta()
	neighbor := coord{rec.X + dx, rec.Y + dy}
	if nname, ok := grid[neighbor]; ok {
		return nname, nil
	}

	sramName := fmt.Sprintf("%s_%s_sram_%s", name, kind, strings.ToLower(tag))
	if _, err := g.GetNode(sramName); err == nil {
		return sramName, nil
	}
	if _, err := g.AddNode(sramName, params.OpSram, v, t); err != nil {
		return "", fmt.Errorf("dfgio: tile %s: %w", name, err)
	}

	return sramName, nil
}

// wireBypass materializes a <node> node (named byp or bypalt depending on
// caller) only if it has at least one bypass connection, wiring each
// direction in srcs to it and it to each direction in dsts.
func wireBypass(g *graph.Graph, grid map[coord]string, rec TileRecord, bypName string, v, t float64, srcs, dsts []Direction) error {
	if len(srcs) == 0 && len(dsts) == 0 {
		return nil
	}

	if _, err := g.GetNode(bypName); err != nil {
		if _, err := g.AddNode(bypName, params.OpByp, v, t); err != nil {
			return fmt.Errorf("dfgio: node %s: %w", bypName, err)
		}
	}

	for i, d := range srcs {
		if !d.valid() {
			return fmt.Errorf("dfgio: node %s: %w", bypName, ErrInvalidDirection)
		}
		if d == Self {
			continue
		}
		src, err := neighborOrSRAM(g, grid, rec, bypName, v, t, d, "ld", fmt.Sprintf("%d", i))
		if err != nil {
			return err
		}
		if err := g.Connect(src, bypName, false); err != nil {
			return err
		}
	}

	for i, d := range dsts {
		if !d.valid() {
			return fmt.Errorf("dfgio: node %s: %w", bypName, ErrInvalidDirection)
		}
		if d == Self {
			continue
		}
		dst, err := neighborOrSRAM(g, grid, rec, bypName, v, t, d, "st", fmt.Sprintf("%d", i))
		if err != nil {
			return err
		}
		if err := g.Connect(bypName, dst, false); err != nil {
			return err
		}
	}

	return nil
}
