package dfgio

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cornell-brg/uecgra-model/params"
)

// Intermediate-artifact stages.
const (
	StagePreNodes   = "pre"
	StageFinalNodes = "final"
)

// IntermediatePath derives one of Autosearch's intermediate-artifact
// filenames from the input DFG path: stage is StagePreNodes or
// StageFinalNodes, ext is "nodes" or "groups", energyFirst selects the
// ".eeff" infix used when Autosearch ran in energy-first mode.
func IntermediatePath(inputPath, stage, ext string, energyFirst bool) string {
	inExt := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, inExt)
	infix := ""
	if energyFirst {
		infix = ".eeff"
	}

	return stem + "." + stage + infix + "." + ext
}

// WriteNodeVoltages writes a per-node voltage map as sorted-key, 4-space
// indented JSON.
func WriteNodeVoltages(path string, voltages map[string]float64) error {
	return writeIndented(path, voltages)
}

// ReadNodeVoltages reads back a per-node voltage map written by
// WriteNodeVoltages.
func ReadNodeVoltages(path string) (map[string]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var voltages map[string]float64
	if err := json.Unmarshal(data, &voltages); err != nil {
		return nil, err
	}

	return voltages, nil
}

// WriteGroupModes writes a per-group DVFS mode map (keyed by
// autosearch.Group.Key) as sorted-key, 4-space indented JSON, with modes
// rendered as their lower-case names.
func WriteGroupModes(path string, modes map[string]params.Mode) error {
	named := make(map[string]string, len(modes))
	for k, m := range modes {
		named[k] = m.String()
	}

	return writeIndented(path, named)
}

// ReadGroupModes reads back a per-group mode map written by
// WriteGroupModes, installed as the skip-search loader for
// autosearch.WithSkipSearch.
func ReadGroupModes(path string) (map[string]params.Mode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var named map[string]string
	if err := json.Unmarshal(data, &named); err != nil {
		return nil, err
	}

	modes := make(map[string]params.Mode, len(named))
	for k, name := range named {
		mode, err := params.ModeByName(name)
		if err != nil {
			return nil, err
		}
		modes[k] = mode
	}

	return modes, nil
}
