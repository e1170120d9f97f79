package dfgio

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/cornell-brg/uecgra-model/params"
)

// DefaultDVFSSuffix is the default output-filename suffix: input file stem
// plus a configurable suffix, "_dvfs" unless overridden.
const DefaultDVFSSuffix = "_dvfs"

// OutputPath derives the DVFS output filename from inputPath by inserting
// suffix before the file extension.
func OutputPath(inputPath, suffix string) string {
	ext := filepath.Ext(inputPath)
	stem := strings.TrimSuffix(inputPath, ext)

	return stem + suffix + ext
}

// WriteDVFS writes records back out with each tile's dvfs field replaced by
// the DVFS mode its node's final voltage maps to. nodeVoltage is keyed by
// tileName(x, y); a tile with no entry (e.g. one dropped during Autosearch
// group merging never happens in practice, since every original tile keeps
// its own node) is left with its original dvfs value.
func WriteDVFS(records []TileRecord, nodeVoltage map[string]float64, path string) error {
	out := make([]TileRecord, len(records))
	for i, rec := range records {
		name := tileName(rec.X, rec.Y)
		if v, ok := nodeVoltage[name]; ok {
			rec.DVFS = params.ModeForVoltage(v).String()
		}
		out[i] = rec
	}

	return writeIndented(path, out)
}

// writeIndented marshals v with 4-space indentation for diff stability.
// Map-typed values are already emitted in sorted-key order by
// encoding/json; struct fields keep their declared (also deterministic)
// order.
func writeIndented(path string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return err
	}

	return os.WriteFile(path, buf.Bytes(), 0o644)
}
