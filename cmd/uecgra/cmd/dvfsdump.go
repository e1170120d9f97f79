package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cornell-brg/uecgra-model/dfgio"
)

// dvfsDumpCmd rewrites an already-searched DFG JSON with the dvfs labels
// from a previously written final-voltage intermediate, without re-running
// the simulator or the search. When the DFG JSON is missing, the dump is
// logged as a warning and skipped rather than treated as an error, since
// this command's whole job is rewriting that one file.
var dvfsDumpCmd = &cobra.Command{
	Use:   "dvfs-dump <dfg.json> <final.nodes>",
	Short: "Rewrite a DFG JSON's dvfs fields from a final per-node voltage map",
	Args:  cobra.ExactArgs(2),
	RunE:  runDVFSDump,
}

func init() {
	rootCmd.AddCommand(dvfsDumpCmd)
}

func runDVFSDump(cmd *cobra.Command, args []string) error {
	dfgPath, nodesPath := args[0], args[1]

	if _, err := os.Stat(dfgPath); err != nil {
		log.Printf("warning: DFG JSON %s not found, skipping DVFS dump", dfgPath)

		return nil
	}

	records, _, err := dfgio.LoadDFGFile(dfgPath)
	if err != nil {
		return err
	}

	voltages, err := dfgio.ReadNodeVoltages(nodesPath)
	if err != nil {
		return err
	}

	out := dfgio.OutputPath(dfgPath, viper.GetString("suffix"))
	if err := dfgio.WriteDVFS(records, voltages, out); err != nil {
		return err
	}

	fmt.Printf("wrote %s\n", out)

	return nil
}
