package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cornell-brg/uecgra-model/autosearch"
	"github.com/cornell-brg/uecgra-model/dfgio"
	"github.com/cornell-brg/uecgra-model/params"
	"github.com/cornell-brg/uecgra-model/power"
	"github.com/cornell-brg/uecgra-model/sim"
)

var autosearchCmd = &cobra.Command{
	Use:   "autosearch <dfg.json>",
	Short: "Run the three-phase DVFS mapping search and write a DVFS-labeled DFG",
	Args:  cobra.ExactArgs(1),
	RunE:  runAutosearch,
}

func init() {
	rootCmd.AddCommand(autosearchCmd)
	autosearchCmd.Flags().Bool("prioritize-energy", false, "use the energy-first Phase 2/3 acceptance policy instead of performance-first")
	autosearchCmd.Flags().Bool("skip-search", false, "skip Phase 2 and reload its intermediate per-group mode map")
	autosearchCmd.Flags().Bool("no-dvfs-dump", false, "do not rewrite the input DFG JSON with the final per-tile DVFS labels")

	viper.BindPFlag("prioritize_energy", autosearchCmd.Flags().Lookup("prioritize-energy"))
	viper.BindPFlag("skip_search", autosearchCmd.Flags().Lookup("skip-search"))
	viper.BindPFlag("no_dvfs_dump", autosearchCmd.Flags().Lookup("no-dvfs-dump"))
}

func runAutosearch(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	energyFirst := viper.GetBool("prioritize_energy")

	records, g, err := dfgio.LoadDFGFile(inputPath)
	if err != nil {
		return err
	}

	s, diags, err := sim.New(g)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	model := power.New(g, s)

	var opts []autosearch.Option
	if energyFirst {
		opts = append(opts, autosearch.WithPrioritizeEnergy())
	}
	if viper.GetBool("skip_search") {
		groupsPath := dfgio.IntermediatePath(inputPath, dfgio.StagePreNodes, "groups", energyFirst)
		groupModes, err := dfgio.ReadGroupModes(groupsPath)
		if err != nil {
			return fmt.Errorf("uecgra: --skip-search requires a prior run's intermediate at %s: %w", groupsPath, err)
		}
		opts = append(opts, autosearch.WithSkipSearch(groupModes))
	}

	result, err := autosearch.Run(g, model, opts...)
	if err != nil {
		return err
	}
	logDiagnostics(result.Diagnostics)

	if !viper.GetBool("skip_search") {
		preNodes := preSearchVoltages(result)
		if err := dfgio.WriteNodeVoltages(dfgio.IntermediatePath(inputPath, dfgio.StagePreNodes, "nodes", energyFirst), preNodes); err != nil {
			return err
		}
		if err := dfgio.WriteGroupModes(dfgio.IntermediatePath(inputPath, dfgio.StagePreNodes, "groups", energyFirst), result.GroupModes); err != nil {
			return err
		}
	}

	finalPath := dfgio.IntermediatePath(inputPath, dfgio.StageFinalNodes, "nodes", energyFirst)
	if err := dfgio.WriteNodeVoltages(finalPath, result.NodeVoltage); err != nil {
		return err
	}

	if !viper.GetBool("no_dvfs_dump") {
		out := dfgio.OutputPath(inputPath, viper.GetString("suffix"))
		if err := dfgio.WriteDVFS(records, result.NodeVoltage, out); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", out)
	}

	fmt.Printf("wrote %s\n", finalPath)

	return nil
}

// preSearchVoltages reconstructs the per-node voltage map as it stood right
// after Phase 2: every node in a Group shares that group's accepted mode, so
// this needs no extra state beyond Result.Groups/GroupModes.
func preSearchVoltages(result *autosearch.Result) map[string]float64 {
	out := make(map[string]float64)
	for _, grp := range result.Groups {
		mode, ok := result.GroupModes[grp.Key]
		if !ok {
			mode = params.Nominal
		}
		v, _ := params.Operating(mode)
		for _, name := range grp.Nodes {
			out[name] = v
		}
	}

	return out
}
