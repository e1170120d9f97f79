package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cornell-brg/uecgra-model/dfgio"
	"github.com/cornell-brg/uecgra-model/sim"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <dfg.json>",
	Short: "Run the token-flow simulator once and print throughput/latency",
	Args:  cobra.ExactArgs(1),
	RunE:  runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().Bool("pipelining", false, "allow a successor to accept a second push in the same logical cycle")
	viper.BindPFlag("pipelining", simulateCmd.Flags().Lookup("pipelining"))
}

func runSimulate(cmd *cobra.Command, args []string) error {
	_, g, err := dfgio.LoadDFGFile(args[0])
	if err != nil {
		return err
	}

	var opts []sim.Option
	if viper.GetBool("pipelining") {
		opts = append(opts, sim.WithPipelining(true))
	}

	s, diags, err := sim.New(g, opts...)
	if err != nil {
		return err
	}
	logDiagnostics(diags)

	result, runDiags, err := s.Run(viper.GetInt64("max_tokens"), viper.GetFloat64("max_time"))
	if err != nil {
		return err
	}
	logDiagnostics(runDiags)

	fmt.Printf("throughput: %.6f tokens/cycle\n", result.Throughput)
	fmt.Printf("latency: %.6f cycles\n", result.Latency)

	return nil
}
