package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cornell-brg/uecgra-model/graph"
)

// rootCmd is the base command; every flag here except --config is bound
// through viper so it can equally be set by flag, env var (UECGRA_*), or
// config file, matching
// junjiewwang-perf-analysis's cobra+viper layering.
var rootCmd = &cobra.Command{
	Use:   "uecgra",
	Short: "Analytical DVFS modeling toolkit for an elastic fine-grained CGRA",
	Long: `uecgra simulates steady-state token flow through a tile-level dataflow
graph under asynchronous elastic handshaking, computes analytical power and
energy from a closed-form V/F/op model, and runs a compiler-style DVFS
mapping search (Autosearch) that assigns each tile a rest/nominal/sprint
operating point under a fixed power envelope.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./uecgra.yaml)")
	rootCmd.PersistentFlags().Int64("max-tokens", 50, "live-in token count a measurement run advances to")
	rootCmd.PersistentFlags().Float64("max-time", 1_000_000.0, "global-time timeout guard for a measurement run")
	rootCmd.PersistentFlags().String("suffix", "_dvfs", "suffix inserted before the extension of the DVFS output filename")

	viper.BindPFlag("max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	viper.BindPFlag("max_time", rootCmd.PersistentFlags().Lookup("max-time"))
	viper.BindPFlag("suffix", rootCmd.PersistentFlags().Lookup("suffix"))
}

// initConfig wires viper to an optional YAML config file and to UECGRA_*
// environment variables, falling back silently to flag defaults when no
// config file is present -- there is no required configuration surface here,
// unlike junjiewwang-perf-analysis's database/storage/APM sections.
func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("uecgra")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	viper.SetEnvPrefix("uecgra")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "using config file: %s\n", viper.ConfigFileUsed())
	}
}

// Execute runs the root command, exiting non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("uecgra: %v", err)
	}
}

// logDiagnostics prints every graph.Diagnostic via the standard log package;
// library code stays silent, only the CLI logs.
func logDiagnostics(diags []graph.Diagnostic) {
	for _, d := range diags {
		log.Printf("%s", d.String())
	}
}
