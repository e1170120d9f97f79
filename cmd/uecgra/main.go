// Command uecgra is the CLI entrypoint for the DVFS modeling toolkit: it
// wires dfgio, graph, sim, power, and autosearch behind three subcommands
// (simulate, autosearch, dvfs-dump).
package main

import "github.com/cornell-brg/uecgra-model/cmd/uecgra/cmd"

func main() {
	cmd.Execute()
}
