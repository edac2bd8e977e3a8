// Command evonet generates, trains, evolves and applies graph neural
// networks persisted as JSON.
//
// Usage:
//
//	evonet generate 2 1 0.1 > network.json
//	evonet train conf.json network.json samples.jsonl > trained.json
//	evonet evolve conf.json network.json samples.jsonl > evolved.json
//	evonet apply conf.json network.json < inputs.jsonl
//	evonet to-dot network.json | dot -Tpng > network.png
//
// Networks and samples read from an empty path argument come from
// stdin; results go to stdout, progress to stderr.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "evonet",
		Short:        "Evolve and train graph neural networks",
		SilenceUsage: true,
	}
	root.AddCommand(
		newGenerateCmd(),
		newTrainCmd(),
		newEvolveCmd(),
		newApplyCmd(),
		newDotCmd(),
	)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
