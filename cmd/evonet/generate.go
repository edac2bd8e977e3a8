package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/evonet/nn"
)

const defaultInitialWeight = 1e-3

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate input_count output_count [initial_weight]",
		Short: "Emit a fresh fully-bipartite network as JSON",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputsCount, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid input count '%s': %w", args[0], err)
			}
			outputsCount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid output count '%s': %w", args[1], err)
			}
			weight := defaultInitialWeight
			if len(args) == 3 {
				if weight, err = strconv.ParseFloat(args[2], 64); err != nil {
					return fmt.Errorf("invalid initial weight '%s': %w", args[2], err)
				}
			}
			ids := evonet.NewIDGenerator(0)
			seed, err := evonet.NewMutator(ids, inputsCount, outputsCount, weight)
			if err != nil {
				return err
			}
			return writeNetwork(nn.Compile(seed))
		},
	}
}
