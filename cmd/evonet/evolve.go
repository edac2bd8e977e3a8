package main

import (
	"log/slog"
	"math/rand"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/evonet-go/evolve"
	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/evonet/nn"
)

func newEvolveCmd() *cobra.Command {
	var (
		seed       int64
		workers    int
		checkpoint string
	)
	cmd := &cobra.Command{
		Use:   "evolve conf_path network_path [samples_path]",
		Short: "Evolve a network's topology and weights against samples",
		Long: "Evolve runs the population-based topology search seeded with the " +
			"given network, training every candidate, and prints the best evolved " +
			"network as JSON. An empty network or samples path reads from stdin.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := evonet.LoadEvolveConfig(args[0])
			if err != nil {
				return err
			}
			buf, err := readNetwork(args[1])
			if err != nil {
				return err
			}
			samples, err := readSamples(argOrEmpty(args, 2))
			if err != nil {
				return err
			}
			mutator, err := nn.MutatorFromNetwork(buf.AsNetwork())
			if err != nil {
				return err
			}
			initial, err := buf.AsNetwork().Error(&conf.ApplyConfig, samples)
			if err != nil {
				return err
			}
			slog.Info("evolution starting", slog.Float64("initial_error", initial))
			evolved, err := evolve.Run(mutator, &evolve.Config{
				Train:          &conf.TrainConfig,
				Samples:        samples,
				RNG:            rand.New(rand.NewSource(seed)),
				IDs:            evonet.NewIDGenerator(0),
				PopulationSize: conf.PopulationSize,
				TargetError:    conf.TargetError,
				Iterations:     conf.Iterations,
				Workers:        workers,
				CheckpointPath: checkpoint,
			})
			if err != nil {
				return err
			}
			result := nn.Compile(evolved)
			final, err := result.AsNetwork().Error(&conf.ApplyConfig, samples)
			if err != nil {
				return err
			}
			slog.Info("evolution complete",
				slog.Float64("initial_error", initial),
				slog.Float64("final_error", final))
			return writeNetwork(result)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed for the evolutionary search")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel training workers (0 = all CPUs)")
	cmd.Flags().StringVar(&checkpoint, "checkpoint", "", "snapshot the population to this file after every iteration")
	return cmd
}
