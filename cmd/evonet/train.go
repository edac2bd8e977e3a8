package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/evonet-go/evonet"
)

func newTrainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train conf_path network_path [samples_path]",
		Short: "Train a network's weights against samples",
		Long: "Train loads a network and a sample set, minimises the sample error " +
			"over the arc weights, and prints the trained network as JSON. An " +
			"empty network or samples path reads from stdin.",
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := evonet.LoadTrainConfig(args[0])
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
			initial, err := buf.AsNetwork().Error(&conf.ApplyConfig, samples)
			if err != nil {
				return err
			}
			final, err := buf.Train(conf, samples)
			if err != nil {
				return err
			}
			slog.Info("training complete",
				slog.Float64("initial_error", initial),
				slog.Float64("final_error", final))
			return writeNetwork(buf)
		},
	}
}
