package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/evonet-go/evonet"
)

// applyLine is one line of the apply stream: the input vector, an
// optional expected output, and the produced result on the way out.
type applyLine struct {
	Input  []float64 `json:"input"`
	Output []float64 `json:"output,omitempty"`
	Result []float64 `json:"result,omitempty"`
}

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply conf_path network_path",
		Short: "Stream inputs through a network",
		Long: "Apply reads JSON lines {\"input\": [...], \"output\": [...]} from " +
			"stdin, propagates each input through the network, and echoes every " +
			"line with the produced result appended.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := evonet.LoadApplyConfig(args[0])
			if err != nil {
				return err
			}
			buf, err := readNetwork(args[1])
			if err != nil {
				return err
			}
			network := buf.AsNetwork()
			scanner := bufio.NewScanner(os.Stdin)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			encoder := json.NewEncoder(os.Stdout)
			for scanner.Scan() {
				if len(scanner.Bytes()) == 0 {
					continue
				}
				var line applyLine
				if err := json.Unmarshal(scanner.Bytes(), &line); err != nil {
					return fmt.Errorf("failed to parse input line: %w", err)
				}
				if line.Result, err = network.Apply(conf, line.Input); err != nil {
					return err
				}
				if err := encoder.Encode(&line); err != nil {
					return err
				}
			}
			return scanner.Err()
		},
	}
}
