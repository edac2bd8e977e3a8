package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/baldhumanity/evonet-go/evonet/nn"
)

func newDotCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "to-dot [network_path]",
		Aliases: []string{"to_dot"},
		Short:   "Emit a network as Graphviz DOT",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			buf, err := readNetwork(argOrEmpty(args, 0))
			if err != nil {
				return err
			}
			mutator, err := nn.MutatorFromNetwork(buf.AsNetwork())
			if err != nil {
				return err
			}
			out := os.Stdout
			graph := mutator.Graph()
			fmt.Fprintln(out, "digraph network {")
			fmt.Fprintln(out, "\trankdir=LR;")
			for _, node := range graph.Nodes() {
				shape := "circle"
				switch {
				case mutator.IsInput(node) && mutator.IsOutput(node):
					shape = "Mcircle"
				case mutator.IsInput(node):
					shape = "box"
				case mutator.IsOutput(node):
					shape = "doublecircle"
				}
				fmt.Fprintf(out, "\tn%d [shape=%s];\n", node, shape)
			}
			for _, arc := range graph.Arcs() {
				weight, _ := graph.Weight(arc)
				fmt.Fprintf(out, "\tn%d -> n%d [label=\"%.4f\"];\n", arc.Src, arc.Dst, weight)
			}
			fmt.Fprintln(out, "}")
			return nil
		},
	}
}
