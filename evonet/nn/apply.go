package nn

import (
	"fmt"
	"math"

	"github.com/baldhumanity/evonet-go/evonet"
)

// pulse is one unit of signal in flight: a node index and the magnitude
// arriving there.
type pulse struct {
	node      int
	magnitude float64
}

// maxPulses bounds the work one Apply call may do. The threshold
// terminates any cycle whose weight product is below 1, but the trainer
// allows weights of exactly 1, where a cycle recirculates a pulse
// forever, and dense high-weight graphs branch into path counts the
// threshold alone cannot keep polynomial. Past the cap the remaining
// pulses are dropped and the deposits so far are the result; the
// traversal order is fixed, so the truncation is deterministic.
const maxPulses = 1 << 20

// Apply propagates an input vector through the network and returns the
// output vector, ordered by ascending output node index.
//
// Each input value enters as a pulse at its input node. A pulse whose
// magnitude has absolute value at or below conf.Threshold is dropped;
// otherwise it deposits its magnitude into the output bucket if its
// node is an output, and spawns a pulse along every outgoing arc,
// scaled by the arc weight. The threshold is what terminates flow
// around cycles: any cycle whose weight product has absolute value
// below 1 decays geometrically and the threshold cuts the tail.
//
// The input vector may be longer than the input set; trailing values
// are ignored. It must not be shorter.
func (n *Network) Apply(conf *evonet.ApplyConfig, input []float64) ([]float64, error) {
	if len(input) < len(n.Inputs) {
		return nil, fmt.Errorf("%w: got %d values for %d inputs", ErrShortInput, len(input), len(n.Inputs))
	}
	output := make([]float64, len(n.Outputs))
	bucket := make(map[int]int, len(n.Outputs))
	for position, index := range n.Outputs {
		bucket[index] = position
	}

	// The traversal is an explicit work stack rather than recursion:
	// cycles can make the pulse chain far deeper than the node count.
	stack := make([]pulse, 0, len(n.Inputs))
	for i := len(n.Inputs) - 1; i >= 0; i-- {
		stack = append(stack, pulse{node: n.Inputs[i], magnitude: input[i]})
	}
	for processed := 0; len(stack) > 0 && processed < maxPulses; processed++ {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if math.Abs(p.magnitude) <= conf.Threshold {
			continue
		}
		if position, ok := bucket[p.node]; ok {
			output[position] += p.magnitude
		}
		for dst, weight := range n.Weights.Row(p.node) {
			if weight != 0 {
				stack = append(stack, pulse{node: dst, magnitude: p.magnitude * weight})
			}
		}
	}
	return output, nil
}
