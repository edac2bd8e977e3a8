package nn

import (
	"fmt"
	"math"

	"github.com/baldhumanity/evonet-go/evonet"
)

// Sample pairs an input vector with its expected output vector. The
// vectors may be longer than the network's input and output sets;
// trailing values are ignored.
type Sample struct {
	Input  []float64 `json:"input"`
	Output []float64 `json:"output"`
}

// CheckSamples verifies that every sample is long enough for the
// network. Error evaluates this per call; callers that evaluate many
// candidate weight vectors over the same samples check once up front.
func (n *Network) CheckSamples(samples []Sample) error {
	for i, sample := range samples {
		if len(sample.Input) < len(n.Inputs) {
			return fmt.Errorf("%w: sample %d has %d values for %d inputs",
				ErrShortInput, i, len(sample.Input), len(n.Inputs))
		}
		if len(sample.Output) < len(n.Outputs) {
			return fmt.Errorf("%w: sample %d has %d values for %d outputs",
				ErrShortOutput, i, len(sample.Output), len(n.Outputs))
		}
	}
	return nil
}

// Error sums, over all samples, the Euclidean distance between the
// network's output for the sample's input and the expected output.
func (n *Network) Error(conf *evonet.ApplyConfig, samples []Sample) (float64, error) {
	if err := n.CheckSamples(samples); err != nil {
		return 0, err
	}
	total := 0.0
	for _, sample := range samples {
		produced, err := n.Apply(conf, sample.Input)
		if err != nil {
			return 0, err
		}
		distance := 0.0
		for i, value := range produced {
			diff := value - sample.Output[i]
			distance += diff * diff
		}
		total += math.Sqrt(distance)
	}
	return total, nil
}
