package nn

import (
	"fmt"

	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/optimize"
)

// Train minimises the buffer's sample error over its flattened weight
// matrix, rewriting the weights in place, and returns the final error.
//
// Every matrix cell is a variable, structural zeros included — the
// optimiser is free to move them away from zero, which adds arcs when
// the buffer is converted back to a mutator. The box constraints keep
// all weights in [0, 1], so no cycle can have a weight product above 1
// and propagation stays bounded. The buffer must already hold a
// feasible point; out-of-bounds weights are the caller's mistake and
// are reported, never clamped.
//
// Budget exhaustion is not a failure: the best weights seen within
// conf.MaxFunctionCalls objective calls are kept, so the returned error
// never exceeds the error of the starting weights.
func (b *NetworkBuf) Train(conf *evonet.TrainConfig, samples []Sample) (float64, error) {
	if err := conf.Validate(); err != nil {
		return 0, err
	}
	if err := b.AsNetwork().CheckSamples(samples); err != nil {
		return 0, err
	}
	side := b.weights.Side()
	values := b.weights.Values()
	for i, w := range values {
		if w < 0 || w > 1 {
			return 0, fmt.Errorf("%w: cell %d holds %v", ErrInfeasibleWeights, i, w)
		}
	}

	count := len(values)
	lower := make([]float64, count)
	upper := make([]float64, count)
	for i := range upper {
		upper[i] = 1
	}
	objective := func(candidate []float64) float64 {
		view := &Network{
			Inputs:  b.inputs,
			Outputs: b.outputs,
			Weights: evonet.WrapMatrix(side, candidate),
			Nodes:   b.nodes,
		}
		errValue, err := view.Error(&conf.ApplyConfig, samples)
		if err != nil {
			panic(err) // samples were validated before the run started
		}
		return errValue
	}
	minimizer := &optimize.BOBYQA{
		Lower:                   lower,
		Upper:                   upper,
		InterpolationConditions: count + 2,
		MaxFunctionCalls:        conf.MaxFunctionCalls,
	}
	return minimizer.Minimize(objective, values)
}
