package nn

import "errors"

var (
	// ErrShortInput indicates an input vector shorter than the network's input set.
	ErrShortInput = errors.New("nn: input vector shorter than network inputs")
	// ErrShortOutput indicates an expected-output vector shorter than the network's output set.
	ErrShortOutput = errors.New("nn: output vector shorter than network outputs")
	// ErrBadNetworkData indicates a persisted network that fails validation.
	ErrBadNetworkData = errors.New("nn: invalid network data")
	// ErrInfeasibleWeights indicates a weight outside the trainer's bounds.
	ErrInfeasibleWeights = errors.New("nn: weight outside [0, 1]")
)
