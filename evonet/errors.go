package evonet

import "errors"

var (
	// ErrNodeExists indicates an attempt to add a node that is already present.
	ErrNodeExists = errors.New("evonet: node already exists")
	// ErrNodeMissing indicates an operation referenced a node that is not in the graph.
	ErrNodeMissing = errors.New("evonet: node does not exist")
	// ErrNodeHasArcs indicates a node removal while arcs are still attached to it.
	ErrNodeHasArcs = errors.New("evonet: node still has arcs attached")
	// ErrArcExists indicates an attempt to add an arc that is already present.
	ErrArcExists = errors.New("evonet: arc already exists")
	// ErrArcMissing indicates an operation referenced an arc that is not in the graph.
	ErrArcMissing = errors.New("evonet: arc does not exist")
	// ErrBadWeight indicates a non-positive initial weight.
	ErrBadWeight = errors.New("evonet: initial weight must be positive")
	// ErrBadCount indicates a non-positive input or output node count.
	ErrBadCount = errors.New("evonet: node count must be positive")
	// ErrBadConfig indicates an invalid configuration value.
	ErrBadConfig = errors.New("evonet: invalid configuration")
)
