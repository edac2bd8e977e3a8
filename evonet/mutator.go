package evonet

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Mutator is a graph together with its designated input and output
// nodes, supporting the topology edits the evolutionary loop performs.
// Inputs are ordered by ascending tag and align with the columns of a
// sample's input vector; outputs form an unordered set. A node may be
// both an input and an output.
type Mutator struct {
	inputs  []Node
	outputs map[Node]struct{}
	graph   *Graph
}

// NewMutator builds a fresh fully-bipartite network: inputsCount input
// nodes and outputsCount output nodes are allocated from ids (inputs
// first), and every input is connected to every output with the given
// weight. The weight must be positive.
func NewMutator(ids *IDGenerator, inputsCount, outputsCount int, weight float64) (*Mutator, error) {
	if inputsCount <= 0 {
		return nil, fmt.Errorf("%w: %d inputs", ErrBadCount, inputsCount)
	}
	if outputsCount <= 0 {
		return nil, fmt.Errorf("%w: %d outputs", ErrBadCount, outputsCount)
	}
	if weight <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrBadWeight, weight)
	}
	m := &Mutator{
		inputs:  make([]Node, 0, inputsCount),
		outputs: make(map[Node]struct{}, outputsCount),
		graph:   NewGraph(),
	}
	for i := 0; i < inputsCount; i++ {
		id := ids.Generate()
		m.inputs = append(m.inputs, id)
		mustAddNode(m.graph, id)
	}
	for i := 0; i < outputsCount; i++ {
		id := ids.Generate()
		m.outputs[id] = struct{}{}
		mustAddNode(m.graph, id)
	}
	for _, src := range m.inputs {
		for dst := range m.outputs {
			mustAddArc(m.graph, Arc{Src: src, Dst: dst}, weight)
		}
	}
	return m, nil
}

// AssembleMutator wraps an existing graph with input and output node
// sets. Every listed node must be present in the graph. The inputs are
// stored in ascending tag order.
func AssembleMutator(graph *Graph, inputs, outputs []Node) (*Mutator, error) {
	m := &Mutator{
		inputs:  make([]Node, 0, len(inputs)),
		outputs: make(map[Node]struct{}, len(outputs)),
		graph:   graph,
	}
	for _, id := range inputs {
		if !graph.HasNode(id) {
			return nil, fmt.Errorf("%w: input %d", ErrNodeMissing, id)
		}
		m.inputs = append(m.inputs, id)
	}
	sort.Slice(m.inputs, func(i, j int) bool { return m.inputs[i] < m.inputs[j] })
	for _, id := range outputs {
		if !graph.HasNode(id) {
			return nil, fmt.Errorf("%w: output %d", ErrNodeMissing, id)
		}
		m.outputs[id] = struct{}{}
	}
	return m, nil
}

// Graph returns the underlying graph.
func (m *Mutator) Graph() *Graph {
	return m.graph
}

// Inputs returns the input nodes in ascending tag order.
func (m *Mutator) Inputs() []Node {
	inputs := make([]Node, len(m.inputs))
	copy(inputs, m.inputs)
	return inputs
}

// Outputs returns the output nodes in ascending tag order.
func (m *Mutator) Outputs() []Node {
	outputs := make([]Node, 0, len(m.outputs))
	for id := range m.outputs {
		outputs = append(outputs, id)
	}
	sort.Slice(outputs, func(i, j int) bool { return outputs[i] < outputs[j] })
	return outputs
}

// IsInput reports whether id is an input node.
func (m *Mutator) IsInput(id Node) bool {
	for _, in := range m.inputs {
		if in == id {
			return true
		}
	}
	return false
}

// IsOutput reports whether id is an output node.
func (m *Mutator) IsOutput(id Node) bool {
	_, ok := m.outputs[id]
	return ok
}

// AddArc adds an arc between two existing nodes.
func (m *Mutator) AddArc(src, dst Node, weight float64) error {
	_, err := m.graph.AddArc(src, dst, weight)
	return err
}

// RemoveArc removes an arc. Nodes left without arcs are kept; use
// RemoveUseless to prune them.
func (m *Mutator) RemoveArc(arc Arc) error {
	return m.graph.RemoveArc(arc)
}

// Split replaces an arc of weight w with a two-hop path through a fresh
// middle node whose two arcs both carry √w, so the weight product along
// the path is preserved. The middle node id is drawn from ids,
// re-rolling until it does not collide with an existing node.
func (m *Mutator) Split(ids *IDGenerator, arc Arc) error {
	weight, ok := m.graph.Weight(arc)
	if !ok {
		return fmt.Errorf("%w: %d -> %d", ErrArcMissing, arc.Src, arc.Dst)
	}
	middle := ids.Generate()
	for m.graph.HasNode(middle) {
		middle = ids.Generate()
	}
	mustAddNode(m.graph, middle)
	half := math.Sqrt(weight)
	mustAddArc(m.graph, Arc{Src: arc.Src, Dst: middle}, half)
	mustAddArc(m.graph, Arc{Src: middle, Dst: arc.Dst}, half)
	return m.graph.RemoveArc(arc)
}

// Union merges two mutators: node and arc sets are unioned with arc
// weights averaged, the input set is the union of input sets and the
// output set is the union of output sets. The result shares no state
// with either operand.
func (m *Mutator) Union(other *Mutator) *Mutator {
	inputs := make(map[Node]struct{}, len(m.inputs)+len(other.inputs))
	for _, id := range m.inputs {
		inputs[id] = struct{}{}
	}
	for _, id := range other.inputs {
		inputs[id] = struct{}{}
	}
	merged := &Mutator{
		inputs:  make([]Node, 0, len(inputs)),
		outputs: make(map[Node]struct{}, len(m.outputs)+len(other.outputs)),
		graph:   m.graph.Union(other.graph),
	}
	for id := range inputs {
		merged.inputs = append(merged.inputs, id)
	}
	sort.Slice(merged.inputs, func(i, j int) bool { return merged.inputs[i] < merged.inputs[j] })
	for id := range m.outputs {
		merged.outputs[id] = struct{}{}
	}
	for id := range other.outputs {
		merged.outputs[id] = struct{}{}
	}
	return merged
}

// RemoveUseless prunes every node that cannot influence any output:
// nodes unreachable from all inputs going forward, or from which no
// output can be reached going backward. Input and output nodes are
// never removed. Arcs incident to a pruned node are removed with it.
func (m *Mutator) RemoveUseless() {
	outputs := m.Outputs()
	residue := make(map[Node]struct{})
	for _, id := range m.graph.UnreachableFrom(m.inputs) {
		residue[id] = struct{}{}
	}
	for _, id := range m.graph.UnreachableTo(outputs) {
		residue[id] = struct{}{}
	}
	for _, id := range m.inputs {
		delete(residue, id)
	}
	for _, id := range outputs {
		delete(residue, id)
	}
	for id := range residue {
		na := m.graph.nodes[id]
		arcs := make([]Arc, 0, len(na.out)+len(na.in))
		for arc := range na.out {
			arcs = append(arcs, arc)
		}
		for arc := range na.in {
			arcs = append(arcs, arc)
		}
		for _, arc := range arcs {
			if m.graph.HasArc(arc) {
				if err := m.graph.RemoveArc(arc); err != nil {
					panic(err)
				}
			}
		}
		if err := m.graph.RemoveNode(id); err != nil {
			panic(err)
		}
	}
}

// RandomNode picks a node uniformly at random. Selection is over the
// tag-sorted node list, so a seeded rng gives reproducible draws.
func (m *Mutator) RandomNode(rng *rand.Rand) Node {
	nodes := m.graph.Nodes()
	return nodes[rng.Intn(len(nodes))]
}

// RandomArc picks an arc uniformly at random from the (src, dst)-sorted
// arc list. The second return value is false when the graph has no arcs.
func (m *Mutator) RandomArc(rng *rand.Rand) (Arc, bool) {
	arcs := m.graph.Arcs()
	if len(arcs) == 0 {
		return Arc{}, false
	}
	return arcs[rng.Intn(len(arcs))], true
}

// Clone returns a deep copy.
func (m *Mutator) Clone() *Mutator {
	clone := &Mutator{
		inputs:  make([]Node, len(m.inputs)),
		outputs: make(map[Node]struct{}, len(m.outputs)),
		graph:   m.graph.Clone(),
	}
	copy(clone.inputs, m.inputs)
	for id := range m.outputs {
		clone.outputs[id] = struct{}{}
	}
	return clone
}
