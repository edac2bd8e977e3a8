// Package nn holds the compiled, index-based form of a network: a
// dense weight matrix plus the mapping between matrix indices and the
// graph's node tags. This is the representation the propagator reads
// and the trainer rewrites.
package nn

import (
	"sort"

	"github.com/baldhumanity/evonet-go/evonet"
)

// Connection is one weighted arc in node-tag terms, the unit the
// compiler consumes.
type Connection struct {
	Src    evonet.Node
	Dst    evonet.Node
	Weight float64
}

// Network is a read-only view of a compiled network. Inputs holds the
// matrix indices of the input nodes in input order; Outputs holds the
// output node indices in ascending order. Weights[i][j] is the weight
// of the arc from node index i to node index j, zero meaning no arc.
// Nodes maps each index back to its node tag.
type Network struct {
	Inputs  []int
	Outputs []int
	Weights *evonet.Matrix
	Nodes   map[int]evonet.Node
}

// NetworkBuf owns the storage behind a Network. It is built from a
// mutator's arcs, trained in place, and can be turned back into a
// mutator for further topology edits.
type NetworkBuf struct {
	inputs  []int
	outputs []int
	weights *evonet.Matrix
	nodes   map[int]evonet.Node
}

// Build compiles a connection list into a NetworkBuf. Matrix indices
// are assigned by first-seen order over inputs, then arc endpoints,
// then outputs, so input nodes get the lowest indices and outputs the
// highest among nodes not already seen. Arc endpoints outside the
// input and output sets are indexed like any other node; nothing is
// dropped.
func Build(arcs []Connection, inputs, outputs []evonet.Node) *NetworkBuf {
	indices := make(map[evonet.Node]int)
	assign := func(node evonet.Node) {
		if _, ok := indices[node]; !ok {
			indices[node] = len(indices)
		}
	}
	for _, node := range inputs {
		assign(node)
	}
	for _, arc := range arcs {
		assign(arc.Src)
		assign(arc.Dst)
	}
	for _, node := range outputs {
		assign(node)
	}

	weights := evonet.NewMatrix(len(indices), 0)
	for _, arc := range arcs {
		weights.Set(indices[arc.Src], indices[arc.Dst], arc.Weight)
	}

	buf := &NetworkBuf{
		inputs:  make([]int, len(inputs)),
		outputs: make([]int, 0, len(outputs)),
		weights: weights,
		nodes:   make(map[int]evonet.Node, len(indices)),
	}
	for i, node := range inputs {
		buf.inputs[i] = indices[node]
	}
	for _, node := range outputs {
		buf.outputs = append(buf.outputs, indices[node])
	}
	sort.Ints(buf.outputs)
	for node, index := range indices {
		buf.nodes[index] = node
	}
	return buf
}

// Compile builds a NetworkBuf from a mutator's current graph, inputs
// and outputs. Arcs are fed to the compiler in (src, dst) order and
// outputs in ascending tag order, so compilation is deterministic.
func Compile(m *evonet.Mutator) *NetworkBuf {
	graph := m.Graph()
	arcs := graph.Arcs()
	connections := make([]Connection, 0, len(arcs))
	for _, arc := range arcs {
		weight, _ := graph.Weight(arc)
		connections = append(connections, Connection{Src: arc.Src, Dst: arc.Dst, Weight: weight})
	}
	return Build(connections, m.Inputs(), m.Outputs())
}

// MutatorFromNetwork rebuilds a mutator from a compiled network,
// keeping only arcs with positive weight. Weights the trainer drove to
// zero vanish as arcs, which is what lets training simplify topology.
func MutatorFromNetwork(n *Network) (*evonet.Mutator, error) {
	graph := evonet.NewGraph()
	indexes := make([]int, 0, len(n.Nodes))
	for index := range n.Nodes {
		indexes = append(indexes, index)
	}
	sort.Ints(indexes)
	for _, index := range indexes {
		if err := graph.AddNode(n.Nodes[index]); err != nil {
			return nil, err
		}
	}
	for _, src := range indexes {
		row := n.Weights.Row(src)
		for dst, weight := range row {
			if weight <= 0 {
				continue
			}
			if _, err := graph.AddArc(n.Nodes[src], n.Nodes[dst], weight); err != nil {
				return nil, err
			}
		}
	}
	inputs := make([]evonet.Node, len(n.Inputs))
	for i, index := range n.Inputs {
		inputs[i] = n.Nodes[index]
	}
	outputs := make([]evonet.Node, len(n.Outputs))
	for i, index := range n.Outputs {
		outputs[i] = n.Nodes[index]
	}
	return evonet.AssembleMutator(graph, inputs, outputs)
}

// AsNetwork returns a read-only view sharing the buffer's storage.
func (b *NetworkBuf) AsNetwork() *Network {
	return &Network{
		Inputs:  b.inputs,
		Outputs: b.outputs,
		Weights: b.weights,
		Nodes:   b.nodes,
	}
}

// Weights returns the mutable weight matrix. This is the single path
// by which a buffer's weights change; the trainer writes through it.
func (b *NetworkBuf) Weights() *evonet.Matrix {
	return b.weights
}

// Clone returns a deep copy of the buffer.
func (b *NetworkBuf) Clone() *NetworkBuf {
	clone := &NetworkBuf{
		inputs:  make([]int, len(b.inputs)),
		outputs: make([]int, len(b.outputs)),
		weights: b.weights.Clone(),
		nodes:   make(map[int]evonet.Node, len(b.nodes)),
	}
	copy(clone.inputs, b.inputs)
	copy(clone.outputs, b.outputs)
	for index, node := range b.nodes {
		clone.nodes[index] = node
	}
	return clone
}
