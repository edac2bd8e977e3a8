package nn

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/baldhumanity/evonet-go/evonet"
)

// MatrixData is the persisted form of a weight matrix: the side length
// and the flat row-major cell values.
type MatrixData struct {
	ColumnLen int       `json:"column_len"`
	Values    []float64 `json:"values"`
}

// NetworkData is the persisted form of a NetworkBuf. Inputs preserves
// input order; Nodes maps each matrix index to its node tag.
type NetworkData struct {
	Inputs  []int               `json:"inputs"`
	Outputs []int               `json:"outputs"`
	Weights MatrixData          `json:"weights"`
	Nodes   map[int]evonet.Node `json:"nodes"`
}

// Data captures the buffer as plain exported data, the form both the
// JSON codec and the checkpoint encoder work with.
func (b *NetworkBuf) Data() NetworkData {
	data := NetworkData{
		Inputs:  make([]int, len(b.inputs)),
		Outputs: make([]int, len(b.outputs)),
		Weights: MatrixData{
			ColumnLen: b.weights.Side(),
			Values:    make([]float64, len(b.weights.Values())),
		},
		Nodes: make(map[int]evonet.Node, len(b.nodes)),
	}
	copy(data.Inputs, b.inputs)
	copy(data.Outputs, b.outputs)
	copy(data.Weights.Values, b.weights.Values())
	for index, node := range b.nodes {
		data.Nodes[index] = node
	}
	return data
}

// FromData validates persisted data and rebuilds the buffer.
func FromData(data NetworkData) (*NetworkBuf, error) {
	side := data.Weights.ColumnLen
	if side < 0 {
		return nil, fmt.Errorf("%w: negative column_len %d", ErrBadNetworkData, side)
	}
	if len(data.Weights.Values) != side*side {
		return nil, fmt.Errorf("%w: %d weight values for column_len %d",
			ErrBadNetworkData, len(data.Weights.Values), side)
	}
	checkIndex := func(kind string, index int) error {
		if index < 0 || index >= side {
			return fmt.Errorf("%w: %s index %d out of range [0, %d)", ErrBadNetworkData, kind, index, side)
		}
		if _, ok := data.Nodes[index]; !ok {
			return fmt.Errorf("%w: %s index %d has no node tag", ErrBadNetworkData, kind, index)
		}
		return nil
	}
	for _, index := range data.Inputs {
		if err := checkIndex("input", index); err != nil {
			return nil, err
		}
	}
	for _, index := range data.Outputs {
		if err := checkIndex("output", index); err != nil {
			return nil, err
		}
	}
	for index := range data.Nodes {
		if index < 0 || index >= side {
			return nil, fmt.Errorf("%w: node index %d out of range [0, %d)", ErrBadNetworkData, index, side)
		}
	}

	values := make([]float64, len(data.Weights.Values))
	copy(values, data.Weights.Values)
	buf := &NetworkBuf{
		inputs:  make([]int, len(data.Inputs)),
		outputs: make([]int, len(data.Outputs)),
		weights: evonet.WrapMatrix(side, values),
		nodes:   make(map[int]evonet.Node, len(data.Nodes)),
	}
	copy(buf.inputs, data.Inputs)
	copy(buf.outputs, data.Outputs)
	sort.Ints(buf.outputs)
	for index, node := range data.Nodes {
		buf.nodes[index] = node
	}
	return buf, nil
}

// MarshalJSON encodes the buffer in the persisted wire shape.
func (b *NetworkBuf) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Data())
}

// UnmarshalJSON decodes and validates the persisted wire shape.
func (b *NetworkBuf) UnmarshalJSON(raw []byte) error {
	var data NetworkData
	if err := json.Unmarshal(raw, &data); err != nil {
		return err
	}
	decoded, err := FromData(data)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}
