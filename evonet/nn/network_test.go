package nn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/evonet-go/evonet"
)

func TestBuildAssignsIndicesFirstSeen(t *testing.T) {
	buf := Build(
		[]Connection{{Src: 5, Dst: 7, Weight: 0.4}, {Src: 7, Dst: 9, Weight: 0.2}},
		[]evonet.Node{5},
		[]evonet.Node{9},
	)
	n := buf.AsNetwork()
	assert.Equal(t, []int{0}, n.Inputs)
	assert.Equal(t, []int{2}, n.Outputs)
	assert.Equal(t, 3, n.Weights.Side())
	assert.Equal(t, map[int]evonet.Node{0: 5, 1: 7, 2: 9}, n.Nodes)
	assert.Equal(t, 0.4, n.Weights.At(0, 1))
	assert.Equal(t, 0.2, n.Weights.At(1, 2))
}

func TestBuildIndexesArcEndpointsOutsideIO(t *testing.T) {
	// Node 3 is neither input nor output but must still get an index.
	buf := Build(
		[]Connection{{Src: 1, Dst: 3, Weight: 0.4}, {Src: 3, Dst: 2, Weight: 0.2}},
		[]evonet.Node{1},
		[]evonet.Node{2},
	)
	n := buf.AsNetwork()
	require.Equal(t, 3, n.Weights.Side())
	assert.Equal(t, map[int]evonet.Node{0: 1, 1: 3, 2: 2}, n.Nodes)
}

func TestCompileRoundTripPreservesNetwork(t *testing.T) {
	ids := evonet.NewIDGenerator(0)
	m, err := evonet.NewMutator(ids, 2, 2, 0.5)
	require.NoError(t, err)
	require.NoError(t, m.Graph().AddNode(9))
	require.NoError(t, m.AddArc(0, 9, 0.25))
	require.NoError(t, m.AddArc(9, 2, 0.25))

	rebuilt, err := MutatorFromNetwork(Compile(m).AsNetwork())
	require.NoError(t, err)
	assert.Equal(t, m.Inputs(), rebuilt.Inputs())
	assert.Equal(t, m.Outputs(), rebuilt.Outputs())
	assert.True(t, m.Graph().Equal(rebuilt.Graph()))
}

func TestMutatorFromNetworkDropsZeroWeightArcs(t *testing.T) {
	buf := Build(
		[]Connection{{Src: 0, Dst: 1, Weight: 0.4}, {Src: 1, Dst: 2, Weight: 0}},
		[]evonet.Node{0},
		[]evonet.Node{2},
	)
	m, err := MutatorFromNetwork(buf.AsNetwork())
	require.NoError(t, err)
	assert.Equal(t, []evonet.Arc{{Src: 0, Dst: 1}}, m.Graph().Arcs())
}

func TestNetworkJSONShape(t *testing.T) {
	ids := evonet.NewIDGenerator(0)
	m, err := evonet.NewMutator(ids, 1, 1, 0.5)
	require.NoError(t, err)
	raw, err := json.Marshal(Compile(m))
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Contains(t, decoded, "inputs")
	assert.Contains(t, decoded, "outputs")
	assert.Contains(t, decoded, "weights")
	assert.Contains(t, decoded, "nodes")

	var weights map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["weights"], &weights))
	assert.Contains(t, weights, "column_len")
	assert.Contains(t, weights, "values")
}

func TestNetworkJSONRoundTrip(t *testing.T) {
	ids := evonet.NewIDGenerator(10)
	m, err := evonet.NewMutator(ids, 2, 1, 0.3)
	require.NoError(t, err)
	original := Compile(m)

	raw, err := json.Marshal(original)
	require.NoError(t, err)
	decoded := &NetworkBuf{}
	require.NoError(t, json.Unmarshal(raw, decoded))
	assert.Equal(t, original.Data(), decoded.Data())
}

func TestFromDataValidation(t *testing.T) {
	_, err := FromData(NetworkData{
		Weights: MatrixData{ColumnLen: 2, Values: make([]float64, 3)},
	})
	assert.ErrorIs(t, err, ErrBadNetworkData)

	_, err = FromData(NetworkData{
		Inputs:  []int{5},
		Weights: MatrixData{ColumnLen: 2, Values: make([]float64, 4)},
		Nodes:   map[int]evonet.Node{0: 0, 1: 1},
	})
	assert.ErrorIs(t, err, ErrBadNetworkData)

	_, err = FromData(NetworkData{
		Inputs:  []int{0},
		Outputs: []int{1},
		Weights: MatrixData{ColumnLen: 2, Values: make([]float64, 4)},
		Nodes:   map[int]evonet.Node{0: 0},
	})
	assert.ErrorIs(t, err, ErrBadNetworkData, "output index without node tag")
}

func TestNetworkBufCloneIsIndependent(t *testing.T) {
	ids := evonet.NewIDGenerator(0)
	m, err := evonet.NewMutator(ids, 1, 1, 0.5)
	require.NoError(t, err)
	original := Compile(m)
	clone := original.Clone()
	clone.Weights().Set(0, 1, 0.9)
	assert.Equal(t, 0.5, original.Weights().At(0, 1))
}
