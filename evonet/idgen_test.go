package evonet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorStartsAtInitial(t *testing.T) {
	ids := NewIDGenerator(42)
	assert.Equal(t, Node(42), ids.Generate())
}

func TestIDGeneratorNeverRepeats(t *testing.T) {
	ids := NewIDGenerator(0)
	seen := make(map[Node]struct{})
	for i := 0; i < 100; i++ {
		id := ids.Generate()
		_, dup := seen[id]
		assert.False(t, dup, "tag %d generated twice", id)
		seen[id] = struct{}{}
	}
}
