package evolve

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/evonet/nn"
)

// SnapshotIndividual is one population member in persisted form.
type SnapshotIndividual struct {
	Network nn.NetworkData
	Error   float64
}

// Snapshot is the persisted state of an evolutionary run after some
// iteration. Individuals are stored as compiled networks, the same
// shape the JSON codec uses, so a snapshot survives changes to the
// mutator internals.
type Snapshot struct {
	Iteration  int
	Population []SnapshotIndividual
}

// Mutators rebuilds the snapshot's population.
func (s *Snapshot) Mutators() ([]*evonet.Mutator, error) {
	mutators := make([]*evonet.Mutator, len(s.Population))
	for i, ind := range s.Population {
		buf, err := nn.FromData(ind.Network)
		if err != nil {
			return nil, fmt.Errorf("snapshot individual %d: %w", i, err)
		}
		m, err := nn.MutatorFromNetwork(buf.AsNetwork())
		if err != nil {
			return nil, fmt.Errorf("snapshot individual %d: %w", i, err)
		}
		mutators[i] = m
	}
	return mutators, nil
}

// SaveSnapshot writes a gzip-compressed gob encoding of the snapshot.
func SaveSnapshot(path string, snapshot *Snapshot) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file '%s': %w", path, err)
	}
	gzWriter := gzip.NewWriter(file)
	if err := gob.NewEncoder(gzWriter).Encode(snapshot); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		file.Close()
		return fmt.Errorf("failed to finish checkpoint file '%s': %w", path, err)
	}
	return file.Close()
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open checkpoint file '%s': %w", path, err)
	}
	defer file.Close()

	gzReader, err := gzip.NewReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read checkpoint file '%s': %w", path, err)
	}
	defer gzReader.Close()

	snapshot := &Snapshot{}
	if err := gob.NewDecoder(gzReader).Decode(snapshot); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}
	return snapshot, nil
}

// checkpoint snapshots the current population to the configured path.
func (e *Evolution) checkpoint(population []individual) error {
	snapshot := &Snapshot{
		Iteration:  e.iterations,
		Population: make([]SnapshotIndividual, len(population)),
	}
	for i, ind := range population {
		snapshot.Population[i] = SnapshotIndividual{
			Network: nn.Compile(ind.mutator).Data(),
			Error:   ind.err,
		}
	}
	return SaveSnapshot(e.conf.CheckpointPath, snapshot)
}
