package evolve

import (
	"io"
	"log/slog"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/evonet-go/evonet"
	"github.com/baldhumanity/evonet-go/evonet/nn"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(iterations int) (*Config, *evonet.IDGenerator) {
	ids := evonet.NewIDGenerator(0)
	return &Config{
		Train: &evonet.TrainConfig{
			ApplyConfig:      evonet.ApplyConfig{Threshold: 1e-4},
			MaxFunctionCalls: 200,
		},
		Samples:        []nn.Sample{{Input: []float64{0.5}, Output: []float64{0.4}}},
		RNG:            rand.New(rand.NewSource(1)),
		IDs:            ids,
		PopulationSize: 2,
		TargetError:    1e-3,
		Iterations:     iterations,
		Logger:         quietLogger(),
	}, ids
}

func seedMutator(t *testing.T, ids *evonet.IDGenerator) *evonet.Mutator {
	t.Helper()
	seed, err := evonet.NewMutator(ids, 1, 1, 0.1)
	require.NoError(t, err)
	return seed
}

func TestRunZeroIterationsReturnsSeedUnchanged(t *testing.T) {
	conf, ids := testConfig(0)
	seed := seedMutator(t, ids)
	before := nn.Compile(seed).Data()

	evolved, err := Run(seed, conf)
	require.NoError(t, err)
	assert.Same(t, seed, evolved)
	assert.Equal(t, before, nn.Compile(evolved).Data())
}

func TestRunReturnsSeedAlreadyAtTarget(t *testing.T) {
	conf, ids := testConfig(5)
	seed := seedMutator(t, ids)
	conf.TargetError = 100 // seed error is far below this
	evolved, err := Run(seed, conf)
	require.NoError(t, err)
	assert.Same(t, seed, evolved)
}

func TestRunReducesError(t *testing.T) {
	conf, ids := testConfig(2)
	seed := seedMutator(t, ids)
	seedError, err := nn.Compile(seed).AsNetwork().Error(&conf.Train.ApplyConfig, conf.Samples)
	require.NoError(t, err)

	evolved, err := Run(seed, conf)
	require.NoError(t, err)
	evolvedError, err := nn.Compile(evolved).AsNetwork().Error(&conf.Train.ApplyConfig, conf.Samples)
	require.NoError(t, err)
	assert.LessOrEqual(t, evolvedError, seedError)
}

func TestRunKeepsInputsAndOutputs(t *testing.T) {
	conf, ids := testConfig(3)
	seed := seedMutator(t, ids)
	evolved, err := Run(seed, conf)
	require.NoError(t, err)
	assert.Equal(t, []evonet.Node{0}, evolved.Inputs())
	assert.Equal(t, []evonet.Node{1}, evolved.Outputs())
}

func TestRunIsDeterministic(t *testing.T) {
	run := func() nn.NetworkData {
		conf, ids := testConfig(2)
		seed := seedMutator(t, ids)
		evolved, err := Run(seed, conf)
		require.NoError(t, err)
		return nn.Compile(evolved).Data()
	}
	assert.Equal(t, run(), run())
}

func TestRunParallelismDoesNotChangeResult(t *testing.T) {
	run := func(workers int) nn.NetworkData {
		conf, ids := testConfig(2)
		conf.PopulationSize = 4
		conf.Workers = workers
		seed := seedMutator(t, ids)
		evolved, err := Run(seed, conf)
		require.NoError(t, err)
		return nn.Compile(evolved).Data()
	}
	assert.Equal(t, run(1), run(4))
}

func TestRunValidatesPopulationSize(t *testing.T) {
	conf, ids := testConfig(1)
	seed := seedMutator(t, ids)

	conf.PopulationSize = 3
	_, err := Run(seed, conf)
	assert.ErrorIs(t, err, ErrBadPopulation)

	conf.PopulationSize = 1
	_, err = Run(seed, conf)
	assert.ErrorIs(t, err, ErrBadPopulation)
}

func TestRunRequiresExplicitState(t *testing.T) {
	conf, ids := testConfig(1)
	seed := seedMutator(t, ids)
	conf.RNG = nil
	_, err := Run(seed, conf)
	assert.ErrorIs(t, err, ErrMissingState)
}

func TestRunWritesCheckpoint(t *testing.T) {
	conf, ids := testConfig(1)
	conf.CheckpointPath = filepath.Join(t.TempDir(), "population.gob.gz")
	seed := seedMutator(t, ids)
	_, err := Run(seed, conf)
	require.NoError(t, err)

	snapshot, err := LoadSnapshot(conf.CheckpointPath)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Iteration)
	require.Len(t, snapshot.Population, 2)

	mutators, err := snapshot.Mutators()
	require.NoError(t, err)
	assert.Len(t, mutators, 2)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ids := evonet.NewIDGenerator(0)
	m, err := evonet.NewMutator(ids, 2, 1, 0.3)
	require.NoError(t, err)
	snapshot := &Snapshot{
		Iteration: 7,
		Population: []SnapshotIndividual{
			{Network: nn.Compile(m).Data(), Error: 0.42},
		},
	}
	path := filepath.Join(t.TempDir(), "snap.gob.gz")
	require.NoError(t, SaveSnapshot(path, snapshot))

	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Iteration, loaded.Iteration)
	require.Len(t, loaded.Population, 1)
	assert.Equal(t, snapshot.Population[0].Error, loaded.Population[0].Error)
	assert.Equal(t, snapshot.Population[0].Network, loaded.Population[0].Network)
}
