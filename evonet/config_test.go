package evonet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadApplyConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "apply.json", `{"threshold": 1e-4}`)
	conf, err := LoadApplyConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-4, conf.Threshold)
}

func TestLoadTrainConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "train.json",
		`{"threshold": 1e-4, "max_function_calls_count": 1000}`)
	conf, err := LoadTrainConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-4, conf.Threshold)
	assert.Equal(t, 1000, conf.MaxFunctionCalls)
}

func TestLoadEvolveConfigJSON(t *testing.T) {
	path := writeTempConfig(t, "evolve.json", `{
		"threshold": 1e-4,
		"max_function_calls_count": 1000,
		"error": 1e-3,
		"population_size": 4,
		"iterations_count": 10
	}`)
	conf, err := LoadEvolveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1e-4, conf.Threshold)
	assert.Equal(t, 1000, conf.MaxFunctionCalls)
	assert.Equal(t, 1e-3, conf.TargetError)
	assert.Equal(t, 4, conf.PopulationSize)
	assert.Equal(t, 10, conf.Iterations)
}

func TestLoadEvolveConfigINI(t *testing.T) {
	path := writeTempConfig(t, "evolve.ini", `
threshold = 0.0001
max_function_calls_count = 1000
error = 0.001
population_size = 4
iterations_count = 10
`)
	conf, err := LoadEvolveConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0.0001, conf.Threshold)
	assert.Equal(t, 1000, conf.MaxFunctionCalls)
	assert.Equal(t, 0.001, conf.TargetError)
	assert.Equal(t, 4, conf.PopulationSize)
	assert.Equal(t, 10, conf.Iterations)
}

func TestLoadConfigRejectsMalformedJSON(t *testing.T) {
	path := writeTempConfig(t, "broken.json", `{"threshold":`)
	_, err := LoadApplyConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadApplyConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestApplyConfigValidation(t *testing.T) {
	conf := &ApplyConfig{Threshold: 0}
	assert.ErrorIs(t, conf.Validate(), ErrBadConfig)
	conf.Threshold = 1e-4
	assert.NoError(t, conf.Validate())
}

func TestTrainConfigValidation(t *testing.T) {
	conf := &TrainConfig{ApplyConfig: ApplyConfig{Threshold: 1e-4}}
	assert.ErrorIs(t, conf.Validate(), ErrBadConfig)
	conf.MaxFunctionCalls = 100
	assert.NoError(t, conf.Validate())
}

func TestEvolveConfigValidation(t *testing.T) {
	conf := &EvolveConfig{
		TrainConfig: TrainConfig{
			ApplyConfig:      ApplyConfig{Threshold: 1e-4},
			MaxFunctionCalls: 100,
		},
		PopulationSize: 3,
		Iterations:     1,
	}
	assert.ErrorIs(t, conf.Validate(), ErrBadConfig, "odd population must be rejected")
	conf.PopulationSize = 1
	assert.ErrorIs(t, conf.Validate(), ErrBadConfig, "population of one must be rejected")
	conf.PopulationSize = 4
	assert.NoError(t, conf.Validate())
}
