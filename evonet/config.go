package evonet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

// ApplyConfig controls signal propagation. A pulse whose magnitude has
// absolute value at or below Threshold is dropped, which is what bounds
// propagation through cycles.
type ApplyConfig struct {
	Threshold float64 `json:"threshold" ini:"threshold"`
}

// TrainConfig controls weight training: the propagation settings plus
// the budget of objective evaluations granted to the optimiser.
type TrainConfig struct {
	ApplyConfig
	MaxFunctionCalls int `json:"max_function_calls_count" ini:"max_function_calls_count"`
}

// EvolveConfig controls the evolutionary loop: the training settings
// plus the population shape and termination criteria.
type EvolveConfig struct {
	TrainConfig
	TargetError    float64 `json:"error" ini:"error"`
	PopulationSize int     `json:"population_size" ini:"population_size"`
	Iterations     int     `json:"iterations_count" ini:"iterations_count"`
}

// Validate checks the propagation settings.
func (c *ApplyConfig) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %v", ErrBadConfig, c.Threshold)
	}
	return nil
}

// Validate checks the training settings.
func (c *TrainConfig) Validate() error {
	if err := c.ApplyConfig.Validate(); err != nil {
		return err
	}
	if c.MaxFunctionCalls <= 0 {
		return fmt.Errorf("%w: max_function_calls_count must be positive, got %d", ErrBadConfig, c.MaxFunctionCalls)
	}
	return nil
}

// Validate checks the evolution settings.
func (c *EvolveConfig) Validate() error {
	if err := c.TrainConfig.Validate(); err != nil {
		return err
	}
	if c.TargetError < 0 {
		return fmt.Errorf("%w: error cannot be negative, got %v", ErrBadConfig, c.TargetError)
	}
	if c.PopulationSize <= 1 {
		return fmt.Errorf("%w: population_size must be greater than 1, got %d", ErrBadConfig, c.PopulationSize)
	}
	if c.PopulationSize%2 != 0 {
		return fmt.Errorf("%w: population_size must be even, got %d", ErrBadConfig, c.PopulationSize)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations_count cannot be negative, got %d", ErrBadConfig, c.Iterations)
	}
	return nil
}

// LoadApplyConfig reads an ApplyConfig from a JSON or INI file.
func LoadApplyConfig(path string) (*ApplyConfig, error) {
	conf := &ApplyConfig{}
	if err := loadConfig(path, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadTrainConfig reads a TrainConfig from a JSON or INI file.
func LoadTrainConfig(path string) (*TrainConfig, error) {
	conf := &TrainConfig{}
	if err := loadConfig(path, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadEvolveConfig reads an EvolveConfig from a JSON or INI file.
func LoadEvolveConfig(path string) (*EvolveConfig, error) {
	conf := &EvolveConfig{}
	if err := loadConfig(path, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// loadConfig dispatches on the file extension: .ini files go through
// the INI reader, everything else is treated as JSON.
func loadConfig(path string, conf interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".ini") {
		return loadINIConfig(path, data, conf)
	}
	if err := json.Unmarshal(data, conf); err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	return nil
}

func loadINIConfig(path string, data []byte, conf interface{}) error {
	file, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, data)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", path, err)
	}
	section := file.Section("")
	switch c := conf.(type) {
	case *ApplyConfig:
		return mapApplySection(section, c)
	case *TrainConfig:
		if err := mapApplySection(section, &c.ApplyConfig); err != nil {
			return err
		}
		return mapTrainSection(section, c)
	case *EvolveConfig:
		if err := mapApplySection(section, &c.ApplyConfig); err != nil {
			return err
		}
		if err := mapTrainSection(section, &c.TrainConfig); err != nil {
			return err
		}
		return mapEvolveSection(section, c)
	default:
		return fmt.Errorf("%w: unsupported config type %T", ErrBadConfig, conf)
	}
}

func mapApplySection(section *ini.Section, conf *ApplyConfig) error {
	key, err := section.GetKey("threshold")
	if err != nil {
		return fmt.Errorf("failed to map threshold: %w", err)
	}
	if conf.Threshold, err = key.Float64(); err != nil {
		return fmt.Errorf("failed to map threshold: %w", err)
	}
	return nil
}

func mapTrainSection(section *ini.Section, conf *TrainConfig) error {
	key, err := section.GetKey("max_function_calls_count")
	if err != nil {
		return fmt.Errorf("failed to map max_function_calls_count: %w", err)
	}
	if conf.MaxFunctionCalls, err = key.Int(); err != nil {
		return fmt.Errorf("failed to map max_function_calls_count: %w", err)
	}
	return nil
}

func mapEvolveSection(section *ini.Section, conf *EvolveConfig) error {
	key, err := section.GetKey("error")
	if err != nil {
		return fmt.Errorf("failed to map error: %w", err)
	}
	if conf.TargetError, err = key.Float64(); err != nil {
		return fmt.Errorf("failed to map error: %w", err)
	}
	if key, err = section.GetKey("population_size"); err != nil {
		return fmt.Errorf("failed to map population_size: %w", err)
	}
	if conf.PopulationSize, err = key.Int(); err != nil {
		return fmt.Errorf("failed to map population_size: %w", err)
	}
	if key, err = section.GetKey("iterations_count"); err != nil {
		return fmt.Errorf("failed to map iterations_count: %w", err)
	}
	if conf.Iterations, err = key.Int(); err != nil {
		return fmt.Errorf("failed to map iterations_count: %w", err)
	}
	return nil
}
