// Package config holds the driver configuration for lowmoments.
package config

import (
	"errors"
	"fmt"
	"momentsdb/core"
	"momentsdb/table"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

const (
	BackendMemory = "memory"
	BackendBadger = "badger"

	// MaxBufferSize is the largest number of rows a stream buffers per block.
	MaxBufferSize = 1 << 24
)

// DefaultDatasets are the four CSR blocks shipped under data/online.
var DefaultDatasets = []string{
	"covcormoments_csr_1.csv",
	"covcormoments_csr_2.csv",
	"covcormoments_csr_3.csv",
	"covcormoments_csr_4.csv",
}

type Config struct {
	// Input
	DataDir  string   `yaml:"dataDir"`
	Datasets []string `yaml:"datasets"`
	Format   string   `yaml:"format"`
	Features int      `yaml:"features"` // CSR feature count, 0 infers it per block

	// Computation
	BufferSize int64  `yaml:"bufferSize"`
	Workers    int    `yaml:"workers"`
	Backend    string `yaml:"backend"`
	BadgerPath string `yaml:"badgerPath"` // empty keeps badger in memory

	CacheEnabled bool `yaml:"cacheEnabled"`

	// Output
	PrintRows int      `yaml:"printRows"`
	PrintCols int      `yaml:"printCols"`
	Results   []string `yaml:"results"` // empty prints all statistics
	LogLevel  string   `yaml:"logLevel"`
}

func Default() *Config {
	return &Config{
		DataDir:      filepath.Join("data", "online"),
		Datasets:     append([]string(nil), DefaultDatasets...),
		Format:       string(table.FormatCSR),
		Features:     0,
		BufferSize:   core.DefaultBufferSize,
		Workers:      4,
		Backend:      BackendMemory,
		BadgerPath:   "",
		CacheEnabled: true,
		PrintRows:    0,
		PrintCols:    0,
		Results:      nil,
		LogLevel:     "info",
	}
}

// Load reads a YAML file over the defaults; fields the file leaves out keep
// their default values. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every field that the driver cannot fix up itself.
func (cfg *Config) Validate() error {
	if len(cfg.Datasets) == 0 {
		return fmt.Errorf("%w: no datasets", ErrInvalidConfig)
	}
	if _, err := table.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if cfg.Features < 0 {
		return fmt.Errorf("%w: features %d", ErrInvalidConfig, cfg.Features)
	}
	if cfg.BufferSize < 0 || cfg.BufferSize > MaxBufferSize {
		return fmt.Errorf("%w: bufferSize %d", ErrInvalidConfig, cfg.BufferSize)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, cfg.Workers)
	}
	switch cfg.Backend {
	case BackendMemory, BackendBadger:
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, cfg.Backend)
	}
	if cfg.PrintRows < 0 || cfg.PrintCols < 0 {
		return fmt.Errorf("%w: negative print limits", ErrInvalidConfig)
	}
	if _, err := core.NewOpSet(cfg.Results); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := cfg.Level(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (cfg *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(cfg.LogLevel)
}

// DatasetPaths joins every dataset onto DataDir. Absolute dataset paths are
// kept as they are.
func (cfg *Config) DatasetPaths() []string {
	paths := make([]string, len(cfg.Datasets))
	for i, name := range cfg.Datasets {
		if filepath.IsAbs(name) {
			paths[i] = name
		} else {
			paths[i] = filepath.Join(cfg.DataDir, name)
		}
	}
	return paths
}
