package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/evmts/bytecode-core/analysis"
)

// fileConfig is the on-disk shape of an optional --config YAML file. Any
// field left at its zero value falls back to analysis.DefaultConfig().
type fileConfig struct {
	MaxRuntimeSize  int   `yaml:"max_runtime_size"`
	MaxInitcodeSize int   `yaml:"max_initcode_size"`
	FusionsEnabled  *bool `yaml:"fusions_enabled"`
	WordSizeHint    int   `yaml:"word_size_hint"`
}

func loadAnalysisConfig(path string) (analysis.Config, error) {
	cfg := analysis.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if fc.MaxRuntimeSize > 0 {
		cfg.MaxRuntimeSize = fc.MaxRuntimeSize
	}
	if fc.MaxInitcodeSize > 0 {
		cfg.MaxInitcodeSize = fc.MaxInitcodeSize
	}
	if fc.WordSizeHint > 0 {
		cfg.WordSizeHint = fc.WordSizeHint
	}
	if fc.FusionsEnabled != nil {
		cfg.FusionsEnabled = *fc.FusionsEnabled
	}

	return cfg, nil
}
