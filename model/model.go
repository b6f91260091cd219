// Package model loads and validates the trained network description.
package model

import (
	"fmt"
	"os"
)

// Model is the immutable context every evaluation reads from. It is built
// once at startup and never mutated, so it can be shared between goroutines.
type Model struct {
	Config Config
	Layers []LayerParameters
}

// New validates cfg and params against each other and bundles them.
func New(cfg Config, params []LayerParameters) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(params) != len(cfg.Layers) {
		return nil, configErrorf("parameters", "expected %d layers, got %d", len(cfg.Layers), len(params))
	}
	for k, p := range params {
		if err := p.checkShape(k, cfg.LayerInputSize(k), cfg.Layers[k]); err != nil {
			return nil, err
		}
	}
	return &Model{Config: cfg, Layers: params}, nil
}

// LoadFiles reads the config and parameters resources from disk.
func LoadFiles(configPath, paramsPath string) (*Model, error) {
	cf, err := os.Open(configPath)
	if err != nil {
		return nil, &ConfigError{Resource: configPath, Reason: "cannot open config", Err: err}
	}
	defer cf.Close()
	cfg, err := LoadConfig(cf)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", configPath, err)
	}

	pf, err := os.Open(paramsPath)
	if err != nil {
		return nil, &ConfigError{Resource: paramsPath, Reason: "cannot open parameters", Err: err}
	}
	defer pf.Close()
	params, err := LoadParameters(pf)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", paramsPath, err)
	}

	m, err := New(cfg, params)
	if err != nil {
		return nil, fmt.Errorf("validating %s against %s: %w", paramsPath, configPath, err)
	}
	return m, nil
}

// FeatureCount is the length of the encoded input vector.
func (m *Model) FeatureCount() int {
	return m.Config.FeatureCount()
}
