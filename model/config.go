package model

import (
	"encoding/json"
	"errors"
	"io"
	"math"
)

// Channels is the width of one one-hot character block: 26 letters plus "other".
const Channels = 27

// OutputSize is the number of network outputs consumed by the colour decoder.
const OutputSize = 3

// Config describes the network topology.
type Config struct {
	InputLength int   `json:"input_length"`
	Layers      []int `json:"layers"`
}

// configJSON distinguishes absent fields from zero values.
type configJSON struct {
	InputLength *int  `json:"input_length"`
	Layers      []int `json:"layers"`
}

// LoadConfig parses a config resource of the form
// {"input_length": 32, "layers": [64, 3]}. Unknown fields are ignored so the
// trainer's own settings may share the file.
func LoadConfig(r io.Reader) (Config, error) {
	var raw configJSON
	if err := decodeJSON(r, &raw); err != nil {
		return Config{}, &ConfigError{Resource: "config", Reason: "malformed JSON", Err: err}
	}
	if raw.InputLength == nil {
		return Config{}, configErrorf("config", "missing field input_length")
	}
	if raw.Layers == nil {
		return Config{}, configErrorf("config", "missing field layers")
	}
	cfg := Config{InputLength: *raw.InputLength, Layers: raw.Layers}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the topology invariants independent of any parameters.
func (c Config) Validate() error {
	if c.InputLength <= 0 {
		return configErrorf("config", "input_length must be positive, got %d", c.InputLength)
	}
	if c.InputLength > math.MaxInt/Channels {
		return configErrorf("config", "input_length %d is too large", c.InputLength)
	}
	if len(c.Layers) == 0 {
		return configErrorf("config", "layers must not be empty")
	}
	for i, size := range c.Layers {
		if size <= 0 {
			return configErrorf("config", "layer %d has non-positive size %d", i, size)
		}
	}
	if last := c.Layers[len(c.Layers)-1]; last != OutputSize {
		return configErrorf("config", "last layer must have %d outputs, got %d", OutputSize, last)
	}
	return nil
}

// FeatureCount is the length of the encoded input vector.
func (c Config) FeatureCount() int {
	return c.InputLength * Channels
}

// LayerInputSize returns the number of inputs feeding layer k.
func (c Config) LayerInputSize(k int) int {
	if k == 0 {
		return c.FeatureCount()
	}
	return c.Layers[k-1]
}

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeJSON decodes exactly one JSON value from r. Anything other than
// whitespace after it is an error.
func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errTrailingData
	}
	return nil
}
