package model

import (
	"io"
	"math"
)

// LayerParameters holds one layer's flat weight matrix and bias vector.
// Weights are laid out so that the weight from input p to neuron n is
// Weights[p + n*inputs].
type LayerParameters struct {
	Weights []float32 `json:"weights"`
	Biases  []float32 `json:"biases"`
}

// LoadParameters parses a parameters resource: an ordered JSON array of
// {"weights": [...], "biases": [...]} objects, one per layer.
func LoadParameters(r io.Reader) ([]LayerParameters, error) {
	var params []LayerParameters
	if err := decodeJSON(r, &params); err != nil {
		return nil, &ConfigError{Resource: "parameters", Reason: "malformed JSON", Err: err}
	}
	if params == nil {
		return nil, configErrorf("parameters", "expected an array of layers")
	}
	for i, p := range params {
		if p.Weights == nil {
			return nil, configErrorf("parameters", "layer %d: missing field weights", i)
		}
		if p.Biases == nil {
			return nil, configErrorf("parameters", "layer %d: missing field biases", i)
		}
	}
	return params, nil
}

// checkShape verifies one layer against the sizes the config implies.
func (p LayerParameters) checkShape(layer, inputs, outputs int) error {
	if len(p.Biases) != outputs {
		return configErrorf("parameters", "layer %d: expected %d biases, got %d", layer, outputs, len(p.Biases))
	}
	if inputs > math.MaxInt/outputs {
		return configErrorf("parameters", "layer %d: %d x %d weights overflow", layer, inputs, outputs)
	}
	if len(p.Weights) != inputs*outputs {
		return configErrorf("parameters", "layer %d: expected %d weights (%d x %d), got %d",
			layer, inputs*outputs, inputs, outputs, len(p.Weights))
	}
	if i, ok := firstNonFinite(p.Weights); ok {
		return configErrorf("parameters", "layer %d: weight %d is not finite", layer, i)
	}
	if i, ok := firstNonFinite(p.Biases); ok {
		return configErrorf("parameters", "layer %d: bias %d is not finite", layer, i)
	}
	return nil
}

func firstNonFinite(values []float32) (int, bool) {
	for i, v := range values {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return i, true
		}
	}
	return 0, false
}
