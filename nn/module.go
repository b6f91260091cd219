// Package nn evaluates the feedforward colour network.
package nn

import "github.com/TheEpicBlock/mid-journey/model"

// Module defines a single layer/unit in the network.
type Module interface {
	Forward(in []float32) []float32
	Dims() (in, out int)
}

// Sequential chains multiple Modules in order.
type Sequential struct {
	Layers []Module
}

// FromModel builds one leaky-rectified Dense layer per model layer. The
// weights are shared with m, not copied; both are read-only afterwards.
func FromModel(m *model.Model) *Sequential {
	seq := &Sequential{Layers: make([]Module, len(m.Layers))}
	for k, p := range m.Layers {
		seq.Layers[k] = NewDense(m.Config.LayerInputSize(k), m.Config.Layers[k], p.Weights, p.Biases, LeakyReLU{})
	}
	return seq
}

// Forward applies each layer in sequence.
func (s *Sequential) Forward(x []float32) []float32 {
	return s.ForwardFrom(0, x)
}

// ForwardFrom applies layers[start:] to x, which must be the output of layer start-1.
func (s *Sequential) ForwardFrom(start int, x []float32) []float32 {
	out := x
	for _, layer := range s.Layers[start:] {
		out = layer.Forward(out)
	}
	return out
}

// Dims returns the input size of the first layer and the output size of the last.
func (s *Sequential) Dims() (in, out int) {
	if len(s.Layers) == 0 {
		return 0, 0
	}
	in, _ = s.Layers[0].Dims()
	_, out = s.Layers[len(s.Layers)-1].Dims()
	return in, out
}
