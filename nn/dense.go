package nn

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// Dense is a fully connected layer computing act(W·x + b) in float32.
// W has one row per output neuron; row n holds the weights from every input.
type Dense struct {
	W   blas32.General
	B   []float32
	Act Activator
}

// NewDense wraps flat weights laid out as weights[p + n*in] without copying.
func NewDense(in, out int, weights, biases []float32, act Activator) *Dense {
	return &Dense{
		W: blas32.General{
			Rows:   out,
			Cols:   in,
			Stride: in,
			Data:   weights,
		},
		B:   biases,
		Act: act,
	}
}

// Forward returns a freshly allocated activation vector. The input length
// must equal the layer's input size; the model loader guarantees this.
func (d *Dense) Forward(in []float32) []float32 {
	out := d.Affine(in)
	Apply(d.Act, out)
	return out
}

// Affine returns W·x + b without the activation.
func (d *Dense) Affine(in []float32) []float32 {
	out := make([]float32, d.W.Rows)
	copy(out, d.B)
	blas32.Gemv(blas.NoTrans, 1, d.W,
		blas32.Vector{N: len(in), Data: in, Inc: 1},
		1, blas32.Vector{N: len(out), Data: out, Inc: 1})
	return out
}

// Dims returns the input and output sizes.
func (d *Dense) Dims() (in, out int) {
	return d.W.Cols, d.W.Rows
}
