package split

import (
	"fmt"

	"github.com/tuneinsight/lattigo/v5/core/rlwe"
	"github.com/tuneinsight/lattigo/v5/he/hefloat"
	"gonum.org/v1/gonum/mat"

	"github.com/TheEpicBlock/mid-journey/model"
)

// Server owns the first layer's weights and evaluates it over ciphertexts.
// An Evaluator is not safe for concurrent use, so neither is Server.
type Server struct {
	params  hefloat.Parameters
	eval    *hefloat.Evaluator
	weights *mat.Dense // one row per neuron, bias in the last column
	rows    []*rlwe.Plaintext
	width   int
}

// NewServer pre-encodes every neuron's weight row, bias appended, as a plaintext.
func NewServer(params hefloat.Parameters, evk rlwe.EvaluationKeySet, first model.LayerParameters, features int) (*Server, error) {
	neurons := len(first.Biases)
	if len(first.Weights) != neurons*features {
		return nil, fmt.Errorf("first layer has %d weights, want %d x %d", len(first.Weights), neurons, features)
	}
	width := slotWidth(features)
	if width > maxSlots(params) {
		return nil, fmt.Errorf("%d features need %d slots, ring has %d", features, width, maxSlots(params))
	}

	weights := mat.NewDense(neurons, features+1, nil)
	for n := 0; n < neurons; n++ {
		for p := 0; p < features; p++ {
			weights.Set(n, p, float64(first.Weights[p+n*features]))
		}
		weights.Set(n, features, float64(first.Biases[n]))
	}

	encoder := hefloat.NewEncoder(params)
	rows := make([]*rlwe.Plaintext, neurons)
	for n := range rows {
		values := make([]float64, width)
		copy(values, weights.RawRowView(n))
		rows[n] = hefloat.NewPlaintext(params, params.MaxLevel())
		if err := encoder.Encode(values, rows[n]); err != nil {
			return nil, fmt.Errorf("encoding neuron %d: %w", n, err)
		}
	}

	return &Server{
		params:  params,
		eval:    hefloat.NewEvaluator(params, evk),
		weights: weights,
		rows:    rows,
		width:   width,
	}, nil
}

// Neurons returns the first layer's output size.
func (s *Server) Neurons() int {
	r, _ := s.weights.Dims()
	return r
}

// Evaluate multiplies the encrypted features by every weight row and folds
// the products into slot 0 with log2(width) rotations.
func (s *Server) Evaluate(ctBytes []byte) ([][]byte, error) {
	ct := new(rlwe.Ciphertext)
	if err := ct.UnmarshalBinary(ctBytes); err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}

	out := make([][]byte, len(s.rows))
	for n, row := range s.rows {
		prod, err := s.eval.MulNew(ct, row)
		if err != nil {
			return nil, fmt.Errorf("neuron %d: %w", n, err)
		}
		for k := 1; k < s.width; k *= 2 {
			rot, err := s.eval.RotateNew(prod, k)
			if err != nil {
				return nil, fmt.Errorf("neuron %d: rotate %d: %w", n, k, err)
			}
			if err := s.eval.Add(prod, rot, prod); err != nil {
				return nil, fmt.Errorf("neuron %d: %w", n, err)
			}
		}
		if out[n], err = prod.MarshalBinary(); err != nil {
			return nil, fmt.Errorf("neuron %d: %w", n, err)
		}
	}
	return out, nil
}
