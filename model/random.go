package model

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Random builds a synthetic model with uniformly distributed weights scaled
// by the fan-in, the same initialisation the trainer starts from. The same
// seed always yields the same model.
func Random(cfg Config, seed uint64) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	src := rand.NewSource(seed)
	params := make([]LayerParameters, len(cfg.Layers))
	for k, size := range cfg.Layers {
		in := cfg.LayerInputSize(k)
		params[k] = LayerParameters{
			Weights: randomArray(in*size, float64(in), src),
			Biases:  randomArray(size, float64(in), src),
		}
	}
	return New(cfg, params)
}

func randomArray(size int, v float64, src rand.Source) []float32 {
	dist := distuv.Uniform{
		Min: -1 / math.Sqrt(v),
		Max: 1 / math.Sqrt(v),
		Src: src,
	}

	data := make([]float32, size)
	for i := 0; i < size; i++ {
		data[i] = float32(dist.Rand())
	}
	return data
}
