// Package pipeline wires the encoder, network and colour decoder into the
// single text -> colour function the rest of the system depends on.
package pipeline

import (
	"time"

	"github.com/TheEpicBlock/mid-journey/encoder"
	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/nn"
	"github.com/TheEpicBlock/mid-journey/oklab"
)

// Evaluate maps text to a packed sRGB colour. cfg and params must describe a
// consistent model (see model.New); the function does not re-validate them.
func Evaluate(text string, cfg model.Config, params []model.LayerParameters) oklab.RGB {
	m := &model.Model{Config: cfg, Layers: params}
	return New(m).Predict(text).RGB
}

// Result is one prediction.
type Result struct {
	Text   string
	Scaled oklab.Scaled
	RGB    oklab.RGB
}

// Predictor evaluates text against a loaded model. It holds no mutable state
// and may be shared by concurrent callers.
type Predictor struct {
	model *model.Model
	net   *nn.Sequential
}

// New builds a Predictor over m.
func New(m *model.Model) *Predictor {
	return &Predictor{model: m, net: nn.FromModel(m)}
}

// Model returns the model the predictor evaluates.
func (p *Predictor) Model() *model.Model {
	return p.model
}

// Network returns the layer stack built from the model.
func (p *Predictor) Network() *nn.Sequential {
	return p.net
}

// Timings holds how long each stage of one prediction took.
type Timings struct {
	Encode  time.Duration
	Forward time.Duration
	Decode  time.Duration
}

// Predict encodes text, runs the network and decodes the output.
func (p *Predictor) Predict(text string) Result {
	return p.predict(text, nil)
}

// PredictTimed is Predict, also reporting the time spent in each stage.
func (p *Predictor) PredictTimed(text string) (Result, Timings) {
	var t Timings
	res := p.predict(text, &t)
	return res, t
}

func (p *Predictor) predict(text string, t *Timings) Result {
	var start time.Time
	if t != nil {
		start = time.Now()
	}
	features := encoder.Encode(text, p.model.Config.InputLength)
	if t != nil {
		t.Encode = time.Since(start)
		start = time.Now()
	}
	out := p.net.Forward(features.Data)
	if t != nil {
		t.Forward = time.Since(start)
		start = time.Now()
	}
	scaled := oklab.FromNetwork(out)
	res := Result{
		Text:   text,
		Scaled: scaled,
		RGB:    oklab.Decode(scaled),
	}
	if t != nil {
		t.Decode = time.Since(start)
	}
	return res
}
