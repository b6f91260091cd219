package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/TheEpicBlock/mid-journey/encoder"
	"github.com/TheEpicBlock/mid-journey/nn"
	"github.com/TheEpicBlock/mid-journey/oklab"
)

// Dataset maps colour names to their hex value, e.g. {"sky blue": "#87ceeb"}.
// It is the same format the trainer reads its examples from.
type Dataset map[string]string

// LoadDataset parses a JSON object of name -> "#rrggbb".
func LoadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("parsing dataset: %w", err)
	}
	return ds, nil
}

// Entry is the score of one dataset name.
type Entry struct {
	Name      string
	Expected  oklab.RGB
	Predicted oklab.RGB
	Cost      float64
}

// Report summarises how closely a model reproduces a dataset.
type Report struct {
	Entries   []Entry
	MeanCost  float64
	Worst     Entry
	Truncated int // names cut to the model's input length before predicting
}

// Score predicts every entry of ds and measures the mean squared error in
// scaled OkLab space. Over-long names are truncated first, as in training.
// Entries are visited in name order.
func (p *Predictor) Score(ds Dataset) (Report, error) {
	if len(ds) == 0 {
		return Report{}, fmt.Errorf("dataset is empty")
	}

	names := make([]string, 0, len(ds))
	for name := range ds {
		names = append(names, name)
	}
	sort.Strings(names)

	inputLength := p.model.Config.InputLength
	var report Report
	costs := make([]float64, 0, len(names))
	for _, name := range names {
		expected, err := oklab.ParseHex(ds[name])
		if err != nil {
			return Report{}, fmt.Errorf("entry %q: %w", name, err)
		}
		input := encoder.Truncate(name, inputLength)
		if input != name {
			report.Truncated++
		}
		res := p.Predict(input)
		entry := Entry{
			Name:      name,
			Expected:  expected,
			Predicted: res.RGB,
			Cost:      nn.MSE(oklab.ToScaled(expected).Slice(), res.Scaled.Slice()),
		}
		report.Entries = append(report.Entries, entry)
		costs = append(costs, entry.Cost)
	}

	report.MeanCost = floats.Sum(costs) / float64(len(costs))
	report.Worst = report.Entries[floats.MaxIdx(costs)]
	return report, nil
}
