package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheEpicBlock/mid-journey/oklab"
)

func TestLoadDataset(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader(`{"sky blue": "#87ceeb", "black": "#000000"}`))
	require.NoError(t, err)
	assert.Equal(t, "#87ceeb", ds["sky blue"])

	_, err = LoadDataset(strings.NewReader(`["not", "an", "object"]`))
	assert.Error(t, err)
}

func TestScore(t *testing.T) {
	p := New(constantModel(t, 4, [3]float32{0.75, 0.5, 0.5}))
	report, err := p.Score(Dataset{
		"gray":  "#aeaeae",
		"black": "#000000",
	})
	require.NoError(t, err)
	require.Len(t, report.Entries, 2)

	// sorted by name
	assert.Equal(t, "black", report.Entries[0].Name)
	assert.Equal(t, "gray", report.Entries[1].Name)

	for _, e := range report.Entries {
		assert.Equal(t, oklab.RGB(0xAEAEAE), e.Predicted)
	}
	assert.InDelta(t, 0, report.Entries[1].Cost, 1e-4)
	assert.InDelta(t, 0.75*0.75/3, report.Entries[0].Cost, 1e-3)
	assert.InDelta(t, 0.75*0.75/6, report.MeanCost, 1e-3)
	assert.Equal(t, "black", report.Worst.Name)
	assert.Equal(t, oklab.RGB(0x000000), report.Worst.Expected)
	assert.Equal(t, 1, report.Truncated)
}

func TestScoreCountsTruncatedBytes(t *testing.T) {
	p := New(constantModel(t, 4, [3]float32{0.5, 0.5, 0.5}))
	// "café" has four characters but five bytes, so it exceeds an input length of 4.
	report, err := p.Score(Dataset{"café": "#6f4e37", "tea": "#d0f0c0"})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Truncated)
}

func TestScoreErrors(t *testing.T) {
	p := New(constantModel(t, 4, [3]float32{0.5, 0.5, 0.5}))

	_, err := p.Score(Dataset{})
	assert.Error(t, err)

	_, err = p.Score(Dataset{"bad": "green"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"bad"`)
}
