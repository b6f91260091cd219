package model

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyConfig() Config {
	return Config{InputLength: 2, Layers: []int{4, 3}}
}

func tinyParams() []LayerParameters {
	return []LayerParameters{
		{Weights: make([]float32, 54*4), Biases: make([]float32, 4)},
		{Weights: make([]float32, 4*3), Biases: make([]float32, 3)},
	}
}

func TestLoadConfigTrailingWhitespace(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader("{\"input_length\": 3, \"layers\": [3]}\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.InputLength)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(strings.NewReader(`{"input_length": 32, "layers": [64, 16, 3], "percentage_training": 0.9}`))
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.InputLength)
	assert.Equal(t, []int{64, 16, 3}, cfg.Layers)
	assert.Equal(t, 32*27, cfg.FeatureCount())
	assert.Equal(t, 32*27, cfg.LayerInputSize(0))
	assert.Equal(t, 64, cfg.LayerInputSize(1))
	assert.Equal(t, 16, cfg.LayerInputSize(2))
}

func TestLoadConfigErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":        `{"input_length": 3`,
		"empty":            ``,
		"missing length":   `{"layers": [3]}`,
		"missing layers":   `{"input_length": 3}`,
		"empty layers":     `{"input_length": 3, "layers": []}`,
		"zero length":      `{"input_length": 0, "layers": [3]}`,
		"negative layer":   `{"input_length": 3, "layers": [-1, 3]}`,
		"last layer not 3": `{"input_length": 3, "layers": [3, 4]}`,
		"length overflow":  `{"input_length": 683212743470724135, "layers": [3]}`,
		"trailing garbage": `{"input_length": 3, "layers": [3]}xyz`,
		"second value":     `{"input_length": 3, "layers": [3]} {}`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, IsConfigError(err), "got %T: %v", err, err)
		})
	}
}

func TestLoadParameters(t *testing.T) {
	params, err := LoadParameters(strings.NewReader(`[{"weights": [1, 0.5], "biases": [0.25]}, {"weights": [2], "biases": [-1]}]`))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, []float32{1, 0.5}, params[0].Weights)
	assert.Equal(t, []float32{-1}, params[1].Biases)
}

func TestLoadParametersErrors(t *testing.T) {
	cases := map[string]string{
		"malformed":       `[{"weights": [1]`,
		"null":            `null`,
		"not array":       `{"weights": []}`,
		"missing weights": `[{"biases": [1]}]`,
		"missing biases":  `[{"weights": [1]}]`,
		"overflow":        `[{"weights": [1e300], "biases": [1]}]`,
		"trailing":        `[{"weights": [1], "biases": [1]}]xyz`,
		"extra bracket":   `[{"weights": [1], "biases": [1]}]]`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadParameters(strings.NewReader(src))
			require.Error(t, err)
			assert.True(t, IsConfigError(err))
		})
	}
}

func TestNew(t *testing.T) {
	m, err := New(tinyConfig(), tinyParams())
	require.NoError(t, err)
	assert.Equal(t, 54, m.FeatureCount())
	assert.Len(t, m.Layers, 2)
}

func TestNewDimensionInvariant(t *testing.T) {
	m, err := Random(Config{InputLength: 5, Layers: []int{7, 6, 3}}, 1)
	require.NoError(t, err)
	for k, p := range m.Layers {
		assert.Equal(t, len(p.Biases)*m.Config.LayerInputSize(k), len(p.Weights), "layer %d", k)
	}
}

func TestNewRejectsMismatches(t *testing.T) {
	t.Run("layer count", func(t *testing.T) {
		_, err := New(tinyConfig(), tinyParams()[:1])
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
	t.Run("weights", func(t *testing.T) {
		p := tinyParams()
		p[1].Weights = p[1].Weights[:11]
		_, err := New(tinyConfig(), p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "layer 1")
	})
	t.Run("biases", func(t *testing.T) {
		p := tinyParams()
		p[0].Biases = append(p[0].Biases, 0)
		_, err := New(tinyConfig(), p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "biases")
	})
	t.Run("not finite", func(t *testing.T) {
		p := tinyParams()
		p[0].Weights[3] = float32(posInf())
		_, err := New(tinyConfig(), p)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not finite")
	})
	t.Run("input length overflow", func(t *testing.T) {
		// 683212743470724135 * 27 wraps to 29 in 64-bit arithmetic.
		cfg := Config{InputLength: 683212743470724135, Layers: []int{3}}
		_, err := New(cfg, []LayerParameters{{Weights: make([]float32, 29*3), Biases: make([]float32, 3)}})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
	t.Run("weight count overflow", func(t *testing.T) {
		// (2^62 + 1) * 4 wraps to 4.
		p := LayerParameters{Weights: make([]float32, 4), Biases: make([]float32, 4)}
		err := p.checkShape(1, 1<<62+1, 4)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "overflow")
	})
	t.Run("bad config", func(t *testing.T) {
		_, err := New(Config{InputLength: 2, Layers: []int{4, 2}}, tinyParams())
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})
}

func posInf() float64 {
	zero := 0.0
	return 1 / zero
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nn_config.json")
	paramsPath := filepath.Join(dir, "parameters.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"input_length": 1, "layers": [3]}`), 0644))

	weights := make([]string, 27*3)
	for i := range weights {
		weights[i] = "0"
	}
	params := `[{"weights": [` + strings.Join(weights, ",") + `], "biases": [0.5, 0.25, 0.125]}]`
	require.NoError(t, os.WriteFile(paramsPath, []byte(params), 0644))

	m, err := LoadFiles(cfgPath, paramsPath)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, 0.125}, m.Layers[0].Biases)

	_, err = LoadFiles(filepath.Join(dir, "missing.json"), paramsPath)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
	assert.Contains(t, err.Error(), "missing.json")

	require.NoError(t, os.WriteFile(paramsPath, []byte(`[{"weights": [1], "biases": [1, 2, 3]}]`), 0644))
	_, err = LoadFiles(cfgPath, paramsPath)
	require.Error(t, err)
	assert.True(t, IsConfigError(err))
}

func TestRandomDeterministic(t *testing.T) {
	cfg := Config{InputLength: 3, Layers: []int{5, 3}}
	a, err := Random(cfg, 42)
	require.NoError(t, err)
	b, err := Random(cfg, 42)
	require.NoError(t, err)
	assert.Equal(t, a.Layers, b.Layers)

	bound := float32(1 / 9.0) // 1/sqrt(81)
	for _, w := range a.Layers[0].Weights {
		assert.LessOrEqual(t, w, bound)
		assert.GreaterOrEqual(t, w, -bound)
	}

	_, err = Random(Config{InputLength: 3, Layers: []int{5}}, 1)
	assert.True(t, IsConfigError(err))
}
