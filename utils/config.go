package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/TheEpicBlock/mid-journey/model"
	"github.com/TheEpicBlock/mid-journey/split"
)

// Options holds the command-line settings shared by the CLIs.
type Options struct {
	ConfigPath  string
	ParamsPath  string
	InputLength int   // demo model only
	Layers      []int // demo model only
	Seed        uint64
	DatasetPath string
	Private     bool
	LogN        int
}

// Demo reports whether no model files were given.
func (o *Options) Demo() bool {
	return o.ConfigPath == "" && o.ParamsPath == ""
}

// ParseLayers parses a layer list such as "16 8 3" or "16,8,3".
func ParseLayers(s string) ([]int, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	layers := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = n
	}
	return layers, nil
}

// ValidateOptions validates the CLI options
func ValidateOptions(o *Options) error {
	if (o.ConfigPath == "") != (o.ParamsPath == "") {
		return fmt.Errorf("-config and -params must be given together")
	}

	if o.Demo() {
		if o.InputLength <= 0 {
			return fmt.Errorf("input length must be positive")
		}
		if len(o.Layers) == 0 || o.Layers[len(o.Layers)-1] != model.OutputSize {
			return fmt.Errorf("layers must end in %d, got %v", model.OutputSize, o.Layers)
		}
		for i, n := range o.Layers {
			if n <= 0 {
				return fmt.Errorf("layer %d must be positive, got %d", i, n)
			}
		}
	}

	if o.Private && o.DatasetPath != "" {
		return fmt.Errorf("-dataset is scored in plaintext and cannot be combined with -private")
	}

	if o.Private && (o.LogN < split.MinLogN || o.LogN > split.MaxLogN) {
		return fmt.Errorf("logN must be in [%d, %d]", split.MinLogN, split.MaxLogN)
	}

	return nil
}
