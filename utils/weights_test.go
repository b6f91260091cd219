package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/TheEpicBlock/mid-journey/model"
)

func TestSaveModelRoundTrip(t *testing.T) {
	m, err := model.Random(model.Config{InputLength: 3, Layers: []int{4, 3}}, 5)
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")
	paramsPath := filepath.Join(dir, "params.json")
	if err := SaveModel(configPath, paramsPath, m); err != nil {
		t.Fatalf("SaveModel: %v", err)
	}

	loaded, err := model.LoadFiles(configPath, paramsPath)
	if err != nil {
		t.Fatalf("LoadFiles: %v", err)
	}
	if loaded.Config.InputLength != 3 || len(loaded.Config.Layers) != 2 {
		t.Errorf("config = %+v", loaded.Config)
	}
	for k := range m.Layers {
		for i, w := range m.Layers[k].Weights {
			if loaded.Layers[k].Weights[i] != w {
				t.Fatalf("layer %d weight %d = %v, want %v", k, i, loaded.Layers[k].Weights[i], w)
			}
		}
		for i, b := range m.Layers[k].Biases {
			if loaded.Layers[k].Biases[i] != b {
				t.Fatalf("layer %d bias %d = %v, want %v", k, i, loaded.Layers[k].Biases[i], b)
			}
		}
	}
}

func TestSaveModelBadPath(t *testing.T) {
	m, err := model.Random(model.Config{InputLength: 1, Layers: []int{3}}, 1)
	if err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(t.TempDir(), "missing", "config.json")
	if err := SaveModel(missing, missing, m); err == nil {
		t.Fatal("expected error for missing directory")
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Errorf("unexpected file at %s", missing)
	}
}
