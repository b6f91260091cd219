package utils

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/TheEpicBlock/mid-journey/model"
)

// SaveModel writes m as a config file and a parameters file in the format
// model.LoadFiles reads back.
func SaveModel(configPath, paramsPath string, m *model.Model) error {
	if err := writeJSON(configPath, m.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	if err := writeJSON(paramsPath, m.Layers); err != nil {
		return fmt.Errorf("failed to save parameters: %w", err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
