package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// DefaultPresetAmounts are the quick-select top-up amounts shown when no
// presets file is configured.
var DefaultPresetAmounts = []int64{10_000, 20_000, 50_000, 100_000, 250_000, 500_000}

type PresetsConfig struct {
	Amounts []int64 `yaml:"amounts"`
}

// LoadPresetAmounts reads quick-select top-up amounts from a yaml file.
// An empty path yields the defaults.
func LoadPresetAmounts(presetsFile string) ([]int64, error) {
	if presetsFile == "" {
		return DefaultPresetAmounts, nil
	}

	var presetsPath string
	if filepath.IsAbs(presetsFile) {
		presetsPath = presetsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		presetsPath = filepath.Join(wd, presetsFile)
	}

	data, err := os.ReadFile(presetsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", presetsFile, err)
	}

	var config PresetsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", presetsFile, err)
	}

	for i, amount := range config.Amounts {
		if amount <= 0 {
			return nil, fmt.Errorf("preset amount at index %d must be positive", i)
		}
	}

	if len(config.Amounts) == 0 {
		return DefaultPresetAmounts, nil
	}
	return config.Amounts, nil
}
