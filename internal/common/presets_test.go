package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writePresetsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write presets file: %v", err)
	}
	return path
}

func TestLoadPresetAmounts_EmptyPathUsesDefaults(t *testing.T) {
	amounts, err := LoadPresetAmounts("")
	if err != nil {
		t.Fatalf("LoadPresetAmounts failed: %v", err)
	}
	if len(amounts) != len(DefaultPresetAmounts) {
		t.Fatalf("Expected %d defaults, got %d", len(DefaultPresetAmounts), len(amounts))
	}
	if amounts[0] != 10_000 || amounts[len(amounts)-1] != 500_000 {
		t.Errorf("Unexpected default presets: %v", amounts)
	}
}

func TestLoadPresetAmounts_FromFile(t *testing.T) {
	path := writePresetsFile(t, "amounts:\n  - 25000\n  - 75000\n")

	amounts, err := LoadPresetAmounts(path)
	if err != nil {
		t.Fatalf("LoadPresetAmounts failed: %v", err)
	}
	if len(amounts) != 2 || amounts[0] != 25_000 || amounts[1] != 75_000 {
		t.Errorf("Unexpected presets: %v", amounts)
	}
}

func TestLoadPresetAmounts_RejectsNonPositive(t *testing.T) {
	path := writePresetsFile(t, "amounts:\n  - 25000\n  - -100\n")

	if _, err := LoadPresetAmounts(path); err == nil {
		t.Fatal("Expected error for non-positive amount")
	}
}

func TestLoadPresetAmounts_EmptyListUsesDefaults(t *testing.T) {
	path := writePresetsFile(t, "amounts: []\n")

	amounts, err := LoadPresetAmounts(path)
	if err != nil {
		t.Fatalf("LoadPresetAmounts failed: %v", err)
	}
	if len(amounts) != len(DefaultPresetAmounts) {
		t.Errorf("Expected defaults for empty list, got %v", amounts)
	}
}

func TestLoadPresetAmounts_MissingFile(t *testing.T) {
	if _, err := LoadPresetAmounts(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing file")
	}
}
