package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies sane defaults.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Processing.NumWorkers < 1 {
		t.Errorf("Expected at least one worker, got %d", cfg.Processing.NumWorkers)
	}
	if !cfg.Processing.SplitDimensions {
		t.Error("Expected dimension splitting enabled by default")
	}
	if cfg.Output.Directory == "" {
		t.Error("Expected a default output directory")
	}
	if cfg.Export.SliceAxis != "z" {
		t.Errorf("Expected default slice axis z, got %q", cfg.Export.SliceAxis)
	}
}

// TestLoadConfigMissingFile verifies the fall-back to defaults.
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for missing file, got error: %v", err)
	}
	if cfg.Export.SliceAxis != "z" {
		t.Errorf("Expected default config, got axis %q", cfg.Export.SliceAxis)
	}
}

// TestSaveLoadRoundTrip verifies that saved settings survive a reload.
func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg := DefaultConfig()
	cfg.Processing.NumWorkers = 3
	cfg.Output.Directory = "out"
	cfg.Export.Slices = true
	cfg.Export.SliceAxis = "y"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Processing.NumWorkers != 3 {
		t.Errorf("Expected 3 workers, got %d", loaded.Processing.NumWorkers)
	}
	if loaded.Output.Directory != "out" {
		t.Errorf("Expected directory out, got %q", loaded.Output.Directory)
	}
	if !loaded.Export.Slices || loaded.Export.SliceAxis != "y" {
		t.Errorf("Expected slice export y, got %v/%q",
			loaded.Export.Slices, loaded.Export.SliceAxis)
	}
}

// TestLoadConfigInvalidYAML verifies parse errors are surfaced.
func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("processing: ["), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}
