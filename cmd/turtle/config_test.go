package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfigTextMatchesDefaults(t *testing.T) {
	var parsed CLIConfig
	if err := yaml.Unmarshal([]byte(defaultConfigText), &parsed); err != nil {
		t.Fatalf("Default config text does not parse: %v", err)
	}
	if parsed != defaultCLIConfig() {
		t.Errorf("Default config text %+v differs from defaults %+v", parsed, defaultCLIConfig())
	}
}

func TestLoadCLIConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "engine: ASYNC\ndelay_ms: 5\nwidth: 64\nops_format: YAML\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	config, err := loadCLIConfig(path)
	if err != nil {
		t.Fatalf("loadCLIConfig failed: %v", err)
	}
	if config.Engine != "async" || config.DelayMS != 5 || config.Width != 64 || config.OpsFormat != "yaml" {
		t.Errorf("Unexpected config %+v", config)
	}
	if config.CellSize != 8 || config.MaxIterations != 1000000 {
		t.Errorf("Expected unset keys to keep defaults, got cell_size %d max_iterations %d", config.CellSize, config.MaxIterations)
	}
}

func TestLoadCLIConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := loadCLIConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for a missing explicit config file")
	}
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("width: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCLIConfig(bad); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
