package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CLIConfig holds configuration loaded from ~/.turtle/config.yaml
type CLIConfig struct {
	Engine     string `yaml:"engine"`     // "sync", "async" or "step"
	DelayMS    int    `yaml:"delay_ms"`   // async pacing per move/turn
	Width      int    `yaml:"width"`      // cull width in cells, 0 = unbounded
	Height     int    `yaml:"height"`     // cull height in cells, 0 = unbounded
	CellSize   int    `yaml:"cell_size"`  // PNG pixels per cell
	OpsFormat  string `yaml:"ops_format"` // "json" or "yaml"
	Color      bool   `yaml:"color"`      // truecolor terminal drawing
	Background string `yaml:"background"` // PNG background, "#RRGGBB"

	MaxIterations int `yaml:"max_iterations"` // repeat until guard, 0 = unlimited
}

// defaultCLIConfig returns the settings used when no config file exists
func defaultCLIConfig() CLIConfig {
	return CLIConfig{
		Engine:     "sync",
		DelayMS:    30,
		CellSize:   8,
		OpsFormat:  "json",
		Color:      true,
		Background: "#1E1E1E",

		MaxIterations: 1000000,
	}
}

const defaultConfigText = `# Turtle CLI Configuration
# This file is automatically created on first run

# Engine used to run scripts: sync, async or step
engine: sync

# Pause after every move or turn when engine is async (milliseconds)
delay_ms: 30

# Cull plotted cells outside width x height (0 = unbounded)
width: 0
height: 0

# Pixels per cell for -png output
cell_size: 8
background: "#1E1E1E"

# Operation log format for -ops: json or yaml
ops_format: json

# Use 24-bit color when drawing in the terminal
color: true

# Stop a repeat until loop after this many iterations (0 = unlimited)
max_iterations: 1000000
`

// getConfigDir returns the path to ~/.turtle directory
func getConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".turtle")
}

// getConfigFilePath returns the path to ~/.turtle/config.yaml
func getConfigFilePath() string {
	dir := getConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// loadCLIConfig reads path, or the default location when path is empty.
// The default file is created on first run; a missing explicit path is an error.
func loadCLIConfig(path string) (CLIConfig, error) {
	config := defaultCLIConfig()
	explicit := path != ""
	if !explicit {
		path = getConfigFilePath()
		if path == "" {
			return config, nil
		}
	}

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		createDefaultConfig(path)
		return config, nil
	}
	if err != nil {
		return config, errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.Unmarshal(content, &config); err != nil {
		return defaultCLIConfig(), errors.Wrapf(err, "parsing config %s", path)
	}
	config.Engine = strings.ToLower(config.Engine)
	config.OpsFormat = strings.ToLower(config.OpsFormat)
	return config, nil
}

// createDefaultConfig creates the default config file
func createDefaultConfig(configPath string) {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return // Graceful failure
	}
	_ = os.WriteFile(configPath, []byte(defaultConfigText), 0644)
}
