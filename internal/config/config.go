// Package config loads the popline settings file. A missing file yields the
// defaults; a malformed file is an error so typos do not silently fall back.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Colors holds SGR parameter strings for the popup box and the auxiliary
// description columns, e.g. "0;37;44".
type Colors struct {
	Popup string `yaml:"popup"`
	Desc  string `yaml:"desc"`
}

// Config holds the CLI configuration.
type Config struct {
	// Wraparound makes popup navigation wrap at the list edges.
	Wraparound bool `yaml:"wraparound"`

	// IgnoreCase selects search comparison: "off", "on", or "relaxed"
	// (case-insensitive and '-' equals '_').
	IgnoreCase string `yaml:"ignore_case"`

	// FuzzyAccent makes accented and bare characters compare equal.
	FuzzyAccent bool `yaml:"fuzzy_accent"`

	// MaxRows caps popup height; 0 keeps the mode default.
	MaxRows int `yaml:"max_rows"`

	// WinHistory numbers history rows and makes digits jump to an entry
	// by its number, like the conhost F7 popup.
	WinHistory bool `yaml:"win_history"`

	Colors Colors `yaml:"colors"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IgnoreCase: "relaxed",
	}
}

// Dir returns the popline configuration directory.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(base, "popline"), nil
}

// Load reads config.yaml from the popline config directory.
func Load() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	return loadFrom(filepath.Join(dir, "config.yaml"))
}

func loadFrom(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.IgnoreCase {
	case "off", "on", "relaxed":
	default:
		return nil, fmt.Errorf("invalid ignore_case %q (want off, on, or relaxed)", cfg.IgnoreCase)
	}

	return cfg, nil
}
