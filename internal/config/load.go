package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working and config directories.
const FileName = "pathtool.yaml"

// Load builds the configuration from defaults, then the config file, then flags.
func Load() (*Config, error) {
	cfg := Default()

	file := ConfigPath()
	if file == "" {
		file = findConfigFile()
	}
	if file != "" {
		if err := loadFromFile(cfg, file); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", file, err)
		}
	}

	if err := applyFlags(cfg); err != nil {
		return nil, fmt.Errorf("applying flags: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile returns the first existing candidate, or "".
func findConfigFile() string {
	for _, candidate := range []string{
		FileName,
		"config.yaml",
		filepath.Join(ConfigDir(), FileName),
	} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// ConfigDir returns the per-user config directory for pathtool.
func ConfigDir() string {
	home, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "MidgardPath")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardPath")
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "midgard-path")
	}
	return filepath.Join(home, ".config", "midgard-path")
}

// loadFromFile merges the YAML file into cfg. Unknown keys are rejected so a
// misspelled setting does not silently keep its default.
func loadFromFile(cfg *Config, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
