package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadConfigFile reads a YAML file over the defaults.
// Keys missing from the file keep their default values.
// A missing file yields ErrConfigNotFound.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfigFile returns the first existing configuration file among, in
// order: configPath when non-empty, ./sitemirror.yaml and the XDG config
// file. It returns "" when none exists.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	for _, p := range []string{DefaultConfigFile, XDGConfigPath()} {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Load resolves the configuration for a run. An explicit configPath must
// exist; otherwise the discovered file, if any, is read over the defaults.
func Load(configPath string) (*Config, error) {
	path := FindConfigFile(configPath)
	if path == "" {
		if configPath != "" {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return Default(), nil
	}
	return LoadConfigFile(path)
}
