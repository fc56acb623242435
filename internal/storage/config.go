package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	Backend            string   `json:"backend" yaml:"backend"`
	JSONPath           string   `json:"jsonPath,omitempty" yaml:"jsonPath,omitempty"`
	SQLitePath         string   `json:"sqlitePath,omitempty" yaml:"sqlitePath,omitempty"`
	LogLevel           string   `json:"logLevel" yaml:"logLevel"`
	CullExcludeDomains []string `json:"cullExcludeDomains" yaml:"cullExcludeDomains"`
	CullConcurrency    int      `json:"cullConcurrency" yaml:"cullConcurrency"`
	CullTimeoutSeconds int      `json:"cullTimeoutSeconds" yaml:"cullTimeoutSeconds"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendAuto,
		LogLevel:           "warn",
		CullExcludeDomains: []string{"github.com", "gitlab.com"},
		CullConcurrency:    10,
		CullTimeoutSeconds: 10,
	}
}

// CullTimeout returns the per-request timeout of the link checker.
func (c Config) CullTimeout() time.Duration {
	return time.Duration(c.CullTimeoutSeconds) * time.Second
}

// isYAML reports whether path should be read and written as YAML.
func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// LoadConfig reads config from a JSON or YAML file, chosen by extension.
// Creates the file with defaults if it doesn't exist.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			config := DefaultConfig()
			// Non-fatal: return defaults even if the file can't be written
			_ = SaveConfig(path, &config)
			return &config, nil
		}
		return nil, err
	}

	var config Config
	if isYAML(path) {
		err = yaml.Unmarshal(data, &config)
	} else {
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	// Apply defaults for missing fields
	defaults := DefaultConfig()
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.CullExcludeDomains == nil {
		config.CullExcludeDomains = defaults.CullExcludeDomains
	}
	if config.CullConcurrency <= 0 {
		config.CullConcurrency = defaults.CullConcurrency
	}
	if config.CullTimeoutSeconds <= 0 {
		config.CullTimeoutSeconds = defaults.CullTimeoutSeconds
	}

	return &config, nil
}

// SaveConfig writes config to a JSON or YAML file, chosen by extension.
// Creates the directory if it doesn't exist.
func SaveConfig(path string, config *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfigFilePath returns the default config path: ~/.config/pagemark/config.json
func DefaultConfigFilePath() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}
