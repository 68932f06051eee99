package modelsuite

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ProviderConfig carries per-vendor credentials and overrides. Zero values
// defer to the vendor's conventional environment variable and production
// base URL at construction time.
type ProviderConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`

	// Extra holds vendor-specific settings with no normalized field.
	Extra map[string]string `yaml:"extra"`
}

// Config is the file form of the client configuration: one ProviderConfig
// per provider name.
type Config struct {
	Providers map[string]ProviderConfig `yaml:"providers"`
}

// LoadConfig reads and parses a YAML config file. Environment variables in
// the format ${VAR} are expanded before parsing, so credential files can
// reference secrets without embedding them.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("modelsuite: read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return Config{}, fmt.Errorf("modelsuite: parse config: %w", err)
	}

	return config, nil
}
