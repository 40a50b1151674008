package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Quiz struct {
		// Dir is the directory holding round files and answer-key side
		// files.
		Dir string `yaml:"dir"`
		// TeamIDColumn is the index of the team-identity column. Zero
		// or negative means the default (column 1, right after the
		// timestamp).
		TeamIDColumn int `yaml:"team_id_column"`
		// TeamNameColumn is the index of the separate display-name
		// column. Zero or negative means there is none: the display
		// name is the identity value.
		TeamNameColumn int `yaml:"team_name_column"`
	} `yaml:"quiz"`
	Watch struct {
		Enabled  bool   `yaml:"enabled"`
		Debounce string `yaml:"debounce"`
	} `yaml:"watch"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or
// invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
