package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the dtctl configuration file, loaded only from the path
// given with --config.
type Config struct {
	JSON        bool   `yaml:"json"`
	NoColor     bool   `yaml:"no_color"`
	OutputStyle string `yaml:"output_style"`
}

// LoadConfig reads the config file at path. If path is empty, no config is
// applied and a zero Config is returned; dtctl has no implicit config
// discovery location, unlike interactive tools.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
