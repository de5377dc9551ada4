package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the decode-policy options that make sense to keep in
// a config file. Flags given on the command line override these.
type fileConfig struct {
	Mode       string   `yaml:"mode"`
	Include    []string `yaml:"include"`
	TerseLimit int      `yaml:"terse_limit"`
	MaxDepth   int      `yaml:"max_depth"`
}

func loadConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Mode != "" && cfg.Mode != "terse" && cfg.Mode != "verbose" {
		return nil, fmt.Errorf("config %s: invalid mode %q", path, cfg.Mode)
	}
	return &cfg, nil
}
