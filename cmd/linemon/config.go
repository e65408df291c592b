//go:build unix

package main

import (
	"fmt"
	"os"

	"github.com/tinyrange/irqmux"
	"gopkg.in/yaml.v3"
)

// LineConfig names one signal line to watch.
type LineConfig struct {
	Signal string `yaml:"signal"`
	Name   string `yaml:"name"` // display name; defaults to the signal name
}

// Config is the linemon YAML config file.
type Config struct {
	Slots int          `yaml:"slots"`
	Lines []LineConfig `yaml:"lines"`
}

// LoadConfig reads and parses a linemon config file.
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Slots == 0 {
		cfg.Slots = irqmux.DefaultSlots
	}
	return cfg, nil
}
