package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// LoadTOML reads a SimulatorConfig from a TOML file at path, decoded
// directly into the destination struct rather than through an
// intermediate feeder abstraction, since this module has no generic
// multi-source config tree to build.
func LoadTOML(path string) (SimulatorConfig, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return SimulatorConfig{}, fmt.Errorf("config: loading toml %q: %w", path, err)
	}
	return cfg, nil
}
