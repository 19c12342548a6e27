package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadYAML reads a SimulatorConfig from a YAML file at path, mirroring
// LoadTOML but for the YAML format.
func LoadYAML(path string) (SimulatorConfig, error) {
	cfg := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return SimulatorConfig{}, fmt.Errorf("config: reading yaml %q: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return SimulatorConfig{}, fmt.Errorf("config: parsing yaml %q: %w", path, err)
	}
	return cfg, nil
}
