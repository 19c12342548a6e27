// Package config provides ambient configuration loading for a desim
// Simulator: TOML/YAML files, environment-style string overrides, and a
// file watcher for hot-reloading between runs. None of this is part of
// the simulation core.
package config

import "time"

// SimulatorConfig is the set of ambient knobs a model's entry point loads
// before constructing a desim.Simulator. It intentionally mirrors only
// the simulator-level fields (max_time, profiling, stop_on_error) plus bookkeeping
// around reload cadence; it is not part of the core API.
type SimulatorConfig struct {
	// MaxTime is the default horizon passed to Simulator.Run when a
	// model's entry point doesn't override it on the command line.
	MaxTime float64 `toml:"max_time" yaml:"max_time"`

	// EnableProfiling turns on RunSummary.PerObjectEventCounts.
	EnableProfiling bool `toml:"enable_profiling" yaml:"enable_profiling"`

	// StopOnError controls whether a dispatch error aborts the run
	// (TerminationError, the default) or is logged and skipped so the run
	// continues past the offending frontier.
	StopOnError bool `toml:"stop_on_error" yaml:"stop_on_error"`

	// ReloadInterval is a debounce interval for successive filesystem
	// change events; a caller passes it to NewWatcher, which does not read
	// it from the loaded file by itself.
	ReloadInterval time.Duration `toml:"reload_interval" yaml:"reload_interval"`
}

// Default returns the configuration used when no file is loaded.
func Default() SimulatorConfig {
	return SimulatorConfig{
		MaxTime:         0,
		EnableProfiling: false,
		StopOnError:     true,
		ReloadInterval:  200 * time.Millisecond,
	}
}
