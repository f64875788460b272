package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	sim "github.com/launchsim/launchsim/sim"
)

// Define struct for YAML
type ScenarioConfig struct {
	Scenarios map[string]Scenario `yaml:"scenarios"`
}

type Scenario struct {
	Workers     int    `yaml:"workers"`
	Concurrency int    `yaml:"concurrency"`
	MaxSeconds  int    `yaml:"max_seconds"`
	IntervalMs  int64  `yaml:"interval_ms"`
	MaxActive   int    `yaml:"max_active"`
	TickNanos   uint64 `yaml:"tick_nanos"`
}

// GetScenario loads the named preset from a YAML scenario file. Returns nil
// when the file has no preset with that name.
func GetScenario(scenarioFilePath string, scenarioName string) *Scenario {
	// Read YAML file
	data, err := os.ReadFile(scenarioFilePath)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg ScenarioConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	if preset, scenarioExists := cfg.Scenarios[scenarioName]; scenarioExists {
		logrus.Infof("Using scenario preset %v", scenarioName)
		return &preset
	}
	return nil
}

// applyScenario overlays a preset onto cfg. A field is taken from the preset
// only when it is set there and its flag was not passed explicitly, so the
// command line always wins.
func applyScenario(cfg sim.RunConfig, preset *Scenario, changed func(name string) bool) sim.RunConfig {
	if preset.Workers > 0 && !changed("workers") {
		cfg.TotalWorkers = preset.Workers
	}
	if preset.Concurrency > 0 && !changed("concurrency") {
		cfg.ConcurrencyLimit = preset.Concurrency
	}
	if preset.MaxSeconds > 0 && !changed("max-seconds") {
		cfg.MaxWorkerSeconds = preset.MaxSeconds
	}
	if preset.IntervalMs > 0 && !changed("interval-ms") {
		cfg.LaunchIntervalMs = preset.IntervalMs
	}
	if preset.MaxActive > 0 && !changed("max-active") {
		cfg.MaxActive = preset.MaxActive
	}
	if preset.TickNanos > 0 && !changed("tick-ns") {
		cfg.TickNanos = preset.TickNanos
	}
	return cfg
}
