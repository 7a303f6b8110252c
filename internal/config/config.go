package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the YAML-backed simulation configuration.
type Config struct {
	// StepSeconds is the base simulation step.
	StepSeconds int64 `yaml:"step_seconds"`
	// AddPoints is how many synthetic stamps expansion adds across the
	// horizon.
	AddPoints int `yaml:"add_points"`
	// PatternIntervalHours is the demand-pattern slot width.
	PatternIntervalHours float64 `yaml:"pattern_interval_hours"`

	// PredictionHorizon bounds the optimizer's permutation length.
	PredictionHorizon int `yaml:"prediction_horizon"`
	// TrialTimeoutSeconds bounds one optimizer trial; zero disables it.
	TrialTimeoutSeconds int `yaml:"trial_timeout_seconds"`
	// Workers bounds concurrent optimizer trials.
	Workers int `yaml:"workers"`

	// CrewOffices maps domain names (power, water, transportation) to
	// crew office road nodes.
	CrewOffices map[string]string `yaml:"crew_offices"`

	ScenarioFile   string `yaml:"scenario_file"`
	DependencyFile string `yaml:"dependency_file"`
	ResultsDir     string `yaml:"results_dir"`
}

// Default returns a config with workable defaults for everything but
// the file paths and crew offices.
func Default() Config {
	return Config{
		StepSeconds:          600,
		AddPoints:            50,
		PatternIntervalHours: 1,
		PredictionHorizon:    2,
		TrialTimeoutSeconds:  60,
		Workers:              4,
		ResultsDir:           "results",
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the simulator cannot run with.
func (c Config) Validate() error {
	if c.StepSeconds <= 0 {
		return fmt.Errorf("step_seconds must be positive, got %d", c.StepSeconds)
	}
	if c.AddPoints < 0 {
		return fmt.Errorf("add_points must be non-negative, got %d", c.AddPoints)
	}
	if c.PatternIntervalHours <= 0 {
		return fmt.Errorf("pattern_interval_hours must be positive, got %v", c.PatternIntervalHours)
	}
	if c.PredictionHorizon < 1 {
		return fmt.Errorf("prediction_horizon must be at least 1, got %d", c.PredictionHorizon)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// TrialTimeout converts the configured trial timeout to a duration.
func (c Config) TrialTimeout() time.Duration {
	return time.Duration(c.TrialTimeoutSeconds) * time.Second
}
