package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	contents := `
step_seconds: 300
prediction_horizon: 3
crew_offices:
  power: T_N1
  water: T_N2
  transportation: T_N3
scenario_file: disruptions.csv
dependency_file: deps.csv
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StepSeconds != 300 {
		t.Fatalf("StepSeconds = %d, want 300", cfg.StepSeconds)
	}
	if cfg.PredictionHorizon != 3 {
		t.Fatalf("PredictionHorizon = %d, want 3", cfg.PredictionHorizon)
	}
	// Defaults survive for unset keys.
	if cfg.AddPoints != 50 {
		t.Fatalf("AddPoints = %d, want default 50", cfg.AddPoints)
	}
	if cfg.CrewOffices["water"] != "T_N2" {
		t.Fatalf("CrewOffices[water] = %q, want T_N2", cfg.CrewOffices["water"])
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	if err := os.WriteFile(path, []byte("step_seconds: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation error for negative step")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
