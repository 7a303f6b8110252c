package core

import (
	"strings"
	"testing"

	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
)

func TestNewInfraNetworkValidation(t *testing.T) {
	store := kb.NewStore()
	power := NewFakePowerSolver(nil, nil)
	water := NewFakeWaterSolver(nil, nil, 1)
	travel := NewFakeTravelEstimator(10)
	offices := map[model.Domain]string{
		model.DomainPower:          "T_N1",
		model.DomainWater:          "T_N1",
		model.DomainTransportation: "T_N1",
	}

	if _, err := NewInfraNetwork(NetworkParams{Power: power, Water: water, Travel: travel, Offices: offices}); err == nil {
		t.Fatalf("nil store accepted")
	}
	if _, err := NewInfraNetwork(NetworkParams{Store: store, Water: water, Travel: travel, Offices: offices}); err == nil {
		t.Fatalf("missing power solver accepted")
	}

	short := map[model.Domain]string{model.DomainPower: "T_N1"}
	_, err := NewInfraNetwork(NetworkParams{Store: store, Power: power, Water: water, Travel: travel, Offices: short})
	if err == nil || !strings.Contains(err.Error(), "crew office") {
		t.Fatalf("missing crew office: err = %v", err)
	}
}

func TestGenerateDependenciesSkipsBadRows(t *testing.T) {
	net := newTestNetwork(t)

	net.SetCouplingRows([][2]string{
		{"P_MP1", "W_WP1"}, // recognized
		{"P_G1", "W_WP1"},  // unrecognized shape
		{"X_Z1", "W_WP1"},  // unknown component
	})
	if err := net.GenerateDependencies(); err != nil {
		t.Fatalf("GenerateDependencies: %v", err)
	}
	if got := len(net.Deps.Couplings()); got != 1 {
		t.Fatalf("couplings = %d, want only the recognized row", got)
	}
}

func TestDisruptedIDsDeduplicatesInScenarioOrder(t *testing.T) {
	net := newTestNetwork(t)
	net.SetDisruptedComponents([]model.DisruptionRow{
		{Time: 0, ComponentID: "W_WP1", FailPercent: 50},
		{Time: 600, ComponentID: "P_MP1", FailPercent: 100},
		{Time: 1200, ComponentID: "W_WP1", FailPercent: 100},
	})

	got := net.DisruptedIDs()
	if strings.Join(got, ",") != "W_WP1,P_MP1" {
		t.Fatalf("DisruptedIDs = %v, want [W_WP1 P_MP1]", got)
	}
}

func TestCloneIsolatesMutableState(t *testing.T) {
	net := newTestNetwork(t)
	net.SetDisruptedComponents([]model.DisruptionRow{
		{Time: 0, ComponentID: "W_WP1", FailPercent: 50},
	})

	clone := net.Clone()

	clone.Events.Append(model.EventRecord{Time: 0, ComponentID: "W_WP1", Performance: 50, State: model.StateServiceDisrupted})
	clone.Crews[model.DomainWater].NextAvailable = 9000
	clone.Power.SetInService("P_G1", false)
	clone.Water.RegisterOutage("W_WP1", 0, 600)

	if net.Events.Len() != 0 {
		t.Fatalf("base event log grew after clone mutation")
	}
	if net.Crews[model.DomainWater].NextAvailable != 0 {
		t.Fatalf("base crew mutated through clone")
	}
	if !net.Power.InService("P_G1") {
		t.Fatalf("base power solver mutated through clone")
	}
	if _, _, ok := net.Water.(*FakeWaterSolver).Outage("W_WP1"); ok {
		t.Fatalf("base water solver mutated through clone")
	}

	// Immutable structures are shared, not copied.
	if clone.Store != net.Store || clone.Deps != net.Deps || clone.Index != net.Index {
		t.Fatalf("immutable structures should be shared between base and clone")
	}
}
