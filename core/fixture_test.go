package core

import (
	"testing"

	"github.com/lifelinesims/lifeline-simulator/internal/logging"
	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
	"github.com/lifelinesims/lifeline-simulator/timegrid"
)

// newTestNetwork builds a small three-domain network over fake solvers:
// two generators and a pump motor on the power side; a pump, a pre-split
// pipe, and a tank on the water side; two road nodes. The motor drives
// the pump through the one recognized coupling.
func newTestNetwork(t *testing.T) *InfraNetwork {
	t.Helper()

	store := kb.NewStore()
	for _, n := range []*model.Node{
		{ID: "P_N1", Domain: model.DomainPower, X: 0, Y: 0},
		{ID: "W_N1", Domain: model.DomainWater, X: 5, Y: 0},
		{ID: "W_N2", Domain: model.DomainWater, X: 20, Y: 0},
		{ID: "T_N1", Domain: model.DomainTransportation, X: 0, Y: 1},
		{ID: "T_N2", Domain: model.DomainTransportation, X: 20, Y: 1},
	} {
		if err := store.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	for comp, node := range map[string]string{
		"P_MP1":  "P_N1",
		"P_G1":   "P_N1",
		"P_G2":   "P_N1",
		"W_WP1":  "W_N1",
		"W_PMA1": "W_N2",
		"W_T1":   "W_N1",
	} {
		if err := store.BindComponent(comp, node); err != nil {
			t.Fatalf("BindComponent(%s): %v", comp, err)
		}
	}

	power := NewFakePowerSolver(
		map[string]float64{"P_G1": 50, "P_G2": 50},
		map[string]float64{"P_MP1": 10},
	)
	water := NewFakeWaterSolver(
		map[string][]float64{"W_J1": {100}},
		map[string]float64{"W_PMA1": 2.0},
		1,
	)
	travel := NewFakeTravelEstimator(10)
	travel.SetMinutes("T_N1", "T_N2", 30)

	grid, err := timegrid.New(600)
	if err != nil {
		t.Fatalf("timegrid.New: %v", err)
	}

	net, err := NewInfraNetwork(NetworkParams{
		Store:  store,
		Power:  power,
		Water:  water,
		Travel: travel,
		Grid:   grid,
		Offices: map[model.Domain]string{
			model.DomainPower:          "T_N2",
			model.DomainWater:          "T_N2",
			model.DomainTransportation: "T_N1",
		},
		Log: logging.Noop(),
	})
	if err != nil {
		t.Fatalf("NewInfraNetwork: %v", err)
	}

	if err := net.GenerateGraph(); err != nil {
		t.Fatalf("GenerateGraph: %v", err)
	}
	net.SetCouplingRows([][2]string{{"P_MP1", "W_WP1"}})
	if err := net.GenerateDependencies(); err != nil {
		t.Fatalf("GenerateDependencies: %v", err)
	}
	return net
}
