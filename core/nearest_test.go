package core

import (
	"testing"

	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
)

func buildSpatialStore(t *testing.T, nodes []*model.Node) *kb.Store {
	t.Helper()
	s := kb.NewStore()
	for _, n := range nodes {
		if err := s.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s): %v", n.ID, err)
		}
	}
	return s
}

func TestNearestFindsClosestRoadNode(t *testing.T) {
	s := buildSpatialStore(t, []*model.Node{
		{ID: "P_B1", Domain: model.DomainPower, X: 0, Y: 0},
		{ID: "T_N1", Domain: model.DomainTransportation, X: 10, Y: 0},
		{ID: "T_N2", Domain: model.DomainTransportation, X: 3, Y: 4},
		{ID: "T_N3", Domain: model.DomainTransportation, X: 0, Y: 20},
	})
	idx := NewNearestNodeIndex(s)

	id, dist, err := idx.Nearest("P_B1", model.DomainTransportation)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if id != "T_N2" {
		t.Fatalf("Nearest = %s, want T_N2", id)
	}
	if dist != 5 {
		t.Fatalf("distance = %v, want 5", dist)
	}
}

func TestNearestTieBreaksByListingOrder(t *testing.T) {
	// Two road nodes equidistant from the origin: the first one added to
	// the knowledge base must win.
	s := buildSpatialStore(t, []*model.Node{
		{ID: "W_J1", Domain: model.DomainWater, X: 0, Y: 0},
		{ID: "T_EAST", Domain: model.DomainTransportation, X: 7, Y: 0},
		{ID: "T_WEST", Domain: model.DomainTransportation, X: -7, Y: 0},
	})
	idx := NewNearestNodeIndex(s)

	id, _, err := idx.Nearest("W_J1", model.DomainTransportation)
	if err != nil {
		t.Fatalf("Nearest: %v", err)
	}
	if id != "T_EAST" {
		t.Fatalf("tie-break picked %s, want first-encountered T_EAST", id)
	}
}

func TestNearestErrors(t *testing.T) {
	s := buildSpatialStore(t, []*model.Node{
		{ID: "P_B1", Domain: model.DomainPower, X: 0, Y: 0},
	})
	idx := NewNearestNodeIndex(s)

	if _, _, err := idx.Nearest("NOPE", model.DomainTransportation); err == nil {
		t.Fatalf("expected error for unknown origin node")
	}
	if _, _, err := idx.Nearest("P_B1", model.DomainTransportation); err == nil {
		t.Fatalf("expected error when target domain has no nodes")
	}
}
