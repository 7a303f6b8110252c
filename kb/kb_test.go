package kb

import (
	"testing"

	"github.com/lifelinesims/lifeline-simulator/model"
)

func TestAddNodeRejectsDuplicates(t *testing.T) {
	s := NewStore()

	if err := s.AddNode(&model.Node{ID: "T_N1", Domain: model.DomainTransportation}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := s.AddNode(&model.Node{ID: "T_N1", Domain: model.DomainTransportation}); err == nil {
		t.Fatalf("expected duplicate node to be rejected")
	}
}

func TestNodesByDomainPreservesInsertionOrder(t *testing.T) {
	s := NewStore()

	ids := []string{"T_N3", "T_N1", "T_N2"}
	for _, id := range ids {
		if err := s.AddNode(&model.Node{ID: id, Domain: model.DomainTransportation}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	if err := s.AddNode(&model.Node{ID: "W_N1", Domain: model.DomainWater}); err != nil {
		t.Fatalf("AddNode(W_N1): %v", err)
	}

	got := s.NodesByDomain(model.DomainTransportation)
	if len(got) != len(ids) {
		t.Fatalf("NodesByDomain returned %d nodes, want %d", len(got), len(ids))
	}
	for i, n := range got {
		if n.ID != ids[i] {
			t.Fatalf("NodesByDomain[%d] = %s, want %s", i, n.ID, ids[i])
		}
	}
}

func TestBindComponentRequiresExistingNode(t *testing.T) {
	s := NewStore()

	if err := s.BindComponent("P_MP1", "P_B1"); err == nil {
		t.Fatalf("expected binding to unknown node to fail")
	}

	if err := s.AddNode(&model.Node{ID: "P_B1", Domain: model.DomainPower}); err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if err := s.BindComponent("P_MP1", "P_B1"); err != nil {
		t.Fatalf("BindComponent: %v", err)
	}
	if got := s.NodeForComponent("P_MP1"); got != "P_B1" {
		t.Fatalf("NodeForComponent = %q, want P_B1", got)
	}
	if got := s.NodeForComponent("P_MP2"); got != "" {
		t.Fatalf("NodeForComponent for unbound component = %q, want empty", got)
	}
}
