package kb

import (
	"fmt"
	"sync"

	"github.com/lifelinesims/lifeline-simulator/model"
)

// Store is an in-memory, thread-safe knowledge base for the composite
// infrastructure graph: the union of power, water, and transportation
// nodes plus the binding from each component to its containing node.
//
// Listing order is preserved: NodesByDomain and AllNodes return nodes in
// the order they were added. The nearest-node index relies on this for
// its deterministic first-encountered tie-break.
type Store struct {
	mu sync.RWMutex

	nodes map[string]*model.Node
	// order keeps node IDs in insertion order for deterministic listing.
	order []string

	// componentNodes maps a component ID to the node it connects through.
	componentNodes map[string]string
}

// NewStore constructs an empty knowledge base.
func NewStore() *Store {
	return &Store{
		nodes:          make(map[string]*model.Node),
		componentNodes: make(map[string]string),
	}
}

// AddNode adds a node. It returns an error if the ID already exists or
// the node is malformed.
func (s *Store) AddNode(n *model.Node) error {
	if n == nil || n.ID == "" {
		return fmt.Errorf("nil or empty node")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("node with ID %q already exists", n.ID)
	}
	s.nodes[n.ID] = n
	s.order = append(s.order, n.ID)
	return nil
}

// GetNode returns the node with the given ID, or nil if not found.
func (s *Store) GetNode(id string) *model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.nodes[id]
}

// AllNodes returns every node in insertion order.
func (s *Store) AllNodes() []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.nodes[id])
	}
	return out
}

// NodesByDomain returns the nodes belonging to one domain, in insertion
// order.
func (s *Store) NodesByDomain(domain model.Domain) []*model.Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*model.Node
	for _, id := range s.order {
		if n := s.nodes[id]; n != nil && n.Domain == domain {
			out = append(out, n)
		}
	}
	return out
}

// BindComponent records that componentID connects to the network through
// nodeID. The node must already exist.
func (s *Store) BindComponent(componentID, nodeID string) error {
	if componentID == "" || nodeID == "" {
		return fmt.Errorf("empty component or node ID")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.nodes[nodeID]; !ok {
		return fmt.Errorf("node with ID %q not found for component %q", nodeID, componentID)
	}
	s.componentNodes[componentID] = nodeID
	return nil
}

// NodeForComponent returns the node a component connects through, or ""
// if the component has no binding.
func (s *Store) NodeForComponent(componentID string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.componentNodes[componentID]
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
