package core

import (
	"fmt"
	"math"

	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
)

// NearestNodeIndex answers nearest-node-of-domain queries over the
// composite graph of transportation, power, and water nodes. One index
// serves the whole simulation; it is static after construction.
type NearestNodeIndex struct {
	store *kb.Store

	// byDomain caches the per-domain node listings in kb insertion
	// order. Ties are broken by first-encountered order in this listing
	// (deterministic, not geographically meaningful).
	byDomain map[model.Domain][]*model.Node
}

// NewNearestNodeIndex builds the index from the knowledge base.
func NewNearestNodeIndex(store *kb.Store) *NearestNodeIndex {
	idx := &NearestNodeIndex{
		store:    store,
		byDomain: make(map[model.Domain][]*model.Node),
	}
	for _, d := range model.Domains {
		idx.byDomain[d] = store.NodesByDomain(d)
	}
	return idx
}

// Nearest returns the node of targetDomain closest to nodeID by
// Euclidean distance over 2-D coordinates.
func (idx *NearestNodeIndex) Nearest(nodeID string, targetDomain model.Domain) (string, float64, error) {
	origin := idx.store.GetNode(nodeID)
	if origin == nil {
		return "", 0, fmt.Errorf("nearest: node %q not in knowledge base", nodeID)
	}

	candidates := idx.byDomain[targetDomain]
	if len(candidates) == 0 {
		return "", 0, fmt.Errorf("nearest: no nodes in domain %s", targetDomain)
	}

	bestID := ""
	bestDist := math.Inf(1)
	for _, cand := range candidates {
		d := euclidean(origin, cand)
		// Strictly-less keeps the first-encountered node on ties.
		if d < bestDist {
			bestDist = d
			bestID = cand.ID
		}
	}
	return bestID, bestDist, nil
}

func euclidean(a, b *model.Node) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
