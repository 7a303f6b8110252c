package model

// Node is a coordinate-tagged graph node from one of the three domain
// networks. The composite knowledge base stores the union of all three
// node sets so that nearest-node queries can cross domain boundaries.
type Node struct {
	ID     string  `json:"ID"`
	Domain Domain  `json:"Domain"`
	X      float64 `json:"X"`
	Y      float64 `json:"Y"`
}

// Coupling is a static cross-domain dependency edge, e.g. a power motor
// driving a water pump. Couplings are built once from the dependency
// specification file and are read-only during simulation.
type Coupling struct {
	SourceID   string `json:"SourceID"`
	TargetID   string `json:"TargetID"`
	SourceType string `json:"SourceType"`
	TargetType string `json:"TargetType"`
}

// AccessEdge links an infrastructure node to its nearest road node,
// precomputed from spatial proximity for crew travel-time lookups.
type AccessEdge struct {
	NodeID     string  `json:"NodeID"`
	RoadNodeID string  `json:"RoadNodeID"`
	Distance   float64 `json:"Distance"`
}
