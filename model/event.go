package model

// EventRecord is one row of the disruption/recovery event table: at Time
// (simulation seconds), ComponentID was at Performance percent of nominal
// function in lifecycle state State.
//
// Within the un-expanded table, records for a single component have
// strictly increasing time stamps.
type EventRecord struct {
	Time        int64          `json:"Time"`
	ComponentID string         `json:"ComponentID"`
	Performance float64        `json:"Performance"`
	State       ComponentState `json:"State"`
}

// DisruptionRow is one entry of the raw disruption scenario: at Time,
// ComponentID loses FailPercent of its function.
type DisruptionRow struct {
	Time        int64  `json:"Time"`
	ComponentID string `json:"ComponentID"`
	FailPercent int    `json:"FailPercent"`
}
