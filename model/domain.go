package model

// Domain identifies which infrastructure network a component or node
// belongs to. The simulator couples exactly these three lifelines.
type Domain string

const (
	DomainPower          Domain = "power"
	DomainWater          Domain = "water"
	DomainTransportation Domain = "transportation"
)

// Domains lists all domains in a fixed, deterministic order. Crew
// bookkeeping and metric reporting iterate this slice rather than a map.
var Domains = []Domain{DomainPower, DomainWater, DomainTransportation}

// ComponentState is the lifecycle state of a component in the event table.
//
// Transitions follow Functional -> Service Disrupted -> Repairing ->
// Service Restored; a restored component may re-enter Service Disrupted
// if a later disruption targets it again.
type ComponentState string

const (
	StateFunctional       ComponentState = "Functional"
	StateServiceDisrupted ComponentState = "Service Disrupted"
	StateRepairing        ComponentState = "Repairing"
	StateServiceRestored  ComponentState = "Service Restored"
)

// Operational reports whether a component in this state contributes its
// nominal function. Repairing counts as down: the crew has the component
// out of service while working on it.
func (s ComponentState) Operational() bool {
	return s == StateFunctional || s == StateServiceRestored
}
