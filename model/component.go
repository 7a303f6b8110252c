package model

// Component describes one piece of physical infrastructure. Instances are
// produced by the component registry and are immutable once registered.
//
// IDs follow the convention "<DomainPrefix>_<TypeCode><Index>", e.g.
// "P_MP1" for power motor 1 or "W_WP3" for water pump 3.
type Component struct {
	ID       string `json:"ID"`
	Domain   Domain `json:"Domain"`
	TypeCode string `json:"TypeCode"`

	// SolverField names the solver-side attribute that binds this
	// component to its containing network node (a pipe connects via its
	// start node, a motor via its bus, and so on).
	SolverField string `json:"SolverField"`

	// RepairTime is the nominal crew repair duration in seconds.
	RepairTime int64 `json:"RepairTime"`
}

// Crew tracks one repair crew per domain: where it starts, where it
// currently is (a road node), and when it next becomes available. Crews
// are mutable per-trial state and must be reset between optimizer trials.
type Crew struct {
	Domain        Domain `json:"Domain"`
	Office        string `json:"Office"`
	Location      string `json:"Location"`
	NextAvailable int64  `json:"NextAvailable"`
}

// NewCrew places a crew at its office, available immediately.
func NewCrew(domain Domain, office string) *Crew {
	return &Crew{Domain: domain, Office: office, Location: office}
}

// Reset returns the crew to its office with no pending work.
func (c *Crew) Reset() {
	c.Location = c.Office
	c.NextAvailable = 0
}

// Clone returns an independent copy of the crew.
func (c *Crew) Clone() *Crew {
	cp := *c
	return &cp
}
