package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/lifelinesims/lifeline-simulator/internal/logging"
	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
	"github.com/lifelinesims/lifeline-simulator/timegrid"
)

// Network is the capability contract every simulated network aggregate
// satisfies: load its scenario inputs, generate its composite graph and
// dependency structures, and expose the raw disruption list.
type Network interface {
	Load(scenarioPath, dependencyPath string) error
	GenerateGraph() error
	GenerateDependencies() error
	SetDisruptedComponents(rows []model.DisruptionRow)
	DisruptedComponents() []model.DisruptionRow
}

// InfraNetwork aggregates everything one simulation run owns: the
// composite node store, the dependency table, the event log, the crews,
// and the domain solvers. The optimizer deep-copies an InfraNetwork per
// candidate trial; immutable parts (registry, store, index, dependency
// table, travel estimator, disruption list) are structurally shared.
type InfraNetwork struct {
	Registry *ComponentRegistry
	Store    *kb.Store
	Index    *NearestNodeIndex
	Deps     *DependencyTable
	Events   *EventLog
	Crews    map[model.Domain]*model.Crew

	Power  PowerSolver
	Water  WaterSolver
	Travel TravelEstimator

	Grid timegrid.Grid

	log       logging.Logger
	disrupted []model.DisruptionRow

	// couplingRows holds (power_id, water_id) pairs loaded from the
	// dependency specification, pending GenerateDependencies.
	couplingRows [][2]string
}

// NetworkParams carries the collaborators an InfraNetwork is built from.
// The node store is expected to be pre-populated by an external loader.
type NetworkParams struct {
	Store  *kb.Store
	Power  PowerSolver
	Water  WaterSolver
	Travel TravelEstimator
	Grid   timegrid.Grid
	// Offices maps each domain to its crew office road node.
	Offices map[model.Domain]string
	Log     logging.Logger
}

// NewInfraNetwork assembles a network aggregate with crews parked at
// their offices.
func NewInfraNetwork(p NetworkParams) (*InfraNetwork, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("new network: nil node store")
	}
	if p.Power == nil || p.Water == nil || p.Travel == nil {
		return nil, fmt.Errorf("new network: all three domain solvers are required")
	}
	if p.Log == nil {
		p.Log = logging.Noop()
	}

	crews := make(map[model.Domain]*model.Crew, len(model.Domains))
	for _, d := range model.Domains {
		office := p.Offices[d]
		if office == "" {
			return nil, fmt.Errorf("new network: no crew office for domain %s", d)
		}
		crews[d] = model.NewCrew(d, office)
	}

	return &InfraNetwork{
		Registry: NewComponentRegistry(),
		Store:    p.Store,
		Events:   NewEventLog(),
		Crews:    crews,
		Power:    p.Power,
		Water:    p.Water,
		Travel:   p.Travel,
		Grid:     p.Grid,
		log:      p.Log,
	}, nil
}

// Load reads the disruption scenario and the dependency specification.
// A missing or malformed scenario file is fatal; dependency rows are
// validated later by GenerateDependencies.
func (n *InfraNetwork) Load(scenarioPath, dependencyPath string) error {
	rows, err := LoadDisruptions(scenarioPath)
	if err != nil {
		return err
	}
	n.disrupted = rows

	pairs, err := LoadCouplingSpec(dependencyPath)
	if err != nil {
		return err
	}
	n.couplingRows = pairs
	return nil
}

// GenerateGraph builds the nearest-node index over the composite graph.
func (n *InfraNetwork) GenerateGraph() error {
	if n.Store.Len() == 0 {
		return fmt.Errorf("generate graph: node store is empty")
	}
	n.Index = NewNearestNodeIndex(n.Store)
	return nil
}

// GenerateDependencies builds the dependency table from the loaded
// coupling rows and computes the transportation-access edges. Rows that
// reference unrecognized component pairs are skipped with a warning,
// not a fatal error.
func (n *InfraNetwork) GenerateDependencies() error {
	if n.Index == nil {
		return fmt.Errorf("generate dependencies: graph not generated")
	}

	n.Deps = NewDependencyTable(n.Registry, n.Store, n.Index)
	for _, pair := range n.couplingRows {
		powerID, waterID := pair[0], pair[1]
		err := n.Deps.AddCoupling(powerID, waterID)
		if err == nil {
			continue
		}
		if errors.Is(err, ErrUnknownComponent) || errors.Is(err, ErrInvalidCoupling) {
			n.log.Warn(context.Background(), "skipping unrecognized coupling row",
				logging.String("power_id", powerID),
				logging.String("water_id", waterID),
				logging.String("reason", err.Error()),
			)
			continue
		}
		return err
	}

	return n.Deps.BuildAccessEdges()
}

// SetDisruptedComponents installs the raw disruption list directly,
// bypassing Load. Tests and embedding applications use this.
func (n *InfraNetwork) SetDisruptedComponents(rows []model.DisruptionRow) {
	n.disrupted = rows
}

// SetCouplingRows installs the (power_id, water_id) coupling pairs
// directly, bypassing Load.
func (n *InfraNetwork) SetCouplingRows(pairs [][2]string) {
	n.couplingRows = pairs
}

// DisruptedComponents returns the raw disruption list.
func (n *InfraNetwork) DisruptedComponents() []model.DisruptionRow {
	return n.disrupted
}

// DisruptedIDs returns the distinct disrupted component IDs in scenario
// order; this is the universe the repair optimizer permutes.
func (n *InfraNetwork) DisruptedIDs() []string {
	seen := make(map[string]bool, len(n.disrupted))
	var out []string
	for _, row := range n.disrupted {
		if !seen[row.ComponentID] {
			seen[row.ComponentID] = true
			out = append(out, row.ComponentID)
		}
	}
	return out
}

// Clone deep-copies the mutable state (event log, crews, domain solvers)
// and shares the immutable structures. Trial isolation depends on this:
// nothing a trial mutates may be reachable from the original.
func (n *InfraNetwork) Clone() *InfraNetwork {
	crews := make(map[model.Domain]*model.Crew, len(n.Crews))
	for d, c := range n.Crews {
		crews[d] = c.Clone()
	}

	return &InfraNetwork{
		Registry:     n.Registry,
		Store:        n.Store,
		Index:        n.Index,
		Deps:         n.Deps,
		Events:       n.Events.Clone(),
		Crews:        crews,
		Power:        n.Power.Clone(),
		Water:        n.Water.Clone(),
		Travel:       n.Travel,
		Grid:         n.Grid,
		log:          n.log,
		disrupted:    n.disrupted,
		couplingRows: n.couplingRows,
	}
}

var _ Network = (*InfraNetwork)(nil)
