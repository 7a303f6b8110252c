package core

import (
	"fmt"

	"github.com/lifelinesims/lifeline-simulator/kb"
	"github.com/lifelinesims/lifeline-simulator/model"
)

// couplingPattern is a recognized cross-domain dependency shape, keyed by
// (source type code, target type code).
type couplingPattern struct {
	sourceDomain model.Domain
	targetDomain model.Domain
}

// recognizedCouplings lists the coupling shapes the table accepts:
// a power motor drives a water pump, a power generator energizes a water
// reservoir's intake works.
var recognizedCouplings = map[[2]string]couplingPattern{
	{"MP", "WP"}: {sourceDomain: model.DomainPower, targetDomain: model.DomainWater},
	{"G", "R"}:   {sourceDomain: model.DomainPower, targetDomain: model.DomainWater},
}

// DependencyTable stores the static cross-domain coupling edges and the
// transportation-access edges. It is built once before simulation and is
// read-only afterwards, so optimizer trials share a single instance.
type DependencyTable struct {
	registry *ComponentRegistry
	store    *kb.Store
	index    *NearestNodeIndex

	couplings []model.Coupling
	access    map[string]model.AccessEdge
}

// NewDependencyTable constructs an empty table over the given graph.
func NewDependencyTable(registry *ComponentRegistry, store *kb.Store, index *NearestNodeIndex) *DependencyTable {
	return &DependencyTable{
		registry: registry,
		store:    store,
		index:    index,
		access:   make(map[string]model.AccessEdge),
	}
}

// AddCoupling records a directed coupling edge after validating that the
// inferred component types match a recognized pattern.
func (dt *DependencyTable) AddCoupling(sourceID, targetID string) error {
	src, err := dt.registry.Describe(sourceID)
	if err != nil {
		return err
	}
	dst, err := dt.registry.Describe(targetID)
	if err != nil {
		return err
	}

	pattern, ok := recognizedCouplings[[2]string{src.TypeCode, dst.TypeCode}]
	if !ok || src.Domain != pattern.sourceDomain || dst.Domain != pattern.targetDomain {
		return fmt.Errorf("%w: %s (%s/%s) -> %s (%s/%s)",
			ErrInvalidCoupling, sourceID, src.Domain, src.TypeCode, targetID, dst.Domain, dst.TypeCode)
	}

	dt.couplings = append(dt.couplings, model.Coupling{
		SourceID:   sourceID,
		TargetID:   targetID,
		SourceType: src.TypeCode,
		TargetType: dst.TypeCode,
	})
	return nil
}

// Couplings returns the coupling edges. Callers must not mutate them.
func (dt *DependencyTable) Couplings() []model.Coupling { return dt.couplings }

// BuildAccessEdges computes and stores, for every power and water node,
// its nearest transportation node. Crew travel lookups read this table.
func (dt *DependencyTable) BuildAccessEdges() error {
	for _, domain := range []model.Domain{model.DomainPower, model.DomainWater} {
		for _, node := range dt.store.NodesByDomain(domain) {
			roadID, dist, err := dt.index.Nearest(node.ID, model.DomainTransportation)
			if err != nil {
				return fmt.Errorf("build access edges: %w", err)
			}
			dt.access[node.ID] = model.AccessEdge{
				NodeID:     node.ID,
				RoadNodeID: roadID,
				Distance:   dist,
			}
		}
	}
	return nil
}

// AccessRoadNode returns the precomputed nearest road node for an
// infrastructure node.
func (dt *DependencyTable) AccessRoadNode(nodeID string) (model.AccessEdge, bool) {
	edge, ok := dt.access[nodeID]
	return edge, ok
}

// Update propagates coupling effects for the interval [tStart, tEnd):
// every coupling whose source component is out of service on the power
// side marks its target out of service with the water solver for exactly
// that interval; sources back in service clear the target's outage.
//
// down lists water components that are out of service on their own
// account this step. A healthy source never clears those: a pump under
// repair stays out even though its motor is fine.
//
// Must run after the power solve of the same step so the in-service
// flags reflect the latest power state.
func (dt *DependencyTable) Update(power PowerSolver, water WaterSolver, tStart, tEnd int64, down map[string]bool) {
	for _, c := range dt.couplings {
		switch {
		case !power.InService(c.SourceID):
			water.RegisterOutage(c.TargetID, tStart, tEnd)
		case down[c.TargetID]:
			// Direct outage owns the target this step.
		default:
			water.ClearOutage(c.TargetID)
		}
	}
}
