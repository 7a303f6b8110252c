package core

import (
	"context"
	"fmt"
	"math"

	"github.com/lifelinesims/lifeline-simulator/internal/logging"
	"github.com/lifelinesims/lifeline-simulator/model"
)

// RestorationScheduler builds the event table for one repair order:
// seed rows for every disrupted component, then crew travel, repair
// windows, and restoration events appended strictly in repair order.
// The repair order is the decision variable the optimizer searches over.
type RestorationScheduler struct {
	net *InfraNetwork
	log logging.Logger
}

// NewRestorationScheduler wraps a network aggregate.
func NewRestorationScheduler(net *InfraNetwork) *RestorationScheduler {
	return &RestorationScheduler{net: net, log: net.log}
}

// Schedule populates the network's event log for the given repair order.
//
// Each scheduled repair emits three rows: Repairing at the crew's
// arrival, a second Repairing marker two steps before the repair ends
// (so expansion carries the repairing level up to the boundary instead
// of interpolating across it), and Service Restored at the end. Crews
// are reset to their offices afterwards so Schedule is idempotent with
// respect to crew start state.
//
// An empty repair order is a no-op beyond the seed rows. A repair-order
// entry that cannot be described is fatal.
func (s *RestorationScheduler) Schedule(ctx context.Context, repairOrder []string) error {
	s.seed()

	for _, componentID := range repairOrder {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.scheduleOne(componentID); err != nil {
			return err
		}
	}

	// Force the stable time-ordered rebuild now rather than on first read.
	s.net.Events.Rows()

	for _, crew := range s.net.Crews {
		crew.Reset()
	}
	return nil
}

// seed writes one Functional row per disrupted component at t=0 plus one
// Service Disrupted row per raw disruption entry. A disruption at t=0
// replaces the Functional seed so per-component stamps stay strictly
// increasing.
func (s *RestorationScheduler) seed() {
	events := s.net.Events

	earliest := make(map[string]int64, len(s.net.disrupted))
	for _, row := range s.net.disrupted {
		if t, ok := earliest[row.ComponentID]; !ok || row.Time < t {
			earliest[row.ComponentID] = row.Time
		}
	}

	seeded := make(map[string]bool, len(earliest))
	for _, row := range s.net.disrupted {
		if !seeded[row.ComponentID] {
			seeded[row.ComponentID] = true
			if earliest[row.ComponentID] > 0 {
				events.Append(model.EventRecord{
					Time:        0,
					ComponentID: row.ComponentID,
					Performance: 100,
					State:       model.StateFunctional,
				})
			}
		}
		events.Append(model.EventRecord{
			Time:        row.Time,
			ComponentID: row.ComponentID,
			Performance: float64(100 - row.FailPercent),
			State:       model.StateServiceDisrupted,
		})
	}
}

func (s *RestorationScheduler) scheduleOne(componentID string) error {
	comp, err := s.net.Registry.Describe(componentID)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", componentID, err)
	}

	crew, ok := s.net.Crews[comp.Domain]
	if !ok {
		return fmt.Errorf("schedule %s: no crew for domain %s", componentID, comp.Domain)
	}

	nodeID := s.net.Store.NodeForComponent(componentID)
	if nodeID == "" {
		return fmt.Errorf("schedule %s: %w", componentID, ErrUnboundComponent)
	}

	roadNode, err := s.roadNodeFor(nodeID)
	if err != nil {
		return fmt.Errorf("schedule %s: %w", componentID, err)
	}

	travelMin, err := s.net.Travel.TravelMinutes(crew.Location, roadNode)
	if err != nil {
		return fmt.Errorf("schedule %s: travel time: %w", componentID, err)
	}
	travelSecs := int64(math.Round(travelMin * 60))

	recoveryStart := crew.NextAvailable + travelSecs
	recoveryEnd := recoveryStart + comp.RepairTime

	// Performance is held at the disrupted level through the repair
	// window, then jumps to 100 on restoration.
	level := 100.0
	if latest, ok := s.net.Events.LatestAt(componentID, recoveryStart); ok {
		level = latest.Performance
	}

	s.net.Events.Append(model.EventRecord{
		Time:        recoveryStart,
		ComponentID: componentID,
		Performance: level,
		State:       model.StateRepairing,
	})

	// Near-end marker two steps before the boundary. Skipped for repairs
	// shorter than two steps, where it would collide with the start row.
	if nearEnd := recoveryEnd - 2*s.net.Grid.Step; nearEnd > recoveryStart {
		s.net.Events.Append(model.EventRecord{
			Time:        nearEnd,
			ComponentID: componentID,
			Performance: level,
			State:       model.StateRepairing,
		})
	}

	s.net.Events.Append(model.EventRecord{
		Time:        recoveryEnd,
		ComponentID: componentID,
		Performance: 100,
		State:       model.StateServiceRestored,
	})

	s.log.Debug(context.Background(), "scheduled repair",
		logging.String("component", componentID),
		logging.String("crew_domain", string(comp.Domain)),
		logging.String("road_node", roadNode),
		logging.Int("recovery_start", int(recoveryStart)),
		logging.Int("recovery_end", int(recoveryEnd)),
	)

	crew.Location = roadNode
	crew.NextAvailable = recoveryEnd
	return nil
}

// roadNodeFor resolves the nearest transportation node for an
// infrastructure node, preferring the precomputed access edge and
// falling back to a live index query.
func (s *RestorationScheduler) roadNodeFor(nodeID string) (string, error) {
	if s.net.Deps != nil {
		if edge, ok := s.net.Deps.AccessRoadNode(nodeID); ok {
			return edge.RoadNodeID, nil
		}
	}
	if s.net.Index == nil {
		return "", fmt.Errorf("no nearest-node index for %q", nodeID)
	}
	roadID, _, err := s.net.Index.Nearest(nodeID, model.DomainTransportation)
	return roadID, err
}
