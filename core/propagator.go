package core

import (
	"context"
	"fmt"

	"github.com/lifelinesims/lifeline-simulator/internal/logging"
	"github.com/lifelinesims/lifeline-simulator/model"
)

// InterdependencyPropagator walks the expanded event table and executes
// the per-step causal chain:
//
//	direct effects -> power solve -> dependency update -> water solve -> metrics
//
// The order is mandatory. The dependency update must see the in-service
// flags left by the power solve, and the water solve must see the
// outages left by the dependency update, or a failed motor would not
// reach its coupled pump within the same step.
type InterdependencyPropagator struct {
	net     *InfraNetwork
	tracker *ResilienceTracker
	log     logging.Logger
}

// NewInterdependencyPropagator wires a propagator over a scheduled,
// expanded network.
func NewInterdependencyPropagator(net *InfraNetwork, tracker *ResilienceTracker) (*InterdependencyPropagator, error) {
	if net.Deps == nil {
		return nil, fmt.Errorf("propagator: dependency table not generated")
	}
	if tracker == nil {
		return nil, fmt.Errorf("propagator: nil resilience tracker")
	}
	return &InterdependencyPropagator{net: net, tracker: tracker, log: net.log}, nil
}

// Run executes the chain for each consecutive stamp pair (t, tNext) in
// the expanded table. Metrics are recorded at t from the freshly
// computed solver outputs.
func (p *InterdependencyPropagator) Run(ctx context.Context) error {
	times := p.net.Events.Times()

	for i := 0; i+1 < len(times); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t, tNext := times[i], times[i+1]

		down := make(map[string]bool)
		for _, rec := range p.net.Events.RowsAt(t) {
			if err := p.applyDirect(rec, t, tNext); err != nil {
				return err
			}
			if !rec.State.Operational() {
				down[rec.ComponentID] = true
			}
		}

		pres, err := p.net.Power.Solve(ctx)
		if err != nil {
			return fmt.Errorf("power solve at t=%d: %w", t, err)
		}

		p.net.Deps.Update(p.net.Power, p.net.Water, t, tNext, down)

		wres, err := p.net.Water.Solve(ctx, t, tNext)
		if err != nil {
			return fmt.Errorf("water solve over [%d, %d): %w", t, tNext, err)
		}

		if err := p.tracker.Record(t, pres, wres); err != nil {
			return err
		}
	}
	return nil
}

// applyDirect applies one event row's direct effect for [t, tNext).
func (p *InterdependencyPropagator) applyDirect(rec model.EventRecord, t, tNext int64) error {
	comp, err := p.net.Registry.Describe(rec.ComponentID)
	if err != nil {
		return fmt.Errorf("direct effect at t=%d: %w", t, err)
	}

	switch comp.Domain {
	case model.DomainPower:
		p.net.Power.SetInService(rec.ComponentID, rec.State.Operational())

	case model.DomainWater:
		p.applyWaterEffect(comp, rec, t, tNext)

	case model.DomainTransportation:
		// Road state feeds crew travel times through the external
		// transportation solver; there is no per-step direct effect.
	}
	return nil
}

func (p *InterdependencyPropagator) applyWaterEffect(comp model.Component, rec model.EventRecord, t, tNext int64) {
	water := p.net.Water

	switch comp.TypeCode {
	case "WP": // pump
		if rec.State.Operational() {
			water.ClearOutage(rec.ComponentID)
		} else {
			water.RegisterOutage(rec.ComponentID, t, tNext)
		}

	case "PMA": // pipe, pre-split into healthy segment + leak node
		switch rec.State {
		case model.StateServiceDisrupted:
			bore := water.PipeCrossSection(rec.ComponentID)
			area := (100 - rec.Performance) / 100 * bore
			water.ReplaceLeak(rec.ComponentID, area, t, tNext)
		case model.StateRepairing:
			water.SetBypassOpen(rec.ComponentID, false)
		case model.StateServiceRestored:
			water.SetBypassOpen(rec.ComponentID, true)
		}

	case "T": // tank
		degraded := rec.Performance < 100
		water.ScheduleTankIsolation(rec.ComponentID, degraded, t, tNext)
	}
}
