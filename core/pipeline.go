package core

import "context"

// PipelineOptions tunes one scheduling+propagation run.
type PipelineOptions struct {
	// AddPoints is how many synthetic stamps expansion spreads across
	// the horizon.
	AddPoints int
	// PatternIntervalHours is the demand-pattern slot width for the
	// water metric.
	PatternIntervalHours float64
}

// RunPipeline executes the full per-candidate pipeline on net, mutating
// it: schedule the repair order, expand the event table, propagate
// interdependencies step by step, and return the resilience series.
// Callers that need isolation pass a Clone.
func RunPipeline(ctx context.Context, net *InfraNetwork, repairOrder []string, opts PipelineOptions) (*ResilienceTracker, error) {
	sched := NewRestorationScheduler(net)
	if err := sched.Schedule(ctx, repairOrder); err != nil {
		return nil, err
	}

	if err := ExpandEvents(net.Events, net.Grid, opts.AddPoints); err != nil {
		return nil, err
	}

	tracker, err := NewResilienceTracker(net.Power, net.Water, opts.PatternIntervalHours)
	if err != nil {
		return nil, err
	}

	prop, err := NewInterdependencyPropagator(net, tracker)
	if err != nil {
		return nil, err
	}
	if err := prop.Run(ctx); err != nil {
		return nil, err
	}
	return tracker, nil
}
