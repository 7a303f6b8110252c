package core

import "context"

// The physical solvers for power flow, water hydraulics, and traffic
// assignment are external collaborators. The simulator only depends on
// the narrow contracts below; fake implementations live in
// fake_solvers.go and real solvers are wired in by the embedding
// application.

// PowerResults is the output of one power-flow solve.
type PowerResults struct {
	// ServedLoadMW is the total load actually served.
	ServedLoadMW float64
	// ServedMotorLoadMW is the load served to coupled pump motors.
	ServedMotorLoadMW float64
}

// WaterResults is the output of one hydraulic solve over an interval.
type WaterResults struct {
	// DeliveredDemand is the total water actually delivered over the
	// interval, in demand units.
	DeliveredDemand float64
}

// PowerSolver is the power-flow collaborator. Implementations carry the
// live in-service flags of power components; the propagator flips those
// flags from event rows before each solve.
type PowerSolver interface {
	// SetInService flips the in-service flag of a power component.
	SetInService(componentID string, inService bool)
	// InService reports the current in-service flag of a component.
	InService(componentID string) bool
	// Solve runs one power-flow computation against the current flags.
	Solve(ctx context.Context) (PowerResults, error)
	// BaseDemandMW is the total base power demand, a constant computed
	// once at load time. The power resilience metric divides by it.
	BaseDemandMW() float64
	// Clone returns an independent deep copy for trial isolation.
	Clone() PowerSolver
}

// WaterSolver is the hydraulic collaborator. It is stateful: Solve
// advances internal simulated-duration counters by the interval width.
type WaterSolver interface {
	// RegisterOutage takes a component (pump or reservoir) out of
	// service for [tStart, tEnd).
	RegisterOutage(componentID string, tStart, tEnd int64)
	// ClearOutage removes any outage registered for the component.
	ClearOutage(componentID string)
	// ReplaceLeak replaces any existing leak control on a pipe with a
	// new leak of the given area spanning [tStart, tEnd).
	ReplaceLeak(pipeID string, area float64, tStart, tEnd int64)
	// SetBypassOpen opens or closes the healthy bypass segment of a
	// pre-split disrupted pipe.
	SetBypassOpen(pipeID string, open bool)
	// ScheduleTankIsolation schedules open/close controls bracketing
	// [tStart, tEnd) on every pipe touching the tank.
	ScheduleTankIsolation(tankID string, isolate bool, tStart, tEnd int64)
	// PipeCrossSection returns the cross-sectional area of a pipe, used
	// to size leak areas from performance levels.
	PipeCrossSection(pipeID string) float64
	// Solve runs hydraulics for [tStart, tEnd), advancing the solver's
	// internal duration and report timestep by tEnd-tStart.
	Solve(ctx context.Context, tStart, tEnd int64) (WaterResults, error)
	// JunctionDemands returns each junction's base demand pattern, one
	// value per pattern interval. Read-only.
	JunctionDemands() map[string][]float64
	// Clone returns an independent deep copy for trial isolation.
	Clone() WaterSolver
}

// TravelEstimator is the transportation collaborator: shortest travel
// time between two road nodes, in minutes. Implementations are expected
// to be read-only and safe to share across trials.
type TravelEstimator interface {
	TravelMinutes(originNode, destNode string) (float64, error)
}
