package core

import (
	"context"
	"fmt"
)

// Fake solvers back the test suite and the demo command. They are
// deterministic stand-ins for the real hydraulic / power-flow / traffic
// collaborators: crude physics, exact bookkeeping. The bookkeeping side
// (outage windows, leak replacement, duration advancement) mirrors the
// real solver contracts closely enough that the propagator and the
// dependency table can be exercised against them.

// FakePowerSolver serves every load whose component is in service.
type FakePowerSolver struct {
	// Loads maps load-carrying component IDs to MW.
	Loads map[string]float64
	// MotorLoads maps motor component IDs to MW.
	MotorLoads map[string]float64
	// FailSolves makes Solve return ErrSolverNonConvergence.
	FailSolves bool

	outOfService map[string]bool
	baseDemand   float64
	solveCount   int
}

// NewFakePowerSolver computes the constant base demand from the supplied
// load tables.
func NewFakePowerSolver(loads, motorLoads map[string]float64) *FakePowerSolver {
	base := 0.0
	for _, mw := range loads {
		base += mw
	}
	for _, mw := range motorLoads {
		base += mw
	}
	return &FakePowerSolver{
		Loads:        loads,
		MotorLoads:   motorLoads,
		outOfService: make(map[string]bool),
		baseDemand:   base,
	}
}

func (f *FakePowerSolver) SetInService(componentID string, inService bool) {
	if inService {
		delete(f.outOfService, componentID)
	} else {
		f.outOfService[componentID] = true
	}
}

func (f *FakePowerSolver) InService(componentID string) bool {
	return !f.outOfService[componentID]
}

func (f *FakePowerSolver) Solve(ctx context.Context) (PowerResults, error) {
	if err := ctx.Err(); err != nil {
		return PowerResults{}, err
	}
	if f.FailSolves {
		return PowerResults{}, fmt.Errorf("fake power solver: %w", ErrSolverNonConvergence)
	}
	f.solveCount++

	var res PowerResults
	for id, mw := range f.Loads {
		if f.InService(id) {
			res.ServedLoadMW += mw
		}
	}
	for id, mw := range f.MotorLoads {
		if f.InService(id) {
			res.ServedMotorLoadMW += mw
		}
	}
	return res, nil
}

func (f *FakePowerSolver) BaseDemandMW() float64 { return f.baseDemand }

// SolveCount reports how many solves ran, for ordering assertions.
func (f *FakePowerSolver) SolveCount() int { return f.solveCount }

func (f *FakePowerSolver) Clone() PowerSolver {
	cp := &FakePowerSolver{
		Loads:        f.Loads,      // read-only
		MotorLoads:   f.MotorLoads, // read-only
		FailSolves:   f.FailSolves,
		outOfService: make(map[string]bool, len(f.outOfService)),
		baseDemand:   f.baseDemand,
	}
	for id := range f.outOfService {
		cp.outOfService[id] = true
	}
	return cp
}

// outageWindow is one registered out-of-service interval.
type outageWindow struct {
	Start, End int64
}

// leakControl is the active leak on a pre-split pipe.
type leakControl struct {
	Area       float64
	Start, End int64
}

// FakeWaterSolver delivers the pattern-indexed base demand scaled down by
// active outages and leaks.
type FakeWaterSolver struct {
	// Demands maps junction IDs to base demand per pattern interval.
	Demands map[string][]float64
	// CrossSections maps pipe IDs to cross-sectional area.
	CrossSections map[string]float64
	// PatternIntervalHours is the width of one demand-pattern slot.
	PatternIntervalHours float64
	// FailSolves makes Solve return ErrSolverNonConvergence.
	FailSolves bool

	outages      map[string]outageWindow
	leaks        map[string]leakControl
	bypassOpen   map[string]bool
	tankIsolated map[string]outageWindow

	// duration is the solver's internal simulated-duration counter; each
	// Solve advances it by the interval width.
	duration int64
}

func NewFakeWaterSolver(demands map[string][]float64, crossSections map[string]float64, patternIntervalHours float64) *FakeWaterSolver {
	return &FakeWaterSolver{
		Demands:              demands,
		CrossSections:        crossSections,
		PatternIntervalHours: patternIntervalHours,
		outages:              make(map[string]outageWindow),
		leaks:                make(map[string]leakControl),
		bypassOpen:           make(map[string]bool),
		tankIsolated:         make(map[string]outageWindow),
	}
}

func (f *FakeWaterSolver) RegisterOutage(componentID string, tStart, tEnd int64) {
	f.outages[componentID] = outageWindow{Start: tStart, End: tEnd}
}

func (f *FakeWaterSolver) ClearOutage(componentID string) {
	delete(f.outages, componentID)
}

// Outage reports the registered window for a component, for tests.
func (f *FakeWaterSolver) Outage(componentID string) (start, end int64, ok bool) {
	w, ok := f.outages[componentID]
	return w.Start, w.End, ok
}

func (f *FakeWaterSolver) ReplaceLeak(pipeID string, area float64, tStart, tEnd int64) {
	f.leaks[pipeID] = leakControl{Area: area, Start: tStart, End: tEnd}
}

// Leak reports the active leak on a pipe, for tests.
func (f *FakeWaterSolver) Leak(pipeID string) (area float64, ok bool) {
	l, ok := f.leaks[pipeID]
	return l.Area, ok
}

func (f *FakeWaterSolver) SetBypassOpen(pipeID string, open bool) {
	f.bypassOpen[pipeID] = open
}

// BypassOpen reports the bypass state of a pipe, for tests.
func (f *FakeWaterSolver) BypassOpen(pipeID string) (open, ok bool) {
	open, ok = f.bypassOpen[pipeID]
	return open, ok
}

func (f *FakeWaterSolver) ScheduleTankIsolation(tankID string, isolate bool, tStart, tEnd int64) {
	if isolate {
		f.tankIsolated[tankID] = outageWindow{Start: tStart, End: tEnd}
	} else {
		delete(f.tankIsolated, tankID)
	}
}

func (f *FakeWaterSolver) PipeCrossSection(pipeID string) float64 {
	return f.CrossSections[pipeID]
}

func (f *FakeWaterSolver) JunctionDemands() map[string][]float64 { return f.Demands }

// Duration reports the internal simulated-duration counter, for tests.
func (f *FakeWaterSolver) Duration() int64 { return f.duration }

func (f *FakeWaterSolver) Solve(ctx context.Context, tStart, tEnd int64) (WaterResults, error) {
	if err := ctx.Err(); err != nil {
		return WaterResults{}, err
	}
	if f.FailSolves {
		return WaterResults{}, fmt.Errorf("fake water solver: %w", ErrSolverNonConvergence)
	}
	f.duration += tEnd - tStart

	base := 0.0
	for _, pattern := range f.Demands {
		base += patternValue(pattern, tStart, f.PatternIntervalHours)
	}

	// Each active outage or isolated tank halves delivery; leaks bleed
	// off their area fraction of the pipe bore. Crude, but monotone and
	// deterministic, which is all the orchestration tests need.
	served := base
	for _, w := range f.outages {
		if w.Start <= tStart && tStart < w.End {
			served *= 0.5
		}
	}
	for _, w := range f.tankIsolated {
		if w.Start <= tStart && tStart < w.End {
			served *= 0.5
		}
	}
	for pipeID, leak := range f.leaks {
		if leak.Start <= tStart && tStart < leak.End {
			if bore := f.CrossSections[pipeID]; bore > 0 {
				frac := leak.Area / bore
				if frac > 1 {
					frac = 1
				}
				served *= 1 - 0.5*frac
			}
		}
	}
	return WaterResults{DeliveredDemand: served}, nil
}

func (f *FakeWaterSolver) Clone() WaterSolver {
	cp := NewFakeWaterSolver(f.Demands, f.CrossSections, f.PatternIntervalHours)
	cp.FailSolves = f.FailSolves
	cp.duration = f.duration
	for id, w := range f.outages {
		cp.outages[id] = w
	}
	for id, l := range f.leaks {
		cp.leaks[id] = l
	}
	for id, open := range f.bypassOpen {
		cp.bypassOpen[id] = open
	}
	for id, w := range f.tankIsolated {
		cp.tankIsolated[id] = w
	}
	return cp
}

// FakeTravelEstimator looks up travel minutes from a symmetric table,
// falling back to a default for unlisted pairs.
type FakeTravelEstimator struct {
	// Minutes maps "origin->dest" to travel minutes.
	Minutes map[[2]string]float64
	// DefaultMinutes is used for pairs not in the table.
	DefaultMinutes float64
}

func NewFakeTravelEstimator(defaultMinutes float64) *FakeTravelEstimator {
	return &FakeTravelEstimator{
		Minutes:        make(map[[2]string]float64),
		DefaultMinutes: defaultMinutes,
	}
}

// SetMinutes records a symmetric travel time between two road nodes.
func (f *FakeTravelEstimator) SetMinutes(a, b string, minutes float64) {
	f.Minutes[[2]string{a, b}] = minutes
	f.Minutes[[2]string{b, a}] = minutes
}

func (f *FakeTravelEstimator) TravelMinutes(originNode, destNode string) (float64, error) {
	if originNode == destNode {
		return 0, nil
	}
	if m, ok := f.Minutes[[2]string{originNode, destNode}]; ok {
		return m, nil
	}
	return f.DefaultMinutes, nil
}
