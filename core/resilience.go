package core

import (
	"fmt"
	"math"
)

// ResilienceSample is one recorded metric pair: the fraction of nominal
// service each domain delivered at Time. Values are nominally in [0,1]
// but deliberately unclamped; transient overshoot is preserved.
type ResilienceSample struct {
	Time  int64
	Power float64
	Water float64
}

// ResilienceTracker computes per-step consumption-ratio metrics for the
// water and power domains and accumulates them into a time series for
// AUC scoring.
type ResilienceTracker struct {
	patternIntervalHours float64

	// powerBase is the constant total base power demand, captured once
	// at construction.
	powerBase float64
	// demands holds each junction's base demand pattern, read-only.
	demands map[string][]float64

	samples []ResilienceSample
}

// NewResilienceTracker captures the base demands from both solvers.
func NewResilienceTracker(power PowerSolver, water WaterSolver, patternIntervalHours float64) (*ResilienceTracker, error) {
	if patternIntervalHours <= 0 {
		return nil, fmt.Errorf("resilience tracker: pattern interval must be positive, got %v", patternIntervalHours)
	}
	return &ResilienceTracker{
		patternIntervalHours: patternIntervalHours,
		powerBase:            power.BaseDemandMW(),
		demands:              water.JunctionDemands(),
	}, nil
}

// WaterMetric is delivered demand over the time-varying base demand at
// t. A zero base demand is reported as ErrZeroBaseDemand instead of
// letting the division produce NaN.
func (rt *ResilienceTracker) WaterMetric(t int64, res WaterResults) (float64, error) {
	base := 0.0
	for _, pattern := range rt.demands {
		base += patternValue(pattern, t, rt.patternIntervalHours)
	}
	if base == 0 {
		return 0, fmt.Errorf("water metric at t=%d: %w", t, ErrZeroBaseDemand)
	}
	return res.DeliveredDemand / base, nil
}

// PowerMetric is served load (including coupled motor load) over the
// constant total base power demand.
func (rt *ResilienceTracker) PowerMetric(res PowerResults) (float64, error) {
	if rt.powerBase == 0 {
		return 0, fmt.Errorf("power metric: %w", ErrZeroBaseDemand)
	}
	return (res.ServedLoadMW + res.ServedMotorLoadMW) / rt.powerBase, nil
}

// Record computes both metrics at t and appends a sample.
func (rt *ResilienceTracker) Record(t int64, pres PowerResults, wres WaterResults) error {
	power, err := rt.PowerMetric(pres)
	if err != nil {
		return err
	}
	water, err := rt.WaterMetric(t, wres)
	if err != nil {
		return err
	}
	rt.samples = append(rt.samples, ResilienceSample{Time: t, Power: power, Water: water})
	return nil
}

// Samples returns the recorded series in time order.
func (rt *ResilienceTracker) Samples() []ResilienceSample { return rt.samples }

// AUC returns the area under each resilience-vs-time curve, normalized
// by the horizon length. Each sample's value is held until the next
// sample (step integration, matching the last-value-hold tables the
// metrics are computed from).
func (rt *ResilienceTracker) AUC() (water, power float64, err error) {
	n := len(rt.samples)
	if n == 0 {
		return 0, 0, fmt.Errorf("auc: no samples recorded")
	}
	if n == 1 {
		return rt.samples[0].Water, rt.samples[0].Power, nil
	}

	horizon := rt.samples[n-1].Time - rt.samples[0].Time
	if horizon <= 0 {
		return rt.samples[0].Water, rt.samples[0].Power, nil
	}

	var waterArea, powerArea float64
	for i := 0; i < n-1; i++ {
		dt := float64(rt.samples[i+1].Time - rt.samples[i].Time)
		waterArea += rt.samples[i].Water * dt
		powerArea += rt.samples[i].Power * dt
	}
	return waterArea / float64(horizon), powerArea / float64(horizon), nil
}

// patternSlot maps a simulation time to a demand-pattern slot: the
// hour-of-day divided into patternIntervalHours-wide intervals, 1-based
// by convention (ceil), wrapped onto the pattern length.
func patternSlot(t int64, intervalHours float64, patternLen int) int {
	hourOfDay := math.Mod(float64(t)/3600.0, 24)
	idx := int(math.Ceil(hourOfDay / intervalHours))
	if idx < 1 {
		idx = 1
	}
	return (idx - 1) % patternLen
}

// patternValue indexes a demand pattern at simulation time t.
func patternValue(pattern []float64, t int64, intervalHours float64) float64 {
	if len(pattern) == 0 {
		return 0
	}
	return pattern[patternSlot(t, intervalHours, len(pattern))]
}
