package timegrid

import "fmt"

// Grid describes the base simulation time step. All event-table time
// stamps are kept aligned to multiples of Step so the physical solvers
// advance through a uniform reporting grid.
type Grid struct {
	// Step is the base simulation step in seconds.
	Step int64
}

// New constructs a grid, rejecting non-positive steps.
func New(step int64) (Grid, error) {
	if step <= 0 {
		return Grid{}, fmt.Errorf("timegrid: step must be positive, got %d", step)
	}
	return Grid{Step: step}, nil
}

// AlignToStep rounds t to the nearest multiple of the base step.
// Exact midpoints round up.
func (g Grid) AlignToStep(t int64) int64 {
	if g.Step <= 0 {
		return t
	}
	rem := t % g.Step
	if rem < 0 {
		rem += g.Step
	}
	base := t - rem
	if rem*2 >= g.Step {
		return base + g.Step
	}
	return base
}

// Near reports whether a and b fall within one base step of each other.
// Expansion uses this to avoid inserting near-duplicate synthetic stamps.
func (g Grid) Near(a, b int64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= g.Step
}

// ProposePoints returns count evenly spaced stamps spanning [first, last],
// each aligned to the base step. The spacing is (last-first)/count rounded
// to the nearest step multiple; a spacing that rounds to zero collapses to
// one step so the proposal always advances.
func (g Grid) ProposePoints(first, last int64, count int) []int64 {
	if count <= 0 || last <= first {
		return nil
	}

	interval := g.AlignToStep((last - first) / int64(count))
	if interval <= 0 {
		interval = g.Step
	}

	var points []int64
	for t := first + interval; t < last; t += interval {
		points = append(points, g.AlignToStep(t))
	}
	return points
}
