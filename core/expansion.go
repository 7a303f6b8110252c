package core

import (
	"sort"

	"github.com/lifelinesims/lifeline-simulator/model"
	"github.com/lifelinesims/lifeline-simulator/timegrid"
)

// ExpandEvents densifies the event log onto a simulation-ready time
// grid. The scheduler only emits change-point events; the physical
// solvers need every tracked component defined at every time stamp.
//
// Expansion merges the existing change points with up to addPoints
// additional evenly spaced stamps (skipping proposals within one step of
// an existing stamp), backfills every missing (component, stamp) pair by
// last-value-hold — never numeric interpolation — and finally shifts the
// whole table forward by one base step so the solver's first reporting
// interval lines up with the table's first event.
//
// Afterwards every tracked component has exactly one row per distinct
// stamp and the table is time-ordered.
func ExpandEvents(events *EventLog, grid timegrid.Grid, addPoints int) error {
	rows := events.Rows()
	if len(rows) == 0 {
		return nil
	}

	times := events.Times()
	first, last := times[0], times[len(times)-1]
	components := events.Components()

	stamps := make([]int64, len(times))
	copy(stamps, times)
	if addPoints > 0 && last > first {
		for _, p := range grid.ProposePoints(first, last, addPoints) {
			if !nearAnyStamp(times, p, grid) {
				stamps = append(stamps, p)
			}
		}
		sort.Slice(stamps, func(i, j int) bool { return stamps[i] < stamps[j] })
	}

	rowsByTime := make(map[int64][]model.EventRecord, len(times))
	for _, rec := range rows {
		rowsByTime[rec.Time] = append(rowsByTime[rec.Time], rec)
	}

	// Walk the merged stamps in order, carrying each component's most
	// recent row forward. Original rows at a stamp overwrite the carried
	// value first; duplicate rows for one component at one stamp
	// collapse to the last one, keeping the density invariant.
	latest := make(map[string]model.EventRecord, len(components))
	out := make([]model.EventRecord, 0, len(stamps)*len(components))
	for _, t := range stamps {
		for _, rec := range rowsByTime[t] {
			latest[rec.ComponentID] = rec
		}
		for _, id := range components {
			rec, ok := latest[id]
			if !ok {
				// No record at or before this stamp; the component was
				// untouched until later, so it reads as fully functional.
				rec = model.EventRecord{
					ComponentID: id,
					Performance: 100,
					State:       model.StateFunctional,
				}
			}
			rec.Time = t + grid.Step
			out = append(out, rec)
		}
	}

	events.Replace(out)
	return nil
}

// nearAnyStamp reports whether t falls within one step of any existing
// stamp. times must be sorted ascending.
func nearAnyStamp(times []int64, t int64, grid timegrid.Grid) bool {
	i := sort.Search(len(times), func(i int) bool { return times[i] >= t })
	if i < len(times) && grid.Near(times[i], t) {
		return true
	}
	if i > 0 && grid.Near(times[i-1], t) {
		return true
	}
	return false
}
