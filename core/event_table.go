package core

import (
	"sort"

	"github.com/lifelinesims/lifeline-simulator/model"
)

// EventLog is the disruption/recovery event table: an append-only log of
// EventRecord plus a lazily rebuilt sorted view. Appending invalidates
// the view; Rows, Times, and RowsAt rebuild it on demand. Sorting is
// stable by time stamp with ties broken by original insertion order.
type EventLog struct {
	records []model.EventRecord

	sorted []model.EventRecord
	dirty  bool
}

// NewEventLog constructs an empty log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append adds a record to the log and invalidates the sorted view.
func (l *EventLog) Append(rec model.EventRecord) {
	l.records = append(l.records, rec)
	l.dirty = true
}

// Len returns the number of records.
func (l *EventLog) Len() int { return len(l.records) }

// Rows returns the time-ordered view of the log. Callers must not
// mutate the returned slice.
func (l *EventLog) Rows() []model.EventRecord {
	l.ensureSorted()
	return l.sorted
}

// Times returns the distinct time stamps present in the log, ascending.
func (l *EventLog) Times() []int64 {
	l.ensureSorted()

	var times []int64
	for _, rec := range l.sorted {
		if n := len(times); n == 0 || times[n-1] != rec.Time {
			times = append(times, rec.Time)
		}
	}
	return times
}

// RowsAt returns the records at exactly time t, in sorted-view order.
func (l *EventLog) RowsAt(t int64) []model.EventRecord {
	l.ensureSorted()

	lo := sort.Search(len(l.sorted), func(i int) bool { return l.sorted[i].Time >= t })
	hi := lo
	for hi < len(l.sorted) && l.sorted[hi].Time == t {
		hi++
	}
	return l.sorted[lo:hi]
}

// Components returns the distinct component IDs tracked by the log, in
// first-appearance order.
func (l *EventLog) Components() []string {
	seen := make(map[string]bool, len(l.records))
	var out []string
	for _, rec := range l.records {
		if !seen[rec.ComponentID] {
			seen[rec.ComponentID] = true
			out = append(out, rec.ComponentID)
		}
	}
	return out
}

// LatestAt returns the most recent record for componentID with a time
// stamp <= t, scanning the sorted view. The last-value-hold expansion
// rule is built on this lookup.
func (l *EventLog) LatestAt(componentID string, t int64) (model.EventRecord, bool) {
	l.ensureSorted()

	var latest model.EventRecord
	found := false
	for _, rec := range l.sorted {
		if rec.Time > t {
			break
		}
		if rec.ComponentID == componentID {
			latest = rec
			found = true
		}
	}
	return latest, found
}

// Replace swaps the log contents wholesale. Expansion uses this to
// install the densified table.
func (l *EventLog) Replace(records []model.EventRecord) {
	l.records = records
	l.dirty = true
	l.sorted = nil
}

// Clone returns an independent deep copy of the log.
func (l *EventLog) Clone() *EventLog {
	cp := &EventLog{
		records: make([]model.EventRecord, len(l.records)),
		dirty:   true,
	}
	copy(cp.records, l.records)
	return cp
}

func (l *EventLog) ensureSorted() {
	if !l.dirty && l.sorted != nil {
		return
	}
	l.sorted = make([]model.EventRecord, len(l.records))
	copy(l.sorted, l.records)
	sort.SliceStable(l.sorted, func(i, j int) bool {
		return l.sorted[i].Time < l.sorted[j].Time
	})
	l.dirty = false
}
