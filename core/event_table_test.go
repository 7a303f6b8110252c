package core

import (
	"testing"

	"github.com/lifelinesims/lifeline-simulator/model"
)

func TestEventLogSortsStableByTime(t *testing.T) {
	l := NewEventLog()
	l.Append(model.EventRecord{Time: 600, ComponentID: "B", State: model.StateServiceDisrupted})
	l.Append(model.EventRecord{Time: 0, ComponentID: "A", State: model.StateFunctional})
	l.Append(model.EventRecord{Time: 600, ComponentID: "A", State: model.StateServiceDisrupted})

	rows := l.Rows()
	if len(rows) != 3 {
		t.Fatalf("Rows len = %d, want 3", len(rows))
	}
	if rows[0].ComponentID != "A" || rows[0].Time != 0 {
		t.Fatalf("rows[0] = %+v, want A at t=0", rows[0])
	}
	// Ties at t=600 keep insertion order: B before A.
	if rows[1].ComponentID != "B" || rows[2].ComponentID != "A" {
		t.Fatalf("tie order = %s, %s; want B, A", rows[1].ComponentID, rows[2].ComponentID)
	}
}

func TestEventLogTimesAndRowsAt(t *testing.T) {
	l := NewEventLog()
	for _, rec := range []model.EventRecord{
		{Time: 1200, ComponentID: "A"},
		{Time: 0, ComponentID: "A"},
		{Time: 0, ComponentID: "B"},
		{Time: 600, ComponentID: "B"},
	} {
		l.Append(rec)
	}

	times := l.Times()
	want := []int64{0, 600, 1200}
	if len(times) != len(want) {
		t.Fatalf("Times = %v, want %v", times, want)
	}
	for i := range want {
		if times[i] != want[i] {
			t.Fatalf("Times = %v, want %v", times, want)
		}
	}

	at0 := l.RowsAt(0)
	if len(at0) != 2 {
		t.Fatalf("RowsAt(0) len = %d, want 2", len(at0))
	}
	if len(l.RowsAt(300)) != 0 {
		t.Fatalf("RowsAt(300) should be empty")
	}
}

func TestEventLogLatestAtCarriesForward(t *testing.T) {
	l := NewEventLog()
	l.Append(model.EventRecord{Time: 0, ComponentID: "A", Performance: 100, State: model.StateFunctional})
	l.Append(model.EventRecord{Time: 600, ComponentID: "A", Performance: 50, State: model.StateServiceDisrupted})
	l.Append(model.EventRecord{Time: 3600, ComponentID: "A", Performance: 100, State: model.StateServiceRestored})

	rec, ok := l.LatestAt("A", 1800)
	if !ok {
		t.Fatalf("LatestAt found nothing")
	}
	if rec.Time != 600 || rec.Performance != 50 {
		t.Fatalf("LatestAt = %+v, want disrupted row at t=600", rec)
	}

	if _, ok := l.LatestAt("B", 1800); ok {
		t.Fatalf("LatestAt for unknown component should report not found")
	}
}

func TestEventLogCloneIsIndependent(t *testing.T) {
	l := NewEventLog()
	l.Append(model.EventRecord{Time: 0, ComponentID: "A"})

	cp := l.Clone()
	cp.Append(model.EventRecord{Time: 600, ComponentID: "B"})

	if l.Len() != 1 {
		t.Fatalf("clone append leaked into original: len = %d", l.Len())
	}
	if cp.Len() != 2 {
		t.Fatalf("clone len = %d, want 2", cp.Len())
	}
}
