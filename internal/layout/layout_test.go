package layout

import (
	"math"
	"testing"

	"github.com/javiermolinar/uniflow/internal/schedule"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func ev(id string, day schedule.Day, start, duration float64) schedule.Event {
	return schedule.Event{ID: id, CourseID: "c1", Day: day, StartHour: start, Duration: duration}
}

func TestFor_NoOverlapIsFullWidth(t *testing.T) {
	events := []schedule.Event{
		ev("a", schedule.Monday, 9, 1),
		ev("b", schedule.Monday, 10, 1), // back to back
		ev("c", schedule.Tuesday, 9, 2), // other day
	}

	p := For(events[0], events)
	if p != Full {
		t.Errorf("expected full width placement, got %+v", p)
	}
	if !approx(p.Width, 96) || !approx(p.Left, 2) {
		t.Errorf("expected 96%% width at 2%%, got %v at %v", p.Width, p.Left)
	}
}

func TestFor_TwoOverlappingEvents(t *testing.T) {
	// CS-101 Mon 9:00 for 1.5h and MATH-201 Mon 9:30 for 1h.
	a := ev("e-1", schedule.Monday, 9, 1.5)
	b := ev("e-2", schedule.Monday, 9.5, 1)
	day := []schedule.Event{a, b}

	pa := For(a, day)
	pb := For(b, day)

	if !approx(pa.Width, 48) || !approx(pb.Width, 48) {
		t.Fatalf("expected 48%% columns, got %v and %v", pa.Width, pb.Width)
	}
	if !approx(pa.Left, 2) || !approx(pb.Left, 50) {
		t.Errorf("expected lefts 2%% and 50%%, got %v and %v", pa.Left, pb.Left)
	}
	if pa.Column != 0 || pb.Column != 1 || pa.Columns != 2 {
		t.Errorf("unexpected columns %+v %+v", pa, pb)
	}
}

func TestFor_OrderIndependent(t *testing.T) {
	events := []schedule.Event{
		ev("zeta", schedule.Wednesday, 10, 2),
		ev("alpha", schedule.Wednesday, 10.5, 1),
		ev("mid", schedule.Wednesday, 11, 1),
	}
	reversed := []schedule.Event{events[2], events[1], events[0]}

	first := Day(events)
	second := Day(reversed)

	for id, p := range first {
		if second[id] != p {
			t.Errorf("placement of %s changed with input order: %+v vs %+v", id, p, second[id])
		}
	}
	if first["alpha"].Column != 0 || first["mid"].Column != 1 || first["zeta"].Column != 2 {
		t.Errorf("columns must follow ID order, got %+v", first)
	}
	if !approx(first["alpha"].Width, 32) {
		t.Errorf("expected 32%% width for three-way overlap, got %v", first["alpha"].Width)
	}
}

func TestFor_LocalPairwisePacking(t *testing.T) {
	// a overlaps b, b overlaps c, a and c do not overlap.
	a := ev("a", schedule.Thursday, 9, 1)
	b := ev("b", schedule.Thursday, 9.5, 1)
	c := ev("c", schedule.Thursday, 10, 1)
	day := Day([]schedule.Event{a, b, c})

	if day["a"].Columns != 2 || day["c"].Columns != 2 {
		t.Errorf("ends of the chain only see their direct neighbour, got %+v", day)
	}
	if day["b"].Columns != 3 {
		t.Errorf("middle event sees both neighbours, got %+v", day["b"])
	}
	if day["c"].Column != 1 {
		t.Errorf("c sorts after b in its own group, got column %d", day["c"].Column)
	}
}

func TestWeek(t *testing.T) {
	events := []schedule.Event{
		ev("m1", schedule.Monday, 9, 2),
		ev("m2", schedule.Monday, 10, 1),
		ev("t1", schedule.Tuesday, 10, 1),
	}

	week := Week(events)
	if len(week) != 3 {
		t.Fatalf("expected 3 placements, got %d", len(week))
	}
	if week["t1"] != Full {
		t.Errorf("lonely Tuesday event should be full width, got %+v", week["t1"])
	}
	if week["m2"].Column != 1 {
		t.Errorf("expected m2 in column 1, got %+v", week["m2"])
	}
}

func TestSpan(t *testing.T) {
	tests := []struct {
		name      string
		p         Placement
		width     int
		wantStart int
		wantEnd   int
	}{
		{name: "full", p: Full, width: 20, wantStart: 0, wantEnd: 20},
		{name: "left half", p: Placement{Width: 48, Left: 2}, width: 20, wantStart: 0, wantEnd: 10},
		{name: "right half", p: Placement{Width: 48, Left: 50}, width: 20, wantStart: 10, wantEnd: 20},
		{name: "narrow column never empty", p: Placement{Width: 9.6, Left: 88.4}, width: 4, wantStart: 3, wantEnd: 4},
		{name: "zero width", p: Full, width: 0, wantStart: 0, wantEnd: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			start, end := Span(tc.p, tc.width)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("Span = [%d,%d), want [%d,%d)", start, end, tc.wantStart, tc.wantEnd)
			}
		})
	}
}
