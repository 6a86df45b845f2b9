// Package layout positions overlapping events of one day side by side.
//
// Packing is local: an event's columns are derived only from the events that
// directly overlap it, never transitively through chains of partial overlaps.
// Directly overlapping pairs never collide, but a chain A-B-C where A and C do
// not overlap may produce uneven columns. This matches the grid users already
// know and is kept on purpose.
package layout

import (
	"sort"

	"github.com/javiermolinar/uniflow/internal/schedule"
)

const (
	// Margin is the gap, in percent, on each side of a day column.
	Margin = 2.0
	// Usable is the percentage of the day column events may occupy.
	Usable = 100 - 2*Margin
)

// Placement is the horizontal geometry of an event inside its day column.
type Placement struct {
	Width   float64 // percent of the day column
	Left    float64 // percent offset from the left edge
	Column  int     // index of the event inside its overlap group
	Columns int     // size of the overlap group, 1 when alone
}

// Right returns the right edge in percent.
func (p Placement) Right() float64 {
	return p.Left + p.Width
}

// Full is the placement of an event that overlaps nothing.
var Full = Placement{Width: Usable, Left: Margin, Column: 0, Columns: 1}

// For computes the placement of e among the events of its day. dayEvents may
// include e itself and events of other days; both are ignored.
func For(e schedule.Event, dayEvents []schedule.Event) Placement {
	group := []schedule.Event{e}
	for _, other := range dayEvents {
		if other.ID == e.ID {
			continue
		}
		if e.Overlaps(other) {
			group = append(group, other)
		}
	}
	if len(group) == 1 {
		return Full
	}

	sort.SliceStable(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	idx := 0
	for i, g := range group {
		if g.ID == e.ID {
			idx = i
			break
		}
	}

	width := Usable / float64(len(group))
	return Placement{
		Width:   width,
		Left:    width*float64(idx) + Margin,
		Column:  idx,
		Columns: len(group),
	}
}

// Day computes placements for every event of one day, keyed by event ID.
func Day(dayEvents []schedule.Event) map[string]Placement {
	out := make(map[string]Placement, len(dayEvents))
	for _, e := range dayEvents {
		out[e.ID] = For(e, dayEvents)
	}
	return out
}

// Week groups events by day and computes placements for all of them.
func Week(events []schedule.Event) map[string]Placement {
	byDay := make(map[schedule.Day][]schedule.Event)
	for _, e := range events {
		byDay[e.Day] = append(byDay[e.Day], e)
	}
	out := make(map[string]Placement, len(events))
	for _, dayEvents := range byDay {
		for id, p := range Day(dayEvents) {
			out[id] = p
		}
	}
	return out
}

// Span converts a placement into a [start, end) cell range for a column of
// the given width. The range is never empty when width > 0.
func Span(p Placement, width int) (start, end int) {
	if width <= 0 {
		return 0, 0
	}
	start = int(p.Left / 100 * float64(width))
	end = int(p.Right()/100*float64(width) + 0.5)
	if end > width {
		end = width
	}
	if start >= end {
		start = max(0, end-1)
	}
	return start, end
}
