package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/layout"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/tui/view"
)

// segment is the slice of a day cell owned by one event.
type segment struct {
	Event      schedule.Event
	Start, End int  // [Start, End) terminal columns inside the cell
	Head       bool // the event starts inside this hour row
}

// cellSegments splits a day cell of width columns between the events
// covering the hour row starting at hour, following the layout engine's
// sub-columns. Segments are ordered by their left edge.
func cellSegments(dayEvents []schedule.Event, hour float64, width int) []segment {
	placements := layout.Day(dayEvents)
	var out []segment
	for _, e := range dayEvents {
		if !e.Covers(hour) {
			continue
		}
		start, end := layout.Span(placements[e.ID], width)
		out = append(out, segment{
			Event: e,
			Start: start,
			End:   end,
			Head:  e.StartHour >= hour && e.StartHour < hour+1,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// cellOwners maps every column of the cell to the index of the segment
// painted there, or -1. Later segments paint over earlier ones.
func cellOwners(segs []segment, width int) []int {
	owners := make([]int, width)
	for i := range owners {
		owners[i] = -1
	}
	for i, s := range segs {
		for c := s.Start; c < s.End && c < width; c++ {
			owners[c] = i
		}
	}
	return owners
}

// segmentLabel is the text of one line of a segment: the course code on the
// first line and the time range on the second. Continuation rows are blank.
func segmentLabel(s segment, line int) string {
	if !s.Head {
		return ""
	}
	switch line {
	case 0:
		return " " + courseCode(s.Event.CourseID)
	case 1:
		return " " + dateutil.ClockHour(s.Event.StartHour) + "-" + dateutil.ClockHour(s.Event.EndHour())
	}
	return ""
}

// renderCell renders one hour row of one day as rowLines lines of exactly
// width columns.
func (m Model) renderCell(dayEvents []schedule.Event, hour, width int, cursor bool) string {
	if cursor && m.mode == ModeDrag {
		return m.renderDropPreview(hour, width)
	}

	segs := cellSegments(dayEvents, float64(hour), width)
	owners := cellOwners(segs, width)

	selectedID := ""
	if cursor {
		if e, ok := m.selectedEvent(); ok {
			selectedID = e.ID
		}
	}

	lines := make([]string, rowLines)
	for line := range lines {
		var b strings.Builder
		for start := 0; start < width; {
			owner := owners[start]
			end := start + 1
			for end < width && owners[end] == owner {
				end++
			}
			w := end - start

			if owner < 0 {
				style := m.styles.EmptyCellStyle
				if cursor {
					style = m.styles.CursorStyle
				}
				b.WriteString(style.Render(strings.Repeat(" ", w)))
			} else {
				s := segs[owner]
				style := m.eventStyle(s.Event, s.Event.ID == selectedID)
				b.WriteString(style.Render(view.FitWidth(segmentLabel(s, line), w)))
			}
			start = end
		}
		lines[line] = b.String()
	}
	return strings.Join(lines, "\n")
}

func (m Model) eventStyle(e schedule.Event, selected bool) lipgloss.Style {
	token := ""
	if c, ok := catalog.Lookup(e.CourseID); ok {
		token = c.Color
	}
	if m.mode == ModeDrag && e.ID == m.planner.Active() {
		return m.styles.DragOriginStyle(token)
	}
	return m.styles.EventStyle(token, selected)
}

// renderDropPreview shows what the carried item would become at hour.
// Placements ending after closing time are drawn in the warning color.
func (m Model) renderDropPreview(hour, width int) string {
	code, duration := m.carried()
	start := float64(hour)

	style := m.styles.DropPreviewStyle
	if start+duration > m.planner.CloseHour() {
		style = m.styles.DropInvalidStyle
	}
	return style.Render(view.FitWidth(" ⇣ "+code, width)) + "\n" +
		style.Render(view.FitWidth(" "+dateutil.ClockHour(start)+"-"+dateutil.ClockHour(start+duration), width))
}

// carried returns the code and duration of the item being dragged.
func (m Model) carried() (string, float64) {
	active := m.planner.Active()
	if e, ok := m.planner.Store().Get(active); ok {
		return courseCode(e.CourseID), e.Duration
	}
	if c, ok := catalog.Lookup(active); ok {
		return c.Code, c.Duration
	}
	return active, 1
}
