package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/uniflow/internal/config"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/notify"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/summary"
	"github.com/javiermolinar/uniflow/internal/tui/commands"
)

// tuesday 10:15, so the cursor starts on Tue at the 10:00 row.
var testNow = time.Date(2026, time.October, 13, 10, 15, 0, 0, time.UTC)

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := schedule.NewStore(schedule.NewMemoryStorage())
	store.Load(context.Background())
	p := planner.New(store, notify.NewQueue(notify.WithManualExpiry()))

	m := New(p, config.Default(), WithClock(func() time.Time { return testNow }))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 40})
	return next.(Model)
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(keyMsg(k))
		m = next.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func TestInitialCursor(t *testing.T) {
	m := newTestModel(t)
	if m.cursor != (Position{Day: 1, Row: 2}) {
		t.Errorf("cursor = %+v, want Tue 10:00", m.cursor)
	}
	if len(m.hours()) != 13 || m.hours()[0] != 8 || m.hours()[12] != 20 {
		t.Errorf("unexpected rows %v", m.hours())
	}
}

func TestCursorClamps(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "h", "h", "h", "k", "k", "k", "k")
	if m.cursor != (Position{Day: 0, Row: 0}) {
		t.Errorf("cursor = %+v, want top left", m.cursor)
	}
	m = press(t, m, strings.Split(strings.Repeat("l", 8)+strings.Repeat("j", 20), "")...)
	if m.cursor != (Position{Day: 4, Row: 12}) {
		t.Errorf("cursor = %+v, want bottom right", m.cursor)
	}
}

func TestDragCreateFromBench(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "tab", "j", "enter")

	if m.mode != ModeDrag || m.planner.Active() != "c2" {
		t.Fatalf("expected to carry c2, mode %s active %q", m.mode, m.planner.Active())
	}
	if m.focus != FocusGrid {
		t.Error("picking up a course moves focus to the grid")
	}

	m = press(t, m, "l", "enter")
	if m.mode != ModeNormal {
		t.Errorf("mode = %s after drop", m.mode)
	}
	events := m.planner.Store().ByDay(schedule.Wednesday)
	if len(events) != 1 || events[0].CourseID != "c2" || events[0].StartHour != 10 {
		t.Fatalf("unexpected Wednesday events %+v", events)
	}
	if m.cursor.Day != 2 {
		t.Errorf("cursor should follow the new event, got %+v", m.cursor)
	}
}

func TestDragMoveEvent(t *testing.T) {
	m := newTestModel(t)
	// Mon 09:00 holds e1.
	m = press(t, m, "h", "k", "enter")
	if m.mode != ModeDrag || m.planner.Active() != "e1" {
		t.Fatalf("expected to carry e1, mode %s active %q", m.mode, m.planner.Active())
	}

	m = press(t, m, "l", "l", "j", "j", "j", "j", "enter")
	e, ok := m.planner.Store().Get("e1")
	if !ok {
		t.Fatal("e1 disappeared")
	}
	if e.Day != schedule.Wednesday || e.StartHour != 13 || e.Duration != 1.5 {
		t.Errorf("unexpected moved event %+v", e)
	}
	if m.planner.Store().Len() != 2 {
		t.Errorf("a move must not add events, have %d", m.planner.Store().Len())
	}
}

func TestDragCancelIsNoop(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "h", "k", "enter", "l", "j", "esc")

	if m.mode != ModeNormal || m.planner.Active() != "" {
		t.Fatalf("drag not cancelled: mode %s active %q", m.mode, m.planner.Active())
	}
	e, _ := m.planner.Store().Get("e1")
	if e.Day != schedule.Monday || e.StartHour != 9 {
		t.Errorf("cancelled drag moved the event: %+v", e)
	}
	if m.statusMsg != "Drop cancelled" {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestDropPastClosing(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "h", "k", "enter")
	m = press(t, m, strings.Split(strings.Repeat("j", 12), "")...)
	m = press(t, m, "enter")

	e, _ := m.planner.Store().Get("e1")
	if e.StartHour != 9 {
		t.Errorf("invalid drop moved the event to %v", e.StartHour)
	}
	items := m.planner.Notifications().Items()
	if len(items) == 0 || items[0].Message != "Too late! Classes must end by 9 PM." || items[0].Severity != notify.SeverityError {
		t.Errorf("expected the closing-time error toast, got %+v", items)
	}
	if m.mode != ModeNormal {
		t.Errorf("mode = %s", m.mode)
	}
}

func TestStudySession(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "s")

	events := m.planner.Store().Events()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	study := events[2]
	if study.CourseID != "c6" || study.Day != schedule.Monday || study.StartHour != 13 {
		t.Errorf("unexpected study session %+v", study)
	}
	if m.cursor != (Position{Day: 0, Row: 5}) {
		t.Errorf("cursor = %+v, want Mon 13:00", m.cursor)
	}
}

func TestDeleteSelected(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "h", "k", "x")
	if _, ok := m.planner.Store().Get("e1"); ok {
		t.Error("e1 should be deleted")
	}
	if m.planner.Store().Len() != 1 {
		t.Errorf("expected 1 event left, got %d", m.planner.Store().Len())
	}
}

func TestClearNeedsConfirmation(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "C")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %s, want confirm", m.mode)
	}
	if !strings.Contains(m.View(), "Remove all 2 events") {
		t.Error("confirmation modal not rendered")
	}

	m = press(t, m, "n")
	if m.planner.Store().Len() != 2 {
		t.Fatal("declined clear removed events")
	}

	m = press(t, m, "C", "y")
	if m.planner.Store().Len() != 0 || m.mode != ModeNormal {
		t.Errorf("clear not applied: %d events, mode %s", m.planner.Store().Len(), m.mode)
	}
}

func TestCycleOverlaps(t *testing.T) {
	m := newTestModel(t)
	added, err := m.planner.Add(context.Background(), "c2", schedule.Monday, 9)
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	m = press(t, m, "h", "k")
	if e, _ := m.selectedEvent(); e.ID != "e1" {
		t.Fatalf("first selection = %s, want e1", e.ID)
	}
	m = press(t, m, "o")
	if e, _ := m.selectedEvent(); e.ID != added.ID {
		t.Errorf("after o selection = %s, want %s", e.ID, added.ID)
	}
	m = press(t, m, "o")
	if e, _ := m.selectedEvent(); e.ID != "e1" {
		t.Errorf("cycling wraps around, got %s", e.ID)
	}
}

func TestSearchFiltersBench(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "/")
	if m.mode != ModeSearch {
		t.Fatalf("mode = %s", m.mode)
	}
	m = typeText(t, m, "math")
	if got := m.planner.State().Search; got != "math" {
		t.Errorf("search = %q", got)
	}
	if courses := m.planner.FilteredCourses(); len(courses) != 1 || courses[0].ID != "c2" {
		t.Errorf("unexpected filter result %+v", courses)
	}

	m = press(t, m, "enter")
	if m.mode != ModeNormal || m.focus != FocusBench {
		t.Errorf("enter keeps the filter and focuses the bench: mode %s focus %d", m.mode, m.focus)
	}

	m = press(t, m, "esc")
	if m.planner.State().Search != "" {
		t.Error("esc clears the search")
	}
}

func TestToastExpiry(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(keyMsg("s"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected an expiry command")
	}

	items := m.planner.Notifications().Items()
	if len(items) != 1 || !m.scheduled[items[0].ID] {
		t.Fatalf("expected one scheduled toast, got %+v", items)
	}

	next, _ = m.Update(commands.NotificationExpiredMsg{ID: items[0].ID})
	m = next.(Model)
	if m.planner.Notifications().Len() != 0 {
		t.Error("toast should be gone")
	}
	if m.scheduled[items[0].ID] {
		t.Error("expired toast must be forgotten")
	}
}

func TestNotificationDropdown(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "s", "n")
	if !m.planner.State().ShowNotifications {
		t.Fatal("n opens the list")
	}
	if !strings.Contains(m.View(), "Notifications") {
		t.Error("notification list not rendered")
	}

	m = press(t, m, "x")
	if m.planner.Notifications().Len() != 0 {
		t.Error("x dismisses the selected notification")
	}
	if m.planner.Store().Len() != 3 {
		t.Error("x in the list must not delete events")
	}

	m = press(t, m, "n")
	if m.planner.State().ShowNotifications {
		t.Error("n closes the list")
	}
}

func TestViews(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "2")
	if m.planner.State().View != planner.ViewCourses {
		t.Fatalf("view = %s", m.planner.State().View)
	}
	if !strings.Contains(m.View(), "Workshop-based writing course.") {
		t.Error("catalog view shows course descriptions")
	}

	// Picking up from the catalog returns to the schedule.
	m = press(t, m, "j", "j", "j", "enter")
	if m.planner.State().View != planner.ViewSchedule || m.planner.Active() != "c4" {
		t.Errorf("view %s active %q", m.planner.State().View, m.planner.Active())
	}
	m = press(t, m, "esc", "3", "t")
	if m.theme.Name != "macchiato" {
		t.Errorf("theme = %s, want macchiato", m.theme.Name)
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"uniflow", "7/18 credits", "*Tue 13*", "CS-101", "09:00-10:30", "MATH-201", "▸10:15", "Intro to Comp Sci"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPromptCommands(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, ":")
	m = typeText(t, m, "/bogus")
	m = press(t, m, "enter")
	if m.statusMsg != "Unknown command /bogus" {
		t.Errorf("status = %q", m.statusMsg)
	}

	m = press(t, m, ":")
	m = typeText(t, m, "/apply")
	m = press(t, m, "enter")
	if !strings.HasPrefix(m.statusMsg, "No advice") {
		t.Errorf("status = %q", m.statusMsg)
	}
}

func TestBusyBlocksMutations(t *testing.T) {
	m := newTestModel(t)
	m.newClient = func() (llm.Client, error) { return nil, llm.ErrDisabled }

	m = press(t, m, ":")
	m = typeText(t, m, "/plan physics please")
	m = press(t, m, "enter")
	if !m.busy {
		t.Fatal("plan should mark the model busy")
	}

	m = press(t, m, "s")
	if m.planner.Store().Len() != 2 || m.statusMsg != msgBusy {
		t.Errorf("mutations must wait: %d events, status %q", m.planner.Store().Len(), m.statusMsg)
	}

	next, _ := m.Update(commands.ErrMsg{Err: llm.ErrDisabled})
	m = next.(Model)
	if m.busy {
		t.Error("errors end the busy state")
	}
	if items := m.planner.Notifications().Items(); len(items) == 0 || items[0].Severity != notify.SeverityError {
		t.Error("errors surface as toasts")
	}
}

func TestAdviceModalApply(t *testing.T) {
	m := newTestModel(t)
	advice := &planner.Advice{Placements: []llm.Placement{{CourseID: "c3", Day: "Thu", StartHour: 14}}}
	next, _ := m.Update(commands.AdviceMsg{Input: "physics", Advice: advice})
	m = next.(Model)

	if m.mode != ModeModal || !strings.Contains(m.View(), "PHYS-101") {
		t.Fatalf("advice modal not shown, mode %s", m.mode)
	}

	m = press(t, m, "a")
	if m.mode != ModeNormal || m.planner.Store().Len() != 3 {
		t.Errorf("advice not applied: mode %s, %d events", m.mode, m.planner.Store().Len())
	}
	if m.cursor != (Position{Day: 3, Row: 6}) {
		t.Errorf("cursor = %+v, want Thu 14:00", m.cursor)
	}
}

func TestSummaryModal(t *testing.T) {
	m := newTestModel(t)
	s := summary.SummarizeWeek(m.planner.Store().Events(), m.planner.CreditGoal())
	next, _ := m.Update(commands.SummaryMsg{Summary: s})
	m = next.(Model)

	if m.mode != ModeModal || m.copyText != s.Text() {
		t.Fatalf("summary modal not open, mode %s", m.mode)
	}
	if !strings.Contains(m.View(), "Week summary") {
		t.Error("summary title not rendered")
	}
	m = press(t, m, "esc")
	if m.mode != ModeNormal || m.copyText != "" {
		t.Error("esc closes the modal")
	}
}

func TestCellSegments(t *testing.T) {
	events := []schedule.Event{
		{ID: "e1", CourseID: "c1", Day: schedule.Monday, StartHour: 9, Duration: 1.5},
		{ID: "e2", CourseID: "c2", Day: schedule.Monday, StartHour: 9.5, Duration: 1},
		{ID: "e3", CourseID: "c4", Day: schedule.Monday, StartHour: 14, Duration: 1.5},
	}

	tests := []struct {
		name  string
		hour  float64
		want  [][2]int
		heads []bool
	}{
		{name: "overlap head", hour: 9, want: [][2]int{{0, 10}, {10, 20}}, heads: []bool{true, true}},
		{name: "overlap tail", hour: 10, want: [][2]int{{0, 10}, {10, 20}}, heads: []bool{false, false}},
		{name: "alone", hour: 14, want: [][2]int{{0, 20}}, heads: []bool{true}},
		{name: "empty", hour: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := cellSegments(events, tt.hour, 20)
			if len(segs) != len(tt.want) {
				t.Fatalf("got %d segments, want %d", len(segs), len(tt.want))
			}
			for i, s := range segs {
				if s.Start != tt.want[i][0] || s.End != tt.want[i][1] || s.Head != tt.heads[i] {
					t.Errorf("segment %d = [%d,%d) head %v, want %v head %v", i, s.Start, s.End, s.Head, tt.want[i], tt.heads[i])
				}
			}
		})
	}
}

func TestCellOwners(t *testing.T) {
	segs := []segment{{Start: 0, End: 3}, {Start: 2, End: 5}}
	got := cellOwners(segs, 6)
	want := []int{0, 0, 1, 1, 1, -1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("owners = %v, want %v", got, want)
		}
	}
}

func TestSegmentLabel(t *testing.T) {
	s := segment{Event: schedule.Event{CourseID: "c3", StartHour: 13, Duration: 2}, Head: true}
	if got := segmentLabel(s, 0); got != " PHYS-101" {
		t.Errorf("line 0 = %q", got)
	}
	if got := segmentLabel(s, 1); got != " 13:00-15:00" {
		t.Errorf("line 1 = %q", got)
	}
	s.Head = false
	if segmentLabel(s, 0) != "" {
		t.Error("continuation rows are blank")
	}
}

func TestModeString(t *testing.T) {
	if ModeDrag.String() != "drag" || Mode(42).String() != "unknown" {
		t.Error("unexpected mode names")
	}
}

func TestAdviceLinesMarkProblems(t *testing.T) {
	advice := &planner.Advice{
		Placements: []llm.Placement{{CourseID: "c1", Day: "Mon", StartHour: 9}},
		Errors:     []planner.AdviceError{{Index: 0, Field: "day", Message: "unknown day"}},
	}
	lines := adviceLines("cs on monday", advice)

	if lines[0] != "~ Request: cs on monday" {
		t.Errorf("request line = %q", lines[0])
	}
	var found bool
	for _, l := range lines {
		if l == "! Placement 0: day - unknown day" {
			found = true
		}
	}
	if !found {
		t.Errorf("problems must be marked for the error style, got %q", lines)
	}
}
