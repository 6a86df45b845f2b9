package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/export"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/summary"
	"github.com/javiermolinar/uniflow/internal/tui/commands"
	"github.com/javiermolinar/uniflow/internal/tui/input"
	"github.com/javiermolinar/uniflow/internal/tui/theme"
)

const msgBusy = "Waiting for the assistant..."

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.debug.KeyPress(msg, m.mode)

	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeSearch:
		return m.handleSearchKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	}
	if m.planner.State().ShowNotifications {
		return m.handleNotificationKeys(msg)
	}
	return m.handleNormalKeys(msg)
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	state := m.planner.State()
	ctx := context.Background()

	if m.busy && isMutatingKey(msg.String()) {
		m.setStatus(msgBusy)
		return m, nil
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left", "l", "right", "j", "down", "k", "up":
		m.move(msg.String())
		return m, nil

	case "tab":
		if state.View == planner.ViewSchedule && state.SidebarOpen {
			if m.focus == FocusGrid {
				m.focus = FocusBench
			} else {
				m.focus = FocusGrid
			}
		}
		return m, nil

	// Views and panels
	case "1":
		state.SetView(planner.ViewSchedule)
	case "2":
		state.SetView(planner.ViewCourses)
		m.bench = 0
	case "3":
		state.SetView(planner.ViewSettings)
	case "b":
		state.ToggleSidebar()
		if !state.SidebarOpen {
			m.focus = FocusGrid
		}
	case "n":
		state.ToggleNotifications()
		m.notifySel = 0

	case "t":
		if state.View == planner.ViewSettings {
			m.cycleTheme()
		}

	// Drag and drop
	case "enter", " ":
		return m.pickUp()

	case "o":
		events := m.planner.EventsAt(m.cursorDay(), float64(m.cursorHour()))
		if len(events) > 1 {
			m.cycle = (m.cycle + 1) % len(events)
			e := events[m.cycle]
			m.setStatus(fmt.Sprintf("%s (%d/%d)", courseCode(e.CourseID), m.cycle+1, len(events)))
		}

	// Schedule actions
	case "s":
		e, err := m.planner.AddStudySession(ctx)
		if err == nil {
			m.focusEvent(e)
		}

	case "x", "delete":
		if e, ok := m.selectedEvent(); ok {
			_ = m.planner.Delete(ctx, e.ID)
			m.cycle = 0
		}

	case "C":
		if m.planner.Store().Len() == 0 {
			m.setStatus("Schedule is already empty")
			return m, nil
		}
		m.setMode(ModeConfirm, "clear")

	case "y":
		text := summary.SummarizeWeek(m.planner.Store().Events(), m.planner.CreditGoal()).Text()
		return m, commands.CopyToClipboard(text, "week summary")

	// Input modes
	case "/":
		m.setMode(ModeSearch, "search")
		m.search.SetValue(state.Search)
		m.search.CursorEnd()
		return m, m.search.Focus()

	case ":":
		m.setMode(ModePrompt, "prompt")
		return m, m.prompt.Focus()

	case "esc":
		if state.Search != "" {
			state.Search = ""
			m.bench = 0
		}
	}
	return m, nil
}

func isMutatingKey(key string) bool {
	switch key {
	case "enter", " ", "s", "x", "delete", "C":
		return true
	}
	return false
}

// move handles hjkl and arrows for whichever pane has focus.
func (m *Model) move(key string) {
	state := m.planner.State()
	onBench := state.View == planner.ViewCourses || (m.focus == FocusBench && state.View == planner.ViewSchedule && m.mode == ModeNormal)
	if onBench {
		n := len(m.planner.FilteredCourses())
		switch key {
		case "j", "down":
			m.bench = min(m.bench+1, max(n-1, 0))
		case "k", "up":
			m.bench = max(m.bench-1, 0)
		}
		return
	}
	if state.View != planner.ViewSchedule {
		return
	}

	rows := len(m.hours())
	switch key {
	case "h", "left":
		m.cursor.Day = max(m.cursor.Day-1, 0)
	case "l", "right":
		m.cursor.Day = min(m.cursor.Day+1, len(schedule.Days)-1)
	case "j", "down":
		m.cursor.Row = min(m.cursor.Row+1, rows-1)
	case "k", "up":
		m.cursor.Row = max(m.cursor.Row-1, 0)
	}
	m.cycle = 0
	m.debug.CursorMove(m.cursor, key)
}

// pickUp starts a drag with the selected course or event.
func (m Model) pickUp() (Model, tea.Cmd) {
	state := m.planner.State()

	if state.View == planner.ViewCourses || m.focus == FocusBench {
		courses := m.planner.FilteredCourses()
		if len(courses) == 0 {
			return m, nil
		}
		c := courses[min(m.bench, len(courses)-1)]
		m.planner.DragStart(c.ID)
		state.SetView(planner.ViewSchedule)
		m.focus = FocusGrid
		m.setMode(ModeDrag, "pick up course")
		m.setStatus("Placing " + c.Code + ", move to a slot and press enter")
		return m, nil
	}

	if state.View != planner.ViewSchedule {
		return m, nil
	}
	e, ok := m.selectedEvent()
	if !ok {
		m.setStatus("Nothing to pick up here")
		return m, nil
	}
	m.planner.DragStart(e.ID)
	m.setMode(ModeDrag, "pick up event")
	m.setStatus("Moving " + courseCode(e.CourseID) + ", move to a slot and press enter")
	return m, nil
}

// handleDragKeys handles keys while an item is being carried.
func (m Model) handleDragKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	ctx := context.Background()
	active := m.planner.Active()

	switch msg.String() {
	case "h", "left", "l", "right", "j", "down", "k", "up":
		m.move(msg.String())

	case "enter", " ":
		target := schedule.Target{Day: m.cursorDay(), Hour: float64(m.cursorHour())}.String()
		result, err := m.planner.DragEnd(ctx, active, target)
		m.debug.Drop(active, target, result)
		m.setMode(ModeNormal, "drop")
		m.clearStatus()
		if err == nil && result.Action != planner.ActionNone {
			m.focusEvent(result.Event)
		}

	case "esc", "q":
		// Dropping outside every slot.
		result, _ := m.planner.DragEnd(ctx, active, "")
		m.debug.Drop(active, "", result)
		m.planner.CancelDrag()
		m.setMode(ModeNormal, "drag cancelled")
		m.setStatus("Drop cancelled")
	}
	return m, nil
}

// focusEvent moves the cursor onto e and selects it among overlaps.
func (m *Model) focusEvent(e schedule.Event) {
	if idx := e.Day.Index(); idx >= 0 {
		m.cursor.Day = idx
	}
	if row := m.rowOf(e.StartHour); row >= 0 {
		m.cursor.Row = row
	}
	m.cycle = 0
	for i, other := range m.planner.EventsAt(m.cursorDay(), float64(m.cursorHour())) {
		if other.ID == e.ID {
			m.cycle = i
		}
	}
}

// handleSearchKeys edits the bench filter live.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	state := m.planner.State()
	switch msg.String() {
	case "esc":
		state.Search = ""
		m.search.SetValue("")
		m.search.Blur()
		m.bench = 0
		m.setMode(ModeNormal, "search cancelled")
		return m, nil

	case "enter":
		m.search.Blur()
		m.setMode(ModeNormal, "search done")
		if state.View == planner.ViewSchedule && state.SidebarOpen {
			m.focus = FocusBench
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	state.Search = m.search.Value()
	m.bench = 0
	return m, cmd
}

// handlePromptKeys handles keys in prompt mode.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setMode(ModeNormal, "prompt cancelled")
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m, nil

	case "enter":
		value := m.prompt.Value()
		m.setMode(ModeNormal, "prompt submitted")
		m.prompt.Blur()
		m.prompt.SetValue("")
		return m.handlePromptSubmit(value)

	case "tab":
		if completion, ok := input.PromptAutocomplete(m.prompt.Value(), input.Commands); ok {
			m.prompt.SetValue(completion)
			m.prompt.CursorEnd()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handlePromptSubmit runs a prompt command.
func (m Model) handlePromptSubmit(value string) (Model, tea.Cmd) {
	cmd, ok := input.Parse(value)
	if !ok {
		return m, nil
	}
	if m.busy && cmd.Name != "export" && cmd.Name != "theme" {
		m.setStatus(msgBusy)
		return m, nil
	}

	cfg := m.config
	events := m.planner.Store().Events()

	switch cmd.Name {
	case "plan":
		if cmd.Arg == "" {
			m.setStatus("Usage: /plan <what you want>")
			return m, nil
		}
		m.busy = true
		m.setStatus("Asking the advisor...")
		return m, commands.Advise(m.planner, m.newClient, cmd.Arg, llm.UseCompactPrompt(cfg.LLM.Provider), cfg.LLM.MaxRetries)

	case "apply":
		if m.advice == nil {
			m.setStatus("No advice to apply, run /plan first")
			return m, nil
		}
		m.applyAdvice()
		return m, nil

	case "review":
		m.busy = true
		m.setStatus("Reviewing your week...")
		return m, commands.Review(events, m.newClient, m.planner.CreditGoal(), m.planner.CloseHour())

	case "summary":
		return m, commands.Summary(events, m.planner.CreditGoal(), m.planner.CloseHour())

	case "export":
		path := cmd.Arg
		if path == "" {
			path = "week.png"
		}
		return m, commands.Export(events, path, export.Options{
			OpenHour:  m.planner.OpenHour(),
			CloseHour: m.planner.CloseHour(),
			Now:       m.now(),
		})

	case "theme":
		if err := m.setTheme(cmd.Arg); err != nil {
			m.setStatus(err.Error())
		}
		return m, nil
	}

	m.setStatus("Unknown command /" + cmd.Name)
	return m, nil
}

// applyAdvice places the pending advice and closes its modal.
func (m *Model) applyAdvice() {
	added, err := m.planner.ApplyAdvice(context.Background(), m.advice)
	if errors.Is(err, planner.ErrUnresolvedAdvice) {
		m.setStatus("Advice still has errors, ask again with /plan")
		return
	}
	m.advice = nil
	m.closeModal()
	if err != nil {
		m.debug.Error("apply advice", err)
		m.setStatus(fmt.Sprintf("Applied %d placements, then: %v", len(added), err))
		return
	}
	m.setStatus(fmt.Sprintf("Applied %d placements", len(added)))
	if len(added) > 0 {
		m.focusEvent(added[0])
	}
}

// handleConfirmKeys answers the clear-all confirmation.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.planner.Clear(context.Background())
		m.cursor.Row = max(m.rowOf(firstPreferred(m.config)), 0)
		m.cycle = 0
		m.setMode(ModeNormal, "clear confirmed")
	case "n", "N", "esc", "q":
		m.setMode(ModeNormal, "clear cancelled")
		m.setStatus("Clear cancelled")
	}
	return m, nil
}

// handleModalKeys handles keys in the advice and summary modals.
func (m Model) handleModalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "enter":
		m.closeModal()
	case "a":
		if m.advice != nil {
			m.applyAdvice()
		}
	case "y":
		if m.copyText != "" {
			return m, commands.CopyToClipboard(m.copyText, "week summary")
		}
	}
	return m, nil
}

// handleNotificationKeys drives the notification dropdown.
func (m Model) handleNotificationKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	queue := m.planner.Notifications()
	items := queue.Items()

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "n", "esc":
		m.planner.State().ToggleNotifications()
	case "j", "down":
		m.notifySel = min(m.notifySel+1, max(len(items)-1, 0))
	case "k", "up":
		m.notifySel = max(m.notifySel-1, 0)
	case "x", "delete":
		if m.notifySel < len(items) {
			queue.Dismiss(items[m.notifySel].ID)
			m.notifySel = max(min(m.notifySel, queue.Len()-1), 0)
		}
	case "c":
		queue.Clear()
		m.notifySel = 0
	}
	return m, nil
}

func (m *Model) openModal(title string, lines []string, buttons ...string) {
	m.modalTitle = title
	m.modalLines = lines
	m.modalButtons = buttons
	m.setMode(ModeModal, "open "+strings.ToLower(title))
}

func (m *Model) closeModal() {
	m.modalTitle = ""
	m.modalLines = nil
	m.modalButtons = nil
	m.copyText = ""
	m.setMode(ModeNormal, "close modal")
}

func (m *Model) setMode(mode Mode, reason string) {
	m.debug.ModeChange(m.mode, mode, reason)
	m.mode = mode
}

// cycleTheme switches to the next embedded theme for this session.
func (m *Model) cycleTheme() {
	names := theme.Available()
	next := names[0]
	for i, name := range names {
		if name == m.theme.Name {
			next = names[(i+1)%len(names)]
		}
	}
	if err := m.setTheme(next); err != nil {
		m.debug.Error("cycle theme", err)
	}
}

func (m *Model) setTheme(name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if !theme.IsAvailable(name) {
		return fmt.Errorf("unknown theme %q, try %s", name, strings.Join(theme.Available(), ", "))
	}
	t, err := theme.Load(name)
	if err != nil {
		return err
	}
	m.theme = t
	m.styles = NewStyles(t)
	m.config.UI.Theme = name
	m.setStatus("Theme " + name)
	return nil
}

func courseCode(courseID string) string {
	if c, ok := catalog.Lookup(courseID); ok {
		return c.Code
	}
	return courseID
}
