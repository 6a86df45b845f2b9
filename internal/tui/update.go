package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		next, cmd := m.handleKeyMsg(msg)
		cmds := []tea.Cmd{cmd, next.scheduleToasts()}
		if next.statusMsg != "" && next.statusMsg != m.statusMsg {
			cmds = append(cmds, commands.ClearStatusAfter(statusTTL))
		}
		return next, tea.Batch(cmds...)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case commands.TickMsg:
		m.clock = msg.Time
		return m, commands.EveryMinute()

	case commands.NotificationExpiredMsg:
		m.planner.Notifications().Expire(msg.ID)
		delete(m.scheduled, msg.ID)
		m.notifySel = max(min(m.notifySel, m.planner.Notifications().Len()-1), 0)
		return m, nil

	case commands.StatusMsg:
		m.setStatus(msg.Msg)
		return m, commands.ClearStatusAfter(statusTTL)

	case commands.ClearStatusMsg:
		if !m.busy && !m.now().Before(m.statusUntil) {
			m.statusMsg = ""
		}
		return m, nil

	case commands.ErrMsg:
		m.busy = false
		m.clearStatus()
		m.debug.Error("command failed", msg.Err)
		m.planner.Notifications().Error(msg.Err.Error())
		return m, m.scheduleToasts()

	case commands.AdviceMsg:
		m.busy = false
		m.clearStatus()
		m.advice = msg.Advice
		buttons := []string{"a Apply", "esc Close"}
		if msg.Advice.HasErrors() {
			buttons = []string{"esc Close"}
		}
		m.openModal("Advisor", adviceLines(msg.Input, msg.Advice), buttons...)
		return m, nil

	case commands.SummaryMsg:
		m.busy = false
		m.clearStatus()
		title := "Week summary"
		if msg.Review {
			title = "Week review"
		}
		text := msg.Summary.Text()
		m.openModal(title, strings.Split(text, "\n"), "y Copy", "esc Close")
		m.copyText = text
		return m, nil

	case commands.ExportedMsg:
		m.planner.Notifications().Success("Exported week to " + msg.Path)
		return m, m.scheduleToasts()
	}

	// Forward blink and other component messages to the focused input
	var cmd tea.Cmd
	switch m.mode {
	case ModePrompt:
		m.prompt, cmd = m.prompt.Update(msg)
	case ModeSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// scheduleToasts starts one expiry timer per notification that has none yet.
func (m Model) scheduleToasts() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.planner.Notifications().Items() {
		if m.scheduled[n.ID] {
			continue
		}
		m.scheduled[n.ID] = true
		m.debug.Notification(n.ID, n.Message)
		cmds = append(cmds, commands.ExpireNotification(n.ID, m.ttl))
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusUntil = m.now().Add(statusTTL)
}

func (m *Model) clearStatus() {
	m.statusMsg = ""
}

// adviceLines renders advisor output for the modal.
func adviceLines(input string, advice *planner.Advice) []string {
	lines := []string{"~ Request: " + input, ""}

	lines = append(lines, "# Placements")
	if len(advice.Placements) == 0 {
		lines = append(lines, "  none")
	}
	for _, pl := range advice.Placements {
		name := pl.CourseID
		if c, ok := catalog.Resolve(pl.CourseID); ok {
			name = c.Code + " " + c.Name
		}
		lines = append(lines, fmt.Sprintf("  %s %s %s", pl.Day, dateutil.ClockHour(pl.StartHour), name))
	}

	if len(advice.Errors) > 0 {
		lines = append(lines, "", "# Problems")
		for _, e := range advice.Errors {
			lines = append(lines, "! "+e.String())
		}
	}
	if len(advice.Warnings) > 0 {
		lines = append(lines, "", "# Warnings")
		for _, w := range advice.Warnings {
			lines = append(lines, "  "+w)
		}
	}
	if len(advice.Suggestions) > 0 {
		lines = append(lines, "", "# Suggestions")
		for _, s := range advice.Suggestions {
			lines = append(lines, "  "+s)
		}
	}
	return lines
}

// clockTime is the time used for the current-time marker.
func (m Model) clockTime() time.Time {
	if m.clock.IsZero() {
		return m.now()
	}
	return m.clock
}
