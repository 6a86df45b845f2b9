// Package tui provides the terminal user interface for uniflow.
package tui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/uniflow/internal/config"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/tui/commands"
	"github.com/javiermolinar/uniflow/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // carrying an event or course until it is dropped
	ModeSearch
	ModePrompt
	ModeConfirm // clear-all confirmation
	ModeModal
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeDrag:
		return "drag"
	case ModeSearch:
		return "search"
	case ModePrompt:
		return "prompt"
	case ModeConfirm:
		return "confirm"
	case ModeModal:
		return "modal"
	default:
		return "unknown"
	}
}

// Focus is the pane receiving movement keys on the schedule view.
type Focus int

const (
	FocusGrid Focus = iota
	FocusBench
)

// Position represents a cursor position in the grid.
type Position struct {
	Day int // index into schedule.Days
	Row int // index into the hour rows
}

const (
	timeColWidth = 7
	benchWidth   = 30
	rowLines     = 2
	minColWidth  = 6
	statusTTL    = 3 * time.Second
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	planner   *planner.Planner
	config    *config.Config
	debug     debugLogger
	newClient commands.ClientFactory

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Cursor and selection
	cursor    Position
	focus     Focus
	bench     int // selected course on the bench and the catalog view
	cycle     int // which of the overlapping events under the cursor is selected
	notifySel int
	mode      Mode

	// Components
	search textinput.Model
	prompt textinput.Model

	// Modal state
	modalTitle   string
	modalLines   []string
	modalButtons []string
	advice       *planner.Advice
	copyText     string

	// Toast expiry: IDs that already have a tea.Tick in flight
	scheduled map[string]bool
	ttl       time.Duration

	now   func() time.Time
	clock time.Time

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg   string
	statusUntil time.Time
	busy        bool // an LLM request is running
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithClock overrides the wall clock.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
		m.clock = now()
	}
}

// WithClientFactory overrides how LLM clients are created.
func WithClientFactory(f commands.ClientFactory) ModelOption {
	return func(m *Model) {
		m.newClient = f
	}
}

// WithLogger sets the logger for key presses, drops and errors.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		m.debug = newDebugLogger(l)
	}
}

// New creates a new TUI model.
func New(p *planner.Planner, cfg *config.Config, opts ...ModelOption) Model {
	if cfg == nil {
		cfg = config.Default()
	}

	prompt := textinput.New()
	prompt.Placeholder = "/plan put physics on tuesday afternoon"
	prompt.Prompt = ""
	prompt.CharLimit = 512

	search := textinput.New()
	search.Placeholder = "course name or code"
	search.Prompt = ""
	search.CharLimit = 64

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := Model{
		planner: p,
		config:  cfg,
		debug:   newDebugLogger(nil),
		newClient: func() (llm.Client, error) {
			return llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
		},
		theme:     t,
		styles:    NewStyles(t),
		mode:      ModeNormal,
		prompt:    prompt,
		search:    search,
		scheduled: make(map[string]bool),
		ttl:       p.Notifications().TTL(),
		now:       time.Now,
		clock:     time.Now(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.cursor = m.initialCursor()
	return m
}

// initialCursor points at the current day and hour, or Monday at the first
// preferred hour outside teaching time.
func (m Model) initialCursor() Position {
	now := m.now()
	hours := m.hours()
	pos := Position{}
	if day, ok := dateutil.DayOf(now); ok {
		pos.Day = day.Index()
	}
	row := m.rowOf(dateutil.HourOf(now))
	if row < 0 {
		row = max(m.rowOf(firstPreferred(m.config)), 0)
	}
	pos.Row = min(row, len(hours)-1)
	return pos
}

func firstPreferred(cfg *config.Config) float64 {
	if len(cfg.Schedule.PreferredHours) == 0 {
		return cfg.Schedule.OpenHour
	}
	return cfg.Schedule.PreferredHours[0]
}

// hours returns the whole hours shown as grid rows.
func (m Model) hours() []int {
	open := int(math.Floor(m.planner.OpenHour()))
	end := int(math.Ceil(m.planner.CloseHour()))
	hours := make([]int, 0, end-open)
	for h := open; h < end; h++ {
		hours = append(hours, h)
	}
	return hours
}

// rowOf returns the row showing hour, or -1 outside the grid.
func (m Model) rowOf(hour float64) int {
	for i, h := range m.hours() {
		if hour >= float64(h) && hour < float64(h+1) {
			return i
		}
	}
	return -1
}

func (m Model) cursorDay() schedule.Day {
	return schedule.Days[m.cursor.Day]
}

func (m Model) cursorHour() int {
	return m.hours()[m.cursor.Row]
}

// selectedEvent returns the event under the cursor. Overlapping events are
// cycled with the o key.
func (m Model) selectedEvent() (schedule.Event, bool) {
	events := m.planner.EventsAt(m.cursorDay(), float64(m.cursorHour()))
	if len(events) == 0 {
		return schedule.Event{}, false
	}
	return events[m.cycle%len(events)], true
}

// Init starts the minute clock and the expiry timers of queued toasts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(commands.EveryMinute(), m.scheduleToasts())
}

// Run starts the TUI.
func Run(p *planner.Planner, cfg *config.Config, logger *zap.Logger) error {
	model := New(p, cfg, WithLogger(logger))
	_, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
