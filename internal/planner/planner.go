// Package planner coordinates the schedule store, placement rules and user
// notifications. Both the CLI and the TUI drive the schedule through it.
package planner

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/uniflow/internal/autoplace"
	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/notify"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// Defaults used when no configuration overrides them.
const (
	DefaultOpenHour   = 8
	DefaultCreditGoal = 18
)

// User-facing messages.
const (
	msgRescheduled  = "Rescheduled successfully."
	msgRemoved      = "Event removed"
	msgCleared      = "Schedule cleared"
	msgNoFreeSlot   = "No completely free slots found. Try manual placement."
	msgUnknownEvent = "That event no longer exists."
)

// Action describes what a drop did.
type Action string

const (
	ActionNone   Action = "none"
	ActionCreate Action = "create"
	ActionMove   Action = "move"
)

// DropResult reports the outcome of DragEnd.
type DropResult struct {
	Action Action
	Event  schedule.Event
}

// Planner is the schedule controller.
type Planner struct {
	store      *schedule.Store
	notes      *notify.Queue
	validator  schedule.Validator
	finder     autoplace.Finder
	openHour   float64
	creditGoal int
	logger     *zap.Logger

	state  AppState
	active string
}

// Option configures a Planner.
type Option func(*Planner)

// WithCloseHour sets the latest hour a class may end.
func WithCloseHour(h float64) Option {
	return func(p *Planner) {
		p.validator = schedule.NewValidator(h)
	}
}

// WithOpenHour sets the earliest hour suggested placements may start.
func WithOpenHour(h float64) Option {
	return func(p *Planner) {
		if h >= 0 {
			p.openHour = h
		}
	}
}

// WithPreferredHours sets the hours tried by auto-placement.
func WithPreferredHours(hours []float64) Option {
	return func(p *Planner) {
		p.finder = autoplace.NewFinder(hours)
	}
}

// WithCreditGoal sets the credit target shown next to the total.
func WithCreditGoal(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.creditGoal = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Planner over a loaded store. A nil queue gets a default one.
func New(store *schedule.Store, notes *notify.Queue, opts ...Option) *Planner {
	if notes == nil {
		notes = notify.NewQueue()
	}
	p := &Planner{
		store:      store,
		notes:      notes,
		validator:  schedule.NewValidator(schedule.DefaultCloseHour),
		finder:     autoplace.NewFinder(nil),
		openHour:   DefaultOpenHour,
		creditGoal: DefaultCreditGoal,
		logger:     zap.NewNop(),
		state:      DefaultState(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Store returns the underlying schedule store.
func (p *Planner) Store() *schedule.Store { return p.store }

// Notifications returns the notification queue.
func (p *Planner) Notifications() *notify.Queue { return p.notes }

// State returns the mutable UI state.
func (p *Planner) State() *AppState { return &p.state }

// CloseHour returns the closing bound enforced on placements.
func (p *Planner) CloseHour() float64 { return p.validator.CloseHour }

// OpenHour returns the earliest suggested start.
func (p *Planner) OpenHour() float64 { return p.openHour }

// CreditGoal returns the credit target.
func (p *Planner) CreditGoal() int { return p.creditGoal }

// DragStart records the item being dragged: a course ID from the catalog or
// an event ID from the grid.
func (p *Planner) DragStart(activeID string) {
	p.active = activeID
	p.logger.Debug("drag start", zap.String("active", activeID))
}

// Active returns the ID of the item being dragged, or "".
func (p *Planner) Active() string {
	return p.active
}

// CancelDrag drops the item nowhere.
func (p *Planner) CancelDrag() {
	p.active = ""
}

// DragEnd drops activeID on the cell identified by targetID ("Wed-13").
// An empty or unparseable target, or an ID that names neither a stored event
// nor a course, is a no-op. Stored events are moved, courses are added.
func (p *Planner) DragEnd(ctx context.Context, activeID, targetID string) (DropResult, error) {
	p.active = ""
	noop := DropResult{Action: ActionNone}

	if activeID == "" || targetID == "" {
		return noop, nil
	}
	target, err := schedule.ParseTarget(targetID)
	if err != nil {
		p.logger.Debug("drop ignored", zap.String("target", targetID), zap.Error(err))
		return noop, nil
	}

	if _, ok := p.store.Get(activeID); ok {
		e, err := p.Move(ctx, activeID, target.Day, target.Hour)
		if err != nil {
			return noop, err
		}
		return DropResult{Action: ActionMove, Event: e}, nil
	}

	if course, ok := catalog.Lookup(activeID); ok {
		e, err := p.place(ctx, course, target.Day, target.Hour)
		if err != nil {
			return noop, err
		}
		return DropResult{Action: ActionCreate, Event: e}, nil
	}

	p.logger.Debug("drop ignored, unknown reference", zap.String("active", activeID))
	return noop, nil
}

// Add places a new instance of a course. courseRef may be an ID or a code.
func (p *Planner) Add(ctx context.Context, courseRef string, day schedule.Day, hour float64) (schedule.Event, error) {
	course, ok := catalog.Resolve(courseRef)
	if !ok {
		return schedule.Event{}, fmt.Errorf("%w: %s", catalog.ErrUnknownCourse, courseRef)
	}
	return p.place(ctx, course, day, hour)
}

func (p *Planner) place(ctx context.Context, course catalog.Course, day schedule.Day, hour float64) (schedule.Event, error) {
	if !day.Valid() {
		return schedule.Event{}, fmt.Errorf("%w: %q", schedule.ErrInvalidDay, day)
	}
	if err := p.validate(hour, course.Duration); err != nil {
		return schedule.Event{}, err
	}

	e := p.store.Add(ctx, p.store.NewEvent(course.ID, day, hour, course.Duration))
	p.notes.Success(fmt.Sprintf("Added %s to %s", course.Code, day))
	p.logger.Info("event added",
		zap.String("id", e.ID),
		zap.String("course", course.Code),
		zap.String("day", string(day)),
		zap.Float64("start", hour))
	return e, nil
}

// Move reschedules an existing event, keeping its own duration.
func (p *Planner) Move(ctx context.Context, eventID string, day schedule.Day, hour float64) (schedule.Event, error) {
	e, ok := p.store.Get(eventID)
	if !ok {
		return schedule.Event{}, fmt.Errorf("%w: %s", schedule.ErrEventNotFound, eventID)
	}
	if !day.Valid() {
		return schedule.Event{}, fmt.Errorf("%w: %q", schedule.ErrInvalidDay, day)
	}
	if err := p.validate(hour, e.Duration); err != nil {
		return schedule.Event{}, err
	}

	moved, err := p.store.Update(ctx, eventID, day, hour)
	if err != nil {
		return schedule.Event{}, err
	}
	p.notes.Info(msgRescheduled)
	p.logger.Info("event moved",
		zap.String("id", eventID),
		zap.String("day", string(day)),
		zap.Float64("start", hour))
	return moved, nil
}

func (p *Planner) validate(hour, duration float64) error {
	err := p.validator.Validate(hour, duration)
	if err == nil {
		return nil
	}
	var verr *schedule.ValidationError
	if errors.As(err, &verr) {
		p.notes.Error(verr.Message())
	} else {
		p.notes.Error(err.Error())
	}
	p.logger.Debug("placement rejected", zap.Error(err))
	return err
}

// Delete removes an event.
func (p *Planner) Delete(ctx context.Context, eventID string) error {
	if err := p.store.Remove(ctx, eventID); err != nil {
		p.notes.Error(msgUnknownEvent)
		return err
	}
	p.notes.Info(msgRemoved)
	p.logger.Info("event removed", zap.String("id", eventID))
	return nil
}

// Clear removes every event. Front ends confirm with the user first.
func (p *Planner) Clear(ctx context.Context) {
	n := p.store.Len()
	p.store.Clear(ctx)
	p.notes.Info(msgCleared)
	p.logger.Info("schedule cleared", zap.Int("removed", n))
}

// AddStudySession places a study block in the first completely free
// preferred slot.
func (p *Planner) AddStudySession(ctx context.Context) (schedule.Event, error) {
	course, ok := catalog.Lookup(catalog.StudySessionID)
	if !ok {
		return schedule.Event{}, fmt.Errorf("%w: %s", catalog.ErrUnknownCourse, catalog.StudySessionID)
	}

	slot, err := p.finder.FindSlot(p.store.Events(), course.Duration)
	if err != nil {
		p.notes.Error(msgNoFreeSlot)
		p.logger.Info("no free slot for study session")
		return schedule.Event{}, err
	}
	if err := p.validate(slot.Hour, course.Duration); err != nil {
		return schedule.Event{}, err
	}

	e := p.store.Add(ctx, p.store.NewEvent(course.ID, slot.Day, slot.Hour, course.Duration))
	p.notes.Success(fmt.Sprintf("Added %s to %s at %s", course.Name, slot.Day, dateutil.FormatHour(slot.Hour)))
	p.logger.Info("study session added",
		zap.String("id", e.ID),
		zap.String("day", string(slot.Day)),
		zap.Float64("start", slot.Hour))
	return e, nil
}

// TotalCredits sums the credits of every placed event. A course placed twice
// counts twice.
func (p *Planner) TotalCredits() int {
	total := 0
	for _, e := range p.store.Events() {
		if c, ok := catalog.Lookup(e.CourseID); ok {
			total += c.Credits
		}
	}
	return total
}

// FilteredCourses returns the catalog filtered by the current search query.
func (p *Planner) FilteredCourses() []catalog.Course {
	return catalog.Search(p.state.Search)
}

// EventsAt returns the events of day covering the hour row starting at hour,
// in insertion order.
func (p *Planner) EventsAt(day schedule.Day, hour float64) []schedule.Event {
	var out []schedule.Event
	for _, e := range p.store.ByDay(day) {
		if e.Covers(hour) {
			out = append(out, e)
		}
	}
	return out
}
