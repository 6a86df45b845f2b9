package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultKey is the storage key holding the serialized schedule.
const DefaultKey = "uniflow-events"

// ErrMalformed is returned by Unmarshal for documents that are not a valid event array.
var ErrMalformed = errors.New("malformed schedule document")

// Storage is a durable string key/value store.
type Storage interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Seed returns the schedule used when nothing valid has been persisted.
func Seed() []Event {
	return []Event{
		{ID: "e1", CourseID: "c1", Day: Monday, StartHour: 9, Duration: 1.5},
		{ID: "e2", CourseID: "c2", Day: Monday, StartHour: 11, Duration: 1},
	}
}

// Marshal encodes events as the persisted JSON array.
func Marshal(events []Event) ([]byte, error) {
	if events == nil {
		events = []Event{}
	}
	return json.Marshal(events)
}

// Unmarshal decodes a persisted JSON array. Anything other than an array of
// complete events is reported as ErrMalformed.
func Unmarshal(data []byte) ([]Event, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformed
	}
	var events []Event
	if err := json.Unmarshal(trimmed, &events); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, e := range events {
		if !e.valid() {
			return nil, fmt.Errorf("%w: record %d is incomplete", ErrMalformed, i)
		}
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}

// Store is the authoritative ordered list of placed events for a session.
// Every mutation writes the whole list through to Storage. Write failures are
// logged and otherwise ignored; the in-memory list stays authoritative.
type Store struct {
	storage  Storage
	key      string
	logger   *zap.Logger
	newID    func() string
	events   []Event
	modified bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) StoreOption {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for swallowed persistence failures.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithIDGenerator overrides how new event IDs are minted.
func WithIDGenerator(fn func() string) StoreOption {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// NewStore creates an empty store. Call Load before use.
func NewStore(storage Storage, opts ...StoreOption) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		logger:  zap.NewNop(),
		newID:   func() string { return "e-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted schedule, falling back to Seed when the key is
// absent, unreadable or malformed. It never fails.
func (s *Store) Load(ctx context.Context) {
	s.events = s.read(ctx)
	s.modified = false
}

func (s *Store) read(ctx context.Context) []Event {
	if s.storage == nil {
		return Seed()
	}
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("reading schedule failed, using seed", zap.String("key", s.key), zap.Error(err))
		return Seed()
	}
	if !ok {
		s.logger.Debug("no stored schedule, using seed", zap.String("key", s.key))
		return Seed()
	}
	events, err := Unmarshal([]byte(raw))
	if err != nil {
		s.logger.Debug("stored schedule is malformed, using seed", zap.String("key", s.key), zap.Error(err))
		return Seed()
	}
	return events
}

// persist writes the list through. An empty list that was never modified
// since load is not written, so storage is not clobbered before first use.
func (s *Store) persist(ctx context.Context) {
	if s.storage == nil {
		return
	}
	if len(s.events) == 0 && !s.modified {
		return
	}
	data, err := Marshal(s.events)
	if err != nil {
		s.logger.Warn("encoding schedule failed", zap.Error(err))
		return
	}
	if err := s.storage.Set(ctx, s.key, string(data)); err != nil {
		s.logger.Warn("writing schedule failed", zap.String("key", s.key), zap.Error(err))
	}
}

func (s *Store) mutated(ctx context.Context) {
	s.modified = true
	s.persist(ctx)
}

// NewEvent builds an event with a fresh ID without adding it.
func (s *Store) NewEvent(courseID string, day Day, startHour, duration float64) Event {
	return Event{
		ID:        s.newID(),
		CourseID:  courseID,
		Day:       day,
		StartHour: startHour,
		Duration:  duration,
	}
}

// Events returns a copy of all events in insertion order.
func (s *Store) Events() []Event {
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// Len returns the number of placed events.
func (s *Store) Len() int {
	return len(s.events)
}

// Get returns the event with the given ID.
func (s *Store) Get(id string) (Event, bool) {
	for _, e := range s.events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}

// ByDay returns the events placed on day, in insertion order.
func (s *Store) ByDay(day Day) []Event {
	var out []Event
	for _, e := range s.events {
		if e.Day == day {
			out = append(out, e)
		}
	}
	return out
}

// ReplaceAll swaps the whole list.
func (s *Store) ReplaceAll(ctx context.Context, events []Event) {
	s.events = make([]Event, len(events))
	copy(s.events, events)
	s.mutated(ctx)
}

// Add appends an event, minting an ID when it has none.
func (s *Store) Add(ctx context.Context, e Event) Event {
	if e.ID == "" {
		e.ID = s.newID()
	}
	s.events = append(s.events, e)
	s.mutated(ctx)
	return e
}

// Remove deletes the event with the given ID.
func (s *Store) Remove(ctx context.Context, id string) error {
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i:i], s.events[i+1:]...)
			s.mutated(ctx)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// Update reassigns the day and start hour of an event, keeping its position.
func (s *Store) Update(ctx context.Context, id string, day Day, startHour float64) (Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			s.events[i].Day = day
			s.events[i].StartHour = startHour
			s.mutated(ctx)
			return s.events[i], nil
		}
	}
	return Event{}, fmt.Errorf("%w: %s", ErrEventNotFound, id)
}

// Clear removes every event. The empty list is persisted.
func (s *Store) Clear(ctx context.Context) {
	s.events = nil
	s.mutated(ctx)
}
