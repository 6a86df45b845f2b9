// Package notify keeps a short, self-expiring list of user-facing messages.
package notify

import (
	"strconv"
	"sync"
	"time"
)

// Defaults for the visible queue.
const (
	DefaultMaxVisible = 5
	DefaultTTL        = 3 * time.Second
)

// Severity classifies a notification.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
)

// Notification is a transient message.
type Notification struct {
	ID       string
	Message  string
	Severity Severity
	Created  time.Time
}

// AfterFunc schedules fn after d and returns a function that cancels it.
type AfterFunc func(d time.Duration, fn func()) (stop func() bool)

func timeAfterFunc(d time.Duration, fn func()) func() bool {
	return time.AfterFunc(d, fn).Stop
}

// Queue holds the most recent notifications, newest first. Each entry expires
// independently after the TTL, keyed by ID, so out-of-order expiry is safe.
// Queue is safe for concurrent use because expiry timers fire on their own
// goroutines.
type Queue struct {
	mu         sync.Mutex
	items      []Notification
	timers     map[string]func() bool
	maxVisible int
	ttl        time.Duration
	afterFunc  AfterFunc
	now        func() time.Time
	seq        int
	onChange   func()
}

// Option configures a Queue.
type Option func(*Queue)

// WithMaxVisible caps the queue length.
func WithMaxVisible(n int) Option {
	return func(q *Queue) {
		if n > 0 {
			q.maxVisible = n
		}
	}
}

// WithTTL sets how long each notification stays visible.
func WithTTL(d time.Duration) Option {
	return func(q *Queue) {
		if d > 0 {
			q.ttl = d
		}
	}
}

// WithAfterFunc replaces the timer implementation.
func WithAfterFunc(fn AfterFunc) Option {
	return func(q *Queue) {
		q.afterFunc = fn
	}
}

// WithManualExpiry disables timers. The owner must call Expire itself, which
// suits event loops that already deliver their own tick messages.
func WithManualExpiry() Option {
	return func(q *Queue) {
		q.afterFunc = nil
	}
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) {
		if now != nil {
			q.now = now
		}
	}
}

// WithOnChange registers a callback run after every change, outside the lock.
func WithOnChange(fn func()) Option {
	return func(q *Queue) {
		q.onChange = fn
	}
}

// NewQueue returns an empty queue.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		timers:     make(map[string]func() bool),
		maxVisible: DefaultMaxVisible,
		ttl:        DefaultTTL,
		afterFunc:  timeAfterFunc,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// TTL returns the display window of each notification.
func (q *Queue) TTL() time.Duration {
	return q.ttl
}

// Push adds a notification at the front, drops anything past the visible
// limit and schedules expiry of the new entry.
func (q *Queue) Push(message string, severity Severity) Notification {
	q.mu.Lock()
	q.seq++
	n := Notification{
		ID:       "n" + strconv.Itoa(q.seq),
		Message:  message,
		Severity: severity,
		Created:  q.now(),
	}
	q.items = append([]Notification{n}, q.items...)
	if len(q.items) > q.maxVisible {
		for _, dropped := range q.items[q.maxVisible:] {
			q.stopLocked(dropped.ID)
		}
		q.items = q.items[:q.maxVisible]
	}
	afterFunc, ttl := q.afterFunc, q.ttl
	q.mu.Unlock()

	if afterFunc != nil {
		q.schedule(afterFunc, ttl, n.ID)
	}
	q.changed()
	return n
}

// schedule arms the expiry timer for id outside the lock, so an AfterFunc
// that fires immediately can call Expire. The stop function is kept only
// while the entry is still visible.
func (q *Queue) schedule(afterFunc AfterFunc, ttl time.Duration, id string) {
	stop := afterFunc(ttl, func() { q.Expire(id) })

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.containsLocked(id) {
		q.timers[id] = stop
		return
	}
	if stop != nil {
		stop()
	}
}

// Success pushes a success notification.
func (q *Queue) Success(message string) Notification {
	return q.Push(message, SeveritySuccess)
}

// Error pushes an error notification.
func (q *Queue) Error(message string) Notification {
	return q.Push(message, SeverityError)
}

// Info pushes an info notification.
func (q *Queue) Info(message string) Notification {
	return q.Push(message, SeverityInfo)
}

// Expire removes the notification with the given ID. It reports whether
// anything was removed.
func (q *Queue) Expire(id string) bool {
	q.mu.Lock()
	delete(q.timers, id)
	removed := q.removeLocked(id)
	q.mu.Unlock()

	if removed {
		q.changed()
	}
	return removed
}

// Dismiss removes a notification early and cancels its pending expiry.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	q.stopLocked(id)
	removed := q.removeLocked(id)
	q.mu.Unlock()

	if removed {
		q.changed()
	}
	return removed
}

// Clear removes every notification and cancels all timers.
func (q *Queue) Clear() {
	q.mu.Lock()
	for id := range q.timers {
		q.stopLocked(id)
	}
	q.items = nil
	q.mu.Unlock()

	q.changed()
}

// Items returns the visible notifications, newest first.
func (q *Queue) Items() []Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Len returns the number of visible notifications.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Pending returns the number of expiry timers still scheduled.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.timers)
}

func (q *Queue) stopLocked(id string) {
	if stop, ok := q.timers[id]; ok {
		if stop != nil {
			stop()
		}
		delete(q.timers, id)
	}
}

func (q *Queue) containsLocked(id string) bool {
	for _, n := range q.items {
		if n.ID == id {
			return true
		}
	}
	return false
}

func (q *Queue) removeLocked(id string) bool {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

func (q *Queue) changed() {
	if q.onChange != nil {
		q.onChange()
	}
}
