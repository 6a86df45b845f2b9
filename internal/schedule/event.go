// Package schedule defines placed events and the store that owns them.
package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors.
var (
	ErrInvalidDay    = errors.New("day must be one of Mon, Tue, Wed, Thu, Fri")
	ErrInvalidTarget = errors.New("drop target must look like <Day>-<Hour>")
	ErrEventNotFound = errors.New("event not found")
	ErrPastClosing   = errors.New("placement ends after closing time")
	ErrInvalidHour   = errors.New("hour must be a finite number")
)

// Day is a weekday symbol used on the grid.
type Day string

const (
	Monday    Day = "Mon"
	Tuesday   Day = "Tue"
	Wednesday Day = "Wed"
	Thursday  Day = "Thu"
	Friday    Day = "Fri"
)

// Days lists the grid days in display and search order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday}

// Valid reports whether d is one of the five grid days.
func (d Day) Valid() bool {
	return d.Index() >= 0
}

// Index returns the column of d on the grid, or -1.
func (d Day) Index() int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

var dayNames = map[string]Day{
	"mon": Monday, "monday": Monday,
	"tue": Tuesday, "tuesday": Tuesday,
	"wed": Wednesday, "wednesday": Wednesday,
	"thu": Thursday, "thursday": Thursday,
	"fri": Friday, "friday": Friday,
}

// ParseDay accepts the three-letter code or the full weekday name, in any case.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if d, ok := dayNames[s]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// Event is a course placed on the weekly grid.
type Event struct {
	ID        string  `json:"id"`
	CourseID  string  `json:"courseId"`
	Day       Day     `json:"day"`
	StartHour float64 `json:"startHour"` // 24h clock, fractional allowed
	Duration  float64 `json:"duration"`  // hours
}

// EndHour returns the hour the event finishes.
func (e Event) EndHour() float64 {
	return e.StartHour + e.Duration
}

// Overlaps reports strict interval intersection with another event on the same day.
func (e Event) Overlaps(other Event) bool {
	if e.Day != other.Day {
		return false
	}
	return max(e.StartHour, other.StartHour) < min(e.EndHour(), other.EndHour())
}

// Covers reports whether the event occupies any part of [hour, hour+1).
func (e Event) Covers(hour float64) bool {
	return e.StartHour < hour+1 && e.EndHour() > hour
}

func (e Event) valid() bool {
	return e.ID != "" && e.CourseID != "" && e.Day.Valid() && e.Duration > 0
}
