// Package autoplace finds a completely empty slot for a fixed-length block.
package autoplace

import (
	"errors"

	"github.com/javiermolinar/uniflow/internal/schedule"
)

// ErrNoFreeSlot is returned when every candidate touches an existing event.
var ErrNoFreeSlot = errors.New("no completely free slot found")

// PreferredHours are tried in order on each day. The lunch hour is skipped.
var PreferredHours = []float64{9, 10, 11, 13, 14, 15, 16}

// Slot is a candidate placement.
type Slot struct {
	Day  schedule.Day
	Hour float64
}

// Finder searches days then preferred hours for the first empty slot.
type Finder struct {
	Days  []schedule.Day
	Hours []float64
}

// NewFinder returns a Finder over the given hours, or PreferredHours when empty.
func NewFinder(hours []float64) Finder {
	if len(hours) == 0 {
		hours = PreferredHours
	}
	return Finder{Days: schedule.Days, Hours: hours}
}

// FindSlot returns the first (day, hour) in search order where a block of the
// given duration touches no existing event.
func (f Finder) FindSlot(events []schedule.Event, duration float64) (Slot, error) {
	byDay := make(map[schedule.Day][]schedule.Event, len(f.Days))
	for _, e := range events {
		byDay[e.Day] = append(byDay[e.Day], e)
	}

	for _, day := range f.Days {
		for _, hour := range f.Hours {
			if isFree(byDay[day], hour, duration) {
				return Slot{Day: day, Hour: hour}, nil
			}
		}
	}
	return Slot{}, ErrNoFreeSlot
}

// FindSlot runs the default Finder.
func FindSlot(events []schedule.Event, duration float64) (Slot, error) {
	return NewFinder(nil).FindSlot(events, duration)
}

// isFree uses a stricter test than the grid overlap check: the candidate is
// rejected if it starts inside an event, ends inside one, or contains one.
func isFree(dayEvents []schedule.Event, hour, duration float64) bool {
	end := hour + duration
	for _, e := range dayEvents {
		eEnd := e.EndHour()
		startsInside := hour >= e.StartHour && hour < eEnd
		endsInside := end > e.StartHour && end <= eEnd
		contains := hour <= e.StartHour && end >= eEnd
		if startsInside || endsInside || contains {
			return false
		}
	}
	return true
}
