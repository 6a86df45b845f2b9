// Package dateutil converts between wall-clock time and grid coordinates.
package dateutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/javiermolinar/uniflow/internal/schedule"
)

// ErrInvalidHour is returned when an hour string cannot be parsed.
var ErrInvalidHour = errors.New("hour must look like 9, 9.5 or 9:30")

var weekdayMap = map[time.Weekday]schedule.Day{
	time.Monday:    schedule.Monday,
	time.Tuesday:   schedule.Tuesday,
	time.Wednesday: schedule.Wednesday,
	time.Thursday:  schedule.Thursday,
	time.Friday:    schedule.Friday,
}

// DayOf returns the grid day of t. Weekends are not on the grid.
func DayOf(t time.Time) (schedule.Day, bool) {
	d, ok := weekdayMap[t.Weekday()]
	return d, ok
}

// HourOf returns the fractional hour of t, e.g. 9:30 is 9.5.
func HourOf(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// FormatHour renders a fractional hour as H:MM, e.g. 9.5 is "9:30".
func FormatHour(h float64) string {
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ClockHour renders a fractional hour as zero-padded HH:MM.
func ClockHour(h float64) string {
	total := int(math.Round(h * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// HourLabel renders a whole hour for grid rows, e.g. 13 is "1 pm".
func HourLabel(h int) string {
	suffix := "am"
	if h >= 12 {
		suffix = "pm"
	}
	display := h % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d %s", display, suffix)
}

// ParseHour accepts "9", "9.5" and "9:30".
func ParseHour(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if hh, mm, ok := strings.Cut(s, ":"); ok {
		h, err := strconv.Atoi(hh)
		if err != nil || h < 0 || h > 23 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
		}
		m, err := strconv.Atoi(mm)
		if err != nil || m < 0 || m > 59 || len(mm) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
		}
		return float64(h) + float64(m)/60, nil
	}
	h, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(h) || h < 0 || h >= 24 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidHour, s)
	}
	return h, nil
}

// WeekRange returns the Monday and Friday of the week containing t.
// Saturdays and Sundays roll forward to the next week.
func WeekRange(t time.Time) (monday, friday time.Time) {
	t = TruncateToDay(t)
	switch t.Weekday() {
	case time.Saturday:
		t = t.AddDate(0, 0, 2)
	case time.Sunday:
		t = t.AddDate(0, 0, 1)
	}
	monday = t.AddDate(0, 0, -(int(t.Weekday()) - 1))
	friday = monday.AddDate(0, 0, 4)
	return monday, friday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
