package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Target is a drop location on the grid.
type Target struct {
	Day  Day
	Hour float64
}

// ParseTarget decodes a "<Day>-<Hour>" drop target identifier, e.g. "Wed-13".
func ParseTarget(id string) (Target, error) {
	dayStr, hourStr, ok := strings.Cut(id, "-")
	if !ok || dayStr == "" || hourStr == "" {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, id)
	}
	hour, err := strconv.ParseFloat(hourStr, 64)
	if err != nil || math.IsNaN(hour) || math.IsInf(hour, 0) {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidTarget, id)
	}
	day := Day(dayStr)
	if !day.Valid() {
		return Target{}, fmt.Errorf("%w: %q", ErrInvalidDay, dayStr)
	}
	return Target{Day: day, Hour: hour}, nil
}

// String encodes the target the way ParseTarget reads it.
func (t Target) String() string {
	return string(t.Day) + "-" + strconv.FormatFloat(t.Hour, 'f', -1, 64)
}
