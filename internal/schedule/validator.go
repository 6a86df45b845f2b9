package schedule

import (
	"fmt"
	"math"
)

// DefaultCloseHour is the latest hour a class may end.
const DefaultCloseHour = 21

// ValidationError describes a rejected placement.
type ValidationError struct {
	StartHour float64
	Duration  float64
	CloseHour float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s + %gh ends at %s, after %s",
		ErrPastClosing, formatHour(e.StartHour), e.Duration,
		formatHour(e.StartHour+e.Duration), formatHour(e.CloseHour))
}

// Unwrap allows errors.Is(err, ErrPastClosing).
func (e *ValidationError) Unwrap() error {
	return ErrPastClosing
}

// Message is the text shown to the user.
func (e *ValidationError) Message() string {
	return fmt.Sprintf("Too late! Classes must end by %s.", clockLabel(e.CloseHour))
}

// Validator checks placements against business hours.
// Overlapping events are allowed; only the closing bound is enforced.
type Validator struct {
	CloseHour float64
}

// NewValidator returns a validator for the given closing hour.
// A non-positive hour falls back to DefaultCloseHour.
func NewValidator(closeHour float64) Validator {
	if closeHour <= 0 {
		closeHour = DefaultCloseHour
	}
	return Validator{CloseHour: closeHour}
}

// Validate rejects placements ending after the closing hour.
func (v Validator) Validate(startHour, duration float64) error {
	if !finite(startHour) || !finite(duration) {
		return fmt.Errorf("%w: start %v, duration %v", ErrInvalidHour, startHour, duration)
	}
	if startHour+duration > v.CloseHour {
		return &ValidationError{StartHour: startHour, Duration: duration, CloseHour: v.CloseHour}
	}
	return nil
}

func formatHour(h float64) string {
	whole := int(h)
	mins := int((h-float64(whole))*60 + 0.5)
	return fmt.Sprintf("%02d:%02d", whole, mins)
}

// clockLabel renders 21 as "9 PM".
func clockLabel(h float64) string {
	hour := int(h)
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	if hour > 12 {
		hour -= 12
	}
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d %s", hour, suffix)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
