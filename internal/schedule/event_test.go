package schedule

import (
	"errors"
	"math"
	"testing"
)

func TestParseDay(t *testing.T) {
	tests := []struct {
		in      string
		want    Day
		wantErr bool
	}{
		{in: "Mon", want: Monday},
		{in: "mon", want: Monday},
		{in: "Wednesday", want: Wednesday},
		{in: " fri ", want: Friday},
		{in: "Sat", wantErr: true},
		{in: "Mo", wantErr: true},
		{in: "monkey", wantErr: true},
		{in: "frisbee", wantErr: true},
		{in: "THURSDAY", want: Thursday},
		{in: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDay(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidDay) {
					t.Errorf("expected ErrInvalidDay, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseDay(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Event
		want bool
	}{
		{
			name: "partial overlap",
			a:    Event{Day: Monday, StartHour: 9, Duration: 1.5},
			b:    Event{Day: Monday, StartHour: 9.5, Duration: 1},
			want: true,
		},
		{
			name: "back to back does not overlap",
			a:    Event{Day: Monday, StartHour: 9, Duration: 1},
			b:    Event{Day: Monday, StartHour: 10, Duration: 1},
			want: false,
		},
		{
			name: "containment",
			a:    Event{Day: Tuesday, StartHour: 9, Duration: 4},
			b:    Event{Day: Tuesday, StartHour: 10, Duration: 1},
			want: true,
		},
		{
			name: "different days",
			a:    Event{Day: Monday, StartHour: 9, Duration: 2},
			b:    Event{Day: Tuesday, StartHour: 9, Duration: 2},
			want: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Overlaps(tc.b); got != tc.want {
				t.Errorf("a.Overlaps(b) = %v, want %v", got, tc.want)
			}
			if got := tc.b.Overlaps(tc.a); got != tc.want {
				t.Errorf("b.Overlaps(a) = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	e := Event{Day: Monday, StartHour: 9.5, Duration: 1}

	for hour, want := range map[float64]bool{8: false, 9: true, 10: true, 11: false} {
		if got := e.Covers(hour); got != want {
			t.Errorf("Covers(%v) = %v, want %v", hour, got, want)
		}
	}
}

func TestParseTarget(t *testing.T) {
	tests := []struct {
		id      string
		want    Target
		wantErr error
	}{
		{id: "Mon-9", want: Target{Day: Monday, Hour: 9}},
		{id: "Wed-13.5", want: Target{Day: Wednesday, Hour: 13.5}},
		{id: "Fri-20", want: Target{Day: Friday, Hour: 20}},
		{id: "Sat-9", wantErr: ErrInvalidDay},
		{id: "mon-9", wantErr: ErrInvalidDay},
		{id: "Mon", wantErr: ErrInvalidTarget},
		{id: "Mon-", wantErr: ErrInvalidTarget},
		{id: "Mon-nine", wantErr: ErrInvalidTarget},
		{id: "Mon-NaN", wantErr: ErrInvalidTarget},
		{id: "Tue--Inf", wantErr: ErrInvalidTarget},
		{id: "Wed-Inf", wantErr: ErrInvalidTarget},
		{id: "", wantErr: ErrInvalidTarget},
	}

	for _, tc := range tests {
		t.Run(tc.id, func(t *testing.T) {
			got, err := ParseTarget(tc.id)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Errorf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseTarget(%q) = %+v, want %+v", tc.id, got, tc.want)
			}
			if got.String() != tc.id {
				t.Errorf("String() = %q, want %q", got.String(), tc.id)
			}
		})
	}
}

func TestValidator(t *testing.T) {
	v := NewValidator(0)

	tests := []struct {
		name     string
		start    float64
		duration float64
		wantErr  bool
	}{
		{name: "ends exactly at close", start: 19, duration: 2},
		{name: "morning class", start: 8, duration: 1.5},
		{name: "ends after close", start: 20, duration: 2, wantErr: true},
		{name: "half hour too late", start: 20, duration: 1.5, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.start, tc.duration)
			if !tc.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrPastClosing) {
				t.Fatalf("expected ErrPastClosing, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			if verr.Message() != "Too late! Classes must end by 9 PM." {
				t.Errorf("unexpected message %q", verr.Message())
			}
		})
	}
}

func TestValidator_NonFiniteHours(t *testing.T) {
	v := NewValidator(21)

	tests := []struct {
		name     string
		start    float64
		duration float64
	}{
		{name: "nan start", start: math.NaN(), duration: 1},
		{name: "negative infinity", start: math.Inf(-1), duration: 1},
		{name: "infinite duration", start: 9, duration: math.Inf(1)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.start, tc.duration)
			if !errors.Is(err, ErrInvalidHour) {
				t.Fatalf("expected ErrInvalidHour, got %v", err)
			}
			var verr *ValidationError
			if errors.As(err, &verr) {
				t.Error("non-finite hours are not a closing-time violation")
			}
		})
	}
}
