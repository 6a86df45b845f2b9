// Package export renders the weekly schedule as a PNG image or an XLSX workbook.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/uniflow/internal/schedule"
)

// Format is an export file format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for formats other than png and xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "png" or "xlsx", ignoring case and a leading dot.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "."))
	switch f {
	case FormatPNG, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Options bounds the exported grid.
type Options struct {
	OpenHour  float64   // first row, default 8
	CloseHour float64   // last row boundary, default 21
	Now       time.Time // draws the current-time line when set and on a weekday
}

func (o Options) withDefaults() Options {
	if o.OpenHour <= 0 {
		o.OpenHour = 8
	}
	if o.CloseHour <= o.OpenHour {
		o.CloseHour = schedule.DefaultCloseHour
	}
	return o
}

// rows returns the whole hours covered by the grid.
func (o Options) rows() []int {
	var hours []int
	for h := int(math.Floor(o.OpenHour)); h < int(math.Ceil(o.CloseHour)); h++ {
		hours = append(hours, h)
	}
	return hours
}

// Write renders events in the given format.
func Write(w io.Writer, format Format, events []schedule.Event, opts Options) error {
	switch format {
	case FormatPNG:
		data, err := WeekPNG(events, opts)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatXLSX:
		return WriteXLSX(w, events, opts)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// sortedEvents orders events by day, then start hour, then ID.
func sortedEvents(events []schedule.Event) []schedule.Event {
	out := make([]schedule.Event, len(events))
	copy(out, events)
	sort.SliceStable(out, func(i, j int) bool {
		if di, dj := out[i].Day.Index(), out[j].Day.Index(); di != dj {
			return di < dj
		}
		if out[i].StartHour != out[j].StartHour {
			return out[i].StartHour < out[j].StartHour
		}
		return out[i].ID < out[j].ID
	})
	return out
}
