package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx/v3"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// Sheet names of the exported workbook.
const (
	WeekSheet   = "Week"
	EventsSheet = "Events"
)

// Workbook builds a two-sheet workbook: an hour by day grid of course codes and
// a flat event list.
func Workbook(events []schedule.Event, opts Options) (*xlsx.File, error) {
	opts = opts.withDefaults()
	wb := xlsx.NewFile()

	week, err := wb.AddSheet(WeekSheet)
	if err != nil {
		return nil, fmt.Errorf("adding %s sheet: %w", WeekSheet, err)
	}
	header := week.AddRow()
	header.AddCell().SetString("Time")
	for _, day := range schedule.Days {
		header.AddCell().SetString(string(day))
	}
	for _, h := range opts.rows() {
		row := week.AddRow()
		row.AddCell().SetString(dateutil.ClockHour(float64(h)))
		for _, day := range schedule.Days {
			row.AddCell().SetString(cellCodes(events, day, float64(h)))
		}
	}

	list, err := wb.AddSheet(EventsSheet)
	if err != nil {
		return nil, fmt.Errorf("adding %s sheet: %w", EventsSheet, err)
	}
	header = list.AddRow()
	for _, title := range []string{"ID", "Code", "Course", "Day", "Start", "End", "Hours", "Credits"} {
		header.AddCell().SetString(title)
	}
	for _, e := range sortedEvents(events) {
		code, name, credits := e.CourseID, e.CourseID, 0
		if c, ok := catalog.Lookup(e.CourseID); ok {
			code, name, credits = c.Code, c.Name, c.Credits
		}
		row := list.AddRow()
		row.AddCell().SetString(e.ID)
		row.AddCell().SetString(code)
		row.AddCell().SetString(name)
		row.AddCell().SetString(string(e.Day))
		row.AddCell().SetString(dateutil.ClockHour(e.StartHour))
		row.AddCell().SetString(dateutil.ClockHour(e.EndHour()))
		row.AddCell().SetFloat(e.Duration)
		row.AddCell().SetInt(credits)
	}

	return wb, nil
}

// WriteXLSX writes the workbook to w.
func WriteXLSX(w io.Writer, events []schedule.Event, opts Options) error {
	wb, err := Workbook(events, opts)
	if err != nil {
		return err
	}
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// cellCodes joins the codes of events occupying [hour, hour+1) on day.
func cellCodes(events []schedule.Event, day schedule.Day, hour float64) string {
	var codes []string
	for _, e := range sortedEvents(events) {
		if e.Day != day || !e.Covers(hour) {
			continue
		}
		code := e.CourseID
		if c, ok := catalog.Lookup(e.CourseID); ok {
			code = c.Code
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, ", ")
}
