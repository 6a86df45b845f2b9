// Package summary provides shared week summary utilities.
package summary

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// DayStats aggregates the classes of one grid day.
type DayStats struct {
	Day    schedule.Day
	Events int
	Hours  float64
	First  float64 // earliest start, valid when Events > 0
	Last   float64 // latest end, valid when Events > 0
}

// CourseStats aggregates the placements of one course.
type CourseStats struct {
	CourseID string
	Code     string
	Name     string
	Count    int
	Hours    float64
	Credits  int // credits contributed, counted once per placement
}

// WeekSummary holds aggregated week data and optional insight.
type WeekSummary struct {
	Days       []DayStats
	Courses    []CourseStats
	Events     int
	Hours      float64
	Credits    int
	CreditGoal int
	Overlaps   int // overlapping pairs across the week
	Insight    string
}

// Remaining returns the credits still needed to reach the goal, never negative.
func (s *WeekSummary) Remaining() int {
	return max(s.CreditGoal-s.Credits, 0)
}

// BusiestDay returns the day with the most class hours. ok is false for an empty week.
func (s *WeekSummary) BusiestDay() (DayStats, bool) {
	var best DayStats
	found := false
	for _, d := range s.Days {
		if d.Events > 0 && (!found || d.Hours > best.Hours) {
			best, found = d, true
		}
	}
	return best, found
}

// BuildWeekSummaryOptions configures the summary builder.
type BuildWeekSummaryOptions struct {
	CreditGoal     int
	CloseHour      float64
	IncludeInsight bool
	Client         llm.Client
}

// SummarizeWeek builds week summary data from the placed events.
func SummarizeWeek(events []schedule.Event, creditGoal int) *WeekSummary {
	s := &WeekSummary{CreditGoal: creditGoal}

	for _, day := range schedule.Days {
		ds := DayStats{Day: day}
		var dayEvents []schedule.Event
		for _, e := range events {
			if e.Day != day {
				continue
			}
			if ds.Events == 0 || e.StartHour < ds.First {
				ds.First = e.StartHour
			}
			if ds.Events == 0 || e.EndHour() > ds.Last {
				ds.Last = e.EndHour()
			}
			ds.Events++
			ds.Hours += e.Duration
			dayEvents = append(dayEvents, e)
		}
		for i := range dayEvents {
			for j := i + 1; j < len(dayEvents); j++ {
				if dayEvents[i].Overlaps(dayEvents[j]) {
					s.Overlaps++
				}
			}
		}
		s.Days = append(s.Days, ds)
		s.Events += ds.Events
		s.Hours += ds.Hours
	}

	index := make(map[string]int)
	for _, e := range events {
		i, ok := index[e.CourseID]
		if !ok {
			cs := CourseStats{CourseID: e.CourseID, Code: e.CourseID, Name: e.CourseID}
			if c, found := catalog.Lookup(e.CourseID); found {
				cs.Code, cs.Name = c.Code, c.Name
			}
			i = len(s.Courses)
			index[e.CourseID] = i
			s.Courses = append(s.Courses, cs)
		}
		s.Courses[i].Count++
		s.Courses[i].Hours += e.Duration
		if c, found := catalog.Lookup(e.CourseID); found {
			s.Courses[i].Credits += c.Credits
			s.Credits += c.Credits
		}
	}

	return s
}

// BuildWeekSummary summarizes events and optionally adds an LLM review.
func BuildWeekSummary(ctx context.Context, events []schedule.Event, opts BuildWeekSummaryOptions) (*WeekSummary, error) {
	summary := SummarizeWeek(events, opts.CreditGoal)

	if opts.IncludeInsight && summary.Events > 0 {
		if opts.Client == nil {
			return nil, errors.New("an LLM client is required for insight")
		}
		reviewer := llm.NewReviewer(opts.Client)
		result, err := reviewer.ReviewWeek(ctx, llm.ReviewRequest{
			Events:     events,
			Courses:    catalog.All(),
			Credits:    summary.Credits,
			CreditGoal: summary.CreditGoal,
			CloseHour:  opts.CloseHour,
		})
		if err != nil {
			return nil, fmt.Errorf("reviewing week: %w", err)
		}
		summary.Insight = strings.TrimSpace(result)
	}

	return summary, nil
}

// Text renders the summary as plain text for the terminal and the clipboard.
func (s *WeekSummary) Text() string {
	var sb strings.Builder

	sb.WriteString("Week overview\n")
	for _, d := range s.Days {
		if d.Events == 0 {
			fmt.Fprintf(&sb, "  %s  free\n", d.Day)
			continue
		}
		fmt.Fprintf(&sb, "  %s  %d %s  %-6s %s-%s\n",
			d.Day, d.Events, plural(d.Events, "class", "classes"), FormatHours(d.Hours),
			dateutil.ClockHour(d.First), dateutil.ClockHour(d.Last))
	}

	if len(s.Courses) > 0 {
		sb.WriteString("\nCourses\n")
		for _, c := range s.Courses {
			fmt.Fprintf(&sb, "  %-9s %-18s x%d  %s\n", c.Code, c.Name, c.Count, FormatHours(c.Hours))
		}
	}

	fmt.Fprintf(&sb, "\nCredits %d/%d", s.Credits, s.CreditGoal)
	if r := s.Remaining(); r > 0 {
		fmt.Fprintf(&sb, " (%d to go)", r)
	} else {
		sb.WriteString(" (goal reached)")
	}
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Classes %d, %s in class", s.Events, FormatHours(s.Hours))
	if s.Overlaps > 0 {
		fmt.Fprintf(&sb, ", %d %s", s.Overlaps, plural(s.Overlaps, "overlap", "overlaps"))
	}
	sb.WriteString("\n")

	if s.Insight != "" {
		sb.WriteString("\n")
		sb.WriteString(s.Insight)
		sb.WriteString("\n")
	}
	return sb.String()
}

// FormatHours formats fractional hours as 1h30m.
func FormatHours(hours float64) string {
	minutes := int(hours*60 + 0.5)
	h, m := minutes/60, minutes%60
	switch {
	case minutes == 0:
		return "0m"
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
