package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

const reviewerSystemPrompt = `You are a concise academic advisor. Output ONLY the exact format shown - no markdown, no extra text.`

const reviewerPromptTemplate = `Review this student's weekly timetable and output EXACTLY this format (no markdown, no code blocks):

LOAD: [ 2-4 word verdict ]

⚠️  CLASHES: One sentence naming overlapping classes, or omit.
📚 BALANCE: One sentence about how class hours are spread Mon→Fri.
🎯 CREDITS: One sentence comparing %d placed credits with the %d goal.

NEXT STEPS:
➜  First specific change to the timetable.
➜  Second specific change.

Data Format:
- [!] marks a class overlapping another one the same day
- Teaching hours end at %s

Timetable:
%s

Rules:
- Use the exact emoji prefixes shown (⚠️, 📚, 🎯, ➜)
- Keep each line under 70 characters
- Be specific with days, times and course codes from the data
- Output plain text only, no markdown formatting`

// ReviewRequest is the timetable handed to the reviewer.
type ReviewRequest struct {
	Events     []schedule.Event
	Courses    []catalog.Course
	Credits    int
	CreditGoal int
	CloseHour  float64
}

// Reviewer asks the LLM for a short critique of the weekly timetable.
type Reviewer struct {
	client Client
}

// NewReviewer creates a Reviewer with the given LLM client.
func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// ReviewWeek sends the timetable to the LLM and returns its plain-text review.
func (r *Reviewer) ReviewWeek(ctx context.Context, req ReviewRequest) (string, error) {
	closeHour := req.CloseHour
	if closeHour <= 0 {
		closeHour = schedule.DefaultCloseHour
	}
	prompt := fmt.Sprintf(reviewerPromptTemplate,
		req.Credits, req.CreditGoal, dateutil.ClockHour(closeHour), formatTimetable(req.Events, req.Courses))

	return r.client.Chat(ctx, []Message{
		{Role: "system", Content: reviewerSystemPrompt},
		{Role: "user", Content: prompt},
	})
}

// formatTimetable renders events grouped by day in the CLI list style.
func formatTimetable(events []schedule.Event, courses []catalog.Course) string {
	byID := make(map[string]catalog.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	var sb strings.Builder
	sorted := sortedEvents(events)
	for _, day := range schedule.Days {
		var dayEvents []schedule.Event
		for _, e := range sorted {
			if e.Day == day {
				dayEvents = append(dayEvents, e)
			}
		}
		if len(dayEvents) == 0 {
			sb.WriteString(fmt.Sprintf("%s\n  (free)\n", day))
			continue
		}

		sb.WriteString(fmt.Sprintf("%s\n", day))
		for _, e := range dayEvents {
			clash := "   "
			for _, other := range dayEvents {
				if other.ID != e.ID && e.Overlaps(other) {
					clash = "[!]"
					break
				}
			}
			code, credits := e.CourseID, 0
			if c, ok := byID[e.CourseID]; ok {
				code, credits = c.Code, c.Credits
			}
			sb.WriteString(fmt.Sprintf("  %s %s-%s  %s  %s  %dcr\n",
				clash,
				dateutil.ClockHour(e.StartHour),
				dateutil.ClockHour(e.EndHour()),
				code,
				formatDuration(e.Duration),
				credits))
		}
	}
	return sb.String()
}

// formatDuration formats fractional hours as 1h30m.
func formatDuration(hours float64) string {
	minutes := int(hours*60 + 0.5)
	if minutes == 0 {
		return "0m"
	}
	h := minutes / 60
	m := minutes % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh%dm", h, m)
}
