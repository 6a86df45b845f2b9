package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

const advisorPrompt = `You are a university course planning assistant helping a student build a weekly timetable.

Context:
- Current date and time: %s
- Teaching days: %s
- Classes may start at %s at the earliest and must END by %s
- Credits currently placed: %d (goal: %d)

%s

%s

User request: "%s"

Rules:
1. Only use course_id values from the catalog above
2. day must be one of: %s
3. start_hour is a decimal hour on the 24-hour clock (9.5 means 09:30)
4. start_hour + course duration must not exceed %s
5. Overlapping classes are allowed, but prefer free time and mention overlaps in warnings
6. Avoid 12:00-13:00 when possible, it is the lunch break
7. Spread heavy courses across the week rather than stacking them on one day
8. Warn when the request would push credits far beyond the goal

Respond ONLY with valid JSON (no markdown, no explanation):
{
  "placements": [
    {"course_id": "string", "day": "Mon", "start_hour": 9}
  ],
  "warnings": ["string"],
  "suggestions": ["string"]
}`

const advisorPromptCompact = `You are a timetable assistant. Return JSON only.

Days: %s
Hours: start >= %s, end <= %s

%s

%s

User request: "%s"

Rules:
- Return JSON only (no markdown).
- course_id must come from the catalog.
- day is one of %s, start_hour is a decimal hour (9.5 = 09:30).
- "warnings" and "suggestions" must be arrays of strings.

JSON schema:
{
  "placements": [
    {"course_id": "string", "day": "Mon", "start_hour": 9}
  ],
  "warnings": ["string"],
  "suggestions": ["string"]
}`

// AdviceRequest contains the input for the advisor.
type AdviceRequest struct {
	Input            string
	Now              time.Time
	OpenHour         float64
	CloseHour        float64
	Courses          []catalog.Course
	Schedule         []schedule.Event
	Credits          int
	CreditGoal       int
	UseCompactPrompt bool // Use a shorter prompt for local models
}

// AdviceResponse contains the parsed LLM response.
type AdviceResponse struct {
	Placements  []Placement `json:"placements"`
	Warnings    []string    `json:"warnings"`
	Suggestions []string    `json:"suggestions"`
}

// ResponseSchema describes the advisor reply for structured-output providers.
func (AdviceResponse) ResponseSchema() ResponseSchema {
	days := make([]string, len(schedule.Days))
	for i, d := range schedule.Days {
		days[i] = string(d)
	}
	textList := map[string]any{"type": "array", "items": map[string]any{"type": "string"}}

	return ResponseSchema{
		Name:        "course_placements",
		Description: "course placements for the weekly timetable",
		Schema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"placements": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type": "object",
						"properties": map[string]any{
							"course_id":  map[string]any{"type": "string"},
							"day":        map[string]any{"type": "string", "enum": days},
							"start_hour": map[string]any{"type": "number"},
						},
						"required":             []string{"course_id", "day", "start_hour"},
						"additionalProperties": false,
					},
				},
				"warnings":    textList,
				"suggestions": textList,
			},
			"required":             []string{"placements", "warnings", "suggestions"},
			"additionalProperties": false,
		},
	}
}

// Placement is one course placement proposed by the LLM.
type Placement struct {
	CourseID  string  `json:"course_id"`
	Day       string  `json:"day"`
	StartHour float64 `json:"start_hour"`
}

// Advisor uses an LLM to propose course placements from natural language.
type Advisor struct {
	client Client
}

// NewAdvisor creates a new Advisor with the given LLM client.
func NewAdvisor(client Client) *Advisor {
	return &Advisor{client: client}
}

// Advise proposes placements for a single request without retries.
func (a *Advisor) Advise(ctx context.Context, req AdviceRequest) (*AdviceResponse, error) {
	messages := a.BuildInitialMessages(req)
	messages = append(messages, Message{Role: "user", Content: req.Input})
	return a.AdviseWithMessages(ctx, messages)
}

// AdviseWithMessages sends a pre-built conversation. Callers append
// validation feedback to retry.
func (a *Advisor) AdviseWithMessages(ctx context.Context, messages []Message) (*AdviceResponse, error) {
	var resp AdviceResponse
	if err := a.client.ChatJSON(ctx, messages, &resp); err != nil {
		return nil, fmt.Errorf("getting advice from LLM: %w", err)
	}
	return &resp, nil
}

// BuildInitialMessages creates the system message for a request.
func (a *Advisor) BuildInitialMessages(req AdviceRequest) []Message {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}
	closeHour := req.CloseHour
	if closeHour <= 0 {
		closeHour = schedule.DefaultCloseHour
	}
	days := joinDays()
	open := dateutil.ClockHour(req.OpenHour)
	closing := dateutil.ClockHour(closeHour)
	catalogSection := formatCatalog(req.Courses)
	scheduleSection := formatSchedule(req.Schedule, req.Courses)

	var prompt string
	if req.UseCompactPrompt {
		prompt = fmt.Sprintf(advisorPromptCompact,
			days,
			open,
			closing,
			catalogSection,
			scheduleSection,
			req.Input,
			days,
		)
	} else {
		prompt = fmt.Sprintf(advisorPrompt,
			now.Format("Monday, 2006-01-02 15:04"),
			days,
			open,
			closing,
			req.Credits,
			req.CreditGoal,
			catalogSection,
			scheduleSection,
			req.Input,
			days,
			closing,
		)
	}

	return []Message{
		{Role: "system", Content: prompt},
	}
}

func joinDays() string {
	names := make([]string, len(schedule.Days))
	for i, d := range schedule.Days {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func formatCatalog(courses []catalog.Course) string {
	if len(courses) == 0 {
		return "Course catalog: None"
	}

	var sb strings.Builder
	sb.WriteString("Course catalog:\n")
	for _, c := range courses {
		sb.WriteString(fmt.Sprintf("- %s %s %q: %gh, %d credits, %s\n",
			c.ID, c.Code, c.Name, c.Duration, c.Credits, c.Professor))
	}
	return sb.String()
}

func formatSchedule(events []schedule.Event, courses []catalog.Course) string {
	if len(events) == 0 {
		return "Current schedule: Empty"
	}

	codes := make(map[string]string, len(courses))
	for _, c := range courses {
		codes[c.ID] = c.Code
	}

	var sb strings.Builder
	sb.WriteString("Current schedule:\n")
	for _, e := range sortedEvents(events) {
		code := codes[e.CourseID]
		if code == "" {
			code = e.CourseID
		}
		sb.WriteString(fmt.Sprintf("- %s %s-%s: %s\n",
			e.Day, dateutil.ClockHour(e.StartHour), dateutil.ClockHour(e.EndHour()), code))
	}
	return sb.String()
}

func sortedEvents(events []schedule.Event) []schedule.Event {
	sorted := append([]schedule.Event(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day.Index() < sorted[j].Day.Index()
		}
		if sorted[i].StartHour != sorted[j].StartHour {
			return sorted[i].StartHour < sorted[j].StartHour
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
