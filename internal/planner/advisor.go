package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/schedule"
)

// DefaultMaxRetries is how many times the advisor is asked to correct itself.
const DefaultMaxRetries = 3

// ErrUnresolvedAdvice is returned when applying advice that still has errors.
var ErrUnresolvedAdvice = errors.New("cannot apply: advice has validation errors")

// AdviceError is a problem with one proposed placement.
type AdviceError struct {
	Index   int    // Index of the placement in the response
	Field   string // "course_id", "day" or "start_hour"
	Message string
}

// String returns a formatted error message.
func (e AdviceError) String() string {
	return fmt.Sprintf("Placement %d: %s - %s", e.Index, e.Field, e.Message)
}

// Advice is a validated set of placements ready to apply.
type Advice struct {
	Placements  []llm.Placement
	Warnings    []string
	Suggestions []string

	// Populated when retries are exhausted.
	Errors []AdviceError
}

// HasErrors returns true if there are unresolved validation errors.
func (a *Advice) HasErrors() bool {
	return len(a.Errors) > 0
}

// Advise asks the LLM for placements matching input, validates them against
// the catalog and business hours, and feeds errors back up to maxRetries
// times. When retries run out the last response is returned with Errors set.
func (p *Planner) Advise(ctx context.Context, client llm.Client, input string, compact bool, maxRetries int) (*Advice, error) {
	if client == nil {
		return nil, llm.ErrDisabled
	}
	if maxRetries < 0 {
		maxRetries = 0
	}

	advisor := llm.NewAdvisor(client)
	messages := advisor.BuildInitialMessages(llm.AdviceRequest{
		Input:            input,
		Now:              time.Now(),
		OpenHour:         p.openHour,
		CloseHour:        p.validator.CloseHour,
		Courses:          catalog.All(),
		Schedule:         p.store.Events(),
		Credits:          p.TotalCredits(),
		CreditGoal:       p.creditGoal,
		UseCompactPrompt: compact,
	})
	messages = append(messages, llm.Message{Role: "user", Content: input})

	var (
		resp *llm.AdviceResponse
		errs []AdviceError
	)
	for attempt := 0; attempt <= maxRetries; attempt++ {
		var err error
		resp, err = advisor.AdviseWithMessages(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("LLM advice (attempt %d): %w", attempt+1, err)
		}

		errs = p.ValidatePlacements(resp.Placements)
		if len(errs) == 0 {
			break
		}
		p.logger.Debug("advice rejected", zap.Int("attempt", attempt+1), zap.Int("errors", len(errs)))

		if attempt < maxRetries {
			respJSON, _ := json.Marshal(resp)
			messages = append(messages,
				llm.Message{Role: "assistant", Content: string(respJSON)},
				llm.Message{Role: "user", Content: formatAdviceErrors(errs)},
			)
		}
	}

	return &Advice{
		Placements:  resp.Placements,
		Warnings:    resp.Warnings,
		Suggestions: resp.Suggestions,
		Errors:      errs,
	}, nil
}

// ValidatePlacements checks each placement for a known course, a grid day
// and a start inside business hours.
func (p *Planner) ValidatePlacements(placements []llm.Placement) []AdviceError {
	var errs []AdviceError
	for i, pl := range placements {
		course, ok := catalog.Resolve(pl.CourseID)
		if !ok {
			errs = append(errs, AdviceError{
				Index:   i,
				Field:   "course_id",
				Message: fmt.Sprintf("'%s' is not in the catalog", pl.CourseID),
			})
		}

		if _, err := schedule.ParseDay(pl.Day); err != nil {
			errs = append(errs, AdviceError{
				Index:   i,
				Field:   "day",
				Message: fmt.Sprintf("'%s' is invalid (must be one of Mon, Tue, Wed, Thu, Fri)", pl.Day),
			})
		}

		if pl.StartHour < p.openHour {
			errs = append(errs, AdviceError{
				Index:   i,
				Field:   "start_hour",
				Message: fmt.Sprintf("%s is before opening time %s", dateutil.ClockHour(pl.StartHour), dateutil.ClockHour(p.openHour)),
			})
		} else if ok {
			if err := p.validator.Validate(pl.StartHour, course.Duration); err != nil {
				errs = append(errs, AdviceError{
					Index:   i,
					Field:   "start_hour",
					Message: fmt.Sprintf("%s + %gh ends after %s", dateutil.ClockHour(pl.StartHour), course.Duration, dateutil.ClockHour(p.validator.CloseHour)),
				})
			}
		}
	}
	return errs
}

// ApplyAdvice places every suggested course. Advice with errors is refused.
func (p *Planner) ApplyAdvice(ctx context.Context, advice *Advice) ([]schedule.Event, error) {
	if advice.HasErrors() {
		return nil, ErrUnresolvedAdvice
	}

	var added []schedule.Event
	for _, pl := range advice.Placements {
		day, err := schedule.ParseDay(pl.Day)
		if err != nil {
			return added, err
		}
		e, err := p.Add(ctx, pl.CourseID, day, pl.StartHour)
		if err != nil {
			return added, fmt.Errorf("placing %s: %w", pl.CourseID, err)
		}
		added = append(added, e)
	}
	return added, nil
}

// formatAdviceErrors renders validation errors as feedback for the LLM.
func formatAdviceErrors(errs []AdviceError) string {
	var sb strings.Builder
	sb.WriteString("Your response had these errors:\n")
	for _, e := range errs {
		sb.WriteString(fmt.Sprintf("- %s\n", e.String()))
	}
	sb.WriteString("\nPlease correct these issues and respond again with valid JSON.")
	return sb.String()
}
