// Package commands provides TUI command constructors and message types.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/uniflow/internal/export"
	"github.com/javiermolinar/uniflow/internal/llm"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/summary"
)

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsg is sent for temporary status messages.
type StatusMsg struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// TickMsg drives the current-time marker.
type TickMsg struct {
	Time time.Time
}

// NotificationExpiredMsg asks the model to expire one toast.
type NotificationExpiredMsg struct {
	ID string
}

// AdviceMsg is sent when the course advisor replies.
type AdviceMsg struct {
	Input  string
	Advice *planner.Advice
}

// SummaryMsg is sent when a week summary is ready.
type SummaryMsg struct {
	Summary *summary.WeekSummary
	Review  bool // true when the summary carries an LLM insight
}

// ExportedMsg is sent after the week has been written to disk.
type ExportedMsg struct {
	Path string
}

// ClientFactory builds the LLM client on demand.
type ClientFactory func() (llm.Client, error)

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// EveryMinute ticks on the wall-clock minute.
func EveryMinute() tea.Cmd {
	return tea.Every(time.Minute, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// ExpireNotification fires NotificationExpiredMsg for id after ttl.
func ExpireNotification(id string, ttl time.Duration) tea.Cmd {
	return tea.Tick(ttl, func(time.Time) tea.Msg {
		return NotificationExpiredMsg{ID: id}
	})
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// CopyToClipboard copies text to the system clipboard.
func CopyToClipboard(text, what string) tea.Cmd {
	return func() tea.Msg {
		if strings.TrimSpace(text) == "" {
			return ErrMsg{Err: errors.New("nothing to copy")}
		}
		if err := writeClipboard(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsg{Msg: "Copied " + what + " to clipboard"}
	}
}

// Advise runs the course advisor for input. The planner reads a snapshot of
// the store, so callers must hold off mutations until AdviceMsg arrives.
func Advise(p *planner.Planner, newClient ClientFactory, input string, compact bool, maxRetries int) tea.Cmd {
	return func() tea.Msg {
		client, err := newClient()
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}

		advice, err := p.Advise(context.Background(), client, input, compact, maxRetries)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("planning: %w", err)}
		}
		return AdviceMsg{Input: input, Advice: advice}
	}
}

// Summary builds the week summary without contacting the LLM.
func Summary(events []schedule.Event, creditGoal int, closeHour float64) tea.Cmd {
	return func() tea.Msg {
		s, err := summary.BuildWeekSummary(context.Background(), events, summary.BuildWeekSummaryOptions{
			CreditGoal: creditGoal,
			CloseHour:  closeHour,
		})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Summary: s}
	}
}

// Review builds the week summary and asks the LLM for a critique of it.
func Review(events []schedule.Event, newClient ClientFactory, creditGoal int, closeHour float64) tea.Cmd {
	return func() tea.Msg {
		client, err := newClient()
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}
		s, err := summary.BuildWeekSummary(context.Background(), events, summary.BuildWeekSummaryOptions{
			CreditGoal:     creditGoal,
			CloseHour:      closeHour,
			IncludeInsight: true,
			Client:         client,
		})
		if err != nil {
			return ErrMsg{Err: err}
		}
		return SummaryMsg{Summary: s, Review: true}
	}
}

// Export writes the week to path. The format follows the file extension.
func Export(events []schedule.Event, path string, opts export.Options) tea.Cmd {
	return func() tea.Msg {
		format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("export %s: %w", path, err)}
		}

		var buf bytes.Buffer
		if err := export.Write(&buf, format, events, opts); err != nil {
			return ErrMsg{Err: fmt.Errorf("export %s: %w", path, err)}
		}
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return ErrMsg{Err: fmt.Errorf("writing %s: %w", path, err)}
		}
		return ExportedMsg{Path: path}
	}
}
