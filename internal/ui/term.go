package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/uniflow/internal/catalog"
	"github.com/javiermolinar/uniflow/internal/notify"
)

// Color definitions for consistent styling across the UI.
var (
	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats and success: green
	colorStats = color.New(color.FgGreen)

	// Errors: bold red
	colorError = color.New(color.FgRed, color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// courseColors maps catalog color tokens onto the 16 terminal colors.
var courseColors = map[string]*color.Color{
	"indigo":  color.New(color.FgBlue, color.Bold),
	"sky":     color.New(color.FgCyan, color.Bold),
	"emerald": color.New(color.FgGreen, color.Bold),
	"rose":    color.New(color.FgRed, color.Bold),
	"amber":   color.New(color.FgYellow, color.Bold),
	"slate":   color.New(color.FgWhite),
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatCourse renders s in the color of the course.
func formatCourse(courseID, s string) string {
	c, ok := catalog.Lookup(courseID)
	if !ok {
		return s
	}
	if col, ok := courseColors[c.Color]; ok {
		return col.Sprint(s)
	}
	return s
}

// formatInsight formats text for insight/coaching output.
func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatError formats a failure line.
func formatError(s string) string {
	return colorError.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatNotification(n notify.Notification) string {
	switch n.Severity {
	case notify.SeveritySuccess:
		return formatStats("✓ " + n.Message)
	case notify.SeverityError:
		return formatError("✗ " + n.Message)
	default:
		return "• " + n.Message
	}
}
