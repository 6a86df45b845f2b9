package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Toast is one pre-styled notification.
type Toast struct {
	Text  string
	Style lipgloss.Style
}

// RenderToasts lays toasts out left to right, dropping the ones that do not
// fit in width.
func RenderToasts(toasts []Toast, width int, gap lipgloss.Style) string {
	parts := make([]string, 0, len(toasts))
	used := 0
	sep := gap.Render(" ")
	for _, t := range toasts {
		rendered := t.Style.Render(t.Text)
		w := ansi.StringWidth(rendered)
		if len(parts) > 0 {
			w++
		}
		if used+w > width {
			break
		}
		used += w
		parts = append(parts, rendered)
	}
	return strings.Join(parts, sep)
}

// NotificationList renders the full notification list for the dropdown.
func NotificationList(toasts []Toast, selected int, marker lipgloss.Style, width int) []string {
	if len(toasts) == 0 {
		return []string{"No notifications"}
	}
	lines := make([]string, len(toasts))
	for i, t := range toasts {
		prefix := "  "
		if i == selected {
			prefix = marker.Render("▸ ")
		}
		lines[i] = prefix + t.Style.Render(FitWidth(t.Text, max(width-4, 1)))
	}
	return lines
}
