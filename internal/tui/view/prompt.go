package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/uniflow/internal/tui/input"
)

// PromptState captures prompt input state for rendering.
type PromptState struct {
	Prefix      string // "> " for commands, "/ " for search
	Value       string
	Cursor      string
	Suggestions bool
}

// PromptLines builds prompt input and suggestion lines for the given width.
func PromptLines(state PromptState, contentWidth int, commands []input.PromptCommand) []string {
	prefix := state.Prefix
	if prefix == "" {
		prefix = "> "
	}
	continuation := strings.Repeat(" ", ansi.StringWidth(prefix))
	lines := wrapTextWithPrefix(state.Value+state.Cursor, prefix, continuation, contentWidth)
	if !state.Suggestions {
		return lines
	}
	for _, cmd := range input.PromptMatchingCommands(state.Value, commands) {
		lines = append(lines, wrapTextWithPrefix(cmd.Name+" "+cmd.Description, "  ", "  ", contentWidth)...)
	}
	return lines
}

// ClampPromptLines clamps prompt lines to maxLines and marks the cut.
func ClampPromptLines(lines []string, maxLines, width int) []string {
	if maxLines <= 0 {
		return nil
	}
	if len(lines) <= maxLines {
		return lines
	}

	clamped := append([]string(nil), lines[:maxLines]...)
	last := clamped[maxLines-1]
	if ansi.StringWidth(last)+1 > width {
		last = ansi.Truncate(last, max(width-1, 0), "")
	}
	clamped[maxLines-1] = last + "…"
	return clamped
}

// WrapTextToWidths wraps text across the provided widths, breaking at
// spaces where possible.
func WrapTextToWidths(s string, firstWidth, otherWidth int) []string {
	if firstWidth <= 0 || otherWidth <= 0 {
		return []string{""}
	}

	runes := []rune(s)
	if len(runes) == 0 {
		return []string{""}
	}

	lines := make([]string, 0, 4)
	width := firstWidth
	lineStart := 0
	lastSpace := -1
	lineWidth := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == ' ' {
			lastSpace = i
		}

		runeWidth := ansi.StringWidth(string(r))
		if lineWidth+runeWidth > width {
			if lastSpace >= lineStart {
				lines = append(lines, string(runes[lineStart:lastSpace]))
				i = lastSpace
				lineStart = lastSpace + 1
			} else {
				lines = append(lines, string(runes[lineStart:i]))
				lineStart = i
				i--
			}
			width = otherWidth
			lastSpace = -1
			lineWidth = 0
			continue
		}
		lineWidth += runeWidth
	}

	return append(lines, string(runes[lineStart:]))
}

// RenderPrompt renders the prompt box with the provided lines.
func RenderPrompt(width int, style lipgloss.Style, lines []string) string {
	frameW, _ := style.GetFrameSize()
	style = style.Width(max(width-frameW, 0))
	if len(lines) == 0 {
		lines = []string{""}
	}
	return style.Render(strings.Join(lines, "\n"))
}

func wrapTextWithPrefix(s, prefix, continuation string, width int) []string {
	if width <= 0 {
		return []string{""}
	}

	firstWidth := max(width-ansi.StringWidth(prefix), 0)
	otherWidth := max(width-ansi.StringWidth(continuation), 0)

	lines := WrapTextToWidths(s, firstWidth, otherWidth)
	for i := range lines {
		if i == 0 {
			lines[i] = prefix + lines[i]
		} else {
			lines[i] = continuation + lines[i]
		}
	}
	return lines
}
