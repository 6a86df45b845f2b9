package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	ToastLine  string
	PromptBox  string
	StatusLine string
	HelpLine   string
	VAlign     lipgloss.Position
	Bg         lipgloss.Color
}

// RenderFooter renders toasts, the prompt box, the status line and help.
// Empty parts are skipped.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	parts := make([]string, 0, 4)
	for _, part := range []string{state.ToastLine, state.PromptBox, state.StatusLine, state.HelpLine} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, strings.Join(parts, "\n"), state.Bg)
}
