package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BenchItem is one course in the sidebar.
type BenchItem struct {
	Swatch   string
	Code     string
	Name     string
	Meta     string
	Selected bool
}

// BenchViewState holds the sidebar content.
type BenchViewState struct {
	Width         int
	Height        int
	Title         string
	Search        string
	Items         []BenchItem
	Credits       string
	TitleStyle    lipgloss.Style
	ItemStyle     lipgloss.Style
	SelectedStyle lipgloss.Style
	MetaStyle     lipgloss.Style
	Bg            lipgloss.Color
}

// RenderBench renders the course bench: title, search query, one entry of
// two lines per course and the credit counter at the bottom.
func RenderBench(state BenchViewState) string {
	if state.Width <= 2 || state.Height <= 0 {
		return ""
	}
	inner := state.Width - 2

	lines := []string{state.TitleStyle.Render(FitWidth(state.Title, inner))}
	if state.Search != "" {
		lines = append(lines, state.MetaStyle.Render(FitWidth("/ "+state.Search, inner)))
	}
	lines = append(lines, "")

	if len(state.Items) == 0 {
		lines = append(lines, state.MetaStyle.Render(FitWidth("No matching courses", inner)))
	}
	for _, item := range state.Items {
		style := state.ItemStyle
		if item.Selected {
			style = state.SelectedStyle
		}
		lines = append(lines,
			item.Swatch+style.Render(" "+FitWidth(item.Code+" "+item.Name, inner-2)),
			"  "+state.MetaStyle.Render(FitWidth(item.Meta, inner-2)),
		)
	}

	body := PlaceBox(state.Width, max(state.Height-1, 0), lipgloss.Top, " "+strings.Join(lines, "\n "), state.Bg)
	return lipgloss.JoinVertical(lipgloss.Left, body, " "+state.Credits)
}
