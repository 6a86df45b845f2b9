package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/uniflow/internal/notify"
	"github.com/javiermolinar/uniflow/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	// Theme colors as lipgloss colors
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorCurrent     lipgloss.Color
	colorWarning     lipgloss.Color

	// Title and view tabs
	TitleStyle     lipgloss.Style
	TabStyle       lipgloss.Style
	TabActiveStyle lipgloss.Style
	ClockStyle     lipgloss.Style

	// Grid header and time column
	DayHeaderStyle      lipgloss.Style
	DayHeaderTodayStyle lipgloss.Style
	TimeColumnStyle     lipgloss.Style
	TimeColumnNowStyle  lipgloss.Style

	// Grid cells
	EmptyCellStyle   lipgloss.Style
	CursorStyle      lipgloss.Style
	DropPreviewStyle lipgloss.Style
	DropInvalidStyle lipgloss.Style

	// Course bench
	BenchTitleStyle    lipgloss.Style
	BenchItemStyle     lipgloss.Style
	BenchSelectedStyle lipgloss.Style
	BenchMetaStyle     lipgloss.Style
	CreditsStyle       lipgloss.Style
	CreditsDoneStyle   lipgloss.Style

	// Toasts
	ToastSuccessStyle lipgloss.Style
	ToastErrorStyle   lipgloss.Style
	ToastInfoStyle    lipgloss.Style

	// Footer
	StatusStyle        lipgloss.Style
	HelpStyle          lipgloss.Style
	PromptStyle        lipgloss.Style
	PromptFocusedStyle lipgloss.Style

	// Modal styles
	ModalStyle             lipgloss.Style
	ModalBgColor           lipgloss.Color
	ModalHeaderStyle       lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalErrorStyle        lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style

	// Table border
	BorderStyle lipgloss.Style

	// App container
	AppStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	s := &Styles{}
	palette := theme.NewPalette(t)
	s.palette = palette

	s.colorBg = palette.Bg
	s.colorBgHighlight = palette.BgHighlight
	s.colorBgSelection = palette.BgSelection
	s.colorFg = palette.Fg
	s.colorFgMuted = palette.FgMuted
	s.colorAccent = palette.Accent
	s.colorCurrent = palette.Current
	s.colorWarning = palette.Warning

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.TabStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg).
		Padding(0, 1)

	s.TabActiveStyle = lipgloss.NewStyle().
		Foreground(palette.TextOnAccent).
		Background(s.colorAccent).
		Bold(true).
		Padding(0, 1)

	s.ClockStyle = lipgloss.NewStyle().
		Foreground(s.colorCurrent).
		Background(s.colorBg).
		Bold(true)

	s.DayHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.DayHeaderTodayStyle = s.DayHeaderStyle.
		Foreground(s.colorAccent)

	s.TimeColumnStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.TimeColumnNowStyle = s.TimeColumnStyle.
		Foreground(s.colorCurrent).
		Bold(true)

	s.EmptyCellStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.CursorStyle = lipgloss.NewStyle().
		Background(s.colorBgSelection).
		Foreground(s.colorAccent).
		Bold(true)

	s.DropPreviewStyle = lipgloss.NewStyle().
		Background(s.colorAccent).
		Foreground(palette.TextOnAccent).
		Bold(true)

	s.DropInvalidStyle = lipgloss.NewStyle().
		Background(s.colorWarning).
		Foreground(palette.TextOnWarning).
		Bold(true)

	s.BenchTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg)

	s.BenchItemStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBg)

	s.BenchSelectedStyle = lipgloss.NewStyle().
		Foreground(s.colorFg).
		Background(s.colorBgSelection).
		Bold(true)

	s.BenchMetaStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.CreditsStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.CreditsDoneStyle = lipgloss.NewStyle().
		Foreground(palette.Success).
		Background(s.colorBg).
		Bold(true)

	s.ToastSuccessStyle = lipgloss.NewStyle().
		Foreground(palette.Success).
		Background(s.colorBgHighlight).
		Padding(0, 1)

	s.ToastErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(s.colorBgHighlight).
		Bold(true).
		Padding(0, 1)

	s.ToastInfoStyle = lipgloss.NewStyle().
		Foreground(palette.Info).
		Background(s.colorBgHighlight).
		Padding(0, 1)

	s.StatusStyle = lipgloss.NewStyle().
		Foreground(s.colorWarning).
		Background(s.colorBg).
		Bold(true)

	s.HelpStyle = lipgloss.NewStyle().
		Foreground(s.colorFgMuted).
		Background(s.colorBg)

	s.PromptStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorFgMuted).
		BorderBackground(s.colorBg).
		Background(s.colorBgHighlight).
		Foreground(s.colorFg).
		Padding(0, 1)

	s.PromptFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorAccent).
		BorderBackground(s.colorBg).
		Background(s.colorBgSelection).
		Foreground(s.colorFg).
		Bold(true).
		Padding(0, 1)

	// Modal styles - use high-contrast theme colors
	modal := palette.Modal
	s.ModalBgColor = modal.Bg

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(modal.Border).
		Background(modal.Bg).
		Foreground(modal.Text).
		Padding(1, 1).
		Width(64).
		Align(lipgloss.Left)

	s.ModalHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg).
		Padding(0, 1).
		Align(lipgloss.Center)

	s.ModalFooterStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Background(modal.Bg)

	s.ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalBodyStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Background(modal.Bg)

	s.ModalMetaStyle = lipgloss.NewStyle().
		Foreground(modal.Muted).
		Background(modal.Bg)

	s.ModalSectionTitleStyle = lipgloss.NewStyle().
		Foreground(modal.Text).
		Bold(true).
		Background(modal.Bg)

	s.ModalErrorStyle = lipgloss.NewStyle().
		Foreground(palette.Error).
		Background(modal.Bg)

	s.ModalButtonStyle = lipgloss.NewStyle().
		Background(modal.Panel).
		Foreground(modal.Text).
		Padding(0, 2)

	s.ModalButtonActiveStyle = lipgloss.NewStyle().
		Background(modal.Highlight).
		Foreground(modal.ReverseText).
		Padding(0, 2).
		Underline(true)

	s.BorderStyle = lipgloss.NewStyle().
		Foreground(s.colorAccent).
		Background(s.colorBg)

	// App container - padding provides consistent indentation for all content
	s.AppStyle = lipgloss.NewStyle().
		Background(s.colorBg).
		PaddingLeft(1).
		PaddingRight(1)

	return s
}

// EventStyle returns the block style for a course color token.
func (s *Styles) EventStyle(token string, selected bool) lipgloss.Style {
	shade := s.palette.Course(token)
	bg := shade.Bg
	if selected {
		bg = shade.BgAlt
	}
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(shade.Text).
		Bold(selected)
}

// DragOriginStyle renders the block that is currently being dragged.
func (s *Styles) DragOriginStyle(token string) lipgloss.Style {
	shade := s.palette.Course(token)
	return lipgloss.NewStyle().
		Background(shade.Muted).
		Foreground(s.colorFgMuted).
		Italic(true)
}

// Swatch renders a small color marker for a course token.
func (s *Styles) Swatch(token string) string {
	return lipgloss.NewStyle().
		Foreground(s.palette.Course(token).Fg).
		Background(s.colorBg).
		Render("█")
}

// ToastStyle returns the toast style for a severity.
func (s *Styles) ToastStyle(sev notify.Severity) lipgloss.Style {
	switch sev {
	case notify.SeveritySuccess:
		return s.ToastSuccessStyle
	case notify.SeverityError:
		return s.ToastErrorStyle
	default:
		return s.ToastInfoStyle
	}
}
