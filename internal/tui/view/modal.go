package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ModalStyles groups the styles needed to render modal frames and buttons.
type ModalStyles struct {
	ModalHeaderStyle       lipgloss.Style
	ModalTitleStyle        lipgloss.Style
	ModalFooterStyle       lipgloss.Style
	ModalStyle             lipgloss.Style
	ModalButtonStyle       lipgloss.Style
	ModalButtonActiveStyle lipgloss.Style
	ModalBodyStyle         lipgloss.Style
	ModalSectionTitleStyle lipgloss.Style
	ModalMetaStyle         lipgloss.Style
	ModalErrorStyle        lipgloss.Style
}

// RenderModalFrame renders a modal with the provided title, body, and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	var b strings.Builder

	header := styles.ModalHeaderStyle.Render(styles.ModalTitleStyle.Render(title))
	b.WriteString(header)
	if body != "" {
		b.WriteString("\n\n")
		b.WriteString(body)
	}
	if footer != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.ModalFooterStyle.Render(footer))
	}

	return styles.ModalStyle.Render(b.String())
}

// RenderModalBody styles plain body lines. Lines starting with "# " become
// section titles, "~ " marks muted metadata and "! " marks problems.
func RenderModalBody(lines []string, styles ModalStyles) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			out[i] = styles.ModalSectionTitleStyle.Render(title)
			continue
		}
		if meta, ok := strings.CutPrefix(line, "~ "); ok {
			out[i] = styles.ModalMetaStyle.Render(meta)
			continue
		}
		if problem, ok := strings.CutPrefix(line, "! "); ok {
			out[i] = styles.ModalErrorStyle.Render("  " + problem)
			continue
		}
		out[i] = styles.ModalBodyStyle.Render(line)
	}
	return strings.Join(out, "\n")
}

// RenderModalButtons renders a row of modal buttons with the first one active.
func RenderModalButtons(styles ModalStyles, labels ...string) string {
	parts := make([]string, 0, len(labels))
	for i, label := range labels {
		style := styles.ModalButtonStyle
		if i == 0 {
			style = styles.ModalButtonActiveStyle
		}
		parts = append(parts, style.Render(label))
	}
	sep := styles.ModalBodyStyle.Render(" ")
	return strings.Join(parts, sep)
}
