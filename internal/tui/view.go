package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/uniflow/internal/dateutil"
	"github.com/javiermolinar/uniflow/internal/planner"
	"github.com/javiermolinar/uniflow/internal/schedule"
	"github.com/javiermolinar/uniflow/internal/summary"
	"github.com/javiermolinar/uniflow/internal/tui/input"
	"github.com/javiermolinar/uniflow/internal/tui/view"
)

const (
	maxToasts       = 3
	maxPromptLines  = 4
	gridChromeLines = 4 // top border, header, header rule, bottom border
)

// View renders the TUI using a boxed, parent-controlled layout.
func (m Model) View() string {
	return view.Render(m.viewState())
}

func (m Model) viewState() view.ViewState {
	showModal := m.mode == ModeModal || m.mode == ModeConfirm ||
		(m.mode == ModeNormal && m.planner.State().ShowNotifications)
	modal := ""
	if showModal {
		modal = m.renderModal()
	}

	return view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      m.renderAppContent(),
		ModalContent:     modal,
		ShowModal:        showModal,
		ModalBg:          m.styles.ModalBgColor,
		EmptyPlaceholder: "Loading...",
	}
}

func (m Model) renderAppContent() string {
	innerW := m.width - 2
	if innerW < 40 || m.height < 12 {
		return "Terminal too small"
	}

	header := m.renderHeader(innerW)
	footer := m.renderFooter(innerW)
	bodyH := m.height - lipgloss.Height(header) - lipgloss.Height(footer)

	var body string
	switch m.planner.State().View {
	case planner.ViewCourses:
		body = m.renderCatalog(innerW, bodyH)
	case planner.ViewSettings:
		body = m.renderSettings(innerW, bodyH)
	default:
		body = m.renderSchedule(innerW, bodyH)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	app := m.styles.AppStyle.Render(content)
	return view.PadLinesWithBackground(app, m.width, m.height, m.styles.colorBg)
}

// renderHeader draws the title, the view tabs, the credit counter and the clock.
func (m Model) renderHeader(width int) string {
	state := m.planner.State()
	tabs := []struct {
		key  string
		name string
		view planner.View
	}{
		{"1", "Schedule", planner.ViewSchedule},
		{"2", "Courses", planner.ViewCourses},
		{"3", "Settings", planner.ViewSettings},
	}

	left := m.styles.TitleStyle.Render("uniflow") + m.bgText(" ")
	for _, t := range tabs {
		style := m.styles.TabStyle
		if state.View == t.view {
			style = m.styles.TabActiveStyle
		}
		left += style.Render(t.key + " " + t.name)
	}

	credits, goal := m.planner.TotalCredits(), m.planner.CreditGoal()
	creditStyle := m.styles.CreditsStyle
	if credits >= goal {
		creditStyle = m.styles.CreditsDoneStyle
	}
	right := creditStyle.Render(fmt.Sprintf("%d/%d credits", credits, goal))
	if n := m.planner.Notifications().Len(); n > 0 {
		right += m.bgText("  ") + m.styles.StatusStyle.Render("● "+strconv.Itoa(n))
	}
	right += m.bgText("  ") + m.styles.ClockStyle.Render(m.clockTime().Format("15:04"))

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		return view.FitWidth(left, width)
	}
	return left + m.bgText(strings.Repeat(" ", gap)) + right
}

func (m Model) renderSchedule(width, height int) string {
	if !m.planner.State().SidebarOpen {
		return m.renderGrid(width, height)
	}
	grid := m.renderGrid(width-benchWidth, height)
	return lipgloss.JoinHorizontal(lipgloss.Top, grid, m.renderBench(benchWidth, height))
}

// renderGrid draws the visible hour rows of the week, scrolled so the cursor
// row is on screen.
func (m Model) renderGrid(width, height int) string {
	days := len(schedule.Days)
	colWidth := max((width-timeColWidth-2-days)/days, minColWidth)
	hours := m.hours()
	visible := max((height-gridChromeLines)/rowLines, 1)
	first := max(0, m.cursor.Row-visible+1)
	last := min(first+visible, len(hours))

	labels, todayCol := view.HeaderLabels(m.clockTime())
	headers := make([]string, len(labels))
	headerStyles := make([]lipgloss.Style, len(labels))
	headers[0] = view.FitWidth(labels[0], timeColWidth)
	headerStyles[0] = m.styles.TimeColumnStyle
	for i := 1; i < len(labels); i++ {
		headers[i] = view.Center(labels[i], colWidth)
		headerStyles[i] = m.styles.DayHeaderStyle
		if i == todayCol {
			headerStyles[i] = m.styles.DayHeaderTodayStyle
		}
	}

	byDay := make(map[schedule.Day][]schedule.Event, days)
	for _, d := range schedule.Days {
		byDay[d] = m.planner.Store().ByDay(d)
	}

	nowRow := -1
	if todayCol > 0 {
		nowRow = m.rowOf(dateutil.HourOf(m.clockTime()))
	}
	showCursor := m.focus == FocusGrid || m.mode == ModeDrag

	rows := make([][]string, 0, last-first)
	cellStyles := make([][]lipgloss.Style, 0, last-first)
	for r := first; r < last; r++ {
		row := []string{m.timeLabel(hours[r], r == nowRow)}
		styles := []lipgloss.Style{lipgloss.NewStyle()}
		for d, day := range schedule.Days {
			cursor := showCursor && r == m.cursor.Row && d == m.cursor.Day
			row = append(row, m.renderCell(byDay[day], hours[r], colWidth, cursor))
			styles = append(styles, lipgloss.NewStyle())
		}
		rows = append(rows, row)
		cellStyles = append(cellStyles, styles)
	}

	return view.RenderTable(view.TableViewState{
		InnerW:       width,
		GridH:        height,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content: view.TableContent{
			Rows:       rows,
			CellStyles: cellStyles,
		},
		BorderStyle: m.styles.BorderStyle,
		VAlign:      lipgloss.Top,
		Bg:          m.styles.colorBg,
		Render:      true,
	})
}

// timeLabel renders the time column of one row. The row holding the current
// time shows a marker with the exact minute.
func (m Model) timeLabel(hour int, now bool) string {
	top := m.styles.TimeColumnStyle.Render(view.FitWidth(dateutil.ClockHour(float64(hour)), timeColWidth))
	if !now {
		return top + "\n" + m.styles.TimeColumnStyle.Render(strings.Repeat(" ", timeColWidth))
	}
	marker := "▸" + m.clockTime().Format("15:04")
	return top + "\n" + m.styles.TimeColumnNowStyle.Render(view.FitWidth(marker, timeColWidth))
}

func (m Model) renderBench(width, height int) string {
	state := m.planner.State()
	courses := m.planner.FilteredCourses()
	items := make([]view.BenchItem, len(courses))
	for i, c := range courses {
		items[i] = view.BenchItem{
			Swatch:   m.styles.Swatch(c.Color),
			Code:     c.Code,
			Name:     c.Name,
			Meta:     fmt.Sprintf("%d cr · %s · %s", c.Credits, summary.FormatHours(c.Duration), c.Professor),
			Selected: m.focus == FocusBench && i == m.bench,
		}
	}
	return view.RenderBench(view.BenchViewState{
		Width:         width,
		Height:        height,
		Title:         "Courses",
		Search:        state.Search,
		Items:         items,
		Credits:       m.renderCredits(),
		TitleStyle:    m.styles.BenchTitleStyle,
		ItemStyle:     m.styles.BenchItemStyle,
		SelectedStyle: m.styles.BenchSelectedStyle,
		MetaStyle:     m.styles.BenchMetaStyle,
		Bg:            m.styles.colorBg,
	})
}

func (m Model) renderCredits() string {
	credits, goal := m.planner.TotalCredits(), m.planner.CreditGoal()
	if credits >= goal {
		return m.styles.CreditsDoneStyle.Render(fmt.Sprintf("Credits %d/%d, goal reached", credits, goal))
	}
	return m.styles.CreditsStyle.Render(fmt.Sprintf("Credits %d/%d, %d to go", credits, goal, goal-credits))
}

// renderCatalog is the full course list with descriptions.
func (m Model) renderCatalog(width, height int) string {
	state := m.planner.State()
	courses := m.planner.FilteredCourses()

	lines := []string{m.styles.BenchTitleStyle.Render("Course catalog")}
	if state.Search != "" {
		lines = append(lines, m.styles.BenchMetaStyle.Render("Filter: "+state.Search))
	}
	lines = append(lines, "")
	if len(courses) == 0 {
		lines = append(lines, m.styles.BenchMetaStyle.Render("No courses match your search."))
	}
	for i, c := range courses {
		style := m.styles.BenchItemStyle
		if i == m.bench {
			style = m.styles.BenchSelectedStyle
		}
		lines = append(lines,
			m.styles.Swatch(c.Color)+style.Render(view.FitWidth(" "+c.Code+"  "+c.Name, width-2)),
			m.styles.BenchMetaStyle.Render(view.FitWidth(fmt.Sprintf("  %s · %d credits · %s", c.Professor, c.Credits, summary.FormatHours(c.Duration)), width)),
			m.styles.BenchMetaStyle.Render(view.FitWidth("  "+c.Description, width)),
			"",
		)
	}
	return view.PlaceBox(width, height, lipgloss.Top, strings.Join(lines, "\n"), m.styles.colorBg)
}

// renderSettings shows the active configuration.
func (m Model) renderSettings(width, height int) string {
	cfg := m.config
	preferred := make([]string, len(cfg.Schedule.PreferredHours))
	for i, h := range cfg.Schedule.PreferredHours {
		preferred[i] = dateutil.ClockHour(h)
	}

	rows := [][2]string{
		{"Theme", m.theme.Name + "  (t to switch)"},
		{"Teaching hours", dateutil.ClockHour(m.planner.OpenHour()) + "-" + dateutil.ClockHour(m.planner.CloseHour())},
		{"Preferred hours", strings.Join(preferred, " ")},
		{"Credit goal", strconv.Itoa(m.planner.CreditGoal())},
		{"Notifications", fmt.Sprintf("%d visible, %s each", cfg.Notifications.MaxVisible, m.ttl)},
		{"Advisor", cfg.LLM.Provider + " " + cfg.LLM.Model},
		{"Database", cfg.Storage.DBPath},
		{"Storage key", cfg.Storage.Key},
	}

	lines := []string{m.styles.BenchTitleStyle.Render("Settings"), ""}
	for _, r := range rows {
		lines = append(lines, m.styles.BenchMetaStyle.Render(view.FitWidth(r[0], 18))+m.styles.BenchItemStyle.Render(r[1]))
	}
	return view.PlaceBox(width, height, lipgloss.Top, strings.Join(lines, "\n"), m.styles.colorBg)
}

func (m Model) renderFooter(width int) string {
	items := m.planner.Notifications().Items()
	toasts := make([]view.Toast, 0, maxToasts)
	for _, n := range items[:min(len(items), maxToasts)] {
		toasts = append(toasts, view.Toast{Text: n.Message, Style: m.styles.ToastStyle(n.Severity)})
	}
	toastLine := view.RenderToasts(toasts, width, m.styles.HelpStyle)
	if toastLine == "" {
		toastLine = " "
	}

	promptBox := ""
	switch m.mode {
	case ModePrompt:
		promptBox = m.renderPromptBox(width, m.styles.PromptFocusedStyle, "> ", m.prompt.Value(), true)
	case ModeSearch:
		promptBox = m.renderPromptBox(width, m.styles.PromptStyle, "/ ", m.search.Value(), false)
	}

	status := " "
	if m.statusMsg != "" {
		status = m.styles.StatusStyle.Render(view.FitWidth(m.statusMsg, width))
	}

	footer := view.FooterViewState{
		InnerW:     width,
		ToastLine:  toastLine,
		PromptBox:  promptBox,
		StatusLine: status,
		HelpLine:   m.styles.HelpStyle.Render(view.FitWidth(m.helpText(), width)),
		VAlign:     lipgloss.Bottom,
		Bg:         m.styles.colorBg,
	}
	footer.FooterH = 3
	if promptBox != "" {
		footer.FooterH += lipgloss.Height(promptBox)
	}
	return view.RenderFooter(footer)
}

func (m Model) renderPromptBox(width int, style lipgloss.Style, prefix, value string, suggestions bool) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := width - frameW
	lines := view.PromptLines(view.PromptState{
		Prefix:      prefix,
		Value:       value,
		Cursor:      "█",
		Suggestions: suggestions,
	}, contentWidth, input.Commands)
	lines = view.ClampPromptLines(lines, maxPromptLines, contentWidth)
	return view.RenderPrompt(width, style, lines)
}

func (m Model) helpText() string {
	state := m.planner.State()
	switch m.mode {
	case ModeDrag:
		return "hjkl move · enter drop · esc cancel"
	case ModeSearch:
		return "type to filter · enter keep · esc clear"
	case ModePrompt:
		return "tab complete · enter run · esc cancel"
	case ModeConfirm:
		return "y clear · n cancel"
	case ModeModal:
		return "esc close"
	}
	if state.ShowNotifications {
		return "jk select · x dismiss · c clear all · n close"
	}
	switch state.View {
	case planner.ViewCourses:
		return "jk select · enter place · / search · 1 schedule · 3 settings · q quit"
	case planner.ViewSettings:
		return "t theme · 1 schedule · 2 courses · q quit"
	}
	if m.focus == FocusBench {
		return "jk select · enter pick up · tab grid · / search · b hide · q quit"
	}
	return "hjkl move · enter pick up · o cycle · s study · x delete · C clear · / search · : command · y copy · n notes · q quit"
}

// renderModal renders the confirmation, advice, summary or notification box.
func (m Model) renderModal() string {
	styles := m.modalStyles()

	switch {
	case m.mode == ModeConfirm:
		n := m.planner.Store().Len()
		body := styles.ModalBodyStyle.Render(fmt.Sprintf("Remove all %d events from the week?", n))
		return view.RenderModalFrame("Clear schedule", body, view.RenderModalButtons(styles, "y Clear", "n Cancel"), styles)

	case m.mode == ModeModal:
		return view.RenderModalFrame(m.modalTitle, view.RenderModalBody(m.modalLines, styles),
			view.RenderModalButtons(styles, m.modalButtons...), styles)
	}

	items := m.planner.Notifications().Items()
	toasts := make([]view.Toast, len(items))
	for i, n := range items {
		toasts[i] = view.Toast{Text: n.Message, Style: m.styles.ToastStyle(n.Severity)}
	}
	lines := view.NotificationList(toasts, m.notifySel, styles.ModalTitleStyle, m.styles.ModalStyle.GetWidth()-4)
	body := styles.ModalBodyStyle.Render(strings.Join(lines, "\n"))
	return view.RenderModalFrame("Notifications", body, view.RenderModalButtons(styles, "x Dismiss", "c Clear", "n Close"), styles)
}

func (m Model) modalStyles() view.ModalStyles {
	return view.ModalStyles{
		ModalHeaderStyle:       m.styles.ModalHeaderStyle,
		ModalTitleStyle:        m.styles.ModalTitleStyle,
		ModalFooterStyle:       m.styles.ModalFooterStyle,
		ModalStyle:             m.styles.ModalStyle,
		ModalButtonStyle:       m.styles.ModalButtonStyle,
		ModalButtonActiveStyle: m.styles.ModalButtonActiveStyle,
		ModalBodyStyle:         m.styles.ModalBodyStyle,
		ModalSectionTitleStyle: m.styles.ModalSectionTitleStyle,
		ModalMetaStyle:         m.styles.ModalMetaStyle,
		ModalErrorStyle:        m.styles.ModalErrorStyle,
	}
}

func (m Model) bgText(s string) string {
	return lipgloss.NewStyle().Background(m.styles.colorBg).Render(s)
}
