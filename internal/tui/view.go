package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/availability/internal/drag"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/tui/input"
	"github.com/javiermolinar/availability/internal/tui/view"
)

// View renders the TUI.
func (m Model) View() string {
	base := ""
	if m.width > 0 && m.height > 0 {
		base = m.renderAppContent()
	}
	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		BaseContent:      base,
		EmptyPlaceholder: "Loading...",
	})
}

func (m Model) renderAppContent() string {
	if m.layout.GridRows <= 0 || m.layout.GridWidth() > m.width {
		return "Terminal too small"
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(),
		view.RenderGrid(m.gridViewState()),
		view.RenderFooter(m.footerModel()),
	)
	return view.PadLinesWithBackground(content, m.width, m.height, m.styles.colorBg)
}

func (m Model) renderTitle() string {
	g := m.grid()
	title := m.styles.TitleStyle.Render(fmt.Sprintf("avail · %s · %d-min slots %s",
		m.session.Owner(), g.SlotMinutes, g.Window()))

	var flags []string
	switch {
	case m.loading:
		flags = append(flags, "[loading]")
	case m.saving:
		flags = append(flags, "[saving]")
	}
	if m.session.HasChanges() {
		flags = append(flags, "[modified]")
	}
	if len(flags) > 0 {
		title += m.styles.DirtyStyle.Render(" " + strings.Join(flags, " "))
	}
	return view.PlaceBox(m.width, titleLines, lipgloss.Top, ansi.Truncate(title, m.width, "…"), m.styles.colorBg)
}

func (m Model) gridViewState() view.GridViewState {
	g := m.grid()
	rows := max(min(m.layout.GridRows, g.SlotsPerDay()-m.scrollOffset), 0)

	dirty := make(map[grid.Day]bool)
	for _, d := range m.session.DirtyDays() {
		dirty[d] = true
	}
	headers := view.HeaderLabels(m.layout.ColW, grid.FromWeekday(m.nowFunc().Weekday()))
	headerStyles := make([]lipgloss.Style, len(headers))
	for d := range headers {
		headerStyles[d] = m.styles.DayHeaderStyle
		if dirty[grid.Day(d)] {
			headerStyles[d] = m.styles.DayDirtyStyle
		}
	}

	gesture, dragging := m.session.Gesture()
	content := view.GridContent{
		RowLabels:  make([]string, rows),
		Cells:      make([][]string, rows),
		CellStyles: make([][]lipgloss.Style, rows),
	}
	for row := range rows {
		slot := m.scrollOffset + row
		mins := g.BoundaryMinutes(slot)
		labelStyle := m.styles.TimeStyle
		if mins%60 == 0 {
			labelStyle = m.styles.TimeHourStyle
		}
		content.RowLabels[row] = labelStyle.Render(grid.FormatClock(mins))

		parity := (mins / 60) % 2
		content.Cells[row] = make([]string, grid.DaysPerWeek)
		content.CellStyles[row] = make([]lipgloss.Style, grid.DaysPerWeek)
		for d := range grid.DaysPerWeek {
			c := grid.Cell{Day: grid.Day(d), Slot: slot}
			content.CellStyles[row][d] = m.cellStyle(c, parity, gesture, dragging)
			if c == m.cursor {
				content.Cells[row][d] = centered("•", m.layout.ColW)
			}
		}
	}

	return view.GridViewState{
		Width:          m.width,
		Height:         headerLines + m.layout.GridRows,
		GutterW:        gutterWidth,
		ColW:           m.layout.ColW,
		Headers:        headers,
		HeaderStyles:   headerStyles,
		Content:        content,
		GutterStyle:    m.styles.TimeStyle,
		SeparatorStyle: m.styles.SeparatorStyle,
		Bg:             m.styles.colorBg,
	}
}

// cellStyle picks the fill for one cell. Cells under the gesture show what
// it will do; everything else shows the displayed selection.
func (m Model) cellStyle(c grid.Cell, parity int, gesture drag.Gesture, dragging bool) lipgloss.Style {
	displayed := m.session.Displayed(c)
	switch {
	case c == m.cursor && displayed:
		return m.styles.CursorActiveStyle
	case c == m.cursor:
		return m.styles.CursorStyle
	case dragging && m.session.Covered(c) && gesture.Mode == drag.ModeSelect:
		return m.styles.PaintStyle
	case dragging && m.session.Covered(c):
		return m.styles.EraseStyle
	case displayed:
		return m.styles.AvailableStyle[parity]
	default:
		return m.styles.EmptyStyle[parity]
	}
}

func (m Model) footerModel() view.FooterModel {
	promptLine := ""
	if m.mode == ModePrompt {
		promptLine = m.styles.PromptFocusStyle.Render(m.prompt.View())
	}
	statusStyle := m.styles.StatusStyle
	if m.statusErr {
		statusStyle = m.styles.ErrorStyle
	}
	return view.FooterModel{
		Width:       m.width,
		StatsLine:   m.renderStats(),
		PromptLine:  promptLine,
		StatusText:  m.statusText(),
		HelpText:    m.helpText(),
		StatusStyle: statusStyle,
		HelpStyle:   m.styles.HelpStyle,
		PromptStyle: m.styles.PromptStyle,
		Bg:          m.styles.colorBg,
	}
}

// renderStats summarizes the selection as it is displayed, gesture included.
func (m Model) renderStats() string {
	g := m.grid()
	week, day := 0, 0
	for d := range grid.DaysPerWeek {
		for slot := range g.SlotsPerDay() {
			if !m.session.Displayed(grid.Cell{Day: grid.Day(d), Slot: slot}) {
				continue
			}
			week += g.SlotMinutes
			if grid.Day(d) == m.cursor.Day {
				day += g.SlotMinutes
			}
		}
	}

	text := m.styles.StatsStyle.Render
	value := m.styles.StatsValueStyle.Render
	var b strings.Builder
	b.WriteString(text("Week: "))
	b.WriteString(value(view.FormatDuration(week)))
	b.WriteString(text(fmt.Sprintf(" · %s: ", m.cursor.Day.Short())))
	b.WriteString(value(view.FormatDuration(day)))
	b.WriteString(text(fmt.Sprintf(" · %d range(s)", len(m.session.Ranges()))))
	if n := len(m.session.DirtyDays()); n > 0 {
		b.WriteString(text(fmt.Sprintf(" · %d day(s) unsaved", n)))
	}
	if n := m.session.UndoCount(); n > 0 {
		b.WriteString(text(fmt.Sprintf(" · %d undo", n)))
	}
	return b.String()
}

func (m Model) statusText() string {
	if m.statusMsg != "" {
		return m.statusMsg
	}
	if m.mode == ModeConfirmQuit {
		return "Unsaved changes."
	}
	g := m.grid()
	if gesture, ok := m.session.Gesture(); ok {
		return fmt.Sprintf("%s %s → %s", gesture.Mode, g.ToWallClock(gesture.Anchor), g.ToWallClock(gesture.Current))
	}
	return g.ToWallClock(m.cursor).String()
}

func (m Model) helpText() string {
	switch m.mode {
	case ModePrompt:
		matches := input.PromptMatchingCommands(m.prompt.Value(), promptCommands)
		if len(matches) == 0 {
			return "enter run · tab complete · esc cancel"
		}
		parts := make([]string, len(matches))
		for i, c := range matches {
			parts[i] = c.Name + " " + c.Description
		}
		return strings.Join(parts, " · ")
	case ModeConfirmQuit:
		return "s save and quit · Q quit without saving · esc stay"
	}
	if m.drag == dragKeyboard {
		return "hjkl extend · space/v commit · esc cancel"
	}
	if m.showAll {
		return "D discard · X clear week · y copy JSON · r reload · esc cancel drag · pgup/pgdn scroll · ? less"
	}
	return "hjkl move · space toggle · v/drag select · u undo · s save · : command · ? more · q quit"
}

func centered(s string, width int) string {
	pad := max(width-ansi.StringWidth(s), 0)
	return strings.Repeat(" ", pad/2) + s
}
