package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// GridContent holds the visible slot rows.
type GridContent struct {
	RowLabels  []string           // one per row, shown in the gutter
	Cells      [][]string         // [row][day]
	CellStyles [][]lipgloss.Style // [row][day]
}

// GridViewState holds data needed to render the week grid. Columns have
// a fixed width so pointer positions map back to cells.
type GridViewState struct {
	Width          int
	Height         int
	GutterW        int
	ColW           int
	Headers        []string
	HeaderStyles   []lipgloss.Style
	Content        GridContent
	GutterStyle    lipgloss.Style
	SeparatorStyle lipgloss.Style
	Bg             lipgloss.Color
}

// Separator is drawn before every day column and after the last one.
const Separator = "│"

// RenderGrid renders the header row followed by one line per slot row.
func RenderGrid(state GridViewState) string {
	if state.Height <= 0 || state.ColW <= 0 {
		return ""
	}
	sep := state.SeparatorStyle.Render(Separator)

	lines := make([]string, 0, len(state.Content.Cells)+1)
	var b strings.Builder
	b.WriteString(state.GutterStyle.Width(state.GutterW).Render(""))
	for i, h := range state.Headers {
		style := lipgloss.NewStyle()
		if i < len(state.HeaderStyles) {
			style = state.HeaderStyles[i]
		}
		b.WriteString(sep)
		b.WriteString(fixed(style, state.ColW, h))
	}
	b.WriteString(sep)
	lines = append(lines, b.String())

	for row, cells := range state.Content.Cells {
		b.Reset()
		label := ""
		if row < len(state.Content.RowLabels) {
			label = state.Content.RowLabels[row]
		}
		b.WriteString(fixed(state.GutterStyle, state.GutterW, label))
		for col, content := range cells {
			b.WriteString(sep)
			b.WriteString(fixed(state.Content.CellStyles[row][col], state.ColW, content))
		}
		b.WriteString(sep)
		lines = append(lines, b.String())
	}

	return PlaceBox(state.Width, state.Height, lipgloss.Top, strings.Join(lines, "\n"), state.Bg)
}

// fixed renders content in exactly width cells. lipgloss wraps long
// content instead of cutting it, so truncate first.
func fixed(style lipgloss.Style, width int, content string) string {
	return style.Width(width).MaxWidth(width).Render(ansi.Truncate(content, width, ""))
}
