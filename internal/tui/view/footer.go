package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterModel contains content and styles for rendering the footer.
type FooterModel struct {
	Width       int
	StatsLine   string // pre-styled
	PromptLine  string // pre-styled; empty shows the placeholder
	StatusText  string
	HelpText    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
	PromptStyle lipgloss.Style
	Bg          lipgloss.Color
}

// FooterHeight is the number of lines RenderFooter produces.
const FooterHeight = 4

// RenderFooter renders stats, prompt, status and help lines.
func RenderFooter(model FooterModel) string {
	prompt := model.PromptLine
	if prompt == "" {
		prompt = " "
	}
	lines := []string{
		clip(model.StatsLine, model.Width),
		footerLine(model.Width, model.PromptStyle, prompt),
		footerLine(model.Width, model.StatusStyle, model.StatusText),
		footerLine(model.Width, model.HelpStyle, model.HelpText),
	}
	return PlaceBox(model.Width, FooterHeight, lipgloss.Bottom, strings.Join(lines, "\n"), model.Bg)
}

func footerLine(width int, style lipgloss.Style, content string) string {
	frameW, _ := style.GetFrameSize()
	contentWidth := max(width-frameW, 0)
	style = style.Width(contentWidth)
	if contentWidth > 0 {
		content = ansi.Truncate(content, contentWidth, "")
	}
	return style.Render(content)
}

func clip(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "…")
}
