// Package tui provides the terminal editor for weekly availability.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/availability/internal/tui/theme"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	colorBg lipgloss.Color

	TitleStyle     lipgloss.Style
	DirtyStyle     lipgloss.Style
	DayHeaderStyle lipgloss.Style
	DayDirtyStyle  lipgloss.Style // day with unsaved changes
	TimeStyle      lipgloss.Style
	TimeHourStyle  lipgloss.Style // slot starting on the hour
	SeparatorStyle lipgloss.Style

	// Cell fills, indexed by hour parity where it matters
	EmptyStyle        [2]lipgloss.Style
	AvailableStyle    [2]lipgloss.Style
	PaintStyle        lipgloss.Style // gesture adds this cell
	EraseStyle        lipgloss.Style // gesture removes this cell
	CursorStyle       lipgloss.Style
	CursorActiveStyle lipgloss.Style // cursor over an available cell

	StatsStyle       lipgloss.Style
	StatsValueStyle  lipgloss.Style
	PromptStyle      lipgloss.Style
	PromptFocusStyle lipgloss.Style
	StatusStyle      lipgloss.Style
	ErrorStyle       lipgloss.Style
	HelpStyle        lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{colorBg: p.Bg}

	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	s.TitleStyle = base.Foreground(p.Accent).Bold(true)
	s.DirtyStyle = base.Foreground(p.Warning).Bold(true)

	s.DayHeaderStyle = base.Bold(true).Align(lipgloss.Center)
	s.DayDirtyStyle = s.DayHeaderStyle.Foreground(p.Warning)

	s.TimeStyle = base.Foreground(p.FgMuted)
	s.TimeHourStyle = base.Foreground(p.Accent)
	s.SeparatorStyle = base.Foreground(p.BgSelection)

	s.EmptyStyle = [2]lipgloss.Style{
		lipgloss.NewStyle().Background(p.EmptyBg).Foreground(p.FgMuted),
		lipgloss.NewStyle().Background(p.EmptyBgAlt).Foreground(p.FgMuted),
	}
	s.AvailableStyle = [2]lipgloss.Style{
		lipgloss.NewStyle().Background(p.AvailableBg).Foreground(p.TextOnAvailable),
		lipgloss.NewStyle().Background(p.AvailableBgAlt).Foreground(p.TextOnAvailable),
	}
	s.PaintStyle = lipgloss.NewStyle().Background(p.PaintBg).Foreground(p.TextOnPaint).Bold(true)
	s.EraseStyle = lipgloss.NewStyle().Background(p.EraseBg).Foreground(p.TextOnErase)
	s.CursorStyle = lipgloss.NewStyle().Background(p.Cursor).Foreground(p.TextOnCursor).Bold(true)
	s.CursorActiveStyle = s.CursorStyle.Underline(true)

	s.StatsStyle = base
	s.StatsValueStyle = base.Foreground(p.Available).Bold(true)
	s.PromptStyle = base.Foreground(p.FgMuted)
	s.PromptFocusStyle = base.Foreground(p.Fg)
	s.StatusStyle = base.Foreground(p.Accent)
	s.ErrorStyle = base.Foreground(p.Erase).Bold(true)
	s.HelpStyle = base.Foreground(p.FgMuted)

	return s
}
