package tui

import (
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/tui/view"
)

const (
	gutterWidth = 6 // "08:00 "
	titleLines  = 1
	headerLines = 1
	minColWidth = 3
	maxColWidth = 14
)

// Layout is the screen geometry for one terminal size. Every day column
// is ColW cells wide and preceded by a one-cell separator.
type Layout struct {
	Width    int
	Height   int
	ColW     int
	GridTop  int // screen row of the first slot row
	GridRows int // slot rows that fit on screen
}

// NewLayout computes the geometry for a terminal of the given size.
func NewLayout(width, height int) Layout {
	colW := (width - gutterWidth - 1) / grid.DaysPerWeek
	colW-- // separator
	colW = min(max(colW, minColWidth), maxColWidth)

	rows := max(height-titleLines-headerLines-view.FooterHeight, 0)
	return Layout{
		Width:    width,
		Height:   height,
		ColW:     colW,
		GridTop:  titleLines + headerLines,
		GridRows: rows,
	}
}

// GridWidth is the rendered width of the gutter, columns and separators.
func (l Layout) GridWidth() int {
	return gutterWidth + grid.DaysPerWeek*(l.ColW+1) + 1
}

// CellAt maps a screen position to a grid cell. A separator belongs to the
// column on its right. Positions on the gutter, the header, the footer or
// past the last slot are off the grid.
func (l Layout) CellAt(x, y, scroll int, cfg grid.Config) (grid.Cell, bool) {
	row := y - l.GridTop
	if row < 0 || row >= l.GridRows {
		return grid.Cell{}, false
	}
	slot := scroll + row
	if slot >= cfg.SlotsPerDay() {
		return grid.Cell{}, false
	}
	col := x - gutterWidth
	if col < 0 {
		return grid.Cell{}, false
	}
	day := col / (l.ColW + 1)
	if day >= grid.DaysPerWeek {
		return grid.Cell{}, false
	}
	return grid.Cell{Day: grid.Day(day), Slot: slot}, true
}

// clampScroll keeps slot visible and the viewport inside the grid.
func (l Layout) clampScroll(scroll, slot, slotsPerDay int) int {
	visible := max(l.GridRows, 1)
	if slot < scroll {
		scroll = slot
	}
	if slot >= scroll+visible {
		scroll = slot - visible + 1
	}
	maxScroll := max(slotsPerDay-visible, 0)
	return min(max(scroll, 0), maxScroll)
}
