package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/availability/internal/grid"
)

// handleMouseMsg drives drag gestures from the mouse. Press starts a
// gesture on the cell under the pointer, motion extends it, and release
// commits it. Releasing off the grid abandons the gesture, which also
// commits.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.loading || m.saving || !m.session.Loaded() {
		return m, nil
	}
	cell, onGrid := m.layout.CellAt(msg.X, msg.Y, m.scrollOffset, m.grid())

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			if !onGrid {
				return m, nil
			}
			if err := m.session.PointerDown(cell); err != nil {
				return m.withError(err)
			}
			m.drag = dragMouse
			m.cursor = cell
		case tea.MouseButtonWheelUp:
			m.scroll(-1)
		case tea.MouseButtonWheelDown:
			m.scroll(1)
		}

	case tea.MouseActionMotion:
		if m.drag != dragMouse || !onGrid {
			return m, nil
		}
		if err := m.enterPath(cell); err != nil {
			return m.withError(err)
		}

	case tea.MouseActionRelease:
		if m.drag != dragMouse {
			return m, nil
		}
		m.drag = dragNone
		if onGrid {
			m.session.PointerUp()
		} else {
			m.session.Abandon()
		}
	}
	return m, nil
}

// scroll moves the viewport without moving the cursor off screen.
func (m *Model) scroll(delta int) {
	slots := m.grid().SlotsPerDay()
	maxScroll := max(slots-max(m.layout.GridRows, 1), 0)
	m.scrollOffset = min(max(m.scrollOffset+delta, 0), maxScroll)
	last := m.scrollOffset + max(m.layout.GridRows, 1) - 1
	m.cursor.Slot = min(max(m.cursor.Slot, m.scrollOffset), min(last, slots-1))
}

// enterPath extends the gesture through every cell between the cursor and
// c. Terminals drop motion events when the pointer moves fast.
func (m *Model) enterPath(c grid.Cell) error {
	for m.cursor != c {
		m.cursor = stepToward(m.cursor, c)
		if err := m.session.PointerEnter(m.cursor); err != nil {
			return err
		}
	}
	return nil
}

func stepToward(a, b grid.Cell) grid.Cell {
	switch {
	case a.Day < b.Day:
		a.Day++
	case a.Day > b.Day:
		a.Day--
	}
	switch {
	case a.Slot < b.Slot:
		a.Slot++
	case a.Slot > b.Slot:
		a.Slot--
	}
	return a
}
