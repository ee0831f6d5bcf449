package availability

import (
	"cmp"
	"slices"

	"github.com/javiermolinar/availability/internal/grid"
)

// Selection is a set of grid cells marked available.
// The zero value and a nil *Selection are both empty.
type Selection struct {
	cells map[grid.Cell]struct{}
}

// NewSelection creates an empty selection.
func NewSelection() *Selection {
	return &Selection{cells: make(map[grid.Cell]struct{})}
}

// SelectionOf creates a selection from cells. Duplicates collapse.
func SelectionOf(cells ...grid.Cell) (*Selection, error) {
	s := NewSelection()
	for _, c := range cells {
		if err := s.Add(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Has reports whether c is selected.
func (s *Selection) Has(c grid.Cell) bool {
	if s == nil {
		return false
	}
	_, ok := s.cells[c]
	return ok
}

// Add marks c as selected. Cells with an invalid day or a negative slot are
// rejected; bounds against a particular grid are checked by grid.Config.
func (s *Selection) Add(c grid.Cell) error {
	if !c.Day.Valid() {
		return grid.Invalid("cell day", int(c.Day), "must be 0-6")
	}
	if c.Slot < 0 {
		return grid.Invalid("cell slot", c.Slot, "must not be negative")
	}
	if s.cells == nil {
		s.cells = make(map[grid.Cell]struct{})
	}
	s.cells[c] = struct{}{}
	return nil
}

// Remove unmarks c. Removing an unselected cell is a no-op.
func (s *Selection) Remove(c grid.Cell) {
	if s == nil {
		return
	}
	delete(s.cells, c)
}

// Set selects or deselects c.
func (s *Selection) Set(c grid.Cell, on bool) error {
	if on {
		return s.Add(c)
	}
	s.Remove(c)
	return nil
}

// Len returns the number of selected cells.
func (s *Selection) Len() int {
	if s == nil {
		return 0
	}
	return len(s.cells)
}

// Cells returns the selected cells ordered by day, then slot.
func (s *Selection) Cells() []grid.Cell {
	if s == nil {
		return nil
	}
	out := make([]grid.Cell, 0, len(s.cells))
	for c := range s.cells {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

// Days returns the days with at least one selected cell, in order.
func (s *Selection) Days() []grid.Day {
	var seen [grid.DaysPerWeek]bool
	for c := range s.all() {
		seen[c.Day] = true
	}
	var days []grid.Day
	for d, ok := range seen {
		if ok {
			days = append(days, grid.Day(d))
		}
	}
	return days
}

// Minutes returns the total selected time on the given grid.
func (s *Selection) Minutes(cfg grid.Config) int {
	return s.Len() * cfg.SlotMinutes
}

// Clone returns an independent copy.
func (s *Selection) Clone() *Selection {
	out := &Selection{cells: make(map[grid.Cell]struct{}, s.Len())}
	for c := range s.all() {
		out.cells[c] = struct{}{}
	}
	return out
}

// Equal reports set equality.
func (s *Selection) Equal(other *Selection) bool {
	if s.Len() != other.Len() {
		return false
	}
	for c := range s.all() {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

func (s *Selection) all() map[grid.Cell]struct{} {
	if s == nil {
		return nil
	}
	return s.cells
}

func compareCells(a, b grid.Cell) int {
	if c := cmp.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	return cmp.Compare(a.Slot, b.Slot)
}
