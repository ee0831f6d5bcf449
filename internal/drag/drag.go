// Package drag implements the pointer-drag state machine used to paint or
// erase availability on the grid.
//
// A gesture starts on pointer-down. Its mode is fixed by the anchor cell: a
// selected anchor erases, an unselected one paints. Every cell the gesture
// covers is forced to the mode's target state relative to the selection as
// it was when the gesture started, so crossing a cell twice never toggles it
// back. Pointer-up and abandonment both commit.
package drag

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/grid"
)

// Mode is the direction of a gesture.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDeselect
)

func (m Mode) String() string {
	if m == ModeDeselect {
		return "deselect"
	}
	return "select"
}

// target returns the membership the mode drives cells to.
func (m Mode) target() bool {
	return m == ModeSelect
}

// Shape decides which cells a gesture covers.
type Shape int

const (
	// ShapePath covers every cell the pointer entered.
	ShapePath Shape = iota
	// ShapeRectangle covers the box spanned by the anchor and current cell.
	ShapeRectangle
)

func (s Shape) String() string {
	if s == ShapeRectangle {
		return "rectangle"
	}
	return "path"
}

// ParseShape parses "path" or "rectangle".
func ParseShape(s string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "path":
		return ShapePath, nil
	case "rectangle", "rect":
		return ShapeRectangle, nil
	default:
		return ShapePath, grid.Invalid("selection shape", s, "must be 'path' or 'rectangle'")
	}
}

// State is the machine state.
type State int

const (
	StateIdle State = iota
	StateDragging
)

func (s State) String() string {
	if s == StateDragging {
		return "dragging"
	}
	return "idle"
}

// Gesture is a snapshot of the drag in progress.
type Gesture struct {
	Anchor  grid.Cell
	Current grid.Cell
	Mode    Mode
	Active  bool
}

func (g Gesture) String() string {
	return fmt.Sprintf("%s %v->%v", g.Mode, g.Anchor, g.Current)
}

// Machine owns the committed selection of one editor and at most one
// active gesture. It is not safe for concurrent use; pointer events are
// expected to arrive serialized from a single event loop.
type Machine struct {
	grid  grid.Config
	shape Shape

	committed *availability.Selection

	// Only meaningful while dragging.
	gesture Gesture
	covered map[grid.Cell]struct{}
	working *availability.Selection
}

// Option configures a Machine.
type Option func(*Machine)

// WithShape sets how gestures cover cells. Defaults to ShapePath.
func WithShape(s Shape) Option {
	return func(m *Machine) {
		m.shape = s
	}
}

// New creates an idle machine over a copy of initial.
func New(cfg grid.Config, initial *availability.Selection, opts ...Option) *Machine {
	m := &Machine{
		grid:      cfg,
		committed: initial.Clone(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the grid the machine validates cells against.
func (m *Machine) Config() grid.Config {
	return m.grid
}

// Shape returns the gesture shape.
func (m *Machine) Shape() Shape {
	return m.shape
}

// State returns StateDragging while a gesture is active.
func (m *Machine) State() State {
	if m.gesture.Active {
		return StateDragging
	}
	return StateIdle
}

// Gesture returns the active gesture, if any.
func (m *Machine) Gesture() (Gesture, bool) {
	return m.gesture, m.gesture.Active
}

// Selection returns a copy of the committed selection. It does not include
// the effect of a gesture still in progress.
func (m *Machine) Selection() *availability.Selection {
	return m.committed.Clone()
}

// Reset replaces the committed selection wholesale, dropping any active
// gesture. Used when the underlying data is reloaded.
func (m *Machine) Reset(sel *availability.Selection) {
	m.committed = sel.Clone()
	m.clearGesture()
}

// OnPointerDown starts a gesture at c. If a gesture is already active it is
// committed first. An off-grid cell is rejected and leaves the machine as it
// was.
func (m *Machine) OnPointerDown(c grid.Cell) error {
	if err := m.grid.CheckCell(c); err != nil {
		return err
	}
	if m.gesture.Active {
		m.commit()
	}

	mode := ModeSelect
	if m.committed.Has(c) {
		mode = ModeDeselect
	}
	m.gesture = Gesture{Anchor: c, Current: c, Mode: mode, Active: true}
	m.covered = map[grid.Cell]struct{}{c: {}}
	m.working = m.committed.Clone()
	m.apply(c)
	return nil
}

// OnPointerEnter extends the active gesture to c. It is ignored while idle.
func (m *Machine) OnPointerEnter(c grid.Cell) error {
	if !m.gesture.Active {
		return nil
	}
	if err := m.grid.CheckCell(c); err != nil {
		return err
	}
	if c == m.gesture.Current {
		return nil
	}
	m.gesture.Current = c

	if m.shape == ShapeRectangle {
		m.covered = make(map[grid.Cell]struct{})
		m.working = m.committed.Clone()
		for _, rc := range rectangle(m.gesture.Anchor, c) {
			m.covered[rc] = struct{}{}
			m.apply(rc)
		}
		return nil
	}

	m.covered[c] = struct{}{}
	m.apply(c)
	return nil
}

// OnPointerUp commits the active gesture. It reports whether there was one.
func (m *Machine) OnPointerUp() bool {
	if !m.gesture.Active {
		return false
	}
	m.commit()
	return true
}

// OnAbandon handles a gesture that ended outside the grid. It commits
// exactly like OnPointerUp.
func (m *Machine) OnAbandon() bool {
	return m.OnPointerUp()
}

// Cancel drops the active gesture and keeps the selection it started from.
func (m *Machine) Cancel() bool {
	if !m.gesture.Active {
		return false
	}
	m.clearGesture()
	return true
}

// Preview returns the selection as it would be committed now: the
// committed selection with the active gesture's cells forced to its mode.
func (m *Machine) Preview() *availability.Selection {
	if m.gesture.Active {
		return m.working.Clone()
	}
	return m.committed.Clone()
}

// Displayed reports whether c shows as selected in the preview. It avoids
// copying the selection on every rendered cell.
func (m *Machine) Displayed(c grid.Cell) bool {
	if m.gesture.Active {
		return m.working.Has(c)
	}
	return m.committed.Has(c)
}

// Covered reports whether c is part of the active gesture.
func (m *Machine) Covered(c grid.Cell) bool {
	_, ok := m.covered[c]
	return ok
}

// apply forces c to the gesture's target state when its baseline state
// differs. Cells are never toggled relative to the working selection.
func (m *Machine) apply(c grid.Cell) {
	want := m.gesture.Mode.target()
	if m.committed.Has(c) == want {
		return
	}
	// c passed CheckCell, so Set cannot fail.
	_ = m.working.Set(c, want)
}

func (m *Machine) commit() {
	m.committed = m.working
	m.clearGesture()
}

func (m *Machine) clearGesture() {
	m.gesture = Gesture{}
	m.covered = nil
	m.working = nil
}

// rectangle returns the cells in the box spanned by a and b, inclusive.
func rectangle(a, b grid.Cell) []grid.Cell {
	d0, d1 := min(a.Day, b.Day), max(a.Day, b.Day)
	s0, s1 := min(a.Slot, b.Slot), max(a.Slot, b.Slot)
	out := make([]grid.Cell, 0, int(d1-d0+1)*(s1-s0+1))
	for d := d0; d <= d1; d++ {
		for s := s0; s <= s1; s++ {
			out = append(out, grid.Cell{Day: d, Slot: s})
		}
	}
	return out
}
