// Package editor holds one owner's availability while it is being edited:
// the saved selection, the working selection driven by drag gestures, undo
// history, and persistence through a template repository.
package editor

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/drag"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/template"
)

// Session errors.
var (
	ErrNotLoaded     = errors.New("session not loaded")
	ErrNothingToUndo = errors.New("nothing to undo")
)

const defaultMaxHistory = 50

// HistoryEntry is one undoable change.
type HistoryEntry struct {
	Description string                  // e.g. "Select: Tue 10:00-12:00"
	Selection   *availability.Selection // selection before the change
}

// Session edits the availability of one owner.
type Session struct {
	id     string
	owner  string
	repo   template.Repository
	codec  *template.Codec
	logger *zap.Logger
	shape  drag.Shape

	// Saved state (synced with the repository)
	saved *availability.Selection

	// Working state; the machine's committed selection
	machine *drag.Machine
	loaded  bool

	history    []HistoryEntry
	maxHistory int

	dirtyDays map[grid.Day]bool
	skipped   []*template.DecodeError
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShape sets the drag gesture shape.
func WithShape(shape drag.Shape) Option {
	return func(s *Session) {
		s.shape = shape
	}
}

// WithMaxHistory caps the undo stack.
func WithMaxHistory(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxHistory = n
		}
	}
}

// New creates a session. Call Load before editing.
func New(repo template.Repository, codec *template.Codec, owner string, opts ...Option) *Session {
	s := &Session{
		id:         uuid.NewString(),
		owner:      owner,
		repo:       repo,
		codec:      codec,
		logger:     zap.NewNop(),
		maxHistory: defaultMaxHistory,
		dirtyDays:  make(map[grid.Day]bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session", s.id), zap.String("owner", owner))
	return s
}

// ID returns the session identifier used in logs.
func (s *Session) ID() string {
	return s.id
}

// Owner returns whose availability is edited.
func (s *Session) Owner() string {
	return s.owner
}

// Grid returns the grid configuration.
func (s *Session) Grid() grid.Config {
	return s.codec.Grid()
}

// Codec returns the template codec.
func (s *Session) Codec() *template.Codec {
	return s.codec
}

// Loaded reports whether Load has succeeded.
func (s *Session) Loaded() bool {
	return s.loaded
}

// Load reads the owner's templates and resets the session to them.
// Templates that cannot be placed on the grid are skipped and reported by
// Skipped; the rest still load.
func (s *Session) Load(ctx context.Context) error {
	wires, err := s.repo.ListTemplates(ctx, s.owner)
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	return s.LoadTemplates(wires)
}

// LoadTemplates resets the session to already fetched templates.
func (s *Session) LoadTemplates(wires []template.Wire) error {
	ranges, skipped := s.codec.Decode(wires)
	for _, e := range skipped {
		s.logger.Warn("skipping template",
			zap.Int("index", e.Index),
			zap.Stringer("template", e.Template),
			zap.Error(e.Err),
		)
	}

	sel, err := availability.Expand(ranges)
	if err != nil {
		return fmt.Errorf("expanding templates: %w", err)
	}

	s.reset(sel)
	s.skipped = skipped
	s.logger.Debug("loaded availability",
		zap.Int("templates", len(wires)),
		zap.Int("cells", sel.Len()),
		zap.Int("skipped", len(skipped)),
	)
	return nil
}

// Repository returns the store the session loads from and saves to.
func (s *Session) Repository() template.Repository {
	return s.repo
}

// LoadSelection resets the session to sel without touching the repository.
func (s *Session) LoadSelection(sel *availability.Selection) {
	s.reset(sel)
}

func (s *Session) reset(sel *availability.Selection) {
	s.saved = sel.Clone()
	s.machine = drag.New(s.codec.Grid(), sel, drag.WithShape(s.shape))
	s.loaded = true
	s.history = nil
	s.dirtyDays = make(map[grid.Day]bool)
	s.skipped = nil
}

// Skipped returns the templates dropped by the last Load.
func (s *Session) Skipped() []*template.DecodeError {
	return s.skipped
}

// Selection returns a copy of the working selection without any gesture in
// progress.
func (s *Session) Selection() *availability.Selection {
	if !s.loaded {
		return availability.NewSelection()
	}
	return s.machine.Selection()
}

// SavedSelection returns a copy of the last saved selection.
func (s *Session) SavedSelection() *availability.Selection {
	return s.saved.Clone()
}

// Ranges returns the working selection collapsed to ranges.
func (s *Session) Ranges() []availability.Range {
	return availability.Collapse(s.Selection())
}

// Displayed reports whether c renders as selected, including the gesture in
// progress.
func (s *Session) Displayed(c grid.Cell) bool {
	if !s.loaded {
		return false
	}
	return s.machine.Displayed(c)
}

// Covered reports whether c is part of the gesture in progress.
func (s *Session) Covered(c grid.Cell) bool {
	if !s.loaded {
		return false
	}
	return s.machine.Covered(c)
}

// Gesture returns the gesture in progress, if any.
func (s *Session) Gesture() (drag.Gesture, bool) {
	if !s.loaded {
		return drag.Gesture{}, false
	}
	return s.machine.Gesture()
}

// Dragging reports whether a gesture is in progress.
func (s *Session) Dragging() bool {
	return s.loaded && s.machine.State() == drag.StateDragging
}

// PointerDown starts a gesture at c, committing any gesture in progress.
func (s *Session) PointerDown(c grid.Cell) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.Grid().CheckCell(c); err != nil {
		return err
	}
	s.PointerUp()

	s.pushHistory(s.machine.Selection())
	if err := s.machine.OnPointerDown(c); err != nil {
		s.popHistory()
		return err
	}
	g, _ := s.machine.Gesture()
	s.history[len(s.history)-1].Description = fmt.Sprintf("%s from %s", g.Mode, s.Grid().ToWallClock(c))
	return nil
}

// PointerEnter extends the gesture in progress to c.
func (s *Session) PointerEnter(c grid.Cell) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	return s.machine.OnPointerEnter(c)
}

// PointerUp commits the gesture in progress. It reports whether the
// selection changed.
func (s *Session) PointerUp() bool {
	if !s.Dragging() {
		return false
	}
	s.machine.OnPointerUp()
	return s.settle()
}

// Abandon commits a gesture whose pointer left the grid.
func (s *Session) Abandon() bool {
	if !s.Dragging() {
		return false
	}
	s.machine.OnAbandon()
	return s.settle()
}

// CancelDrag drops the gesture in progress.
func (s *Session) CancelDrag() bool {
	if !s.Dragging() {
		return false
	}
	s.machine.Cancel()
	s.popHistory()
	return true
}

// settle finishes a committed gesture: a gesture that changed nothing leaves
// no history entry.
func (s *Session) settle() bool {
	if len(s.history) == 0 {
		s.recomputeDirty()
		return s.HasChanges()
	}
	before := s.history[len(s.history)-1].Selection
	if before.Equal(s.machine.Selection()) {
		s.popHistory()
		return false
	}
	s.recomputeDirty()
	return true
}

// Toggle flips a single cell, as a one-cell gesture.
func (s *Session) Toggle(c grid.Cell) error {
	if err := s.PointerDown(c); err != nil {
		return err
	}
	s.PointerUp()
	return nil
}

// Apply selects (on) or clears (off) every cell of the given ranges as one
// undoable change.
func (s *Session) Apply(ranges []availability.Range, on bool) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := availability.Within(s.Grid(), ranges); err != nil {
		return err
	}
	s.PointerUp()

	current := s.machine.Selection()
	var next []availability.Range
	if on {
		merged, err := availability.Union(availability.Collapse(current), ranges)
		if err != nil {
			return err
		}
		next = merged
	} else {
		remove, err := availability.Expand(ranges)
		if err != nil {
			return err
		}
		rest, err := availability.Subtract(availability.Collapse(current), remove)
		if err != nil {
			return err
		}
		next = rest
	}

	sel, err := availability.Expand(next)
	if err != nil {
		return err
	}
	if sel.Equal(current) {
		return nil
	}

	verb := "Select"
	if !on {
		verb = "Clear"
	}
	s.pushHistory(current)
	s.history[len(s.history)-1].Description = fmt.Sprintf("%s %d range(s)", verb, len(ranges))
	s.machine.Reset(sel)
	s.recomputeDirty()
	return nil
}

// Clear empties the working selection.
func (s *Session) Clear() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.PointerUp()
	current := s.machine.Selection()
	if current.Len() == 0 {
		return nil
	}
	s.pushHistory(current)
	s.history[len(s.history)-1].Description = "Clear all"
	s.machine.Reset(availability.NewSelection())
	s.recomputeDirty()
	return nil
}

// CanUndo reports whether there is a change to undo.
func (s *Session) CanUndo() bool {
	return len(s.history) > 0
}

// UndoCount returns the number of undoable changes.
func (s *Session) UndoCount() int {
	return len(s.history)
}

// Undo reverts the last change and returns its description.
func (s *Session) Undo() (string, error) {
	if !s.loaded {
		return "", ErrNotLoaded
	}
	s.CancelDrag()
	if len(s.history) == 0 {
		return "", ErrNothingToUndo
	}
	entry := s.popHistory()
	s.machine.Reset(entry.Selection)
	s.recomputeDirty()
	return entry.Description, nil
}

// HasChanges reports whether the working selection differs from the saved
// one.
func (s *Session) HasChanges() bool {
	return len(s.dirtyDays) > 0
}

// DirtyDays returns the days whose cells differ from the saved selection.
func (s *Session) DirtyDays() []grid.Day {
	days := make([]grid.Day, 0, len(s.dirtyDays))
	for d := range s.dirtyDays {
		days = append(days, d)
	}
	slices.Sort(days)
	return days
}

// Pending returns the ranges a save would add and delete.
func (s *Session) Pending() (added, removed []availability.Range, err error) {
	if !s.loaded {
		return nil, nil, ErrNotLoaded
	}
	return availability.Diff(availability.Collapse(s.saved), availability.Collapse(s.machine.Preview()))
}

// Snapshot is the state a save writes: the working selection and its
// encoded templates.
type Snapshot struct {
	Selection *availability.Selection
	Templates []template.Wire
	Added     int
	Removed   int
}

// Snapshot commits any gesture in progress and encodes the working
// selection for saving.
func (s *Session) Snapshot() (Snapshot, error) {
	if !s.loaded {
		return Snapshot{}, ErrNotLoaded
	}
	s.PointerUp()

	added, removed, err := s.Pending()
	if err != nil {
		return Snapshot{}, err
	}
	current := s.machine.Selection()
	wires, err := s.codec.Encode(availability.Collapse(current))
	if err != nil {
		return Snapshot{}, fmt.Errorf("encoding availability: %w", err)
	}
	return Snapshot{
		Selection: current,
		Templates: wires,
		Added:     len(added),
		Removed:   len(removed),
	}, nil
}

// MarkSaved records that snap reached the repository. Edits made after the
// snapshot was taken stay pending.
func (s *Session) MarkSaved(snap Snapshot) {
	if !s.loaded || snap.Selection == nil {
		return
	}
	s.saved = snap.Selection.Clone()
	s.recomputeDirty()
	if !s.HasChanges() {
		// The gesture in progress keeps the entry it pushed.
		if s.Dragging() && len(s.history) > 0 {
			s.history = s.history[len(s.history)-1:]
		} else {
			s.history = nil
		}
	}
	s.logger.Info("saved availability",
		zap.Int("templates", len(snap.Templates)),
		zap.Int("added", snap.Added),
		zap.Int("removed", snap.Removed),
	)
}

// Save commits any gesture in progress and replaces the owner's templates
// with the working selection. On failure the session keeps its edits.
func (s *Session) Save(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.PointerUp()
	if !s.HasChanges() {
		return nil
	}

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	if err := s.repo.ReplaceTemplates(ctx, s.owner, snap.Templates); err != nil {
		s.logger.Error("saving availability failed", zap.Error(err))
		return fmt.Errorf("saving templates: %w", err)
	}
	s.MarkSaved(snap)
	return nil
}

// SaveChanges commits any gesture in progress and writes only the
// difference from the saved selection: stale templates are deleted by value
// and new ones inserted. Stored templates outside the grid are left alone.
// When the stored rows do not match the saved selection exactly, it falls
// back to replacing the whole set.
func (s *Session) SaveChanges(ctx context.Context) error {
	if !s.loaded {
		return ErrNotLoaded
	}
	s.PointerUp()
	if !s.HasChanges() {
		return nil
	}

	snap, err := s.Snapshot()
	if err != nil {
		return err
	}
	added, removed, err := s.Pending()
	if err != nil {
		return err
	}
	addWires, err := s.codec.Encode(added)
	if err != nil {
		return fmt.Errorf("encoding added ranges: %w", err)
	}
	removeWires, err := s.codec.Encode(removed)
	if err != nil {
		return fmt.Errorf("encoding removed ranges: %w", err)
	}

	deleted, err := s.repo.DeleteTemplates(ctx, s.owner, removeWires)
	if err != nil {
		s.logger.Error("deleting templates failed", zap.Error(err))
		return fmt.Errorf("deleting templates: %w", err)
	}
	if deleted != len(removeWires) {
		s.logger.Warn("stored templates out of sync, replacing all",
			zap.Int("expected", len(removeWires)),
			zap.Int("deleted", deleted),
		)
		if err := s.repo.ReplaceTemplates(ctx, s.owner, snap.Templates); err != nil {
			s.logger.Error("saving availability failed", zap.Error(err))
			return fmt.Errorf("saving templates: %w", err)
		}
		s.MarkSaved(snap)
		return nil
	}
	if err := s.repo.AddTemplates(ctx, s.owner, addWires); err != nil {
		s.logger.Error("adding templates failed", zap.Error(err))
		return fmt.Errorf("adding templates: %w", err)
	}
	s.MarkSaved(snap)
	return nil
}

// Discard reverts the working selection to the saved one.
func (s *Session) Discard() {
	if !s.loaded {
		return
	}
	s.machine.Reset(s.saved)
	s.history = nil
	s.dirtyDays = make(map[grid.Day]bool)
}

func (s *Session) pushHistory(sel *availability.Selection) {
	if len(s.history) >= s.maxHistory {
		s.history = s.history[1:]
	}
	s.history = append(s.history, HistoryEntry{Selection: sel})
}

func (s *Session) popHistory() HistoryEntry {
	if len(s.history) == 0 {
		return HistoryEntry{}
	}
	entry := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return entry
}

func (s *Session) recomputeDirty() {
	current := s.machine.Selection()
	s.dirtyDays = make(map[grid.Day]bool)
	for _, c := range current.Cells() {
		if !s.saved.Has(c) {
			s.dirtyDays[c.Day] = true
		}
	}
	for _, c := range s.saved.Cells() {
		if !current.Has(c) {
			s.dirtyDays[c.Day] = true
		}
	}
}
