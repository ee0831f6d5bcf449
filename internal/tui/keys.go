package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/tui/commands"
	"github.com/javiermolinar/availability/internal/tui/input"
)

var promptCommands = []input.PromptCommand{
	{Name: "/add", Description: "select a range, e.g. /add tue 10:00-12:00"},
	{Name: "/remove", Description: "clear a range, e.g. /remove tue 10:00-12:00"},
	{Name: "/clear", Description: "clear a day, or the whole week"},
	{Name: "/save", Description: "save changes"},
	{Name: "/undo", Description: "undo the last change"},
	{Name: "/discard", Description: "drop unsaved changes"},
	{Name: "/reload", Description: "reload from storage"},
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeConfirmQuit:
		return m.handleConfirmQuitKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	slots := m.grid().SlotsPerDay()
	page := max(m.layout.GridRows, 1)

	switch msg.String() {
	case "q":
		if m.session.HasChanges() || m.session.Dragging() {
			m.mode = ModeConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.showAll = !m.showAll
		return m, nil

	// Navigation
	case "h", "left":
		return m.moveCursor(-1, 0)
	case "l", "right":
		return m.moveCursor(1, 0)
	case "j", "down":
		return m.moveCursor(0, 1)
	case "k", "up":
		return m.moveCursor(0, -1)
	case "pgdown", "ctrl+d":
		return m.moveCursor(0, page)
	case "pgup", "ctrl+u":
		return m.moveCursor(0, -page)
	case "g", "home":
		return m.moveCursor(0, -slots)
	case "G", "end":
		return m.moveCursor(0, slots)
	}

	if m.loading || m.saving {
		return m, nil
	}

	switch msg.String() {
	case " ", "enter":
		if m.drag == dragKeyboard {
			return m.endDrag()
		}
		if err := m.session.Toggle(m.cursor); err != nil {
			return m.withError(err)
		}
	case "v":
		if m.drag == dragKeyboard {
			return m.endDrag()
		}
		if err := m.session.PointerDown(m.cursor); err != nil {
			return m.withError(err)
		}
		m.drag = dragKeyboard
	case "esc":
		if m.drag != dragNone {
			m.session.CancelDrag()
			m.drag = dragNone
			return m.withStatus("Selection cancelled")
		}
	case "u":
		return m.undo()
	case "s":
		return m.save()
	case "D":
		return m.discard()
	case "X":
		return m.clearRanges(nil)
	case "y":
		m.endGesture()
		templates, err := m.session.Codec().Encode(m.session.Ranges())
		if err != nil {
			return m.withError(err)
		}
		return m, commands.Yank(templates)
	case "r":
		return m.reload()
	case ":", "/":
		m.endGesture()
		m.mode = ModePrompt
		m.prompt.SetValue("")
		cmd := m.prompt.Focus()
		return m, cmd
	}
	return m, nil
}

// moveCursor moves the cursor and extends a keyboard gesture with it.
func (m Model) moveCursor(dDay, dSlot int) (Model, tea.Cmd) {
	day := min(max(int(m.cursor.Day)+dDay, 0), grid.DaysPerWeek-1)
	slot := min(max(m.cursor.Slot+dSlot, 0), m.grid().SlotsPerDay()-1)
	m.cursor = grid.Cell{Day: grid.Day(day), Slot: slot}
	m.ensureCursorVisible()

	if m.drag == dragKeyboard {
		if err := m.session.PointerEnter(m.cursor); err != nil {
			return m.withError(err)
		}
	}
	return m, nil
}

func (m Model) endDrag() (Model, tea.Cmd) {
	m.drag = dragNone
	if m.session.PointerUp() {
		m.logger.Debug("gesture committed", zap.Stringer("cursor", m.cursor))
	}
	return m, nil
}

// endGesture commits whatever gesture is in progress before a command that
// works on the committed selection.
func (m *Model) endGesture() {
	if m.drag != dragNone {
		m.session.PointerUp()
		m.drag = dragNone
	}
}

func (m Model) undo() (Model, tea.Cmd) {
	m.drag = dragNone
	desc, err := m.session.Undo()
	if errors.Is(err, editor.ErrNothingToUndo) {
		return m.withStatus("Nothing to undo")
	}
	if err != nil {
		return m.withError(err)
	}
	return m.withStatus("Undid: " + desc)
}

func (m Model) save() (Model, tea.Cmd) {
	if m.saving {
		return m, nil
	}
	m.drag = dragNone
	snap, err := m.session.Snapshot()
	if err != nil {
		return m.withError(err)
	}
	if !m.session.HasChanges() {
		return m.withStatus("No changes to save")
	}
	m.saving = true
	m.statusMsg = "Saving..."
	m.statusErr = false
	return m, commands.Save(m.session.Repository(), m.session.Owner(), snap)
}

func (m Model) discard() (Model, tea.Cmd) {
	m.drag = dragNone
	if !m.session.HasChanges() && !m.session.Dragging() {
		return m.withStatus("No changes to discard")
	}
	m.session.Discard()
	return m.withStatus("Changes discarded")
}

func (m Model) reload() (Model, tea.Cmd) {
	if m.session.HasChanges() {
		return m.withStatus("Unsaved changes: save (s) or discard (D) first")
	}
	m.drag = dragNone
	m.loading = true
	return m, commands.Load(m.session.Repository(), m.session.Owner())
}

// clearRanges clears the given ranges, or everything when ranges is nil.
func (m Model) clearRanges(ranges []availability.Range) (Model, tea.Cmd) {
	m.endGesture()
	var err error
	if ranges == nil {
		err = m.session.Clear()
	} else {
		err = m.session.Apply(ranges, false)
	}
	if err != nil {
		return m.withError(err)
	}
	return m, nil
}

// handlePromptKeys handles keys while the command prompt is focused.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil
	case "tab":
		if value, ok := input.PromptAutocomplete(m.prompt.Value(), promptCommands); ok {
			m.prompt.SetValue(value)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		line := m.prompt.Value()
		m.closePrompt()
		return m.runPrompt(line)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.mode = ModeNormal
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// runPrompt executes one command line.
func (m Model) runPrompt(line string) (Model, tea.Cmd) {
	name, args := input.Parse(line)
	if name == "" {
		return m, nil
	}
	if m.loading || m.saving {
		return m.withStatus("Busy, try again")
	}
	m.logger.Debug("prompt command", zap.String("command", name), zap.String("args", args))

	switch name {
	case "add", "remove":
		r, err := availability.ParseRange(m.grid(), args)
		if err != nil {
			return m.withError(err)
		}
		if err := m.session.Apply([]availability.Range{r}, name == "add"); err != nil {
			return m.withError(err)
		}
		verb := "Added"
		if name == "remove" {
			verb = "Removed"
		}
		return m.withStatus(fmt.Sprintf("%s %s", verb, r.Label(m.grid())))
	case "clear":
		if args == "" {
			return m.clearRanges(nil)
		}
		day, err := grid.ParseDay(args)
		if err != nil {
			return m.withError(err)
		}
		return m.clearRanges([]availability.Range{{Day: day, Start: 0, End: m.grid().SlotsPerDay()}})
	case "save":
		return m.save()
	case "undo":
		return m.undo()
	case "discard":
		return m.discard()
	case "reload":
		return m.reload()
	default:
		return m.withError(fmt.Errorf("unknown command %q", name))
	}
}

// handleConfirmQuitKeys handles the unsaved-changes prompt shown on quit.
func (m Model) handleConfirmQuitKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "s", "y":
		m.mode = ModeNormal
		saved, cmd := m.save()
		switch {
		case saved.saving:
			saved.quitAfterSave = true
			return saved, cmd
		case saved.statusErr:
			return saved, cmd
		default:
			// Nothing was pending after all.
			return saved, tea.Quit
		}
	case "Q", "n":
		return m, tea.Quit
	case "esc", "q":
		m.mode = ModeNormal
	}
	return m, nil
}
