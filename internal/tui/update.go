package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/availability/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.BlurMsg:
		// Losing focus mid-drag means the release will never arrive.
		if m.drag == dragMouse {
			m.drag = dragNone
			m.session.Abandon()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout = NewLayout(m.width, m.height)
		m.prompt.Width = max(m.width-4, 10)
		m.ensureCursorVisible()
		return m, nil

	case commands.LoadedMsg:
		m.loading = false
		m.drag = dragNone
		if err := m.session.LoadTemplates(msg.Templates); err != nil {
			return m.withError(err)
		}
		if n := len(m.session.Skipped()); n > 0 {
			return m.withStatus(fmt.Sprintf("Skipped %d template(s) that do not fit the grid", n))
		}
		return m, nil

	case commands.SavedMsg:
		m.saving = false
		m.session.MarkSaved(msg.Snapshot)
		if m.quitAfterSave {
			return m, tea.Quit
		}
		return m.withStatus(fmt.Sprintf("Saved %d template(s)", len(msg.Snapshot.Templates)))

	case commands.ErrMsg:
		m.loading = false
		m.saving = false
		m.quitAfterSave = false
		return m.withError(msg.Err)

	case commands.StatusMsgCmd:
		return m.withStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if time.Now().After(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other component messages
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
