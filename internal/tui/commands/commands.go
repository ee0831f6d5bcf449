// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/template"
)

// statusTimeout is how long a status message stays on screen.
const statusTimeout = 3 * time.Second

// LoadedMsg is sent when the owner's templates have been read.
type LoadedMsg struct {
	Templates []template.Wire
}

// SavedMsg is sent when a snapshot has been written.
type SavedMsg struct {
	Snapshot editor.Snapshot
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Load reads the owner's templates.
func Load(repo template.Repository, owner string) tea.Cmd {
	return func() tea.Msg {
		templates, err := repo.ListTemplates(context.Background(), owner)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading availability: %w", err)}
		}
		return LoadedMsg{Templates: templates}
	}
}

// Save writes a snapshot taken on the update loop. The session itself is
// only touched again when SavedMsg arrives.
func Save(repo template.Repository, owner string, snap editor.Snapshot) tea.Cmd {
	return func() tea.Msg {
		if err := repo.ReplaceTemplates(context.Background(), owner, snap.Templates); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving availability: %w", err)}
		}
		return SavedMsg{Snapshot: snap}
	}
}

// Yank copies templates to the clipboard as JSON.
func Yank(templates []template.Wire) tea.Cmd {
	return func() tea.Msg {
		data, err := template.MarshalTemplates(templates)
		if err != nil {
			return ErrMsg{Err: err}
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return StatusMsgCmd{Msg: fmt.Sprintf("Copied %d template(s)", len(templates))}
	}
}

// ClearStatusAfter clears the status line after the standard delay.
func ClearStatusAfter() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
