package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/javiermolinar/availability/internal/config"
	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/tui/commands"
	"github.com/javiermolinar/availability/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModePrompt
	ModeConfirmQuit // quitting with unsaved changes
)

// dragSource records what started the gesture in progress.
type dragSource int

const (
	dragNone dragSource = iota
	dragMouse
	dragKeyboard
)

// Model is the main TUI model.
type Model struct {
	// Dependencies
	session *editor.Session
	config  *config.Config
	logger  *zap.Logger

	styles *Styles

	// State
	cursor  grid.Cell
	mode    Mode
	drag    dragSource
	loading bool
	saving  bool
	showAll bool // full help line

	quitAfterSave bool

	// Components
	prompt textinput.Model

	// Terminal dimensions and layout
	width        int
	height       int
	layout       Layout
	scrollOffset int

	// Messages
	statusMsg  string    // Temporary status/error message
	statusErr  bool      // statusMsg is an error
	statusTime time.Time // When to clear message

	nowFunc func() time.Time
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger for UI events.
func WithLogger(l *zap.Logger) ModelOption {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithNow overrides the clock used to highlight today.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// New creates a new TUI model around a session. The session is loaded by
// Init unless it already is.
func New(session *editor.Session, cfg *config.Config, opts ...ModelOption) Model {
	ti := textinput.New()
	ti.Placeholder = "add tue 10:00-12:00"
	ti.Prompt = "> "
	ti.CharLimit = 128

	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("mocha")
	}

	m := Model{
		session: session,
		config:  cfg,
		logger:  zap.NewNop(),
		styles:  NewStyles(t),
		prompt:  ti,
		loading: !session.Loaded(),
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.cursor = grid.Cell{Day: grid.FromWeekday(m.nowFunc().Weekday())}
	m.layout = NewLayout(0, 0)
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	if m.session.Loaded() {
		return nil
	}
	return commands.Load(m.session.Repository(), m.session.Owner())
}

// Run starts the TUI and blocks until the user quits.
func Run(session *editor.Session, cfg *config.Config, logger *zap.Logger) error {
	model := New(session, cfg, WithLogger(logger))
	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}

func (m Model) grid() grid.Config {
	return m.session.Grid()
}

func (m *Model) ensureCursorVisible() {
	m.scrollOffset = m.layout.clampScroll(m.scrollOffset, m.cursor.Slot, m.grid().SlotsPerDay())
}

// withStatus shows a temporary message.
func (m Model) withStatus(msg string) (Model, tea.Cmd) {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(2 * time.Second)
	return m, commands.ClearStatusAfter()
}

// withError shows err in the status line until the next message.
func (m Model) withError(err error) (Model, tea.Cmd) {
	m.logger.Warn("tui error", zap.Error(err))
	m.statusMsg = "Error: " + err.Error()
	m.statusErr = true
	m.statusTime = time.Now().Add(2 * time.Second)
	return m, commands.ClearStatusAfter()
}
