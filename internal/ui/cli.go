// Package ui implements the avail command line.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javiermolinar/availability/internal/config"
	"github.com/javiermolinar/availability/internal/db"
	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/logging"
	"github.com/javiermolinar/availability/internal/template"
	"github.com/javiermolinar/availability/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo       template.Repository
	config     *config.Config
	configPath string
	logger     *zap.Logger
	root       *cobra.Command
	debug      bool   // Enable debug logging
	owner      string // Overrides config owner
}

// NewApp creates a new CLI application with the given repository and config.
// A nil repository is opened lazily from the configured database path.
func NewApp(repo template.Repository, cfg *config.Config) *App {
	a := &App{repo: repo, config: cfg, configPath: config.DefaultConfigPath()}

	a.root = &cobra.Command{
		Use:   "avail",
		Short: "Edit your weekly availability",
		Long: `Avail keeps a weekly recurring availability pattern.

Run without arguments to paint availability on the weekly grid with the
mouse or keyboard. Subcommands inspect and edit the same data from scripts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	a.root.PersistentFlags().StringVar(&a.owner, "owner", "", "Owner whose availability to use (default from config)")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.removeCmd())
	a.root.AddCommand(a.clearCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.nextCmd())
	a.root.AddCommand(a.ownersCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "avail %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ownerLister is implemented by repositories that can enumerate owners.
type ownerLister interface {
	Owners(ctx context.Context) ([]string, error)
}

func (a *App) ownersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "owners",
		Short: "List owners with stored availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			lister, ok := a.repo.(ownerLister)
			if !ok {
				return fmt.Errorf("repository cannot list owners")
			}
			owners, err := lister.Owners(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(owners) == 0 {
				_, _ = fmt.Fprintln(out, "No availability stored.")
				return nil
			}
			current := a.currentOwner()
			for _, o := range owners {
				marker := " "
				if o == current {
					marker = "*"
				}
				_, _ = fmt.Fprintf(out, "%s %s\n", marker, o)
			}
			return nil
		},
	}
}

// SetArgs overrides the command line arguments, for tests.
func (a *App) SetArgs(args []string) {
	a.root.SetArgs(args)
}

// SetOutput redirects command output.
func (a *App) SetOutput(w io.Writer) {
	a.root.SetOut(w)
	a.root.SetErr(w)
}

// SetInput replaces stdin for prompts.
func (a *App) SetInput(r io.Reader) {
	a.root.SetIn(r)
}

// SetConfigPath changes where `config` reads and writes the config file.
func (a *App) SetConfigPath(path string) {
	a.configPath = path
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.ExecuteContext(context.Background())
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// Close releases the repository and flushes the logger.
func (a *App) Close() error {
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	if a.repo == nil {
		return nil
	}
	return a.repo.Close()
}

func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	repo, err := db.New(a.config.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// ensureLogger builds the logger once. Console logging would corrupt the
// TUI, so interactive runs log only to a configured file.
func (a *App) ensureLogger(interactive bool) (*zap.Logger, error) {
	if a.logger != nil {
		return a.logger, nil
	}
	level := a.config.Log.Level
	if a.debug {
		level = "debug"
	}
	if interactive && a.config.Log.File == "" {
		a.logger = logging.Nop()
		return a.logger, nil
	}
	logger, err := logging.New(logging.Options{
		Level:       level,
		File:        a.config.Log.File,
		Development: a.debug,
	})
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	a.logger = logger
	return logger, nil
}

func (a *App) currentOwner() string {
	if a.owner != "" {
		return a.owner
	}
	return a.config.Storage.Owner
}

// newSession opens an editing session for the current owner.
func (a *App) newSession(interactive bool) (*editor.Session, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	logger, err := a.ensureLogger(interactive)
	if err != nil {
		return nil, err
	}
	codec, err := a.config.Codec()
	if err != nil {
		return nil, err
	}
	shape, err := a.config.SelectionShape()
	if err != nil {
		return nil, err
	}
	return editor.New(a.repo, codec, a.currentOwner(),
		editor.WithLogger(logger),
		editor.WithShape(shape),
	), nil
}

// loadSession opens a session and loads the stored templates.
func (a *App) loadSession(ctx context.Context) (*editor.Session, error) {
	s, err := a.newSession(false)
	if err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *App) runTUI() error {
	s, err := a.newSession(true)
	if err != nil {
		return err
	}
	return tui.Run(s, a.config, a.logger)
}
