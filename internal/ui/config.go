package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/availability/internal/config"
	"github.com/javiermolinar/availability/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var showOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  avail config
  avail config --show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(a.configPath, showOnly, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&showOnly, "show", false, "Print the configuration without editing")
	return cmd
}

func runConfigInteractive(configPath string, showOnly bool, in io.Reader, out io.Writer) error {
	_, _ = fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) && !showOnly {
		_, _ = fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		_, _ = fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)
	if showOnly {
		return nil
	}

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	p := prompter{reader: reader, out: out}
	cfg.Grid.SlotMinutes = p.intValue("Slot minutes (15, 30 or 60)", cfg.Grid.SlotMinutes)
	cfg.Grid.DayStart = p.value("Day start", cfg.Grid.DayStart)
	cfg.Grid.DayEnd = p.value("Day end", cfg.Grid.DayEnd)
	cfg.Wire.DayBase = p.value("Day numbered 0 (monday or sunday)", cfg.Wire.DayBase)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.Storage.Owner = p.value("Owner", cfg.Storage.Owner)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)
	cfg.UI.SelectionShape = p.value("Selection shape (path or rectangle)", cfg.UI.SelectionShape)
	cfg.Log.Level = p.value("Log level", cfg.Log.Level)
	cfg.Log.File = p.value("Log file (empty for none)", cfg.Log.File)

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	_, _ = fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	lines := []string{
		"Current configuration:",
		"──────────────────────",
		"[grid]",
		fmt.Sprintf("  slot_minutes     = %d", cfg.Grid.SlotMinutes),
		fmt.Sprintf("  day_start        = %s", cfg.Grid.DayStart),
		fmt.Sprintf("  day_end          = %s", cfg.Grid.DayEnd),
		"\n[wire]",
		fmt.Sprintf("  day_base         = %s", cfg.Wire.DayBase),
		"\n[storage]",
		fmt.Sprintf("  db_path          = %s", cfg.Storage.DBPath),
		fmt.Sprintf("  owner            = %s", cfg.Storage.Owner),
		"\n[ui]",
		fmt.Sprintf("  theme            = %s", cfg.UI.Theme),
		fmt.Sprintf("  selection_shape  = %s", cfg.UI.SelectionShape),
		"\n[log]",
		fmt.Sprintf("  level            = %s", cfg.Log.Level),
		fmt.Sprintf("  file             = %s", cfg.Log.File),
	}
	_, _ = fmt.Fprintln(out, strings.Join(lines, "\n"))
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		_, _ = fmt.Fprintf(p.out, "  %s: ", label)
	} else {
		_, _ = fmt.Fprintf(p.out, "  %s [%s]: ", label, current)
	}
	input, _ := p.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) intValue(label string, current int) int {
	for {
		value := p.value(label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		_, _ = fmt.Fprintf(p.out, "  Invalid number %q\n", value)
		if _, err := p.reader.Peek(1); err != nil {
			return current
		}
	}
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		_, _ = fmt.Fprintf(p.out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := p.reader.Peek(1); err != nil {
			return current
		}
	}
}
