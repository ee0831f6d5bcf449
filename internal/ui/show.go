package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) showCmd() *cobra.Command {
	var asGrid bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the weekly availability",
		Long: `Display the stored weekly availability as ranges per day.

Use --grid to draw the whole week as a slot table instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			s, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			cfg := s.Grid()
			sel := s.Selection()
			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintf(out, "=== %s ===\n", formatHeader(fmt.Sprintf("%s · %d-min slots %s", s.Owner(), cfg.SlotMinutes, cfg.Window())))
			_, _ = fmt.Fprintln(out)

			if asGrid {
				PrintGrid(out, cfg, sel, termWidth())
			} else {
				PrintRanges(out, cfg, s.Ranges())
			}

			_, _ = fmt.Fprintln(out)
			PrintStats(out, NewStats(cfg, sel))
			if skipped := s.Skipped(); len(skipped) > 0 {
				_, _ = fmt.Fprintf(out, "%s\n", formatWarning(fmt.Sprintf("%d stored template(s) do not fit the grid:", len(skipped))))
				PrintSkipped(out, skipped)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asGrid, "grid", "g", false, "Draw the week as a grid")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
