package ui

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/editor"
	"github.com/javiermolinar/availability/internal/grid"
)

// rangeFlags are the --day/--start/--end flags shared by add and remove.
type rangeFlags struct {
	days  string
	start string
	end   string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.days, "day", "", "Day or comma-separated days (mon,tue,...)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time (HH:MM)")
	cmd.Flags().StringVar(&f.end, "end", "", "End time (HH:MM)")
}

func (f *rangeFlags) set() bool {
	return f.days != "" || f.start != "" || f.end != ""
}

// ranges collects the ranges named by positional arguments ("tue 10:00-12:00")
// and by the flags.
func (f *rangeFlags) ranges(cfg grid.Config, args []string) ([]availability.Range, error) {
	var out []availability.Range
	for _, arg := range args {
		r, err := availability.ParseRange(cfg, arg)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	if f.set() {
		if f.days == "" || f.start == "" || f.end == "" {
			return nil, errors.New("--day, --start and --end must be given together")
		}
		for _, name := range strings.Split(f.days, ",") {
			day, err := grid.ParseDay(name)
			if err != nil {
				return nil, err
			}
			r, err := availability.RangeAt(cfg, day, f.start, f.end)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}

	if len(out) == 0 {
		return nil, errors.New("no range given: pass \"DAY HH:MM-HH:MM\" or --day, --start and --end")
	}
	return out, nil
}

func (a *App) addCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "add [RANGE...]",
		Short: "Mark time as available",
		Long: `Add available time to the weekly pattern. Overlapping and touching
ranges merge with what is already stored.

Example:
  avail add "tue 10:00-12:00"
  avail add --day mon,wed,fri --start 09:00 --end 12:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.applyRanges(cmd, &flags, args, true)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *App) removeCmd() *cobra.Command {
	var flags rangeFlags

	cmd := &cobra.Command{
		Use:   "remove [RANGE...]",
		Short: "Mark time as unavailable",
		Long: `Remove time from the weekly pattern. Ranges that only partly overlap
are trimmed or split.

Example:
  avail remove "tue 10:30-11:00"
  avail remove --day sat,sun --start 08:00 --end 21:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.applyRanges(cmd, &flags, args, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *App) applyRanges(cmd *cobra.Command, flags *rangeFlags, args []string, on bool) error {
	ctx := cmd.Context()
	s, err := a.loadSession(ctx)
	if err != nil {
		return err
	}
	ranges, err := flags.ranges(s.Grid(), args)
	if err != nil {
		return err
	}
	if err := s.Apply(ranges, on); err != nil {
		return err
	}
	return a.saveAndReport(cmd, s, false)
}

func (a *App) clearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all availability",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if s.Selection().Len() == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clear.")
				return nil
			}
			if !yes && !promptYesNo(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(), fmt.Sprintf("Remove all availability for %s?", s.Owner())) {
				return nil
			}
			if err := s.Clear(); err != nil {
				return err
			}
			return a.saveAndReport(cmd, s, true)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

// saveAndReport saves the session and prints what changed. With replace the
// owner's whole set is rewritten, otherwise only the difference is sent.
func (a *App) saveAndReport(cmd *cobra.Command, s *editor.Session, replace bool) error {
	out := cmd.OutOrStdout()
	if !s.HasChanges() {
		_, _ = fmt.Fprintln(out, "No changes.")
		return nil
	}
	added, removed, err := s.Pending()
	if err != nil {
		return err
	}
	save := s.SaveChanges
	if replace {
		save = s.Save
	}
	if err := save(cmd.Context()); err != nil {
		return err
	}

	cfg := s.Grid()
	for _, r := range added {
		_, _ = fmt.Fprintf(out, "  + %s\n", formatAvailable(r.Label(cfg)))
	}
	for _, r := range removed {
		_, _ = fmt.Fprintf(out, "  - %s\n", formatMuted(r.Label(cfg)))
	}
	PrintStats(out, NewStats(cfg, s.Selection()))
	return nil
}
