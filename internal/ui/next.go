package ui

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/availability/internal/scheduler"
	"github.com/javiermolinar/availability/internal/tui/view"
)

func (a *App) nextCmd() *cobra.Command {
	var (
		count   int
		minutes int
		at      string
	)

	cmd := &cobra.Command{
		Use:   "next",
		Short: "Show the next available windows",
		Long: `List the next times the weekly pattern is available, starting now.

Example:
  avail next
  avail next -n 5 --minutes 60`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.ParseInLocation("2006-01-02 15:04", at, time.Local)
				if err != nil {
					return fmt.Errorf("--at must be \"YYYY-MM-DD HH:MM\": %w", err)
				}
				now = t
			}

			s, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			sched, err := scheduler.New(s.Grid(), s.Ranges())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			slots := sched.Upcoming(now, count, minutes)
			if len(slots) == 0 {
				_, _ = fmt.Fprintln(out, "No available time in the coming week.")
				return nil
			}
			if sched.IsAvailable(now) {
				_, _ = fmt.Fprintln(out, formatAvailable("Available now"))
			}
			for _, slot := range slots {
				_, _ = fmt.Fprintf(out, "  %s  %s-%s  %s\n",
					slot.Date.Format("Mon Jan 2"), slot.Start, slot.End,
					formatMuted("("+view.FormatDuration(slot.Minutes())+")"))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 3, "Number of windows to list")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "Only list windows at least this long")
	cmd.Flags().StringVar(&at, "at", "", "Start from this local time instead of now (YYYY-MM-DD HH:MM)")
	return cmd
}
