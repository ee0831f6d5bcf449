package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/availability/internal/dateutil"
	"github.com/javiermolinar/availability/internal/ics"
	"github.com/javiermolinar/availability/internal/template"
)

// exportFormat picks the output format from the flag or the file extension.
func exportFormat(format, output string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if f == "" {
		switch strings.ToLower(filepath.Ext(output)) {
		case ".ics":
			f = "ics"
		case ".yaml", ".yml":
			f = "yaml"
		default:
			f = "json"
		}
	}
	switch f {
	case "json", "yaml", "ics":
		return f, nil
	case "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unknown format %q: use json, yaml or ics", format)
	}
}

func (a *App) exportCmd() *cobra.Command {
	var (
		format  string
		output  string
		from    string
		weeks   int
		summary string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export availability as templates or an iCalendar feed",
		Long: `Export the stored availability.

json and yaml write the {dayOfWeek, startTime, endTime} templates the
backend accepts. ics writes one weekly recurring event per range, starting
in the week that contains --from.

Example:
  avail export > templates.json
  avail export --format ics --from next-week --weeks 4 -o availability.ics`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := exportFormat(format, output)
			if err != nil {
				return err
			}

			s, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if skipped := s.Skipped(); len(skipped) > 0 {
				_, _ = fmt.Fprintln(cmd.ErrOrStderr(), formatWarning(fmt.Sprintf("%d stored template(s) do not fit the grid and are left out", len(skipped))))
			}

			var data []byte
			switch f {
			case "ics":
				start, err := dateutil.ParseRelativeDate(from, time.Now())
				if err != nil {
					return err
				}
				feed, err := ics.Export(s.Grid(), s.Ranges(), ics.Options{
					From:    start,
					Weeks:   weeks,
					Summary: summary,
					Owner:   s.Owner(),
				})
				if err != nil {
					return fmt.Errorf("exporting calendar: %w", err)
				}
				data = []byte(feed)
			default:
				wires, err := s.Codec().Encode(s.Ranges())
				if err != nil {
					return err
				}
				if output != "" && f == formatFromExt(output) {
					if err := template.WriteFile(output, wires); err != nil {
						return err
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d template(s) to %s\n", len(wires), output)
					return nil
				}
				data, err = template.Encode(f, wires)
				if err != nil {
					return err
				}
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, yaml or ics (default from --output extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&from, "from", "today", "First week for ics (YYYY-MM-DD, today, next-week, monday...)")
	cmd.Flags().IntVar(&weeks, "weeks", 0, "Number of weeks for ics (0 repeats forever)")
	cmd.Flags().StringVar(&summary, "summary", "", "Event title for ics (default \"Available\")")
	return cmd
}

func formatFromExt(path string) string {
	f, _ := exportFormat("", path)
	return f
}
