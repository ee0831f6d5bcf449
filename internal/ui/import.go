package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/template"
)

func (a *App) importCmd() *cobra.Command {
	var (
		replace bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import templates from a JSON or YAML file",
		Long: `Import availability templates from a file holding a list of
{dayOfWeek, startTime, endTime} objects. Templates that do not fit the grid
are skipped and reported; the rest are merged into the stored availability.
With --strict any template that does not fit aborts the import.

Example:
  avail import templates.json
  avail import --replace templates.yaml
  avail import --strict templates.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			info, err := os.Stat(path)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("file does not exist: %s", path)
				}
				return fmt.Errorf("checking file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("path is a directory: %s", path)
			}

			wires, err := template.ReadFile(path)
			if err != nil {
				return err
			}

			s, err := a.loadSession(cmd.Context())
			if err != nil {
				return err
			}
			if strict {
				if _, err := s.Codec().DecodeStrict(wires); err != nil {
					return fmt.Errorf("importing %s: %w", path, err)
				}
			}
			ranges, skipped := s.Codec().Decode(wires)

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Read %d template(s) from %s (%d range(s) after merging)\n",
				len(wires), path, importRanges(ranges))
			if len(skipped) > 0 {
				_, _ = fmt.Fprintln(out, formatWarning(fmt.Sprintf("%d template(s) do not fit the grid:", len(skipped))))
				PrintSkipped(out, skipped)
			}

			if replace {
				if err := s.Clear(); err != nil {
					return err
				}
			}
			if len(ranges) > 0 {
				if err := s.Apply(ranges, true); err != nil {
					return err
				}
			}
			return a.saveAndReport(cmd, s, replace)
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Replace stored availability instead of merging")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if any template does not fit the grid")
	return cmd
}

// importRanges is the number of ranges the file contributes after merging.
func importRanges(ranges []availability.Range) int {
	norm, err := availability.Normalize(ranges)
	if err != nil {
		return 0
	}
	return len(norm)
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
