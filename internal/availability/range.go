// Package availability converts between a set of selected grid cells and the
// compact list of per-day ranges that is persisted.
package availability

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/javiermolinar/availability/internal/grid"
)

// Range is a half-open run of slots [Start, End) on one day.
type Range struct {
	Day   grid.Day
	Start int
	End   int
}

// Validate checks that the range is well formed: a valid day and a
// non-empty, non-negative slot interval.
func (r Range) Validate() error {
	if !r.Day.Valid() {
		return grid.Invalid("range day", int(r.Day), "must be 0-6")
	}
	if r.Start < 0 {
		return grid.Invalid("range start", r.Start, "must not be negative")
	}
	if r.Start >= r.End {
		return grid.Invalid("range", r.String(), "start must be before end")
	}
	return nil
}

// Len returns the number of slots covered.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether slot lies inside the range.
func (r Range) Contains(slot int) bool {
	return slot >= r.Start && slot < r.End
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%d,%d)", r.Day.Short(), r.Start, r.End)
}

// Label renders the range in wall-clock time, e.g. "Tue 10:00-12:00".
func (r Range) Label(cfg grid.Config) string {
	return r.Day.Short() + " " + grid.FormatClock(cfg.BoundaryMinutes(r.Start)) + "-" + grid.FormatClock(cfg.BoundaryMinutes(r.End))
}

func compareRanges(a, b Range) int {
	if c := cmp.Compare(a.Day, b.Day); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Start, b.Start); c != 0 {
		return c
	}
	return cmp.Compare(a.End, b.End)
}

// Within checks every range is well formed and fits on the grid.
func Within(cfg grid.Config, ranges []Range) error {
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("range %d: %w", i, err)
		}
		if r.End > cfg.SlotsPerDay() {
			return fmt.Errorf("range %d: %w", i, grid.Invalid("range end", r.End, fmt.Sprintf("grid has %d slots per day", cfg.SlotsPerDay())))
		}
	}
	return nil
}

// RangeAt builds a range from a day and "HH:MM" bounds that fall on slot
// boundaries of cfg.
func RangeAt(cfg grid.Config, day grid.Day, start, end string) (Range, error) {
	startMins, err := grid.ParseClock(start)
	if err != nil {
		return Range{}, fmt.Errorf("start: %w", err)
	}
	endMins, err := grid.ParseClock(end)
	if err != nil {
		return Range{}, fmt.Errorf("end: %w", err)
	}
	if startMins >= endMins {
		return Range{}, grid.Invalid("range", start+"-"+end, "start must be before end")
	}
	s, err := cfg.BoundaryAt(startMins)
	if err != nil {
		return Range{}, fmt.Errorf("start: %w", err)
	}
	e, err := cfg.BoundaryAt(endMins)
	if err != nil {
		return Range{}, fmt.Errorf("end: %w", err)
	}
	return Range{Day: day, Start: s, End: e}, nil
}

// ParseRange parses the label form "tue 10:00-12:00".
func ParseRange(cfg grid.Config, s string) (Range, error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Range{}, grid.Invalid("range", s, "expected '<day> HH:MM-HH:MM'")
	}
	day, err := grid.ParseDay(fields[0])
	if err != nil {
		return Range{}, err
	}
	start, end, ok := strings.Cut(fields[1], "-")
	if !ok {
		return Range{}, grid.Invalid("range", s, "expected '<day> HH:MM-HH:MM'")
	}
	return RangeAt(cfg, day, start, end)
}
