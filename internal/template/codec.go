// Package template translates availability ranges to and from the wire
// templates exchanged with the backend: a day-of-week number plus
// "HH:MM:SS" start and end times.
package template

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/grid"
)

// Wire is one template as the backend stores it.
type Wire struct {
	DayOfWeek int    `json:"dayOfWeek" yaml:"dayOfWeek"`
	StartTime string `json:"startTime" yaml:"startTime"`
	EndTime   string `json:"endTime" yaml:"endTime"`
}

func (w Wire) String() string {
	return fmt.Sprintf("day %d %s-%s", w.DayOfWeek, w.StartTime, w.EndTime)
}

// DayConvention is the backend's day numbering.
type DayConvention int

const (
	// MondayFirst numbers Monday 0 through Sunday 6.
	MondayFirst DayConvention = iota
	// SundayFirst numbers Sunday 0 through Saturday 6.
	SundayFirst
)

func (c DayConvention) String() string {
	if c == SundayFirst {
		return "sunday"
	}
	return "monday"
}

// ParseDayConvention parses "monday" or "sunday" (the day numbered 0).
func ParseDayConvention(s string) (DayConvention, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monday", "mon":
		return MondayFirst, nil
	case "sunday", "sun":
		return SundayFirst, nil
	default:
		return MondayFirst, grid.Invalid("day base", s, "must be 'monday' or 'sunday'")
	}
}

// ToWire maps an engine day to the backend number.
func (c DayConvention) ToWire(d grid.Day) int {
	if c == SundayFirst {
		return int(d.Weekday())
	}
	return int(d)
}

// FromWire maps a backend number to an engine day.
func (c DayConvention) FromWire(n int) (grid.Day, error) {
	if n < 0 || n >= grid.DaysPerWeek {
		return 0, grid.OutOfRange("dayOfWeek", n, "0-6")
	}
	if c == SundayFirst {
		return grid.FromWeekday(time.Weekday(n)), nil
	}
	return grid.Day(n), nil
}

// Codec converts between ranges on one grid and wire templates.
type Codec struct {
	grid grid.Config
	days DayConvention
}

// New creates a Codec.
func New(cfg grid.Config, days DayConvention) *Codec {
	return &Codec{grid: cfg, days: days}
}

// Grid returns the grid the codec projects ranges through.
func (c *Codec) Grid() grid.Config {
	return c.grid
}

// Days returns the backend day convention.
func (c *Codec) Days() DayConvention {
	return c.days
}

// EncodeOne converts a range to a wire template.
func (c *Codec) EncodeOne(r availability.Range) (Wire, error) {
	if err := availability.Within(c.grid, []availability.Range{r}); err != nil {
		return Wire{}, err
	}
	return Wire{
		DayOfWeek: c.days.ToWire(r.Day),
		StartTime: FormatTime(c.grid.BoundaryMinutes(r.Start)),
		EndTime:   FormatTime(c.grid.BoundaryMinutes(r.End)),
	}, nil
}

// Encode converts ranges to wire templates, in order.
func (c *Codec) Encode(ranges []availability.Range) ([]Wire, error) {
	out := make([]Wire, 0, len(ranges))
	for i, r := range ranges {
		w, err := c.EncodeOne(r)
		if err != nil {
			return nil, fmt.Errorf("encoding range %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

// DecodeOne converts a wire template to a range. Unparseable times, an
// empty or inverted interval, and times that do not land on a slot boundary
// inside the window all fail; the error matches grid.ErrValidation, and
// also grid.ErrOutOfRange when the cause is the window.
func (c *Codec) DecodeOne(w Wire) (availability.Range, error) {
	day, err := c.days.FromWire(w.DayOfWeek)
	if err != nil {
		return availability.Range{}, fmt.Errorf("%w: %w", grid.ErrValidation, err)
	}
	start, err := ParseTime(w.StartTime)
	if err != nil {
		return availability.Range{}, fmt.Errorf("start time: %w", err)
	}
	end, err := ParseTime(w.EndTime)
	if err != nil {
		return availability.Range{}, fmt.Errorf("end time: %w", err)
	}
	// Midnight as an end time closes the same day.
	if end == 0 && start > 0 {
		end = grid.MinutesPerDay
	}
	if start >= end {
		return availability.Range{}, grid.Invalid("template", w.String(), "start must be before end")
	}

	startSlot, err := c.grid.BoundaryAt(start)
	if err != nil {
		return availability.Range{}, fmt.Errorf("%w: start time: %w", grid.ErrValidation, err)
	}
	endSlot, err := c.grid.BoundaryAt(end)
	if err != nil {
		return availability.Range{}, fmt.Errorf("%w: end time: %w", grid.ErrValidation, err)
	}
	return availability.Range{Day: day, Start: startSlot, End: endSlot}, nil
}

// DecodeError records a template dropped by Decode.
type DecodeError struct {
	Index    int
	Template Wire
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("template %d (%s): %v", e.Index, e.Template, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode converts a list of templates, skipping the ones that fail. Ranges
// come back in input order and are not normalized. Skipped templates are
// reported so callers can surface them without blocking the rest.
func (c *Codec) Decode(templates []Wire) ([]availability.Range, []*DecodeError) {
	out := make([]availability.Range, 0, len(templates))
	var skipped []*DecodeError
	for i, w := range templates {
		r, err := c.DecodeOne(w)
		if err != nil {
			skipped = append(skipped, &DecodeError{Index: i, Template: w, Err: err})
			continue
		}
		out = append(out, r)
	}
	return out, skipped
}

// DecodeStrict is Decode that fails when any template is bad. The error
// joins every failure.
func (c *Codec) DecodeStrict(templates []Wire) ([]availability.Range, error) {
	ranges, skipped := c.Decode(templates)
	if err := JoinDecodeErrors(skipped); err != nil {
		return nil, err
	}
	return ranges, nil
}

// JoinDecodeErrors flattens skipped templates into one error, or nil.
func JoinDecodeErrors(skipped []*DecodeError) error {
	errs := make([]error, len(skipped))
	for i, e := range skipped {
		errs[i] = e
	}
	return errors.Join(errs...)
}
