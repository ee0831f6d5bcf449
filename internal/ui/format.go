package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/grid"
	"github.com/javiermolinar/availability/internal/template"
	"github.com/javiermolinar/availability/internal/tui/view"
)

const (
	gridGutter   = 6
	minGridColW  = 3
	maxGridColW  = 6
	cellFilled   = '█'
	cellEmpty    = '·'
	rangeDivider = "  "
)

// Stats summarizes a selection.
type Stats struct {
	Minutes int
	Ranges  int
	Days    int
	PerDay  [grid.DaysPerWeek]int // minutes per day
}

// NewStats computes totals for sel on cfg.
func NewStats(cfg grid.Config, sel *availability.Selection) Stats {
	st := Stats{
		Minutes: sel.Minutes(cfg),
		Ranges:  len(availability.Collapse(sel)),
		Days:    len(sel.Days()),
	}
	for _, c := range sel.Cells() {
		st.PerDay[c.Day] += cfg.SlotMinutes
	}
	return st
}

// PrintRanges prints one line per day listing its ranges and total time.
func PrintRanges(w io.Writer, cfg grid.Config, ranges []availability.Range) {
	var byDay [grid.DaysPerWeek][]availability.Range
	for _, r := range ranges {
		byDay[r.Day] = append(byDay[r.Day], r)
	}
	for d := range grid.DaysPerWeek {
		day := grid.Day(d)
		if len(byDay[d]) == 0 {
			_, _ = fmt.Fprintf(w, "  %s  %s\n", day.Short(), formatMuted("-"))
			continue
		}
		labels := make([]string, len(byDay[d]))
		minutes := 0
		for i, r := range byDay[d] {
			labels[i] = formatAvailable(clockSpan(cfg, r))
			minutes += r.Len() * cfg.SlotMinutes
		}
		_, _ = fmt.Fprintf(w, "  %s  %s  %s\n",
			day.Short(), strings.Join(labels, rangeDivider), formatMuted("("+view.FormatDuration(minutes)+")"))
	}
}

// PrintGrid draws the week as a slot-by-day table sized to width.
func PrintGrid(w io.Writer, cfg grid.Config, sel *availability.Selection, width int) {
	colW := gridColumnWidth(width)

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gridGutter))
	for d := range grid.DaysPerWeek {
		b.WriteString(formatHeader(center(grid.Day(d).Short(), colW)))
	}
	_, _ = fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for slot := range cfg.SlotsPerDay() {
		b.Reset()
		label := cfg.SlotLabel(slot)
		if cfg.BoundaryMinutes(slot)%60 != 0 {
			label = ""
		}
		b.WriteString(formatMuted(fmt.Sprintf("%-*s", gridGutter, label)))
		for d := range grid.DaysPerWeek {
			if sel.Has(grid.Cell{Day: grid.Day(d), Slot: slot}) {
				b.WriteString(formatAvailable(center(strings.Repeat(string(cellFilled), colW-1), colW)))
			} else {
				b.WriteString(formatEmpty(center(string(cellEmpty), colW)))
			}
		}
		_, _ = fmt.Fprintln(w, b.String())
	}
}

// PrintStats prints the totals line.
func PrintStats(w io.Writer, st Stats) {
	_, _ = fmt.Fprintf(w, "%s across %d day(s) in %d range(s)\n",
		formatStats("Total: "+view.FormatDuration(st.Minutes)), st.Days, st.Ranges)
}

// PrintSkipped lists templates that could not be placed on the grid.
func PrintSkipped(w io.Writer, skipped []*template.DecodeError) {
	for _, e := range skipped {
		_, _ = fmt.Fprintln(w, formatWarning(fmt.Sprintf("  skipped %s: %v", e.Template, e.Err)))
	}
}

func clockSpan(cfg grid.Config, r availability.Range) string {
	return grid.FormatClock(cfg.BoundaryMinutes(r.Start)) + "-" + grid.FormatClock(cfg.BoundaryMinutes(r.End))
}

func gridColumnWidth(width int) int {
	colW := (width - gridGutter) / grid.DaysPerWeek
	return max(minGridColW, min(maxGridColW, colW))
}

func center(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	left := (width - n) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-n-left)
}
