package view

import (
	"github.com/javiermolinar/availability/internal/grid"
)

// HeaderLabels builds the seven day labels, marking today's column.
// Narrow columns get one or two letters.
func HeaderLabels(colWidth int, today grid.Day) []string {
	labels := make([]string, grid.DaysPerWeek)
	for d := grid.Monday; d <= grid.Sunday; d++ {
		label := d.Short()
		switch {
		case colWidth >= len(d.String())+2:
			label = d.String()
		case colWidth < 3:
			label = label[:min(colWidth, 2)]
		}
		if d == today && colWidth >= len(label)+2 {
			label = "*" + label + "*"
		}
		labels[d] = label
	}
	return labels
}
