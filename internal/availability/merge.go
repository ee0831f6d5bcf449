package availability

import (
	"fmt"
	"slices"

	"github.com/javiermolinar/availability/internal/grid"
)

// Collapse turns a selection into the minimal list of ranges covering it,
// ordered by day then start. No two output ranges on the same day touch.
func Collapse(s *Selection) []Range {
	if s.Len() == 0 {
		return nil
	}

	var byDay [grid.DaysPerWeek][]int
	for c := range s.all() {
		byDay[c.Day] = append(byDay[c.Day], c.Slot)
	}

	var out []Range
	for d, slots := range byDay {
		if len(slots) == 0 {
			continue
		}
		slices.Sort(slots)
		cur := Range{Day: grid.Day(d), Start: slots[0], End: slots[0] + 1}
		for _, slot := range slots[1:] {
			if slot == cur.End {
				cur.End++
				continue
			}
			out = append(out, cur)
			cur = Range{Day: grid.Day(d), Start: slot, End: slot + 1}
		}
		out = append(out, cur)
	}
	return out
}

// Expand returns every cell covered by the ranges. Overlapping input is
// tolerated; the result has no duplicates.
func Expand(ranges []Range) (*Selection, error) {
	s := NewSelection()
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("range %d: %w", i, err)
		}
		for slot := r.Start; slot < r.End; slot++ {
			s.cells[grid.Cell{Day: r.Day, Slot: slot}] = struct{}{}
		}
	}
	return s, nil
}

// Normalize sorts ranges by (day, start) and merges any that overlap or
// touch. The result equals Collapse(Expand(ranges)) without materializing
// cells.
func Normalize(ranges []Range) ([]Range, error) {
	if len(ranges) == 0 {
		return nil, nil
	}
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("range %d: %w", i, err)
		}
	}

	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, compareRanges)

	out := []Range{sorted[0]}
	for _, r := range sorted[1:] {
		last := &out[len(out)-1]
		if r.Day == last.Day && r.Start <= last.End {
			last.End = max(last.End, r.End)
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Subtract removes the given cells from the ranges, splitting a range into
// zero, one or two pieces (or more when several interior cells go).
// The input need not be normalized; the output always is.
func Subtract(ranges []Range, remove *Selection) ([]Range, error) {
	norm, err := Normalize(ranges)
	if err != nil {
		return nil, err
	}
	if remove.Len() == 0 {
		return norm, nil
	}

	var removed [grid.DaysPerWeek][]int
	for c := range remove.all() {
		removed[c.Day] = append(removed[c.Day], c.Slot)
	}
	for d := range removed {
		slices.Sort(removed[d])
	}

	var out []Range
	for _, r := range norm {
		cursor := r.Start
		holes := removed[r.Day]
		i, _ := slices.BinarySearch(holes, r.Start)
		for ; i < len(holes) && holes[i] < r.End; i++ {
			if holes[i] > cursor {
				out = append(out, Range{Day: r.Day, Start: cursor, End: holes[i]})
			}
			cursor = holes[i] + 1
		}
		if cursor < r.End {
			out = append(out, Range{Day: r.Day, Start: cursor, End: r.End})
		}
	}
	return out, nil
}

// Union merges two range lists.
func Union(a, b []Range) ([]Range, error) {
	all := make([]Range, 0, len(a)+len(b))
	all = append(all, a...)
	all = append(all, b...)
	return Normalize(all)
}

// Diff compares two range lists after normalizing both and returns the
// ranges present only in after (to add) and only in before (to delete).
// Ranges are compared by value, matching a backend that deletes by value.
func Diff(before, after []Range) (added, removed []Range, err error) {
	b, err := Normalize(before)
	if err != nil {
		return nil, nil, fmt.Errorf("before: %w", err)
	}
	a, err := Normalize(after)
	if err != nil {
		return nil, nil, fmt.Errorf("after: %w", err)
	}

	i, j := 0, 0
	for i < len(b) && j < len(a) {
		switch c := compareRanges(b[i], a[j]); {
		case c == 0:
			i++
			j++
		case c < 0:
			removed = append(removed, b[i])
			i++
		default:
			added = append(added, a[j])
			j++
		}
	}
	removed = append(removed, b[i:]...)
	added = append(added, a[j:]...)
	return added, removed, nil
}
