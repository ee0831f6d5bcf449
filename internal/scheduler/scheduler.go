// Package scheduler answers time questions against a weekly availability
// pattern: when the next free window starts and whether a meeting fits.
package scheduler

import (
	"time"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/dateutil"
	"github.com/javiermolinar/availability/internal/grid"
)

// Scheduler provides time-aware lookups over one week of ranges.
type Scheduler struct {
	grid  grid.Config
	byDay [grid.DaysPerWeek][]availability.Range
}

// New creates a Scheduler. The ranges are normalized first.
func New(cfg grid.Config, ranges []availability.Range) (*Scheduler, error) {
	if err := availability.Within(cfg, ranges); err != nil {
		return nil, err
	}
	norm, err := availability.Normalize(ranges)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{grid: cfg}
	for _, r := range norm {
		s.byDay[r.Day] = append(s.byDay[r.Day], r)
	}
	return s, nil
}

// AvailableSlot is one concrete available window on a calendar date.
type AvailableSlot struct {
	Date  time.Time // midnight of the day
	Start string    // "HH:MM"
	End   string    // "HH:MM"
	Range availability.Range
}

// StartTime returns the slot start as an instant.
func (a AvailableSlot) StartTime() time.Time {
	m, _ := grid.ParseClock(a.Start)
	return dateutil.AtMinutes(a.Date, m)
}

// EndTime returns the slot end as an instant.
func (a AvailableSlot) EndTime() time.Time {
	m, _ := grid.ParseClock(a.End)
	return dateutil.AtMinutes(a.Date, m)
}

// Minutes returns the length of the slot.
func (a AvailableSlot) Minutes() int {
	return int(a.EndTime().Sub(a.StartTime()) / time.Minute)
}

// NextAvailableStart returns the next available window at or after now.
// Inside a range the window starts at the next slot boundary. It reports
// false when the pattern is empty.
func (s *Scheduler) NextAvailableStart(now time.Time) (AvailableSlot, bool) {
	slots := s.Upcoming(now, 1, 0)
	if len(slots) == 0 {
		return AvailableSlot{}, false
	}
	return slots[0], true
}

// Upcoming lists up to n windows at or after from that are at least
// minMinutes long, in time order.
func (s *Scheduler) Upcoming(from time.Time, n, minMinutes int) []AvailableSlot {
	today := dateutil.TruncateToDay(from)
	nowMins := from.Hour()*60 + from.Minute()
	if from.Second() > 0 || from.Nanosecond() > 0 {
		nowMins++
	}

	var out []AvailableSlot
	// Eight days covers today's earlier ranges recurring next week.
	for offset := 0; offset <= grid.DaysPerWeek && len(out) < n; offset++ {
		date := today.AddDate(0, 0, offset)
		for _, r := range s.byDay[grid.FromWeekday(date.Weekday())] {
			start := s.grid.BoundaryMinutes(r.Start)
			end := s.grid.BoundaryMinutes(r.End)
			if offset == 0 {
				if end <= nowMins {
					continue
				}
				start = max(start, s.roundUp(nowMins))
			}
			if end-start < max(minMinutes, 1) {
				continue
			}
			out = append(out, AvailableSlot{
				Date:  date,
				Start: grid.FormatClock(start),
				End:   grid.FormatClock(end),
				Range: r,
			})
			if len(out) == n {
				break
			}
		}
	}
	return out
}

// roundUp moves minutes up to the next slot boundary of the grid.
func (s *Scheduler) roundUp(mins int) int {
	off := mins - s.grid.StartMinutes
	if off <= 0 {
		return s.grid.StartMinutes
	}
	if rem := off % s.grid.SlotMinutes; rem != 0 {
		off += s.grid.SlotMinutes - rem
	}
	return s.grid.StartMinutes + off
}

// IsAvailable reports whether t falls inside the pattern.
func (s *Scheduler) IsAvailable(t time.Time) bool {
	mins := t.Hour()*60 + t.Minute()
	for _, r := range s.byDay[grid.FromWeekday(t.Weekday())] {
		if mins >= s.grid.BoundaryMinutes(r.Start) && mins < s.grid.BoundaryMinutes(r.End) {
			return true
		}
	}
	return false
}

// CanFit reports whether a meeting of durationMinutes starting at
// startTime ("HH:MM") on date lies entirely inside one range.
func (s *Scheduler) CanFit(date time.Time, startTime string, durationMinutes int) bool {
	start, err := grid.ParseClock(startTime)
	if err != nil || durationMinutes <= 0 {
		return false
	}
	end := start + durationMinutes
	for _, r := range s.byDay[grid.FromWeekday(date.Weekday())] {
		if start >= s.grid.BoundaryMinutes(r.Start) && end <= s.grid.BoundaryMinutes(r.End) {
			return true
		}
	}
	return false
}

// AvailableMinutes returns the available minutes in the week.
func (s *Scheduler) AvailableMinutes() int {
	total := 0
	for _, ranges := range s.byDay {
		for _, r := range ranges {
			total += r.Len() * s.grid.SlotMinutes
		}
	}
	return total
}
