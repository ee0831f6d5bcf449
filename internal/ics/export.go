// Package ics exports the weekly availability pattern as an iCalendar feed
// of weekly recurring events.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/javiermolinar/availability/internal/availability"
	"github.com/javiermolinar/availability/internal/dateutil"
	"github.com/javiermolinar/availability/internal/grid"
)

const (
	productID      = "-//avail//availability//EN"
	defaultSummary = "Available"
	// floatingLayout is a DATE-TIME without zone: the event recurs at the
	// same wall-clock time in whatever zone the reader is in.
	floatingLayout = "20060102T150405"
)

// uidNamespace scopes the deterministic event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("avail.availability"))

var byDay = [grid.DaysPerWeek]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// Options controls an export.
type Options struct {
	From     time.Time        // any day of the first exported week; zero means now
	Weeks    int              // number of weekly occurrences; 0 repeats forever
	Summary  string           // event title; defaults to "Available"
	Owner    string           // included in UIDs so owners do not collide
	Now      func() time.Time // DTSTAMP clock; defaults to time.Now
	Location *time.Location   // zone From is interpreted in; defaults to time.Local
}

// Event describes one exported recurring event.
type Event struct {
	UID   string
	Range availability.Range
	Start time.Time // first occurrence
	End   time.Time
	RRule string
}

// Events plans one weekly recurring event per normalized range, starting in
// the week that contains opts.From.
func Events(cfg grid.Config, ranges []availability.Range, opts Options) ([]Event, error) {
	if opts.Weeks < 0 {
		return nil, grid.Invalid("weeks", opts.Weeks, "must not be negative")
	}
	if err := availability.Within(cfg, ranges); err != nil {
		return nil, err
	}
	norm, err := availability.Normalize(ranges)
	if err != nil {
		return nil, err
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	from := opts.From
	if from.IsZero() {
		from = time.Now()
	}
	monday, _ := dateutil.WeekRange(from.In(loc))

	events := make([]Event, 0, len(norm))
	for _, r := range norm {
		option := rrule.ROption{
			Freq:      rrule.WEEKLY,
			Dtstart:   dateutil.AtMinutes(monday, cfg.BoundaryMinutes(r.Start)),
			Byweekday: []rrule.Weekday{byDay[r.Day]},
			Count:     opts.Weeks,
		}
		rule, err := rrule.NewRRule(option)
		if err != nil {
			return nil, fmt.Errorf("building rule for %s: %w", r, err)
		}
		first := rule.After(option.Dtstart, true)
		if first.IsZero() {
			return nil, fmt.Errorf("rule for %s has no occurrence", r)
		}
		day := monday.AddDate(0, 0, int(r.Day))
		events = append(events, Event{
			UID:   uid(opts.Owner, r.Label(cfg)),
			Range: r,
			Start: first,
			End:   dateutil.AtMinutes(day, cfg.BoundaryMinutes(r.End)),
			RRule: option.RRuleString(),
		})
	}
	return events, nil
}

// Export renders the ranges as a VCALENDAR document.
func Export(cfg grid.Config, ranges []availability.Range, opts Options) (string, error) {
	events, err := Events(cfg, ranges, opts)
	if err != nil {
		return "", err
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	summary := opts.Summary
	if summary == "" {
		summary = defaultSummary
	}
	stamp := now().UTC()

	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	for _, ev := range events {
		vevent := cal.AddEvent(ev.UID)
		vevent.SetDtStampTime(stamp)
		vevent.SetProperty(ical.ComponentPropertyDtStart, ev.Start.Format(floatingLayout))
		vevent.SetProperty(ical.ComponentPropertyDtEnd, ev.End.Format(floatingLayout))
		vevent.SetSummary(summary)
		vevent.SetDescription(ev.Range.Label(cfg))
		vevent.AddProperty(ical.ComponentPropertyRrule, ev.RRule)
	}
	return cal.Serialize(), nil
}

// uid is stable for the same owner and wall-clock range, so re-imports
// update events instead of duplicating them.
func uid(owner, label string) string {
	return uuid.NewSHA1(uidNamespace, []byte(owner+"/"+label)).String() + "@avail"
}
