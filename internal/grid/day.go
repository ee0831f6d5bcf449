package grid

import (
	"strconv"
	"strings"
	"time"
)

// Day is a day of the week. The engine numbers days from Monday.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DaysPerWeek is the number of columns in the grid.
const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Valid returns true if d is one of the seven days.
func (d Day) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Day) String() string {
	if !d.Valid() {
		return "Day(" + strconv.Itoa(int(d)) + ")"
	}
	return dayNames[d]
}

// Short returns the three-letter name, e.g. "Tue".
func (d Day) Short() string {
	if !d.Valid() {
		return "???"
	}
	return dayNames[d][:3]
}

// Weekday converts d to the time package convention (0 = Sunday).
func (d Day) Weekday() time.Weekday {
	return time.Weekday((int(d) + 1) % DaysPerWeek)
}

// FromWeekday converts a time.Weekday to a Day.
func FromWeekday(w time.Weekday) Day {
	return Day((int(w) + DaysPerWeek - 1) % DaysPerWeek)
}

// ParseDay accepts full or three-letter day names, case-insensitive.
func ParseDay(s string) (Day, error) {
	in := strings.ToLower(strings.TrimSpace(s))
	for i, name := range dayNames {
		full := strings.ToLower(name)
		if in == full || in == full[:3] {
			return Day(i), nil
		}
	}
	return 0, Invalid("day", s, "expected a weekday name")
}
