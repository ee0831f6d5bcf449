package template

import "github.com/javiermolinar/availability/internal/grid"

// ParseTime converts "HH:MM" or "HH:MM:SS" to minutes since midnight.
// "24:00" and "24:00:00" map to the end of the day. Seconds must be zero.
func ParseTime(s string) (int, error) {
	switch len(s) {
	case 5:
		return grid.ParseClock(s)
	case 8:
		if s[5] != ':' || s[6] < '0' || s[6] > '9' || s[7] < '0' || s[7] > '9' {
			return 0, grid.Invalid("time", s, "must be in HH:MM or HH:MM:SS format")
		}
		if s[6:] != "00" {
			return 0, grid.Invalid("time", s, "seconds must be zero")
		}
		mins, err := grid.ParseClock(s[:5])
		if err != nil {
			return 0, grid.Invalid("time", s, "not a valid time of day")
		}
		return mins, nil
	default:
		return 0, grid.Invalid("time", s, "must be in HH:MM or HH:MM:SS format")
	}
}

// FormatTime converts minutes since midnight to "HH:MM:SS".
func FormatTime(mins int) string {
	return grid.FormatClock(mins) + ":00"
}
