package grid

import "fmt"

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// ParseClock converts "HH:MM" to minutes since midnight.
// "24:00" is accepted and maps to MinutesPerDay.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' || !isDigits(s[0:2]) || !isDigits(s[3:5]) {
		return 0, Invalid("time", s, "must be in HH:MM format")
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if mins > 59 || hours > 24 || (hours == 24 && mins != 0) {
		return 0, Invalid("time", s, "not a valid time of day")
	}
	return hours*60 + mins, nil
}

// FormatClock converts minutes since midnight to "HH:MM".
// MinutesPerDay formats as "24:00".
func FormatClock(m int) string {
	if m < 0 {
		m = 0
	}
	if m > MinutesPerDay {
		m = MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
