package models

import "time"

// Weekdays in canonical Monday→Sunday order
var Weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeekdayIndex returns the position of day in Weekdays, or -1
func WeekdayIndex(day string) int {
	for i, d := range Weekdays {
		if d == day {
			return i
		}
	}
	return -1
}

// IsWeekday reports whether day is one of the seven canonical names
func IsWeekday(day string) bool {
	return WeekdayIndex(day) >= 0
}

// DateLayout is how calendar dates are stored
const DateLayout = "2006-01-02"

// FormatDate renders t as a stored calendar date
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a stored calendar date
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Contains reports whether v is in list
func Contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
