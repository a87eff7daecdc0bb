package domain

import "time"

// DateIn returns midnight of t's calendar date in loc
// Dates read from DATE columns come back as UTC midnight and must be anchored
// to the shop's timezone before slot start times are compared with now.
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// ParseDate parses YYYY-MM-DD in loc
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateFormat, raw, loc)
}
