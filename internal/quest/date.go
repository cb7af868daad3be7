package quest

import "time"

// DateLayout is the calendar-date wire format used throughout the engine.
const DateLayout = "2006-01-02"

// FormatDate renders t's calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Weekday returns the weekday of a YYYY-MM-DD date. The boolean is false
// when the date does not parse.
func Weekday(date string) (time.Weekday, bool) {
	t, err := ParseDate(date)
	if err != nil {
		return time.Sunday, false
	}
	return t.Weekday(), true
}

// DaysBetween returns the whole calendar days from a to b (b - a).
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
