package calendar

import "time"

// TruncateToDay returns t with its clock set to midnight, same location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// wholeDayDelta returns the difference in whole calendar days between the
// start day and the end day. Plain 24h buckets over day-truncated instants,
// not calendar-aware month arithmetic.
func wholeDayDelta(start, end time.Time) int {
	return int(TruncateToDay(end).Sub(TruncateToDay(start)).Hours() / 24)
}

// onDay rebuilds an instant from day's calendar date and clock's time of day.
func onDay(day, clock time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, clock.Location())
}

// DateKey formats a date as the day-granularity bucketing key.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// SameDay reports whether a and b fall on the same calendar date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
