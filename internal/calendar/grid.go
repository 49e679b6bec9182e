package calendar

import "time"

// MonthGrid returns the week grid for ref's month: full Sunday-aligned
// weeks from the Sunday on or before the 1st through the Saturday on or
// after the last day, as 5 or 6 rows of 7 dates.
func MonthGrid(ref time.Time) [][]time.Time {
	first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, int(time.Saturday)-int(last.Weekday()))

	var weeks [][]time.Time
	week := make([]time.Time, 0, 7)
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		week = append(week, d)
		if len(week) == 7 {
			weeks = append(weeks, week)
			week = make([]time.Time, 0, 7)
		}
	}
	return weeks
}

// WeekDates returns the Sunday through Saturday of the week containing ref.
func WeekDates(ref time.Time) []time.Time {
	day := TruncateToDay(ref)
	sunday := day.AddDate(0, 0, -int(day.Weekday()))
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = sunday.AddDate(0, 0, i)
	}
	return dates
}

// ByDate buckets occurrences by calendar date, keyed by DateKey.
func ByDate(occs []Occurrence) map[string][]Occurrence {
	buckets := make(map[string][]Occurrence)
	for _, o := range occs {
		key := DateKey(o.Date)
		buckets[key] = append(buckets[key], o)
	}
	return buckets
}

// ForDay returns the occurrences falling on day, preserving input order.
func ForDay(occs []Occurrence, day time.Time) []Occurrence {
	var out []Occurrence
	for _, o := range occs {
		if SameDay(o.Date, day) {
			out = append(out, o)
		}
	}
	return out
}

// CountForRange counts the tasks visible per day across [start, end]
// inclusive. Within one date, repeated occurrences of the same task count
// once: the badge reflects distinct tasks that day, not occurrence rows.
func CountForRange(occs []Occurrence, start, end time.Time) int {
	startDay := TruncateToDay(start)
	endDay := TruncateToDay(end)

	seen := make(map[string]map[int]bool)
	count := 0
	for _, o := range occs {
		if o.Date.Before(startDay) || o.Date.After(endDay) {
			continue
		}
		key := DateKey(o.Date)
		ids := seen[key]
		if ids == nil {
			ids = make(map[int]bool)
			seen[key] = ids
		}
		if ids[o.TaskID] {
			continue
		}
		ids[o.TaskID] = true
		count++
	}
	return count
}

// CountForDay is CountForRange over a single date.
func CountForDay(occs []Occurrence, day time.Time) int {
	return CountForRange(occs, day, day)
}
