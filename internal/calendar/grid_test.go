package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid(t *testing.T) {
	refs := []time.Time{
		time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),  // leap February
		time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC),   // month starting on Sunday
		time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), // month ending on Wednesday
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
	}

	for _, ref := range refs {
		t.Run(ref.Format("2006-01"), func(t *testing.T) {
			grid := MonthGrid(ref)

			var days []time.Time
			for _, week := range grid {
				if len(week) != 7 {
					t.Fatalf("week has %d days", len(week))
				}
				days = append(days, week...)
			}

			if days[0].Weekday() != time.Sunday {
				t.Errorf("grid starts on %v, want Sunday", days[0].Weekday())
			}
			if days[len(days)-1].Weekday() != time.Saturday {
				t.Errorf("grid ends on %v, want Saturday", days[len(days)-1].Weekday())
			}

			first := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
			last := first.AddDate(0, 1, -1)
			containsFirst, containsLast := false, false
			for i, d := range days {
				if i > 0 && !d.Equal(days[i-1].AddDate(0, 0, 1)) {
					t.Fatalf("gap between %v and %v", days[i-1], d)
				}
				if d.Equal(first) {
					containsFirst = true
				}
				if d.Equal(last) {
					containsLast = true
				}
			}
			if !containsFirst || !containsLast {
				t.Errorf("grid missing month boundary: first=%v last=%v", containsFirst, containsLast)
			}
		})
	}
}

func TestWeekDates(t *testing.T) {
	ref := time.Date(2024, 2, 7, 15, 30, 0, 0, time.UTC) // a Wednesday
	dates := WeekDates(ref)

	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if DateKey(dates[0]) != "2024-02-04" {
		t.Errorf("got week start %s, want 2024-02-04", DateKey(dates[0]))
	}
	if DateKey(dates[6]) != "2024-02-10" {
		t.Errorf("got week end %s, want 2024-02-10", DateKey(dates[6]))
	}

	containsRef := false
	for _, d := range dates {
		if SameDay(d, ref) {
			containsRef = true
		}
	}
	if !containsRef {
		t.Error("week does not contain the reference date")
	}
}

func TestByDate(t *testing.T) {
	occs := []Occurrence{
		occ("a", 9, 0, 10, 0),
		occ("b", 11, 0, 12, 0),
	}
	occs[1].Date = occs[1].Date.AddDate(0, 0, 1)

	buckets := ByDate(occs)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if len(buckets["2024-02-05"]) != 1 || buckets["2024-02-05"][0].ID != "a" {
		t.Errorf("unexpected bucket for 2024-02-05: %+v", buckets["2024-02-05"])
	}
}

func TestCountForDay_Dedup(t *testing.T) {
	day := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)
	a := occ("1-day-0", 9, 0, 10, 0)
	a.TaskID = 1
	b := occ("1-recurring-3", 11, 0, 12, 0)
	b.TaskID = 1
	c := occ("2", 13, 0, 14, 0)
	c.TaskID = 2

	occs := []Occurrence{a, b, c}

	// The render list keeps every row; the count collapses same-task rows.
	if got := len(ForDay(occs, day)); got != 3 {
		t.Errorf("render list: got %d rows, want 3", got)
	}
	if got := CountForDay(occs, day); got != 2 {
		t.Errorf("count: got %d, want 2", got)
	}
}

func TestCountForRange(t *testing.T) {
	a := occ("1", 9, 0, 10, 0)
	a.TaskID = 1
	b := occ("2", 9, 0, 10, 0)
	b.TaskID = 2
	b.Date = b.Date.AddDate(0, 0, 1)
	outside := occ("3", 9, 0, 10, 0)
	outside.TaskID = 3
	outside.Date = outside.Date.AddDate(0, 0, 30)

	occs := []Occurrence{a, b, outside}
	start := time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)

	if got := CountForRange(occs, start, end); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}
