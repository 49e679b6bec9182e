package calendar

import (
	"reflect"
	"testing"
	"time"

	"github.com/smarttask/smarttask/internal/models"
)

func at(y int, m time.Month, d, hour, min int) *time.Time {
	t := time.Date(y, m, d, hour, min, 0, 0, time.UTC)
	return &t
}

func TestExpand_SingleDay(t *testing.T) {
	task := &models.Task{
		TaskID:    7,
		Title:     "standup",
		StartTime: at(2024, 1, 15, 9, 0),
		EndTime:   at(2024, 1, 15, 9, 30),
	}

	occs := Expand([]*models.Task{task})
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}

	occ := occs[0]
	if occ.ID != "7" {
		t.Errorf("got id %q, want %q", occ.ID, "7")
	}
	if occ.TaskID != 7 {
		t.Errorf("got task id %d, want 7", occ.TaskID)
	}
	if DateKey(occ.Date) != "2024-01-15" {
		t.Errorf("got date %s, want 2024-01-15", DateKey(occ.Date))
	}
	if occ.Recurring || occ.MultiDay {
		t.Errorf("expected plain occurrence, got recurring=%v multiDay=%v", occ.Recurring, occ.MultiDay)
	}
}

func TestExpand_MultiDay(t *testing.T) {
	task := &models.Task{
		TaskID:    3,
		StartTime: at(2024, 1, 1, 10, 0),
		EndTime:   at(2024, 1, 3, 12, 0),
	}

	occs := Expand([]*models.Task{task})
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occs))
	}

	wantDates := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	wantIDs := []string{"3-day-0", "3-day-1", "3-day-2"}
	for i, occ := range occs {
		if DateKey(occ.Date) != wantDates[i] {
			t.Errorf("occurrence %d: got date %s, want %s", i, DateKey(occ.Date), wantDates[i])
		}
		if occ.ID != wantIDs[i] {
			t.Errorf("occurrence %d: got id %q, want %q", i, occ.ID, wantIDs[i])
		}
		if !occ.MultiDay {
			t.Errorf("occurrence %d: expected MultiDay", i)
		}
		// Instants stay unclipped so layout sees the true duration.
		if !occ.Start.Equal(*task.StartTime) || !occ.End.Equal(*task.EndTime) {
			t.Errorf("occurrence %d: instants clipped: %v - %v", i, occ.Start, occ.End)
		}
	}
}

func TestExpand_Unscheduled(t *testing.T) {
	task := &models.Task{TaskID: 1, Title: "someday", StartTime: at(2024, 1, 1, 9, 0)}

	if occs := Expand([]*models.Task{task}); len(occs) != 0 {
		t.Fatalf("expected no occurrences for task without end time, got %d", len(occs))
	}
}

func TestExpand_NoStart(t *testing.T) {
	task := &models.Task{TaskID: 2, EndTime: at(2024, 3, 10, 17, 0)}

	occs := Expand([]*models.Task{task})
	if len(occs) != 1 {
		t.Fatalf("expected 1 occurrence, got %d", len(occs))
	}
	occ := occs[0]
	if DateKey(occ.Date) != "2024-03-10" {
		t.Errorf("got date %s, want 2024-03-10", DateKey(occ.Date))
	}
	if !occ.Start.Equal(occ.End) {
		t.Errorf("expected zero-duration occurrence, got %v - %v", occ.Start, occ.End)
	}
}

func TestExpand_EndBeforeStart(t *testing.T) {
	task := &models.Task{
		TaskID:    9,
		StartTime: at(2024, 5, 10, 9, 0),
		EndTime:   at(2024, 5, 8, 9, 0),
	}

	occs := Expand([]*models.Task{task})
	if len(occs) != 1 {
		t.Fatalf("expected fallback occurrence, got %d", len(occs))
	}
	if DateKey(occs[0].Date) != "2024-05-08" {
		t.Errorf("fallback should anchor at end date, got %s", DateKey(occs[0].Date))
	}
}

func TestExpand_BadTaskDoesNotAbortBatch(t *testing.T) {
	tasks := []*models.Task{
		{TaskID: 1, StartTime: at(2024, 5, 10, 9, 0), EndTime: at(2024, 5, 1, 9, 0)},
		{TaskID: 2, StartTime: at(2024, 5, 2, 9, 0), EndTime: at(2024, 5, 2, 10, 0)},
	}

	occs := Expand(tasks)
	if len(occs) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(occs))
	}
	if occs[1].TaskID != 2 {
		t.Errorf("second task missing from batch")
	}
}

func TestExpand_RecurrenceHorizon(t *testing.T) {
	// Daily recurrence with no cap runs to start+365 days inclusive.
	task := &models.Task{
		TaskID:        4,
		StartTime:     at(2024, 1, 1, 8, 0),
		EndTime:       at(2024, 1, 1, 9, 0),
		RecurringDays: 1,
	}

	occs := Expand([]*models.Task{task})
	if len(occs) != 366 {
		t.Fatalf("expected 366 occurrences, got %d", len(occs))
	}
	if len(occs) > maxRecurrenceSteps+1 {
		t.Fatalf("recurrence exceeded hard cap: %d", len(occs))
	}

	first, last := occs[0], occs[len(occs)-1]
	if DateKey(first.Date) != "2024-01-01" {
		t.Errorf("got first date %s, want 2024-01-01", DateKey(first.Date))
	}
	if DateKey(last.Date) != "2024-12-31" {
		t.Errorf("got last date %s, want 2024-12-31", DateKey(last.Date))
	}
	for _, occ := range occs {
		if !occ.Recurring {
			t.Fatalf("occurrence %s not flagged recurring", occ.ID)
		}
	}
}

func TestExpand_RecurringUntil(t *testing.T) {
	task := &models.Task{
		TaskID:         5,
		StartTime:      at(2024, 1, 1, 9, 0),
		EndTime:        at(2024, 1, 1, 10, 0),
		RecurringDays:  2,
		RecurringUntil: at(2024, 1, 7, 0, 0),
	}

	occs := Expand([]*models.Task{task})
	// 01-01, 01-03, 01-05; 01-07 09:00 is past the cap.
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occs))
	}

	wantIDs := []string{"5-recurring-0", "5-recurring-1", "5-recurring-2"}
	for i, occ := range occs {
		if occ.ID != wantIDs[i] {
			t.Errorf("occurrence %d: got id %q, want %q", i, occ.ID, wantIDs[i])
		}
	}

	// Repeats keep the original time of day on the iteration date.
	third := occs[2]
	wantStart := time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)
	if !third.Start.Equal(wantStart) {
		t.Errorf("got start %v, want %v", third.Start, wantStart)
	}
}

func TestExpand_RecurringMultiDay(t *testing.T) {
	// Recurrence and multi-day span compose: repetitions x per-day slices.
	task := &models.Task{
		TaskID:         6,
		StartTime:      at(2024, 1, 1, 10, 0),
		EndTime:        at(2024, 1, 2, 12, 0),
		RecurringDays:  7,
		RecurringUntil: at(2024, 1, 14, 0, 0),
	}

	occs := Expand([]*models.Task{task})
	if len(occs) != 4 {
		t.Fatalf("expected 4 occurrences (2 repeats x 2 days), got %d", len(occs))
	}

	occ := occs[3] // second repeat, second day
	if occ.ID != "6-recurring-1-day-1" {
		t.Errorf("got id %q, want 6-recurring-1-day-1", occ.ID)
	}
	if DateKey(occ.Date) != "2024-01-09" {
		t.Errorf("got date %s, want 2024-01-09", DateKey(occ.Date))
	}
	// Shifted from the original anchor, not compounded from the cursor.
	wantStart := time.Date(2024, 1, 8, 10, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)
	if !occ.Start.Equal(wantStart) || !occ.End.Equal(wantEnd) {
		t.Errorf("got instants %v - %v, want %v - %v", occ.Start, occ.End, wantStart, wantEnd)
	}
	if !occ.Recurring || !occ.MultiDay {
		t.Errorf("expected recurring multi-day flags, got %v %v", occ.Recurring, occ.MultiDay)
	}
}

func TestExpand_UntilBeforeStart(t *testing.T) {
	task := &models.Task{
		TaskID:         8,
		StartTime:      at(2024, 6, 1, 9, 0),
		EndTime:        at(2024, 6, 1, 10, 0),
		RecurringDays:  1,
		RecurringUntil: at(2024, 5, 1, 0, 0),
	}

	if occs := Expand([]*models.Task{task}); len(occs) != 0 {
		t.Fatalf("expected no occurrences when cap precedes start, got %d", len(occs))
	}
}

func TestExpand_Deterministic(t *testing.T) {
	build := func() []*models.Task {
		return []*models.Task{
			{TaskID: 1, StartTime: at(2024, 1, 1, 9, 0), EndTime: at(2024, 1, 3, 10, 0)},
			{TaskID: 2, StartTime: at(2024, 1, 2, 9, 0), EndTime: at(2024, 1, 2, 10, 0), RecurringDays: 3},
			{TaskID: 3, EndTime: at(2024, 1, 5, 12, 0)},
		}
	}

	first := Expand(build())
	second := Expand(build())
	if !reflect.DeepEqual(first, second) {
		t.Fatal("expansion is not deterministic for equal inputs")
	}
}
