package rrule

import (
	"testing"
	"time"
)

func TestIntervalDays(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want int
	}{
		{"daily", "FREQ=DAILY", 1},
		{"every third day", "FREQ=DAILY;INTERVAL=3", 3},
		{"weekly", "FREQ=WEEKLY", 7},
		{"biweekly", "FREQ=WEEKLY;INTERVAL=2", 14},
		{"with prefix", "RRULE:FREQ=DAILY;INTERVAL=2", 2},
		{"weekly with byday", "FREQ=WEEKLY;BYDAY=MO,WE", 0},
		{"monthly", "FREQ=MONTHLY", 0},
		{"bad interval", "FREQ=DAILY;INTERVAL=abc", 0},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IntervalDays(tt.rule); got != tt.want {
				t.Errorf("IntervalDays(%q) = %d, want %d", tt.rule, got, tt.want)
			}
		})
	}
}

func TestIsRecurring(t *testing.T) {
	if !IsRecurring("FREQ=DAILY") {
		t.Error("FREQ=DAILY should be recurring")
	}
	if IsRecurring("") {
		t.Error("empty rule should not be recurring")
	}
	if IsRecurring("once") {
		t.Error("non-RRULE text should not be recurring")
	}
}

func TestNextOccurrence(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	t.Run("advances by interval", func(t *testing.T) {
		after := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
		next, err := NextOccurrence("FREQ=DAILY", dtstart, after)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next == nil {
			t.Fatal("expected an occurrence")
		}
		want := time.Date(2024, 1, 2, 9, 0, 0, 0, time.Local)
		if !next.Equal(want) {
			t.Errorf("got %v, want %v", next, want)
		}
	})

	t.Run("exhausted rule returns nil", func(t *testing.T) {
		after := time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local)
		next, err := NextOccurrence("FREQ=DAILY;COUNT=3", dtstart, after)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if next != nil {
			t.Errorf("expected nil, got %v", next)
		}
	})

	t.Run("invalid rule errors", func(t *testing.T) {
		if _, err := NextOccurrence("FREQ=SOMETIMES", dtstart, dtstart); err == nil {
			t.Error("expected error for invalid rule")
		}
	})
}

func TestNextOccurrenceStrict(t *testing.T) {
	dtstart := time.Date(2024, 1, 1, 9, 0, 0, 0, time.Local)

	next, err := NextOccurrenceStrict("FREQ=DAILY", dtstart, dtstart)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next == nil {
		t.Fatal("expected an occurrence")
	}
	if !next.After(dtstart) {
		t.Errorf("got %v, want strictly after %v", next, dtstart)
	}
}
