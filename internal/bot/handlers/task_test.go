package handlers

import (
	"testing"
	"time"
)

func TestParseRepeatClause(t *testing.T) {
	t.Run("interval only", func(t *testing.T) {
		days, until, err := parseRepeatClause("every 7d")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 7 {
			t.Errorf("days = %d, want 7", days)
		}
		if until != nil {
			t.Errorf("until = %v, want nil", until)
		}
	})

	t.Run("with until", func(t *testing.T) {
		days, until, err := parseRepeatClause("every 2d until 2026-12-31")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 2 {
			t.Errorf("days = %d, want 2", days)
		}
		if until == nil {
			t.Fatal("until = nil, want a date")
		}
		want := time.Date(2026, 12, 31, 0, 0, 0, 0, time.Now().Location())
		if !until.Equal(want) {
			t.Errorf("until = %v, want %v", until, want)
		}
	})

	t.Run("bare number", func(t *testing.T) {
		days, _, err := parseRepeatClause("every 3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if days != 3 {
			t.Errorf("days = %d, want 3", days)
		}
	})

	for _, clause := range []string{"", "weekly", "every", "every 0d", "every xd", "every 2d until notadate"} {
		if _, _, err := parseRepeatClause(clause); err == nil {
			t.Errorf("parseRepeatClause(%q) should fail", clause)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := truncateString("short", 10); got != "short" {
		t.Errorf("truncateString(short) = %q", got)
	}
	if got := truncateString("a longer title here", 8); got != "a longer..." {
		t.Errorf("truncateString long = %q", got)
	}
}
