package scheduler

import (
	"strings"
	"testing"
	"time"

	"github.com/smarttask/smarttask/internal/calendar"
	"github.com/smarttask/smarttask/internal/models"
)

func TestFormatDueTime(t *testing.T) {
	now := time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC)
	at := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name string
		due  *time.Time
		want string
	}{
		{"nil", nil, ""},
		{"overdue minutes", at(now.Add(-30 * time.Minute)), "overdue by 30 min"},
		{"overdue hours", at(now.Add(-3 * time.Hour)), "overdue by 3 h"},
		{"overdue days", at(now.Add(-50 * time.Hour)), "overdue by 2 d"},
		{"minutes left", at(now.Add(45 * time.Minute)), "45 min left"},
		{"hours left", at(now.Add(5 * time.Hour)), "5 h left"},
		{"tomorrow", at(now.Add(26 * time.Hour)), "tomorrow 14:00"},
		{"far out", at(now.Add(100 * time.Hour)), "02/09 16:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatDueTime(tt.due, now); got != tt.want {
				t.Errorf("formatDueTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetGreeting(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{6, "Good morning"},
		{11, "Good morning"},
		{12, "Good afternoon"},
		{17, "Good afternoon"},
		{18, "Good evening"},
		{3, "Good evening"},
	}
	for _, tt := range tests {
		if got := getGreeting(tt.hour); got != tt.want {
			t.Errorf("getGreeting(%d) = %q, want %q", tt.hour, got, tt.want)
		}
	}
}

func TestBuildDigestText(t *testing.T) {
	now := time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC)

	t.Run("empty day", func(t *testing.T) {
		text := buildDigestText(nil, nil, now, time.UTC)
		if !strings.Contains(text, "Nothing scheduled today") {
			t.Errorf("digest missing empty-schedule line:\n%s", text)
		}
		if !strings.Contains(text, "Nothing due in the next two days") {
			t.Errorf("digest missing empty-due line:\n%s", text)
		}
	})

	t.Run("busy day", func(t *testing.T) {
		task := &models.Task{TaskID: 1, Title: "Write report", Priority: 5}
		end := time.Date(2024, 2, 5, 15, 0, 0, 0, time.UTC)
		task.EndTime = &end

		occ := calendar.Occurrence{
			ID:   "1",
			Task: task,
			Date: now,
			End:  end,
		}

		text := buildDigestText([]calendar.Occurrence{occ}, []*models.Task{task}, now, time.UTC)
		if !strings.Contains(text, "Write report") {
			t.Errorf("digest missing task title:\n%s", text)
		}
		if !strings.Contains(text, "15:00") {
			t.Errorf("digest missing occurrence time:\n%s", text)
		}
		if !strings.Contains(text, "⭐") {
			t.Errorf("digest missing priority marker:\n%s", text)
		}
	})
}
