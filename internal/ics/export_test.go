package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/smarttask/smarttask/internal/calendar"
	"github.com/smarttask/smarttask/internal/models"
)

func TestExport(t *testing.T) {
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	task := &models.Task{
		TaskID:      12,
		Title:       "design review",
		Location:    "room 2",
		Description: "bring the mockups",
		StartTime:   &start,
		EndTime:     &end,
	}

	occs := calendar.Expand([]*models.Task{task})
	doc := Export(occs, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC))

	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"END:VCALENDAR",
		"BEGIN:VEVENT",
		"SUMMARY:design review",
		"LOCATION:room 2",
		"UID:12@smarttask",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestExport_OneEventPerOccurrence(t *testing.T) {
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	task := &models.Task{TaskID: 3, Title: "offsite", StartTime: &start, EndTime: &end}

	occs := calendar.Expand([]*models.Task{task})
	doc := Export(occs, time.Now())

	if got := strings.Count(doc, "BEGIN:VEVENT"); got != len(occs) {
		t.Errorf("got %d events for %d occurrences", got, len(occs))
	}
}

func TestExport_Empty(t *testing.T) {
	doc := Export(nil, time.Now())
	if !strings.Contains(doc, "BEGIN:VCALENDAR") {
		t.Error("empty export should still be a valid calendar")
	}
	if strings.Contains(doc, "BEGIN:VEVENT") {
		t.Error("empty export should contain no events")
	}
}
