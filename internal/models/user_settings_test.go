package models

import (
	"testing"
	"time"
)

func TestIsQuietHours(t *testing.T) {
	settings := &UserSettings{
		Timezone:   "UTC",
		QuietStart: "22:00",
		QuietEnd:   "08:00",
	}

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"midnight", time.Date(2024, 2, 5, 0, 30, 0, 0, time.UTC), true},
		{"late evening", time.Date(2024, 2, 5, 23, 0, 0, 0, time.UTC), true},
		{"start boundary", time.Date(2024, 2, 5, 22, 0, 0, 0, time.UTC), true},
		{"end boundary", time.Date(2024, 2, 5, 8, 0, 0, 0, time.UTC), false},
		{"midday", time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := settings.IsQuietHours(tt.at); got != tt.want {
				t.Errorf("IsQuietHours(%s) = %v, want %v", tt.at.Format("15:04"), got, tt.want)
			}
		})
	}

	t.Run("daytime window", func(t *testing.T) {
		day := &UserSettings{Timezone: "UTC", QuietStart: "12:00", QuietEnd: "14:00"}
		if !day.IsQuietHours(time.Date(2024, 2, 5, 13, 0, 0, 0, time.UTC)) {
			t.Error("13:00 should be inside a 12:00-14:00 window")
		}
		if day.IsQuietHours(time.Date(2024, 2, 5, 15, 0, 0, 0, time.UTC)) {
			t.Error("15:00 should be outside a 12:00-14:00 window")
		}
	})
}

func TestShouldSendDigest(t *testing.T) {
	now := time.Date(2024, 2, 5, 9, 0, 0, 0, time.UTC)

	base := func() *UserSettings {
		return &UserSettings{
			Timezone:      "UTC",
			DigestEnabled: true,
			DigestTime:    "08:00",
		}
	}

	t.Run("due", func(t *testing.T) {
		if !base().ShouldSendDigest(now) {
			t.Error("digest past its time should be due")
		}
	})

	t.Run("disabled", func(t *testing.T) {
		s := base()
		s.DigestEnabled = false
		if s.ShouldSendDigest(now) {
			t.Error("disabled digest should never be due")
		}
	})

	t.Run("before digest time", func(t *testing.T) {
		s := base()
		s.DigestTime = "10:00"
		if s.ShouldSendDigest(now) {
			t.Error("digest before its configured time should not be due")
		}
	})

	t.Run("already sent today", func(t *testing.T) {
		s := base()
		sent := time.Date(2024, 2, 5, 8, 1, 0, 0, time.UTC)
		s.LastDigestDate = &sent
		if s.ShouldSendDigest(now) {
			t.Error("digest already sent today should not repeat")
		}
	})

	t.Run("sent yesterday", func(t *testing.T) {
		s := base()
		sent := time.Date(2024, 2, 4, 8, 1, 0, 0, time.UTC)
		s.LastDigestDate = &sent
		if !s.ShouldSendDigest(now) {
			t.Error("digest sent yesterday should be due again today")
		}
	})
}
