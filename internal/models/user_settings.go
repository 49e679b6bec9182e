package models

import "time"

// UserSettings holds per-user notification preferences.
type UserSettings struct {
	UserID         int64      `json:"user_id"`
	Timezone       string     `json:"timezone"`
	QuietStart     string     `json:"quiet_start"` // HH:MM
	QuietEnd       string     `json:"quiet_end"`   // HH:MM
	DigestEnabled  bool       `json:"digest_enabled"`
	DigestTime     string     `json:"digest_time"` // HH:MM, local to Timezone
	LastDigestDate *time.Time `json:"last_digest_date"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewDefaultUserSettings creates settings with default values.
func NewDefaultUserSettings(userID int64) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Timezone:      "UTC",
		QuietStart:    "22:00",
		QuietEnd:      "08:00",
		DigestEnabled: true,
		DigestTime:    "08:00",
		UpdatedAt:     time.Now(),
	}
}

// Location resolves the user's timezone, falling back to time.Local.
func (s *UserSettings) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// ShouldSendDigest checks whether the daily agenda digest is due: enabled,
// not yet sent today, and past the configured local digest time.
func (s *UserSettings) ShouldSendDigest(now time.Time) bool {
	if !s.DigestEnabled {
		return false
	}

	loc := s.Location()
	localNow := now.In(loc)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, loc)

	if s.LastDigestDate != nil {
		last := s.LastDigestDate.In(loc)
		lastDay := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, loc)
		if !lastDay.Before(today) {
			return false
		}
	}

	hour, min := parseClock(s.DigestTime)
	at := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), hour, min, 0, 0, loc)
	return !localNow.Before(at)
}

// IsQuietHours checks if t falls within the user's quiet hours.
func (s *UserSettings) IsQuietHours(t time.Time) bool {
	localTime := t.In(s.Location())
	current := localTime.Hour()*60 + localTime.Minute()

	startHour, startMin := parseClock(s.QuietStart)
	endHour, endMin := parseClock(s.QuietEnd)
	start := startHour*60 + startMin
	end := endHour*60 + endMin

	// Overnight windows (e.g. 22:00-08:00) span midnight.
	if start > end {
		return current >= start || current < end
	}
	return current >= start && current < end
}

// parseClock parses "HH:MM"; invalid input yields midnight.
func parseClock(clock string) (hour, min int) {
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return 0, 0
	}
	return t.Hour(), t.Minute()
}
