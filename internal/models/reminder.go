package models

import "time"

type Reminder struct {
	ReminderID     int        `json:"reminder_id"`
	UserID         int64      `json:"user_id"`
	Enabled        bool       `json:"enabled"`
	Message        string     `json:"message"`
	Description    string     `json:"description"`
	RemindAt       *time.Time `json:"remind_at"`       // next scheduled fire time
	Dtstart        *time.Time `json:"dtstart"`         // first occurrence, anchor for RRULE
	RecurrenceRule string     `json:"recurrence_rule"` // RFC 5545 RRULE, empty = one-shot
	NotifiedAt     *time.Time `json:"notified_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at"`
	LastMessageID  *int       `json:"last_message_id"` // previous notification, deleted before resend
	CreatedAt      time.Time  `json:"created_at"`
}

// IsRecurring returns true if this reminder has a recurrence rule.
func (r *Reminder) IsRecurring() bool {
	return r.RecurrenceRule != ""
}
