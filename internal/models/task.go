package models

import "time"

// Kanban board statuses.
const (
	StatusTodo  = "todo"
	StatusDoing = "doing"
	StatusDone  = "done"
)

// ValidStatus reports whether s is a known board status.
func ValidStatus(s string) bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	default:
		return false
	}
}

type Task struct {
	TaskID         int        `json:"task_id"`
	UserID         int64      `json:"user_id"`
	ProjectID      *int       `json:"project_id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Status         string     `json:"status"`
	Priority       int        `json:"priority"` // 0 (none) to 5 (highest)
	Location       string     `json:"location"`
	Tags           string     `json:"tags"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	RecurringDays  int        `json:"recurring_days"`  // repeat every N days, 0 = one-off
	RecurringUntil *time.Time `json:"recurring_until"` // recurrence cap, nil = default horizon
	CreatedAt      time.Time  `json:"created_at"`
}

// IsScheduled returns true if the task has an end time and therefore
// appears on the calendar. Tasks without one live only on the board.
func (t *Task) IsScheduled() bool {
	return t.EndTime != nil
}

// IsRecurring returns true if this task repeats on a day interval.
func (t *Task) IsRecurring() bool {
	return t.RecurringDays > 0
}

func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}
