// Package calendar turns stored tasks into renderable calendar occurrences:
// one occurrence per (task, visible day) pair, with recurrence materialized
// and multi-day spans split per day. All functions are pure and operate only
// on their inputs, so callers may invoke them concurrently and memoize
// results freely.
package calendar

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/smarttask/smarttask/internal/models"
)

const (
	// recurrenceHorizonDays caps recurrence when a task has no explicit
	// recurring_until. Safety bound, not a product default.
	recurrenceHorizonDays = 365

	// maxRecurrenceSteps is a hard stop against runaway expansion.
	maxRecurrenceSteps = 1000
)

// Occurrence is a single renderable instance of a task on one calendar day.
// Occurrences are derived fresh on every expansion and never persisted; when
// a client selects one, TaskID maps it back to the stored task.
type Occurrence struct {
	// ID is unique within one expansion and deterministic for a given
	// input, built from the task ID plus recurrence and day indices.
	ID     string
	TaskID int
	Task   *models.Task

	// Date is the day-truncated calendar date this occurrence falls on.
	Date time.Time

	// Start and End are the occurrence's own instants. Recurring tasks get
	// shifted copies of the original instants; per-day slices of a
	// multi-day task keep the original instants unclipped so layout can
	// still see the true duration.
	Start time.Time
	End   time.Time

	Recurring bool
	MultiDay  bool
}

// Expand materializes every task into its calendar occurrences. Tasks with
// no end time are unscheduled and produce nothing. A malformed task never
// aborts the batch; it degrades to a best-effort single occurrence.
func Expand(tasks []*models.Task) []Occurrence {
	occs := make([]Occurrence, 0, len(tasks))
	for _, t := range tasks {
		occs = append(occs, expandTask(t)...)
	}
	return occs
}

func expandTask(t *models.Task) []Occurrence {
	if t.EndTime == nil {
		return nil // unscheduled, board-only
	}
	end := *t.EndTime

	if t.StartTime == nil {
		// No start: zero-duration occurrence anchored at the end instant.
		return []Occurrence{anchoredAt(t, end)}
	}
	start := *t.StartTime

	days := wholeDayDelta(start, end)
	if days < 0 {
		// End before start. Don't drop the task: fall back to a single
		// occurrence on the end date and keep processing the batch.
		log.Printf("calendar: task %d end precedes start, using fallback occurrence", t.TaskID)
		return []Occurrence{anchoredAt(t, end)}
	}

	if t.RecurringDays > 0 {
		return expandRecurring(t, start, end, days)
	}

	if days > 0 {
		out := make([]Occurrence, 0, days+1)
		for offset := 0; offset <= days; offset++ {
			out = append(out, Occurrence{
				ID:       fmt.Sprintf("%d-day-%d", t.TaskID, offset),
				TaskID:   t.TaskID,
				Task:     t,
				Date:     TruncateToDay(start.AddDate(0, 0, offset)),
				Start:    start,
				End:      end,
				MultiDay: true,
			})
		}
		return out
	}

	return []Occurrence{{
		ID:     strconv.Itoa(t.TaskID),
		TaskID: t.TaskID,
		Task:   t,
		Date:   TruncateToDay(end),
		Start:  start,
		End:    end,
	}}
}

// expandRecurring walks the recurrence interval from the original start up
// to min(recurring_until, start+365d). Shifted instants are offset from the
// original anchor by index*interval days rather than compounded, so drift
// cannot accumulate across repetitions.
func expandRecurring(t *models.Task, start, end time.Time, days int) []Occurrence {
	bound := start.AddDate(0, 0, recurrenceHorizonDays)
	if t.RecurringUntil != nil && t.RecurringUntil.Before(bound) {
		bound = *t.RecurringUntil
	}

	var out []Occurrence
	current := start
	for index := 0; !current.After(bound); index++ {
		if index > maxRecurrenceSteps {
			log.Printf("calendar: task %d recurrence stopped at %d steps", t.TaskID, maxRecurrenceSteps)
			break
		}

		if days > 0 {
			shiftedStart := start.AddDate(0, 0, index*t.RecurringDays)
			shiftedEnd := end.AddDate(0, 0, index*t.RecurringDays)
			for offset := 0; offset <= days; offset++ {
				out = append(out, Occurrence{
					ID:        fmt.Sprintf("%d-recurring-%d-day-%d", t.TaskID, index, offset),
					TaskID:    t.TaskID,
					Task:      t,
					Date:      TruncateToDay(current.AddDate(0, 0, offset)),
					Start:     shiftedStart,
					End:       shiftedEnd,
					Recurring: true,
					MultiDay:  true,
				})
			}
		} else {
			// Single-day repeat: iteration date, original time of day.
			out = append(out, Occurrence{
				ID:        fmt.Sprintf("%d-recurring-%d", t.TaskID, index),
				TaskID:    t.TaskID,
				Task:      t,
				Date:      TruncateToDay(current),
				Start:     onDay(current, start),
				End:       onDay(current, end),
				Recurring: true,
			})
		}

		current = current.AddDate(0, 0, t.RecurringDays)
	}
	return out
}

func anchoredAt(t *models.Task, at time.Time) Occurrence {
	return Occurrence{
		ID:     strconv.Itoa(t.TaskID),
		TaskID: t.TaskID,
		Task:   t,
		Date:   TruncateToDay(at),
		Start:  at,
		End:    at,
	}
}
