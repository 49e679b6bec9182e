// Package ics renders expanded calendar occurrences as an iCalendar
// document, so tasks can be pulled into external calendar clients.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/smarttask/smarttask/internal/calendar"
)

const prodID = "-//SmartTask//Task Calendar//EN"

// Export serializes occurrences into an ICS document. Each occurrence
// becomes one VEVENT; the occurrence ID keeps recurring and multi-day
// instances distinct, and the task ID travels along for round-tripping.
func Export(occs []calendar.Occurrence, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	for _, occ := range occs {
		if occ.Task == nil {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("%s@smarttask", occ.ID))
		event.SetDtStampTime(now)
		event.SetSummary(occ.Task.Title)
		if occ.Task.Description != "" {
			event.SetDescription(occ.Task.Description)
		}
		if occ.Task.Location != "" {
			event.SetLocation(occ.Task.Location)
		}

		if occ.Start.Equal(occ.End) {
			// Zero-duration: an all-day marker on the occurrence date.
			event.SetAllDayStartAt(occ.Date)
			event.SetAllDayEndAt(occ.Date.AddDate(0, 0, 1))
		} else {
			event.SetStartAt(occ.Start)
			event.SetEndAt(occ.End)
		}
	}

	return cal.Serialize()
}
