package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/calendar"
)

// handleAIShowAgendaResult renders a calendar view for the AI path. The
// view parameter selects day, week or month, date anchors it.
func (h *Handlers) handleAIShowAgendaResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	ref := aiTime(params, "date", time.Now())

	occs, err := h.scheduledOccurrences(ctx, msg.From.ID)
	if err != nil {
		result := "Failed to fetch the calendar, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var result string
	switch params["view"] {
	case "week":
		result = renderWeekAgenda(occs, ref)
	case "month":
		result = renderMonthAgenda(occs, ref)
	default:
		result = renderDayAgenda(occs, ref)
	}

	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func renderDayAgenda(occs []calendar.Occurrence, day time.Time) string {
	dayOccs := calendar.ForDay(occs, day)
	if len(dayOccs) == 0 {
		return fmt.Sprintf("Nothing scheduled on %s", day.Format("2006-01-02 (Mon)"))
	}

	slots := calendar.Layout(dayOccs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Agenda for %s\n\n", day.Format("2006-01-02 (Monday)")))
	for _, occ := range dayOccs {
		sb.WriteString(formatOccurrenceLine(occ, slots[occ.ID]))
	}
	return sb.String()
}

func renderWeekAgenda(occs []calendar.Occurrence, ref time.Time) string {
	week := calendar.WeekDates(ref)
	byDate := calendar.ByDate(occs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Week of %s\n\n", week[0].Format("2006-01-02")))
	empty := true
	for _, day := range week {
		dayOccs := byDate[calendar.DateKey(day)]
		if len(dayOccs) == 0 {
			continue
		}
		empty = false
		sb.WriteString(fmt.Sprintf("%s\n", day.Format("Mon 01-02")))
		for _, occ := range dayOccs {
			sb.WriteString(fmt.Sprintf("  %s %s\n", occ.End.Format("15:04"), occ.Task.Title))
		}
	}
	if empty {
		return fmt.Sprintf("Nothing scheduled in the week of %s", week[0].Format("2006-01-02"))
	}
	return sb.String()
}

func renderMonthAgenda(occs []calendar.Occurrence, ref time.Time) string {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	total := calendar.CountForRange(occs, start, end)
	if total == 0 {
		return fmt.Sprintf("Nothing scheduled in %s", ref.Format("January 2006"))
	}
	return fmt.Sprintf("%d task(s) scheduled in %s, ask me about a specific day for details", total, ref.Format("January 2006"))
}
