package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/calendar"
	"github.com/smarttask/smarttask/internal/ics"
)

// scheduledOccurrences loads the user's scheduled tasks and expands them
// into concrete calendar occurrences.
func (h *Handlers) scheduledOccurrences(ctx context.Context, userID int64) ([]calendar.Occurrence, error) {
	tasks, err := h.repos.Task.GetScheduled(ctx, userID)
	if err != nil {
		return nil, err
	}
	return calendar.Expand(tasks), nil
}

func (h *Handlers) handleDayView(ctx context.Context, msg *tgbotapi.Message) {
	day := time.Now()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		t, err := time.ParseInLocation("2006-01-02", args, day.Location())
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Could not parse the date, use YYYY-MM-DD")
			return
		}
		day = t
	}

	occs, err := h.scheduledOccurrences(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch the calendar, please try again later")
		return
	}

	dayOccs := calendar.ForDay(occs, day)
	if len(dayOccs) == 0 {
		h.sendMessage(msg.Chat.ID, fmt.Sprintf("🗓 Nothing scheduled on %s", day.Format("2006-01-02 (Mon)")))
		return
	}

	slots := calendar.Layout(dayOccs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🗓 *%s*\n\n", day.Format("2006-01-02 (Monday)")))
	for _, occ := range dayOccs {
		sb.WriteString(formatOccurrenceLine(occ, slots[occ.ID]))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func formatOccurrenceLine(occ calendar.Occurrence, slot calendar.Slot) string {
	var sb strings.Builder

	if occ.Start.Equal(occ.End) {
		sb.WriteString(fmt.Sprintf("• *%s* %s", occ.End.Format("15:04"), occ.Task.Title))
	} else {
		sb.WriteString(fmt.Sprintf("• *%s–%s* %s", occ.Start.Format("15:04"), occ.End.Format("15:04"), occ.Task.Title))
	}

	// Column position only matters when the day has overlaps.
	if slot.Columns > 1 {
		sb.WriteString(fmt.Sprintf(" ⫼%d/%d", slot.Column+1, slot.Columns))
	}
	if occ.Recurring {
		sb.WriteString(" 🔁")
	}
	if occ.MultiDay {
		sb.WriteString(" ⏳")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (h *Handlers) handleWeekView(ctx context.Context, msg *tgbotapi.Message) {
	ref := time.Now()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		t, err := time.ParseInLocation("2006-01-02", args, ref.Location())
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Could not parse the date, use YYYY-MM-DD")
			return
		}
		ref = t
	}

	occs, err := h.scheduledOccurrences(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch the calendar, please try again later")
		return
	}

	week := calendar.WeekDates(ref)
	byDate := calendar.ByDate(occs)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *Week of %s*\n\n", week[0].Format("2006-01-02")))
	for _, day := range week {
		dayOccs := byDate[calendar.DateKey(day)]
		marker := "  "
		if calendar.SameDay(day, time.Now()) {
			marker = "▸ "
		}
		sb.WriteString(fmt.Sprintf("%s*%s*", marker, day.Format("Mon 01-02")))
		if len(dayOccs) == 0 {
			sb.WriteString(" —\n")
			continue
		}
		sb.WriteString("\n")
		for _, occ := range dayOccs {
			sb.WriteString(fmt.Sprintf("    %s %s\n", occ.End.Format("15:04"), truncateString(occ.Task.Title, 30)))
		}
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleMonthView(ctx context.Context, msg *tgbotapi.Message) {
	ref := time.Now()
	if args := strings.TrimSpace(msg.CommandArguments()); args != "" {
		t, err := time.ParseInLocation("2006-01", args, ref.Location())
		if err != nil {
			h.sendMessage(msg.Chat.ID, "Could not parse the month, use YYYY-MM")
			return
		}
		ref = t
	}

	occs, err := h.scheduledOccurrences(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch the calendar, please try again later")
		return
	}

	grid := h.grids.MonthGrid(ref)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📅 *%s*\n", ref.Format("January 2006")))
	sb.WriteString("```\nSu Mo Tu We Th Fr Sa\n")
	for _, week := range grid {
		for _, day := range week {
			if day.Month() != ref.Month() {
				sb.WriteString(" · ")
				continue
			}
			if calendar.CountForDay(occs, day) > 0 {
				sb.WriteString(fmt.Sprintf("%2d*", day.Day()))
			} else {
				sb.WriteString(fmt.Sprintf("%2d ", day.Day()))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	total := calendar.CountForRange(occs, start, end)
	sb.WriteString(fmt.Sprintf("%d task(s) scheduled this month\nUse /day YYYY-MM-DD for details", total))

	h.sendMessage(msg.Chat.ID, sb.String())
}

func (h *Handlers) handleExport(ctx context.Context, msg *tgbotapi.Message) {
	all, err := h.scheduledOccurrences(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch the calendar, please try again later")
		return
	}

	// Export the next 30 days
	now := time.Now()
	from := calendar.TruncateToDay(now)
	to := from.AddDate(0, 0, 30)
	var occs []calendar.Occurrence
	for _, occ := range all {
		if !occ.Date.Before(from) && occ.Date.Before(to) {
			occs = append(occs, occ)
		}
	}

	if len(occs) == 0 {
		h.sendMessage(msg.Chat.ID, "🗓 Nothing scheduled in the next 30 days")
		return
	}

	data := ics.Export(occs, now)
	file := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("smarttask-%s.ics", time.Now().Format("2006-01-02")),
		Bytes: []byte(data),
	}

	doc := tgbotapi.NewDocument(msg.Chat.ID, file)
	doc.Caption = fmt.Sprintf("📤 %d occurrence(s) exported", len(occs))
	if _, err := h.api.Send(doc); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to send the export, please try again later")
	}
}
