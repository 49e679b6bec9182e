package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/models"
	"github.com/smarttask/smarttask/internal/rrule"
)

func (h *Handlers) handleReminder(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Please provide a time and message\nUsage: /remind <time> <message>\nExample: /remind 15:30 stand up")
		return
	}

	// Simple parsing: first word is time, rest is message. A full
	// "YYYY-MM-DD HH:MM" prefix takes three words.
	parts := strings.SplitN(args, " ", 2)
	if len(parts) < 2 {
		h.sendMessage(msg.Chat.ID, "Please provide a time and message\nExample: /remind 15:30 stand up")
		return
	}

	timeStr := parts[0]
	message := parts[1]
	if more := strings.SplitN(message, " ", 2); len(more) == 2 {
		if t := parseDateTime(timeStr + " " + more[0]); t != nil {
			h.createReminderAndReply(ctx, msg.Chat.ID, msg.From.ID, more[1], t)
			return
		}
	}

	remindAt := parseDateTime(timeStr)
	if remindAt == nil {
		h.sendMessage(msg.Chat.ID, "Could not parse the time, use HH:MM or YYYY-MM-DD HH:MM")
		return
	}
	h.createReminderAndReply(ctx, msg.Chat.ID, msg.From.ID, message, remindAt)
}

func (h *Handlers) createReminderAndReply(ctx context.Context, chatID, userID int64, message string, remindAt *time.Time) {
	reminder, err := h.CreateReminder(ctx, userID, message, remindAt, "")
	if err != nil {
		h.sendMessage(chatID, "Failed to create reminder, please try again later")
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("⏰ Reminder set (ID: %d)\nTime: %s\nMessage: %s",
		reminder.ReminderID, remindAt.Format("2006-01-02 15:04"), message))
}

func (h *Handlers) handleReminderList(ctx context.Context, msg *tgbotapi.Message) {
	reminders, err := h.repos.Reminder.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch reminders, please try again later")
		return
	}

	if len(reminders) == 0 {
		h.sendMessage(msg.Chat.ID, "⏰ No reminders")
		return
	}

	var sb strings.Builder
	sb.WriteString("⏰ *Reminders*\n\n")
	for _, r := range reminders {
		status := "✅"
		if !r.Enabled {
			status = "❌"
		}

		timeStr := "not set"
		if r.RemindAt != nil {
			timeStr = r.RemindAt.Format("2006-01-02 15:04")
		}

		sb.WriteString(fmt.Sprintf("%s *%d.* %s\n", status, r.ReminderID, r.Message))
		sb.WriteString(fmt.Sprintf("   📅 %s", timeStr))
		if r.IsRecurring() {
			anchor := time.Now()
			if r.Dtstart != nil {
				anchor = *r.Dtstart
			}
			sb.WriteString(fmt.Sprintf(" 🔁 %s", rrule.HumanReadable(r.RecurrenceRule, anchor)))
		}
		sb.WriteString("\n\n")
	}

	h.sendMessage(msg.Chat.ID, sb.String())
}

// handleReminderAck marks a fired reminder as acknowledged, so the
// scheduler stops renotifying it.
func (h *Handlers) handleReminderAck(ctx context.Context, callback *tgbotapi.CallbackQuery, reminderID int) {
	if err := h.repos.Reminder.Acknowledge(ctx, reminderID, callback.From.ID); err != nil {
		h.answerCallbackWithAlert(callback.ID, "Failed to acknowledge the reminder")
		return
	}

	text := callback.Message.Text + "\n\n👌 Acknowledged"
	edit := tgbotapi.NewEditMessageText(callback.Message.Chat.ID, callback.Message.MessageID, text)
	if _, err := h.api.Send(edit); err != nil {
		h.debug("Failed to edit acknowledged reminder", "err", err)
	}
}

// CreateReminder is shared by the command and AI paths.
func (h *Handlers) CreateReminder(ctx context.Context, userID int64, message string, remindAt *time.Time, recurrenceRule string) (*models.Reminder, error) {
	reminder := &models.Reminder{
		UserID:         userID,
		Enabled:        true,
		Message:        message,
		RemindAt:       remindAt,
		Dtstart:        remindAt,
		RecurrenceRule: recurrenceRule,
	}
	if err := h.repos.Reminder.Create(ctx, reminder); err != nil {
		return nil, err
	}
	h.notifyScheduler()
	return reminder, nil
}
