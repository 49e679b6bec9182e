package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/rrule"
)

func (h *Handlers) handleAICreateReminderResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	message := params["title"]
	if message == "" {
		message = params["description"]
	}
	if message == "" {
		result := "What should I remind you about?"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var remindAt *time.Time
	if at, ok := params["remind_at"]; ok && at != "" {
		remindAt = parseDateTime(at)
	}
	if remindAt == nil {
		result := "When should I remind you? Give me a time like 15:30 or 2026-09-01 09:00."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	rule := params["recurrence_rule"]
	if rule != "" && !rrule.IsRecurring(rule) {
		rule = ""
	}

	reminder, err := h.CreateReminder(ctx, msg.From.ID, message, remindAt, rule)
	if err != nil {
		result := "Failed to create reminder, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⏰ Reminder set (ID: %d)\nTime: %s\nMessage: %s",
		reminder.ReminderID, remindAt.Format("2006-01-02 15:04"), message))
	if rule != "" {
		sb.WriteString(fmt.Sprintf("\nRepeats: %s", rrule.HumanReadable(rule, *remindAt)))
	}

	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAIListReminderResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	reminders, err := h.repos.Reminder.GetByUserID(ctx, msg.From.ID)
	if err != nil {
		result := "Failed to fetch reminders, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if len(reminders) == 0 {
		result := "No reminders"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString("Reminders\n\n")
	for _, r := range reminders {
		timeStr := "not set"
		if r.RemindAt != nil {
			timeStr = r.RemindAt.Format("2006-01-02 15:04")
		}
		sb.WriteString(fmt.Sprintf("%d. %s — %s\n", r.ReminderID, r.Message, timeStr))
	}

	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAIDeleteReminderResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	id, ok := params["id"]
	if !ok || id == "" {
		result := "Which reminder? Give me its number."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	reminderID, err := strconv.Atoi(id)
	if err != nil {
		result := "Invalid reminder number"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if err := h.repos.Reminder.Delete(ctx, reminderID, msg.From.ID); err != nil {
		result := "Failed to delete the reminder, check the number"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	result := fmt.Sprintf("🗑 Reminder %d deleted", reminderID)
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}
