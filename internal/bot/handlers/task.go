package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/models"
)

// handleTask creates a task. Segments after the title are separated by "|":
//
//	/task Write report
//	/task Write report | 2026-03-02 09:00 | 2026-03-02 11:00
//	/task Standup | 09:30 | 09:45 | every 1d until 2026-12-31
func (h *Handlers) handleTask(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Please provide a task title\nUsage: /task <title> [| start | end [| every Nd [until date]]]")
		return
	}

	segments := strings.Split(args, "|")
	for i := range segments {
		segments[i] = strings.TrimSpace(segments[i])
	}

	title := segments[0]
	if title == "" {
		h.sendMessage(msg.Chat.ID, "Please provide a task title")
		return
	}

	var startTime, endTime *time.Time
	if len(segments) >= 3 {
		startTime = parseDateTime(segments[1])
		endTime = parseDateTime(segments[2])
		if startTime == nil || endTime == nil {
			h.sendMessage(msg.Chat.ID, "Could not parse the schedule, use YYYY-MM-DD HH:MM or HH:MM")
			return
		}
	} else if len(segments) == 2 {
		// A single time is treated as the end (due) time
		endTime = parseDateTime(segments[1])
		if endTime == nil {
			h.sendMessage(msg.Chat.ID, "Could not parse the time, use YYYY-MM-DD HH:MM or HH:MM")
			return
		}
	}

	recurringDays := 0
	var recurringUntil *time.Time
	if len(segments) >= 4 {
		days, until, err := parseRepeatClause(segments[3])
		if err != nil {
			h.sendMessage(msg.Chat.ID, err.Error())
			return
		}
		recurringDays = days
		recurringUntil = until
	}

	task := &models.Task{
		UserID:         msg.From.ID,
		Title:          title,
		Status:         models.StatusTodo,
		StartTime:      startTime,
		EndTime:        endTime,
		RecurringDays:  recurringDays,
		RecurringUntil: recurringUntil,
	}

	if err := h.repos.Task.Create(ctx, task); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to create task, please try again later")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Task created (ID: %d)\n%s", task.TaskID, title))
	if endTime != nil {
		if startTime != nil {
			sb.WriteString(fmt.Sprintf("\n📅 %s → %s", startTime.Format("2006-01-02 15:04"), endTime.Format("2006-01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n📅 due %s", endTime.Format("2006-01-02 15:04")))
		}
	}
	if recurringDays > 0 {
		sb.WriteString(fmt.Sprintf("\n🔁 every %d day(s)", recurringDays))
		if recurringUntil != nil {
			sb.WriteString(fmt.Sprintf(" until %s", recurringUntil.Format("2006-01-02")))
		}
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

// parseRepeatClause parses "every Nd" or "every Nd until YYYY-MM-DD".
func parseRepeatClause(clause string) (int, *time.Time, error) {
	fields := strings.Fields(clause)
	if len(fields) < 2 || fields[0] != "every" {
		return 0, nil, fmt.Errorf("Could not parse the repeat clause, use: every Nd [until YYYY-MM-DD]")
	}

	days, err := strconv.Atoi(strings.TrimSuffix(fields[1], "d"))
	if err != nil || days <= 0 {
		return 0, nil, fmt.Errorf("Invalid repeat interval, use e.g. every 7d")
	}

	var until *time.Time
	if len(fields) >= 4 && fields[2] == "until" {
		until = parseDateTime(fields[3])
		if until == nil {
			return 0, nil, fmt.Errorf("Could not parse the until date, use YYYY-MM-DD")
		}
	}
	return days, until, nil
}

func (h *Handlers) handleTaskList(ctx context.Context, msg *tgbotapi.Message) {
	keyword := strings.TrimSpace(msg.CommandArguments())

	var tasks []*models.Task
	var err error
	if keyword != "" {
		tasks, err = h.repos.Task.Search(ctx, msg.From.ID, keyword)
	} else {
		tasks, err = h.repos.Task.GetByUserID(ctx, msg.From.ID, false)
	}
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch tasks, please try again later")
		return
	}

	if len(tasks) == 0 {
		if keyword != "" {
			h.sendMessage(msg.Chat.ID, fmt.Sprintf("No tasks matching \"%s\"", keyword))
		} else {
			h.sendMessage(msg.Chat.ID, "✅ No open tasks")
		}
		return
	}

	var sb strings.Builder
	if keyword != "" {
		sb.WriteString(fmt.Sprintf("📋 *Tasks matching \"%s\"*\n\n", keyword))
	} else {
		sb.WriteString("📋 *Your tasks*\n\n")
	}
	for _, task := range tasks {
		sb.WriteString(formatTaskLine(task))
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

func formatTaskLine(task *models.Task) string {
	var sb strings.Builder

	status := statusEmoji(task.Status)
	sb.WriteString(fmt.Sprintf("%s *%d.* %s", status, task.TaskID, truncateString(task.Title, 40)))

	if task.EndTime != nil {
		if task.StartTime != nil {
			sb.WriteString(fmt.Sprintf("\n   📅 %s → %s",
				task.StartTime.Format("01-02 15:04"), task.EndTime.Format("01-02 15:04")))
		} else {
			sb.WriteString(fmt.Sprintf("\n   📅 due %s", task.EndTime.Format("01-02 15:04")))
		}
	}
	if task.IsRecurring() {
		sb.WriteString(fmt.Sprintf(" 🔁 %dd", task.RecurringDays))
	}
	if task.Priority > 0 {
		sb.WriteString(fmt.Sprintf(" | priority: %d", task.Priority))
	}
	sb.WriteString("\n\n")
	return sb.String()
}

func statusEmoji(status string) string {
	switch status {
	case models.StatusDone:
		return "✅"
	case models.StatusDoing:
		return "🔨"
	default:
		return "⬜"
	}
}

func (h *Handlers) handleTaskDone(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.TrimSpace(msg.CommandArguments())
	if args == "" {
		h.sendMessage(msg.Chat.ID, "Please provide a task ID\nUsage: /done <id>")
		return
	}

	taskID, err := strconv.Atoi(args)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Invalid task ID")
		return
	}

	if err := h.repos.Task.UpdateStatus(ctx, taskID, msg.From.ID, models.StatusDone); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to complete task, check the ID")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("🎉 Task %d done!", taskID))
}

func (h *Handlers) handleTaskMove(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		h.sendMessage(msg.Chat.ID, "Usage: /move <id> <todo|doing|done>")
		return
	}

	taskID, err := strconv.Atoi(fields[0])
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Invalid task ID")
		return
	}

	status := strings.ToLower(fields[1])
	if !models.ValidStatus(status) {
		h.sendMessage(msg.Chat.ID, "Status must be one of: todo, doing, done")
		return
	}

	if err := h.repos.Task.UpdateStatus(ctx, taskID, msg.From.ID, status); err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to move task, check the ID")
		return
	}

	h.sendMessage(msg.Chat.ID, fmt.Sprintf("%s Task %d moved to *%s*", statusEmoji(status), taskID, status))
}

func (h *Handlers) handleBoard(ctx context.Context, msg *tgbotapi.Message) {
	tasks, err := h.repos.Task.GetByUserID(ctx, msg.From.ID, true)
	if err != nil {
		h.sendMessage(msg.Chat.ID, "Failed to fetch the board, please try again later")
		return
	}

	if len(tasks) == 0 {
		h.sendMessage(msg.Chat.ID, "📋 The board is empty")
		return
	}

	columns := map[string][]*models.Task{}
	for _, task := range tasks {
		columns[task.Status] = append(columns[task.Status], task)
	}

	var sb strings.Builder
	sb.WriteString("🗂 *Board*\n")
	for _, status := range []string{models.StatusTodo, models.StatusDoing, models.StatusDone} {
		sb.WriteString(fmt.Sprintf("\n%s *%s* (%d)\n", statusEmoji(status), strings.ToUpper(status), len(columns[status])))
		for _, task := range columns[status] {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", task.TaskID, truncateString(task.Title, 40)))
		}
	}
	h.sendMessage(msg.Chat.ID, sb.String())
}

// CreateTask is shared by the command and AI paths.
func (h *Handlers) CreateTask(ctx context.Context, task *models.Task) error {
	if task.Status == "" {
		task.Status = models.StatusTodo
	}
	return h.repos.Task.Create(ctx, task)
}
