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

func (h *Handlers) handleAICreateTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	title := params["title"]
	if title == "" {
		result := "Please give the task a title"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	task := &models.Task{
		UserID:      msg.From.ID,
		Title:       title,
		Description: params["description"],
		Location:    params["location"],
		Tags:        params["tags"],
		Status:      models.StatusTodo,
	}

	if p, ok := params["priority"]; ok {
		task.Priority, _ = strconv.Atoi(p)
	}
	if s, ok := params["status"]; ok && models.ValidStatus(s) {
		task.Status = s
	}
	if st, ok := params["start_time"]; ok && st != "" {
		task.StartTime = parseDateTime(st)
	}
	if et, ok := params["end_time"]; ok && et != "" {
		task.EndTime = parseDateTime(et)
	}
	if rd, ok := params["recurring_days"]; ok {
		task.RecurringDays, _ = strconv.Atoi(rd)
	}
	if ru, ok := params["recurring_until"]; ok && ru != "" {
		task.RecurringUntil = parseDateTime(ru)
	}

	if name, ok := params["project"]; ok && name != "" {
		if project := h.findProjectByName(ctx, msg.From.ID, name); project != nil {
			task.ProjectID = &project.ProjectID
		}
	}

	if err := h.CreateTask(ctx, task); err != nil {
		result := "Failed to create task, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("✅ Task created (ID: %d)\n%s", task.TaskID, title))
	if task.EndTime != nil {
		sb.WriteString(fmt.Sprintf("\n📅 %s", task.EndTime.Format("2006-01-02 15:04")))
	}
	if task.IsRecurring() {
		sb.WriteString(fmt.Sprintf("\n🔁 every %d day(s)", task.RecurringDays))
	}
	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) findProjectByName(ctx context.Context, userID int64, name string) *models.Project {
	projects, err := h.repos.Project.GetForUser(ctx, userID)
	if err != nil {
		return nil
	}
	for _, p := range projects {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

func (h *Handlers) handleAIListTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	keyword := params["keyword"]

	var tasks []*models.Task
	var err error
	if keyword != "" {
		tasks, err = h.repos.Task.Search(ctx, msg.From.ID, keyword)
	} else {
		tasks, err = h.repos.Task.GetByUserID(ctx, msg.From.ID, false)
	}
	if err != nil {
		result := "Failed to fetch tasks, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if len(tasks) == 0 {
		var result string
		if keyword != "" {
			result = fmt.Sprintf("No tasks matching \"%s\"", keyword)
		} else {
			result = "No open tasks"
		}
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var sb strings.Builder
	if keyword != "" {
		sb.WriteString(fmt.Sprintf("Tasks matching \"%s\"\n\n", keyword))
	} else {
		sb.WriteString("Your tasks\n\n")
	}
	for _, task := range tasks {
		sb.WriteString(formatTaskLine(task))
	}

	result := sb.String()
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAICompleteTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	return h.aiSetTaskStatus(ctx, msg, params, models.StatusDone, sendMsg)
}

func (h *Handlers) handleAIMoveTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	status := params["status"]
	if !models.ValidStatus(status) {
		result := "Status must be one of: todo, doing, done"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}
	return h.aiSetTaskStatus(ctx, msg, params, status, sendMsg)
}

func (h *Handlers) aiSetTaskStatus(ctx context.Context, msg *tgbotapi.Message, params map[string]string, status string, sendMsg bool) string {
	taskID, ok := h.resolveTaskID(ctx, msg.From.ID, params)
	if !ok {
		result := "Which task do you mean? Give me its number or a clearer title."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if err := h.repos.Task.UpdateStatus(ctx, taskID, msg.From.ID, status); err != nil {
		result := "Failed to update the task, check the number"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	var result string
	if status == models.StatusDone {
		result = fmt.Sprintf("🎉 Task %d done!", taskID)
	} else {
		result = fmt.Sprintf("%s Task %d moved to %s", statusEmoji(status), taskID, status)
	}
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

// resolveTaskID finds the task the user means, by id or by title keyword.
func (h *Handlers) resolveTaskID(ctx context.Context, userID int64, params map[string]string) (int, bool) {
	if id, ok := params["id"]; ok && id != "" {
		taskID, err := strconv.Atoi(id)
		if err == nil {
			return taskID, true
		}
	}

	keyword := params["keyword"]
	if keyword == "" {
		keyword = params["title"]
	}
	if keyword == "" {
		return 0, false
	}

	tasks, err := h.repos.Task.Search(ctx, userID, keyword)
	if err != nil || len(tasks) != 1 {
		return 0, false
	}
	return tasks[0].TaskID, true
}

func (h *Handlers) handleAIUpdateTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	taskID, ok := h.resolveTaskID(ctx, msg.From.ID, params)
	if !ok {
		result := "Which task do you mean? Give me its number or a clearer title."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	task, err := h.repos.Task.GetByID(ctx, taskID, msg.From.ID)
	if err != nil {
		result := "Task not found, check the number"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if title, ok := params["title"]; ok && title != "" {
		task.Title = title
	}
	if desc, ok := params["description"]; ok && desc != "" {
		task.Description = desc
	}
	if loc, ok := params["location"]; ok && loc != "" {
		task.Location = loc
	}
	if tags, ok := params["tags"]; ok && tags != "" {
		task.Tags = tags
	}
	if p, ok := params["priority"]; ok && p != "" {
		task.Priority, _ = strconv.Atoi(p)
	}
	if s, ok := params["status"]; ok && models.ValidStatus(s) {
		task.Status = s
	}
	if st, ok := params["start_time"]; ok && st != "" {
		task.StartTime = parseDateTime(st)
	}
	if et, ok := params["end_time"]; ok && et != "" {
		task.EndTime = parseDateTime(et)
	}
	if rd, ok := params["recurring_days"]; ok && rd != "" {
		task.RecurringDays, _ = strconv.Atoi(rd)
	}
	if ru, ok := params["recurring_until"]; ok && ru != "" {
		task.RecurringUntil = parseDateTime(ru)
	}

	if err := h.repos.Task.Update(ctx, task); err != nil {
		result := "Failed to update the task, please try again later"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	result := fmt.Sprintf("✏️ Task %d updated\n%s", task.TaskID, task.Title)
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

func (h *Handlers) handleAIDeleteTaskResult(ctx context.Context, msg *tgbotapi.Message, params map[string]string, sendMsg bool) string {
	taskID, ok := h.resolveTaskID(ctx, msg.From.ID, params)
	if !ok {
		result := "Which task do you mean? Give me its number or a clearer title."
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	if err := h.repos.Task.Delete(ctx, taskID, msg.From.ID); err != nil {
		result := "Failed to delete the task, check the number"
		if sendMsg {
			h.sendMessage(msg.Chat.ID, result)
		}
		return result
	}

	result := fmt.Sprintf("🗑 Task %d deleted", taskID)
	if sendMsg {
		h.sendMessage(msg.Chat.ID, result)
	}
	return result
}

// aiTime keeps the executor signatures uniform when a param needs a default.
func aiTime(params map[string]string, key string, fallback time.Time) time.Time {
	if v, ok := params[key]; ok && v != "" {
		if t := parseDateTime(v); t != nil {
			return *t
		}
	}
	return fallback
}
