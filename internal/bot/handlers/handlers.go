package handlers

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/ai"
	"github.com/smarttask/smarttask/internal/calendar"
	"github.com/smarttask/smarttask/internal/repository"
)

type Repositories struct {
	User      *repository.UserRepository
	Settings  *repository.UserSettingsRepository
	Task      *repository.TaskRepository
	Project   *repository.ProjectRepository
	Workspace *repository.WorkspaceRepository
	Reminder  *repository.ReminderRepository
}

type Handlers struct {
	api     *tgbotapi.BotAPI
	repos   *Repositories
	ai      *ai.Client
	grids   *calendar.GridCache
	notify  func()
	devMode bool
}

func New(api *tgbotapi.BotAPI, repos *Repositories, aiClient *ai.Client, devMode bool) *Handlers {
	return &Handlers{
		api:     api,
		repos:   repos,
		ai:      aiClient,
		grids:   calendar.NewGridCache(24),
		devMode: devMode,
	}
}

// SetSchedulerNotify registers a callback that wakes the scheduler when a
// reminder is created or rescheduled, so it fires without waiting for the
// next tick.
func (h *Handlers) SetSchedulerNotify(fn func()) {
	h.notify = fn
}

func (h *Handlers) notifyScheduler() {
	if h.notify != nil {
		h.notify()
	}
}

func (h *Handlers) HandleCommand(ctx context.Context, msg *tgbotapi.Message) {
	// Ensure user exists
	_, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.Printf("Failed to get/create user: %v", err)
		return
	}

	switch msg.Command() {
	case "start":
		h.handleStart(ctx, msg)
	case "help":
		h.handleHelp(ctx, msg)
	case "task":
		h.handleTask(ctx, msg)
	case "tasks":
		h.handleTaskList(ctx, msg)
	case "done":
		h.handleTaskDone(ctx, msg)
	case "move":
		h.handleTaskMove(ctx, msg)
	case "board":
		h.handleBoard(ctx, msg)
	case "project":
		h.handleProject(ctx, msg)
	case "projects":
		h.handleProjectList(ctx, msg)
	case "workspace":
		h.handleWorkspace(ctx, msg)
	case "workspaces":
		h.handleWorkspaceList(ctx, msg)
	case "invite":
		h.handleInvite(ctx, msg)
	case "members":
		h.handleMembers(ctx, msg)
	case "day":
		h.handleDayView(ctx, msg)
	case "week":
		h.handleWeekView(ctx, msg)
	case "month":
		h.handleMonthView(ctx, msg)
	case "export":
		h.handleExport(ctx, msg)
	case "remind":
		h.handleReminder(ctx, msg)
	case "reminders":
		h.handleReminderList(ctx, msg)
	case "settings":
		h.handleSettings(ctx, msg)
	default:
		h.sendMessage(msg.Chat.ID, "Unknown command, see /help for the full list")
	}
}

func (h *Handlers) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	// Ensure user exists
	_, err := h.repos.User.GetOrCreate(ctx, msg.From.ID, msg.From.UserName)
	if err != nil {
		log.Printf("Failed to get/create user: %v", err)
		return
	}

	// Process with AI
	h.handleAIMessage(ctx, msg)
}

func (h *Handlers) HandleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Answer callback to remove loading state
	answer := tgbotapi.NewCallback(callback.ID, "")
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback: %v", err)
	}

	// Callback data format: "confirm:<userID>", "cancel:<userID>" or
	// "remind_ack:<reminderID>"
	parts := strings.Split(callback.Data, ":")
	if len(parts) != 2 {
		return
	}
	action := parts[0]

	if action == "remind_ack" {
		reminderID, err := strconv.Atoi(parts[1])
		if err != nil {
			return
		}
		h.handleReminderAck(ctx, callback, reminderID)
		return
	}

	userID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return
	}

	// Verify the callback is from the correct user
	if callback.From.ID != userID {
		h.answerCallbackWithAlert(callback.ID, "This is not your confirmation")
		return
	}

	// Get pending confirmation
	pendingMutex.RLock()
	pending, exists := pendingConfirmations[userID]
	pendingMutex.RUnlock()

	if !exists || time.Now().After(pending.ExpiresAt) {
		if exists {
			pendingMutex.Lock()
			delete(pendingConfirmations, userID)
			pendingMutex.Unlock()
		}
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "⏰ Confirmation expired")
		return
	}

	// Clear pending
	pendingMutex.Lock()
	delete(pendingConfirmations, userID)
	pendingMutex.Unlock()

	// Create a fake message for executeIntent
	fakeMsg := &tgbotapi.Message{
		Chat: callback.Message.Chat,
		From: callback.From,
	}

	switch action {
	case "confirm":
		result := h.executeIntentWithResult(ctx, fakeMsg, pending.Intent)
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "✅ Confirmed\n\n"+result)
	case "cancel":
		h.editMessageText(callback.Message.Chat.ID, callback.Message.MessageID, "❌ Cancelled")
	}
}

func (h *Handlers) answerCallbackWithAlert(callbackID string, text string) {
	answer := tgbotapi.NewCallbackWithAlert(callbackID, text)
	if _, err := h.api.Request(answer); err != nil {
		log.Printf("Failed to answer callback with alert: %v", err)
	}
}

func (h *Handlers) editMessageText(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = "Markdown"
	if _, err := h.api.Send(edit); err != nil {
		log.Printf("Failed to edit message: %v", err)
	}
}

func (h *Handlers) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := h.api.Send(msg); err != nil {
		log.Printf("Failed to send message: %v", err)
	}
}

func (h *Handlers) debug(msg string, kv ...any) {
	if !h.devMode {
		return
	}
	var sb strings.Builder
	sb.WriteString(msg)
	for i := 0; i+1 < len(kv); i += 2 {
		sb.WriteString(fmt.Sprintf(" %v=%v", kv[i], kv[i+1]))
	}
	log.Printf("[debug] %s", sb.String())
}

func (h *Handlers) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	text := fmt.Sprintf(`👋 Hi %s!

I'm SmartTask, your task and calendar assistant.

I can help you:
✅ Track tasks on a kanban board
📅 Schedule tasks, including recurring and multi-day ones
🗓 Show day, week and month calendar views
📁 Organize tasks into projects and shared workspaces
⏰ Set reminders

You can just tell me what you want in plain language, for example:
• "add a task to review the report tomorrow at 3pm"
• "standup every day at 9:30 until end of month"
• "what's on my calendar this week?"

Use /help to see all commands`, msg.From.FirstName)
	h.sendMessage(msg.Chat.ID, text)
}

func (h *Handlers) handleHelp(ctx context.Context, msg *tgbotapi.Message) {
	text := `📖 *Commands*

*Tasks*
/task <title> [| start | end [| every Nd [until date]]] - add a task
/tasks [keyword] - list or search tasks
/done <id> - mark a task done
/move <id> <todo|doing|done> - move a task on the board
/board - show the kanban board

*Calendar*
/day [YYYY-MM-DD] - day view
/week [YYYY-MM-DD] - week view
/month [YYYY-MM] - month view
/export - export scheduled tasks as an ICS file

*Projects & workspaces*
/workspace <name> - create a workspace
/workspaces - list your workspaces
/project <workspace-id> <name> - create a project
/projects - list your projects
/invite <workspace-id> <username> [role] - invite a member
/members <workspace-id> - list members

*Reminders*
/remind <time> <message> - set a reminder
/reminders - list reminders

*Settings*
/settings - show your settings
/settings tz <zone> - set timezone
/settings quiet <start> <end> - set quiet hours
/settings digest <on|off|HH:MM> - daily agenda digest

💡 You can also just talk to me in plain language!`
	h.sendMessage(msg.Chat.ID, text)
}

func parseDateTime(s string) *time.Time {
	now := time.Now()
	loc := now.Location()

	// Try various formats
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02",
		"01-02 15:04",
		"15:04",
	}

	for _, format := range formats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			// Adjust year/month/day if not specified
			if format == "15:04" {
				t = time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, loc)
				if t.Before(now) {
					t = t.Add(24 * time.Hour)
				}
			} else if format == "01-02 15:04" {
				t = time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
			}
			return &t
		}
	}

	return nil
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
