package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"
	"github.com/smarttask/smarttask/internal/calendar"
	"github.com/smarttask/smarttask/internal/format"
	"github.com/smarttask/smarttask/internal/models"
	"github.com/smarttask/smarttask/internal/repository"
	"github.com/smarttask/smarttask/internal/rrule"
)

// renotifyInterval limits how often an unacknowledged reminder is resent.
const renotifyInterval = 10 * time.Minute

type Scheduler struct {
	api           *tgbotapi.BotAPI
	reminderRepo  *repository.ReminderRepository
	taskRepo      *repository.TaskRepository
	settingsRepo  *repository.UserSettingsRepository
	checkInterval time.Duration
	digestSpec    string
	notifyCh      chan struct{}
}

func New(
	api *tgbotapi.BotAPI,
	reminderRepo *repository.ReminderRepository,
	taskRepo *repository.TaskRepository,
	settingsRepo *repository.UserSettingsRepository,
	digestSpec string,
) *Scheduler {
	if digestSpec == "" {
		digestSpec = "*/5 * * * *"
	}
	return &Scheduler{
		api:           api,
		reminderRepo:  reminderRepo,
		taskRepo:      taskRepo,
		settingsRepo:  settingsRepo,
		checkInterval: 1 * time.Minute,
		digestSpec:    digestSpec,
		notifyCh:      make(chan struct{}, 1),
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	log.Println("Scheduler started")
	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	// The digest sweep runs on its own cron schedule, each user's
	// configured digest time is honored inside checkDigests.
	c := cron.New()
	if _, err := c.AddFunc(s.digestSpec, func() { s.checkDigests(ctx) }); err != nil {
		log.Printf("Invalid digest schedule %q: %v", s.digestSpec, err)
	} else {
		c.Start()
		defer c.Stop()
	}

	// Wait a bit for migrations to complete before first check
	select {
	case <-ctx.Done():
		return
	case <-time.After(2 * time.Second):
	}

	// Run first check
	s.checkReminders(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Scheduler stopped")
			return
		case <-ticker.C:
			s.checkReminders(ctx)
		case <-s.notifyCh:
			log.Println("Scheduler triggered by notification")
			s.checkReminders(ctx)
		}
	}
}

func (s *Scheduler) checkReminders(ctx context.Context) {
	now := time.Now()
	reminders, err := s.reminderRepo.GetPending(ctx, now)
	if err != nil {
		log.Printf("Failed to get pending reminders: %v", err)
		return
	}

	for _, reminder := range reminders {
		// Acknowledged reminders either advance or retire.
		if reminder.AcknowledgedAt != nil {
			s.advanceReminder(ctx, reminder, now)
			continue
		}

		// Unacknowledged reminders are resent with a backoff.
		if reminder.NotifiedAt != nil && now.Sub(*reminder.NotifiedAt) < renotifyInterval {
			continue
		}

		if s.inQuietHours(ctx, reminder.UserID, now) {
			continue
		}

		// Delete previous message if exists (to avoid flooding)
		if reminder.LastMessageID != nil {
			deleteMsg := tgbotapi.NewDeleteMessage(reminder.UserID, *reminder.LastMessageID)
			if _, err := s.api.Request(deleteMsg); err != nil {
				log.Printf("Failed to delete old reminder message %d: %v", *reminder.LastMessageID, err)
				// Continue anyway, the old message might have been deleted by user
			}
		}

		// Send notification
		text := "⏰ **Reminder**\n\n" + reminder.Message
		if reminder.Description != "" {
			text += "\n\n" + reminder.Description
		}
		if reminder.IsRecurring() && reminder.Dtstart != nil {
			text += "\n\n🔄 " + rrule.HumanReadable(reminder.RecurrenceRule, *reminder.Dtstart)
		}

		parsed := format.ParseMarkdown(text)
		msg := tgbotapi.NewMessage(reminder.UserID, parsed.Text)
		msg.Entities = parsed.Entities

		// Add acknowledge button
		ackButton := tgbotapi.NewInlineKeyboardButtonData(
			"✅ Got it",
			fmt.Sprintf("remind_ack:%d", reminder.ReminderID),
		)
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(ackButton),
		)

		sentMsg, err := s.api.Send(msg)
		if err != nil {
			log.Printf("Failed to send reminder notification: %v", err)
			continue
		}

		// Save message ID and mark as notified in database
		s.reminderRepo.SetLastMessageID(ctx, reminder.ReminderID, sentMsg.MessageID)
		s.reminderRepo.SetNotifiedAt(ctx, reminder.ReminderID, &now)
		log.Printf("Sent reminder %d to user %d (msg_id=%d)", reminder.ReminderID, reminder.UserID, sentMsg.MessageID)
	}
}

// advanceReminder schedules the next occurrence of an acknowledged
// recurring reminder, or retires a one-shot one.
func (s *Scheduler) advanceReminder(ctx context.Context, reminder *models.Reminder, now time.Time) {
	if !reminder.IsRecurring() || reminder.Dtstart == nil {
		if err := s.reminderRepo.UpdateRemindAt(ctx, reminder.ReminderID, nil); err != nil {
			log.Printf("Failed to retire reminder %d: %v", reminder.ReminderID, err)
		}
		return
	}

	next, err := rrule.NextOccurrenceStrict(reminder.RecurrenceRule, *reminder.Dtstart, now)
	if err != nil {
		log.Printf("Failed to calculate next occurrence for reminder %d: %v", reminder.ReminderID, err)
		next = nil
	}
	if err := s.reminderRepo.UpdateRemindAt(ctx, reminder.ReminderID, next); err != nil {
		log.Printf("Failed to reschedule reminder %d: %v", reminder.ReminderID, err)
		return
	}
	if next != nil {
		log.Printf("Scheduled next reminder %d at %s", reminder.ReminderID, next.Format("2006-01-02 15:04"))
	}
}

func (s *Scheduler) inQuietHours(ctx context.Context, userID int64, now time.Time) bool {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return false
	}
	return settings.IsQuietHours(now)
}

// ==================== Daily Digest ====================

func (s *Scheduler) checkDigests(ctx context.Context) {
	now := time.Now()

	userIDs, err := s.settingsRepo.GetUsersWithDigestEnabled(ctx)
	if err != nil {
		log.Printf("Failed to get users with digest enabled: %v", err)
		return
	}

	for _, userID := range userIDs {
		s.sendDigestIfNeeded(ctx, userID, now)
	}
}

func (s *Scheduler) sendDigestIfNeeded(ctx context.Context, userID int64, now time.Time) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		log.Printf("Failed to get user settings for digest %d: %v", userID, err)
		return
	}

	if !settings.ShouldSendDigest(now) {
		return
	}

	// Today's calendar, expanded from the user's scheduled tasks
	scheduled, err := s.taskRepo.GetScheduled(ctx, userID)
	if err != nil {
		log.Printf("Failed to get scheduled tasks for digest %d: %v", userID, err)
		scheduled = nil
	}
	occs := calendar.ForDay(calendar.Expand(scheduled), now.In(settings.Location()))

	// Tasks whose deadline is inside the next two days
	dueSoon, err := s.taskRepo.GetDueSoon(ctx, userID, 48*time.Hour)
	if err != nil {
		log.Printf("Failed to get due tasks for digest %d: %v", userID, err)
		dueSoon = nil
	}

	text := buildDigestText(occs, dueSoon, now, settings.Location())

	parsed := format.ParseMarkdown(text)
	msg := tgbotapi.NewMessage(userID, parsed.Text)
	msg.Entities = parsed.Entities

	if _, err := s.api.Send(msg); err != nil {
		log.Printf("Failed to send digest to %d: %v", userID, err)
		return
	}

	if err := s.settingsRepo.SetLastDigestDate(ctx, userID, now); err != nil {
		log.Printf("Failed to update last digest date for %d: %v", userID, err)
	}

	log.Printf("Sent digest to user %d", userID)
}

func buildDigestText(occs []calendar.Occurrence, dueSoon []*models.Task, now time.Time, loc *time.Location) string {
	localNow := now.In(loc)

	greeting := getGreeting(localNow.Hour())
	dateStr := localNow.Format("2006/01/02 (Mon)")

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("☀️ **%s**\n\n📅 %s\n", greeting, dateStr))

	sb.WriteString("\n**Today**\n")
	if len(occs) == 0 {
		sb.WriteString("• Nothing scheduled today\n")
	} else {
		for _, occ := range occs {
			sb.WriteString(fmt.Sprintf("• %s %s", occ.End.In(loc).Format("15:04"), occ.Task.Title))
			if occ.Recurring {
				sb.WriteString(" 🔁")
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n**Due soon**\n")
	if len(dueSoon) == 0 {
		sb.WriteString("• Nothing due in the next two days\n")
	} else {
		count := len(dueSoon)
		if count > 10 {
			count = 10
		}
		for i := 0; i < count; i++ {
			task := dueSoon[i]
			sb.WriteString(fmt.Sprintf("• %s - %s", task.Title, formatDueTime(task.EndTime, now)))
			if task.Priority >= 4 {
				sb.WriteString(" ⭐")
			}
			sb.WriteString("\n")
		}
		if len(dueSoon) > 10 {
			sb.WriteString(fmt.Sprintf("• ...and %d more\n", len(dueSoon)-10))
		}
	}

	sb.WriteString("\nHave a great day! 💪")
	return sb.String()
}

// formatDueTime formats the due time relative to now
func formatDueTime(dueTime *time.Time, now time.Time) string {
	if dueTime == nil {
		return ""
	}

	diff := dueTime.Sub(now)

	if diff < 0 {
		// Overdue
		overdue := -diff
		if overdue < time.Hour {
			return fmt.Sprintf("overdue by %d min", int(overdue.Minutes()))
		}
		if overdue < 24*time.Hour {
			return fmt.Sprintf("overdue by %d h", int(overdue.Hours()))
		}
		return fmt.Sprintf("overdue by %d d", int(overdue.Hours()/24))
	}

	if diff < time.Hour {
		return fmt.Sprintf("%d min left", int(diff.Minutes()))
	}
	if diff < 24*time.Hour {
		return fmt.Sprintf("%d h left", int(diff.Hours()))
	}
	if diff < 48*time.Hour {
		return "tomorrow " + dueTime.Format("15:04")
	}
	return dueTime.Format("01/02 15:04")
}

func getGreeting(hour int) string {
	switch {
	case hour >= 5 && hour < 12:
		return "Good morning"
	case hour >= 12 && hour < 18:
		return "Good afternoon"
	default:
		return "Good evening"
	}
}
