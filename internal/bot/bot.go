package bot

import (
	"context"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/smarttask/smarttask/internal/ai"
	"github.com/smarttask/smarttask/internal/bot/handlers"
	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/repository"
)

type Bot struct {
	api      *tgbotapi.BotAPI
	handlers *handlers.Handlers
	ai       *ai.Client
}

func New(token string, db *database.DB, aiClient *ai.Client, devMode bool) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	repos := &handlers.Repositories{
		User:      repository.NewUserRepository(db),
		Settings:  repository.NewUserSettingsRepository(db),
		Task:      repository.NewTaskRepository(db),
		Project:   repository.NewProjectRepository(db),
		Workspace: repository.NewWorkspaceRepository(db),
		Reminder:  repository.NewReminderRepository(db),
	}

	return &Bot{
		api:      api,
		handlers: handlers.New(api, repos, aiClient, devMode),
		ai:       aiClient,
	}, nil
}

// API exposes the underlying Telegram client for the scheduler.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// SetSchedulerNotify forwards the scheduler wake-up hook to the handlers.
func (b *Bot) SetSchedulerNotify(fn func()) {
	b.handlers.SetSchedulerNotify(fn)
}

func (b *Bot) Start(ctx context.Context) error {
	log.Printf("Authorized on account %s", b.api.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			go b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handlers.HandleCallbackQuery(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	// Handle commands
	if update.Message.IsCommand() {
		b.handlers.HandleCommand(ctx, update.Message)
		return
	}

	// Handle regular messages with AI
	b.handlers.HandleMessage(ctx, update.Message)
}
