package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/smarttask/smarttask/internal/ai"
	"github.com/smarttask/smarttask/internal/bot"
	"github.com/smarttask/smarttask/internal/config"
	"github.com/smarttask/smarttask/internal/database"
	"github.com/smarttask/smarttask/internal/repository"
	"github.com/smarttask/smarttask/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Validate required config
	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	// Run migrations
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Initialize AI client (optional)
	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, natural language features disabled")
	}

	// Create bot
	b, err := bot.New(cfg.TelegramToken, db, aiClient, cfg.DevMode)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Create repositories for scheduler
	reminderRepo := repository.NewReminderRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	settingsRepo := repository.NewUserSettingsRepository(db)

	// Create and start scheduler, sharing the bot's API client
	sched := scheduler.New(b.API(), reminderRepo, taskRepo, settingsRepo, cfg.DigestCron)
	b.SetSchedulerNotify(sched.Notify)
	go sched.Start(ctx)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("Bot error: %v", err)
	}
}
