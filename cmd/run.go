package cmd

import (
	"context"
	"fmt"
	"time"

	"roomrelay/bot"
	"roomrelay/config"
	"roomrelay/database"
	"roomrelay/events"
	"roomrelay/repository"
	"roomrelay/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	// Load configuration
	cfg := config.Get()
	setupLogging(cfg)

	log.Info("Starting roomrelay bot...")

	// Initialize database connection
	databaseURL := database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName)
	log.Infof("Connecting to database %s...", database.RedactURL(databaseURL))
	db, err := database.NewConnection(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Create the Discord session the relay sends through
	session, err := bot.NewSession(cfg.DiscordToken)
	if err != nil {
		db.Close()
		return err
	}

	// Initialize services
	log.Info("Initializing services...")
	roomService := service.NewRoomService(uowFactory)
	relayService := service.NewRelayService(
		repository.NewGuildRepository(db),
		repository.NewRoomRepository(db),
		session,
		cfg.RelayConcurrency,
	)
	log.Info("Services initialized successfully")

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	botConfig := bot.Config{
		CommandPrefix:       cfg.CommandPrefix,
		PollRefreshInterval: cfg.PollRefreshInterval,
		PollDefaultTimeout:  cfg.PollDefaultTimeout,
	}
	discordBot, err := bot.New(botConfig, session, roomService, relayService, eventBus)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Info("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Info("Shutdown completed")
	}

	return nil
}

// setupLogging applies the configured level. Production logs as JSON.
func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
