package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string
	CommandPrefix string // Prefix for text commands such as "!poll"

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Poll configuration
	PollRefreshInterval time.Duration // How often ballots are re-rendered
	PollDefaultTimeout  time.Duration // Auto-close delay when no timeout is given

	// Relay configuration
	RelayConcurrency int // Max concurrent channel sends per transmission

	// Logging
	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is fine, the environment may already be populated
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Failed to load .env file: %v", err)
	}

	config := &Config{
		// Discord
		DiscordToken:  os.Getenv("DISCORD_TOKEN"),
		CommandPrefix: os.Getenv("COMMAND_PREFIX"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Defaults
		PollRefreshInterval: 8 * time.Second,
		PollDefaultTimeout:  60 * time.Minute,
		RelayConcurrency:    8,

		LogLevel:    os.Getenv("LOG_LEVEL"),
		Environment: os.Getenv("ENVIRONMENT"),
	}

	if config.CommandPrefix == "" {
		config.CommandPrefix = "!"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}

	// Override defaults if environment variables are set
	if seconds := os.Getenv("POLL_REFRESH_SECONDS"); seconds != "" {
		if parsed, err := strconv.Atoi(seconds); err == nil && parsed > 0 {
			config.PollRefreshInterval = time.Duration(parsed) * time.Second
		}
	}
	if minutes := os.Getenv("POLL_DEFAULT_TIMEOUT_MINUTES"); minutes != "" {
		if parsed, err := strconv.Atoi(minutes); err == nil && parsed > 0 {
			config.PollDefaultTimeout = time.Duration(parsed) * time.Minute
		}
	}
	if concurrency := os.Getenv("RELAY_CONCURRENCY"); concurrency != "" {
		if parsed, err := strconv.Atoi(concurrency); err == nil && parsed > 0 {
			config.RelayConcurrency = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
