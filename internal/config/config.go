package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Supported store drivers
const (
	DBTypeSQLite   = "sqlite"
	DBTypePostgres = "postgres"
)

// Config holds the process settings
type Config struct {
	DBType      string
	DBPath      string // sqlite file
	DatabaseURL string // postgres DSN
	LogMode     string

	GeminiAPIKey string
	GeminiModel  string

	TelegramBotToken string
	ReminderHour     int

	ExportDir string
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		DBType:           strings.ToLower(getEnv("DB_TYPE", DBTypeSQLite)),
		DBPath:           getEnv("DB_PATH", "data/student_data.db"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		LogMode:          getEnv("LOG_MODE", "dev"),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-pro"),
		TelegramBotToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		ExportDir:        getEnv("EXPORT_DIR", "exports"),
	}

	hour, err := strconv.Atoi(getEnv("REMINDER_HOUR", "21"))
	if err != nil || hour < 0 || hour > 23 {
		return nil, fmt.Errorf("REMINDER_HOUR must be an hour between 0 and 23")
	}
	cfg.ReminderHour = hour

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that depend on each other
func (c *Config) Validate() error {
	switch c.DBType {
	case DBTypeSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required for sqlite")
		}
	case DBTypePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	return nil
}

// RemindersEnabled reports whether a bot token was configured
func (c *Config) RemindersEnabled() bool {
	return c.TelegramBotToken != ""
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
