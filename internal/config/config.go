package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Document store (MongoDB)
	MongoURI      string
	MongoDatabase string

	// Conversation history cache
	RedisAddr      string
	RedisPassword  string
	HistoryTTL     time.Duration
	BookingLockTTL time.Duration

	// LLM provider selection
	LLMProvider  string
	LLMModel     string
	OpenAIAPIKey string
	GoogleAPIKey string
	GroqAPIKey   string
	UseMockLLM   bool

	// Calendar backend
	CalendarID              string
	GoogleCalendarCredsFile string

	// Scheduling defaults
	Timezone        string
	DefaultDuration time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		MongoURI:      getEnv("MONGODB_URI", ""),
		MongoDatabase: getEnv("MONGODB_DATABASE", "agenda_ai"),

		RedisAddr:      getEnv("REDIS_ADDR", ""),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		HistoryTTL:     getEnvAsDuration("HISTORY_TTL", 24*time.Hour),
		BookingLockTTL: getEnvAsDuration("BOOKING_LOCK_TTL", 10*time.Second),

		LLMProvider:  strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", ""))),
		LLMModel:     getEnv("LLM_MODEL", ""),
		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),
		GoogleAPIKey: getEnv("GOOGLE_API_KEY", ""),
		GroqAPIKey:   getEnv("GROQ_API_KEY", ""),
		UseMockLLM:   getEnvAsBool("USE_MOCK_LLM", false),

		CalendarID:              getEnv("CALENDAR_ID", "primary"),
		GoogleCalendarCredsFile: getEnv("GOOGLE_CALENDAR_CREDENTIALS", ""),

		Timezone:        getEnv("TIMEZONE", "America/Sao_Paulo"),
		DefaultDuration: time.Duration(getEnvAsInt("DEFAULT_DURATION_MINUTES", 60)) * time.Minute,
	}
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
