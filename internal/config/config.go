package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	TwilioWebhookSecret string

	// BusinessPhone is the human-staffed line quoted in fallback replies.
	BusinessPhone string

	SessionTTL           time.Duration
	SessionSweepInterval time.Duration
	BookingSinkTimeout   time.Duration

	// Daily schedule used by the static availability lookup.
	OpenHour     int
	CloseHour    int
	SlotMinutes  int
	DaysBookable int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL:   getEnv("DATABASE_URL", ""),
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		TwilioWebhookSecret: getEnv("TWILIO_WEBHOOK_SECRET", ""),

		BusinessPhone: getEnv("BUSINESS_PHONE", "(864) 555-0142"),

		SessionTTL:           getEnvAsDuration("SESSION_TTL", 60*time.Minute),
		SessionSweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 30*time.Minute),
		BookingSinkTimeout:   getEnvAsDuration("BOOKING_SINK_TIMEOUT", 10*time.Second),

		OpenHour:     getEnvAsInt("OPEN_HOUR", 9),
		CloseHour:    getEnvAsInt("CLOSE_HOUR", 17),
		SlotMinutes:  getEnvAsInt("SLOT_MINUTES", 120),
		DaysBookable: getEnvAsInt("DAYS_BOOKABLE", 4),
	}
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
