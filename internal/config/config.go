package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ServerPort         int
	DatabasePath       string
	LogLevel           string
	CORSAllowedOrigins []string

	// LimitBeforeFilter truncates a log to the query limit before the date
	// range is applied.
	LimitBeforeFilter   bool
	// AppendCreateMissing lets an append to an unknown user id create that user.
	AppendCreateMissing bool

	MaintenanceCron string
}

// Load loads configuration from environment variables or sets defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	port, err := strconv.Atoi(getEnv("PORT", "3000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	limitFirst, err := strconv.ParseBool(getEnv("LIMIT_BEFORE_FILTER", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid LIMIT_BEFORE_FILTER: %w", err)
	}

	createMissing, err := strconv.ParseBool(getEnv("APPEND_CREATE_MISSING", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid APPEND_CREATE_MISSING: %w", err)
	}

	return &Config{
		ServerPort:          port,
		DatabasePath:        getEnv("DATABASE_PATH", "./exercise.db"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		LimitBeforeFilter:   limitFirst,
		AppendCreateMissing: createMissing,
		MaintenanceCron:     getEnv("MAINTENANCE_CRON", "@hourly"),
	}, nil
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
