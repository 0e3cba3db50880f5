// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the directory gateway.
type Config struct {
	Port                  string
	GRPCPort              string // empty disables the gRPC listener
	DatabaseURL           string
	RedisURL              string // empty disables the lookup cache
	APIToken              string
	LookupCacheTTLMinutes int
	LookupRefreshMinutes  int
	LogLevel              slog.Level
}

// Load reads environment variables and returns a validated Config. A .env
// file in the working directory is applied first when one exists; variables
// already set in the environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	dbURL := getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = getenv("SUPABASE_DB_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	token := getenv("API_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("API_TOKEN is required")
	}

	port := getenv("GATEWAY_PORT")
	if port == "" {
		port = "5000"
	}

	ttl, err := positiveInt(getenv, "LOOKUP_CACHE_TTL_MINUTES", 10)
	if err != nil {
		return nil, err
	}
	refresh, err := positiveInt(getenv, "LOOKUP_REFRESH_MINUTES", 5)
	if err != nil {
		return nil, err
	}

	level, err := parseLevel(getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:                  port,
		GRPCPort:              getenv("GRPC_PORT"),
		DatabaseURL:           dbURL,
		RedisURL:              getenv("REDIS_URL"),
		APIToken:              token,
		LookupCacheTTLMinutes: ttl,
		LookupRefreshMinutes:  refresh,
		LogLevel:              level,
	}, nil
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	s := getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, s)
	}
	return v, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", s)
}
