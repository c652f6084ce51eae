package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/target/campus-portal/config"
)

// logLevel backs the default logger so the level can follow config once it is loaded.
//
//nolint:gochecknoglobals // process-wide logger level
var logLevel = new(slog.LevelVar)

// InitLogger initializes the structured logger and makes it the default.
// Development mode logs text; everything else logs JSON.
func InitLogger(text bool) *slog.Logger {
	logger := slog.New(newLogHandler(os.Stdout, text))
	slog.SetDefault(logger)
	return logger
}

func newLogHandler(w io.Writer, text bool) slog.Handler {
	opts := &slog.HandlerOptions{Level: logLevel}
	if text {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// SetLogLevel changes the level of loggers created by InitLogger.
func SetLogLevel(level slog.Level) {
	logLevel.Set(level)
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (config.AppConfig, error) {
	// Load .env file if it exists (development)
	if err := godotenv.Load(); err != nil {
		var pathErr *os.PathError
		if !errors.As(err, &pathErr) {
			return config.AppConfig{}, fmt.Errorf("load .env file: %w", err)
		}
	}

	var cfg config.AppConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	cfg.Sanitize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
