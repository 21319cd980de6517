package logger

import (
	"log/slog"
	"os"

	"github.com/dungeondj/dungeon-dj/internal/config"
)

// Setup configures the global slog logger based on environment
func Setup(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.Environment == "production" {
		// JSON format for production
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Text format for development
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// WithRoomCode adds the room code to logger context
func WithRoomCode(logger *slog.Logger, roomCode string) *slog.Logger {
	return logger.With("room_code", roomCode)
}
