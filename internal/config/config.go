package config

import (
	"log/slog"
	"os"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	RedisURL string

	OpenAIAPIKey         string
	OpenAIModel          string // story, map, headings, interaction
	OpenAICharacterModel string // character sheets

	ElevenLabsAPIKey string
	TTSModel         string
	STTModel         string

	// ContentRating gates the narration profanity filter
	// ("G"/"PG"/"PG13" filter, anything else passes through).
	ContentRating string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),

		RedisURL: getEnv("REDIS_URL", "localhost:6379"),

		OpenAIAPIKey:         os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:          getEnv("OPENAI_MODEL", "gpt-4.1-mini"),
		OpenAICharacterModel: getEnv("OPENAI_CHARACTER_MODEL", "gpt-4.1"),

		ElevenLabsAPIKey: os.Getenv("ELEVENLABS_API_KEY"),
		TTSModel:         getEnv("ELEVENLABS_TTS_MODEL", "eleven_multilingual_v2"),
		STTModel:         getEnv("ELEVENLABS_STT_MODEL", "scribe_v1"),

		ContentRating: getEnv("CONTENT_RATING", "PG13"),
	}
}

// FilterNarration reports whether narration should pass through the
// profanity filter for the configured rating.
func (c *Config) FilterNarration() bool {
	switch strings.ToUpper(strings.TrimSpace(c.ContentRating)) {
	case "G", "PG", "PG13", "PG-13":
		return true
	default:
		return false
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
