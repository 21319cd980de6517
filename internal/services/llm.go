package services

import (
	"context"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
)

// ChatService defines the interface for the chat completion endpoint.
type ChatService interface {
	// Chat generates a free-text response.
	Chat(ctx context.Context, messages []chat.ChatMessage) (string, error)

	// ChatWithSchema generates a response constrained to JSON
	// matching the given schema, returned as the raw JSON string.
	ChatWithSchema(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error)

	// ChatWithTools generates a response with tool definitions
	// attached. The model either replies with text or chooses a
	// tool call.
	ChatWithTools(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error)
}

// VoiceService defines the interface for the speech endpoints:
// text-to-speech, speech-to-text, and two-step voice design.
type VoiceService interface {
	// Synthesize converts narration text to audio with the given
	// voice, fully buffered.
	Synthesize(ctx context.Context, voiceID string, text string) ([]byte, error)

	// Transcribe converts recorded audio to text.
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)

	// DesignVoice generates a voice preview from a free-text
	// description and returns the preview's generated voice id.
	DesignVoice(ctx context.Context, description string, sampleText string) (string, error)

	// CreateVoice turns a preview into a durable, reusable voice id.
	CreateVoice(ctx context.Context, name string, description string, previewID string) (string, error)
}

// HealthChecker defines basic health check capabilities
type HealthChecker interface {
	Ping(ctx context.Context) error
}
