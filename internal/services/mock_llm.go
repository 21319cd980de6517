package services

import (
	"context"
	"sync"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
)

// MockChatService is a mock implementation of ChatService for testing
type MockChatService struct {
	ChatFunc           func(ctx context.Context, messages []chat.ChatMessage) (string, error)
	ChatWithSchemaFunc func(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error)
	ChatWithToolsFunc  func(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error)

	// Track calls for testing
	ChatCalls           [][]chat.ChatMessage
	ChatWithSchemaCalls []SchemaCall
	ChatWithToolsCalls  []ToolsCall

	mu sync.Mutex // protects all fields above
}

type SchemaCall struct {
	Messages []chat.ChatMessage
	Schema   *chat.ResponseSchema
}

type ToolsCall struct {
	Messages []chat.ChatMessage
	Tools    []chat.ToolDefinition
}

// Ensure MockChatService implements ChatService
var _ ChatService = (*MockChatService)(nil)

func NewMockChatService() *MockChatService {
	return &MockChatService{}
}

func (m *MockChatService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, messages)

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, messages)
	}
	return "Mock response", nil
}

func (m *MockChatService) ChatWithSchema(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatWithSchemaCalls = append(m.ChatWithSchemaCalls, SchemaCall{Messages: messages, Schema: schema})

	if m.ChatWithSchemaFunc != nil {
		return m.ChatWithSchemaFunc(ctx, messages, schema)
	}
	return "{}", nil
}

func (m *MockChatService) ChatWithTools(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatWithToolsCalls = append(m.ChatWithToolsCalls, ToolsCall{Messages: messages, Tools: tools})

	if m.ChatWithToolsFunc != nil {
		return m.ChatWithToolsFunc(ctx, messages, tools)
	}
	return &chat.ChatResult{Content: "Mock response"}, nil
}

// CallCounts returns the number of calls per method in a thread-safe
// way.
func (m *MockChatService) CallCounts() (chatCalls, schemaCalls, toolsCalls int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls), len(m.ChatWithSchemaCalls), len(m.ChatWithToolsCalls)
}
