package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/dungeondj/dungeon-dj/pkg/chat"
)

const (
	openaiBaseURL = "https://api.openai.com/v1"

	DefaultOpenAITemperature = 0.7
)

// OpenAIService implements ChatService against the OpenAI chat
// completions API.
type OpenAIService struct {
	apiKey     string
	modelName  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Ensure OpenAIService implements ChatService
var _ ChatService = (*OpenAIService)(nil)

type openaiResponseFormat struct {
	Type       string               `json:"type"`
	JSONSchema *chat.ResponseSchema `json:"json_schema,omitempty"`
}

type openaiChatRequest struct {
	Model          string                `json:"model"`
	Messages       []chat.ChatMessage    `json:"messages"`
	Temperature    float64               `json:"temperature,omitempty"`
	ResponseFormat *openaiResponseFormat `json:"response_format,omitempty"`
	Tools          []chat.ToolDefinition `json:"tools,omitempty"`
}

type openaiChatChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role      string          `json:"role"`
		Content   string          `json:"content"`
		ToolCalls []chat.ToolCall `json:"tool_calls,omitempty"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type openaiChatResponse struct {
	ID      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openaiChatChoice `json:"choices"`
	Usage   struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates a new OpenAI chat service
func NewOpenAIService(apiKey string, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		apiKey:    apiKey,
		modelName: modelName,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// chatCompletion makes one chat completion request and returns the
// first choice.
func (o *OpenAIService) chatCompletion(ctx context.Context, req openaiChatRequest) (*openaiChatChoice, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, openaiBaseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var openaiResp openaiChatResponse
	if err := json.Unmarshal(body, &openaiResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if openaiResp.Error != nil {
		return nil, fmt.Errorf("API error: %s", openaiResp.Error.Message)
	}
	if len(openaiResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	o.logger.Debug("Chat completion finished",
		"model", req.Model,
		"finish_reason", openaiResp.Choices[0].FinishReason,
		"total_tokens", openaiResp.Usage.TotalTokens)

	return &openaiResp.Choices[0], nil
}

func (o *OpenAIService) Chat(ctx context.Context, messages []chat.ChatMessage) (string, error) {
	choice, err := o.chatCompletion(ctx, openaiChatRequest{
		Model:       o.modelName,
		Messages:    messages,
		Temperature: DefaultOpenAITemperature,
	})
	if err != nil {
		return "", err
	}
	return choice.Message.Content, nil
}

func (o *OpenAIService) ChatWithSchema(ctx context.Context, messages []chat.ChatMessage, schema *chat.ResponseSchema) (string, error) {
	choice, err := o.chatCompletion(ctx, openaiChatRequest{
		Model:    o.modelName,
		Messages: messages,
		ResponseFormat: &openaiResponseFormat{
			Type:       "json_schema",
			JSONSchema: schema,
		},
	})
	if err != nil {
		return "", err
	}
	if choice.Message.Content == "" {
		return "", fmt.Errorf("no content received from chat completion")
	}
	return choice.Message.Content, nil
}

func (o *OpenAIService) ChatWithTools(ctx context.Context, messages []chat.ChatMessage, tools []chat.ToolDefinition) (*chat.ChatResult, error) {
	choice, err := o.chatCompletion(ctx, openaiChatRequest{
		Model:       o.modelName,
		Messages:    messages,
		Temperature: DefaultOpenAITemperature,
		Tools:       tools,
	})
	if err != nil {
		return nil, err
	}
	return &chat.ChatResult{
		Content:   choice.Message.Content,
		ToolCalls: choice.Message.ToolCalls,
	}, nil
}
