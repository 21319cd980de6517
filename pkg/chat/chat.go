package chat

const (
	ChatRoleUser   = "user"
	ChatRoleAgent  = "assistant" // Facilitator / narrator
	ChatRoleSystem = "system"
)

// ChatMessage represents a single chat message in a conversation
// with the chat completion endpoint. The structure follows the
// OpenAI-style messages array.
type ChatMessage struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ToolDefinition describes a function the model may call during
// a chat completion.
type ToolDefinition struct {
	Type     string       `json:"type"` // always "function"
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
}

// NewTool builds a function tool definition.
func NewTool(name, description string, parameters map[string]interface{}) ToolDefinition {
	return ToolDefinition{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// ToolCall is a function invocation chosen by the model. Arguments
// arrive as a raw JSON string and must be decoded by the dispatcher.
type ToolCall struct {
	ID       string           `json:"id,omitempty"`
	Type     string           `json:"type"`
	Function ToolCallFunction `json:"function"`
}

type ToolCallFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ResponseSchema constrains a chat completion to return JSON
// matching the given schema.
type ResponseSchema struct {
	Name   string                 `json:"name"`
	Schema map[string]interface{} `json:"schema"`
}

// ChatResult is the outcome of one chat completion call: either
// plain assistant text, or one or more tool calls, or both.
type ChatResult struct {
	Content   string     `json:"content,omitempty"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Empty reports whether the model returned neither content nor a
// tool call. Callers treat this as an external-call failure.
func (r *ChatResult) Empty() bool {
	return r == nil || (r.Content == "" && len(r.ToolCalls) == 0)
}
