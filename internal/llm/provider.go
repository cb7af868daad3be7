package llm

import (
	"context"
	"encoding/json"
)

// Provider is the completion capability the quest generator talks to.
// It is deliberately opaque: callers hand over a prompt plus an optional
// JSON schema and get structured JSON back. Test doubles implement the
// same interface; there is no special-cased mock path.
type Provider interface {
	// Generate sends a request to the model and returns its response.
	// When the request carries a Schema, the returned Content is JSON
	// that validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID reports the configured model identifier.
	ModelID() string
}

// Request describes a single completion call.
type Request struct {
	// System sets the model's role and ground rules.
	System string

	// Messages is the ordered conversation. Quest generation starts
	// with one user message and grows by assistant/user pairs as
	// refinement rounds are appended.
	Messages []Message

	// Schema, when set, constrains the response to JSON matching it.
	Schema *Schema

	// MaxTokens bounds the response length.
	MaxTokens int

	// Temperature in [0,1]; zero means deterministic.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role identifies the message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names and defines the JSON structure expected from the model.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "daily-quests". Doubles as
	// the schema cache key.
	Name string

	// Description tells the model what the structure represents.
	Description string

	// Definition is the JSON Schema as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated JSON (schema-validated when the request
	// carried a Schema).
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token counts for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
