// Package llm defines a provider-agnostic chat model interface with an
// OpenAI / Azure OpenAI implementation and a deterministic mock for tests.
// Models can be handed tools, which they may call while composing an answer.
package llm

import (
	"context"
	"errors"
)

var (
	ErrLLMFailed     = errors.New("LLM request failed")
	ErrInvalidConfig = errors.New("invalid LLM configuration")
)

// Provider names accepted by Config.Provider.
const (
	ProviderOpenAI = "openai"
	ProviderAzure  = "azure"
)

// MaxToolRounds bounds how many times a model may call tools before it must answer.
const MaxToolRounds = 5

// Roles used in Message.Role.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// LLM defines the interface for interacting with language models.
type LLM interface {
	// Generate produces text from a prompt using the configured model.
	Generate(ctx context.Context, prompt string) (string, error)
}

// ToolCaller is implemented by models that support function calling.
type ToolCaller interface {
	// GenerateWithTools answers the conversation, invoking tools as the model
	// requests them, and returns the final assistant text.
	GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (string, error)
}

// Configurable is implemented by models whose sampling settings can be
// overridden for a single function.
type Configurable interface {
	WithSettings(s Settings) LLM
}

// Message is one turn of a conversation.
type Message struct {
	Role    string
	Content string
}

// ToolParam describes one string argument of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// Tool is a function the model may call. Arguments arrive as strings keyed
// by parameter name.
type Tool struct {
	Name        string
	Description string
	Params      []ToolParam
	Invoke      func(ctx context.Context, args map[string]string) (string, error)
}

// Settings are per-call sampling overrides. Zero values keep the model default.
type Settings struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// Config holds configuration for an LLM provider.
type Config struct {
	// Provider is "openai" or "azure"
	Provider string

	// Model is the model identifier; for Azure it is the deployment name
	Model string

	// Temperature controls randomness (0 = provider default)
	Temperature float32

	// TopP is nucleus sampling mass (0 = provider default)
	TopP float32

	// MaxTokens limits the response length (0 = provider default)
	MaxTokens int

	APIKey string

	// OrgID is the optional OpenAI organization
	OrgID string

	// Endpoint and APIVersion are used by Azure only
	Endpoint   string
	APIVersion string
}

// DefaultConfig returns the chat defaults used by the assistant.
func DefaultConfig() Config {
	return Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4-1106-preview",
		Temperature: 0.7,
		TopP:        0.8,
		MaxTokens:   2000,
		APIVersion:  "2024-06-01",
	}
}

// Apply returns c with the non-zero fields of s layered on top.
func (c Config) Apply(s Settings) Config {
	if s.Temperature > 0 {
		c.Temperature = s.Temperature
	}
	if s.TopP > 0 {
		c.TopP = s.TopP
	}
	if s.MaxTokens > 0 {
		c.MaxTokens = s.MaxTokens
	}
	return c
}
