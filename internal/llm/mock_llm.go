package llm

import (
	"context"
	"fmt"
	"strings"
)

// ToolCall is a scripted tool invocation replayed by MockLLM.
type ToolCall struct {
	Name string
	Args map[string]string
}

// MockLLM is a deterministic LLM implementation for testing.
// It returns predictable responses based on prompt content.
type MockLLM struct {
	// Response is the fixed text returned by Generate.
	// If empty, a default response is generated from the prompt.
	Response string

	// Error, if set, is returned by Generate instead of a response.
	Error error

	// ToolCalls are executed in order by GenerateWithTools before answering.
	ToolCalls []ToolCall

	// LastPrompt stores the most recent prompt passed to Generate.
	LastPrompt string

	// LastMessages stores the conversation passed to GenerateWithTools.
	LastMessages []Message

	// ToolResults records the output of each scripted tool call.
	ToolResults []string

	// LastSettings records the most recent WithSettings override.
	LastSettings Settings

	// Calls counts Generate and GenerateWithTools invocations.
	Calls int
}

// NewMockLLM creates a mock LLM with the given fixed response.
func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

// NewMockLLMWithError creates a mock LLM that always returns an error.
func NewMockLLMWithError(err error) *MockLLM {
	return &MockLLM{Error: err}
}

// Generate returns the configured response or generates a deterministic one.
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Calls++
	m.LastPrompt = prompt

	if m.Error != nil {
		return "", m.Error
	}

	if m.Response != "" {
		return m.Response, nil
	}

	return generateMockResponse(prompt), nil
}

// GenerateWithTools replays ToolCalls against the given tools, then answers.
// When no Response is set, the answer is the tool results joined by newlines.
func (m *MockLLM) GenerateWithTools(ctx context.Context, messages []Message, tools []Tool) (string, error) {
	m.Calls++
	m.LastMessages = append([]Message(nil), messages...)
	if len(messages) > 0 {
		m.LastPrompt = messages[len(messages)-1].Content
	}

	if m.Error != nil {
		return "", m.Error
	}

	byName := make(map[string]Tool, len(tools))
	for _, t := range tools {
		byName[t.Name] = t
	}

	m.ToolResults = m.ToolResults[:0]
	for _, call := range m.ToolCalls {
		tool, ok := byName[call.Name]
		if !ok {
			m.ToolResults = append(m.ToolResults, fmt.Sprintf("error: unknown tool %q", call.Name))
			continue
		}
		result, err := tool.Invoke(ctx, call.Args)
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		}
		m.ToolResults = append(m.ToolResults, result)
	}

	if m.Response != "" {
		return m.Response, nil
	}
	if len(m.ToolResults) > 0 {
		return strings.Join(m.ToolResults, "\n"), nil
	}
	return generateMockResponse(m.LastPrompt), nil
}

// WithSettings records the override and returns the same mock.
func (m *MockLLM) WithSettings(s Settings) LLM {
	m.LastSettings = s
	return m
}

// generateMockResponse creates a predictable reply from the prompt.
func generateMockResponse(prompt string) string {
	lines := strings.Split(strings.TrimSpace(prompt), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		last = "(empty prompt)"
	}
	return fmt.Sprintf("Mock reply to: %s", last)
}
