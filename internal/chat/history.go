// Package chat runs a multi-turn conversation with a model, keeping the
// history that is fed back into each prompt.
package chat

import (
	"strings"

	"github.com/Yates-Labs/reelmate/internal/llm"
)

// History is the ordered list of turns in a conversation.
type History struct {
	messages []llm.Message
}

// AddSystem appends a system turn.
func (h *History) AddSystem(content string) { h.add(llm.RoleSystem, content) }

// AddUser appends a user turn.
func (h *History) AddUser(content string) { h.add(llm.RoleUser, content) }

// AddAssistant appends an assistant turn.
func (h *History) AddAssistant(content string) { h.add(llm.RoleAssistant, content) }

func (h *History) add(role, content string) {
	h.messages = append(h.messages, llm.Message{Role: role, Content: content})
}

// Messages returns a copy of the turns.
func (h *History) Messages() []llm.Message {
	return append([]llm.Message(nil), h.messages...)
}

// Len reports the number of turns.
func (h *History) Len() int { return len(h.messages) }

// Render formats the history as "role: content" lines.
func (h *History) Render() string {
	lines := make([]string, 0, len(h.messages))
	for _, m := range h.messages {
		lines = append(lines, m.Role+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
