package session

import (
	"strings"

	"github.com/edukit/study-buddy/internal/domain"
)

// maxContextMessages caps how much stored history goes into a model call.
const maxContextMessages = 20

var systemPromptParts = []string{
	"You are a helpful study assistant.",
	"Be accurate, concise, and step-by-step when needed.",
	"If the user asks for a quiz, produce questions first, then wait for answers.",
}

// BuildContext renders the model-call context for the given state: one
// system instruction (base prompt plus any profile directives, joined by
// single spaces), an optional second system message carrying the rolling
// summary and user notes, then the most recent stored messages with
// timestamps dropped. The caller appends the new user turn afterwards.
func BuildContext(state *domain.SessionState) []domain.PromptMessage {
	parts := append([]string(nil), systemPromptParts...)
	if p := state.Profile; p != nil {
		if p.Topic != "" {
			parts = append(parts, "Topic focus: "+p.Topic)
		}
		if p.Difficulty != "" {
			parts = append(parts, "Difficulty: "+p.Difficulty)
		}
		if p.Format != "" {
			parts = append(parts, "Response format: "+p.Format)
		}
	}

	msgs := []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: strings.Join(parts, " ")},
	}

	var memory []string
	if state.Summary != "" {
		memory = append(memory, "Conversation summary:\n"+state.Summary)
	}
	if state.Notes != "" {
		memory = append(memory, "User notes/context:\n"+state.Notes)
	}
	if len(memory) > 0 {
		msgs = append(msgs, domain.PromptMessage{
			Role:    domain.RoleSystem,
			Content: strings.Join(memory, "\n\n"),
		})
	}

	for _, m := range state.RecentMessages(maxContextMessages) {
		msgs = append(msgs, domain.PromptMessage{Role: m.Role, Content: m.Content})
	}
	return msgs
}
