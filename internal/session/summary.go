package session

import (
	"context"
	"log/slog"
	"strings"

	"github.com/edukit/study-buddy/internal/domain"
)

// summaryEvery is the compaction cadence: the summary refreshes whenever the
// stored history length reaches a multiple of this count.
const summaryEvery = 12

const summaryInstruction = "Summarize the conversation so far in 6-10 bullet points. Keep it factual and compact. Include any user preferences and important details."

// shouldSummarize reports whether a history of length n is on the cadence.
func shouldSummarize(n int) bool {
	return n >= summaryEvery && n%summaryEvery == 0
}

// summaryPrompt builds the one-shot summarization request from the prior
// summary and the most recent messages rendered as "role: content" lines.
func summaryPrompt(state *domain.SessionState) []domain.PromptMessage {
	var sb strings.Builder
	sb.WriteString("Existing summary (if any):\n")
	if state.Summary != "" {
		sb.WriteString(state.Summary)
	} else {
		sb.WriteString("(none)")
	}
	sb.WriteString("\n\nRecent messages:\n")
	for i, m := range state.RecentMessages(summaryEvery) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(m.Role))
		sb.WriteString(": ")
		sb.WriteString(m.Content)
	}

	return []domain.PromptMessage{
		{Role: domain.RoleSystem, Content: summaryInstruction},
		{Role: domain.RoleUser, Content: sb.String()},
	}
}

// summarize refreshes state.Summary when the history is on the cadence.
// Best effort: on model failure or empty output the prior summary is kept
// unchanged and nothing is surfaced to the caller.
func (a *Actor) summarize(ctx context.Context, state *domain.SessionState) {
	if !shouldSummarize(len(state.Messages)) {
		return
	}

	text, err := a.generator.Generate(ctx, summaryPrompt(state))
	if err != nil {
		slog.Warn("Summarization failed, keeping previous summary", "session_id", a.id, "error", err)
		return
	}
	if text = strings.TrimSpace(text); text != "" {
		state.Summary = text
	}
}
