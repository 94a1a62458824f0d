// Package session implements the per-session actor: command processing,
// context building, summarization, and event fan-out to live connections.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/edukit/study-buddy/internal/domain"
	"github.com/edukit/study-buddy/internal/model"
	"github.com/edukit/study-buddy/internal/store"
)

// Fallback texts substituted for the assistant turn when the model backend
// fails or produces nothing. The reply pipeline always records an assistant
// message; backend failures are absorbed here, never surfaced as errors.
const (
	fallbackModelError = "The AI model call failed. Please try again."
	fallbackEmptyReply = "I couldn't generate a response. Try rephrasing your request."
)

// Actor owns the state of one session. All command processing for a session
// goes through its mutex, so each command reads the stored state, mutates,
// persists, and broadcasts before the next one starts. The store is only
// ever touched from inside that critical section, which is what makes the
// read-full/write-full pattern safe without any store-level locking.
type Actor struct {
	id        string
	repo      store.Repository
	generator model.Generator
	registry  *Registry

	mu sync.Mutex
}

// NewActor creates the actor owning the given session id.
func NewActor(id string, repo store.Repository, gen model.Generator) *Actor {
	return &Actor{
		id:        id,
		repo:      repo,
		generator: gen,
		registry:  NewRegistry(),
	}
}

// ID returns the session identifier this actor owns.
func (a *Actor) ID() string {
	return a.id
}

// Snapshot returns the current stored state, yielding the implicit empty
// state when none has been persisted yet.
func (a *Actor) Snapshot(ctx context.Context) (*domain.SessionState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.readState(ctx)
}

// Attach registers a live connection and pushes the hello handshake plus a
// full state snapshot, so a new viewer starts current without a replay of
// individual message events.
func (a *Actor) Attach(ctx context.Context, c Conn) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.registry.Register(c)

	state, err := a.readState(ctx)
	if err != nil {
		slog.Error("Failed to read state for new connection", "session_id", a.id, "error", err)
		state = &domain.SessionState{Messages: []domain.ChatMessage{}}
	}

	if err := c.Send(ctx, HelloEvent(a.id)); err != nil {
		a.registry.Unregister(c)
		return
	}
	if err := c.Send(ctx, StateEvent(state)); err != nil {
		a.registry.Unregister(c)
	}
}

// Detach removes a connection from the fan-out set.
func (a *Actor) Detach(c Conn) {
	a.registry.Unregister(c)
}

// HandleCommand applies one client command to the session and returns the
// resulting event. Commands for the same session never run concurrently.
func (a *Actor) HandleCommand(ctx context.Context, cmd Command) Event {
	a.mu.Lock()
	defer a.mu.Unlock()

	state, err := a.readState(ctx)
	if err != nil {
		slog.Error("Failed to read session state", "session_id", a.id, "error", err)
		return ErrorEvent("Session state unavailable.")
	}

	switch cmd.Type {
	case CmdSetProfile:
		var partial domain.UserProfile
		if cmd.Profile != nil {
			partial = *cmd.Profile
		}
		state.MergeProfile(partial)
		if err := a.writeState(ctx, state); err != nil {
			slog.Error("Failed to persist profile", "session_id", a.id, "error", err)
			return ErrorEvent("Failed to save session state.")
		}
		ev := StateEvent(state)
		a.registry.Broadcast(ctx, ev)
		return ev

	case CmdSaveNotes:
		state.SetNotes(cmd.Notes)
		if err := a.writeState(ctx, state); err != nil {
			slog.Error("Failed to persist notes", "session_id", a.id, "error", err)
			return ErrorEvent("Failed to save session state.")
		}
		ev := StateEvent(state)
		a.registry.Broadcast(ctx, ev)
		return ev

	case CmdQuiz:
		count := clampQuizCount(cmd.Count)
		prompt := fmt.Sprintf("Create a %d-question quiz based on the user's notes and the conversation. Provide numbered questions only. Mix conceptual and practice questions.", count)
		return a.handleUserMessage(ctx, state, prompt, true)

	case CmdMessage:
		content := strings.TrimSpace(cmd.Content)
		if content == "" {
			return ErrorEvent("Message was empty.")
		}
		return a.handleUserMessage(ctx, state, content, false)

	default:
		return ErrorEvent("Unknown command.")
	}
}

// handleUserMessage runs the reply pipeline: record the user turn (unless
// synthetic), call the model with the built context plus the new content,
// append the assistant turn, refresh the summary on cadence, persist once,
// then broadcast the assistant message.
//
// The user turn is persisted and broadcast before the model call, so what
// viewers saw is never ahead of storage even if the model call hangs or the
// process dies mid-call. Synthetic prompts (quiz) reach the model but are
// never stored as messages.
func (a *Actor) handleUserMessage(ctx context.Context, state *domain.SessionState, content string, synthetic bool) Event {
	if !synthetic {
		userMsg := domain.ChatMessage{Role: domain.RoleUser, Content: content, TS: time.Now().UnixMilli()}
		state.AppendMessage(userMsg)
		if err := a.writeState(ctx, state); err != nil {
			slog.Error("Failed to persist user message", "session_id", a.id, "error", err)
			return ErrorEvent("Failed to save session state.")
		}
		a.registry.Broadcast(ctx, MessageEvent(userMsg))
	}

	prompt := append(BuildContext(state), domain.PromptMessage{Role: domain.RoleUser, Content: content})

	text, err := a.generator.Generate(ctx, prompt)
	switch {
	case err != nil:
		slog.Warn("Model call failed, substituting fallback reply", "session_id", a.id, "error", err)
		text = fallbackModelError
	case strings.TrimSpace(text) == "":
		text = fallbackEmptyReply
	default:
		text = strings.TrimSpace(text)
	}

	asstMsg := domain.ChatMessage{Role: domain.RoleAssistant, Content: text, TS: time.Now().UnixMilli()}
	state.AppendMessage(asstMsg)

	a.summarize(ctx, state)

	if err := a.writeState(ctx, state); err != nil {
		// The reply was already generated; deliver it and accept that the
		// stored history is one exchange behind until the next write.
		slog.Error("Failed to persist assistant message", "session_id", a.id, "error", err)
	}

	ev := MessageEvent(asstMsg)
	a.registry.Broadcast(ctx, ev)
	return ev
}

func (a *Actor) readState(ctx context.Context) (*domain.SessionState, error) {
	state, err := a.repo.GetSession(ctx, a.id)
	if err != nil {
		return nil, fmt.Errorf("read session state: %w", err)
	}
	if state == nil {
		state = &domain.SessionState{}
	}
	if state.Messages == nil {
		state.Messages = []domain.ChatMessage{}
	}
	return state, nil
}

func (a *Actor) writeState(ctx context.Context, state *domain.SessionState) error {
	if err := a.repo.PutSession(ctx, a.id, state); err != nil {
		return fmt.Errorf("write session state: %w", err)
	}
	return nil
}
