package session

import (
	"encoding/json"

	"github.com/edukit/study-buddy/internal/domain"
)

// EventType tags an outbound client event.
type EventType string

const (
	EventHello   EventType = "hello"
	EventState   EventType = "state"
	EventMessage EventType = "message"
	EventError   EventType = "error"
)

// Event is one protocol event pushed to connected clients or returned from
// the command path. Which fields are meaningful depends on Type; the wire
// shape is produced by MarshalJSON.
type Event struct {
	Type      EventType
	SessionID string
	Message   *domain.ChatMessage
	Messages  []domain.ChatMessage
	Summary   string
	ErrorText string
}

// HelloEvent greets a freshly attached connection with the session id.
func HelloEvent(sessionID string) Event {
	return Event{Type: EventHello, SessionID: sessionID}
}

// StateEvent carries a full snapshot of messages and summary.
func StateEvent(state *domain.SessionState) Event {
	msgs := state.Messages
	if msgs == nil {
		msgs = []domain.ChatMessage{}
	}
	return Event{Type: EventState, Messages: msgs, Summary: state.Summary}
}

// MessageEvent carries one newly recorded chat message.
func MessageEvent(m domain.ChatMessage) Event {
	return Event{Type: EventMessage, Message: &m}
}

// ErrorEvent reports a problem back to a client.
func ErrorEvent(text string) Event {
	return Event{Type: EventError, ErrorText: text}
}

// MarshalJSON renders the tagged wire shape. The "message" key holds a chat
// message for message events and plain text for error events, so each type
// marshals through its own view.
func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Type {
	case EventHello:
		return json.Marshal(struct {
			Type      EventType `json:"type"`
			SessionID string    `json:"sessionId"`
		}{e.Type, e.SessionID})
	case EventState:
		return json.Marshal(struct {
			Type     EventType            `json:"type"`
			Messages []domain.ChatMessage `json:"messages"`
			Summary  string               `json:"summary,omitempty"`
		}{e.Type, e.Messages, e.Summary})
	case EventMessage:
		return json.Marshal(struct {
			Type    EventType           `json:"type"`
			Message *domain.ChatMessage `json:"message"`
		}{e.Type, e.Message})
	default:
		return json.Marshal(struct {
			Type    EventType `json:"type"`
			Message string    `json:"message"`
		}{EventError, e.ErrorText})
	}
}
