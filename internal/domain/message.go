// Package domain contains core domain types for the study-buddy server.
package domain

// Role identifies the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ChatMessage is a single conversation turn. Immutable once created.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
	TS      int64  `json:"ts"` // milliseconds since epoch
}

// PromptMessage is a role-tagged message sent to the model backend.
// Timestamps are dropped; the model only sees role and content.
type PromptMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
