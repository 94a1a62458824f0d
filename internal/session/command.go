package session

import (
	"encoding/json"
	"fmt"

	"github.com/edukit/study-buddy/internal/domain"
)

// Command types accepted from clients.
const (
	CmdMessage    = "message"
	CmdSetProfile = "set_profile"
	CmdSaveNotes  = "save_notes"
	CmdQuiz       = "quiz"
)

// Quiz question count bounds.
const (
	quizDefaultCount = 5
	quizMinCount     = 3
	quizMaxCount     = 10
)

// Command is one inbound client instruction. Which fields are meaningful
// depends on Type.
type Command struct {
	Type    string              `json:"type"`
	Content string              `json:"content,omitempty"`
	Profile *domain.UserProfile `json:"profile,omitempty"`
	Notes   string              `json:"notes,omitempty"`
	Count   int                 `json:"count,omitempty"`
}

// ParseCommand decodes a raw client payload into a Command. Unknown command
// types parse fine here; dispatch rejects them with an error event.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, fmt.Errorf("decode command: %w", err)
	}
	return cmd, nil
}

// clampQuizCount applies the default and clamps to the allowed range.
func clampQuizCount(n int) int {
	if n == 0 {
		n = quizDefaultCount
	}
	if n < quizMinCount {
		return quizMinCount
	}
	if n > quizMaxCount {
		return quizMaxCount
	}
	return n
}
