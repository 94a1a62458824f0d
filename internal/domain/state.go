package domain

import "unicode/utf8"

const (
	// MaxMessages bounds the stored history to a sliding window of the most
	// recent entries.
	MaxMessages = 40

	// MaxNotesChars caps stored user notes. Applied at write time, so the
	// stored value never exceeds the cap.
	MaxNotesChars = 20000
)

// SessionState is the persisted aggregate for one session id. It is always
// read and written whole; the owning actor is the only writer.
type SessionState struct {
	Messages []ChatMessage `json:"messages"`
	Summary  string        `json:"summary,omitempty"`
	Notes    string        `json:"notes,omitempty"`
	Profile  *UserProfile  `json:"profile,omitempty"`
}

// AppendMessage adds a message and trims the window so only the most recent
// MaxMessages entries remain, oldest evicted first.
func (s *SessionState) AppendMessage(m ChatMessage) {
	s.Messages = append(s.Messages, m)
	if len(s.Messages) > MaxMessages {
		s.Messages = s.Messages[len(s.Messages)-MaxMessages:]
	}
}

// RecentMessages returns the last n messages in original order.
func (s *SessionState) RecentMessages(n int) []ChatMessage {
	if n >= len(s.Messages) {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}

// SetNotes replaces the notes, truncating to MaxNotesChars characters.
func (s *SessionState) SetNotes(notes string) {
	if utf8.RuneCountInString(notes) > MaxNotesChars {
		notes = string([]rune(notes)[:MaxNotesChars])
	}
	s.Notes = notes
}

// MergeProfile folds a partial profile update into the stored profile.
func (s *SessionState) MergeProfile(p UserProfile) {
	merged := p
	if s.Profile != nil {
		merged = s.Profile.Merge(p)
	}
	s.Profile = &merged
}
