package domain

// UserProfile stores small structured study preferences. All fields are
// optional; the zero value means "not set".
type UserProfile struct {
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"` // easy, medium, hard
	Format     string `json:"format,omitempty"`     // short, detailed
}

// Merge applies a partial update: fields set in p overwrite, fields left
// empty keep the stored value.
func (u UserProfile) Merge(p UserProfile) UserProfile {
	if p.Topic != "" {
		u.Topic = p.Topic
	}
	if p.Difficulty != "" {
		u.Difficulty = p.Difficulty
	}
	if p.Format != "" {
		u.Format = p.Format
	}
	return u
}
