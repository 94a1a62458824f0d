// Package model provides the client for the text-generation backend.
package model

import (
	"context"

	"github.com/edukit/study-buddy/internal/domain"
)

// Generator is the model backend: it takes an ordered list of role-tagged
// messages and returns generated text. Calls may fail or produce empty
// output; callers decide how to degrade.
type Generator interface {
	Generate(ctx context.Context, messages []domain.PromptMessage) (string, error)
}
