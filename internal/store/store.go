// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/edukit/study-buddy/internal/domain"
)

// Repository defines the interface for persisting session state. Each
// session maps to exactly one stored blob; reads and writes are whole-state
// only.
type Repository interface {
	// GetSession retrieves the stored state for a session id.
	// Returns (nil, nil) when no state has been stored yet.
	GetSession(ctx context.Context, sessionID string) (*domain.SessionState, error)

	// PutSession creates or replaces the stored state for a session id.
	PutSession(ctx context.Context, sessionID string, state *domain.SessionState) error

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
