package session

import (
	"sync"

	"github.com/edukit/study-buddy/internal/model"
	"github.com/edukit/study-buddy/internal/store"
)

// Hub hands out the single Actor owning each session id. Lookups for the
// same id always return the same instance, which is what guarantees one
// writer per stored session state. Different sessions run fully
// independently.
type Hub struct {
	repo store.Repository
	gen  model.Generator

	mu     sync.Mutex
	actors map[string]*Actor
}

// NewHub creates a hub wiring actors to the given store and model backend.
func NewHub(repo store.Repository, gen model.Generator) *Hub {
	return &Hub{
		repo:   repo,
		gen:    gen,
		actors: make(map[string]*Actor),
	}
}

// Actor returns the actor owning the given session id, creating it on first
// use. Session state itself is created lazily on first read from the store.
func (h *Hub) Actor(sessionID string) *Actor {
	h.mu.Lock()
	defer h.mu.Unlock()

	a, ok := h.actors[sessionID]
	if !ok {
		a = NewActor(sessionID, h.repo, h.gen)
		h.actors[sessionID] = a
	}
	return a
}
