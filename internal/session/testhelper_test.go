package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/edukit/study-buddy/internal/domain"
)

// memRepo is an in-memory Repository. It round-trips state through JSON so
// stored values never alias the caller's pointers, matching what the SQLite
// store does.
type memRepo struct {
	mu     sync.Mutex
	states map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newMemRepo() *memRepo {
	return &memRepo{states: make(map[string][]byte)}
}

func (r *memRepo) GetSession(_ context.Context, sessionID string) (*domain.SessionState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	raw, ok := r.states[sessionID]
	if !ok {
		return nil, nil
	}
	var state domain.SessionState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *memRepo) PutSession(_ context.Context, sessionID string, state *domain.SessionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.putErr != nil {
		return r.putErr
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	r.states[sessionID] = raw
	r.puts++
	return nil
}

func (r *memRepo) Ping(context.Context) error { return nil }
func (r *memRepo) Close() error               { return nil }

// mustState reads back what the repo holds for a session id.
func (r *memRepo) mustState(sessionID string) *domain.SessionState {
	state, err := r.GetSession(context.Background(), sessionID)
	if err != nil {
		panic(err)
	}
	return state
}

// stubGenerator answers model calls through a configurable function and
// records every prompt it saw.
type stubGenerator struct {
	mu       sync.Mutex
	generate func(messages []domain.PromptMessage) (string, error)
	prompts  [][]domain.PromptMessage
}

func (g *stubGenerator) Generate(_ context.Context, messages []domain.PromptMessage) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, messages)
	g.mu.Unlock()
	if g.generate == nil {
		return "stub reply", nil
	}
	return g.generate(messages)
}

func (g *stubGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

var errConnClosed = errors.New("connection closed")

// fakeConn records delivered events; it can be made to fail on Send.
type fakeConn struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	closed bool
}

func (c *fakeConn) Send(_ context.Context, ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errConnClosed
	}
	c.events = append(c.events, ev)
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeConn) received() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}
