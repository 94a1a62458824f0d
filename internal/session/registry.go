package session

import (
	"context"
	"log/slog"
	"sync"
)

// Conn is one live viewer attached to a session. Implementations must
// tolerate Send being called from the actor goroutine at any time.
type Conn interface {
	// Send delivers one serialized event to the viewer.
	Send(ctx context.Context, ev Event) error

	// Close tears the connection down.
	Close() error
}

// Registry tracks the live connections attached to one session and fans
// events out to them.
type Registry struct {
	mu    sync.Mutex
	conns map[Conn]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[Conn]struct{})}
}

// Register adds a connection to the fan-out set.
func (r *Registry) Register(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c] = struct{}{}
}

// Unregister removes a connection. Safe to call for connections already
// dropped.
func (r *Registry) Unregister(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, c)
}

// Len reports the number of attached connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.conns)
}

// Broadcast delivers ev to every attached connection. A failed delivery
// drops that connection from the set and closes it; the rest still receive
// the event.
func (r *Registry) Broadcast(ctx context.Context, ev Event) {
	r.mu.Lock()
	conns := make([]Conn, 0, len(r.conns))
	for c := range r.conns {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		if err := c.Send(ctx, ev); err != nil {
			slog.Debug("Dropping stale connection", "error", err)
			r.Unregister(c)
			_ = c.Close()
		}
	}
}
