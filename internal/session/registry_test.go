package session

import (
	"context"
	"testing"
)

func TestBroadcastReachesAllConnections(t *testing.T) {
	r := NewRegistry()
	a, b, c := &fakeConn{}, &fakeConn{}, &fakeConn{}
	r.Register(a)
	r.Register(b)
	r.Register(c)

	r.Broadcast(context.Background(), ErrorEvent("ping"))

	for i, conn := range []*fakeConn{a, b, c} {
		if got := len(conn.received()); got != 1 {
			t.Errorf("Connection %d received %d events, want 1", i, got)
		}
	}
}

func TestBroadcastDropsFailedConnection(t *testing.T) {
	r := NewRegistry()
	healthy := &fakeConn{}
	stale := &fakeConn{fail: true}
	r.Register(healthy)
	r.Register(stale)

	r.Broadcast(context.Background(), ErrorEvent("ping"))

	if got := len(healthy.received()); got != 1 {
		t.Errorf("Healthy connection received %d events, want 1", got)
	}
	if r.Len() != 1 {
		t.Errorf("Expected stale connection dropped, registry has %d", r.Len())
	}
	if !stale.closed {
		t.Error("Expected stale connection closed")
	}

	// Subsequent broadcasts skip the dropped connection.
	r.Broadcast(context.Background(), ErrorEvent("again"))
	if got := len(healthy.received()); got != 2 {
		t.Errorf("Healthy connection received %d events, want 2", got)
	}
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	conn := &fakeConn{}
	r.Register(conn)
	r.Unregister(conn)
	r.Unregister(conn) // second removal is a no-op

	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Len())
	}

	r.Broadcast(context.Background(), ErrorEvent("ping"))
	if len(conn.received()) != 0 {
		t.Error("Unregistered connection received a broadcast")
	}
}
