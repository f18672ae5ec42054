package realtime

import (
	"errors"
	"sync"
)

// ErrNotConnected is returned when a payload targets a connection id the
// router no longer tracks.
var ErrNotConnected = errors.New("realtime: connection not attached")

// Router tracks live websocket sessions by connection id. It is deliberately
// ignorant of participant handles: the presence registry owns the handle to
// connection binding, and this router only moves bytes to whichever socket a
// connection id names.
type Router struct {
	mu       sync.RWMutex
	sessions map[string]*Connection // connectionID -> connection
}

// NewRouter constructs an initialized Router.
func NewRouter() *Router {
	return &Router{sessions: make(map[string]*Connection)}
}

// Attach registers a connection and starts its write loop.
func (r *Router) Attach(conn *Connection) {
	r.mu.Lock()
	r.sessions[conn.ID] = conn
	r.mu.Unlock()

	conn.Start()
}

// Detach removes a connection if it is still tracked.
func (r *Router) Detach(conn *Connection) {
	r.mu.Lock()
	delete(r.sessions, conn.ID)
	r.mu.Unlock()
}

// Send writes payload to the connection, best-effort. Delivery is at-most-once:
// a full buffer or a closed socket loses the payload and reports an error the
// caller is free to ignore.
func (r *Router) Send(connectionID string, payload []byte) error {
	r.mu.RLock()
	conn := r.sessions[connectionID]
	r.mu.RUnlock()
	if conn == nil {
		return ErrNotConnected
	}
	return conn.Send(payload)
}

// Len reports the number of attached connections.
func (r *Router) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close terminates all tracked connections and clears router state.
func (r *Router) Close() {
	r.mu.Lock()
	sessions := make([]*Connection, 0, len(r.sessions))
	for _, conn := range r.sessions {
		sessions = append(sessions, conn)
	}
	r.sessions = make(map[string]*Connection)
	r.mu.Unlock()

	for _, conn := range sessions {
		conn.Close(1001, "router shutdown")
	}
}
