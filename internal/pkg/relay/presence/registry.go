// Package presence tracks registered participants and their live connections.
//
// The registry is pure state: mutators return the post-mutation snapshot and
// never touch the transport. Fanning a snapshot out to connected clients is an
// EventSink concern, which keeps this package unit-testable without sockets.
package presence

import (
	"sort"
	"sync"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

type entry struct {
	mu sync.Mutex
	p  relay.Participant
}

// Registry holds one record per handle. The outer lock only guards the maps;
// each participant record has its own mutex so updates to unrelated handles
// make independent progress.
type Registry struct {
	mu       sync.RWMutex
	byHandle map[string]*entry
	byConn   map[string]string // connectionID -> handle
}

func NewRegistry() *Registry {
	return &Registry{
		byHandle: make(map[string]*entry),
		byConn:   make(map[string]string),
	}
}

// Register upserts a participant. A known handle gets its connection id,
// display name, and public key replaced and its status forced to online; an
// unknown handle is created. Returns the updated record and the full snapshot
// to broadcast.
func (r *Registry) Register(handle, displayName, publicKey, connectionID string) (relay.Participant, []relay.Participant) {
	r.mu.Lock()
	e, ok := r.byHandle[handle]
	if !ok {
		e = &entry{}
		r.byHandle[handle] = e
	}
	// A re-register from a new socket supersedes the old routing token.
	e.mu.Lock()
	if prev := e.p.ConnectionID; prev != "" && prev != connectionID {
		delete(r.byConn, prev)
	}
	r.byConn[connectionID] = handle
	e.p = relay.Participant{
		Handle:       handle,
		DisplayName:  displayName,
		PublicKey:    publicKey,
		Status:       relay.StatusOnline,
		ConnectionID: connectionID,
	}
	p := e.p
	e.mu.Unlock()
	r.mu.Unlock()

	return p, r.Snapshot()
}

// SetStatus updates a participant's presence state. Unknown handles are a
// silent no-op: ok is false and the snapshot is nil.
func (r *Registry) SetStatus(handle string, status relay.Status) ([]relay.Participant, bool) {
	r.mu.RLock()
	e, ok := r.byHandle[handle]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	e.p.Status = status
	e.mu.Unlock()

	return r.Snapshot(), true
}

// Disconnect marks the participant owning connectionID as offline and clears
// the routing token. Returns ok=false when the connection was never registered
// or already released.
func (r *Registry) Disconnect(connectionID string) ([]relay.Participant, bool) {
	r.mu.Lock()
	handle, ok := r.byConn[connectionID]
	if !ok {
		r.mu.Unlock()
		return nil, false
	}
	delete(r.byConn, connectionID)
	e := r.byHandle[handle]
	r.mu.Unlock()

	e.mu.Lock()
	// Only release if a newer socket has not already re-registered the handle.
	if e.p.ConnectionID == connectionID {
		e.p.ConnectionID = ""
		e.p.Status = relay.StatusOffline
	}
	e.mu.Unlock()

	return r.Snapshot(), true
}

// ByConnection resolves the participant bound to a live connection id.
func (r *Registry) ByConnection(connectionID string) (relay.Participant, bool) {
	r.mu.RLock()
	handle, ok := r.byConn[connectionID]
	if !ok {
		r.mu.RUnlock()
		return relay.Participant{}, false
	}
	e := r.byHandle[handle]
	r.mu.RUnlock()

	e.mu.Lock()
	p := e.p
	e.mu.Unlock()
	return p, true
}

// ByHandle resolves a participant by its stable identifier.
func (r *Registry) ByHandle(handle string) (relay.Participant, bool) {
	r.mu.RLock()
	e, ok := r.byHandle[handle]
	r.mu.RUnlock()
	if !ok {
		return relay.Participant{}, false
	}

	e.mu.Lock()
	p := e.p
	e.mu.Unlock()
	return p, true
}

// Snapshot returns a copy of every participant record, sorted by handle so
// broadcasts are stable across calls.
func (r *Registry) Snapshot() []relay.Participant {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.byHandle))
	for _, e := range r.byHandle {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	participants := make([]relay.Participant, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		participants = append(participants, e.p)
		e.mu.Unlock()
	}
	sort.Slice(participants, func(i, j int) bool {
		return participants[i].Handle < participants[j].Handle
	})
	return participants
}
