package port

import (
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

// EventSink is the outbound side of the relay: "who to notify" separated from
// the "what changed" the registry and store compute. Implementations marshal
// events into wire frames and push them down live connections.
//
// Both methods are best-effort and non-blocking from the caller's point of
// view: a lost push is acceptable, the message itself stays in the store.
type EventSink interface {
	// Deliver sends one event to a single connection.
	Deliver(connectionID string, e relay.Event)

	// BroadcastParticipants fans a presence snapshot out to every online
	// participant in it. Each recipient gets the list serialized without
	// connection ids and without their own entry.
	BroadcastParticipants(snapshot []relay.Participant)
}
