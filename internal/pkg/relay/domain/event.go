package relay

import "errors"

// Domain-level errors for relay behaviors
var (
	ErrUnknownSender = errors.New("relay: caller's connection is not registered")
)

// Event is an outbound relay notification. Each concrete event maps to one wire
// frame type; marshaling is the transport adapter's concern.
type Event interface {
	EventName() string
}

// ParticipantList carries a presence snapshot for one recipient. Entries are
// already filtered: no connection ids, and never the recipient's own entry.
type ParticipantList struct {
	Participants []Participant
}

func (ParticipantList) EventName() string { return "users:list" }

// MessageHistory replays a participant's stored messages after registration.
type MessageHistory struct {
	Messages []EncryptedMessage
}

func (MessageHistory) EventName() string { return "messages:history" }

// MessageReceived delivers a freshly routed message to its recipient.
type MessageReceived struct {
	Message EncryptedMessage
}

func (MessageReceived) EventName() string { return "message:receive" }

// MessageAccepted confirms to the sender that the relay stored the message.
type MessageAccepted struct {
	Message EncryptedMessage
}

func (MessageAccepted) EventName() string { return "message:sent" }

// MessageDestroyed notifies a party that a self-destructing message expired.
type MessageDestroyed struct {
	MessageID string
}

func (MessageDestroyed) EventName() string { return "message:destroyed" }

// TypingSignal forwards an ephemeral typing indicator. Started distinguishes
// typing:start from typing:stop.
type TypingSignal struct {
	FromHandle string
	Started    bool
}

func (t TypingSignal) EventName() string {
	if t.Started {
		return "typing:start"
	}
	return "typing:stop"
}
