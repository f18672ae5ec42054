package repository

import (
	"context"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

// MessageRepository defines the conversation store: per-pair message history
// keyed by the symmetric conversation key, insertion order authoritative.
//
// Remove is idempotent by contract: removing an absent id is a no-op, not an
// error, so duplicate self-destruct timers and races stay harmless.
type MessageRepository interface {
	// Append adds the message to its conversation bucket in arrival order.
	Append(ctx context.Context, m relay.EncryptedMessage) error

	// Remove deletes the message wherever it is stored and returns the removed
	// envelope, or nil if the id is unknown or already removed.
	Remove(ctx context.Context, messageID string) (*relay.EncryptedMessage, error)

	// MessagesFor returns every stored message where handle is sender or
	// recipient, in arrival order within each conversation, conversations
	// concatenated in a stable order.
	MessagesFor(ctx context.Context, handle string) ([]relay.EncryptedMessage, error)
}
