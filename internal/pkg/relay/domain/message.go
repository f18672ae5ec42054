package relay

import (
	"errors"
	"strings"
	"time"
)

// EncryptedMessage is an immutable ciphertext envelope routed between two
// handles. The relay never decrypts Ciphertext; it only stores and forwards it.
type EncryptedMessage struct {
	ID               string    `json:"id"`
	SenderHandle     string    `json:"sender_handle"`
	RecipientHandle  string    `json:"recipient_handle"`
	Ciphertext       string    `json:"ciphertext"`
	CreatedAt        time.Time `json:"created_at"`
	SelfDestructSecs int       `json:"self_destruct_seconds,omitempty"`
}

// NewEncryptedMessage validates and normalizes a message envelope.
// A zero CreatedAt is set to now; a negative self-destruct delay is rejected.
func NewEncryptedMessage(m EncryptedMessage) (*EncryptedMessage, error) {
	if m.SenderHandle == "" || m.RecipientHandle == "" {
		return nil, errors.New("sender_handle and recipient_handle are required")
	}
	if strings.TrimSpace(m.Ciphertext) == "" {
		return nil, errors.New("message must contain ciphertext")
	}
	if m.SelfDestructSecs < 0 {
		return nil, errors.New("self_destruct_seconds must be positive when set")
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return &m, nil
}

// SelfDestructs reports whether the message carries a timed-deletion delay.
func (m EncryptedMessage) SelfDestructs() bool {
	return m.SelfDestructSecs > 0
}

// ConversationKey derives the symmetric bucket key for a participant pair:
// ConversationKey(a, b) == ConversationKey(b, a).
func ConversationKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}

// Conversation returns the key of the bucket this message belongs to.
func (m EncryptedMessage) Conversation() string {
	return ConversationKey(m.SenderHandle, m.RecipientHandle)
}
