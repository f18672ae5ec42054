package adapter

import (
	"context"
	"sort"
	"sync"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
)

// conversation is one pair bucket. Its own mutex serializes mutations so
// unrelated conversations never contend.
type conversation struct {
	mu       sync.Mutex
	messages []relay.EncryptedMessage
}

// MemoryMessageRepository is the default conversation store: process memory
// only, unbounded, gone on restart. The outer lock guards the maps; each
// conversation carries its own lock.
type MemoryMessageRepository struct {
	mu            sync.RWMutex
	conversations map[string]*conversation
	owners        map[string]string // messageID -> conversation key
}

func NewMemoryMessageRepository() *MemoryMessageRepository {
	return &MemoryMessageRepository{
		conversations: make(map[string]*conversation),
		owners:        make(map[string]string),
	}
}

// Ensure interface compliance at compile time
var _ repository.MessageRepository = (*MemoryMessageRepository)(nil)

func (r *MemoryMessageRepository) Append(_ context.Context, m relay.EncryptedMessage) error {
	key := m.Conversation()

	r.mu.Lock()
	c := r.conversations[key]
	if c == nil {
		c = &conversation{}
		r.conversations[key] = c
	}
	r.owners[m.ID] = key
	r.mu.Unlock()

	c.mu.Lock()
	c.messages = append(c.messages, m)
	c.mu.Unlock()
	return nil
}

func (r *MemoryMessageRepository) Remove(_ context.Context, messageID string) (*relay.EncryptedMessage, error) {
	r.mu.Lock()
	key, ok := r.owners[messageID]
	if !ok {
		r.mu.Unlock()
		return nil, nil
	}
	delete(r.owners, messageID)
	c := r.conversations[key]
	r.mu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, m := range c.messages {
		if m.ID == messageID {
			removed := m
			c.messages = append(c.messages[:i], c.messages[i+1:]...)
			return &removed, nil
		}
	}
	return nil, nil
}

func (r *MemoryMessageRepository) MessagesFor(_ context.Context, handle string) ([]relay.EncryptedMessage, error) {
	r.mu.RLock()
	keys := make([]string, 0, len(r.conversations))
	for key := range r.conversations {
		keys = append(keys, key)
	}
	r.mu.RUnlock()
	// Sorted keys give the replay a stable conversation order.
	sort.Strings(keys)

	var out []relay.EncryptedMessage
	for _, key := range keys {
		r.mu.RLock()
		c := r.conversations[key]
		r.mu.RUnlock()
		if c == nil {
			continue
		}
		c.mu.Lock()
		for _, m := range c.messages {
			if m.SenderHandle == handle || m.RecipientHandle == handle {
				out = append(out, m)
			}
		}
		c.mu.Unlock()
	}
	return out, nil
}
