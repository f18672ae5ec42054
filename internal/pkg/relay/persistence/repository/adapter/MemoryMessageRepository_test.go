package adapter

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

func message(id, sender, recipient string) relay.EncryptedMessage {
	return relay.EncryptedMessage{
		ID:              id,
		SenderHandle:    sender,
		RecipientHandle: recipient,
		Ciphertext:      "ZW5jcnlwdGVk",
		CreatedAt:       time.Now().UTC(),
	}
}

func Test_Append_And_MessagesFor(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	req.NoError(repo.Append(ctx, message("m-1", "alice", "bob")))
	req.NoError(repo.Append(ctx, message("m-2", "bob", "alice")))
	req.NoError(repo.Append(ctx, message("m-3", "carol", "dave")))

	got, err := repo.MessagesFor(ctx, "alice")
	req.NoError(err)
	req.Len(got, 2)
	req.Equal("m-1", got[0].ID)
	req.Equal("m-2", got[1].ID)

	got, err = repo.MessagesFor(ctx, "nobody")
	req.NoError(err)
	req.Empty(got)
}

func Test_Conversation_Preserves_Arrival_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	for i := 0; i < 10; i++ {
		sender, recipient := "alice", "bob"
		if i%2 == 1 {
			sender, recipient = "bob", "alice"
		}
		req.NoError(repo.Append(ctx, message(fmt.Sprintf("m-%d", i), sender, recipient)))
	}

	got, err := repo.MessagesFor(ctx, "alice")
	req.NoError(err)
	req.Len(got, 10)
	for i, m := range got {
		req.Equal(fmt.Sprintf("m-%d", i), m.ID)
	}
}

func Test_MessagesFor_Direction_Agnostic(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	// Both directions land in the same bucket regardless of who sent first.
	req.NoError(repo.Append(ctx, message("m-1", "bob", "alice")))
	req.NoError(repo.Append(ctx, message("m-2", "alice", "bob")))

	forAlice, err := repo.MessagesFor(ctx, "alice")
	req.NoError(err)
	forBob, err := repo.MessagesFor(ctx, "bob")
	req.NoError(err)
	req.Equal(forAlice, forBob)
}

func Test_Remove_Returns_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	req.NoError(repo.Append(ctx, message("m-1", "alice", "bob")))
	req.NoError(repo.Append(ctx, message("m-2", "alice", "bob")))

	removed, err := repo.Remove(ctx, "m-1")
	req.NoError(err)
	req.NotNil(removed)
	req.Equal("m-1", removed.ID)
	req.Equal("alice", removed.SenderHandle)

	got, err := repo.MessagesFor(ctx, "alice")
	req.NoError(err)
	req.Len(got, 1)
	req.Equal("m-2", got[0].ID)
}

func Test_Remove_Is_Idempotent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repo := NewMemoryMessageRepository()

	req.NoError(repo.Append(ctx, message("m-1", "alice", "bob")))

	removed, err := repo.Remove(ctx, "m-1")
	req.NoError(err)
	req.NotNil(removed)

	removed, err = repo.Remove(ctx, "m-1")
	req.NoError(err)
	req.Nil(removed)

	removed, err = repo.Remove(ctx, "never-stored")
	req.NoError(err)
	req.Nil(removed)
}
