package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	schedulerport "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
)

// SendMessageInput carries an outbound ciphertext envelope from a registered
// connection. SelfDestructSeconds of zero means the message persists.
type SendMessageInput struct {
	SenderConnectionID string
	RecipientHandle    string
	Ciphertext         string
	SelfDestructSecs   int
}

// SendMessageUseCase is the message router: it persists the envelope, delivers
// it to an online recipient, always confirms to the sender, and arms the
// self-destruct scheduler when a delay is set.
//
// An unknown recipient handle is not an error: the message is stored and will
// be replayed if that handle ever registers. This mirrors the demo's
// offline-friendly semantics; the resulting unbounded accumulation for handles
// that never register is a known, deliberate trade-off.
type SendMessageUseCase struct {
	Registry  *presence.Registry
	Repo      repository.MessageRepository
	Scheduler schedulerport.Scheduler
	Sink      port.EventSink
}

func NewSendMessageUseCase(registry *presence.Registry, repo repository.MessageRepository,
	scheduler schedulerport.Scheduler, sink port.EventSink) *SendMessageUseCase {
	return &SendMessageUseCase{Registry: registry, Repo: repo, Scheduler: scheduler, Sink: sink}
}

func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*relay.EncryptedMessage, error) {
	sender, ok := uc.Registry.ByConnection(in.SenderConnectionID)
	if !ok {
		return nil, relay.ErrUnknownSender
	}

	msg, err := relay.NewEncryptedMessage(relay.EncryptedMessage{
		ID:               uuid.NewString(),
		SenderHandle:     sender.Handle,
		RecipientHandle:  in.RecipientHandle,
		Ciphertext:       in.Ciphertext,
		CreatedAt:        time.Now().UTC(),
		SelfDestructSecs: in.SelfDestructSecs,
	})
	if err != nil {
		return nil, err
	}

	if err := uc.Repo.Append(ctx, *msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if recipient, ok := uc.Registry.ByHandle(in.RecipientHandle); ok && recipient.Online() {
		uc.Sink.Deliver(recipient.ConnectionID, relay.MessageReceived{Message: *msg})
	}

	// The sender's confirmation is unconditional; it only says "stored", not "read".
	uc.Sink.Deliver(in.SenderConnectionID, relay.MessageAccepted{Message: *msg})

	if msg.SelfDestructs() {
		delay := time.Duration(msg.SelfDestructSecs) * time.Second
		if err := uc.Scheduler.Schedule(ctx, msg.ID, delay); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	return msg, nil
}
