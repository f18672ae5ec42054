package usecase

import (
	"context"

	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
)

// TypingSignalInput identifies the target of a typing indicator. Started is
// true for typing:start, false for typing:stop.
type TypingSignalInput struct {
	SenderConnectionID string
	RecipientHandle    string
	Started            bool
}

// TypingSignalUseCase forwards ephemeral typing indicators. Nothing is stored:
// an offline or unknown recipient simply means the signal evaporates. The
// relay never expires a typing indicator on its own; that is a client display
// concern.
type TypingSignalUseCase struct {
	Registry *presence.Registry
	Sink     port.EventSink
}

func NewTypingSignalUseCase(registry *presence.Registry, sink port.EventSink) *TypingSignalUseCase {
	return &TypingSignalUseCase{Registry: registry, Sink: sink}
}

func (uc *TypingSignalUseCase) Execute(_ context.Context, in TypingSignalInput) error {
	sender, ok := uc.Registry.ByConnection(in.SenderConnectionID)
	if !ok {
		return relay.ErrUnknownSender
	}

	recipient, ok := uc.Registry.ByHandle(in.RecipientHandle)
	if !ok || !recipient.Online() {
		return nil
	}

	uc.Sink.Deliver(recipient.ConnectionID, relay.TypingSignal{
		FromHandle: sender.Handle,
		Started:    in.Started,
	})
	return nil
}
