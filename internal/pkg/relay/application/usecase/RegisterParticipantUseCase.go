package usecase

import (
	"context"
	"fmt"

	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
)

// RegisterParticipantInput carries a participant's self-declared identity.
// PublicKey is stored and rebroadcast verbatim; the relay never inspects it.
type RegisterParticipantInput struct {
	ConnectionID string
	Handle       string
	DisplayName  string
	PublicKey    string
}

// RegisterParticipantUseCase upserts the caller into the presence registry,
// broadcasts the new snapshot, and replays the caller's message history.
// Registration is idempotent: a second register from a new socket simply
// rebinds the handle to the new connection.
type RegisterParticipantUseCase struct {
	Registry *presence.Registry
	Repo     repository.MessageRepository
	Sink     port.EventSink
}

func NewRegisterParticipantUseCase(registry *presence.Registry, repo repository.MessageRepository, sink port.EventSink) *RegisterParticipantUseCase {
	return &RegisterParticipantUseCase{Registry: registry, Repo: repo, Sink: sink}
}

func (uc *RegisterParticipantUseCase) Execute(ctx context.Context, in RegisterParticipantInput) (*relay.Participant, error) {
	if in.Handle == "" || in.ConnectionID == "" {
		return nil, fmt.Errorf("handle and connection id are required")
	}

	p, snapshot := uc.Registry.Register(in.Handle, in.DisplayName, in.PublicKey, in.ConnectionID)
	uc.Sink.BroadcastParticipants(snapshot)

	history, err := uc.Repo.MessagesFor(ctx, in.Handle)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	uc.Sink.Deliver(in.ConnectionID, relay.MessageHistory{Messages: history})

	return &p, nil
}
