package usecase

import (
	"context"
	"fmt"

	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
	repository "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/port"
)

// DestroyMessageUseCase removes an expired self-destruct message and tells
// both parties, if still connected, that it is gone. It is the scheduler's
// Expirer: safe to run twice for the same id (the second run finds nothing and
// does nothing), and it goes through the same store and sink as every other
// path with no special-cased transport logic.
type DestroyMessageUseCase struct {
	Registry *presence.Registry
	Repo     repository.MessageRepository
	Sink     port.EventSink
}

func NewDestroyMessageUseCase(registry *presence.Registry, repo repository.MessageRepository, sink port.EventSink) *DestroyMessageUseCase {
	return &DestroyMessageUseCase{Registry: registry, Repo: repo, Sink: sink}
}

func (uc *DestroyMessageUseCase) Execute(ctx context.Context, messageID string) error {
	removed, err := uc.Repo.Remove(ctx, messageID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if removed == nil {
		// Already gone; duplicate timers and races land here.
		return nil
	}

	destroyed := relay.MessageDestroyed{MessageID: removed.ID}
	for _, handle := range []string{removed.SenderHandle, removed.RecipientHandle} {
		if p, ok := uc.Registry.ByHandle(handle); ok && p.Online() {
			uc.Sink.Deliver(p.ConnectionID, destroyed)
		}
	}
	return nil
}
