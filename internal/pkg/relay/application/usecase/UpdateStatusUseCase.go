package usecase

import (
	"context"
	"fmt"

	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
)

// UpdateStatusInput carries a presence change for the caller's own handle.
type UpdateStatusInput struct {
	ConnectionID string
	Status       relay.Status
}

// UpdateStatusUseCase sets the caller's presence state and broadcasts the
// resulting snapshot.
type UpdateStatusUseCase struct {
	Registry *presence.Registry
	Sink     port.EventSink
}

func NewUpdateStatusUseCase(registry *presence.Registry, sink port.EventSink) *UpdateStatusUseCase {
	return &UpdateStatusUseCase{Registry: registry, Sink: sink}
}

func (uc *UpdateStatusUseCase) Execute(_ context.Context, in UpdateStatusInput) error {
	if !relay.ValidStatus(in.Status) {
		return fmt.Errorf("unknown status %q", in.Status)
	}

	caller, ok := uc.Registry.ByConnection(in.ConnectionID)
	if !ok {
		return relay.ErrUnknownSender
	}

	if snapshot, changed := uc.Registry.SetStatus(caller.Handle, in.Status); changed {
		uc.Sink.BroadcastParticipants(snapshot)
	}
	return nil
}
