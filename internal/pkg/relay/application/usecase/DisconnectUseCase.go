package usecase

import (
	"context"

	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
)

// DisconnectUseCase releases a closed connection: the owning participant goes
// offline and everyone else learns about it. A connection id that was never
// registered (or already released) is a silent no-op.
type DisconnectUseCase struct {
	Registry *presence.Registry
	Sink     port.EventSink
}

func NewDisconnectUseCase(registry *presence.Registry, sink port.EventSink) *DisconnectUseCase {
	return &DisconnectUseCase{Registry: registry, Sink: sink}
}

func (uc *DisconnectUseCase) Execute(_ context.Context, connectionID string) {
	if snapshot, ok := uc.Registry.Disconnect(connectionID); ok {
		uc.Sink.BroadcastParticipants(snapshot)
	}
}
