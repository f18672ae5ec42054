package sink

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/samber/lo"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/port"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

// WebsocketSink turns relay events into JSON frames and pushes them through
// the realtime router. It is the only place outbound wire shapes are defined.
type WebsocketSink struct {
	router *realtime.Router
	log    *slog.Logger
}

func NewWebsocketSink(log *slog.Logger, router *realtime.Router) *WebsocketSink {
	return &WebsocketSink{router: router, log: log}
}

// Ensure interface compliance at compile time
var _ port.EventSink = (*WebsocketSink)(nil)

type participantListFrame struct {
	Type         string              `json:"type"`
	Participants []relay.Participant `json:"participants"`
}

type messageHistoryFrame struct {
	Type     string                   `json:"type"`
	Messages []relay.EncryptedMessage `json:"messages"`
}

type messageFrame struct {
	Type    string                 `json:"type"`
	Message relay.EncryptedMessage `json:"message"`
}

type messageDestroyedFrame struct {
	Type      string `json:"type"`
	MessageID string `json:"message_id"`
}

type typingFrame struct {
	Type       string `json:"type"`
	FromHandle string `json:"from_handle"`
}

func (s *WebsocketSink) Deliver(connectionID string, e relay.Event) {
	payload, err := marshalEvent(e)
	if err != nil {
		s.log.Error("failed to encode relay event", "event", e.EventName(), "error", err)
		return
	}
	s.push(connectionID, e.EventName(), payload)
}

func (s *WebsocketSink) BroadcastParticipants(snapshot []relay.Participant) {
	for _, recipient := range snapshot {
		if !recipient.Online() {
			continue
		}
		others := lo.Filter(snapshot, func(p relay.Participant, _ int) bool {
			return p.Handle != recipient.Handle
		})
		payload, err := json.Marshal(participantListFrame{
			Type:         relay.ParticipantList{}.EventName(),
			Participants: others,
		})
		if err != nil {
			s.log.Error("failed to encode participant list", "error", err)
			return
		}
		s.push(recipient.ConnectionID, "users:list", payload)
	}
}

// push is fire-and-forget; a lost frame is logged at debug and dropped.
func (s *WebsocketSink) push(connectionID, event string, payload []byte) {
	if err := s.router.Send(connectionID, payload); err != nil {
		s.log.Debug("dropped outbound frame",
			"event", event,
			"connection_id", connectionID,
			"error", err)
	}
}

func marshalEvent(e relay.Event) ([]byte, error) {
	switch evt := e.(type) {
	case relay.MessageHistory:
		messages := evt.Messages
		if messages == nil {
			messages = []relay.EncryptedMessage{}
		}
		return json.Marshal(messageHistoryFrame{Type: evt.EventName(), Messages: messages})
	case relay.MessageReceived:
		return json.Marshal(messageFrame{Type: evt.EventName(), Message: evt.Message})
	case relay.MessageAccepted:
		return json.Marshal(messageFrame{Type: evt.EventName(), Message: evt.Message})
	case relay.MessageDestroyed:
		return json.Marshal(messageDestroyedFrame{Type: evt.EventName(), MessageID: evt.MessageID})
	case relay.TypingSignal:
		return json.Marshal(typingFrame{Type: evt.EventName(), FromHandle: evt.FromHandle})
	case relay.ParticipantList:
		return json.Marshal(participantListFrame{Type: evt.EventName(), Participants: evt.Participants})
	default:
		return nil, fmt.Errorf("unhandled event type %T", e)
	}
}
