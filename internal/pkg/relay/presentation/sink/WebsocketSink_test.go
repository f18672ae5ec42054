package sink

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

func decodeFrame(t *testing.T, payload []byte) map[string]any {
	t.Helper()
	var frame map[string]any
	require.NoError(t, json.Unmarshal(payload, &frame))
	return frame
}

func Test_Marshal_Message_Frames(t *testing.T) {
	req := require.New(t)
	msg := relay.EncryptedMessage{
		ID:              "m-1",
		SenderHandle:    "alice",
		RecipientHandle: "bob",
		Ciphertext:      "aGVsbG8=",
		CreatedAt:       time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	payload, err := marshalEvent(relay.MessageReceived{Message: msg})
	req.NoError(err)
	frame := decodeFrame(t, payload)
	req.Equal("message:receive", frame["type"])
	req.Equal("m-1", frame["message"].(map[string]any)["id"])

	payload, err = marshalEvent(relay.MessageAccepted{Message: msg})
	req.NoError(err)
	req.Equal("message:sent", decodeFrame(t, payload)["type"])
}

func Test_Marshal_Message_Omits_Zero_Self_Destruct(t *testing.T) {
	req := require.New(t)

	payload, err := marshalEvent(relay.MessageReceived{Message: relay.EncryptedMessage{
		ID: "m-1", SenderHandle: "alice", RecipientHandle: "bob", Ciphertext: "eA==",
	}})
	req.NoError(err)

	inner := decodeFrame(t, payload)["message"].(map[string]any)
	_, present := inner["self_destruct_seconds"]
	req.False(present)
}

func Test_Marshal_History_Never_Null(t *testing.T) {
	req := require.New(t)

	payload, err := marshalEvent(relay.MessageHistory{Messages: nil})
	req.NoError(err)

	frame := decodeFrame(t, payload)
	req.Equal("messages:history", frame["type"])
	messages, ok := frame["messages"].([]any)
	req.True(ok)
	req.Empty(messages)
}

func Test_Marshal_Destroyed_And_Typing(t *testing.T) {
	req := require.New(t)

	payload, err := marshalEvent(relay.MessageDestroyed{MessageID: "m-1"})
	req.NoError(err)
	frame := decodeFrame(t, payload)
	req.Equal("message:destroyed", frame["type"])
	req.Equal("m-1", frame["message_id"])

	payload, err = marshalEvent(relay.TypingSignal{FromHandle: "alice", Started: true})
	req.NoError(err)
	frame = decodeFrame(t, payload)
	req.Equal("typing:start", frame["type"])
	req.Equal("alice", frame["from_handle"])

	payload, err = marshalEvent(relay.TypingSignal{FromHandle: "alice", Started: false})
	req.NoError(err)
	req.Equal("typing:stop", decodeFrame(t, payload)["type"])
}

func Test_Marshal_Participant_List_Hides_Connection_IDs(t *testing.T) {
	req := require.New(t)

	payload, err := marshalEvent(relay.ParticipantList{Participants: []relay.Participant{
		{Handle: "bob", DisplayName: "Bob", PublicKey: "pk-b", Status: relay.StatusOnline, ConnectionID: "conn-b"},
	}})
	req.NoError(err)

	frame := decodeFrame(t, payload)
	req.Equal("users:list", frame["type"])
	entry := frame["participants"].([]any)[0].(map[string]any)
	req.Equal("bob", entry["handle"])
	_, leaked := entry["connection_id"]
	req.False(leaked)
}
