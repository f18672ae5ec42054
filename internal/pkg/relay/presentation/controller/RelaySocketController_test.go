package controller

import (
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	scheduleradapter "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/scheduler/adapter"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/usecase"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/persistence/repository/adapter"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presence"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/sink"
)

// newRelayServer wires the full relay stack behind an httptest server and
// returns the websocket URL to dial.
func newRelayServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.Default()

	rtRouter := realtime.NewRouter()
	t.Cleanup(rtRouter.Close)
	registry := presence.NewRegistry()
	repo := adapter.NewMemoryMessageRepository()
	wsSink := sink.NewWebsocketSink(log, rtRouter)

	destroyUC := usecase.NewDestroyMessageUseCase(registry, repo, wsSink)
	sched := scheduleradapter.NewTimerScheduler(log, destroyUC.Execute)

	ctl := NewRelaySocketController(log, rtRouter, UseCases{
		Register:   usecase.NewRegisterParticipantUseCase(registry, repo, wsSink),
		Send:       usecase.NewSendMessageUseCase(registry, repo, sched, wsSink),
		Status:     usecase.NewUpdateStatusUseCase(registry, wsSink),
		Typing:     usecase.NewTypingSignalUseCase(registry, wsSink),
		Disconnect: usecase.NewDisconnectUseCase(registry, wsSink),
	}, 32)

	engine := gin.New()
	engine.GET("/ws", ctl.Handle())
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func writeFrame(t *testing.T, ws *websocket.Conn, frameType string, data any) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(map[string]any{"type": frameType, "data": data}))
}

func readFrame(t *testing.T, ws *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	var frame map[string]any
	require.NoError(t, json.Unmarshal(data, &frame))
	return frame
}

// awaitFrame reads frames until one with the wanted type arrives, discarding
// everything in between.
func awaitFrame(t *testing.T, ws *websocket.Conn, frameType string) map[string]any {
	t.Helper()
	for i := 0; i < 20; i++ {
		frame := readFrame(t, ws)
		if frame["type"] == frameType {
			return frame
		}
	}
	t.Fatalf("frame %q never arrived", frameType)
	return nil
}

func register(t *testing.T, ws *websocket.Conn, handle string) {
	t.Helper()
	writeFrame(t, ws, "user:register", map[string]any{
		"handle":       handle,
		"display_name": strings.ToUpper(handle[:1]) + handle[1:],
		"public_key":   "pk-" + handle,
	})
	awaitFrame(t, ws, "messages:history")
}

func Test_Connect_Sends_Connection_ID(t *testing.T) {
	req := require.New(t)
	ws := dial(t, newRelayServer(t))

	frame := readFrame(t, ws)
	req.Equal("connected", frame["type"])
	req.NotEmpty(frame["connection_id"])
}

func Test_Register_Broadcasts_To_Peers(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	awaitFrame(t, alice, "connected")
	register(t, alice, "alice")

	bob := dial(t, url)
	awaitFrame(t, bob, "connected")
	writeFrame(t, bob, "user:register", map[string]any{"handle": "bob", "public_key": "pk-bob"})

	// Bob's own list names alice but never bob himself.
	frame := awaitFrame(t, bob, "users:list")
	participants := frame["participants"].([]any)
	req.Len(participants, 1)
	req.Equal("alice", participants[0].(map[string]any)["handle"])

	// Alice learns about bob the moment he registers.
	frame = awaitFrame(t, alice, "users:list")
	participants = frame["participants"].([]any)
	req.Len(participants, 1)
	entry := participants[0].(map[string]any)
	req.Equal("bob", entry["handle"])
	req.Equal("online", entry["status"])
	req.Equal("pk-bob", entry["public_key"])
}

func Test_Message_Round_Trip(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")
	bob := dial(t, url)
	register(t, bob, "bob")

	writeFrame(t, alice, "message:send", map[string]any{
		"recipient_handle": "bob",
		"ciphertext":       "c2VjcmV0IHBheWxvYWQ=",
	})

	received := awaitFrame(t, bob, "message:receive")
	msg := received["message"].(map[string]any)
	req.Equal("alice", msg["sender_handle"])
	req.Equal("c2VjcmV0IHBheWxvYWQ=", msg["ciphertext"])
	req.NotEmpty(msg["id"])

	confirmed := awaitFrame(t, alice, "message:sent")
	req.Equal(msg["id"], confirmed["message"].(map[string]any)["id"])
}

func Test_History_Replayed_On_Register(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")

	// Bob is not connected yet; the message waits in the store.
	writeFrame(t, alice, "message:send", map[string]any{
		"recipient_handle": "bob",
		"ciphertext":       "b2ZmbGluZSBoZWxsbw==",
	})
	awaitFrame(t, alice, "message:sent")

	bob := dial(t, url)
	writeFrame(t, bob, "user:register", map[string]any{"handle": "bob", "public_key": "pk-bob"})

	history := awaitFrame(t, bob, "messages:history")
	messages := history["messages"].([]any)
	req.Len(messages, 1)
	req.Equal("b2ZmbGluZSBoZWxsbw==", messages[0].(map[string]any)["ciphertext"])
}

func Test_Send_Before_Register_Rejected(t *testing.T) {
	req := require.New(t)
	ws := dial(t, newRelayServer(t))
	awaitFrame(t, ws, "connected")

	writeFrame(t, ws, "message:send", map[string]any{
		"recipient_handle": "bob",
		"ciphertext":       "eA==",
	})

	frame := awaitFrame(t, ws, "error")
	req.Equal("unknown_sender", frame["code"])
}

func Test_Malformed_Frames_Get_Error_Reply(t *testing.T) {
	req := require.New(t)
	ws := dial(t, newRelayServer(t))
	awaitFrame(t, ws, "connected")

	writeFrame(t, ws, "message:teleport", map[string]any{})
	frame := awaitFrame(t, ws, "error")
	req.Equal("unsupported_type", frame["code"])

	// Missing required fields fail validation before any use case runs.
	writeFrame(t, ws, "message:send", map[string]any{"recipient_handle": "bob"})
	frame = awaitFrame(t, ws, "error")
	req.Equal("bad_request", frame["code"])

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("not json")))
	frame = awaitFrame(t, ws, "error")
	req.Equal("bad_request", frame["code"])
}

func Test_Typing_Indicator_Forwarded(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")
	bob := dial(t, url)
	register(t, bob, "bob")

	writeFrame(t, alice, "typing:start", map[string]any{"recipient_handle": "bob"})
	frame := awaitFrame(t, bob, "typing:start")
	req.Equal("alice", frame["from_handle"])

	writeFrame(t, alice, "typing:stop", map[string]any{"recipient_handle": "bob"})
	frame = awaitFrame(t, bob, "typing:stop")
	req.Equal("alice", frame["from_handle"])
}

func Test_Status_Change_Broadcast(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")
	bob := dial(t, url)
	register(t, bob, "bob")
	// Drain the list broadcast triggered by bob's registration.
	awaitFrame(t, alice, "users:list")

	writeFrame(t, bob, "user:status", map[string]any{"status": "away"})

	frame := awaitFrame(t, alice, "users:list")
	entry := frame["participants"].([]any)[0].(map[string]any)
	req.Equal("bob", entry["handle"])
	req.Equal("away", entry["status"])
}

func Test_Self_Destruct_Over_The_Wire(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")
	bob := dial(t, url)
	register(t, bob, "bob")

	writeFrame(t, alice, "message:send", map[string]any{
		"recipient_handle":      "bob",
		"ciphertext":            "YnVybiBhZnRlciByZWFkaW5n",
		"self_destruct_seconds": 1,
	})

	received := awaitFrame(t, bob, "message:receive")
	msgID := received["message"].(map[string]any)["id"]

	// Both parties learn about the expiration.
	destroyed := awaitFrame(t, bob, "message:destroyed")
	req.Equal(msgID, destroyed["message_id"])
	destroyed = awaitFrame(t, alice, "message:destroyed")
	req.Equal(msgID, destroyed["message_id"])
}

func Test_Disconnect_Broadcasts_Offline(t *testing.T) {
	req := require.New(t)
	url := newRelayServer(t)

	alice := dial(t, url)
	register(t, alice, "alice")
	bob := dial(t, url)
	register(t, bob, "bob")
	awaitFrame(t, alice, "users:list")

	req.NoError(bob.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye")))
	_ = bob.Close()

	frame := awaitFrame(t, alice, "users:list")
	entry := frame["participants"].([]any)[0].(map[string]any)
	req.Equal("bob", entry["handle"])
	req.Equal("offline", entry["status"])
}
