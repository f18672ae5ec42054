package controller

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/application/usecase"
	relay "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/domain"
)

// RelaySocketController handles the websocket endpoint for the chat relay.
// One connection, one read loop: frames from a single client are processed in
// arrival order, which is what gives per-sender delivery ordering downstream.
type RelaySocketController struct {
	router          *realtime.Router
	registerUC      *usecase.RegisterParticipantUseCase
	sendUC          *usecase.SendMessageUseCase
	statusUC        *usecase.UpdateStatusUseCase
	typingUC        *usecase.TypingSignalUseCase
	disconnectUC    *usecase.DisconnectUseCase
	validate        *validator.Validate
	log             *slog.Logger
	sendBuffer      int
	inflightTimeout time.Duration
}

// UseCases bundles the relay operations the socket controller dispatches to.
type UseCases struct {
	Register   *usecase.RegisterParticipantUseCase
	Send       *usecase.SendMessageUseCase
	Status     *usecase.UpdateStatusUseCase
	Typing     *usecase.TypingSignalUseCase
	Disconnect *usecase.DisconnectUseCase
}

func NewRelaySocketController(log *slog.Logger, router *realtime.Router, ucs UseCases, sendBuffer int) *RelaySocketController {
	return &RelaySocketController{
		router:          router,
		registerUC:      ucs.Register,
		sendUC:          ucs.Send,
		statusUC:        ucs.Status,
		typingUC:        ucs.Typing,
		disconnectUC:    ucs.Disconnect,
		validate:        validator.New(),
		log:             log,
		sendBuffer:      sendBuffer,
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

// inboundEnvelope is the outer wire shape; Data is decoded per frame type
// with an explicit schema before dispatch.
type inboundEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type registerPayload struct {
	Handle      string `json:"handle" validate:"required"`
	DisplayName string `json:"display_name"`
	PublicKey   string `json:"public_key"`
}

type sendPayload struct {
	RecipientHandle  string `json:"recipient_handle" validate:"required"`
	Ciphertext       string `json:"ciphertext" validate:"required"`
	SelfDestructSecs int    `json:"self_destruct_seconds" validate:"gte=0"`
}

type statusPayload struct {
	Status string `json:"status" validate:"required,oneof=online away offline"`
}

type typingPayload struct {
	RecipientHandle string `json:"recipient_handle" validate:"required"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type connectedFrame struct {
	Type         string `json:"type"`
	ConnectionID string `json:"connection_id"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until the client disconnects.
func (ctl *RelaySocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			ctl.log.Debug("websocket upgrade failed", "error", err)
			return
		}

		conn := realtime.NewConnection(ws, ctl.sendBuffer)
		ctl.router.Attach(conn)
		defer func() {
			ctl.disconnectUC.Execute(context.Background(), conn.ID)
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(connectedFrame{Type: "connected", ConnectionID: conn.ID}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))

			var envelope inboundEnvelope
			if err := json.Unmarshal(data, &envelope); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch envelope.Type {
			case "user:register":
				ctl.handleRegister(c, conn, envelope.Data)
			case "message:send":
				ctl.handleSend(c, conn, envelope.Data)
			case "user:status":
				ctl.handleStatus(c, conn, envelope.Data)
			case "typing:start":
				ctl.handleTyping(c, conn, envelope.Data, true)
			case "typing:stop":
				ctl.handleTyping(c, conn, envelope.Data, false)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *RelaySocketController) handleRegister(c *gin.Context, conn *realtime.Connection, data json.RawMessage) {
	var p registerPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.registerUC.Execute(ctx, usecase.RegisterParticipantInput{
		ConnectionID: conn.ID,
		Handle:       p.Handle,
		DisplayName:  p.DisplayName,
		PublicKey:    p.PublicKey,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *RelaySocketController) handleSend(c *gin.Context, conn *realtime.Connection, data json.RawMessage) {
	var p sendPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	_, err := ctl.sendUC.Execute(ctx, usecase.SendMessageInput{
		SenderConnectionID: conn.ID,
		RecipientHandle:    p.RecipientHandle,
		Ciphertext:         p.Ciphertext,
		SelfDestructSecs:   p.SelfDestructSecs,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *RelaySocketController) handleStatus(c *gin.Context, conn *realtime.Connection, data json.RawMessage) {
	var p statusPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.statusUC.Execute(ctx, usecase.UpdateStatusInput{
		ConnectionID: conn.ID,
		Status:       relay.Status(p.Status),
	}); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

func (ctl *RelaySocketController) handleTyping(c *gin.Context, conn *realtime.Connection, data json.RawMessage, started bool) {
	var p typingPayload
	if !ctl.decode(conn, data, &p) {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	if err := ctl.typingUC.Execute(ctx, usecase.TypingSignalInput{
		SenderConnectionID: conn.ID,
		RecipientHandle:    p.RecipientHandle,
		Started:            started,
	}); err != nil {
		ctl.handleUseCaseError(conn, err)
	}
}

// decode unmarshals and validates a frame payload, replying with an error
// frame on failure.
func (ctl *RelaySocketController) decode(conn *realtime.Connection, data json.RawMessage, out any) bool {
	if len(data) == 0 {
		ctl.replyError(conn, "bad_request", "missing frame data")
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		ctl.replyError(conn, "bad_request", "invalid frame data")
		return false
	}
	if err := ctl.validate.Struct(out); err != nil {
		ctl.replyError(conn, "bad_request", err.Error())
		return false
	}
	return true
}

func (ctl *RelaySocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, relay.ErrUnknownSender):
		ctl.replyError(conn, "unknown_sender", "register before sending")
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *RelaySocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
