package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/controller"
)

// RegisterRoutes registers relay endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, log *slog.Logger, router *realtime.Router,
	ucs controller.UseCases, sendBuffer int, wsEndpoint string) {
	socketCtl := controller.NewRelaySocketController(log, router, ucs, sendBuffer)
	chatCtl := controller.NewCryptoChatController(router, wsEndpoint)

	// GET /api/v1/cryptochat -> relay status and feature list
	g.GET("/cryptochat", chatCtl.Status())

	// POST /api/v1/cryptochat -> mock key actions for the demo UI
	g.POST("/cryptochat", chatCtl.Action())

	// GET /api/v1/cryptochat/ws -> websocket endpoint for the relay
	g.GET("/cryptochat/ws", socketCtl.Handle())
}
