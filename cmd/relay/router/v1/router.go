package v1

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	cacheport "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/controller"
	relayhttp "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/relay/presentation/http"
	showcasehttp "github.com/MohamedEssam200/cryptochat-relay/internal/pkg/showcase/presentation/http"
)

// Deps carries everything the v1 API surface needs from the bootstrap.
type Deps struct {
	Log        *slog.Logger
	Router     *realtime.Router
	UseCases   controller.UseCases
	Cache      cacheport.Cache
	SendBuffer int
	WSEndpoint string
}

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, deps Deps) {
	v1 := r.Group("/api/v1")
	relayhttp.RegisterRoutes(v1, deps.Log, deps.Router, deps.UseCases, deps.SendBuffer, deps.WSEndpoint)
	showcasehttp.RegisterRoutes(v1, deps.Log, deps.Cache)
}
