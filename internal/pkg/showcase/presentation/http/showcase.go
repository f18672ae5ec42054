package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/port"
	"github.com/MohamedEssam200/cryptochat-relay/internal/pkg/showcase/presentation/controller"
)

// RegisterRoutes mounts the portfolio demo endpoints under the given router
// group. They serve canned or pseudo-random data only.
func RegisterRoutes(g *gin.RouterGroup, log *slog.Logger, cache port.Cache) {
	vaultCtl := controller.NewVaultController(log, cache)
	taskflowCtl := controller.NewTaskflowController()
	iotCtl := controller.NewIoTScanController()
	analyzerCtl := controller.NewNetworkAnalyzerController()

	g.GET("/securevault/passwords", vaultCtl.List())
	g.POST("/securevault/passwords", vaultCtl.Create())
	g.DELETE("/securevault/passwords/:id", vaultCtl.Delete())

	g.GET("/taskflow/tasks", taskflowCtl.ListTasks())
	g.POST("/taskflow/tasks", taskflowCtl.CreateTask())
	g.PATCH("/taskflow/tasks/:id", taskflowCtl.UpdateTask())
	g.GET("/taskflow/projects", taskflowCtl.ListProjects())
	g.POST("/taskflow/projects", taskflowCtl.CreateProject())

	g.POST("/iot-security/scan", iotCtl.Scan())
	g.POST("/iot-security/analyze", iotCtl.Analyze())
	g.POST("/iot-security/export", iotCtl.Export())

	g.GET("/network-analyzer/stats", analyzerCtl.Stats())
	g.POST("/network-analyzer/capture", analyzerCtl.Capture())
}
