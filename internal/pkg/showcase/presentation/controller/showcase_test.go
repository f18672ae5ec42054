package controller

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	cacheadapter "github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/adapter"
)

func perform(t *testing.T, engine *gin.Engine, method, path, body string) (int, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	return w.Code, decoded
}

func newVaultEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewVaultController(slog.Default(), cacheadapter.NewMemoryAdapter())
	engine := gin.New()
	engine.GET("/securevault/passwords", ctl.List())
	engine.POST("/securevault/passwords", ctl.Create())
	engine.DELETE("/securevault/passwords/:id", ctl.Delete())
	return engine
}

func Test_Vault_List_Seeded(t *testing.T) {
	req := require.New(t)
	engine := newVaultEngine(t)

	code, body := perform(t, engine, http.MethodGet, "/securevault/passwords", "")
	req.Equal(http.StatusOK, code)
	req.Equal(true, body["success"])
	req.Len(body["passwords"].([]any), 2)
}

func Test_Vault_Create_And_Delete(t *testing.T) {
	req := require.New(t)
	engine := newVaultEngine(t)

	code, body := perform(t, engine, http.MethodPost, "/securevault/passwords",
		`{"website":"example.org","username":"u","password":"hunter2","category":"Misc"}`)
	req.Equal(http.StatusOK, code)
	created := body["password"].(map[string]any)
	req.Equal("encrypted_hunter2", created["encrypted_password"])
	id := created["id"].(string)

	code, body = perform(t, engine, http.MethodDelete, "/securevault/passwords/"+id, "")
	req.Equal(http.StatusOK, code)
	req.Equal(true, body["success"])

	code, _ = perform(t, engine, http.MethodDelete, "/securevault/passwords/"+id, "")
	req.Equal(http.StatusNotFound, code)
}

func Test_Vault_Create_Requires_Fields(t *testing.T) {
	req := require.New(t)
	engine := newVaultEngine(t)

	code, _ := perform(t, engine, http.MethodPost, "/securevault/passwords", `{"website":"example.org"}`)
	req.Equal(http.StatusBadRequest, code)
}

func newTaskflowEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewTaskflowController()
	engine := gin.New()
	engine.GET("/taskflow/tasks", ctl.ListTasks())
	engine.POST("/taskflow/tasks", ctl.CreateTask())
	engine.PATCH("/taskflow/tasks/:id", ctl.UpdateTask())
	engine.GET("/taskflow/projects", ctl.ListProjects())
	engine.POST("/taskflow/projects", ctl.CreateProject())
	return engine
}

func Test_Taskflow_List_Filters_By_Project(t *testing.T) {
	req := require.New(t)
	engine := newTaskflowEngine(t)

	code, body := perform(t, engine, http.MethodGet, "/taskflow/tasks", "")
	req.Equal(http.StatusOK, code)
	req.Len(body["tasks"].([]any), 2)

	code, body = perform(t, engine, http.MethodGet, "/taskflow/tasks?projectId=none", "")
	req.Equal(http.StatusOK, code)
	req.Empty(body["tasks"].([]any))
}

func Test_Taskflow_Create_And_Update_Task(t *testing.T) {
	req := require.New(t)
	engine := newTaskflowEngine(t)

	code, body := perform(t, engine, http.MethodPost, "/taskflow/tasks",
		`{"title":"Write release notes","projectId":"1","priority":"low"}`)
	req.Equal(http.StatusOK, code)
	task := body["task"].(map[string]any)
	req.Equal("todo", task["status"])
	id := task["id"].(string)

	code, body = perform(t, engine, http.MethodPatch, "/taskflow/tasks/"+id, `{"status":"completed"}`)
	req.Equal(http.StatusOK, code)
	req.Equal("completed", body["task"].(map[string]any)["status"])

	// Unknown target and unknown status are both rejected.
	code, _ = perform(t, engine, http.MethodPatch, "/taskflow/tasks/ghost", `{"status":"completed"}`)
	req.Equal(http.StatusNotFound, code)
	code, _ = perform(t, engine, http.MethodPatch, "/taskflow/tasks/"+id, `{"status":"abandoned"}`)
	req.Equal(http.StatusBadRequest, code)
}

func Test_Taskflow_Projects(t *testing.T) {
	req := require.New(t)
	engine := newTaskflowEngine(t)

	code, body := perform(t, engine, http.MethodPost, "/taskflow/projects", `{"name":"Infra Migration"}`)
	req.Equal(http.StatusOK, code)
	project := body["project"].(map[string]any)
	req.Equal("planning", project["status"])
	req.Equal("#6B7280", project["color"])

	code, body = perform(t, engine, http.MethodGet, "/taskflow/projects", "")
	req.Equal(http.StatusOK, code)
	req.Len(body["projects"].([]any), 3)
}
