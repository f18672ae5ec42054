package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
)

func newChatEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctl := NewCryptoChatController(realtime.NewRouter(), "/api/v1/cryptochat/ws")
	engine := gin.New()
	engine.GET("/cryptochat", ctl.Status())
	engine.POST("/cryptochat", ctl.Action())
	return engine
}

func Test_CryptoChat_Status(t *testing.T) {
	req := require.New(t)
	engine := newChatEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cryptochat", nil))

	req.Equal(http.StatusOK, w.Code)
	var body map[string]any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal("/api/v1/cryptochat/ws", body["endpoint"])
	req.EqualValues(0, body["connections"])
	req.NotEmpty(body["features"])
}

func Test_CryptoChat_Generate_Keys(t *testing.T) {
	req := require.New(t)
	engine := newChatEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cryptochat",
		strings.NewReader(`{"action":"generate_keys"}`)))

	req.Equal(http.StatusOK, w.Code)
	var body map[string]any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	pair := body["key_pair"].(map[string]any)
	req.Contains(pair["public_key"], "RSA-2048:")
	req.NotEmpty(pair["private_key"])
}

func Test_CryptoChat_Verify_Fingerprint(t *testing.T) {
	req := require.New(t)
	engine := newChatEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cryptochat",
		strings.NewReader(`{"action":"verify_fingerprint","data":{"public_key":"abcdef0123456789deadbeef"}}`)))

	req.Equal(http.StatusOK, w.Code)
	var body map[string]any
	req.NoError(json.Unmarshal(w.Body.Bytes(), &body))
	req.Equal("ABCDEF0123456789", body["fingerprint"])

	// Missing key material is a client error.
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cryptochat",
		strings.NewReader(`{"action":"verify_fingerprint"}`)))
	req.Equal(http.StatusBadRequest, w.Code)
}

func Test_CryptoChat_Unknown_Action(t *testing.T) {
	req := require.New(t)
	engine := newChatEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cryptochat",
		strings.NewReader(`{"action":"steal_keys"}`)))
	req.Equal(http.StatusBadRequest, w.Code)
}
