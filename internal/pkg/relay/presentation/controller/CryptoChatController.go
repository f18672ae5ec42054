package controller

import (
	"math/rand"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/realtime"
)

// CryptoChatController serves the demo's REST companion endpoint: a status
// probe plus mock key-material actions. Nothing here is real cryptography.
// The browser client does its own key handling; these responses only feed the
// demo UI.
type CryptoChatController struct {
	router   *realtime.Router
	endpoint string
}

func NewCryptoChatController(router *realtime.Router, endpoint string) *CryptoChatController {
	return &CryptoChatController{router: router, endpoint: endpoint}
}

func (ctl *CryptoChatController) Status() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "CryptoChat relay running",
			"endpoint":    ctl.endpoint,
			"connections": ctl.router.Len(),
			"features": []string{
				"End-to-end encryption",
				"Real-time messaging",
				"Self-destructing messages",
				"Typing indicators",
				"User presence",
				"Forward secrecy",
			},
		})
	}
}

type cryptoChatAction struct {
	Action string `json:"action" binding:"required"`
	Data   struct {
		PublicKey string `json:"public_key"`
	} `json:"data"`
}

func (ctl *CryptoChatController) Action() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cryptoChatAction
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
			return
		}

		switch req.Action {
		case "generate_keys":
			c.JSON(http.StatusOK, gin.H{
				"key_pair": gin.H{
					"public_key":  "RSA-2048:" + randomToken(24),
					"private_key": randomToken(32),
				},
			})
		case "verify_fingerprint":
			if req.Data.PublicKey == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "public_key is required"})
				return
			}
			fingerprint := req.Data.PublicKey
			if len(fingerprint) > 16 {
				fingerprint = fingerprint[:16]
			}
			c.JSON(http.StatusOK, gin.H{"fingerprint": strings.ToUpper(fingerprint)})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid action"})
		}
	}
}

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomToken(n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(tokenAlphabet[rand.Intn(len(tokenAlphabet))])
	}
	return b.String()
}
