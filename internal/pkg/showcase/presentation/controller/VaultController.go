package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MohamedEssam200/cryptochat-relay/internal/infrastructure/cache/port"
)

const vaultKeyPrefix = "vault:"

// VaultEntry is a mock password record. The "encryption" is a string prefix,
// exactly like the demo it fronts.
type VaultEntry struct {
	ID                string    `json:"id"`
	Website           string    `json:"website"`
	Username          string    `json:"username"`
	EncryptedPassword string    `json:"encrypted_password"`
	Category          string    `json:"category"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// VaultController serves the SecureVault demo endpoints on top of the cache
// port: in-memory by default, Redis-backed when REDIS_URL is configured.
type VaultController struct {
	cache port.Cache
	log   *slog.Logger
}

func NewVaultController(log *slog.Logger, cache port.Cache) *VaultController {
	ctl := &VaultController{cache: cache, log: log}
	ctl.seed()
	return ctl
}

// seed loads the demo's canned entries so the UI has something to show.
func (ctl *VaultController) seed() {
	now := time.Now().UTC()
	entries := []VaultEntry{
		{ID: uuid.NewString(), Website: "github.com", Username: "user@example.com",
			EncryptedPassword: "encrypted_password_1", Category: "Development", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.NewString(), Website: "gmail.com", Username: "user@gmail.com",
			EncryptedPassword: "encrypted_password_2", Category: "Email", CreatedAt: now, UpdatedAt: now},
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	for _, e := range entries {
		if err := ctl.store(ctx, e); err != nil {
			ctl.log.Warn("vault seed failed", "error", err)
			return
		}
	}
}

func (ctl *VaultController) store(ctx context.Context, e VaultEntry) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return ctl.cache.Set(ctx, vaultKeyPrefix+e.ID, string(raw), 0)
}

func (ctl *VaultController) List() gin.HandlerFunc {
	return func(c *gin.Context) {
		keys, err := ctl.cache.Keys(c.Request.Context(), vaultKeyPrefix)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch passwords"})
			return
		}

		entries := make([]VaultEntry, 0, len(keys))
		for _, key := range keys {
			raw, err := ctl.cache.Get(c.Request.Context(), key)
			if err != nil {
				continue // raced with a delete
			}
			var e VaultEntry
			if err := json.Unmarshal([]byte(raw), &e); err != nil {
				continue
			}
			entries = append(entries, e)
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "passwords": entries})
	}
}

type createVaultEntryRequest struct {
	Website  string `json:"website" binding:"required"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Category string `json:"category"`
}

func (ctl *VaultController) Create() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createVaultEntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		now := time.Now().UTC()
		entry := VaultEntry{
			ID:                uuid.NewString(),
			Website:           req.Website,
			Username:          req.Username,
			EncryptedPassword: "encrypted_" + req.Password, // mock encryption
			Category:          req.Category,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := ctl.store(c.Request.Context(), entry); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to add password"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"success": true, "password": entry})
	}
}

func (ctl *VaultController) Delete() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		removed, err := ctl.cache.Del(c.Request.Context(), vaultKeyPrefix+id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete password"})
			return
		}
		if removed == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Password not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password deleted successfully"})
	}
}
