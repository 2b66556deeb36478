package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/store"
)

// settingsDefaults maps each known settings key to its default constructor.
// The blobs themselves are opaque to the store; the defaults exist so GET
// never returns an empty body before first save.
var settingsDefaults = map[string]func() any{
	domain.SettingsKeyBranding:    func() any { return domain.DefaultBrandingSettings() },
	domain.SettingsKeyEmail:       func() any { return domain.DefaultEmailSettings() },
	domain.SettingsKeyTicketPDF:   func() any { return domain.DefaultTicketPDFSettings() },
	domain.SettingsKeyWallet:      func() any { return map[string]any{} },
	domain.SettingsKeyLeaderboard: func() any { return domain.DefaultLeaderboardSettings() },
	domain.SettingsKeyPlan:        func() any { return domain.DefaultPlanSettings() },
}

// GetSetting returns the stored blob for a known settings key, or its
// default when nothing has been saved yet.
func (h *Handler) GetSetting(c *gin.Context) {
	key := c.Param("key")
	defaults, known := settingsDefaults[key]
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown settings key"})
		return
	}

	raw, err := h.store.GetSetting(key)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusOK, gin.H{"key": key, "data": defaults()})
		return
	}
	if err != nil {
		h.log.Error("failed to read setting", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "data": raw})
}

// PutSetting stores a settings blob under a known key.
func (h *Handler) PutSetting(c *gin.Context) {
	key := c.Param("key")
	if _, known := settingsDefaults[key]; !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown settings key"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, 1<<20))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"data\": {...}}"})
		return
	}

	if err := h.store.PutSetting(key, envelope.Data); err != nil {
		h.log.Error("failed to write setting", zap.String("key", key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "data": envelope.Data})
}
