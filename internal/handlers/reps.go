package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/reps"
)

// Leaderboard returns the ranked rep standings under the configured point
// weights.
func (h *Handler) Leaderboard(c *gin.Context) {
	cfg := domain.DefaultLeaderboardSettings()
	if err := h.store.LoadSetting(domain.SettingsKeyLeaderboard, &cfg); err != nil {
		h.log.Error("failed to load leaderboard settings", zap.Error(err))
	}
	if !cfg.Enabled {
		c.JSON(http.StatusOK, gin.H{"enabled": false, "standings": []domain.RepStanding{}})
		return
	}

	sales, err := h.store.ListRepSales()
	if err != nil {
		h.log.Error("failed to aggregate rep sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load leaderboard"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enabled":   true,
		"standings": reps.Leaderboard(sales, cfg),
	})
}

// SaveRep registers or renames an ambassador.
func (h *Handler) SaveRep(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code and name are required"})
		return
	}

	if err := h.store.UpsertRep(req.Code, req.Name); err != nil {
		h.log.Error("failed to save rep", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save rep"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": req.Code, "name": req.Name})
}
