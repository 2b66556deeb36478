package handlers

import (
	"encoding/base64"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/imaging"
)

var uploadKeyRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// maxUploadBytes caps the upload request body. Base64 inflates the image by
// a third, so this admits logos of a few megabytes.
const maxUploadBytes = 8 << 20

type uploadRequest struct {
	// ImageData is base64, optionally with a data: URL prefix.
	ImageData string `json:"imageData" binding:"required"`
	Key       string `json:"key" binding:"required"`
}

// Upload accepts a base64 image (PNG, JPEG, GIF or SVG), trims its
// transparent border, downscales it and stores the result under the given
// key. The response echoes the key so clients can discard responses for
// selections they have since replaced.
func (h *Handler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageData and key are required"})
		return
	}
	if !uploadKeyRe.MatchString(req.Key) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid upload key"})
		return
	}

	payload := req.ImageData
	if idx := strings.Index(payload, ","); idx >= 0 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageData is not valid base64"})
		return
	}

	processed, ok := imaging.ProcessLogo(raw, h.cfg.LogoMaxWidth)
	if !ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "image could not be processed"})
		return
	}

	if err := os.MkdirAll(h.cfg.UploadsDir, 0755); err != nil {
		h.log.Error("failed to create uploads dir", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}
	name := req.Key + ".png"
	if err := os.WriteFile(filepath.Join(h.cfg.UploadsDir, name), processed, 0644); err != nil {
		h.log.Error("failed to write upload", zap.String("key", req.Key), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key": req.Key,
		"url": h.cfg.PublicBaseURL + "/uploads/" + name,
	})
}
