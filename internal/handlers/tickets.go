package handlers

import (
	"errors"
	"image"
	"image/color"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/layout"
	"github.com/feralclo/feral-presents/internal/render"
	"github.com/feralclo/feral-presents/internal/store"
)

// TicketPreview renders the ticket artwork for a code as PNG, using the
// same layout the PDF and wallet collaborators consume.
func (h *Handler) TicketPreview(c *gin.Context) {
	info, err := h.store.GetTicketInfo(c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}

	branding := domain.DefaultBrandingSettings()
	if err := h.store.LoadSetting(domain.SettingsKeyBranding, &branding); err != nil {
		h.log.Error("failed to load branding settings", zap.Error(err))
	}
	pdfCfg := domain.DefaultTicketPDFSettings()
	if err := h.store.LoadSetting(domain.SettingsKeyTicketPDF, &pdfCfg); err != nil {
		h.log.Error("failed to load ticket settings", zap.Error(err))
	}

	ticket := render.Ticket{
		EventName:      info.EventName,
		Venue:          info.Venue,
		City:           info.City,
		StartsAt:       info.StartsAt,
		TicketTypeName: info.TicketTypeName,
		Code:           info.Code,
		HolderName:     info.HolderName,
		OrderRef:       shortOrderRef(info.OrderID),
		MerchSize:      info.Size,
	}

	png, err := render.TicketPNG(ticket, branding, pdfCfg, h.loadLogo(branding.LogoURL))
	if err != nil {
		h.log.Error("failed to render ticket", zap.String("code", info.Code), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render ticket"})
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// TicketQR returns the bare QR code for a ticket. Size in pixels is capped
// so the endpoint cannot be used to burn CPU.
func (h *Handler) TicketQR(c *gin.Context) {
	info, err := h.store.GetTicketInfo(c.Param("code"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read ticket", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ticket"})
		return
	}

	size := 320
	if v := c.Query("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 64 && n <= 2000 {
			size = n
		}
	}

	png, err := render.QRPNG(info.Code, size, color.RGBA{0, 0, 0, 255}, color.RGBA{255, 255, 255, 255})
	if err != nil {
		h.log.Error("failed to render QR", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render QR"})
		return
	}

	c.Header("Cache-Control", "public, max-age=3600")
	c.Data(http.StatusOK, "image/png", png)
}

// TicketLayout exposes the computed block positions as page percentages so
// the dashboard preview can absolutely position its elements exactly where
// the rendered ticket will place them.
func (h *Handler) TicketLayout(c *gin.Context) {
	pdfCfg := domain.DefaultTicketPDFSettings()
	if err := h.store.LoadSetting(domain.SettingsKeyTicketPDF, &pdfCfg); err != nil {
		h.log.Error("failed to load ticket settings", zap.Error(err))
	}

	l := layout.Compute(layout.Config{
		LogoHeightMm:    pdfCfg.LogoHeightMm,
		QRSizeMm:        pdfCfg.QRSizeMm,
		ShowMerchBanner: pdfCfg.ShowMerchBanner,
		ShowHolderName:  pdfCfg.ShowHolderName,
		ShowOrderNumber: pdfCfg.ShowOrderNumber,
		DisclaimerLines: len(pdfCfg.Disclaimer),
	})

	type blockJSON struct {
		Name          string  `json:"name"`
		TopMm         float64 `json:"topMm"`
		HeightMm      float64 `json:"heightMm"`
		TopPercent    float64 `json:"topPercent"`
		HeightPercent float64 `json:"heightPercent"`
	}
	blocks := make([]blockJSON, 0, len(l.Blocks))
	for _, b := range l.Blocks {
		blocks = append(blocks, blockJSON{
			Name:          b.Name,
			TopMm:         b.TopMm,
			HeightMm:      b.HeightMm,
			TopPercent:    b.TopPercent(),
			HeightPercent: b.HeightPercent(),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"pageWidthMm":  layout.PageWidthMm,
		"pageHeightMm": layout.PageHeightMm,
		"blocks":       blocks,
	})
}

// loadLogo resolves a branding logo URL to the uploaded file and decodes
// it. Anything that fails just means the text header is used instead.
func (h *Handler) loadLogo(logoURL string) image.Image {
	if logoURL == "" {
		return nil
	}
	idx := strings.LastIndex(logoURL, "/uploads/")
	if idx < 0 {
		return nil
	}
	name := filepath.Base(logoURL[idx+len("/uploads/"):])

	f, err := os.Open(filepath.Join(h.cfg.UploadsDir, name))
	if err != nil {
		return nil
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil
	}
	return img
}

func shortOrderRef(orderID string) string {
	if len(orderID) >= 8 {
		return "#" + strings.ToUpper(orderID[:8])
	}
	return "#" + strings.ToUpper(orderID)
}
