// Package handlers wires the platform HTTP API: admin CRUD for the
// dashboard, the storefront/cart/checkout flow and ticket asset endpoints.
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/cart"
	"github.com/feralclo/feral-presents/internal/config"
	"github.com/feralclo/feral-presents/internal/store"
)

// Handler holds the dependencies for HTTP handlers.
type Handler struct {
	store *store.Store
	carts *cart.Sessions
	log   *zap.Logger
	cfg   config.Config
	now   func() time.Time
}

// New returns a new Handler instance.
func New(st *store.Store, carts *cart.Sessions, log *zap.Logger, cfg config.Config) *Handler {
	return &Handler{store: st, carts: carts, log: log, cfg: cfg, now: time.Now}
}

// Register mounts all API routes on r.
func (h *Handler) Register(r *gin.Engine) {
	r.Static("/uploads", h.cfg.UploadsDir)

	api := r.Group("/api")
	{
		// Storefront
		api.GET("/events", h.ListEvents)
		api.GET("/events/:slug", h.GetEvent)
		api.GET("/merch", h.ListMerch)

		api.POST("/carts", h.CreateCart)
		api.GET("/carts/:id", h.GetCart)
		api.POST("/carts/:id/items", h.AddCartItem)
		api.DELETE("/carts/:id/items/:ticketTypeID", h.RemoveCartItem)

		api.POST("/checkout", h.Checkout)

		api.GET("/tickets/:code/preview.png", h.TicketPreview)
		api.GET("/tickets/:code/qr", h.TicketQR)
		api.GET("/ticket-layout", h.TicketLayout)

		api.GET("/reps/leaderboard", h.Leaderboard)

		// Admin dashboard
		admin := api.Group("/admin")
		{
			admin.GET("/settings/:key", h.GetSetting)
			admin.PUT("/settings/:key", h.PutSetting)
			admin.POST("/uploads", h.Upload)

			admin.GET("/events", h.AdminListEvents)
			admin.POST("/events", h.SaveEvent)
			admin.DELETE("/events/:id", h.DeleteEvent)

			admin.POST("/ticket-types", h.SaveTicketType)
			admin.DELETE("/ticket-types/:id", h.DeleteTicketType)

			admin.GET("/merch", h.AdminListMerch)
			admin.POST("/merch", h.SaveMerch)
			admin.DELETE("/merch/:id", h.DeleteMerch)

			admin.POST("/reps", h.SaveRep)

			admin.GET("/orders/:id", h.GetOrder)
		}
	}
}
