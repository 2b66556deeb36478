package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/store"
)

// eventResponse is the storefront view of an event: the event itself plus
// sale state and countdown for the waiting page.
type eventResponse struct {
	domain.Event
	OnSale           bool                `json:"onSale"`
	CountdownSeconds int                 `json:"countdownSeconds"`
	TicketTypes      []domain.TicketType `json:"ticketTypes,omitempty"`
}

// ListEvents returns published events for the storefront.
func (h *Handler) ListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(true)
	if err != nil {
		h.log.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}

	now := h.now()
	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, eventResponse{
			Event:            e,
			OnSale:           e.OnSale(now),
			CountdownSeconds: e.CountdownSeconds(now),
		})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

// GetEvent returns one published event with its ticket types.
func (h *Handler) GetEvent(c *gin.Context) {
	e, err := h.store.GetEventBySlug(c.Param("slug"))
	if errors.Is(err, store.ErrNotFound) || (err == nil && !e.Published) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	types, err := h.store.ListTicketTypes(e.ID)
	if err != nil {
		h.log.Error("failed to list ticket types", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}

	now := h.now()
	c.JSON(http.StatusOK, eventResponse{
		Event:            e,
		OnSale:           e.OnSale(now),
		CountdownSeconds: e.CountdownSeconds(now),
		TicketTypes:      types,
	})
}

// ListMerch returns active merch products for the shop.
func (h *Handler) ListMerch(c *gin.Context) {
	products, err := h.store.ListMerchProducts(true)
	if err != nil {
		h.log.Error("failed to list merch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load merch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// AdminListEvents returns every event, drafts included, with ticket types.
func (h *Handler) AdminListEvents(c *gin.Context) {
	events, err := h.store.ListEvents(false)
	if err != nil {
		h.log.Error("failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		types, err := h.store.ListTicketTypes(e.ID)
		if err != nil {
			h.log.Error("failed to list ticket types", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load events"})
			return
		}
		out = append(out, eventResponse{Event: e, TicketTypes: types})
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

// SaveEvent creates or updates an event. A missing ID means create.
func (h *Handler) SaveEvent(c *gin.Context) {
	var e domain.Event
	if err := c.ShouldBindJSON(&e); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if e.Name == "" || e.Slug == "" || e.Venue == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, slug and venue are required"})
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if err := h.store.UpsertEvent(e); err != nil {
		h.log.Error("failed to save event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save event"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// DeleteEvent removes an event and its ticket types.
func (h *Handler) DeleteEvent(c *gin.Context) {
	if err := h.store.DeleteEvent(c.Param("id")); err != nil {
		h.log.Error("failed to delete event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
		return
	}
	c.Status(http.StatusNoContent)
}

// SaveTicketType creates or updates a ticket type.
func (h *Handler) SaveTicketType(c *gin.Context) {
	var t domain.TicketType
	if err := c.ShouldBindJSON(&t); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if t.EventID == "" || t.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId and name are required"})
		return
	}
	if t.PricePence < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
		return
	}
	if _, err := h.store.GetEvent(t.EventID); errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event"})
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.MaxPerOrder <= 0 {
		t.MaxPerOrder = 10
	}

	if err := h.store.UpsertTicketType(t); err != nil {
		h.log.Error("failed to save ticket type", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save ticket type"})
		return
	}
	c.JSON(http.StatusOK, t)
}

// DeleteTicketType removes a ticket type.
func (h *Handler) DeleteTicketType(c *gin.Context) {
	if err := h.store.DeleteTicketType(c.Param("id")); err != nil {
		h.log.Error("failed to delete ticket type", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete ticket type"})
		return
	}
	c.Status(http.StatusNoContent)
}

// AdminListMerch returns every merch product, hidden ones included.
func (h *Handler) AdminListMerch(c *gin.Context) {
	products, err := h.store.ListMerchProducts(false)
	if err != nil {
		h.log.Error("failed to list merch", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load merch"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// SaveMerch creates or updates a merch product.
func (h *Handler) SaveMerch(c *gin.Context) {
	var p domain.MerchProduct
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if err := h.store.UpsertMerchProduct(p); err != nil {
		h.log.Error("failed to save merch product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save product"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteMerch removes a merch product.
func (h *Handler) DeleteMerch(c *gin.Context) {
	if err := h.store.DeleteMerchProduct(c.Param("id")); err != nil {
		h.log.Error("failed to delete merch product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}
