package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/cart"
	"github.com/feralclo/feral-presents/internal/store"
)

// cartResponse carries the cart plus its derived totals, recomputed on
// every mutation.
type cartResponse struct {
	Cart          *cart.Cart `json:"cart"`
	TotalQuantity int        `json:"totalQuantity"`
	TotalPence    int64      `json:"totalPence"`
}

func newCartResponse(c *cart.Cart) cartResponse {
	return cartResponse{Cart: c, TotalQuantity: c.TotalQuantity(), TotalPence: c.TotalPence()}
}

// CreateCart starts a cart for an event whose sale is open.
func (h *Handler) CreateCart(c *gin.Context) {
	var req struct {
		EventID string `json:"eventId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "eventId is required"})
		return
	}

	e, err := h.store.GetEvent(req.EventID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start cart"})
		return
	}
	if !e.OnSale(h.now()) {
		c.JSON(http.StatusConflict, gin.H{"error": "tickets are not on sale yet"})
		return
	}

	c.JSON(http.StatusCreated, newCartResponse(h.carts.Create(e.ID)))
}

// GetCart returns a cart with totals.
func (h *Handler) GetCart(c *gin.Context) {
	crt, err := h.carts.Get(c.Param("id"))
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cart"})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

// AddCartItem adds one unit of a ticket type to the cart. Merch-bundled
// types require a size; missing or unknown sizes fail without changing the
// cart.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req struct {
		TicketTypeID string `json:"ticketTypeId" binding:"required"`
		Size         string `json:"size"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ticketTypeId is required"})
		return
	}

	tt, err := h.store.GetTicketType(req.TicketTypeID)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket type not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read ticket type", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	crt, err := h.carts.AddItem(c.Param("id"), tt, req.Size)
	switch {
	case errors.Is(err, cart.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	case errors.Is(err, cart.ErrSizeRequired), errors.Is(err, cart.ErrUnknownSize):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.log.Error("failed to add cart item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}

// RemoveCartItem removes one unit of a ticket type from the cart. For
// bundled types the most recently added size comes off first.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	tt, err := h.store.GetTicketType(c.Param("ticketTypeID"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket type not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read ticket type", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}

	crt, err := h.carts.RemoveItem(c.Param("id"), tt)
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to remove cart item", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, newCartResponse(crt))
}
