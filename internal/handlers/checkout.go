package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/cart"
	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/store"
)

type checkoutRequest struct {
	CartID        string `json:"cartId" binding:"required"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail"`
	RepCode       string `json:"repCode"`
}

// Checkout converts a cart into an order: validates identity fields, mints
// one ticket per unit and returns the order together with a payment
// reference for the external payment SDK. Validation failures block the
// order without touching the cart.
func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cartId is required"})
		return
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "customer name is required"})
		return
	}
	if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "a valid email address is required"})
		return
	}

	crt, err := h.carts.Get(req.CartID)
	if errors.Is(err, cart.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	if crt.TotalQuantity() == 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "cart is empty"})
		return
	}

	if req.RepCode != "" {
		known, err := h.store.RepExists(req.RepCode)
		if err != nil {
			h.log.Error("failed to check rep code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
			return
		}
		if !known {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown rep code"})
			return
		}
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		EventID:       crt.EventID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: req.CustomerEmail,
		RepCode:       req.RepCode,
		Lines:         crt.OrderLines(),
		TotalPence:    crt.TotalPence(),
		PaymentRef:    paymentRef(),
		CreatedAt:     h.now(),
	}

	var tickets []store.Ticket
	for i := range order.Lines {
		l := &order.Lines[i]
		for n := 0; n < l.Quantity; n++ {
			tickets = append(tickets, store.Ticket{
				Code:         ticketCode(),
				OrderID:      order.ID,
				TicketTypeID: l.TicketTypeID,
				Size:         l.Size,
				HolderName:   order.CustomerName,
			})
		}
		l.TicketCode = tickets[len(tickets)-1].Code
	}

	if err := h.store.CreateOrder(order, tickets); err != nil {
		h.log.Error("failed to create order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout failed"})
		return
	}
	h.carts.Drop(crt.ID)

	codes := make([]string, len(tickets))
	for i, t := range tickets {
		codes[i] = t.Code
	}
	c.JSON(http.StatusCreated, gin.H{
		"order":       order,
		"paymentRef":  order.PaymentRef,
		"ticketCodes": codes,
	})
}

// GetOrder returns an order for the admin dashboard.
func (h *Handler) GetOrder(c *gin.Context) {
	o, err := h.store.GetOrder(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to read order", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	c.JSON(http.StatusOK, o)
}

// ticketCode mints a short human-typeable admission code.
func ticketCode() string {
	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	b := make([]byte, 8)
	rand.Read(b)
	for i := range b {
		b[i] = alphabet[int(b[i])%len(alphabet)]
	}
	return "FRL-" + string(b)
}

// paymentRef mints an opaque reference in the shape the payment SDK hands
// back for a created intent.
func paymentRef() string {
	b := make([]byte, 12)
	rand.Read(b)
	return fmt.Sprintf("pi_%s", hex.EncodeToString(b))
}
