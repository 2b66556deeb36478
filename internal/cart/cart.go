// Package cart implements the ticket/merch quantity aggregator behind the
// storefront checkout. A cart is mutated by one request at a time (the
// session manager serialises access) and recomputes its totals on every
// mutation; with a handful of ticket types there is nothing worth caching.
package cart

import (
	"errors"
	"time"

	"github.com/feralclo/feral-presents/internal/domain"
)

var (
	// ErrSizeRequired is returned when a merch-bundled ticket type is added
	// without a size selection.
	ErrSizeRequired = errors.New("size selection required for this ticket type")
	// ErrUnknownSize is returned when the selected size is not offered.
	ErrUnknownSize = errors.New("size not offered for this ticket type")
)

// Line is the quantity state for one ticket type. Bundled types count per
// size; plain types use Quantity directly.
type Line struct {
	TicketTypeID string         `json:"ticketTypeId"`
	UnitPence    int64          `json:"unitPence"`
	Quantity     int            `json:"quantity"`
	Sizes        map[string]int `json:"sizes,omitempty"`

	// sizeOrder records each size as it was added so Remove can target the
	// most recently populated bucket.
	sizeOrder []string
}

// Count returns the line's total quantity across all buckets.
func (l *Line) Count() int {
	if l.Sizes == nil {
		return l.Quantity
	}
	n := 0
	for _, q := range l.Sizes {
		n += q
	}
	return n
}

// Cart is one storefront session's ticket selection.
type Cart struct {
	ID        string           `json:"id"`
	EventID   string           `json:"eventId"`
	Lines     map[string]*Line `json:"lines"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// New returns an empty cart for an event.
func New(id, eventID string) *Cart {
	return &Cart{ID: id, EventID: eventID, Lines: make(map[string]*Line)}
}

// Add increments the count for tt by one, clamped to the type's per-order
// maximum. Bundled types require a size; the increment lands in that size's
// bucket. The return value reports whether the count actually changed, which
// callers use to fire tracking exactly once per effective add.
func (c *Cart) Add(tt domain.TicketType, size string) (bool, error) {
	if tt.Bundled() {
		if size == "" {
			return false, ErrSizeRequired
		}
		if !tt.HasSize(size) {
			return false, ErrUnknownSize
		}
	} else if size != "" {
		return false, ErrUnknownSize
	}

	line := c.Lines[tt.ID]
	if line == nil {
		line = &Line{TicketTypeID: tt.ID, UnitPence: tt.PricePence}
		if tt.Bundled() {
			line.Sizes = make(map[string]int)
		}
		c.Lines[tt.ID] = line
	}

	if tt.MaxPerOrder > 0 && line.Count() >= tt.MaxPerOrder {
		return false, nil
	}

	if tt.Bundled() {
		line.Sizes[size]++
		line.sizeOrder = append(line.sizeOrder, size)
	} else {
		line.Quantity++
	}
	return true, nil
}

// Remove decrements the count for tt by one, clamped at zero. For bundled
// types the most recently populated size bucket is decremented. Removing
// from an empty line is a no-op.
func (c *Cart) Remove(tt domain.TicketType) bool {
	line := c.Lines[tt.ID]
	if line == nil || line.Count() == 0 {
		return false
	}

	if line.Sizes != nil {
		for i := len(line.sizeOrder) - 1; i >= 0; i-- {
			size := line.sizeOrder[i]
			if line.Sizes[size] > 0 {
				line.Sizes[size]--
				if line.Sizes[size] == 0 {
					delete(line.Sizes, size)
				}
				line.sizeOrder = append(line.sizeOrder[:i], line.sizeOrder[i+1:]...)
				break
			}
		}
	} else {
		line.Quantity--
	}

	if line.Count() == 0 {
		delete(c.Lines, tt.ID)
	}
	return true
}

// snapshot returns a deep copy of the cart. The session manager hands
// copies to callers so the live cart is never read outside its lock.
func (c *Cart) snapshot() *Cart {
	cp := &Cart{
		ID:        c.ID,
		EventID:   c.EventID,
		UpdatedAt: c.UpdatedAt,
		Lines:     make(map[string]*Line, len(c.Lines)),
	}
	for id, l := range c.Lines {
		lc := &Line{TicketTypeID: l.TicketTypeID, UnitPence: l.UnitPence, Quantity: l.Quantity}
		if l.Sizes != nil {
			lc.Sizes = make(map[string]int, len(l.Sizes))
			for size, qty := range l.Sizes {
				lc.Sizes[size] = qty
			}
		}
		cp.Lines[id] = lc
	}
	return cp
}

// TotalQuantity returns the sum of all line counts.
func (c *Cart) TotalQuantity() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Count()
	}
	return n
}

// TotalPence returns the cart total as unit price times quantity per line.
func (c *Cart) TotalPence() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.UnitPence * int64(l.Count())
	}
	return total
}

// OrderLines flattens the cart into order lines for checkout: one line per
// plain ticket type, one line per populated size of a bundled type.
func (c *Cart) OrderLines() []domain.OrderLine {
	var out []domain.OrderLine
	for _, l := range c.Lines {
		if l.Sizes == nil {
			out = append(out, domain.OrderLine{
				TicketTypeID: l.TicketTypeID,
				Quantity:     l.Quantity,
				UnitPence:    l.UnitPence,
			})
			continue
		}
		for size, qty := range l.Sizes {
			out = append(out, domain.OrderLine{
				TicketTypeID: l.TicketTypeID,
				Size:         size,
				Quantity:     qty,
				UnitPence:    l.UnitPence,
			})
		}
	}
	return out
}
