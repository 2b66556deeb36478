// Package domain holds the core types shared across the platform service:
// events, ticket types, merch products, orders and rep standings.
package domain

import "time"

// Event represents a ticketed event shown on the storefront.
type Event struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Venue       string    `json:"venue"`
	City        string    `json:"city"`
	StartsAt    time.Time `json:"startsAt"`
	OnSaleAt    time.Time `json:"onSaleAt"`
	Published   bool      `json:"published"`
	HeroImage   string    `json:"heroImage,omitempty"`
	Description string    `json:"description,omitempty"`
}

// OnSale reports whether tickets can currently be added to a cart.
func (e Event) OnSale(now time.Time) bool {
	return e.Published && !now.Before(e.OnSaleAt)
}

// CountdownSeconds returns the number of whole seconds until the on-sale
// time, or zero once the sale is open.
func (e Event) CountdownSeconds(now time.Time) int {
	if !now.Before(e.OnSaleAt) {
		return 0
	}
	return int(e.OnSaleAt.Sub(now) / time.Second)
}

// TicketType is one sellable ticket tier for an event. Merch-bundled tiers
// carry the sizes the bundled item comes in; plain tiers have none.
type TicketType struct {
	ID          string   `json:"id"`
	EventID     string   `json:"eventId"`
	Name        string   `json:"name"`
	PricePence  int64    `json:"pricePence"`
	MaxPerOrder int      `json:"maxPerOrder"`
	Quantity    int      `json:"quantity"`
	MerchSizes  []string `json:"merchSizes,omitempty"`
	SortOrder   int      `json:"sortOrder"`
}

// Bundled reports whether this tier includes a sized merch item, which
// makes a size selection mandatory before it can be added to a cart.
func (t TicketType) Bundled() bool { return len(t.MerchSizes) > 0 }

// HasSize reports whether size is one of the tier's offered merch sizes.
func (t TicketType) HasSize(size string) bool {
	for _, s := range t.MerchSizes {
		if s == size {
			return true
		}
	}
	return false
}

// MerchProduct is a standalone shop item managed from the admin dashboard.
type MerchProduct struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	PricePence int64    `json:"pricePence"`
	Sizes      []string `json:"sizes,omitempty"`
	Image      string   `json:"image,omitempty"`
	Active     bool     `json:"active"`
	SortOrder  int      `json:"sortOrder"`
}

// Order is a completed checkout. Lines mirror the cart contents at the time
// of submission; totals are denormalised for display.
type Order struct {
	ID              string      `json:"id"`
	EventID         string      `json:"eventId"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	RepCode         string      `json:"repCode,omitempty"`
	Lines           []OrderLine `json:"lines"`
	TotalPence      int64       `json:"totalPence"`
	PaymentRef      string      `json:"paymentRef"`
	CreatedAt       time.Time   `json:"createdAt"`
}

// OrderLine is one orderable unit: a ticket type plus an optional merch size.
type OrderLine struct {
	TicketTypeID string `json:"ticketTypeId"`
	Size         string `json:"size,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPence    int64  `json:"unitPence"`
	TicketCode   string `json:"ticketCode,omitempty"`
}

// RepStanding is one row of the ambassador leaderboard.
type RepStanding struct {
	RepCode     string `json:"repCode"`
	RepName     string `json:"repName"`
	TicketsSold int    `json:"ticketsSold"`
	Points      int    `json:"points"`
	Rank        int    `json:"rank"`
}
