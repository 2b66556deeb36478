// Package track publishes storefront analytics events. The default sink
// writes structured log lines; a real pipeline can swap in its own Tracker.
package track

import "go.uber.org/zap"

// Event describes one line item added to a cart.
type Event struct {
	Name         string `json:"name"`
	CartID       string `json:"cartId"`
	EventID      string `json:"eventId"`
	TicketTypeID string `json:"ticketTypeId"`
	Size         string `json:"size,omitempty"`
	UnitPence    int64  `json:"unitPence"`
}

// Tracker receives analytics events. Implementations must be safe for
// concurrent use.
type Tracker interface {
	Publish(Event)
}

// LogTracker writes events through a zap logger.
type LogTracker struct {
	log *zap.Logger
}

// NewLogTracker returns a Tracker backed by log.
func NewLogTracker(log *zap.Logger) *LogTracker {
	return &LogTracker{log: log}
}

// Publish logs the event at info level.
func (t *LogTracker) Publish(ev Event) {
	t.log.Info("track",
		zap.String("event", ev.Name),
		zap.String("cart_id", ev.CartID),
		zap.String("event_id", ev.EventID),
		zap.String("ticket_type_id", ev.TicketTypeID),
		zap.String("size", ev.Size),
		zap.Int64("unit_pence", ev.UnitPence),
	)
}

// Discard is a Tracker that drops every event. Used in tests.
type Discard struct{}

// Publish implements Tracker.
func (Discard) Publish(Event) {}
