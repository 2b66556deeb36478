package cart

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/track"
)

// ErrNotFound is returned when a cart ID does not exist or has expired.
var ErrNotFound = errors.New("cart not found")

// Sessions holds live carts in memory, keyed by cart ID. Carts expire after
// a period of inactivity and are purged lazily on access. Every method
// returns a deep copy of the cart, so callers can read and marshal it after
// the lock is released while other requests mutate the original.
type Sessions struct {
	mu      sync.Mutex
	carts   map[string]*Cart
	ttl     time.Duration
	tracker track.Tracker
	now     func() time.Time
}

// NewSessions returns a session manager with the given idle TTL.
func NewSessions(ttl time.Duration, tracker track.Tracker) *Sessions {
	if tracker == nil {
		tracker = track.Discard{}
	}
	return &Sessions{
		carts:   make(map[string]*Cart),
		ttl:     ttl,
		tracker: tracker,
		now:     time.Now,
	}
}

// Create starts a new cart for an event and returns it.
func (s *Sessions) Create(eventID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	c := New(uuid.NewString(), eventID)
	c.UpdatedAt = s.now()
	s.carts[c.ID] = c
	return c.snapshot()
}

// Get returns a copy of the cart with the given ID.
func (s *Sessions) Get(id string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c.snapshot(), nil
}

// AddItem adds one unit of tt to the cart, publishing a tracking event
// exactly once when the add actually changed the cart. Clamped adds (at the
// per-order maximum) do not track.
func (s *Sessions) AddItem(id string, tt domain.TicketType, size string) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}

	added, err := c.Add(tt, size)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	if added {
		s.tracker.Publish(track.Event{
			Name:         "add_to_cart",
			CartID:       c.ID,
			EventID:      c.EventID,
			TicketTypeID: tt.ID,
			Size:         size,
			UnitPence:    tt.PricePence,
		})
	}
	return c.snapshot(), nil
}

// RemoveItem removes one unit of tt from the cart.
func (s *Sessions) RemoveItem(id string, tt domain.TicketType) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()

	c, ok := s.carts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c.Remove(tt)
	c.UpdatedAt = s.now()
	return c.snapshot(), nil
}

// Drop deletes a cart, typically after a successful checkout.
func (s *Sessions) Drop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, id)
}

func (s *Sessions) purgeLocked() {
	if s.ttl <= 0 {
		return
	}
	cutoff := s.now().Add(-s.ttl)
	for id, c := range s.carts {
		if c.UpdatedAt.Before(cutoff) {
			delete(s.carts, id)
		}
	}
}
