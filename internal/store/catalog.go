package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/feralclo/feral-presents/internal/domain"
)

// UpsertEvent creates or replaces an event.
func (s *Store) UpsertEvent(e domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO events (id, slug, name, venue, city, starts_at, on_sale_at, published, hero_image, description)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			slug = excluded.slug, name = excluded.name, venue = excluded.venue,
			city = excluded.city, starts_at = excluded.starts_at,
			on_sale_at = excluded.on_sale_at, published = excluded.published,
			hero_image = excluded.hero_image, description = excluded.description`,
		e.ID, e.Slug, e.Name, e.Venue, e.City,
		e.StartsAt.UTC().Format(time.RFC3339), e.OnSaleAt.UTC().Format(time.RFC3339),
		boolToInt(e.Published), e.HeroImage, e.Description)
	if err != nil {
		return fmt.Errorf("failed to upsert event: %w", err)
	}
	return nil
}

// GetEvent returns the event with the given ID.
func (s *Store) GetEvent(id string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanEvent(s.db.QueryRow(`
		SELECT id, slug, name, venue, city, starts_at, on_sale_at, published, hero_image, description
		FROM events WHERE id = ?`, id))
}

// GetEventBySlug returns the event with the given storefront slug.
func (s *Store) GetEventBySlug(slug string) (domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return scanEvent(s.db.QueryRow(`
		SELECT id, slug, name, venue, city, starts_at, on_sale_at, published, hero_image, description
		FROM events WHERE slug = ?`, slug))
}

// ListEvents returns events ordered by start time. When publishedOnly is
// set, drafts are excluded.
func (s *Store) ListEvents(publishedOnly bool) ([]domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `SELECT id, slug, name, venue, city, starts_at, on_sale_at, published, hero_image, description
		FROM events`
	if publishedOnly {
		q += ` WHERE published = 1`
	}
	q += ` ORDER BY starts_at`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var out []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEvent removes an event and its ticket types.
func (s *Store) DeleteEvent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM ticket_types WHERE event_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete ticket types: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM events WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// UpsertTicketType creates or replaces a ticket type.
func (s *Store) UpsertTicketType(t domain.TicketType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizes, err := marshalSizes(t.MerchSizes)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO ticket_types (id, event_id, name, price_pence, max_per_order, quantity, merch_sizes, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			event_id = excluded.event_id, name = excluded.name,
			price_pence = excluded.price_pence, max_per_order = excluded.max_per_order,
			quantity = excluded.quantity, merch_sizes = excluded.merch_sizes,
			sort_order = excluded.sort_order`,
		t.ID, t.EventID, t.Name, t.PricePence, t.MaxPerOrder, t.Quantity, sizes, t.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to upsert ticket type: %w", err)
	}
	return nil
}

// GetTicketType returns the ticket type with the given ID.
func (s *Store) GetTicketType(id string) (domain.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t domain.TicketType
	var sizes sql.NullString
	err := s.db.QueryRow(`
		SELECT id, event_id, name, price_pence, max_per_order, quantity, merch_sizes, sort_order
		FROM ticket_types WHERE id = ?`, id).
		Scan(&t.ID, &t.EventID, &t.Name, &t.PricePence, &t.MaxPerOrder, &t.Quantity, &sizes, &t.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, fmt.Errorf("failed to read ticket type: %w", err)
	}
	t.MerchSizes, err = unmarshalSizes(sizes)
	return t, err
}

// ListTicketTypes returns the ticket types for an event in display order.
func (s *Store) ListTicketTypes(eventID string) ([]domain.TicketType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, event_id, name, price_pence, max_per_order, quantity, merch_sizes, sort_order
		FROM ticket_types WHERE event_id = ? ORDER BY sort_order, name`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types: %w", err)
	}
	defer rows.Close()

	var out []domain.TicketType
	for rows.Next() {
		var t domain.TicketType
		var sizes sql.NullString
		if err := rows.Scan(&t.ID, &t.EventID, &t.Name, &t.PricePence, &t.MaxPerOrder, &t.Quantity, &sizes, &t.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		if t.MerchSizes, err = unmarshalSizes(sizes); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// DeleteTicketType removes a ticket type.
func (s *Store) DeleteTicketType(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM ticket_types WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete ticket type: %w", err)
	}
	return nil
}

// UpsertMerchProduct creates or replaces a merch product.
func (s *Store) UpsertMerchProduct(p domain.MerchProduct) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sizes, err := marshalSizes(p.Sizes)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO merch_products (id, name, price_pence, sizes, image, active, sort_order)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, price_pence = excluded.price_pence,
			sizes = excluded.sizes, image = excluded.image,
			active = excluded.active, sort_order = excluded.sort_order`,
		p.ID, p.Name, p.PricePence, sizes, p.Image, boolToInt(p.Active), p.SortOrder)
	if err != nil {
		return fmt.Errorf("failed to upsert merch product: %w", err)
	}
	return nil
}

// ListMerchProducts returns merch products in display order. When activeOnly
// is set, hidden products are excluded.
func (s *Store) ListMerchProducts(activeOnly bool) ([]domain.MerchProduct, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `SELECT id, name, price_pence, sizes, image, active, sort_order FROM merch_products`
	if activeOnly {
		q += ` WHERE active = 1`
	}
	q += ` ORDER BY sort_order, name`

	rows, err := s.db.Query(q)
	if err != nil {
		return nil, fmt.Errorf("failed to list merch products: %w", err)
	}
	defer rows.Close()

	var out []domain.MerchProduct
	for rows.Next() {
		var p domain.MerchProduct
		var sizes sql.NullString
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.PricePence, &sizes, &p.Image, &active, &p.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan merch product: %w", err)
		}
		p.Active = active != 0
		if p.Sizes, err = unmarshalSizes(sizes); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteMerchProduct removes a merch product.
func (s *Store) DeleteMerchProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.Exec(`DELETE FROM merch_products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete merch product: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (domain.Event, error) {
	var e domain.Event
	var startsAt, onSaleAt string
	var published int
	err := row.Scan(&e.ID, &e.Slug, &e.Name, &e.Venue, &e.City, &startsAt, &onSaleAt, &published, &e.HeroImage, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return e, ErrNotFound
	}
	if err != nil {
		return e, fmt.Errorf("failed to scan event: %w", err)
	}
	e.Published = published != 0
	if e.StartsAt, err = time.Parse(time.RFC3339, startsAt); err != nil {
		return e, fmt.Errorf("failed to parse starts_at: %w", err)
	}
	if e.OnSaleAt, err = time.Parse(time.RFC3339, onSaleAt); err != nil {
		return e, fmt.Errorf("failed to parse on_sale_at: %w", err)
	}
	return e, nil
}

func marshalSizes(sizes []string) (sql.NullString, error) {
	if len(sizes) == 0 {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(sizes)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode sizes: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func unmarshalSizes(s sql.NullString) ([]string, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s.String), &out); err != nil {
		return nil, fmt.Errorf("failed to decode sizes: %w", err)
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
