package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/feralclo/feral-presents/internal/domain"
)

// Ticket is one admission minted for an order line unit.
type Ticket struct {
	Code         string
	OrderID      string
	TicketTypeID string
	Size         string
	HolderName   string
}

// TicketInfo is the denormalised view of a ticket used by the preview and
// QR endpoints: everything the layout engine needs to fill its blocks.
type TicketInfo struct {
	Code           string
	HolderName     string
	Size           string
	OrderID        string
	TicketTypeName string
	Bundled        bool
	EventName      string
	Venue          string
	City           string
	StartsAt       time.Time
}

// CreateOrder persists an order, its lines and the tickets minted for it in
// one transaction.
func (s *Store) CreateOrder(o domain.Order, tickets []Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO orders (id, event_id, customer_name, customer_email, rep_code, total_pence, payment_ref, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.EventID, o.CustomerName, o.CustomerEmail, o.RepCode, o.TotalPence, o.PaymentRef,
		o.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, l := range o.Lines {
		_, err = tx.Exec(`
			INSERT INTO order_lines (order_id, ticket_type_id, size, quantity, unit_pence)
			VALUES (?, ?, ?, ?, ?)`,
			o.ID, l.TicketTypeID, l.Size, l.Quantity, l.UnitPence)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	for _, t := range tickets {
		_, err = tx.Exec(`
			INSERT INTO tickets (code, order_id, ticket_type_id, size, holder_name)
			VALUES (?, ?, ?, ?, ?)`,
			t.Code, o.ID, t.TicketTypeID, t.Size, t.HolderName)
		if err != nil {
			return fmt.Errorf("failed to insert ticket: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

// GetOrder returns an order with its lines.
func (s *Store) GetOrder(id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var o domain.Order
	var createdAt string
	err := s.db.QueryRow(`
		SELECT id, event_id, customer_name, customer_email, rep_code, total_pence, payment_ref, created_at
		FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.EventID, &o.CustomerName, &o.CustomerEmail, &o.RepCode, &o.TotalPence, &o.PaymentRef, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return o, ErrNotFound
	}
	if err != nil {
		return o, fmt.Errorf("failed to read order: %w", err)
	}
	if o.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return o, fmt.Errorf("failed to parse created_at: %w", err)
	}

	rows, err := s.db.Query(`
		SELECT ticket_type_id, size, quantity, unit_pence
		FROM order_lines WHERE order_id = ?`, id)
	if err != nil {
		return o, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l domain.OrderLine
		if err := rows.Scan(&l.TicketTypeID, &l.Size, &l.Quantity, &l.UnitPence); err != nil {
			return o, fmt.Errorf("failed to scan order line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	return o, rows.Err()
}

// GetTicketInfo resolves a ticket code to everything the ticket artwork
// needs: event, tier, holder and order reference.
func (s *Store) GetTicketInfo(code string) (TicketInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var info TicketInfo
	var startsAt string
	var sizes sql.NullString
	err := s.db.QueryRow(`
		SELECT t.code, t.holder_name, t.size, t.order_id, tt.name, tt.merch_sizes,
			e.name, e.venue, e.city, e.starts_at
		FROM tickets t
		JOIN ticket_types tt ON tt.id = t.ticket_type_id
		JOIN orders o ON o.id = t.order_id
		JOIN events e ON e.id = o.event_id
		WHERE t.code = ?`, code).
		Scan(&info.Code, &info.HolderName, &info.Size, &info.OrderID, &info.TicketTypeName, &sizes,
			&info.EventName, &info.Venue, &info.City, &startsAt)
	if errors.Is(err, sql.ErrNoRows) {
		return info, ErrNotFound
	}
	if err != nil {
		return info, fmt.Errorf("failed to read ticket: %w", err)
	}
	info.Bundled = sizes.Valid && sizes.String != "" && sizes.String != "[]"
	if info.StartsAt, err = time.Parse(time.RFC3339, startsAt); err != nil {
		return info, fmt.Errorf("failed to parse starts_at: %w", err)
	}
	return info, nil
}

// RepSales is the per-rep sales aggregate feeding the leaderboard.
type RepSales struct {
	Code    string
	Name    string
	Tickets int
	Merch   int
}

// ListRepSales aggregates attributed sales per rep code. Reps with no sales
// yet still appear with zero counts.
func (s *Store) ListRepSales() ([]RepSales, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT r.code, r.name,
			COALESCE(SUM(l.quantity), 0) AS tickets,
			COALESCE(SUM(CASE WHEN l.size IS NOT NULL AND l.size != '' THEN l.quantity ELSE 0 END), 0) AS merch
		FROM reps r
		LEFT JOIN orders o ON o.rep_code = r.code
		LEFT JOIN order_lines l ON l.order_id = o.id
		GROUP BY r.code, r.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate rep sales: %w", err)
	}
	defer rows.Close()

	var out []RepSales
	for rows.Next() {
		var rs RepSales
		if err := rows.Scan(&rs.Code, &rs.Name, &rs.Tickets, &rs.Merch); err != nil {
			return nil, fmt.Errorf("failed to scan rep sales: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}

// UpsertRep registers or renames an ambassador.
func (s *Store) UpsertRep(code, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO reps (code, name) VALUES (?, ?)
		ON CONFLICT(code) DO UPDATE SET name = excluded.name`, code, name)
	if err != nil {
		return fmt.Errorf("failed to upsert rep: %w", err)
	}
	return nil
}

// RepExists reports whether a rep code is registered.
func (s *Store) RepExists(code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(1) FROM reps WHERE code = ?`, code).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check rep: %w", err)
	}
	return n > 0, nil
}
