// Package store persists platform state in SQLite: the settings key-value
// blobs, the event/ticket-type catalogue, merch products, orders and the
// tickets minted for them.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database. All methods are safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open initialises the SQLite database at the given path, creating the
// schema on first use.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		venue TEXT NOT NULL,
		city TEXT,
		starts_at DATETIME NOT NULL,
		on_sale_at DATETIME NOT NULL,
		published INTEGER NOT NULL DEFAULT 0,
		hero_image TEXT,
		description TEXT
	);

	CREATE TABLE IF NOT EXISTS ticket_types (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id),
		name TEXT NOT NULL,
		price_pence INTEGER NOT NULL,
		max_per_order INTEGER NOT NULL DEFAULT 10,
		quantity INTEGER NOT NULL DEFAULT 0,
		merch_sizes TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_ticket_types_event ON ticket_types(event_id);

	CREATE TABLE IF NOT EXISTS merch_products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		price_pence INTEGER NOT NULL,
		sizes TEXT,
		image TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		sort_order INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS orders (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL REFERENCES events(id),
		customer_name TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		rep_code TEXT,
		total_pence INTEGER NOT NULL,
		payment_ref TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_orders_event ON orders(event_id);
	CREATE INDEX IF NOT EXISTS idx_orders_rep ON orders(rep_code);

	CREATE TABLE IF NOT EXISTS order_lines (
		order_id TEXT NOT NULL REFERENCES orders(id),
		ticket_type_id TEXT NOT NULL REFERENCES ticket_types(id),
		size TEXT,
		quantity INTEGER NOT NULL,
		unit_pence INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_order_lines_order ON order_lines(order_id);

	CREATE TABLE IF NOT EXISTS tickets (
		code TEXT PRIMARY KEY,
		order_id TEXT NOT NULL REFERENCES orders(id),
		ticket_type_id TEXT NOT NULL REFERENCES ticket_types(id),
		size TEXT,
		holder_name TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_tickets_order ON tickets(order_id);

	CREATE TABLE IF NOT EXISTS reps (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
