package store

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/feralclo/feral-presents/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSettings_RoundTrip(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.GetSetting("branding"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound before first write, got %v", err)
	}

	blob := json.RawMessage(`{"primaryColor":"#111111","logoText":"FERAL"}`)
	if err := s.PutSetting("branding", blob); err != nil {
		t.Fatalf("PutSetting failed: %v", err)
	}

	var got domain.BrandingSettings
	if err := s.LoadSetting("branding", &got); err != nil {
		t.Fatalf("LoadSetting failed: %v", err)
	}
	if got.PrimaryColor != "#111111" || got.LogoText != "FERAL" {
		t.Errorf("unexpected settings: %+v", got)
	}

	// Overwrite replaces the blob.
	if err := s.PutSetting("branding", json.RawMessage(`{"logoText":"NEW"}`)); err != nil {
		t.Fatalf("PutSetting overwrite failed: %v", err)
	}
	raw, err := s.GetSetting("branding")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if string(raw) != `{"logoText":"NEW"}` {
		t.Errorf("expected overwritten blob, got %s", raw)
	}
}

func TestSettings_RejectsInvalidJSON(t *testing.T) {
	s := openTestStore(t)
	if err := s.PutSetting("branding", json.RawMessage(`{nope`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func seedEvent(t *testing.T, s *Store) (domain.Event, domain.TicketType) {
	t.Helper()
	e := domain.Event{
		ID:        uuid.NewString(),
		Slug:      "feral-001",
		Name:      "FERAL 001",
		Venue:     "The Cause",
		City:      "London",
		StartsAt:  time.Date(2026, 10, 31, 22, 0, 0, 0, time.UTC),
		OnSaleAt:  time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC),
		Published: true,
	}
	if err := s.UpsertEvent(e); err != nil {
		t.Fatalf("UpsertEvent failed: %v", err)
	}
	tt := domain.TicketType{
		ID:          uuid.NewString(),
		EventID:     e.ID,
		Name:        "Ticket + Tee",
		PricePence:  3000,
		MaxPerOrder: 4,
		MerchSizes:  []string{"S", "M", "L"},
	}
	if err := s.UpsertTicketType(tt); err != nil {
		t.Fatalf("UpsertTicketType failed: %v", err)
	}
	return e, tt
}

func TestCatalog_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	e, tt := seedEvent(t, s)

	got, err := s.GetEventBySlug("feral-001")
	if err != nil {
		t.Fatalf("GetEventBySlug failed: %v", err)
	}
	if got.ID != e.ID || !got.StartsAt.Equal(e.StartsAt) {
		t.Errorf("unexpected event: %+v", got)
	}

	types, err := s.ListTicketTypes(e.ID)
	if err != nil {
		t.Fatalf("ListTicketTypes failed: %v", err)
	}
	if len(types) != 1 || len(types[0].MerchSizes) != 3 {
		t.Errorf("unexpected ticket types: %+v", types)
	}
	if !types[0].Bundled() {
		t.Error("expected bundled ticket type")
	}

	// Draft events stay out of the published listing.
	draft := e
	draft.ID = uuid.NewString()
	draft.Slug = "feral-002"
	draft.Published = false
	if err := s.UpsertEvent(draft); err != nil {
		t.Fatalf("UpsertEvent failed: %v", err)
	}
	published, err := s.ListEvents(true)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(published))
	}
	all, err := s.ListEvents(false)
	if err != nil {
		t.Fatalf("ListEvents failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 events, got %d", len(all))
	}

	_ = tt
}

func TestOrders_CreateAndTicketInfo(t *testing.T) {
	s := openTestStore(t)
	e, tt := seedEvent(t, s)

	order := domain.Order{
		ID:            uuid.NewString(),
		EventID:       e.ID,
		CustomerName:  "Sam Riley",
		CustomerEmail: "sam@example.com",
		RepCode:       "ana",
		Lines: []domain.OrderLine{
			{TicketTypeID: tt.ID, Size: "M", Quantity: 1, UnitPence: 3000},
		},
		TotalPence: 3000,
		PaymentRef: "pi_test",
		CreatedAt:  time.Now().UTC(),
	}
	tickets := []Ticket{{
		Code:         "FRL-TESTCODE",
		OrderID:      order.ID,
		TicketTypeID: tt.ID,
		Size:         "M",
		HolderName:   "Sam Riley",
	}}
	if err := s.CreateOrder(order, tickets); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := s.GetOrder(order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.TotalPence != 3000 || len(got.Lines) != 1 {
		t.Errorf("unexpected order: %+v", got)
	}

	info, err := s.GetTicketInfo("FRL-TESTCODE")
	if err != nil {
		t.Fatalf("GetTicketInfo failed: %v", err)
	}
	if info.EventName != "FERAL 001" || info.TicketTypeName != "Ticket + Tee" {
		t.Errorf("unexpected ticket info: %+v", info)
	}
	if info.Size != "M" || !info.Bundled {
		t.Errorf("expected bundled size M, got %+v", info)
	}

	if _, err := s.GetTicketInfo("FRL-MISSING"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown code, got %v", err)
	}
}

func TestRepSales_Aggregation(t *testing.T) {
	s := openTestStore(t)
	e, tt := seedEvent(t, s)

	if err := s.UpsertRep("ana", "Ana"); err != nil {
		t.Fatalf("UpsertRep failed: %v", err)
	}
	if err := s.UpsertRep("bo", "Bo"); err != nil {
		t.Fatalf("UpsertRep failed: %v", err)
	}

	order := domain.Order{
		ID:            uuid.NewString(),
		EventID:       e.ID,
		CustomerName:  "X",
		CustomerEmail: "x@example.com",
		RepCode:       "ana",
		Lines: []domain.OrderLine{
			{TicketTypeID: tt.ID, Size: "M", Quantity: 2, UnitPence: 3000},
		},
		TotalPence: 6000,
		PaymentRef: "pi_x",
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.CreateOrder(order, nil); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	sales, err := s.ListRepSales()
	if err != nil {
		t.Fatalf("ListRepSales failed: %v", err)
	}
	byCode := map[string]RepSales{}
	for _, rs := range sales {
		byCode[rs.Code] = rs
	}
	if got := byCode["ana"]; got.Tickets != 2 || got.Merch != 2 {
		t.Errorf("expected ana 2 tickets / 2 merch, got %+v", got)
	}
	if got := byCode["bo"]; got.Tickets != 0 {
		t.Errorf("expected bo with zero sales, got %+v", got)
	}

	known, err := s.RepExists("ana")
	if err != nil || !known {
		t.Errorf("expected ana to exist, got %v %v", known, err)
	}
	known, _ = s.RepExists("zz")
	if known {
		t.Error("expected zz to be unknown")
	}
}
