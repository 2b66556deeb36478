package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/feralclo/feral-presents/internal/cart"
	"github.com/feralclo/feral-presents/internal/config"
	"github.com/feralclo/feral-presents/internal/domain"
	"github.com/feralclo/feral-presents/internal/store"
	"github.com/feralclo/feral-presents/internal/track"
)

type testEnv struct {
	router *gin.Engine
	store  *store.Store
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	cfg := config.Default()
	cfg.DatabasePath = filepath.Join(dir, "test.db")
	cfg.UploadsDir = filepath.Join(dir, "uploads")

	h := New(st, cart.NewSessions(time.Hour, track.Discard{}), zap.NewNop(), cfg)
	r := gin.New()
	h.Register(r)
	return &testEnv{router: r, store: st}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func seedEvent(t *testing.T, e *testEnv, onSaleAt time.Time) (domain.Event, domain.TicketType) {
	t.Helper()
	ev := domain.Event{
		ID: "ev-1", Slug: "feral-001", Name: "FERAL 001", Venue: "The Cause", City: "London",
		StartsAt: time.Now().Add(30 * 24 * time.Hour), OnSaleAt: onSaleAt, Published: true,
	}
	require.NoError(t, e.store.UpsertEvent(ev))
	tt := domain.TicketType{
		ID: "tt-1", EventID: ev.ID, Name: "Ticket + Tee",
		PricePence: 3000, MaxPerOrder: 4, MerchSizes: []string{"S", "M", "L"},
	}
	require.NoError(t, e.store.UpsertTicketType(tt))
	return ev, tt
}

func TestSettings_DefaultThenSaved(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/admin/settings/email", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data domain.EmailSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "FERAL PRESENTS", got.Data.FromName)

	w = e.do(t, http.MethodPut, "/api/admin/settings/email", gin.H{
		"data": gin.H{"fromName": "FERAL", "subject": "Tickets"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(t, http.MethodGet, "/api/admin/settings/email", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "FERAL", got.Data.FromName)
}

func TestSettings_UnknownKey(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/api/admin/settings/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_ProcessesLogo(t *testing.T) {
	e := newTestEnv(t)

	img := image.NewRGBA(image.Rect(0, 0, 200, 200))
	for y := 50; y < 150; y++ {
		for x := 50; x < 150; x++ {
			img.Set(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	w := e.do(t, http.MethodPost, "/api/admin/uploads", gin.H{
		"imageData": "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		"key":       "brand_logo",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "brand_logo", resp.Key)
	assert.Contains(t, resp.URL, "/uploads/brand_logo.png")
}

func TestUpload_Rejections(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/admin/uploads", gin.H{"imageData": "!!!", "key": "k"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/uploads", gin.H{
		"imageData": base64.StdEncoding.EncodeToString([]byte("not an image")),
		"key":       "k",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/admin/uploads", gin.H{
		"imageData": base64.StdEncoding.EncodeToString([]byte("x")),
		"key":       "../escape",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStorefront_CountdownGate(t *testing.T) {
	e := newTestEnv(t)
	seedEvent(t, e, time.Now().Add(time.Hour)) // not on sale yet

	w := e.do(t, http.MethodGet, "/api/events/feral-001", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		OnSale           bool `json:"onSale"`
		CountdownSeconds int  `json:"countdownSeconds"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.OnSale)
	assert.Greater(t, resp.CountdownSeconds, 0)

	// Carts cannot be started before the sale opens.
	w = e.do(t, http.MethodPost, "/api/carts", gin.H{"eventId": "ev-1"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	e := newTestEnv(t)
	seedEvent(t, e, time.Now().Add(-time.Hour))

	w := e.do(t, http.MethodPost, "/api/carts", gin.H{"eventId": "ev-1"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		Cart struct {
			ID string `json:"id"`
		} `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	cartID := created.Cart.ID

	// Bundled type without a size is rejected without changing the cart.
	w = e.do(t, http.MethodPost, "/api/carts/"+cartID+"/items", gin.H{"ticketTypeId": "tt-1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/carts/"+cartID+"/items", gin.H{"ticketTypeId": "tt-1", "size": "M"})
	require.Equal(t, http.StatusOK, w.Code)
	var cr struct {
		TotalQuantity int   `json:"totalQuantity"`
		TotalPence    int64 `json:"totalPence"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cr))
	assert.Equal(t, 1, cr.TotalQuantity)
	assert.Equal(t, int64(3000), cr.TotalPence)

	// Checkout validation failures block without a network effect.
	w = e.do(t, http.MethodPost, "/api/checkout", gin.H{"cartId": cartID, "customerName": "Sam"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = e.do(t, http.MethodPost, "/api/checkout", gin.H{
		"cartId": cartID, "customerName": "Sam Riley", "customerEmail": "sam@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var co struct {
		PaymentRef  string   `json:"paymentRef"`
		TicketCodes []string `json:"ticketCodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &co))
	assert.NotEmpty(t, co.PaymentRef)
	require.Len(t, co.TicketCodes, 1)

	// The cart is gone after checkout.
	w = e.do(t, http.MethodGet, "/api/carts/"+cartID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// The minted ticket renders.
	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%s/preview.png", co.TicketCodes[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	assert.NoError(t, err)

	w = e.do(t, http.MethodGet, fmt.Sprintf("/api/tickets/%s/qr?size=128", co.TicketCodes[0]), nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())
}

func TestTicketLayoutEndpoint(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodGet, "/api/ticket-layout", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		PageWidthMm float64 `json:"pageWidthMm"`
		Blocks      []struct {
			Name       string  `json:"name"`
			TopPercent float64 `json:"topPercent"`
		} `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 148.0, resp.PageWidthMm)
	assert.NotEmpty(t, resp.Blocks)
}
