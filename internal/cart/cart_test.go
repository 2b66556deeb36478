package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feralclo/feral-presents/internal/domain"
)

var (
	standard = domain.TicketType{ID: "tt-std", EventID: "ev-1", Name: "General Admission", PricePence: 1250, MaxPerOrder: 6}
	bundle   = domain.TicketType{ID: "tt-bun", EventID: "ev-1", Name: "Ticket + Tee", PricePence: 3000, MaxPerOrder: 4, MerchSizes: []string{"S", "M", "L"}}
)

func TestCart_TotalsExample(t *testing.T) {
	c := New("c1", "ev-1")

	for i := 0; i < 2; i++ {
		added, err := c.Add(standard, "")
		require.NoError(t, err)
		assert.True(t, added)
	}
	added, err := c.Add(bundle, "M")
	require.NoError(t, err)
	assert.True(t, added)

	assert.Equal(t, 3, c.TotalQuantity())
	assert.Equal(t, int64(5500), c.TotalPence())
	assert.Equal(t, map[string]int{"M": 1}, c.Lines[bundle.ID].Sizes)
}

func TestCart_SizeRequired(t *testing.T) {
	c := New("c1", "ev-1")

	added, err := c.Add(bundle, "")
	assert.ErrorIs(t, err, ErrSizeRequired)
	assert.False(t, added)
	assert.Equal(t, 0, c.TotalQuantity())

	added, err = c.Add(bundle, "XXL")
	assert.ErrorIs(t, err, ErrUnknownSize)
	assert.False(t, added)

	// A plain type must reject a stray size.
	_, err = c.Add(standard, "M")
	assert.ErrorIs(t, err, ErrUnknownSize)
}

func TestCart_MaxPerOrderClamp(t *testing.T) {
	c := New("c1", "ev-1")

	for i := 0; i < 6; i++ {
		added, err := c.Add(standard, "")
		require.NoError(t, err)
		assert.True(t, added)
	}
	// Seventh add clamps: no change, no error.
	added, err := c.Add(standard, "")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, 6, c.TotalQuantity())
}

func TestCart_RemoveMostRecentSize(t *testing.T) {
	c := New("c1", "ev-1")

	mustAdd := func(size string) {
		added, err := c.Add(bundle, size)
		require.NoError(t, err)
		require.True(t, added)
	}
	mustAdd("S")
	mustAdd("M")
	mustAdd("L")

	assert.True(t, c.Remove(bundle))
	assert.Equal(t, map[string]int{"S": 1, "M": 1}, c.Lines[bundle.ID].Sizes)

	assert.True(t, c.Remove(bundle))
	assert.Equal(t, map[string]int{"S": 1}, c.Lines[bundle.ID].Sizes)
}

func TestCart_RemoveEmptyIsNoop(t *testing.T) {
	c := New("c1", "ev-1")
	assert.False(t, c.Remove(standard))

	added, err := c.Add(standard, "")
	require.NoError(t, err)
	require.True(t, added)
	assert.True(t, c.Remove(standard))
	// Line is gone once it hits zero; removing again is a no-op.
	assert.False(t, c.Remove(standard))
	assert.Equal(t, int64(0), c.TotalPence())
}

func TestCart_TotalsAfterMixedSequence(t *testing.T) {
	c := New("c1", "ev-1")

	ops := []struct {
		tt   domain.TicketType
		size string
		add  bool
	}{
		{standard, "", true},
		{bundle, "M", true},
		{standard, "", true},
		{bundle, "L", true},
		{standard, "", false},
		{bundle, "", false},
	}
	for _, op := range ops {
		if op.add {
			_, err := c.Add(op.tt, op.size)
			require.NoError(t, err)
		} else {
			c.Remove(op.tt)
		}
	}

	// 1x standard + 1x bundle(M) remain.
	assert.Equal(t, 2, c.TotalQuantity())
	assert.Equal(t, int64(1250+3000), c.TotalPence())

	lines := c.OrderLines()
	assert.Len(t, lines, 2)
}
