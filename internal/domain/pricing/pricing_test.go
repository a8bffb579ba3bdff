package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/domain/enum"
)

func TestSubtotal(t *testing.T) {
	items := []Item{
		{UnitPrice: 10000, Quantity: 2},
		{UnitPrice: 25000, Quantity: 1},
	}
	assert.Equal(t, int64(45000), Subtotal(items))
	assert.Equal(t, int64(0), Subtotal(nil))
}

func TestSubtotalIsIdempotent(t *testing.T) {
	items := []Item{
		{UnitPrice: 1999, Quantity: 3},
		{UnitPrice: 500, Quantity: 7},
	}
	first := Subtotal(items)
	second := Subtotal(items)
	assert.Equal(t, first, second)
}

func TestPercentDiscount(t *testing.T) {
	tests := []struct {
		name     string
		subtotal int64
		percent  int64
		want     int64
	}{
		{"ten percent of 45000", 45000, 10, 4500},
		{"zero percent", 10000, 0, 0},
		{"full discount", 12345, 100, 12345},
		{"rounds half up", 1050, 5, 53}, // 52.5 -> 53
		{"rounds down below half", 1040, 5, 52},
		{"percent above range clamps to 100", 1000, 150, 1000},
		{"negative percent clamps to 0", 1000, -10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := DiscountSpec{Mode: enum.DiscountModePercent, Value: tt.percent}
			got := d.AmountFor(tt.subtotal)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPercentDiscountStaysWithinBounds(t *testing.T) {
	for subtotal := int64(0); subtotal <= 5000; subtotal += 137 {
		for pct := int64(0); pct <= 100; pct += 7 {
			d := DiscountSpec{Mode: enum.DiscountModePercent, Value: pct}
			got := d.AmountFor(subtotal)
			require.GreaterOrEqual(t, got, int64(0), "subtotal=%d pct=%d", subtotal, pct)
			require.LessOrEqual(t, got, subtotal, "subtotal=%d pct=%d", subtotal, pct)
		}
	}
}

func TestAmountDiscountClamped(t *testing.T) {
	d := DiscountSpec{Mode: enum.DiscountModeAmount, Value: 6000}
	assert.Equal(t, int64(5000), d.AmountFor(5000))
	assert.Equal(t, int64(6000), d.AmountFor(9000))

	neg := DiscountSpec{Mode: enum.DiscountModeAmount, Value: -100}
	assert.Equal(t, int64(0), neg.AmountFor(5000))
}

func TestTotalNeverNegative(t *testing.T) {
	assert.Equal(t, int64(0), Total(100, 500))
	assert.Equal(t, int64(0), Total(0, 0))
	assert.Equal(t, int64(400), Total(500, 100))
}

func TestQuoteScenario(t *testing.T) {
	// Cart of (10000 x 2) and (25000 x 1) with a 10% discount.
	items := []Item{
		{UnitPrice: 10000, Quantity: 2},
		{UnitPrice: 25000, Quantity: 1},
	}
	b := Quote(items, DiscountSpec{Mode: enum.DiscountModePercent, Value: 10})
	assert.Equal(t, int64(45000), b.SubTotal)
	assert.Equal(t, int64(4500), b.Discount)
	assert.Equal(t, int64(40500), b.Total)
}

func TestQuoteManualInvoiceScenario(t *testing.T) {
	// Manual invoice: quantity 50 at unit price 200, no discount.
	items := []Item{{UnitPrice: 200, Quantity: 50}}
	b := Quote(items, DiscountSpec{Mode: enum.DiscountModePercent, Value: 0})
	assert.Equal(t, int64(10000), b.SubTotal)
	assert.Equal(t, int64(0), b.Discount)
	assert.Equal(t, int64(10000), b.Total)
}
