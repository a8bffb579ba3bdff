// Package pricing holds the transaction arithmetic: subtotal, discount and
// total computation over a list of line items. All amounts are integer cents,
// all functions are pure.
package pricing

import "github.com/mwaniki/salepoint-api/internal/domain/enum"

// Item is the minimal shape the calculator needs from a line item: the
// resolved unit price (override if set, else catalog) and a quantity.
type Item struct {
	UnitPrice int64
	Quantity  int
}

// DiscountSpec describes a price reduction: an absolute amount in cents, or a
// percentage of the subtotal in [0, 100].
type DiscountSpec struct {
	Mode  enum.DiscountMode `json:"mode"`
	Value int64             `json:"value"`
}

// Breakdown is the result of a full quote computation, in cents.
type Breakdown struct {
	SubTotal int64
	Discount int64
	Total    int64
}

// Subtotal sums unit price times quantity over all items. Exact integer
// arithmetic, no per-item rounding.
func Subtotal(items []Item) int64 {
	var sum int64
	for _, it := range items {
		sum += it.UnitPrice * int64(it.Quantity)
	}
	return sum
}

// AmountFor resolves the discount spec against a subtotal.
//
// Percent mode rounds half up in integer arithmetic; the result is always
// within [0, subtotal]. Amount mode clamps the literal value to the same
// range so a discount can never exceed what is being discounted.
func (d DiscountSpec) AmountFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	switch d.Mode {
	case enum.DiscountModePercent:
		pct := d.Value
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		return (subtotal*pct + 50) / 100
	default:
		amount := d.Value
		if amount < 0 {
			amount = 0
		}
		if amount > subtotal {
			amount = subtotal
		}
		return amount
	}
}

// Total applies a discount to a subtotal. Never negative.
func Total(subtotal, discount int64) int64 {
	total := subtotal - discount
	if total < 0 {
		return 0
	}
	return total
}

// Quote computes the full breakdown for a set of items and a discount spec.
func Quote(items []Item, d DiscountSpec) Breakdown {
	subtotal := Subtotal(items)
	discount := d.AmountFor(subtotal)
	return Breakdown{
		SubTotal: subtotal,
		Discount: discount,
		Total:    Total(subtotal, discount),
	}
}
