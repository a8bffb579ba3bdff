package cart

import (
	"errors"
	"fmt"
	"sync"
)

// Validation failures for manual rows. These surface as user-facing messages,
// not faults.
var (
	ErrNameRequired = errors.New("item name is required")
	ErrQuantity     = errors.New("quantity must be greater than zero")
	ErrUnitPrice    = errors.New("unit price must be greater than zero")
	ErrItemNotFound = errors.New("item not found")
)

// ManualItem is a user-authored invoice row with no catalog cost basis.
type ManualItem struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Total     int64  `json:"total"`
}

// ManualList is an ordered collection of manual rows with session-monotonic
// IDs. Rows are removed explicitly; quantity edits never drop to zero.
type ManualList struct {
	mu     sync.Mutex
	nextID int64
	items  []ManualItem
}

// NewManualList creates an empty manual item list.
func NewManualList() *ManualList {
	return &ManualList{nextID: 1}
}

// Add validates and appends a free-form row. Total is quantity times unit
// price, recomputed on every later quantity edit.
func (l *ManualList) Add(name string, quantity int, unitPrice int64) (ManualItem, error) {
	if name == "" {
		return ManualItem{}, ErrNameRequired
	}
	if quantity <= 0 {
		return ManualItem{}, ErrQuantity
	}
	if unitPrice <= 0 {
		return ManualItem{}, ErrUnitPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := ManualItem{
		ID:        l.nextID,
		Name:      name,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		Total:     unitPrice * int64(quantity),
	}
	l.nextID++
	l.items = append(l.items, item)
	return item, nil
}

// AddPreset appends a quick-add row for a per-unit service: the unit count is
// pre-multiplied into the price and encoded in the display name, leaving a
// single line with quantity 1. Distinct from the general per-unit entry path.
func (l *ManualList) AddPreset(name string, units int, unitPrice int64) (ManualItem, error) {
	if name == "" {
		return ManualItem{}, ErrNameRequired
	}
	if units <= 0 {
		return ManualItem{}, ErrQuantity
	}
	if unitPrice <= 0 {
		return ManualItem{}, ErrUnitPrice
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	item := ManualItem{
		ID:        l.nextID,
		Name:      fmt.Sprintf("%s x %d", name, units),
		Quantity:  1,
		UnitPrice: unitPrice * int64(units),
		Total:     unitPrice * int64(units),
	}
	l.nextID++
	l.items = append(l.items, item)
	return item, nil
}

// SetQuantity updates a row's quantity and recomputes its total. Zero or
// negative quantities are rejected: manual rows are removed explicitly, not
// by zeroing.
func (l *ManualList) SetQuantity(id int64, quantity int) (ManualItem, error) {
	if quantity <= 0 {
		return ManualItem{}, ErrQuantity
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items[i].Quantity = quantity
			l.items[i].Total = l.items[i].UnitPrice * int64(quantity)
			return l.items[i], nil
		}
	}
	return ManualItem{}, ErrItemNotFound
}

// Remove deletes a row by ID. No-op when absent.
func (l *ManualList) Remove(id int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.items[i].ID == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Clear empties the list. The ID counter keeps advancing so IDs stay
// distinct within the session.
func (l *ManualList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}

// Items returns a copy of the rows in insertion order.
func (l *ManualList) Items() []ManualItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]ManualItem, len(l.items))
	copy(out, l.items)
	return out
}

// Len returns the number of rows.
func (l *ManualList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}
