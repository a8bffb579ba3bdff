// Package cart holds the in-memory working state of a register session: the
// catalog-sourced line items and the manually entered invoice rows. Both
// collections are ordered, mutation is serialized by a mutex, and nothing here
// touches storage; checkout snapshots the contents into a receipt.
package cart

import (
	"sync"

	"github.com/google/uuid"
)

// LineItem is one catalog product entry in the cart. OverridePrice, when set,
// supersedes the catalog selling price ("final price" edits at the register).
type LineItem struct {
	ProductID     uuid.UUID
	Name          string
	UnitPrice     int64 // catalog selling price, cents
	UnitCost      int64 // catalog buying price, cents
	OverridePrice *int64
	Quantity      int
}

// EffectivePrice resolves the unit price: override if present, else catalog.
func (li LineItem) EffectivePrice() int64 {
	if li.OverridePrice != nil {
		return *li.OverridePrice
	}
	return li.UnitPrice
}

// Total returns effective price times quantity.
func (li LineItem) Total() int64 {
	return li.EffectivePrice() * int64(li.Quantity)
}

func (li LineItem) sameOverride(override *int64) bool {
	if li.OverridePrice == nil || override == nil {
		return li.OverridePrice == nil && override == nil
	}
	return *li.OverridePrice == *override
}

// Store is an ordered collection of line items. Every stored item has
// quantity >= 1; reaching zero removes the item rather than keeping it.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

// NewStore creates an empty line-item store.
func NewStore() *Store {
	return &Store{}
}

// AddOrIncrement merges the given item into an existing line when product ID
// and override-price state both match, otherwise appends it, preserving
// insertion order. Quantities <= 0 are ignored.
func (s *Store) AddOrIncrement(item LineItem) {
	if item.Quantity <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID == item.ProductID && s.items[i].sameOverride(item.OverridePrice) {
			s.items[i].Quantity += item.Quantity
			return
		}
	}
	s.items = append(s.items, item)
}

// SetQuantity updates the first line matching productID. Quantity 0 removes
// the line; a positive quantity updates it in place, replacing the override
// price as well when one is supplied (a register edit can change price and
// quantity together). Returns false when no line matches.
func (s *Store) SetQuantity(productID uuid.UUID, quantity int, override *int64) bool {
	if quantity < 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ProductID != productID {
			continue
		}
		if quantity == 0 {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true
		}
		s.items[i].Quantity = quantity
		if override != nil {
			s.items[i].OverridePrice = override
		}
		return true
	}
	return false
}

// Remove deletes every line for the given product. Absent products are a
// no-op, never an error.
func (s *Store) Remove(productID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, it := range s.items {
		if it.ProductID != productID {
			kept = append(kept, it)
		}
	}
	s.items = kept
}

// Clear empties the store unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of lines currently in the store.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
