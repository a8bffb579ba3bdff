package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/cart"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
)

// InvoiceService manages the per-user manual invoice: free-form rows entered
// at the register plus quick-add presets for per-unit services.
type InvoiceService struct {
	productRepo repository.ProductRepository

	mu    sync.Mutex
	lists map[uuid.UUID]*cart.ManualList
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(productRepo repository.ProductRepository) *InvoiceService {
	return &InvoiceService{
		productRepo: productRepo,
		lists:       make(map[uuid.UUID]*cart.ManualList),
	}
}

// List returns the user's manual list, creating it on first use.
func (s *InvoiceService) List(userID uuid.UUID) *cart.ManualList {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.lists[userID]
	if !ok {
		l = cart.NewManualList()
		s.lists[userID] = l
	}
	return l
}

// InvoiceLineView is a manual row prepared for display, prices in decimals.
type InvoiceLineView struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

// InvoiceView is the manual invoice with its price breakdown.
type InvoiceView struct {
	Items      []InvoiceLineView `json:"items"`
	TotalItems int               `json:"total_items"`
	SubTotal   float64           `json:"sub_total"`
	Discount   float64           `json:"discount"`
	Total      float64           `json:"total"`
}

// AddManualItemInput represents the add-manual-row input
type AddManualItemInput struct {
	UserID    uuid.UUID
	Name      string
	Quantity  int
	UnitPrice float64
}

// AddItem validates and appends a free-form row
func (s *InvoiceService) AddItem(ctx context.Context, input *AddManualItemInput) (*InvoiceView, error) {
	_, err := s.List(input.UserID).Add(input.Name, input.Quantity, toCents(input.UnitPrice))
	if err != nil {
		return nil, manualError(err)
	}
	return s.View(input.UserID, pricing.DiscountSpec{}), nil
}

// QuickAddInput represents the preset quick-add input
type QuickAddInput struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Units     int
}

// QuickAdd appends a preset row for a per-unit service product. The unit
// count folds into the row's name and price, leaving quantity 1.
func (s *InvoiceService) QuickAdd(ctx context.Context, input *QuickAddInput) (*InvoiceView, error) {
	product, err := s.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if product.UserID != input.UserID {
		return nil, apperror.ErrForbidden
	}
	if !product.PerUnit {
		return nil, apperror.NewUnprocessableError("Product is not a per-unit service")
	}

	_, err = s.List(input.UserID).AddPreset(product.Name, input.Units, product.SellingPrice)
	if err != nil {
		return nil, manualError(err)
	}
	return s.View(input.UserID, pricing.DiscountSpec{}), nil
}

// SetQuantity updates a row's quantity and recomputes its total
func (s *InvoiceService) SetQuantity(userID uuid.UUID, itemID int64, quantity int) (*InvoiceView, error) {
	_, err := s.List(userID).SetQuantity(itemID, quantity)
	if err != nil {
		return nil, manualError(err)
	}
	return s.View(userID, pricing.DiscountSpec{}), nil
}

// RemoveItem deletes a row by ID. Removing an absent row is a no-op.
func (s *InvoiceService) RemoveItem(userID uuid.UUID, itemID int64) *InvoiceView {
	s.List(userID).Remove(itemID)
	return s.View(userID, pricing.DiscountSpec{})
}

// Clear empties the user's manual invoice
func (s *InvoiceService) Clear(userID uuid.UUID) {
	s.List(userID).Clear()
}

// View returns the manual invoice with totals under the given discount
func (s *InvoiceService) View(userID uuid.UUID, discount pricing.DiscountSpec) *InvoiceView {
	items := s.List(userID).Items()

	view := &InvoiceView{Items: make([]InvoiceLineView, 0, len(items))}
	priced := make([]pricing.Item, 0, len(items))

	for _, it := range items {
		view.Items = append(view.Items, InvoiceLineView{
			ID:        it.ID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: toDecimal(it.UnitPrice),
			Total:     toDecimal(it.Total),
		})
		view.TotalItems += it.Quantity
		priced = append(priced, pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}

	breakdown := pricing.Quote(priced, discount)
	view.SubTotal = toDecimal(breakdown.SubTotal)
	view.Discount = toDecimal(breakdown.Discount)
	view.Total = toDecimal(breakdown.Total)
	return view
}

// manualError maps domain validation errors to API errors
func manualError(err error) error {
	switch {
	case errors.Is(err, cart.ErrNameRequired),
		errors.Is(err, cart.ErrQuantity),
		errors.Is(err, cart.ErrUnitPrice):
		return apperror.NewUnprocessableError(err.Error())
	case errors.Is(err, cart.ErrItemNotFound):
		return apperror.NewNotFoundError("Invoice item")
	default:
		return err
	}
}
