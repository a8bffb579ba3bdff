package service

import (
	"context"
	"math"
	"sync"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/cart"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
)

// CartService manages the per-user register cart. Carts live in memory for
// the duration of the session; checkout snapshots them into receipts.
type CartService struct {
	productRepo repository.ProductRepository

	mu    sync.Mutex
	carts map[uuid.UUID]*cart.Store
}

// NewCartService creates a new cart service
func NewCartService(productRepo repository.ProductRepository) *CartService {
	return &CartService{
		productRepo: productRepo,
		carts:       make(map[uuid.UUID]*cart.Store),
	}
}

// Cart returns the user's cart store, creating it on first use.
func (s *CartService) Cart(userID uuid.UUID) *cart.Store {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[userID]
	if !ok {
		c = cart.NewStore()
		s.carts[userID] = c
	}
	return c
}

// CartLineView is a cart line prepared for display, prices in decimals.
type CartLineView struct {
	ProductID     uuid.UUID `json:"product_id"`
	Name          string    `json:"name"`
	UnitPrice     float64   `json:"unit_price"`
	OverridePrice *float64  `json:"override_price,omitempty"`
	Quantity      int       `json:"quantity"`
	Total         float64   `json:"total"`
}

// CartView is the cart with its price breakdown.
type CartView struct {
	Items      []CartLineView `json:"items"`
	TotalItems int            `json:"total_items"`
	SubTotal   float64        `json:"sub_total"`
	Discount   float64        `json:"discount"`
	Total      float64        `json:"total"`
}

// AddItemInput represents the add-to-cart input
type AddItemInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	OverridePrice *float64
}

// AddItem adds a catalog product to the cart, merging into an existing line
// when the product and override state match
func (s *CartService) AddItem(ctx context.Context, input *AddItemInput) (*CartView, error) {
	if input.Quantity <= 0 {
		return nil, apperror.NewUnprocessableError("Quantity must be greater than zero")
	}

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

	item := cart.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.SellingPrice,
		UnitCost:  product.BuyingPrice,
		Quantity:  input.Quantity,
	}
	if input.OverridePrice != nil {
		override := toCents(*input.OverridePrice)
		if override <= 0 {
			return nil, apperror.NewUnprocessableError("Price must be greater than zero")
		}
		item.OverridePrice = &override
	}

	s.Cart(input.UserID).AddOrIncrement(item)
	return s.View(input.UserID, pricing.DiscountSpec{}), nil
}

// UpdateItemInput represents the update-cart-line input
type UpdateItemInput struct {
	UserID        uuid.UUID
	ProductID     uuid.UUID
	Quantity      int
	OverridePrice *float64
}

// UpdateItem sets a line's quantity, removing it at zero. An override price,
// when supplied, replaces the line's price in the same edit.
func (s *CartService) UpdateItem(ctx context.Context, input *UpdateItemInput) (*CartView, error) {
	if input.Quantity < 0 {
		return nil, apperror.NewUnprocessableError("Quantity cannot be negative")
	}

	var override *int64
	if input.OverridePrice != nil {
		cents := toCents(*input.OverridePrice)
		if cents <= 0 {
			return nil, apperror.NewUnprocessableError("Price must be greater than zero")
		}
		override = &cents
	}

	if !s.Cart(input.UserID).SetQuantity(input.ProductID, input.Quantity, override) {
		return nil, apperror.NewNotFoundError("Cart item")
	}
	return s.View(input.UserID, pricing.DiscountSpec{}), nil
}

// RemoveItem removes all lines for a product. Removing an absent product is
// a no-op.
func (s *CartService) RemoveItem(userID, productID uuid.UUID) *CartView {
	s.Cart(userID).Remove(productID)
	return s.View(userID, pricing.DiscountSpec{})
}

// Clear empties the user's cart
func (s *CartService) Clear(userID uuid.UUID) {
	s.Cart(userID).Clear()
}

// View returns the cart contents with totals under the given discount
func (s *CartService) View(userID uuid.UUID, discount pricing.DiscountSpec) *CartView {
	items := s.Cart(userID).Items()

	view := &CartView{Items: make([]CartLineView, 0, len(items))}
	priced := make([]pricing.Item, 0, len(items))

	for _, it := range items {
		line := CartLineView{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: toDecimal(it.UnitPrice),
			Quantity:  it.Quantity,
			Total:     toDecimal(it.Total()),
		}
		if it.OverridePrice != nil {
			op := toDecimal(*it.OverridePrice)
			line.OverridePrice = &op
		}
		view.Items = append(view.Items, line)
		view.TotalItems += it.Quantity
		priced = append(priced, pricing.Item{UnitPrice: it.EffectivePrice(), Quantity: it.Quantity})
	}

	breakdown := pricing.Quote(priced, discount)
	view.SubTotal = toDecimal(breakdown.SubTotal)
	view.Discount = toDecimal(breakdown.Discount)
	view.Total = toDecimal(breakdown.Total)
	return view
}

// toCents converts a decimal amount to exact cents. Rounding guards
// against float representation error (19.99 * 100 is 1998.999...).
func toCents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func toDecimal(cents int64) float64 {
	return float64(cents) / 100
}
