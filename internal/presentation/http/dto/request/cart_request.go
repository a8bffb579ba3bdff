package request

import "github.com/google/uuid"

// AddCartItemRequest represents an add-to-cart request. Price, when set,
// overrides the catalog selling price for this line.
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Price     *float64  `json:"price" binding:"omitempty,gt=0"`
}

// UpdateCartItemRequest represents a cart line update. Quantity 0 removes
// the line.
type UpdateCartItemRequest struct {
	Quantity int      `json:"quantity" binding:"min=0"`
	Price    *float64 `json:"price" binding:"omitempty,gt=0"`
}

// DiscountRequest represents an order-level discount. Value is a percentage
// for mode "percent" and a currency amount for mode "amount".
type DiscountRequest struct {
	Mode  string  `json:"mode" binding:"required,oneof=amount percent"`
	Value float64 `json:"value" binding:"min=0"`
}

// CheckoutRequest represents a checkout request for either sale path
type CheckoutRequest struct {
	Discount    *DiscountRequest `json:"discount"`
	PaymentType string           `json:"payment_type" binding:"omitempty,oneof=cash mpesa card"`
}
