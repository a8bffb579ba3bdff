package request

import "github.com/google/uuid"

// AddInvoiceItemRequest represents a free-form manual invoice row
type AddInvoiceItemRequest struct {
	Name      string  `json:"name" binding:"required,max=255"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
	UnitPrice float64 `json:"unit_price" binding:"required,gt=0"`
}

// QuickAddInvoiceItemRequest represents a preset quick-add for a per-unit
// service product
type QuickAddInvoiceItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Units     int       `json:"units" binding:"required,min=1"`
}

// UpdateInvoiceItemRequest represents a manual row quantity update
type UpdateInvoiceItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}
