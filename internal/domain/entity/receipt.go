package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mwaniki/salepoint-api/internal/domain/enum"
)

// Receipt is the immutable record of a completed sale. Line items are
// snapshotted at checkout: names and prices are copied, not referenced, so
// later catalog or cart changes cannot alter a past receipt. Receipts carry no
// UpdatedAt or soft-delete column; history is append-only.
type Receipt struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	ReceiptNo   string             `gorm:"size:100;unique;not null" json:"receipt_no"`
	Source      enum.ReceiptSource `gorm:"default:0" json:"source"`
	TotalItems  int                `gorm:"default:0" json:"total_items"`
	SubTotal    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount    int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total       int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Profit      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PaymentType string             `gorm:"size:50" json:"payment_type"`
	CreatedAt   time.Time          `json:"created_at"`

	// Relationships
	User  User          `gorm:"foreignKey:UserID" json:"-"`
	Items []ReceiptItem `gorm:"foreignKey:ReceiptID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
		Profit   float64 `json:"profit"`
	}{
		Alias:    Alias(r),
		SubTotal: float64(r.SubTotal) / 100,
		Discount: float64(r.Discount) / 100,
		Total:    float64(r.Total) / 100,
		Profit:   float64(r.Profit) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new receipt
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// GetTotalDecimal returns the total as a decimal
func (r *Receipt) GetTotalDecimal() float64 {
	return float64(r.Total) / 100
}

// ReceiptItem is one snapshotted line on a receipt. ProductID is nil for
// manually entered rows, which also carry no cost basis.
type ReceiptItem struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	ReceiptID uuid.UUID  `gorm:"type:uuid;not null;index" json:"receipt_id"`
	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Name      string     `gorm:"size:255;not null" json:"name"`
	Quantity  int        `gorm:"not null" json:"quantity"`
	UnitPrice int64      `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	UnitCost  int64      `gorm:"default:0" json:"-"`
	Total     int64      `gorm:"not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`

	// Relationships
	Receipt Receipt `gorm:"foreignKey:ReceiptID" json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (ri ReceiptItem) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(ri),
		UnitPrice: float64(ri.UnitPrice) / 100,
		Total:     float64(ri.Total) / 100,
	})
}

// GetUnitPriceDecimal returns the unit price as a decimal
func (ri *ReceiptItem) GetUnitPriceDecimal() float64 {
	return float64(ri.UnitPrice) / 100
}

// GetTotalDecimal returns the line total as a decimal
func (ri *ReceiptItem) GetTotalDecimal() float64 {
	return float64(ri.Total) / 100
}

// BeforeCreate generates a UUID before creating a new receipt item
func (ri *ReceiptItem) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == uuid.Nil {
		ri.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}
