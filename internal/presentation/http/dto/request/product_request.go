package request

import "github.com/google/uuid"

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Name         string     `json:"name" binding:"required,min=2,max=255"`
	Code         string     `json:"code" binding:"omitempty,max=100"`
	BuyingPrice  float64    `json:"buying_price" binding:"min=0"`
	SellingPrice float64    `json:"selling_price" binding:"min=0"`
	PerUnit      bool       `json:"per_unit"`
	Notes        *string    `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	CategoryID   *uuid.UUID `json:"category_id"`
	Name         *string    `json:"name" binding:"omitempty,min=2,max=255"`
	Code         *string    `json:"code" binding:"omitempty,min=1,max=100"`
	BuyingPrice  *float64   `json:"buying_price" binding:"omitempty,min=0"`
	SellingPrice *float64   `json:"selling_price" binding:"omitempty,min=0"`
	PerUnit      *bool      `json:"per_unit"`
	Notes        *string    `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search     string `form:"search"`
	CategoryID string `form:"category_id"`
	PerUnit    *bool  `form:"per_unit"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// CreateCategoryRequest represents a category creation request
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}

// UpdateCategoryRequest represents a category rename request
type UpdateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=255"`
}
