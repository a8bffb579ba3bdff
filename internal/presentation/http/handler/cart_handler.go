package handler

import (
	"errors"
	"io"
	"math"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/application/service"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/request"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/response"
)

// CartHandler handles catalog cart HTTP requests
type CartHandler struct {
	cartService     *service.CartService
	checkoutService *service.CheckoutService
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *service.CartService, checkoutService *service.CheckoutService) *CartHandler {
	return &CartHandler{cartService: cartService, checkoutService: checkoutService}
}

// discountSpec converts an optional discount request into a pricing spec.
// A nil request means no discount.
func discountSpec(req *request.DiscountRequest) pricing.DiscountSpec {
	if req == nil {
		return pricing.DiscountSpec{}
	}
	if req.Mode == "percent" {
		return pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: int64(math.Round(req.Value))}
	}
	return pricing.DiscountSpec{Mode: enum.DiscountModeAmount, Value: int64(math.Round(req.Value * 100))}
}

// Get handles fetching the current cart
func (h *CartHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view := h.cartService.View(*userID, pricing.DiscountSpec{})
	response.OK(c, "Cart retrieved successfully", view)
}

// AddItem handles adding a catalog product to the cart
func (h *CartHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.AddItem(c.Request.Context(), &service.AddItemInput{
		UserID:        *userID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		OverridePrice: req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to cart", view)
}

// UpdateItem handles setting a cart line's quantity. Quantity zero removes
// the line.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	var req request.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.cartService.UpdateItem(c.Request.Context(), &service.UpdateItemInput{
		UserID:        *userID,
		ProductID:     productID,
		Quantity:      req.Quantity,
		OverridePrice: req.Price,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart updated successfully", view)
}

// RemoveItem handles removing a cart line. Removing an absent line is a
// no-op.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		response.BadRequest(c, "Invalid product ID")
		return
	}

	view := h.cartService.RemoveItem(*userID, productID)
	response.OK(c, "Item removed from cart", view)
}

// Clear handles emptying the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	h.cartService.Clear(*userID)
	response.OK(c, "Cart cleared", nil)
}

// Preview handles quoting the cart totals under a discount without
// finalizing a sale
func (h *CartHandler) Preview(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view := h.cartService.View(*userID, discountSpec(req.Discount))
	response.OK(c, "Cart totals calculated", view)
}

// Checkout handles finalizing the cart into a receipt
func (h *CartHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Invalid request body")
		return
	}

	receipt, err := h.checkoutService.CheckoutCart(c.Request.Context(), &service.CheckoutInput{
		UserID:      *userID,
		Discount:    discountSpec(req.Discount),
		PaymentType: req.PaymentType,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", receipt)
}
