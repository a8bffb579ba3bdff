package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mwaniki/salepoint-api/internal/application/service"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/request"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/response"
)

// InvoiceHandler handles manual invoice HTTP requests
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	checkoutService *service.CheckoutService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoiceService *service.InvoiceService, checkoutService *service.CheckoutService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService, checkoutService: checkoutService}
}

// Get handles fetching the current manual invoice
func (h *InvoiceHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view := h.invoiceService.View(*userID, pricing.DiscountSpec{})
	response.OK(c, "Invoice retrieved successfully", view)
}

// AddItem handles adding a free-form row to the invoice
func (h *InvoiceHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.AddInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.invoiceService.AddItem(c.Request.Context(), &service.AddManualItemInput{
		UserID:    *userID,
		Name:      req.Name,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to invoice", view)
}

// QuickAdd handles adding a preset row for a per-unit service product
func (h *InvoiceHandler) QuickAdd(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.QuickAddInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.invoiceService.QuickAdd(c.Request.Context(), &service.QuickAddInput{
		UserID:    *userID,
		ProductID: req.ProductID,
		Units:     req.Units,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Item added to invoice", view)
}

// UpdateItem handles changing a row's quantity
func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	var req request.UpdateInvoiceItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.invoiceService.SetQuantity(*userID, itemID, req.Quantity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Invoice updated successfully", view)
}

// RemoveItem handles deleting a row from the invoice
func (h *InvoiceHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "Invalid item ID")
		return
	}

	view := h.invoiceService.RemoveItem(*userID, itemID)
	response.OK(c, "Item removed from invoice", view)
}

// Clear handles emptying the invoice
func (h *InvoiceHandler) Clear(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	h.invoiceService.Clear(*userID)
	response.OK(c, "Invoice cleared", nil)
}

// Checkout handles finalizing the manual invoice into a receipt
func (h *InvoiceHandler) Checkout(c *gin.Context) {
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

	receipt, err := h.checkoutService.CheckoutInvoice(c.Request.Context(), &service.CheckoutInput{
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
