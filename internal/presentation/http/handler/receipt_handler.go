package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/application/service"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/response"
	"github.com/mwaniki/salepoint-api/pkg/pagination"
)

// ReceiptHandler handles receipt history HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new receipt handler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// List handles listing receipts with filtering
func (h *ReceiptHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ReceiptFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search: c.Query("search"),
	}

	switch c.Query("source") {
	case "sale":
		source := enum.ReceiptSourceSale
		params.Source = &source
	case "manual":
		source := enum.ReceiptSourceManual
		params.Source = &source
	case "":
	default:
		response.BadRequest(c, "Invalid source filter")
		return
	}

	if startStr := c.Query("start_date"); startStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			response.BadRequest(c, "Invalid start date, expected YYYY-MM-DD")
			return
		}
		params.StartDate = &start
	}
	if endStr := c.Query("end_date"); endStr != "" {
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			response.BadRequest(c, "Invalid end date, expected YYYY-MM-DD")
			return
		}
		// Make the end date inclusive
		end = end.Add(24*time.Hour - time.Nanosecond)
		params.EndDate = &end
	}

	result, err := h.receiptService.ListReceipts(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Receipts retrieved successfully", result)
}

// Recent handles fetching the most recent receipts, newest first
func (h *ReceiptHandler) Recent(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	n, _ := strconv.Atoi(c.DefaultQuery("n", "10"))

	receipts, err := h.receiptService.RecentReceipts(c.Request.Context(), *userID, n)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Recent receipts retrieved successfully", receipts)
}

// Get handles fetching a receipt by ID or receipt number
func (h *ReceiptHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	idParam := c.Param("id")
	if id, err := uuid.Parse(idParam); err == nil {
		receipt, err := h.receiptService.GetReceipt(c.Request.Context(), *userID, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, "Receipt retrieved successfully", receipt)
		return
	}

	receipt, err := h.receiptService.GetReceiptByNo(c.Request.Context(), *userID, idParam)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt retrieved successfully", receipt)
}
