package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
	"github.com/mwaniki/salepoint-api/pkg/pagination"
)

const (
	defaultRecentCount = 10
	maxRecentCount     = 100
)

// ReceiptService reads the receipt history log
type ReceiptService struct {
	receiptRepo repository.ReceiptRepository
}

// NewReceiptService creates a new receipt service
func NewReceiptService(receiptRepo repository.ReceiptRepository) *ReceiptService {
	return &ReceiptService{receiptRepo: receiptRepo}
}

// GetReceipt retrieves a receipt by ID
func (s *ReceiptService) GetReceipt(ctx context.Context, userID, id uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return receipt, nil
}

// GetReceiptByNo retrieves a receipt by its receipt number
func (s *ReceiptService) GetReceiptByNo(ctx context.Context, userID uuid.UUID, receiptNo string) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByReceiptNo(ctx, receiptNo)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return receipt, nil
}

// ListReceipts lists receipts with filtering, most recent first
func (s *ReceiptService) ListReceipts(ctx context.Context, userID uuid.UUID, params *repository.ReceiptFilterParams) (*pagination.PaginatedResult[entity.Receipt], error) {
	receipts, total, err := s.receiptRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(receipts, pag), nil
}

// RecentReceipts returns the last n receipts, most recent first. n is
// clamped to a sane range.
func (s *ReceiptService) RecentReceipts(ctx context.Context, userID uuid.UUID, n int) ([]entity.Receipt, error) {
	if n <= 0 {
		n = defaultRecentCount
	}
	if n > maxRecentCount {
		n = maxRecentCount
	}
	return s.receiptRepo.Recent(ctx, userID, n)
}
