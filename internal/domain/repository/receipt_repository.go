package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/pkg/pagination"
)

// ReceiptFilterParams holds filtering options for listing receipts
type ReceiptFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Source     *enum.ReceiptSource
	StartDate  *time.Time
	EndDate    *time.Time
}

// ReceiptRepository is the append-only receipt history log. Receipts are
// created once at checkout and only ever read afterwards; no update or
// delete operation exists.
type ReceiptRepository interface {
	// Create appends a receipt together with its items in one transaction.
	Create(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error)
	List(ctx context.Context, userID uuid.UUID, params *ReceiptFilterParams) ([]entity.Receipt, int64, error)
	// Recent returns the last n receipts, most recent first.
	Recent(ctx context.Context, userID uuid.UUID, n int) ([]entity.Receipt, error)
	// CountBySource feeds the sequence component of receipt numbers.
	CountBySource(ctx context.Context, source enum.ReceiptSource) (int64, error)
}
