package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	domainRepo "github.com/mwaniki/salepoint-api/internal/domain/repository"
	"gorm.io/gorm"
)

type receiptRepository struct {
	db *gorm.DB
}

// NewReceiptRepository creates a new receipt repository
func NewReceiptRepository(db *gorm.DB) domainRepo.ReceiptRepository {
	return &receiptRepository{db: db}
}

// Create appends the receipt and its items in a single transaction. GORM
// cascades the Items association on create, so a failure on any item rolls
// back the whole receipt.
func (r *receiptRepository) Create(ctx context.Context, receipt *entity.Receipt) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(receipt).Error
	})
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	var receipt entity.Receipt
	err := r.db.WithContext(ctx).
		Preload("Items").
		First(&receipt, "receipt_no = ?", receiptNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &receipt, err
}

func (r *receiptRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var receipts []entity.Receipt
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("user_id = ?", userID)

	if params.Search != "" {
		query = query.Where("receipt_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Source != nil {
		query = query.Where("source = ?", *params.Source)
	}

	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&receipts).Error

	return receipts, total, err
}

// Recent returns the last n receipts for the user, most recent first.
func (r *receiptRepository) Recent(ctx context.Context, userID uuid.UUID, n int) ([]entity.Receipt, error) {
	var receipts []entity.Receipt
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Preload("Items").
		Order("created_at DESC").
		Limit(n).
		Find(&receipts).Error
	return receipts, err
}

func (r *receiptRepository) CountBySource(ctx context.Context, source enum.ReceiptSource) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Receipt{}).
		Where("source = ?", source).
		Count(&count).Error
	return count, err
}
