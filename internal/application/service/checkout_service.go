package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
	"github.com/mwaniki/salepoint-api/pkg/utils"
)

// CheckoutService assembles receipts from the working cart or manual
// invoice. A receipt is an immutable snapshot: later catalog edits never
// touch it.
type CheckoutService struct {
	cartService    *CartService
	invoiceService *InvoiceService
	receiptRepo    repository.ReceiptRepository
	now            func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cartService *CartService,
	invoiceService *InvoiceService,
	receiptRepo repository.ReceiptRepository,
) *CheckoutService {
	return &CheckoutService{
		cartService:    cartService,
		invoiceService: invoiceService,
		receiptRepo:    receiptRepo,
		now:            time.Now,
	}
}

// CheckoutInput represents the checkout input shared by both sale paths
type CheckoutInput struct {
	UserID      uuid.UUID
	Discount    pricing.DiscountSpec
	PaymentType string
}

// CheckoutCart finalizes the catalog cart into a receipt and clears the
// cart. An empty cart is a validation error, not a fault.
func (s *CheckoutService) CheckoutCart(ctx context.Context, input *CheckoutInput) (*entity.Receipt, error) {
	items := s.cartService.Cart(input.UserID).Items()
	if len(items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	priced := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		priced = append(priced, pricing.Item{UnitPrice: it.EffectivePrice(), Quantity: it.Quantity})
	}
	breakdown := pricing.Quote(priced, input.Discount)

	receipt, err := s.newReceipt(ctx, input, enum.ReceiptSourceSale, breakdown)
	if err != nil {
		return nil, err
	}

	// Catalog sales have a cost basis, so profit is margin over cost with
	// the discount taken entirely out of profit.
	var margin int64
	for _, it := range items {
		margin += (it.EffectivePrice() - it.UnitCost) * int64(it.Quantity)
		productID := it.ProductID
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			ProductID: &productID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.EffectivePrice(),
			UnitCost:  it.UnitCost,
			Total:     it.Total(),
		})
		receipt.TotalItems += it.Quantity
	}
	receipt.Profit = margin - breakdown.Discount

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	s.cartService.Clear(input.UserID)
	return receipt, nil
}

// CheckoutInvoice finalizes the manual invoice into a receipt and clears
// the list. Manual rows carry no cost basis, so profit equals the total.
func (s *CheckoutService) CheckoutInvoice(ctx context.Context, input *CheckoutInput) (*entity.Receipt, error) {
	items := s.invoiceService.List(input.UserID).Items()
	if len(items) == 0 {
		return nil, apperror.ErrEmptyCart
	}

	priced := make([]pricing.Item, 0, len(items))
	for _, it := range items {
		priced = append(priced, pricing.Item{UnitPrice: it.UnitPrice, Quantity: it.Quantity})
	}
	breakdown := pricing.Quote(priced, input.Discount)

	receipt, err := s.newReceipt(ctx, input, enum.ReceiptSourceManual, breakdown)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     it.Total,
		})
		receipt.TotalItems += it.Quantity
	}
	receipt.Profit = breakdown.Total

	if err := s.receiptRepo.Create(ctx, receipt); err != nil {
		return nil, err
	}

	s.invoiceService.Clear(input.UserID)
	return receipt, nil
}

// newReceipt builds the receipt shell with its number: source prefix, the
// next per-source sequence, and the sale date as ddmmyy.
func (s *CheckoutService) newReceipt(ctx context.Context, input *CheckoutInput, source enum.ReceiptSource, breakdown pricing.Breakdown) (*entity.Receipt, error) {
	count, err := s.receiptRepo.CountBySource(ctx, source)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paymentType := input.PaymentType
	if paymentType == "" {
		paymentType = "cash"
	}

	return &entity.Receipt{
		UserID:      input.UserID,
		ReceiptNo:   utils.FormatReceiptNo(source.Prefix(), count+1, now),
		Source:      source,
		SubTotal:    breakdown.SubTotal,
		Discount:    breakdown.Discount,
		Total:       breakdown.Total,
		PaymentType: paymentType,
		CreatedAt:   now,
	}, nil
}
