package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
)

type fakeProductRepo struct {
	products map[uuid.UUID]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[uuid.UUID]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	var out []entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	for _, p := range r.products {
		if p.Code == code {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) List(ctx context.Context, userID uuid.UUID, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	var out []entity.Product
	for _, p := range r.products {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.products[p.ID] = p
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type fakeReceiptRepo struct {
	receipts  []*entity.Receipt
	createErr error
}

func (r *fakeReceiptRepo) Create(ctx context.Context, receipt *entity.Receipt) error {
	if r.createErr != nil {
		return r.createErr
	}
	if receipt.ID == uuid.Nil {
		receipt.ID = uuid.New()
	}
	r.receipts = append(r.receipts, receipt)
	return nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	for _, rc := range r.receipts {
		if rc.ID == id {
			return rc, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) GetByReceiptNo(ctx context.Context, receiptNo string) (*entity.Receipt, error) {
	for _, rc := range r.receipts {
		if rc.ReceiptNo == receiptNo {
			return rc, nil
		}
	}
	return nil, nil
}

func (r *fakeReceiptRepo) List(ctx context.Context, userID uuid.UUID, params *repository.ReceiptFilterParams) ([]entity.Receipt, int64, error) {
	var out []entity.Receipt
	for _, rc := range r.receipts {
		if rc.UserID == userID {
			out = append(out, *rc)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeReceiptRepo) Recent(ctx context.Context, userID uuid.UUID, n int) ([]entity.Receipt, error) {
	var out []entity.Receipt
	for i := len(r.receipts) - 1; i >= 0 && len(out) < n; i-- {
		if r.receipts[i].UserID == userID {
			out = append(out, *r.receipts[i])
		}
	}
	return out, nil
}

func (r *fakeReceiptRepo) CountBySource(ctx context.Context, source enum.ReceiptSource) (int64, error) {
	var count int64
	for _, rc := range r.receipts {
		if rc.Source == source {
			count++
		}
	}
	return count, nil
}

func newCheckoutFixture(t *testing.T, products ...*entity.Product) (*CheckoutService, *CartService, *InvoiceService, *fakeReceiptRepo) {
	t.Helper()
	productRepo := newFakeProductRepo(products...)
	receiptRepo := &fakeReceiptRepo{}
	cartService := NewCartService(productRepo)
	invoiceService := NewInvoiceService(productRepo)
	checkout := NewCheckoutService(cartService, invoiceService, receiptRepo)
	return checkout, cartService, invoiceService, receiptRepo
}

func catalogProduct(userID uuid.UUID, name string, selling, buying int64) *entity.Product {
	return &entity.Product{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		Slug:         name,
		Code:         name,
		SellingPrice: selling,
		BuyingPrice:  buying,
	}
}

func TestCheckoutCartEmptyCartFails(t *testing.T) {
	checkout, _, _, receiptRepo := newCheckoutFixture(t)
	userID := uuid.New()

	_, err := checkout.CheckoutCart(context.Background(), &CheckoutInput{UserID: userID})

	require.Error(t, err)
	assert.Equal(t, apperror.ErrEmptyCart, err)
	assert.Empty(t, receiptRepo.receipts, "nothing should be appended to history")
}

func TestCheckoutInvoiceEmptyListFails(t *testing.T) {
	checkout, _, _, receiptRepo := newCheckoutFixture(t)

	_, err := checkout.CheckoutInvoice(context.Background(), &CheckoutInput{UserID: uuid.New()})

	require.Error(t, err)
	assert.Equal(t, apperror.ErrEmptyCart, err)
	assert.Empty(t, receiptRepo.receipts)
}

func TestCheckoutCartAssemblesReceipt(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "soda", 10000, 6000)
	water := catalogProduct(userID, "water", 25000, 15000)
	checkout, cartService, _, receiptRepo := newCheckoutFixture(t, soda, water)

	checkout.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()
	_, err := cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: water.ID, Quantity: 1})
	require.NoError(t, err)

	receipt, err := checkout.CheckoutCart(ctx, &CheckoutInput{
		UserID:   userID,
		Discount: pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, "SL1300826", receipt.ReceiptNo)
	assert.Equal(t, enum.ReceiptSourceSale, receipt.Source)
	assert.Equal(t, int64(45000), receipt.SubTotal)
	assert.Equal(t, int64(4500), receipt.Discount)
	assert.Equal(t, int64(40500), receipt.Total)
	assert.Equal(t, 3, receipt.TotalItems)
	assert.Equal(t, "cash", receipt.PaymentType)

	// margin (2*(10000-6000) + 1*(25000-15000)) less the discount
	assert.Equal(t, int64(8000+10000-4500), receipt.Profit)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "soda", receipt.Items[0].Name)
	require.NotNil(t, receipt.Items[0].ProductID)
	assert.Equal(t, soda.ID, *receipt.Items[0].ProductID)

	require.Len(t, receiptRepo.receipts, 1)
	assert.Equal(t, 0, cartService.Cart(userID).Len(), "cart should be cleared after checkout")
}

func TestCheckoutCartUsesOverridePrice(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "soda", 10000, 6000)
	checkout, cartService, _, _ := newCheckoutFixture(t, soda)

	ctx := context.Background()
	override := 80.00
	_, err := cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 1, OverridePrice: &override})
	require.NoError(t, err)

	receipt, err := checkout.CheckoutCart(ctx, &CheckoutInput{UserID: userID})
	require.NoError(t, err)

	assert.Equal(t, int64(8000), receipt.SubTotal)
	assert.Equal(t, int64(8000), receipt.Items[0].UnitPrice)
	assert.Equal(t, int64(8000-6000), receipt.Profit)
}

func TestCheckoutSequenceIsPerSource(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "soda", 10000, 6000)
	checkout, cartService, invoiceService, _ := newCheckoutFixture(t, soda)

	checkout.now = func() time.Time {
		return time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	}

	ctx := context.Background()

	_, err := cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 1})
	require.NoError(t, err)
	first, err := checkout.CheckoutCart(ctx, &CheckoutInput{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "SL1300826", first.ReceiptNo)

	// Manual invoices run their own sequence under their own prefix.
	_, err = invoiceService.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Repair", Quantity: 1, UnitPrice: 50})
	require.NoError(t, err)
	manual, err := checkout.CheckoutInvoice(ctx, &CheckoutInput{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "MI1300826", manual.ReceiptNo)

	_, err = cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 1})
	require.NoError(t, err)
	second, err := checkout.CheckoutCart(ctx, &CheckoutInput{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "SL2300826", second.ReceiptNo)
}

func TestCheckoutInvoiceProfitEqualsTotal(t *testing.T) {
	userID := uuid.New()
	checkout, _, invoiceService, _ := newCheckoutFixture(t)

	ctx := context.Background()
	_, err := invoiceService.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Typing", Quantity: 200, UnitPrice: 0.50})
	require.NoError(t, err)

	receipt, err := checkout.CheckoutInvoice(ctx, &CheckoutInput{
		UserID:   userID,
		Discount: pricing.DiscountSpec{Mode: enum.DiscountModeAmount, Value: 1000},
	})
	require.NoError(t, err)

	assert.Equal(t, enum.ReceiptSourceManual, receipt.Source)
	assert.Equal(t, int64(10000), receipt.SubTotal)
	assert.Equal(t, int64(9000), receipt.Total)
	assert.Equal(t, receipt.Total, receipt.Profit)
	assert.Nil(t, receipt.Items[0].ProductID, "manual rows have no catalog link")
	assert.Equal(t, 0, invoiceService.List(userID).Len(), "invoice should be cleared after checkout")
}

func TestCheckoutInvoiceZeroPercentDiscount(t *testing.T) {
	userID := uuid.New()
	checkout, _, invoiceService, _ := newCheckoutFixture(t)

	ctx := context.Background()
	_, err := invoiceService.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Binding", Quantity: 50, UnitPrice: 2.00})
	require.NoError(t, err)

	receipt, err := checkout.CheckoutInvoice(ctx, &CheckoutInput{
		UserID:   userID,
		Discount: pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(10000), receipt.SubTotal)
	assert.Equal(t, int64(0), receipt.Discount)
	assert.Equal(t, int64(10000), receipt.Total)
	assert.Equal(t, int64(10000), receipt.Profit, "no cost basis, profit is the full amount")
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "soda", 10000, 6000)
	productRepo := newFakeProductRepo(soda)
	receiptRepo := &fakeReceiptRepo{createErr: errors.New("connection refused")}
	cartService := NewCartService(productRepo)
	invoiceService := NewInvoiceService(productRepo)
	checkout := NewCheckoutService(cartService, invoiceService, receiptRepo)

	ctx := context.Background()
	_, err := cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 2})
	require.NoError(t, err)

	_, err = checkout.CheckoutCart(ctx, &CheckoutInput{UserID: userID})
	require.Error(t, err)
	assert.False(t, apperror.IsAppError(err), "storage failures are not validation errors")

	assert.Equal(t, 1, cartService.Cart(userID).Len(), "failed checkout must not clear the cart")
}

func TestCheckoutSnapshotSurvivesCatalogEdits(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "Soda 500ml", 10000, 6000)
	productRepo := newFakeProductRepo(soda)
	receiptRepo := &fakeReceiptRepo{}
	cartService := NewCartService(productRepo)
	invoiceService := NewInvoiceService(productRepo)
	checkout := NewCheckoutService(cartService, invoiceService, receiptRepo)

	ctx := context.Background()
	_, err := cartService.AddItem(ctx, &AddItemInput{UserID: userID, ProductID: soda.ID, Quantity: 1})
	require.NoError(t, err)

	receipt, err := checkout.CheckoutCart(ctx, &CheckoutInput{UserID: userID})
	require.NoError(t, err)

	// Rename and reprice the product after the sale.
	soda.Name = "Soda 500ml (new)"
	soda.SellingPrice = 99900
	require.NoError(t, productRepo.Update(ctx, soda))

	stored, err := receiptRepo.GetByID(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Soda 500ml", stored.Items[0].Name)
	assert.Equal(t, int64(10000), stored.Items[0].UnitPrice)
	assert.Equal(t, int64(10000), stored.Total)
}

func TestRecentReceiptsMostRecentFirst(t *testing.T) {
	userID := uuid.New()
	receiptRepo := &fakeReceiptRepo{}
	svc := NewReceiptService(receiptRepo)

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, receiptRepo.Create(ctx, &entity.Receipt{
			UserID:    userID,
			ReceiptNo: fmt.Sprintf("R%d", i),
			CreatedAt: time.Date(2026, 8, 30, 9, i, 0, 0, time.UTC),
		}))
	}

	recent, err := svc.RecentReceipts(ctx, userID, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "R4", recent[0].ReceiptNo)
	assert.Equal(t, "R3", recent[1].ReceiptNo)
	assert.Equal(t, "R2", recent[2].ReceiptNo)
}
