package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/config"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
)

type fakePrinter struct {
	printErr  error
	connected bool
	jobs      [][]byte
}

func (p *fakePrinter) Print(data []byte) error {
	if p.printErr != nil {
		return p.printErr
	}
	p.jobs = append(p.jobs, data)
	return nil
}

func (p *fakePrinter) Close() error { return nil }

func (p *fakePrinter) IsConnected() bool { return p.connected }

func newPrinterFixture(t *testing.T, p *fakePrinter) (*PrinterService, *fakeReceiptRepo) {
	t.Helper()
	receiptRepo := &fakeReceiptRepo{}
	cfg := &config.Config{
		Printer: config.PrinterConfig{Type: "usb", Width: 32},
		Store:   config.StoreConfig{Name: "Corner Shop", Phone: "0712 000000"},
	}
	return NewPrinterService(p, receiptRepo, cfg), receiptRepo
}

func storedReceipt(userID uuid.UUID) *entity.Receipt {
	return &entity.Receipt{
		ID:          uuid.New(),
		UserID:      userID,
		ReceiptNo:   "SL1300826",
		Source:      enum.ReceiptSourceSale,
		TotalItems:  2,
		SubTotal:    20000,
		Total:       20000,
		PaymentType: "cash",
		CreatedAt:   time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC),
		Items: []entity.ReceiptItem{
			{Name: "soda", Quantity: 2, UnitPrice: 10000, Total: 20000},
		},
	}
}

func TestPrintReceiptSuccess(t *testing.T) {
	userID := uuid.New()
	p := &fakePrinter{connected: true}
	svc, receiptRepo := newPrinterFixture(t, p)

	ctx := context.Background()
	stored := storedReceipt(userID)
	require.NoError(t, receiptRepo.Create(ctx, stored))

	receipt, err := svc.PrintReceipt(ctx, userID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, "SL1300826", receipt.ReceiptNo)
	require.Len(t, p.jobs, 1)
	assert.Contains(t, string(p.jobs[0]), "SL1300826")
}

func TestPrintReceiptFailureLeavesReceiptIntact(t *testing.T) {
	userID := uuid.New()
	p := &fakePrinter{printErr: errors.New("device not responding")}
	svc, receiptRepo := newPrinterFixture(t, p)

	ctx := context.Background()
	stored := storedReceipt(userID)
	require.NoError(t, receiptRepo.Create(ctx, stored))

	receipt, err := svc.PrintReceipt(ctx, userID, stored.ID)

	// The sale already happened; the printer only re-renders it.
	require.Error(t, err)
	require.NotNil(t, receipt, "the receipt must come back even when printing fails")
	assert.Equal(t, stored.ID, receipt.ID)

	kept, repoErr := receiptRepo.GetByID(ctx, stored.ID)
	require.NoError(t, repoErr)
	require.NotNil(t, kept, "a print failure must not touch history")
	require.Len(t, receiptRepo.receipts, 1)
}

func TestPrintReceiptUnknownID(t *testing.T) {
	svc, _ := newPrinterFixture(t, &fakePrinter{})

	receipt, err := svc.PrintReceipt(context.Background(), uuid.New(), uuid.New())
	require.Error(t, err)
	assert.Nil(t, receipt)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, 404, appErr.Code)
}

func TestPrintReceiptForeignUser(t *testing.T) {
	owner := uuid.New()
	p := &fakePrinter{}
	svc, receiptRepo := newPrinterFixture(t, p)

	ctx := context.Background()
	stored := storedReceipt(owner)
	require.NoError(t, receiptRepo.Create(ctx, stored))

	receipt, err := svc.PrintReceipt(ctx, uuid.New(), stored.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.ErrForbidden, err)
	assert.Nil(t, receipt)
	assert.Empty(t, p.jobs)
}

func TestGetStatusReflectsPrinter(t *testing.T) {
	svc, _ := newPrinterFixture(t, &fakePrinter{connected: true})

	status := svc.GetStatus()
	assert.True(t, status.Configured)
	assert.True(t, status.Connected)
	assert.Equal(t, "usb", status.Type)
}

func TestTestPrintPropagatesFailure(t *testing.T) {
	svc, _ := newPrinterFixture(t, &fakePrinter{printErr: errors.New("paper out")})

	err := svc.TestPrint()
	require.Error(t, err)
	assert.ErrorContains(t, err, "test print failed")
}
