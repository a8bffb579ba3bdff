package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
)

func TestInvoiceQuickAddBuildsPresetRow(t *testing.T) {
	userID := uuid.New()
	photocopy := catalogProduct(userID, "Photocopy", 500, 200)
	photocopy.PerUnit = true
	svc := NewInvoiceService(newFakeProductRepo(photocopy))

	view, err := svc.QuickAdd(context.Background(), &QuickAddInput{
		UserID:    userID,
		ProductID: photocopy.ID,
		Units:     20,
	})
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "Photocopy x 20", view.Items[0].Name)
	assert.Equal(t, 1, view.Items[0].Quantity)
	assert.Equal(t, 100.00, view.Items[0].UnitPrice)
	assert.Equal(t, 100.00, view.Items[0].Total)
}

func TestInvoiceQuickAddRejectsNonPerUnitProduct(t *testing.T) {
	userID := uuid.New()
	soda := catalogProduct(userID, "Soda", 6000, 4000)
	svc := NewInvoiceService(newFakeProductRepo(soda))

	_, err := svc.QuickAdd(context.Background(), &QuickAddInput{
		UserID:    userID,
		ProductID: soda.ID,
		Units:     5,
	})

	require.Error(t, err)
	appErr := apperror.GetAppError(err)
	assert.Equal(t, 422, appErr.Code)
}

func TestInvoiceQuickAddMissingProduct(t *testing.T) {
	svc := NewInvoiceService(newFakeProductRepo())

	_, err := svc.QuickAdd(context.Background(), &QuickAddInput{
		UserID:    uuid.New(),
		ProductID: uuid.New(),
		Units:     5,
	})

	require.Error(t, err)
	assert.Equal(t, 404, apperror.GetAppError(err).Code)
}

func TestInvoiceAddValidation(t *testing.T) {
	svc := NewInvoiceService(newFakeProductRepo())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "", Quantity: 1, UnitPrice: 10})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Repair", Quantity: 0, UnitPrice: 10})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	_, err = svc.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Repair", Quantity: 1, UnitPrice: 0})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)

	assert.Equal(t, 0, svc.List(userID).Len())
}

func TestInvoiceViewAppliesDiscount(t *testing.T) {
	svc := NewInvoiceService(newFakeProductRepo())
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, &AddManualItemInput{UserID: userID, Name: "Typing", Quantity: 200, UnitPrice: 0.50})
	require.NoError(t, err)

	view := svc.View(userID, pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: 10})
	assert.Equal(t, 100.00, view.SubTotal)
	assert.Equal(t, 10.00, view.Discount)
	assert.Equal(t, 90.00, view.Total)
}

func TestInvoiceListsAreIsolatedPerUser(t *testing.T) {
	svc := NewInvoiceService(newFakeProductRepo())
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	_, err := svc.AddItem(ctx, &AddManualItemInput{UserID: alice, Name: "Repair", Quantity: 1, UnitPrice: 10})
	require.NoError(t, err)

	assert.Equal(t, 1, svc.List(alice).Len())
	assert.Equal(t, 0, svc.List(bob).Len())
}
