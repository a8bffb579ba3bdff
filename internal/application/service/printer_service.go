package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mwaniki/salepoint-api/internal/config"
	"github.com/mwaniki/salepoint-api/internal/domain/entity"
	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/repository"
	"github.com/mwaniki/salepoint-api/pkg/apperror"
	"github.com/mwaniki/salepoint-api/pkg/printer"
)

// PrinterService renders receipts to ESC/POS and drives the thermal
// printer. The printer is a best-effort collaborator: a failed print leaves
// the receipt itself intact.
type PrinterService struct {
	printer     printer.Printer
	receiptRepo repository.ReceiptRepository
	printerType string
	width       int
	store       config.StoreConfig
}

// NewPrinterService creates a new printer service
func NewPrinterService(
	p printer.Printer,
	receiptRepo repository.ReceiptRepository,
	cfg *config.Config,
) *PrinterService {
	width := cfg.Printer.Width
	if width <= 0 {
		width = printer.Width58mm
	}
	return &PrinterService{
		printer:     p,
		receiptRepo: receiptRepo,
		printerType: cfg.Printer.Type,
		width:       width,
		store:       cfg.Store,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// TestPrint sends a test page to the printer
func (s *PrinterService) TestPrint() error {
	test := &entity.Receipt{
		ReceiptNo:   "TEST-001",
		Source:      enum.ReceiptSourceSale,
		TotalItems:  3,
		SubTotal:    2000,
		Total:       2000,
		PaymentType: "cash",
		CreatedAt:   time.Now(),
		Items: []entity.ReceiptItem{
			{Name: "Test Item 1", Quantity: 1, UnitPrice: 1000, Total: 1000},
			{Name: "Test Item 2", Quantity: 2, UnitPrice: 500, Total: 1000},
		},
	}

	if err := s.printer.Print(s.FormatReceipt(test)); err != nil {
		return fmt.Errorf("test print failed: %w", err)
	}
	return nil
}

// PrintReceipt fetches a stored receipt and prints it
func (s *PrinterService) PrintReceipt(ctx context.Context, userID, receiptID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetByID(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}
	if receipt.UserID != userID {
		return nil, apperror.ErrForbidden
	}

	if err := s.printer.Print(s.FormatReceipt(receipt)); err != nil {
		log.Printf("Printer error (receipt %s): %v", receipt.ReceiptNo, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a receipt into ESC/POS bytes
func (s *PrinterService) FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(s.width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(s.store.Name).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if s.store.Address != "" {
		doc.Text(s.store.Address)
	}
	if s.store.Phone != "" {
		doc.Text(s.store.Phone)
	}
	if s.store.TaxID != "" {
		doc.TextF("Tax ID: %s", s.store.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Receipt info
	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.CreatedAt.Format("2006-01-02 15:04")).
		KeyValue("Payment:", r.PaymentType)

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.GetTotalDecimal()))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f each", item.GetUnitPriceDecimal())
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", float64(r.SubTotal)/100))
	if r.Discount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", float64(r.Discount)/100))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.GetTotalDecimal())).
		SetBold(false)

	doc.Separator('-')

	// Footer
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for your business!").
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
