package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer      printer.Printer
	orderRepo    repository.OrderRepository
	settingsRepo repository.SettingsRepository
	printerType  string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	orderRepo repository.OrderRepository,
	settingsRepo repository.SettingsRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		printerType:  printerType,
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

// TestPrint sends a test page to the printer.
// Returns the receipt data so the handler can return it as JSON when printer is disabled.
func (s *PrinterService) TestPrint() (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "TESTE DE IMPRESSORA",
			Address:   "Endereço de teste",
			Phone:     "(00) 0000-0000",
		},
		OrderNo: "TEST-001",
		Date:    "Test Date",
		Cashier: "Sistema",
		Items: []entity.ReceiptItem{
			{Name: "Item de teste 1", Quantity: 1, UnitPrice: 10.00, Total: 10.00},
			{Name: "Item de teste 2", Quantity: 2, UnitPrice: 5.00, Total: 10.00},
		},
		SubTotal: 20.00,
		Total:    20.00,
		Payments: []entity.ReceiptPayment{
			{Method: "Dinheiro", Installments: 1, Amount: 20.00},
		},
	}

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}

	return receipt, nil
}

// PrintOrderReceipt fetches an order (with details) and prints its receipt.
func (s *PrinterService) PrintOrderReceipt(ctx context.Context, orderID uuid.UUID) (*entity.Receipt, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}

	receipt := s.BuildOrderReceipt(ctx, order)

	data := FormatReceipt(receipt)
	if err := s.printer.Print(data); err != nil {
		log.Printf("Printer error (order %s): %v", orderID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// BuildOrderReceipt maps an order into its printable form using the owning
// user's store settings for the header and footer.
func (s *PrinterService) BuildOrderReceipt(ctx context.Context, order *entity.Order) *entity.Receipt {
	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: "PDV",
		},
		OrderNo:  order.OrderNo,
		Date:     order.OrderDate.Format("02/01/2006 15:04"),
		SubTotal: float64(order.SubTotal) / 100,
		Discount: float64(order.Discount) / 100,
		Total:    float64(order.Total) / 100,
	}

	if settings, err := s.settingsRepo.GetByUserID(ctx, order.UserID); err == nil && settings != nil {
		if settings.StoreName != "" {
			receipt.Header.StoreName = settings.StoreName
		}
		if settings.ReceiptHeader != "" {
			receipt.Header.Address = settings.ReceiptHeader
		}
		receipt.Footer = settings.ReceiptFooter
	}

	if order.Customer != nil {
		receipt.Customer = order.Customer.Name
	}

	for _, item := range order.Items {
		line := entity.ReceiptItem{
			Quantity:  item.Quantity,
			UnitPrice: float64(item.UnitPrice) / 100,
			Total:     float64(item.LineTotal) / 100,
		}
		if item.Product.Name != "" {
			line.Name = item.Product.Name
		} else {
			line.Name = "Produto"
		}
		receipt.Items = append(receipt.Items, line)
	}

	for _, p := range order.Payments {
		method := p.PaymentMethod.Name
		if method == "" {
			method = "Pagamento"
		}
		receipt.Payments = append(receipt.Payments, entity.ReceiptPayment{
			Method:       method,
			Installments: p.InstallmentCount,
			Amount:       float64(p.Amount) / 100,
		})
	}

	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	// Order info
	doc.KeyValue("Pedido:", r.OrderNo).
		KeyValue("Data:", r.Date)

	if r.Cashier != "" {
		doc.KeyValue("Operador:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Cliente:", r.Customer)
	}

	doc.Separator('-')

	// Items
	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, fmt.Sprintf("%.2f", item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %.2f un", item.UnitPrice)
		}
	}

	doc.Separator('-')

	// Totals
	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", r.SubTotal))
	if r.Discount > 0 {
		doc.KeyValue("Desconto:", fmt.Sprintf("-%.2f", r.Discount))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", r.Total)).
		SetBold(false)

	// Payments
	for _, p := range r.Payments {
		label := p.Method + ":"
		if p.Installments > 1 {
			label = fmt.Sprintf("%s %dx:", p.Method, p.Installments)
		}
		doc.KeyValue(label, fmt.Sprintf("%.2f", p.Amount))
	}

	doc.Separator('-')

	// Footer
	footer := r.Footer
	if footer == "" {
		footer = "Obrigado pela preferência!"
	}
	doc.SetAlign(printer.AlignCenter).
		Text(footer).
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		Cut()

	return doc.Bytes()
}
