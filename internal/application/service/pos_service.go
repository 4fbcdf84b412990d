package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/pos"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
)

// POSService manages the in-progress sale ticket of each operator. Tickets
// live only in memory; nothing touches the database until checkout succeeds.
type POSService struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*pos.Ticket // keyed by operator user ID

	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	methodRepo      repository.PaymentMethodRepository
	orderService    *OrderService
	registerService *RegisterService
	printerService  *PrinterService
}

// NewPOSService creates a new POS service
func NewPOSService(
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	methodRepo repository.PaymentMethodRepository,
	orderService *OrderService,
	registerService *RegisterService,
	printerService *PrinterService,
) *POSService {
	return &POSService{
		tickets:         make(map[uuid.UUID]*pos.Ticket),
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		methodRepo:      methodRepo,
		orderService:    orderService,
		registerService: registerService,
		printerService:  printerService,
	}
}

// TicketView is the API representation of a ticket with its derived amounts.
// Amounts are decimal currency values; the ticket itself holds cents.
type TicketView struct {
	RegisterSessionID uuid.UUID             `json:"register_session_id"`
	CustomerID        *uuid.UUID            `json:"customer_id,omitempty"`
	Items             []TicketItemView      `json:"items"`
	Payments          []PaymentView         `json:"payments"`
	Discount          float64               `json:"discount"`
	SubTotal          float64               `json:"sub_total"`
	Total             float64               `json:"total"`
	Paid              float64               `json:"paid"`
	Remaining         float64               `json:"remaining"`
	State             pos.State             `json:"state"`
	Postable          bool                  `json:"postable"`
	BlockedBy         pos.PostabilityReason `json:"blocked_by,omitempty"`
}

// TicketItemView is one displayed line item
type TicketItemView struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   float64   `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   float64   `json:"line_total"`
}

// PaymentView is one displayed payment allocation
type PaymentView struct {
	PaymentMethodID   uuid.UUID `json:"payment_method_id"`
	MethodName        string    `json:"method_name"`
	MaxInstallments   int       `json:"max_installments"`
	InstallmentCount  int       `json:"installment_count"`
	Amount            float64   `json:"amount"`
	InstallmentAmount float64   `json:"installment_amount"`
}

func newTicketView(t *pos.Ticket) *TicketView {
	view := &TicketView{
		RegisterSessionID: t.RegisterSessionID,
		CustomerID:        t.CustomerID,
		Items:             make([]TicketItemView, 0, len(t.Items)),
		Payments:          make([]PaymentView, 0, len(t.Payments)),
		Discount:          float64(t.Discount) / 100,
		SubTotal:          float64(t.Subtotal()) / 100,
		Total:             float64(t.Total()) / 100,
		Paid:              float64(t.Paid()) / 100,
		Remaining:         float64(t.Remaining()) / 100,
		State:             t.State(),
		Postable:          t.IsPostable(),
	}

	var npErr *pos.NotPostableError
	if errors.As(t.Postability(), &npErr) {
		view.BlockedBy = npErr.Reason
	}

	for i := range t.Items {
		item := &t.Items[i]
		view.Items = append(view.Items, TicketItemView{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   float64(item.UnitPrice) / 100,
			Quantity:    item.Quantity,
			LineTotal:   float64(item.LineTotal) / 100,
		})
	}

	for i := range t.Payments {
		p := &t.Payments[i]
		view.Payments = append(view.Payments, PaymentView{
			PaymentMethodID:   p.PaymentMethodID,
			MethodName:        p.MethodName,
			MaxInstallments:   p.MaxInstallments,
			InstallmentCount:  p.InstallmentCount,
			Amount:            float64(p.Amount) / 100,
			InstallmentAmount: float64(p.InstallmentAmount()) / 100,
		})
	}

	return view
}

// ticketFor returns the operator's current ticket, creating one bound to the
// open register session on first use. A ticket left over from a previous
// session is discarded. Caller must hold s.mu.
func (s *POSService) ticketFor(ctx context.Context, userID uuid.UUID) (*pos.Ticket, error) {
	session, err := s.registerService.RequireOpenSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	ticket, exists := s.tickets[userID]
	if exists && ticket.RegisterSessionID == session.ID {
		return ticket, nil
	}

	ticket, err = pos.NewTicket(session.ID)
	if err != nil {
		return nil, err
	}
	s.tickets[userID] = ticket
	return ticket, nil
}

// GetTicket returns the operator's current ticket
func (s *POSService) GetTicket(ctx context.Context, userID uuid.UUID) (*TicketView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.ticketFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return newTicketView(ticket), nil
}

// ClearTicket discards the operator's current ticket
func (s *POSService) ClearTicket(ctx context.Context, userID uuid.UUID) (*TicketView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.ticketFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	ticket.Reset()
	return newTicketView(ticket), nil
}

// AddItem adds a product to the ticket by ID or barcode. Re-adding a product
// already on the ticket returns the existing line unchanged.
func (s *POSService) AddItem(ctx context.Context, userID uuid.UUID, productID *uuid.UUID, code string) (*TicketView, error) {
	var product *entity.Product
	var err error

	switch {
	case productID != nil:
		product, err = s.productRepo.GetByID(ctx, *productID)
	case code != "":
		product, err = s.productRepo.GetByCode(ctx, code)
	default:
		return nil, apperror.NewBadRequestError("Product ID or code is required")
	}
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if !product.Active {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is inactive", product.Name))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.ticketFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	ticket.AddLineItem(pos.CatalogProduct{
		ID:        product.ID,
		Name:      product.Name,
		UnitPrice: product.SellingPrice,
	})

	return newTicketView(ticket), nil
}

// RemoveItem removes the line item at the given position
func (s *POSService) RemoveItem(ctx context.Context, userID uuid.UUID, index int) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.RemoveLineItem(index)
	})
}

// SetItemQuantity changes a line item's quantity
func (s *POSService) SetItemQuantity(ctx context.Context, userID uuid.UUID, index, quantity int) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.SetLineItemQuantity(index, quantity)
	})
}

// SetDiscount sets the ticket's manual discount from a decimal amount
func (s *POSService) SetDiscount(ctx context.Context, userID uuid.UUID, amount float64) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.SetDiscount(int64(amount*100 + 0.5))
	})
}

// SetCustomer attaches a customer to the ticket
func (s *POSService) SetCustomer(ctx context.Context, userID, customerID uuid.UUID) (*TicketView, error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		t.SetCustomer(customer.ID)
		return nil
	})
}

// AddPayment adds a payment allocation proposing the full remaining balance
func (s *POSService) AddPayment(ctx context.Context, userID, methodID uuid.UUID) (*TicketView, error) {
	method, err := s.methodRepo.GetByID(ctx, methodID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.NewNotFoundError("Payment method")
	}
	if !method.Active {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Payment method %s is inactive", method.Name))
	}

	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		_, err := t.AddPayment(pos.Method{
			ID:              method.ID,
			Name:            method.Name,
			MaxInstallments: method.MaxInstallments,
		})
		return err
	})
}

// RemovePayment removes the payment allocation at the given position
func (s *POSService) RemovePayment(ctx context.Context, userID uuid.UUID, index int) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.RemovePayment(index)
	})
}

// SetPaymentAmount overwrites a payment allocation's decimal amount
func (s *POSService) SetPaymentAmount(ctx context.Context, userID uuid.UUID, index int, amount float64) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.SetPaymentAmount(index, int64(amount*100+0.5))
	})
}

// SetPaymentInstallments changes a payment allocation's installment count
func (s *POSService) SetPaymentInstallments(ctx context.Context, userID uuid.UUID, index, count int) (*TicketView, error) {
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.SetPaymentInstallments(index, count)
	})
}

// UpdatePayment changes a payment allocation's amount and/or installment
// count as a single operation; a rejected value leaves the allocation
// untouched.
func (s *POSService) UpdatePayment(ctx context.Context, userID uuid.UUID, index int, amount *float64, installments *int) (*TicketView, error) {
	var cents *int64
	if amount != nil {
		v := int64(*amount*100 + 0.5)
		cents = &v
	}
	return s.mutate(ctx, userID, func(t *pos.Ticket) error {
		return t.UpdatePayment(index, cents, installments)
	})
}

func (s *POSService) mutate(ctx context.Context, userID uuid.UUID, fn func(*pos.Ticket) error) (*TicketView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.ticketFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := fn(ticket); err != nil {
		return nil, err
	}
	return newTicketView(ticket), nil
}

// CheckoutResult is returned from a successful checkout
type CheckoutResult struct {
	Order   *entity.Order   `json:"order"`
	Receipt *entity.Receipt `json:"receipt"`
}

// Checkout finalizes the operator's ticket: it validates postability, submits
// the order, resets the ticket, and prints the receipt. The ticket is kept
// intact when submission fails so the operator can correct and retry.
// Printing runs after the ticket lock is released; a slow or offline printer
// must not stall the other operators' tickets.
func (s *POSService) Checkout(ctx context.Context, userID uuid.UUID) (*CheckoutResult, error) {
	order, err := s.submitTicket(ctx, userID)
	if err != nil {
		return nil, err
	}

	// The sale is committed; a printer failure must not undo it
	receipt, err := s.printerService.PrintOrderReceipt(ctx, order.ID)
	if err != nil {
		log.Printf("Receipt print failed for order %s: %v", order.OrderNo, err)
	}

	return &CheckoutResult{Order: order, Receipt: receipt}, nil
}

// submitTicket maps the operator's ticket to an order and submits it under
// the ticket lock, resetting the ticket only on confirmed success.
func (s *POSService) submitTicket(ctx context.Context, userID uuid.UUID) (*entity.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.ticketFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	req, err := ticket.ToOrderRequest()
	if err != nil {
		return nil, err
	}

	order, err := s.orderService.SubmitOrder(ctx, userID, req)
	if err != nil {
		return nil, err
	}

	ticket.Reset()
	return order, nil
}
