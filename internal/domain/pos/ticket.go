package pos

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// All amounts are in cents, following the entity layer convention.
//
// BalanceEpsilon is the tolerance used when deciding whether a ticket is fully
// paid. One cent absorbs rounding from installment splits and decimal input.
const BalanceEpsilon int64 = 1

// Validation errors raised by ticket mutations.
var (
	ErrPaymentNotNeeded   = errors.New("ticket total is already covered")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidAmount      = errors.New("amount must not be negative")
	ErrInvalidDiscount    = errors.New("discount must not be negative")
	ErrInvalidInstallment = errors.New("installment count out of range for payment method")
	ErrIndexOutOfRange    = errors.New("index out of range")
	ErrRegisterRequired   = errors.New("ticket requires an open register session")
)

// PostabilityReason identifies which invariant blocks finalization.
type PostabilityReason string

const (
	ReasonNoCustomer PostabilityReason = "no_customer"
	ReasonNoItems    PostabilityReason = "no_items"
	ReasonNoPayments PostabilityReason = "no_payments"
	ReasonUnbalanced PostabilityReason = "unbalanced"
)

// NotPostableError reports why a ticket cannot be finalized, so callers can
// surface a specific message instead of a generic failure.
type NotPostableError struct {
	Reason PostabilityReason
}

func (e *NotPostableError) Error() string {
	switch e.Reason {
	case ReasonNoCustomer:
		return "ticket has no customer"
	case ReasonNoItems:
		return "ticket has no items"
	case ReasonNoPayments:
		return "ticket has no payments"
	case ReasonUnbalanced:
		return "ticket payments do not cover the total"
	default:
		return fmt.Sprintf("ticket is not postable: %s", string(e.Reason))
	}
}

// State is the derived lifecycle phase of a ticket. It is never stored; it is
// a pure function of the ticket's current contents.
type State string

const (
	StateEmpty    State = "empty"
	StateBuilding State = "building"
	StateBalanced State = "balanced"
)

// CatalogProduct is the slice of the product catalog the ticket needs when a
// line item is added. The unit price is copied at time of addition.
type CatalogProduct struct {
	ID        uuid.UUID
	Name      string
	UnitPrice int64
}

// Method is the slice of the payment-method catalog the ticket needs when a
// payment allocation is added.
type Method struct {
	ID              uuid.UUID
	Name            string
	MaxInstallments int
}

// LineItem is one product row in the ticket. LineTotal is derived and is
// recomputed whenever the quantity changes; it is never independently set.
type LineItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	UnitPrice   int64     `json:"unit_price"`
	Quantity    int       `json:"quantity"`
	LineTotal   int64     `json:"line_total"`
}

// PaymentAllocation is one payment-method slice covering part of the total.
type PaymentAllocation struct {
	PaymentMethodID  uuid.UUID `json:"payment_method_id"`
	MethodName       string    `json:"method_name"`
	MaxInstallments  int       `json:"max_installments"`
	InstallmentCount int       `json:"installment_count"`
	Amount           int64     `json:"amount"`
}

// InstallmentAmount returns the per-installment value shown to the operator.
// It is recomputed on demand, never stored.
func (p *PaymentAllocation) InstallmentAmount() int64 {
	if p.InstallmentCount < 1 {
		return p.Amount
	}
	return p.Amount / int64(p.InstallmentCount)
}

// Ticket is the in-progress sale being assembled at the PDV. It lives only in
// memory: nothing is persisted until a successful checkout, and abandoning the
// ticket discards it entirely.
type Ticket struct {
	RegisterSessionID uuid.UUID           `json:"register_session_id"`
	CustomerID        *uuid.UUID          `json:"customer_id,omitempty"`
	Items             []LineItem          `json:"items"`
	Discount          int64               `json:"discount"`
	Payments          []PaymentAllocation `json:"payments"`
}

// NewTicket creates an empty ticket bound to an open register session.
func NewTicket(registerSessionID uuid.UUID) (*Ticket, error) {
	if registerSessionID == uuid.Nil {
		return nil, ErrRegisterRequired
	}
	return &Ticket{
		RegisterSessionID: registerSessionID,
		Items:             make([]LineItem, 0),
		Payments:          make([]PaymentAllocation, 0),
	}, nil
}

// Subtotal is the sum of line totals over all items.
func (t *Ticket) Subtotal() int64 {
	var sum int64
	for i := range t.Items {
		sum += t.Items[i].LineTotal
	}
	return sum
}

// Total is subtotal minus discount. It is deliberately not clamped at zero; a
// discount larger than the subtotal yields a negative total, which the
// postability gate will reject unless payments balance it.
func (t *Ticket) Total() int64 {
	return t.Subtotal() - t.Discount
}

// Paid is the sum of all payment allocation amounts.
func (t *Ticket) Paid() int64 {
	var sum int64
	for i := range t.Payments {
		sum += t.Payments[i].Amount
	}
	return sum
}

// Remaining is the outstanding balance: total minus paid.
func (t *Ticket) Remaining() int64 {
	return t.Total() - t.Paid()
}

// AddLineItem appends a line for the given product with quantity 1. Adding a
// product that is already on the ticket is a no-op and returns the existing
// line.
func (t *Ticket) AddLineItem(product CatalogProduct) *LineItem {
	for i := range t.Items {
		if t.Items[i].ProductID == product.ID {
			return &t.Items[i]
		}
	}
	t.Items = append(t.Items, LineItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		UnitPrice:   product.UnitPrice,
		Quantity:    1,
		LineTotal:   product.UnitPrice,
	})
	return &t.Items[len(t.Items)-1]
}

// RemoveLineItem removes the item at the given position.
func (t *Ticket) RemoveLineItem(index int) error {
	if index < 0 || index >= len(t.Items) {
		return ErrIndexOutOfRange
	}
	t.Items = append(t.Items[:index], t.Items[index+1:]...)
	return nil
}

// SetLineItemQuantity changes the quantity of the item at the given position
// and recomputes its line total. Quantities below 1 are rejected.
func (t *Ticket) SetLineItemQuantity(index, quantity int) error {
	if index < 0 || index >= len(t.Items) {
		return ErrIndexOutOfRange
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	item := &t.Items[index]
	item.Quantity = quantity
	item.LineTotal = item.UnitPrice * int64(quantity)
	return nil
}

// SetDiscount sets the manual discount applied to the subtotal.
func (t *Ticket) SetDiscount(amount int64) error {
	if amount < 0 {
		return ErrInvalidDiscount
	}
	t.Discount = amount
	return nil
}

// SetCustomer attaches the customer the sale will be billed to.
func (t *Ticket) SetCustomer(customerID uuid.UUID) {
	t.CustomerID = &customerID
}

// AddPayment creates an allocation for the given method, greedily proposing to
// cover the full outstanding balance with a single installment. The operator
// can split manually by editing the amount down and adding another method.
// Fails when nothing remains to be paid.
func (t *Ticket) AddPayment(method Method) (*PaymentAllocation, error) {
	remaining := t.Remaining()
	if remaining <= 0 {
		return nil, ErrPaymentNotNeeded
	}
	maxInstallments := method.MaxInstallments
	if maxInstallments < 1 {
		maxInstallments = 1
	}
	t.Payments = append(t.Payments, PaymentAllocation{
		PaymentMethodID:  method.ID,
		MethodName:       method.Name,
		MaxInstallments:  maxInstallments,
		InstallmentCount: 1,
		Amount:           remaining,
	})
	return &t.Payments[len(t.Payments)-1], nil
}

// RemovePayment removes the allocation at the given position.
func (t *Ticket) RemovePayment(index int) error {
	if index < 0 || index >= len(t.Payments) {
		return ErrIndexOutOfRange
	}
	t.Payments = append(t.Payments[:index], t.Payments[index+1:]...)
	return nil
}

// SetPaymentAmount overwrites an allocation's amount. The amount is not capped
// against the current remaining balance: the postability gate, not individual
// setters, rejects an unbalanced ticket at finalization.
func (t *Ticket) SetPaymentAmount(index int, amount int64) error {
	if index < 0 || index >= len(t.Payments) {
		return ErrIndexOutOfRange
	}
	if amount < 0 {
		return ErrInvalidAmount
	}
	t.Payments[index].Amount = amount
	return nil
}

// SetPaymentInstallments changes an allocation's installment count, bounded by
// the payment method's maximum.
func (t *Ticket) SetPaymentInstallments(index, count int) error {
	if index < 0 || index >= len(t.Payments) {
		return ErrIndexOutOfRange
	}
	if count < 1 || count > t.Payments[index].MaxInstallments {
		return ErrInvalidInstallment
	}
	t.Payments[index].InstallmentCount = count
	return nil
}

// UpdatePayment changes an allocation's amount and installment count in one
// operation. Both values are validated before either is applied, so a failed
// update leaves the allocation untouched. Nil fields keep their current value.
func (t *Ticket) UpdatePayment(index int, amount *int64, installments *int) error {
	if index < 0 || index >= len(t.Payments) {
		return ErrIndexOutOfRange
	}
	if amount != nil && *amount < 0 {
		return ErrInvalidAmount
	}
	if installments != nil && (*installments < 1 || *installments > t.Payments[index].MaxInstallments) {
		return ErrInvalidInstallment
	}
	if amount != nil {
		t.Payments[index].Amount = *amount
	}
	if installments != nil {
		t.Payments[index].InstallmentCount = *installments
	}
	return nil
}

// Postability returns nil when the ticket can be finalized, or a
// NotPostableError naming the first failing invariant.
func (t *Ticket) Postability() error {
	if t.CustomerID == nil {
		return &NotPostableError{Reason: ReasonNoCustomer}
	}
	if len(t.Items) == 0 {
		return &NotPostableError{Reason: ReasonNoItems}
	}
	if len(t.Payments) == 0 {
		return &NotPostableError{Reason: ReasonNoPayments}
	}
	remaining := t.Remaining()
	if remaining < -BalanceEpsilon || remaining > BalanceEpsilon {
		return &NotPostableError{Reason: ReasonUnbalanced}
	}
	return nil
}

// IsPostable reports whether the ticket satisfies all finalization invariants.
func (t *Ticket) IsPostable() bool {
	return t.Postability() == nil
}

// State derives the lifecycle phase from the ticket contents.
func (t *Ticket) State() State {
	if len(t.Items) == 0 && len(t.Payments) == 0 && t.Discount == 0 && t.CustomerID == nil {
		return StateEmpty
	}
	if t.IsPostable() {
		return StateBalanced
	}
	return StateBuilding
}

// OrderLine is one item row in the checkout payload.
type OrderLine struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice int64
	LineTotal int64
}

// PaymentRecord is one payment row in the checkout payload. InstallmentAmount
// is recomputed at mapping time, consistent with the operator display.
type PaymentRecord struct {
	PaymentMethodID   uuid.UUID
	InstallmentCount  int
	Amount            int64
	InstallmentAmount int64
}

// OrderRequest is the payload handed to order submission when a ticket is
// finalized. Building it has no side effects; submission and the subsequent
// Reset are the caller's responsibility.
type OrderRequest struct {
	CustomerID        uuid.UUID
	RegisterSessionID uuid.UUID
	SubTotal          int64
	Discount          int64
	Total             int64
	TotalProducts     int
	FromRegister      bool
	Items             []OrderLine
	Payments          []PaymentRecord
}

// ToOrderRequest maps a postable ticket into an order submission payload.
// A non-postable ticket yields a NotPostableError and no payload.
func (t *Ticket) ToOrderRequest() (*OrderRequest, error) {
	if err := t.Postability(); err != nil {
		return nil, err
	}

	req := &OrderRequest{
		CustomerID:        *t.CustomerID,
		RegisterSessionID: t.RegisterSessionID,
		SubTotal:          t.Subtotal(),
		Discount:          t.Discount,
		Total:             t.Total(),
		FromRegister:      true,
		Items:             make([]OrderLine, 0, len(t.Items)),
		Payments:          make([]PaymentRecord, 0, len(t.Payments)),
	}

	for i := range t.Items {
		item := &t.Items[i]
		req.TotalProducts += item.Quantity
		req.Items = append(req.Items, OrderLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		})
	}

	for i := range t.Payments {
		p := &t.Payments[i]
		req.Payments = append(req.Payments, PaymentRecord{
			PaymentMethodID:   p.PaymentMethodID,
			InstallmentCount:  p.InstallmentCount,
			Amount:            p.Amount,
			InstallmentAmount: p.InstallmentAmount(),
		})
	}

	return req, nil
}

// Reset clears the ticket back to its empty state, keeping the register
// session binding. Called after a confirmed successful submission.
func (t *Ticket) Reset() {
	t.CustomerID = nil
	t.Items = t.Items[:0]
	t.Discount = 0
	t.Payments = t.Payments[:0]
}
