package pos

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func newTestTicket(t *testing.T) *Ticket {
	t.Helper()
	ticket, err := NewTicket(uuid.New())
	if err != nil {
		t.Fatalf("NewTicket() error = %v", err)
	}
	return ticket
}

func testProduct(priceCents int64) CatalogProduct {
	return CatalogProduct{ID: uuid.New(), Name: "Produto Teste", UnitPrice: priceCents}
}

func testMethod(maxInstallments int) Method {
	return Method{ID: uuid.New(), Name: "Cartão", MaxInstallments: maxInstallments}
}

func TestNewTicketRequiresRegisterSession(t *testing.T) {
	if _, err := NewTicket(uuid.Nil); !errors.Is(err, ErrRegisterRequired) {
		t.Fatalf("NewTicket(uuid.Nil) error = %v, want ErrRegisterRequired", err)
	}
}

func TestSubtotalTracksItems(t *testing.T) {
	ticket := newTestTicket(t)

	ticket.AddLineItem(testProduct(1000))
	ticket.AddLineItem(testProduct(250))
	if got := ticket.Subtotal(); got != 1250 {
		t.Fatalf("Subtotal() = %d, want 1250", got)
	}

	if err := ticket.SetLineItemQuantity(0, 3); err != nil {
		t.Fatalf("SetLineItemQuantity() error = %v", err)
	}
	if got := ticket.Subtotal(); got != 3250 {
		t.Fatalf("Subtotal() after quantity change = %d, want 3250", got)
	}
	if got := ticket.Items[0].LineTotal; got != 3000 {
		t.Fatalf("LineTotal = %d, want 3000", got)
	}

	if err := ticket.RemoveLineItem(1); err != nil {
		t.Fatalf("RemoveLineItem() error = %v", err)
	}
	if got := ticket.Subtotal(); got != 3000 {
		t.Fatalf("Subtotal() after removal = %d, want 3000", got)
	}
}

func TestAddLineItemIsIdempotentPerProduct(t *testing.T) {
	ticket := newTestTicket(t)
	product := testProduct(500)

	first := ticket.AddLineItem(product)
	if err := ticket.SetLineItemQuantity(0, 4); err != nil {
		t.Fatalf("SetLineItemQuantity() error = %v", err)
	}
	second := ticket.AddLineItem(product)

	if len(ticket.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(ticket.Items))
	}
	if second.Quantity != 4 {
		t.Fatalf("re-adding product reset quantity to %d, want 4", second.Quantity)
	}
	if first.ProductID != second.ProductID {
		t.Fatalf("re-adding product returned a different line")
	}
}

func TestSetLineItemQuantityRejectsNonPositive(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))

	for _, qty := range []int{0, -1} {
		if err := ticket.SetLineItemQuantity(0, qty); !errors.Is(err, ErrInvalidQuantity) {
			t.Fatalf("SetLineItemQuantity(0, %d) error = %v, want ErrInvalidQuantity", qty, err)
		}
	}
	if ticket.Items[0].Quantity != 1 {
		t.Fatalf("rejected quantity mutated the line: quantity = %d", ticket.Items[0].Quantity)
	}
}

func TestIndexOutOfRangeIsExplicit(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))

	if err := ticket.RemoveLineItem(5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("RemoveLineItem(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := ticket.SetLineItemQuantity(-1, 2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("SetLineItemQuantity(-1, 2) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := ticket.RemovePayment(0); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("RemovePayment(0) error = %v, want ErrIndexOutOfRange", err)
	}
	if err := ticket.SetPaymentAmount(0, 100); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("SetPaymentAmount(0, 100) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestTotalAllowsDiscountBeyondSubtotal(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))

	if err := ticket.SetDiscount(1500); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if got := ticket.Total(); got != -500 {
		t.Fatalf("Total() = %d, want -500 (un-clamped)", got)
	}

	if err := ticket.SetDiscount(-1); !errors.Is(err, ErrInvalidDiscount) {
		t.Fatalf("SetDiscount(-1) error = %v, want ErrInvalidDiscount", err)
	}
}

func TestAddPaymentDefaultsToRemaining(t *testing.T) {
	ticket := newTestTicket(t)
	product := testProduct(1000)
	ticket.AddLineItem(product)
	if err := ticket.SetLineItemQuantity(0, 2); err != nil {
		t.Fatalf("SetLineItemQuantity() error = %v", err)
	}

	alloc, err := ticket.AddPayment(testMethod(3))
	if err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if alloc.Amount != 2000 {
		t.Fatalf("allocation amount = %d, want 2000", alloc.Amount)
	}
	if alloc.InstallmentCount != 1 {
		t.Fatalf("installment count = %d, want 1", alloc.InstallmentCount)
	}
	if got := ticket.Remaining(); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}

	ticket.SetCustomer(uuid.New())
	if !ticket.IsPostable() {
		t.Fatalf("IsPostable() = false, want true")
	}
}

func TestAddPaymentRejectedWhenNothingRemains(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))
	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	if _, err := ticket.AddPayment(testMethod(1)); !errors.Is(err, ErrPaymentNotNeeded) {
		t.Fatalf("AddPayment() on covered ticket error = %v, want ErrPaymentNotNeeded", err)
	}
	if len(ticket.Payments) != 1 {
		t.Fatalf("rejected payment mutated state: len(Payments) = %d", len(ticket.Payments))
	}

	// Empty ticket has remaining 0, so a payment is also not needed.
	empty := newTestTicket(t)
	if _, err := empty.AddPayment(testMethod(1)); !errors.Is(err, ErrPaymentNotNeeded) {
		t.Fatalf("AddPayment() on empty ticket error = %v, want ErrPaymentNotNeeded", err)
	}
}

func TestSplitPaymentScenario(t *testing.T) {
	// Two units at 10.00 with a 5.00 discount, split 10.00 + 5.00.
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))
	if err := ticket.SetLineItemQuantity(0, 2); err != nil {
		t.Fatalf("SetLineItemQuantity() error = %v", err)
	}
	if err := ticket.SetDiscount(500); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if got := ticket.Total(); got != 1500 {
		t.Fatalf("Total() = %d, want 1500", got)
	}

	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if err := ticket.SetPaymentAmount(0, 1000); err != nil {
		t.Fatalf("SetPaymentAmount() error = %v", err)
	}
	if got := ticket.Remaining(); got != 500 {
		t.Fatalf("Remaining() after partial payment = %d, want 500", got)
	}
	if ticket.IsPostable() {
		t.Fatalf("IsPostable() = true with 5.00 outstanding")
	}

	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() second method error = %v", err)
	}
	if got := ticket.Remaining(); got != 0 {
		t.Fatalf("Remaining() = %d, want 0", got)
	}

	ticket.SetCustomer(uuid.New())
	if !ticket.IsPostable() {
		t.Fatalf("IsPostable() = false, want true")
	}
}

func TestSetPaymentAmountIsUncapped(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))
	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	// Over-allocation is allowed at edit time; postability is the gate.
	if err := ticket.SetPaymentAmount(0, 5000); err != nil {
		t.Fatalf("SetPaymentAmount(0, 5000) error = %v", err)
	}
	if got := ticket.Remaining(); got != -4000 {
		t.Fatalf("Remaining() = %d, want -4000", got)
	}
	ticket.SetCustomer(uuid.New())
	if ticket.IsPostable() {
		t.Fatalf("IsPostable() = true on over-allocated ticket")
	}

	if err := ticket.SetPaymentAmount(0, -1); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("SetPaymentAmount(0, -1) error = %v, want ErrInvalidAmount", err)
	}
}

func TestSetPaymentInstallmentsBounds(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(30000))
	alloc, err := ticket.AddPayment(testMethod(12))
	if err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	if err := ticket.SetPaymentInstallments(0, 3); err != nil {
		t.Fatalf("SetPaymentInstallments(0, 3) error = %v", err)
	}
	if got := alloc.InstallmentAmount(); got != 10000 {
		t.Fatalf("InstallmentAmount() = %d, want 10000", got)
	}

	if err := ticket.SetPaymentInstallments(0, 0); !errors.Is(err, ErrInvalidInstallment) {
		t.Fatalf("SetPaymentInstallments(0, 0) error = %v, want ErrInvalidInstallment", err)
	}
	if err := ticket.SetPaymentInstallments(0, 13); !errors.Is(err, ErrInvalidInstallment) {
		t.Fatalf("SetPaymentInstallments(0, 13) error = %v, want ErrInvalidInstallment", err)
	}
}

func TestUpdatePaymentIsAllOrNothing(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(30000))
	if _, err := ticket.AddPayment(testMethod(12)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	// A rejected installment count must not apply the amount either
	amount := int64(10000)
	installments := 13
	if err := ticket.UpdatePayment(0, &amount, &installments); !errors.Is(err, ErrInvalidInstallment) {
		t.Fatalf("UpdatePayment() error = %v, want ErrInvalidInstallment", err)
	}
	if got := ticket.Payments[0].Amount; got != 30000 {
		t.Fatalf("Amount = %d after rejected update, want 30000", got)
	}
	if got := ticket.Payments[0].InstallmentCount; got != 1 {
		t.Fatalf("InstallmentCount = %d after rejected update, want 1", got)
	}

	// And a rejected amount must not apply the installment count
	amount = -1
	installments = 3
	if err := ticket.UpdatePayment(0, &amount, &installments); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("UpdatePayment() error = %v, want ErrInvalidAmount", err)
	}
	if got := ticket.Payments[0].InstallmentCount; got != 1 {
		t.Fatalf("InstallmentCount = %d after rejected update, want 1", got)
	}

	amount = 10000
	if err := ticket.UpdatePayment(0, &amount, &installments); err != nil {
		t.Fatalf("UpdatePayment() error = %v", err)
	}
	if ticket.Payments[0].Amount != 10000 || ticket.Payments[0].InstallmentCount != 3 {
		t.Fatalf("allocation = %d/%dx, want 10000/3x",
			ticket.Payments[0].Amount, ticket.Payments[0].InstallmentCount)
	}

	if err := ticket.UpdatePayment(5, &amount, nil); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("UpdatePayment(5) error = %v, want ErrIndexOutOfRange", err)
	}
}

func TestPostabilityReportsFirstFailingInvariant(t *testing.T) {
	ticket := newTestTicket(t)

	assertReason := func(want PostabilityReason) {
		t.Helper()
		err := ticket.Postability()
		var npe *NotPostableError
		if !errors.As(err, &npe) {
			t.Fatalf("Postability() = %v, want NotPostableError", err)
		}
		if npe.Reason != want {
			t.Fatalf("Postability() reason = %s, want %s", npe.Reason, want)
		}
	}

	assertReason(ReasonNoCustomer)

	ticket.SetCustomer(uuid.New())
	assertReason(ReasonNoItems)

	ticket.AddLineItem(testProduct(1000))
	assertReason(ReasonNoPayments)

	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if err := ticket.SetPaymentAmount(0, 700); err != nil {
		t.Fatalf("SetPaymentAmount() error = %v", err)
	}
	assertReason(ReasonUnbalanced)

	if err := ticket.SetPaymentAmount(0, 1000); err != nil {
		t.Fatalf("SetPaymentAmount() error = %v", err)
	}
	if err := ticket.Postability(); err != nil {
		t.Fatalf("Postability() on balanced ticket = %v, want nil", err)
	}
}

func TestPostabilityToleratesOneCent(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.SetCustomer(uuid.New())
	ticket.AddLineItem(testProduct(1001))
	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	for _, tc := range []struct {
		amount   int64
		postable bool
	}{
		{1000, true},  // one cent under
		{1002, true},  // one cent over
		{999, false},  // two cents under
		{1003, false}, // two cents over
	} {
		if err := ticket.SetPaymentAmount(0, tc.amount); err != nil {
			t.Fatalf("SetPaymentAmount(0, %d) error = %v", tc.amount, err)
		}
		if got := ticket.IsPostable(); got != tc.postable {
			t.Fatalf("IsPostable() with amount %d = %v, want %v", tc.amount, got, tc.postable)
		}
	}
}

func TestToOrderRequestMapsTicket(t *testing.T) {
	sessionID := uuid.New()
	ticket, err := NewTicket(sessionID)
	if err != nil {
		t.Fatalf("NewTicket() error = %v", err)
	}
	customerID := uuid.New()
	ticket.SetCustomer(customerID)

	productA := testProduct(1000)
	productB := testProduct(350)
	ticket.AddLineItem(productA)
	ticket.AddLineItem(productB)
	if err := ticket.SetLineItemQuantity(0, 2); err != nil {
		t.Fatalf("SetLineItemQuantity() error = %v", err)
	}
	if err := ticket.SetDiscount(350); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if _, err := ticket.AddPayment(testMethod(4)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if err := ticket.SetPaymentInstallments(0, 2); err != nil {
		t.Fatalf("SetPaymentInstallments() error = %v", err)
	}

	req, err := ticket.ToOrderRequest()
	if err != nil {
		t.Fatalf("ToOrderRequest() error = %v", err)
	}
	if req.CustomerID != customerID {
		t.Fatalf("CustomerID = %s, want %s", req.CustomerID, customerID)
	}
	if req.RegisterSessionID != sessionID {
		t.Fatalf("RegisterSessionID = %s, want %s", req.RegisterSessionID, sessionID)
	}
	if req.SubTotal != 2350 || req.Discount != 350 || req.Total != 2000 {
		t.Fatalf("totals = %d/%d/%d, want 2350/350/2000", req.SubTotal, req.Discount, req.Total)
	}
	if req.TotalProducts != 3 {
		t.Fatalf("TotalProducts = %d, want 3", req.TotalProducts)
	}
	if !req.FromRegister {
		t.Fatalf("FromRegister = false, want true")
	}
	if len(req.Items) != 2 {
		t.Fatalf("len(Items) = %d, want 2", len(req.Items))
	}
	if req.Items[0].ProductID != productA.ID || req.Items[0].LineTotal != 2000 {
		t.Fatalf("first order line = %+v", req.Items[0])
	}
	if len(req.Payments) != 1 {
		t.Fatalf("len(Payments) = %d, want 1", len(req.Payments))
	}
	p := req.Payments[0]
	if p.Amount != 2000 || p.InstallmentCount != 2 || p.InstallmentAmount != 1000 {
		t.Fatalf("payment record = %+v", p)
	}
}

func TestToOrderRequestFailsWhenNotPostable(t *testing.T) {
	ticket := newTestTicket(t)
	ticket.AddLineItem(testProduct(1000))

	req, err := ticket.ToOrderRequest()
	if req != nil {
		t.Fatalf("ToOrderRequest() returned payload on non-postable ticket")
	}
	var npe *NotPostableError
	if !errors.As(err, &npe) {
		t.Fatalf("ToOrderRequest() error = %v, want NotPostableError", err)
	}
}

func TestResetYieldsEmptyTicket(t *testing.T) {
	sessionID := uuid.New()
	ticket, err := NewTicket(sessionID)
	if err != nil {
		t.Fatalf("NewTicket() error = %v", err)
	}
	ticket.SetCustomer(uuid.New())
	ticket.AddLineItem(testProduct(1000))
	if err := ticket.SetDiscount(100); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}

	ticket.Reset()

	if len(ticket.Items) != 0 || len(ticket.Payments) != 0 || ticket.Discount != 0 || ticket.CustomerID != nil {
		t.Fatalf("Reset() left residual state: %+v", ticket)
	}
	if ticket.RegisterSessionID != sessionID {
		t.Fatalf("Reset() dropped register session binding")
	}
	if got := ticket.State(); got != StateEmpty {
		t.Fatalf("State() after reset = %s, want %s", got, StateEmpty)
	}
}

func TestStateDerivation(t *testing.T) {
	ticket := newTestTicket(t)
	if got := ticket.State(); got != StateEmpty {
		t.Fatalf("State() = %s, want %s", got, StateEmpty)
	}

	ticket.AddLineItem(testProduct(1000))
	if got := ticket.State(); got != StateBuilding {
		t.Fatalf("State() = %s, want %s", got, StateBuilding)
	}

	ticket.SetCustomer(uuid.New())
	if _, err := ticket.AddPayment(testMethod(1)); err != nil {
		t.Fatalf("AddPayment() error = %v", err)
	}
	if got := ticket.State(); got != StateBalanced {
		t.Fatalf("State() = %s, want %s", got, StateBalanced)
	}
}
