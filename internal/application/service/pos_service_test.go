package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/internal/domain/pos"
	infraRepo "github.com/mvcardoso/pdv-api/internal/infrastructure/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/printer"
	"gorm.io/gorm"
)

type posFixture struct {
	db       *gorm.DB
	pos      *POSService
	register *RegisterService
	user     *entity.User
	customer *entity.Customer
	cafe     *entity.Product // 15.00, stock 10
	pao      *entity.Product // 5.00, stock 3
	cash     *entity.PaymentMethod
	credit   *entity.PaymentMethod
}

func newPOSFixture(t *testing.T) *posFixture {
	t.Helper()
	db := setupTestDB(t)
	user := seedUser(t, db)

	customer := &entity.Customer{UserID: user.ID, Name: "João da Silva"}
	if err := db.Create(customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	cafe := &entity.Product{
		UserID:       user.ID,
		Name:         "Café 500g",
		Slug:         "cafe-500g-" + uuid.New().String()[:8],
		Code:         "CAFE-" + uuid.New().String()[:8],
		Quantity:     10,
		SellingPrice: 1500,
		CostPrice:    900,
		Active:       true,
	}
	pao := &entity.Product{
		UserID:       user.ID,
		Name:         "Pão francês",
		Slug:         "pao-frances-" + uuid.New().String()[:8],
		Code:         "PAO-" + uuid.New().String()[:8],
		Quantity:     3,
		SellingPrice: 500,
		CostPrice:    200,
		Active:       true,
	}
	if err := db.Create(cafe).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := db.Create(pao).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}

	cash := &entity.PaymentMethod{Name: "Dinheiro-" + uuid.New().String()[:8], Kind: enum.PaymentKindCash, MaxInstallments: 1, Active: true}
	credit := &entity.PaymentMethod{Name: "Crédito-" + uuid.New().String()[:8], Kind: enum.PaymentKindCredit, MaxInstallments: 12, Active: true}
	if err := db.Create(cash).Error; err != nil {
		t.Fatalf("seed method: %v", err)
	}
	if err := db.Create(credit).Error; err != nil {
		t.Fatalf("seed method: %v", err)
	}

	productRepo := infraRepo.NewProductRepository(db)
	customerRepo := infraRepo.NewCustomerRepository(db)
	methodRepo := infraRepo.NewPaymentMethodRepository(db)
	orderRepo := infraRepo.NewOrderRepository(db)
	settingsRepo := infraRepo.NewSettingsRepository(db)

	registerService := newRegisterService(db)
	orderService := NewOrderService(
		orderRepo,
		infraRepo.NewOrderItemRepository(db),
		infraRepo.NewOrderPaymentRepository(db),
		productRepo,
		customerRepo,
		methodRepo,
		registerService,
	)
	printerService := NewPrinterService(printer.NewNullPrinter(), orderRepo, settingsRepo, "none")
	posService := NewPOSService(productRepo, customerRepo, methodRepo, orderService, registerService, printerService)

	return &posFixture{
		db:       db,
		pos:      posService,
		register: registerService,
		user:     user,
		customer: customer,
		cafe:     cafe,
		pao:      pao,
		cash:     cash,
		credit:   credit,
	}
}

func (f *posFixture) openRegister(t *testing.T, openingCents int64) {
	t.Helper()
	_, err := f.register.OpenSession(context.Background(), &OpenSessionInput{
		UserID:        f.user.ID,
		OpeningAmount: openingCents,
	})
	if err != nil {
		t.Fatalf("open register: %v", err)
	}
}

func TestTicketRequiresOpenRegister(t *testing.T) {
	f := newPOSFixture(t)

	_, err := f.pos.GetTicket(context.Background(), f.user.ID)
	if !errors.Is(err, apperror.ErrRegisterClosed) {
		t.Fatalf("expected ErrRegisterClosed, got %v", err)
	}
}

func TestAddItemAndQuantity(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	view, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, "")
	if err != nil {
		t.Fatalf("add item: %v", err)
	}
	if len(view.Items) != 1 || view.SubTotal != 15.00 {
		t.Fatalf("subtotal = %.2f, want 15.00", view.SubTotal)
	}

	// Re-adding the same product must not duplicate the line
	view, err = f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, "")
	if err != nil {
		t.Fatalf("re-add item: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Items))
	}

	view, err = f.pos.SetItemQuantity(ctx, f.user.ID, 0, 2)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if view.SubTotal != 30.00 {
		t.Fatalf("subtotal = %.2f, want 30.00", view.SubTotal)
	}

	if _, err := f.pos.SetItemQuantity(ctx, f.user.ID, 0, 0); !errors.Is(err, pos.ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := f.pos.SetItemQuantity(ctx, f.user.ID, 5, 1); !errors.Is(err, pos.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestAddItemByCode(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)

	view, err := f.pos.AddItem(context.Background(), f.user.ID, nil, f.pao.Code)
	if err != nil {
		t.Fatalf("add by code: %v", err)
	}
	if len(view.Items) != 1 || view.Items[0].ProductID != f.pao.ID {
		t.Fatal("expected pão line from barcode lookup")
	}
}

func TestCheckoutBlockedUntilPostable(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	// Empty ticket: no customer is the first failing invariant
	_, err := f.pos.Checkout(ctx, f.user.ID)
	var npErr *pos.NotPostableError
	if !errors.As(err, &npErr) || npErr.Reason != pos.ReasonNoCustomer {
		t.Fatalf("expected no_customer, got %v", err)
	}

	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	_, err = f.pos.Checkout(ctx, f.user.ID)
	if !errors.As(err, &npErr) || npErr.Reason != pos.ReasonNoItems {
		t.Fatalf("expected no_items, got %v", err)
	}

	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	_, err = f.pos.Checkout(ctx, f.user.ID)
	if !errors.As(err, &npErr) || npErr.Reason != pos.ReasonNoPayments {
		t.Fatalf("expected no_payments, got %v", err)
	}

	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	view, err := f.pos.SetPaymentAmount(ctx, f.user.ID, 0, 10.00)
	if err != nil {
		t.Fatalf("set payment amount: %v", err)
	}
	if view.BlockedBy != pos.ReasonUnbalanced {
		t.Fatalf("expected unbalanced, got %q", view.BlockedBy)
	}
	_, err = f.pos.Checkout(ctx, f.user.ID)
	if !errors.As(err, &npErr) || npErr.Reason != pos.ReasonUnbalanced {
		t.Fatalf("expected unbalanced, got %v", err)
	}
}

func TestCheckoutCashSale(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 5000)
	ctx := context.Background()

	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.SetItemQuantity(ctx, f.user.ID, 0, 2); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := f.pos.Checkout(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.Order.Total != 3000 {
		t.Fatalf("order total = %d, want 3000", result.Order.Total)
	}
	if result.Order.OrderStatus != enum.OrderStatusComplete {
		t.Fatalf("status = %v, want complete", result.Order.OrderStatus)
	}
	if result.Receipt == nil || result.Receipt.OrderNo != result.Order.OrderNo {
		t.Fatal("expected a receipt for the order")
	}

	// Stock decremented
	var product entity.Product
	if err := f.db.First(&product, "id = ?", f.cafe.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if product.Quantity != 8 {
		t.Fatalf("stock = %d, want 8", product.Quantity)
	}

	// Cash landed in the drawer
	balance, err := f.register.CurrentBalance(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Expected != 8000 {
		t.Fatalf("expected drawer = %d, want 8000", balance.Expected)
	}

	// Ticket reset for the next sale
	view, err := f.pos.GetTicket(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if view.State != pos.StateEmpty {
		t.Fatalf("state after checkout = %q, want empty", view.State)
	}
}

func TestCheckoutSplitPayment(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.pao.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	// Total 20.00: 15.00 cash + 5.00 credit in 2 installments
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add cash payment: %v", err)
	}
	if _, err := f.pos.SetPaymentAmount(ctx, f.user.ID, 0, 15.00); err != nil {
		t.Fatalf("set payment amount: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.credit.ID); err != nil {
		t.Fatalf("add credit payment: %v", err)
	}
	view, err := f.pos.SetPaymentInstallments(ctx, f.user.ID, 1, 2)
	if err != nil {
		t.Fatalf("set installments: %v", err)
	}
	if !view.Postable {
		t.Fatalf("expected postable ticket, blocked by %q", view.BlockedBy)
	}
	if view.Payments[1].Amount != 5.00 || view.Payments[1].InstallmentAmount != 2.50 {
		t.Fatalf("credit allocation = %.2f/%.2f, want 5.00/2.50",
			view.Payments[1].Amount, view.Payments[1].InstallmentAmount)
	}

	result, err := f.pos.Checkout(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if len(result.Order.Payments) != 2 {
		t.Fatalf("expected 2 payment rows, got %d", len(result.Order.Payments))
	}

	// Only the cash slice is in the drawer
	balance, err := f.register.CurrentBalance(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.LedgerSum != 1500 {
		t.Fatalf("ledger sum = %d, want 1500", balance.LedgerSum)
	}
}

func TestCheckoutInsufficientStockKeepsTicket(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.pao.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	// Stock is 3
	if _, err := f.pos.SetItemQuantity(ctx, f.user.ID, 0, 5); err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	_, err := f.pos.Checkout(ctx, f.user.ID)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if apperror.GetAppError(err).Code != 409 {
		t.Fatalf("expected 409, got %d", apperror.GetAppError(err).Code)
	}

	// Stock untouched and ticket preserved for correction
	var product entity.Product
	if err := f.db.First(&product, "id = ?", f.pao.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if product.Quantity != 3 {
		t.Fatalf("stock = %d, want 3", product.Quantity)
	}
	view, err := f.pos.GetTicket(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if len(view.Items) != 1 {
		t.Fatal("expected ticket to survive a failed checkout")
	}
}

func TestUpdatePaymentRejectionLeavesAllocation(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.credit.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	// Credit allows 12 installments at most; the whole update must be rejected
	amount := 10.00
	installments := 24
	_, err := f.pos.UpdatePayment(ctx, f.user.ID, 0, &amount, &installments)
	if !errors.Is(err, pos.ErrInvalidInstallment) {
		t.Fatalf("expected ErrInvalidInstallment, got %v", err)
	}

	view, err := f.pos.GetTicket(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if view.Payments[0].Amount != 15.00 {
		t.Fatalf("amount = %.2f after rejected update, want 15.00", view.Payments[0].Amount)
	}
	if view.Payments[0].InstallmentCount != 1 {
		t.Fatalf("installments = %d after rejected update, want 1", view.Payments[0].InstallmentCount)
	}

	installments = 3
	view, err = f.pos.UpdatePayment(ctx, f.user.ID, 0, &amount, &installments)
	if err != nil {
		t.Fatalf("update payment: %v", err)
	}
	if view.Payments[0].Amount != 10.00 || view.Payments[0].InstallmentCount != 3 {
		t.Fatalf("allocation = %.2f/%dx, want 10.00/3x",
			view.Payments[0].Amount, view.Payments[0].InstallmentCount)
	}
}

func TestAddPaymentWhenCovered(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.pao.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	_, err := f.pos.AddPayment(ctx, f.user.ID, f.credit.ID)
	if !errors.Is(err, pos.ErrPaymentNotNeeded) {
		t.Fatalf("expected ErrPaymentNotNeeded, got %v", err)
	}
}

// funcPrinter lets a test observe what happens while the receipt is printing.
type funcPrinter struct {
	print func(data []byte) error
}

func (p *funcPrinter) Print(data []byte) error { return p.print(data) }
func (p *funcPrinter) Close() error            { return nil }
func (p *funcPrinter) IsConnected() bool       { return true }

func (f *posFixture) fillPostableTicket(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}
}

func TestCheckoutTicketFreeDuringPrint(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()
	f.fillPostableTicket(t)

	// The printer can stall for seconds on a dead network connection, so the
	// ticket must already be committed, reset and unlocked while it runs.
	var stateAtPrint pos.State
	var readErr error
	f.pos.printerService.printer = &funcPrinter{print: func([]byte) error {
		view, err := f.pos.GetTicket(ctx, f.user.ID)
		if err != nil {
			readErr = err
			return nil
		}
		stateAtPrint = view.State
		return nil
	}}

	result, err := f.pos.Checkout(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if result.Receipt == nil {
		t.Fatal("expected a receipt")
	}
	if readErr != nil {
		t.Fatalf("ticket read during print: %v", readErr)
	}
	if stateAtPrint != pos.StateEmpty {
		t.Fatalf("ticket state during print = %q, want empty", stateAtPrint)
	}
}

func TestCheckoutSurvivesPrinterFailure(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()
	f.fillPostableTicket(t)

	f.pos.printerService.printer = &funcPrinter{print: func([]byte) error {
		return errors.New("paper jam")
	}}

	result, err := f.pos.Checkout(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// The sale stays committed and the ticket is reset
	order, err := f.pos.orderService.GetOrder(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if order.OrderStatus != enum.OrderStatusComplete {
		t.Fatalf("status = %v, want complete", order.OrderStatus)
	}
	view, err := f.pos.GetTicket(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("get ticket: %v", err)
	}
	if view.State != pos.StateEmpty {
		t.Fatalf("state after checkout = %q, want empty", view.State)
	}
}

func TestClearTicket(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.SetDiscount(ctx, f.user.ID, 2.50); err != nil {
		t.Fatalf("set discount: %v", err)
	}

	view, err := f.pos.ClearTicket(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("clear ticket: %v", err)
	}
	if view.State != pos.StateEmpty || len(view.Items) != 0 || view.Discount != 0 {
		t.Fatal("expected an empty ticket after clear")
	}
}

func TestCancelOrderRestoresStockAndReversesCash(t *testing.T) {
	f := newPOSFixture(t)
	f.openRegister(t, 0)
	ctx := context.Background()

	if _, err := f.pos.SetCustomer(ctx, f.user.ID, f.customer.ID); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := f.pos.AddItem(ctx, f.user.ID, &f.cafe.ID, ""); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := f.pos.AddPayment(ctx, f.user.ID, f.cash.ID); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	result, err := f.pos.Checkout(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	orderService := f.pos.orderService
	if err := orderService.CancelOrder(ctx, f.user.ID, result.Order.ID, false); err != nil {
		t.Fatalf("cancel order: %v", err)
	}

	var product entity.Product
	if err := f.db.First(&product, "id = ?", f.cafe.ID).Error; err != nil {
		t.Fatalf("reload product: %v", err)
	}
	if product.Quantity != 10 {
		t.Fatalf("stock = %d, want 10 after cancellation", product.Quantity)
	}

	balance, err := f.register.CurrentBalance(ctx, f.user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.LedgerSum != 0 {
		t.Fatalf("ledger sum = %d, want 0 after reversal", balance.LedgerSum)
	}

	cancelled, err := orderService.GetOrder(ctx, result.Order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if cancelled.OrderStatus != enum.OrderStatusCancelled {
		t.Fatalf("status = %v, want cancelled", cancelled.OrderStatus)
	}
}
