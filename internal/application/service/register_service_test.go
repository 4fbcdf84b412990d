package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	infraRepo "github.com/mvcardoso/pdv-api/internal/infrastructure/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&entity.User{},
		&entity.Customer{},
		&entity.Category{},
		&entity.Product{},
		&entity.PaymentMethod{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderPayment{},
		&entity.RegisterSession{},
		&entity.CashMovement{},
		&entity.StoreSettings{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedUser(t *testing.T, db *gorm.DB) *entity.User {
	t.Helper()
	user := &entity.User{
		FirstName: "Maria",
		Username:  "maria" + uuid.New().String()[:8],
		Email:     uuid.New().String()[:8] + "@example.com",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func newRegisterService(db *gorm.DB) *RegisterService {
	return NewRegisterService(
		infraRepo.NewRegisterSessionRepository(db),
		infraRepo.NewCashMovementRepository(db),
	)
}

func TestOpenSessionRejectsNegativeOpening(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)

	_, err := svc.OpenSession(context.Background(), &OpenSessionInput{
		UserID:        user.ID,
		OpeningAmount: -100,
	})
	if err == nil {
		t.Fatal("expected error for negative opening amount")
	}
}

func TestOpenSessionConflictWhenAlreadyOpen(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 10000}); err != nil {
		t.Fatalf("open session: %v", err)
	}

	_, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 5000})
	if err == nil {
		t.Fatal("expected conflict for second open session")
	}
	if apperror.GetAppError(err).Code != 409 {
		t.Fatalf("expected 409, got %d", apperror.GetAppError(err).Code)
	}
}

func TestRequireOpenSessionWhenClosed(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)

	_, err := svc.RequireOpenSession(context.Background(), user.ID)
	if !errors.Is(err, apperror.ErrRegisterClosed) {
		t.Fatalf("expected ErrRegisterClosed, got %v", err)
	}
}

func TestCloseSessionComputesDeviation(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 10000})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	// +50.00 cash sale, -20.00 sangria
	orderID := uuid.New()
	if err := svc.RecordSaleMovement(ctx, session.ID, orderID, 5000, "PED-0001"); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if _, err := svc.AddManualMovement(ctx, &ManualMovementInput{
		UserID:      user.ID,
		Amount:      2000,
		Out:         true,
		Description: "Sangria",
	}); err != nil {
		t.Fatalf("manual out: %v", err)
	}

	closed, err := svc.CloseSession(ctx, &CloseSessionInput{UserID: user.ID, DeclaredAmount: 12500})
	if err != nil {
		t.Fatalf("close session: %v", err)
	}

	if closed.ExpectedAmount == nil || *closed.ExpectedAmount != 13000 {
		t.Fatalf("expected amount = 13000, got %v", closed.ExpectedAmount)
	}
	if closed.Deviation == nil || *closed.Deviation != -500 {
		t.Fatalf("deviation = -500, got %v", closed.Deviation)
	}
	if closed.Status != enum.RegisterStatusClosed {
		t.Fatalf("expected closed status, got %v", closed.Status)
	}
	if closed.ClosedAt == nil {
		t.Fatal("expected ClosedAt to be set")
	}
}

func TestReversalOffsetsSaleInLedger(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 0})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	orderID := uuid.New()
	if err := svc.RecordSaleMovement(ctx, session.ID, orderID, 4200, "PED-0002"); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if err := svc.RecordReversal(ctx, session.ID, orderID, 4200, "PED-0002"); err != nil {
		t.Fatalf("record reversal: %v", err)
	}

	balance, err := svc.CurrentBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.LedgerSum != 0 {
		t.Fatalf("ledger sum after reversal = %d, want 0", balance.LedgerSum)
	}

	movements, err := svc.ListMovements(ctx, user.ID)
	if err != nil {
		t.Fatalf("list movements: %v", err)
	}
	if len(movements) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(movements))
	}
}

func TestRecordSaleMovementIgnoresNonCashSales(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)
	ctx := context.Background()

	session, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 1000})
	if err != nil {
		t.Fatalf("open session: %v", err)
	}

	// A sale paid entirely by card has no cash portion
	if err := svc.RecordSaleMovement(ctx, session.ID, uuid.New(), 0, "PED-0003"); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	balance, err := svc.CurrentBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.LedgerSum != 0 {
		t.Fatalf("ledger sum = %d, want 0", balance.LedgerSum)
	}
	if balance.Expected != 1000 {
		t.Fatalf("expected = %d, want 1000", balance.Expected)
	}
}

func TestAddManualMovementValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := newRegisterService(db)
	user := seedUser(t, db)
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, &OpenSessionInput{UserID: user.ID, OpeningAmount: 0}); err != nil {
		t.Fatalf("open session: %v", err)
	}

	if _, err := svc.AddManualMovement(ctx, &ManualMovementInput{UserID: user.ID, Amount: 0, Description: "x"}); err == nil {
		t.Fatal("expected error for non-positive amount")
	}
	if _, err := svc.AddManualMovement(ctx, &ManualMovementInput{UserID: user.ID, Amount: 100}); err == nil {
		t.Fatal("expected error for missing description")
	}
}
