package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// RegisterService handles cash-register session lifecycle and the cash ledger
type RegisterService struct {
	sessionRepo  repository.RegisterSessionRepository
	movementRepo repository.CashMovementRepository
}

// NewRegisterService creates a new register service
func NewRegisterService(
	sessionRepo repository.RegisterSessionRepository,
	movementRepo repository.CashMovementRepository,
) *RegisterService {
	return &RegisterService{
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
	}
}

// GetCurrentSession returns the user's open session, or nil when the register is closed
func (s *RegisterService) GetCurrentSession(ctx context.Context, userID uuid.UUID) (*entity.RegisterSession, error) {
	return s.sessionRepo.GetOpenByUser(ctx, userID)
}

// RequireOpenSession returns the user's open session or a register-closed error
func (s *RegisterService) RequireOpenSession(ctx context.Context, userID uuid.UUID) (*entity.RegisterSession, error) {
	session, err := s.sessionRepo.GetOpenByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrRegisterClosed
	}
	return session, nil
}

// OpenSessionInput represents the open register input
type OpenSessionInput struct {
	UserID        uuid.UUID
	OpeningAmount int64 // cents counted into the drawer
	Notes         *string
}

// OpenSession opens a new register session. Each operator has at most one
// open session at a time.
func (s *RegisterService) OpenSession(ctx context.Context, input *OpenSessionInput) (*entity.RegisterSession, error) {
	if input.OpeningAmount < 0 {
		return nil, apperror.NewBadRequestError("Opening amount must not be negative")
	}

	existing, err := s.sessionRepo.GetOpenByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A register session is already open")
	}

	session := &entity.RegisterSession{
		UserID:        input.UserID,
		Status:        enum.RegisterStatusOpen,
		OpeningAmount: input.OpeningAmount,
		Notes:         input.Notes,
		OpenedAt:      time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// CloseSessionInput represents the close register input
type CloseSessionInput struct {
	UserID         uuid.UUID
	DeclaredAmount int64 // cents counted out of the drawer by the operator
	Notes          *string
}

// CloseSession closes the user's open session, computing the expected drawer
// amount from the opening float plus the signed sum of the cash ledger, and
// recording the deviation against the operator's declared count.
func (s *RegisterService) CloseSession(ctx context.Context, input *CloseSessionInput) (*entity.RegisterSession, error) {
	if input.DeclaredAmount < 0 {
		return nil, apperror.NewBadRequestError("Declared amount must not be negative")
	}

	session, err := s.sessionRepo.GetOpenByUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrRegisterClosed
	}

	ledger, err := s.movementRepo.SumBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	expected := session.OpeningAmount + ledger
	declared := input.DeclaredAmount
	deviation := declared - expected

	now := time.Now()
	session.Status = enum.RegisterStatusClosed
	session.ExpectedAmount = &expected
	session.DeclaredAmount = &declared
	session.Deviation = &deviation
	session.ClosedAt = &now
	if input.Notes != nil {
		session.Notes = input.Notes
	}

	if err := s.sessionRepo.Update(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// GetSession returns a session with its movement ledger
func (s *RegisterService) GetSession(ctx context.Context, userID, id uuid.UUID, isAdmin bool) (*entity.RegisterSession, error) {
	session, err := s.sessionRepo.GetWithMovements(ctx, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.NewNotFoundError("Register session")
	}
	if !isAdmin && session.UserID != userID {
		return nil, apperror.ErrForbidden
	}
	return session, nil
}

// ListSessions lists the user's sessions, newest first
func (s *RegisterService) ListSessions(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, startDate, endDate *time.Time) (*pagination.PaginatedResult[entity.RegisterSession], error) {
	sessions, total, err := s.sessionRepo.List(ctx, userID, params, startDate, endDate)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(sessions, pag), nil
}

// RecordSaleMovement appends a cash-sale entry to the session ledger.
// Only the cash portion of a sale lands in the drawer.
func (s *RegisterService) RecordSaleMovement(ctx context.Context, sessionID, orderID uuid.UUID, amount int64, orderNo string) error {
	if amount <= 0 {
		return nil
	}
	movement := &entity.CashMovement{
		RegisterSessionID: sessionID,
		Kind:              enum.MovementSale,
		Amount:            amount,
		Description:       fmt.Sprintf("Venda %s", orderNo),
		ReferenceID:       &orderID,
	}
	return s.movementRepo.Create(ctx, movement)
}

// RecordReversal appends a reversing entry for a cancelled sale.
// The original movement is never modified.
func (s *RegisterService) RecordReversal(ctx context.Context, sessionID, orderID uuid.UUID, amount int64, orderNo string) error {
	if amount <= 0 {
		return nil
	}
	movement := &entity.CashMovement{
		RegisterSessionID: sessionID,
		Kind:              enum.MovementReversal,
		Amount:            amount,
		Description:       fmt.Sprintf("Estorno venda %s", orderNo),
		ReferenceID:       &orderID,
	}
	return s.movementRepo.Create(ctx, movement)
}

// ManualMovementInput represents a manual cash in/out input
type ManualMovementInput struct {
	UserID      uuid.UUID
	Amount      int64 // cents, always positive; Out determines direction
	Out         bool
	Description string
}

// AddManualMovement appends a manual cash in/out entry (sangria / suprimento)
// to the user's open session.
func (s *RegisterService) AddManualMovement(ctx context.Context, input *ManualMovementInput) (*entity.CashMovement, error) {
	if input.Amount <= 0 {
		return nil, apperror.NewBadRequestError("Amount must be positive")
	}
	if input.Description == "" {
		return nil, apperror.NewBadRequestError("Description is required")
	}

	session, err := s.RequireOpenSession(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	kind := enum.MovementManualIn
	if input.Out {
		kind = enum.MovementManualOut
	}

	movement := &entity.CashMovement{
		RegisterSessionID: session.ID,
		Kind:              kind,
		Amount:            input.Amount,
		Description:       input.Description,
	}

	if err := s.movementRepo.Create(ctx, movement); err != nil {
		return nil, err
	}

	return movement, nil
}

// ListMovements returns the ledger of the user's open session
func (s *RegisterService) ListMovements(ctx context.Context, userID uuid.UUID) ([]entity.CashMovement, error) {
	session, err := s.RequireOpenSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.movementRepo.ListBySession(ctx, session.ID)
}

// SessionBalance is the derived drawer state of an open session. Amounts are
// cents internally; MarshalJSON converts to decimals like the entity layer.
type SessionBalance struct {
	OpeningAmount int64
	LedgerSum     int64
	Expected      int64
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (b SessionBalance) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]float64{
		"opening_amount": float64(b.OpeningAmount) / 100,
		"ledger_sum":     float64(b.LedgerSum) / 100,
		"expected":       float64(b.Expected) / 100,
	})
}

// CurrentBalance computes the expected drawer amount of the open session
func (s *RegisterService) CurrentBalance(ctx context.Context, userID uuid.UUID) (*SessionBalance, error) {
	session, err := s.RequireOpenSession(ctx, userID)
	if err != nil {
		return nil, err
	}

	ledger, err := s.movementRepo.SumBySession(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	return &SessionBalance{
		OpeningAmount: session.OpeningAmount,
		LedgerSum:     ledger,
		Expected:      session.OpeningAmount + ledger,
	}, nil
}
