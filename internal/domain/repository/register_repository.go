package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// RegisterSessionRepository defines the interface for cash-register session data operations
type RegisterSessionRepository interface {
	Create(ctx context.Context, session *entity.RegisterSession) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error)
	// GetOpenByUser returns the user's currently open session, or nil when the register is closed.
	GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.RegisterSession, error)
	Update(ctx context.Context, session *entity.RegisterSession) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, startDate, endDate *time.Time) ([]entity.RegisterSession, int64, error)
	GetWithMovements(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error)
}

// CashMovementRepository defines the interface for the append-only cash ledger.
// Movements are only ever created; corrections are reversing entries.
type CashMovementRepository interface {
	Create(ctx context.Context, movement *entity.CashMovement) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashMovement, error)
	// SumBySession returns the signed sum of all movements in a session, in cents.
	SumBySession(ctx context.Context, sessionID uuid.UUID) (int64, error)
}
