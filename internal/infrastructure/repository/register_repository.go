package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"gorm.io/gorm"
)

type registerSessionRepository struct {
	db *gorm.DB
}

// NewRegisterSessionRepository creates a new register session repository
func NewRegisterSessionRepository(db *gorm.DB) domainRepo.RegisterSessionRepository {
	return &registerSessionRepository{db: db}
}

func (r *registerSessionRepository) Create(ctx context.Context, session *entity.RegisterSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *registerSessionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *registerSessionRepository) GetOpenByUser(ctx context.Context, userID uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, enum.RegisterStatusOpen).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

func (r *registerSessionRepository) Update(ctx context.Context, session *entity.RegisterSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *registerSessionRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, startDate, endDate *time.Time) ([]entity.RegisterSession, int64, error) {
	var sessions []entity.RegisterSession
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.RegisterSession{}).Where("user_id = ?", userID)

	if startDate != nil {
		query = query.Where("opened_at >= ?", *startDate)
	}

	if endDate != nil {
		query = query.Where("opened_at <= ?", *endDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("opened_at DESC").
		Find(&sessions).Error

	return sessions, total, err
}

func (r *registerSessionRepository) GetWithMovements(ctx context.Context, id uuid.UUID) (*entity.RegisterSession, error) {
	var session entity.RegisterSession
	err := r.db.WithContext(ctx).
		Preload("Movements", func(db *gorm.DB) *gorm.DB {
			return db.Order("cash_movements.created_at ASC")
		}).
		First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &session, err
}

type cashMovementRepository struct {
	db *gorm.DB
}

// NewCashMovementRepository creates a new cash movement repository
func NewCashMovementRepository(db *gorm.DB) domainRepo.CashMovementRepository {
	return &cashMovementRepository{db: db}
}

func (r *cashMovementRepository) Create(ctx context.Context, movement *entity.CashMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *cashMovementRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.CashMovement, error) {
	var movements []entity.CashMovement
	err := r.db.WithContext(ctx).
		Where("register_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

// SumBySession folds the ledger in the application rather than SQL so the
// kind-dependent sign convention lives in exactly one place (MovementKind.Sign).
func (r *cashMovementRepository) SumBySession(ctx context.Context, sessionID uuid.UUID) (int64, error) {
	movements, err := r.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var sum int64
	for i := range movements {
		sum += movements[i].SignedAmount()
	}
	return sum, nil
}
