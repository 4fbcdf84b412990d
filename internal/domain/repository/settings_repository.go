package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
)

// SettingsRepository defines the interface for store settings data operations
type SettingsRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*entity.StoreSettings, error)
	Upsert(ctx context.Context, settings *entity.StoreSettings) error
}
