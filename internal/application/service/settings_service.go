package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
)

// SettingsService handles per-user store settings
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// GetSettings returns the user's store settings, falling back to defaults
// when none have been saved yet.
func (s *SettingsService) GetSettings(ctx context.Context, userID uuid.UUID) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return &entity.StoreSettings{
			UserID:       userID,
			StoreName:    "PDV",
			CurrencyCode: "BRL",
		}, nil
	}
	return settings, nil
}

// UpdateSettingsInput represents the update settings input
type UpdateSettingsInput struct {
	UserID        uuid.UUID
	StoreName     *string
	ReceiptHeader *string
	ReceiptFooter *string
	CurrencyCode  *string
}

// UpdateSettings saves the user's store settings, creating them on first use
func (s *SettingsService) UpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*entity.StoreSettings, error) {
	settings, err := s.settingsRepo.GetByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if settings == nil {
		settings = &entity.StoreSettings{
			UserID:       input.UserID,
			CurrencyCode: "BRL",
		}
	}

	if input.StoreName != nil {
		settings.StoreName = *input.StoreName
	}
	if input.ReceiptHeader != nil {
		settings.ReceiptHeader = *input.ReceiptHeader
	}
	if input.ReceiptFooter != nil {
		settings.ReceiptFooter = *input.ReceiptFooter
	}
	if input.CurrencyCode != nil {
		settings.CurrencyCode = *input.CurrencyCode
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	return settings, nil
}
