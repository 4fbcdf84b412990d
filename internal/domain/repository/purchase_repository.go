package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// PurchaseRepository defines the interface for supplier purchase data operations
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
	GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Purchase, error)
	Update(ctx context.Context, purchase *entity.Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, status *entity.PurchaseStatus) ([]entity.Purchase, int64, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)
}

// PurchaseItemRepository defines the interface for purchase item data operations
type PurchaseItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.PurchaseItem) error
	GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) ([]entity.PurchaseItem, error)
	DeleteByPurchaseID(ctx context.Context, purchaseID uuid.UUID) error
}
