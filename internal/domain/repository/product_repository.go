package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// ProductFilterParams contains filtering parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	CategoryID *uuid.UUID
	ActiveOnly bool
	LowStock   bool
	SortBy     string
	SortOrder  string
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *ProductFilterParams) ([]entity.Product, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *pagination.CursorParams, search string) ([]entity.Product, error)
	// GetByIDs fetches products in bulk for checkout validation.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	// AdjustStock atomically changes a product's quantity by delta. A negative
	// delta that would drive the quantity below zero must fail.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
	ListLowStock(ctx context.Context, userID uuid.UUID) ([]entity.Product, error)
}

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID) ([]entity.Category, error)
}
