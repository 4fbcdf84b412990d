package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination        *pagination.PaginationParams
	Search            string
	Status            *enum.OrderStatus
	CustomerID        *uuid.UUID
	RegisterSessionID *uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
	SortBy            string
	SortOrder         string
}

// OrderCursorFilterParams contains cursor-based filtering for order queries
type OrderCursorFilterParams struct {
	Cursor            *pagination.CursorParams
	Search            string
	Status            *enum.OrderStatus
	CustomerID        *uuid.UUID
	RegisterSessionID *uuid.UUID
	StartDate         *time.Time
	EndDate           *time.Time
}

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, params *OrderFilterParams) ([]entity.Order, int64, error)
	ListWithCursor(ctx context.Context, userID uuid.UUID, params *OrderCursorFilterParams) ([]entity.Order, error)
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Order, error)
}

// OrderItemRepository defines the interface for order item data operations
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}

// OrderPaymentRepository defines the interface for order payment data operations
type OrderPaymentRepository interface {
	CreateBatch(ctx context.Context, payments []entity.OrderPayment) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderPayment, error)
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}
