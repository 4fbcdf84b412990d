package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
)

// PaymentMethodRepository defines the interface for payment method data operations
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entity.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error)
	Update(ctx context.Context, method *entity.PaymentMethod) error
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns payment methods; activeOnly narrows to methods selectable at the PDV.
	List(ctx context.Context, activeOnly bool) ([]entity.PaymentMethod, error)
}
