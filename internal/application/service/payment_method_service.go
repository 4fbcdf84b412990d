package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
)

// PaymentMethodService handles the store-wide payment method catalog
type PaymentMethodService struct {
	methodRepo repository.PaymentMethodRepository
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(methodRepo repository.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// CreatePaymentMethodInput represents the create payment method input
type CreatePaymentMethodInput struct {
	Name            string
	Kind            string
	MaxInstallments int
}

// CreatePaymentMethod creates a new payment method
func (s *PaymentMethodService) CreatePaymentMethod(ctx context.Context, input *CreatePaymentMethodInput) (*entity.PaymentMethod, error) {
	kind, ok := enum.ParsePaymentKind(input.Kind)
	if !ok {
		return nil, apperror.NewBadRequestError("Invalid payment kind")
	}

	existing, err := s.methodRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Payment method already exists")
	}

	maxInstallments := input.MaxInstallments
	if maxInstallments < 1 {
		maxInstallments = 1
	}

	method := &entity.PaymentMethod{
		Name:            input.Name,
		Kind:            kind,
		MaxInstallments: maxInstallments,
		Active:          true,
	}

	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}

	return method, nil
}

// GetPaymentMethod retrieves a payment method by ID
func (s *PaymentMethodService) GetPaymentMethod(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.NewNotFoundError("Payment method")
	}
	return method, nil
}

// ListPaymentMethods lists payment methods. When activeOnly is set only
// methods selectable at the register are returned.
func (s *PaymentMethodService) ListPaymentMethods(ctx context.Context, activeOnly bool) ([]entity.PaymentMethod, error) {
	return s.methodRepo.List(ctx, activeOnly)
}

// UpdatePaymentMethodInput represents the update payment method input
type UpdatePaymentMethodInput struct {
	ID              uuid.UUID
	Name            *string
	MaxInstallments *int
	Active          *bool
}

// UpdatePaymentMethod updates a payment method
func (s *PaymentMethodService) UpdatePaymentMethod(ctx context.Context, input *UpdatePaymentMethodInput) (*entity.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.NewNotFoundError("Payment method")
	}

	if input.Name != nil && *input.Name != method.Name {
		existing, err := s.methodRepo.GetByName(ctx, *input.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != method.ID {
			return nil, apperror.NewConflictError("Payment method already exists")
		}
		method.Name = *input.Name
	}
	if input.MaxInstallments != nil {
		if *input.MaxInstallments < 1 {
			return nil, apperror.NewBadRequestError("Max installments must be at least 1")
		}
		method.MaxInstallments = *input.MaxInstallments
	}
	if input.Active != nil {
		method.Active = *input.Active
	}

	if err := s.methodRepo.Update(ctx, method); err != nil {
		return nil, err
	}

	return method, nil
}

// DeletePaymentMethod soft-deletes a payment method. Historical order
// payments keep their reference.
func (s *PaymentMethodService) DeletePaymentMethod(ctx context.Context, id uuid.UUID) error {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if method == nil {
		return apperror.NewNotFoundError("Payment method")
	}
	return s.methodRepo.Delete(ctx, id)
}
