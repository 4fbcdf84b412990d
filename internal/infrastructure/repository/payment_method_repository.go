package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"gorm.io/gorm"
)

type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) domainRepo.PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(ctx context.Context, method *entity.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *paymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &method, err
}

func (r *paymentMethodRepository) GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &method, err
}

func (r *paymentMethodRepository) Update(ctx context.Context, method *entity.PaymentMethod) error {
	return r.db.WithContext(ctx).Save(method).Error
}

func (r *paymentMethodRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PaymentMethod{}, "id = ?", id).Error
}

func (r *paymentMethodRepository) List(ctx context.Context, activeOnly bool) ([]entity.PaymentMethod, error) {
	var methods []entity.PaymentMethod
	query := r.db.WithContext(ctx).Model(&entity.PaymentMethod{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Order("name ASC").Find(&methods).Error
	return methods, err
}
