package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"gorm.io/gorm"
)

type purchaseRepository struct {
	db *gorm.DB
}

// NewPurchaseRepository creates a new purchase repository
func NewPurchaseRepository(db *gorm.DB) domainRepo.PurchaseRepository {
	return &purchaseRepository{db: db}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return r.db.WithContext(ctx).Create(purchase).Error
}

func (r *purchaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) GetByReferenceNo(ctx context.Context, referenceNo string) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).First(&purchase, "reference_no = ?", referenceNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

func (r *purchaseRepository) Update(ctx context.Context, purchase *entity.Purchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

func (r *purchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Purchase{}, "id = ?", id).Error
}

func (r *purchaseRepository) List(ctx context.Context, userID uuid.UUID, params *pagination.PaginationParams, search string, status *entity.PurchaseStatus) ([]entity.Purchase, int64, error) {
	var purchases []entity.Purchase
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).Where("user_id = ?", userID)

	if search != "" {
		query = query.Where("reference_no ILIKE ?", "%"+search+"%")
	}

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Supplier").
		Order("purchase_date DESC").
		Find(&purchases).Error

	return purchases, total, err
}

func (r *purchaseRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	var purchase entity.Purchase
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("Items.Product").
		First(&purchase, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &purchase, err
}

type purchaseItemRepository struct {
	db *gorm.DB
}

// NewPurchaseItemRepository creates a new purchase item repository
func NewPurchaseItemRepository(db *gorm.DB) domainRepo.PurchaseItemRepository {
	return &purchaseItemRepository{db: db}
}

func (r *purchaseItemRepository) CreateBatch(ctx context.Context, items []entity.PurchaseItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *purchaseItemRepository) GetByPurchaseID(ctx context.Context, purchaseID uuid.UUID) ([]entity.PurchaseItem, error) {
	var items []entity.PurchaseItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("purchase_id = ?", purchaseID).
		Find(&items).Error
	return items, err
}

func (r *purchaseItemRepository) DeleteByPurchaseID(ctx context.Context, purchaseID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.PurchaseItem{}, "purchase_id = ?", purchaseID).Error
}
