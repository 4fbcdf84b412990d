package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).First(&order, "order_no = ?", orderNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) Update(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Order{}, "id = ?", id).Error
}

func (r *orderRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.OrderFilterParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("order_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("order_status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.RegisterSessionID != nil {
		query = query.Where("register_session_id = ?", *params.RegisterSessionID)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sorting
	sortBy := "created_at"
	sortOrder := "DESC"
	if params.SortBy != "" {
		sortBy = params.SortBy
	}
	if params.SortOrder == "ASC" || params.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order(sortBy + " " + sortOrder).
		Find(&orders).Error

	return orders, total, err
}

// ListWithCursor returns orders using cursor-based pagination
func (r *orderRepository) ListWithCursor(ctx context.Context, userID uuid.UUID, params *domainRepo.OrderCursorFilterParams) ([]entity.Order, error) {
	var orders []entity.Order

	params.Cursor.Validate()
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if params.Search != "" {
		query = query.Where("order_no ILIKE ?", "%"+params.Search+"%")
	}

	if params.Status != nil {
		query = query.Where("order_status = ?", *params.Status)
	}

	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if params.RegisterSessionID != nil {
		query = query.Where("register_session_id = ?", *params.RegisterSessionID)
	}

	if params.StartDate != nil {
		query = query.Where("order_date >= ?", *params.StartDate)
	}

	if params.EndDate != nil {
		query = query.Where("order_date <= ?", *params.EndDate)
	}

	cursor, err := params.Cursor.DecodeCursor()
	if err != nil {
		return nil, err
	}

	if cursor != nil {
		if params.Cursor.Direction == pagination.CursorDirectionNext {
			query = query.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
		} else {
			query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
		}
	}

	err = query.Limit(params.Cursor.Limit + 1).
		Preload("Customer").
		Order("created_at ASC, id ASC").
		Find(&orders).Error

	return orders, err
}

func (r *orderRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items.Product").
		Preload("Items.Product.Category").
		Preload("Payments.PaymentMethod").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.OrderStatus) error {
	return r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("order_status", status).Error
}

func (r *orderRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]entity.Order, error) {
	var orders []entity.Order
	err := r.db.WithContext(ctx).
		Where("register_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

func (r *orderItemRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.OrderItem{}, "order_id = ?", orderID).Error
}

type orderPaymentRepository struct {
	db *gorm.DB
}

// NewOrderPaymentRepository creates a new order payment repository
func NewOrderPaymentRepository(db *gorm.DB) domainRepo.OrderPaymentRepository {
	return &orderPaymentRepository{db: db}
}

func (r *orderPaymentRepository) CreateBatch(ctx context.Context, payments []entity.OrderPayment) error {
	return r.db.WithContext(ctx).Create(&payments).Error
}

func (r *orderPaymentRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderPayment, error) {
	var payments []entity.OrderPayment
	err := r.db.WithContext(ctx).
		Preload("PaymentMethod").
		Where("order_id = ?", orderID).
		Find(&payments).Error
	return payments, err
}

func (r *orderPaymentRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.OrderPayment{}, "order_id = ?", orderID).Error
}
