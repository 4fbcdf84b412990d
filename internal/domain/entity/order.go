package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"gorm.io/gorm"
)

// Order represents a finalized sale emitted from the POS
type Order struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID            uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"customer_id"`
	RegisterSessionID *uuid.UUID     `gorm:"type:uuid;index" json:"register_session_id,omitempty"`
	OrderDate         time.Time      `gorm:"not null" json:"order_date"`
	OrderStatus       enum.OrderStatus `gorm:"default:0" json:"order_status"`
	OrderNo           string         `gorm:"size:100;unique;not null" json:"order_no"`
	TotalProducts     int            `gorm:"default:0" json:"total_products"`
	SubTotal          int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Discount          int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Total             int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Paid              int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Due               int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	FromRegister      bool           `gorm:"default:false" json:"from_register"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User            `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Session  *RegisterSession `gorm:"foreignKey:RegisterSessionID" json:"-"`
	Items    []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payments []OrderPayment  `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal float64 `json:"sub_total"`
		Discount float64 `json:"discount"`
		Total    float64 `json:"total"`
		Paid     float64 `json:"paid"`
		Due      float64 `json:"due"`
	}{
		Alias:    Alias(o),
		SubTotal: float64(o.SubTotal) / 100,
		Discount: float64(o.Discount) / 100,
		Total:    float64(o.Total) / 100,
		Paid:     float64(o.Paid) / 100,
		Due:      float64(o.Due) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item in an order
type OrderItem struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int            `gorm:"not null" json:"quantity"`
	UnitPrice int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	LineTotal int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order   Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(oi),
		UnitPrice: float64(oi.UnitPrice) / 100,
		LineTotal: float64(oi.LineTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderPayment represents one payment-method slice covering part of an order's total,
// optionally split into installments.
type OrderPayment struct {
	ID                uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	PaymentMethodID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	InstallmentCount  int            `gorm:"default:1" json:"installment_count"`
	Amount            int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	InstallmentAmount int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Order         Order         `gorm:"foreignKey:OrderID" json:"-"`
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (op OrderPayment) MarshalJSON() ([]byte, error) {
	type Alias OrderPayment
	return json.Marshal(&struct {
		Alias
		Amount            float64 `json:"amount"`
		InstallmentAmount float64 `json:"installment_amount"`
	}{
		Alias:             Alias(op),
		Amount:            float64(op.Amount) / 100,
		InstallmentAmount: float64(op.InstallmentAmount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new order payment
func (op *OrderPayment) BeforeCreate(tx *gorm.DB) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderPayment model
func (OrderPayment) TableName() string {
	return "order_payments"
}
