package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"gorm.io/gorm"
)

// PaymentMethod represents a way a sale can be paid (cash, card, transfer, ...)
// Methods are a store-wide catalog shared by all operators. MaxInstallments
// bounds the installment count a POS payment allocation may use.
type PaymentMethod struct {
	ID              uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Name            string           `gorm:"size:100;unique;not null" json:"name"`
	Kind            enum.PaymentKind `gorm:"default:0" json:"kind"`
	MaxInstallments int              `gorm:"default:1" json:"max_installments"`
	Active          bool             `gorm:"default:true" json:"active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	DeletedAt       gorm.DeletedAt   `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new payment method
func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MaxInstallments < 1 {
		m.MaxInstallments = 1
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
