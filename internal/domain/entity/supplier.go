package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supplier represents a product supplier
type Supplier struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string         `gorm:"size:255;not null" json:"name"`
	CompanyName *string        `gorm:"size:255" json:"company_name,omitempty"`
	Email       *string        `gorm:"size:255" json:"email,omitempty"`
	Phone       *string        `gorm:"size:50" json:"phone,omitempty"`
	Document    *string        `gorm:"size:50" json:"document,omitempty"` // CNPJ
	Address     *string        `gorm:"type:text" json:"address,omitempty"`
	City        *string        `gorm:"size:100" json:"city,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID" json:"-"`
	Purchases []Purchase `gorm:"foreignKey:SupplierID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new supplier
func (s *Supplier) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Supplier model
func (Supplier) TableName() string {
	return "suppliers"
}
