package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StoreSettings holds per-user store configuration used for receipts and display
type StoreSettings struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	StoreName     string         `gorm:"size:255" json:"store_name"`
	ReceiptHeader string         `gorm:"size:255" json:"receipt_header"`
	ReceiptFooter string         `gorm:"size:255" json:"receipt_footer"`
	CurrencyCode  string         `gorm:"size:10;default:'BRL'" json:"currency_code"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates a UUID before creating new settings
func (s *StoreSettings) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StoreSettings model
func (StoreSettings) TableName() string {
	return "store_settings"
}
