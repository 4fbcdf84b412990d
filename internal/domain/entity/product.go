package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product represents a sellable item in the inventory
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	CategoryID    *uuid.UUID     `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Slug          string         `gorm:"size:255;unique;not null" json:"slug"`
	Code          string         `gorm:"size:100;unique;not null" json:"code"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	CostPrice     int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	SellingPrice  int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Active        bool           `gorm:"default:true" json:"active"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice    float64 `json:"cost_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		CostPrice:    float64(p.CostPrice) / 100,
		SellingPrice: float64(p.SellingPrice) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsLowStock reports whether the quantity is at or below the alert threshold
func (p *Product) IsLowStock() bool {
	return p.QuantityAlert > 0 && p.Quantity <= p.QuantityAlert
}

// SetSellingPriceFromDecimal sets the selling price from a decimal value
func (p *Product) SetSellingPriceFromDecimal(price float64) {
	p.SellingPrice = int64(price*100 + 0.5)
}

// SetCostPriceFromDecimal sets the cost price from a decimal value
func (p *Product) SetCostPriceFromDecimal(price float64) {
	p.CostPrice = int64(price*100 + 0.5)
}

// Category represents a product category
type Category struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new category
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Category model
func (Category) TableName() string {
	return "categories"
}
