package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseStatus represents the approval state of a supplier purchase
type PurchaseStatus int

const (
	PurchaseStatusPending  PurchaseStatus = 0
	PurchaseStatusApproved PurchaseStatus = 1
)

// Purchase represents a restock order placed with a supplier.
// Approving a purchase increments product stock.
type Purchase struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	SupplierID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"supplier_id"`
	PurchaseDate  time.Time      `gorm:"not null" json:"purchase_date"`
	ReferenceNo   string         `gorm:"size:100;unique;not null" json:"reference_no"`
	Status        PurchaseStatus `gorm:"default:0" json:"status"`
	TotalProducts int            `gorm:"default:0" json:"total_products"`
	Total         int64          `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	User     User           `gorm:"foreignKey:UserID" json:"-"`
	Supplier *Supplier      `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
	Items    []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p Purchase) MarshalJSON() ([]byte, error) {
	type Alias Purchase
	return json.Marshal(&struct {
		Alias
		Total float64 `json:"total"`
	}{
		Alias: Alias(p),
		Total: float64(p.Total) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase
func (p *Purchase) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Purchase model
func (Purchase) TableName() string {
	return "purchases"
}

// PurchaseItem represents a line item in a purchase
type PurchaseItem struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	PurchaseID uuid.UUID      `gorm:"type:uuid;not null;index" json:"purchase_id"`
	ProductID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity   int            `gorm:"not null" json:"quantity"`
	UnitCost   int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	LineTotal  int64          `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Purchase Purchase `gorm:"foreignKey:PurchaseID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (pi PurchaseItem) MarshalJSON() ([]byte, error) {
	type Alias PurchaseItem
	return json.Marshal(&struct {
		Alias
		UnitCost  float64 `json:"unit_cost"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(pi),
		UnitCost:  float64(pi.UnitCost) / 100,
		LineTotal: float64(pi.LineTotal) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new purchase item
func (pi *PurchaseItem) BeforeCreate(tx *gorm.DB) error {
	if pi.ID == uuid.Nil {
		pi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PurchaseItem model
func (PurchaseItem) TableName() string {
	return "purchase_items"
}
