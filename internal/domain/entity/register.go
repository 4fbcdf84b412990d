package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"gorm.io/gorm"
)

// RegisterSession represents one open/close period of the cash register (caixa).
// Sales can only be emitted while a session is open; each operator has at most
// one open session at a time.
type RegisterSession struct {
	ID             uuid.UUID           `gorm:"type:uuid;primary_key" json:"id"`
	UserID         uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	Status         enum.RegisterStatus `gorm:"default:0" json:"status"`
	OpeningAmount  int64               `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ExpectedAmount *int64              `json:"-"`                  // Computed on close: opening + cash movements
	DeclaredAmount *int64              `json:"-"`                  // Counted by the operator on close
	Deviation      *int64              `json:"-"`                  // declared - expected
	Notes          *string             `gorm:"type:text" json:"notes,omitempty"`
	OpenedAt       time.Time           `json:"opened_at"`
	ClosedAt       *time.Time          `json:"closed_at,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	DeletedAt      gorm.DeletedAt      `gorm:"index" json:"-"`

	// Relationships
	User      User           `gorm:"foreignKey:UserID" json:"-"`
	Movements []CashMovement `gorm:"foreignKey:RegisterSessionID" json:"movements,omitempty"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s RegisterSession) MarshalJSON() ([]byte, error) {
	type Alias RegisterSession
	centsPtr := func(v *int64) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v) / 100
		return &f
	}
	return json.Marshal(&struct {
		Alias
		OpeningAmount  float64  `json:"opening_amount"`
		ExpectedAmount *float64 `json:"expected_amount,omitempty"`
		DeclaredAmount *float64 `json:"declared_amount,omitempty"`
		Deviation      *float64 `json:"deviation,omitempty"`
	}{
		Alias:          Alias(s),
		OpeningAmount:  float64(s.OpeningAmount) / 100,
		ExpectedAmount: centsPtr(s.ExpectedAmount),
		DeclaredAmount: centsPtr(s.DeclaredAmount),
		Deviation:      centsPtr(s.Deviation),
	})
}

// BeforeCreate generates a UUID before creating a new session
func (s *RegisterSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RegisterSession model
func (RegisterSession) TableName() string {
	return "register_sessions"
}

// IsOpen reports whether the session is still open
func (s *RegisterSession) IsOpen() bool {
	return s.Status == enum.RegisterStatusOpen
}

// CashMovement is an append-only entry in the register's cash ledger.
// Movements are never modified or deleted; cancellations create reversing entries.
type CashMovement struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	RegisterSessionID uuid.UUID         `gorm:"type:uuid;not null;index" json:"register_session_id"`
	Kind              enum.MovementKind `gorm:"size:20;not null" json:"kind"`
	Amount            int64             `gorm:"not null" json:"-"` // Stored in cents, always positive; Kind carries the sign
	Description       string            `gorm:"size:255;not null" json:"description"`
	ReferenceID       *uuid.UUID        `gorm:"type:uuid" json:"reference_id,omitempty"` // Originating order, if any
	CreatedAt         time.Time         `json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (m CashMovement) MarshalJSON() ([]byte, error) {
	type Alias CashMovement
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(m),
		Amount: float64(m.Amount) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new movement
func (m *CashMovement) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the CashMovement model
func (CashMovement) TableName() string {
	return "cash_movements"
}

// SignedAmount returns the amount with the sign implied by the movement kind
func (m *CashMovement) SignedAmount() int64 {
	return m.Kind.Sign() * m.Amount
}
