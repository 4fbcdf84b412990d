package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an operator or administrator of the store
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FirstName    string         `gorm:"size:100;not null" json:"first_name"`
	LastName     string         `gorm:"size:100" json:"last_name"`
	Username     string         `gorm:"size:100;unique" json:"username"`
	Email        string         `gorm:"size:255;unique;not null" json:"email"`
	Password     string         `gorm:"size:255" json:"-"`
	Photo        *string        `gorm:"size:255" json:"photo,omitempty"`
	GoogleID     *string        `gorm:"size:255;index" json:"-"`
	StoreName    *string        `gorm:"size:255" json:"store_name,omitempty"`
	StoreAddress *string        `gorm:"type:text" json:"store_address,omitempty"`
	StorePhone   *string        `gorm:"size:50" json:"store_phone,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Roles []Role `gorm:"many2many:user_roles;" json:"roles,omitempty"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// FullName returns the user's full name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// GetPermissions returns the flattened list of permission names across all roles
func (u *User) GetPermissions() []string {
	seen := make(map[string]bool)
	permissions := make([]string, 0)
	for _, role := range u.Roles {
		for _, p := range role.Permissions {
			if !seen[p.Name] {
				seen[p.Name] = true
				permissions = append(permissions, p.Name)
			}
		}
	}
	return permissions
}

// HasRole checks whether the user has the named role
func (u *User) HasRole(name string) bool {
	for _, role := range u.Roles {
		if role.Name == name {
			return true
		}
	}
	return false
}

// Role represents a named set of permissions
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:100;unique;not null" json:"name"`
	GuardName string    `gorm:"size:50;default:'web'" json:"guard_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
	Users       []User       `gorm:"many2many:user_roles;" json:"-"`
}

// BeforeCreate generates a UUID before creating a new role
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Role model
func (Role) TableName() string {
	return "roles"
}

// Permission represents a single grantable capability
type Permission struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"size:100;unique;not null" json:"name"`
	GuardName string    `gorm:"size:50;default:'web'" json:"guard_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Roles []Role `gorm:"many2many:role_permissions;" json:"-"`
}

// BeforeCreate generates a UUID before creating a new permission
func (p *Permission) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Permission model
func (Permission) TableName() string {
	return "permissions"
}

// PasswordResetToken stores one-time password reset tokens
type PasswordResetToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email     string    `gorm:"size:255;not null;index" json:"email"`
	Token     string    `gorm:"size:255;unique;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new token
func (t *PasswordResetToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PasswordResetToken model
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsValid checks that the token has not expired and has not been used
func (t *PasswordResetToken) IsValid() bool {
	return !t.Used && time.Now().Before(t.ExpiresAt)
}
