package database

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/config"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		// User-related entities
		&entity.User{},
		&entity.Role{},
		&entity.Permission{},
		&entity.PasswordResetToken{},

		// Catalog entities
		&entity.Category{},
		&entity.Product{},
		&entity.PaymentMethod{},

		// People entities
		&entity.Customer{},
		&entity.Supplier{},

		// Register entities
		&entity.RegisterSession{},
		&entity.CashMovement{},

		// Transaction entities
		&entity.Order{},
		&entity.OrderItem{},
		&entity.OrderPayment{},
		&entity.Purchase{},
		&entity.PurchaseItem{},

		// System entities
		&entity.IdempotencyKey{},
		&entity.StoreSettings{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with default data (roles, permissions,
// payment methods, admin user)
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create default permissions
	permissions := []entity.Permission{
		{Name: "view-dashboard", GuardName: "web"},
		{Name: "operate-pos", GuardName: "web"},
		{Name: "manage-register", GuardName: "web"},
		{Name: "manage-products", GuardName: "web"},
		{Name: "manage-categories", GuardName: "web"},
		{Name: "manage-orders", GuardName: "web"},
		{Name: "manage-purchases", GuardName: "web"},
		{Name: "manage-customers", GuardName: "web"},
		{Name: "manage-suppliers", GuardName: "web"},
		{Name: "manage-payment-methods", GuardName: "web"},
		{Name: "manage-users", GuardName: "web"},
		{Name: "manage-settings", GuardName: "web"},
		{Name: "view-reports", GuardName: "web"},
	}

	for i := range permissions {
		var existing entity.Permission
		if err := db.Where("name = ?", permissions[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&permissions[i]).Error; err != nil {
				log.Printf("Warning: failed to create permission %s: %v", permissions[i].Name, err)
			}
		}
	}

	// Reload permissions with IDs
	var allPermissions []entity.Permission
	db.Find(&allPermissions)

	pickPermissions := func(names []string) []entity.Permission {
		var picked []entity.Permission
		for _, name := range names {
			for _, p := range allPermissions {
				if p.Name == name {
					picked = append(picked, p)
					break
				}
			}
		}
		return picked
	}

	// Create admin role with all permissions
	var adminRole entity.Role
	if err := db.Where("name = ?", "admin").First(&adminRole).Error; err != nil {
		adminRole = entity.Role{
			Name:        "admin",
			GuardName:   "web",
			Permissions: allPermissions,
		}
		if err := db.Create(&adminRole).Error; err != nil {
			log.Printf("Warning: failed to create admin role: %v", err)
		}
	}

	// Create operator role scoped to the sales floor
	operatorPerms := pickPermissions([]string{
		"view-dashboard",
		"operate-pos",
		"manage-register",
		"manage-orders",
		"manage-customers",
	})
	var operatorRole entity.Role
	if err := db.Where("name = ?", "operator").First(&operatorRole).Error; err != nil {
		operatorRole = entity.Role{
			Name:        "operator",
			GuardName:   "web",
			Permissions: operatorPerms,
		}
		if err := db.Create(&operatorRole).Error; err != nil {
			log.Printf("Warning: failed to create operator role: %v", err)
		}
	}

	// Create default user role with basic permissions (for new registrants)
	userPerms := pickPermissions([]string{
		"view-dashboard",
		"manage-customers",
		"manage-suppliers",
		"manage-categories",
	})
	var userRole entity.Role
	if err := db.Where("name = ?", "user").First(&userRole).Error; err != nil {
		userRole = entity.Role{
			Name:        "user",
			GuardName:   "web",
			Permissions: userPerms,
		}
		if err := db.Create(&userRole).Error; err != nil {
			log.Printf("Warning: failed to create user role: %v", err)
		}
	}

	// Create default payment methods
	defaultMethods := []entity.PaymentMethod{
		{Name: "Dinheiro", Kind: enum.PaymentKindCash, MaxInstallments: 1, Active: true},
		{Name: "Cartão de Débito", Kind: enum.PaymentKindDebit, MaxInstallments: 1, Active: true},
		{Name: "Cartão de Crédito", Kind: enum.PaymentKindCredit, MaxInstallments: 12, Active: true},
		{Name: "Pix", Kind: enum.PaymentKindTransfer, MaxInstallments: 1, Active: true},
	}
	for i := range defaultMethods {
		var existing entity.PaymentMethod
		if err := db.Where("name = ?", defaultMethods[i].Name).First(&existing).Error; err != nil {
			if err := db.Create(&defaultMethods[i]).Error; err != nil {
				log.Printf("Warning: failed to create payment method %s: %v", defaultMethods[i].Name, err)
			}
		}
	}

	// Create admin user if configured via environment variables
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminEmail != "" && adminPassword != "" {
		var existingAdmin entity.User
		if err := db.Where("email = ?", adminEmail).First(&existingAdmin).Error; err != nil {
			hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
			if err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else {
				var role entity.Role
				if err := db.Where("name = ?", "admin").First(&role).Error; err == nil {
					if adminName == "" {
						adminName = "Administrador"
					}
					firstName := adminName
					lastName := ""
					for i, c := range adminName {
						if c == ' ' {
							firstName = adminName[:i]
							lastName = adminName[i+1:]
							break
						}
					}
					adminUser := entity.User{
						ID:        uuid.New(),
						FirstName: firstName,
						LastName:  lastName,
						Email:     adminEmail,
						Password:  string(hashedPassword),
						Roles:     []entity.Role{role},
					}
					if err := db.Create(&adminUser).Error; err != nil {
						log.Printf("Warning: failed to create admin user: %v", err)
					} else {
						log.Printf("Admin user created: %s", adminEmail)
					}
				}
			}
		} else {
			log.Printf("Admin user already exists: %s", adminEmail)
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
