package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/config"
	"github.com/mvcardoso/pdv-api/internal/infrastructure/database"
	"github.com/mvcardoso/pdv-api/internal/infrastructure/repository"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/handler"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/routes"
	"github.com/mvcardoso/pdv-api/pkg/email"
	"github.com/mvcardoso/pdv-api/pkg/oauth"
	"github.com/mvcardoso/pdv-api/pkg/printer"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	orderPaymentRepo := repository.NewOrderPaymentRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	purchaseItemRepo := repository.NewPurchaseItemRepository(db)
	sessionRepo := repository.NewRegisterSessionRepository(db)
	movementRepo := repository.NewCashMovementRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	passwordResetRepo := repository.NewPasswordResetTokenRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
		FrontendURL:  cfg.Email.FrontendURL,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(
		cfg.OAuth.GoogleClientID,
		cfg.OAuth.GoogleClientSecret,
		cfg.OAuth.GoogleRedirectURL,
	)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, roleRepo, passwordResetRepo, jwtManager, emailService, googleOAuthService)
	registerService := service.NewRegisterService(sessionRepo, movementRepo)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, orderPaymentRepo, productRepo, customerRepo, methodRepo, registerService)
	printerService := service.NewPrinterService(thermalPrinter, orderRepo, settingsRepo, cfg.Printer.Type)
	posService := service.NewPOSService(productRepo, customerRepo, methodRepo, orderService, registerService, printerService)
	productService := service.NewProductService(productRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo)
	supplierService := service.NewSupplierService(supplierRepo)
	methodService := service.NewPaymentMethodService(methodRepo)
	purchaseService := service.NewPurchaseService(purchaseRepo, purchaseItemRepo, supplierRepo, productRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, productRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	userService := service.NewUserService(userRepo, roleRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		POS:           handler.NewPOSHandler(posService),
		Register:      handler.NewRegisterHandler(registerService),
		Product:       handler.NewProductHandler(productService),
		Category:      handler.NewCategoryHandler(categoryService),
		Order:         handler.NewOrderHandler(orderService),
		Purchase:      handler.NewPurchaseHandler(purchaseService),
		Customer:      handler.NewCustomerHandler(customerService),
		Supplier:      handler.NewSupplierHandler(supplierService),
		PaymentMethod: handler.NewPaymentMethodHandler(methodService),
		Dashboard:     handler.NewDashboardHandler(dashboardService),
		Settings:      handler.NewSettingsHandler(settingsService),
		User:          handler.NewUserHandler(userService),
		Printer:       handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
