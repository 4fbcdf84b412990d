package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/config"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/handler"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/middleware"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth          *handler.AuthHandler
	POS           *handler.POSHandler
	Register      *handler.RegisterHandler
	Product       *handler.ProductHandler
	Category      *handler.CategoryHandler
	Order         *handler.OrderHandler
	Purchase      *handler.PurchaseHandler
	Customer      *handler.CustomerHandler
	Supplier      *handler.SupplierHandler
	PaymentMethod *handler.PaymentMethodHandler
	Dashboard     *handler.DashboardHandler
	Settings      *handler.SettingsHandler
	User          *handler.UserHandler
	Printer       *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-operator rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/forgot-password", h.Auth.ForgotPassword)
		auth.POST("/reset-password", h.Auth.ResetPassword)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleAuthURL)
		auth.POST("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Auth/Profile routes
	protected.GET("/auth/me", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// POS ticket and checkout
	registerPOSRoutes(protected, h, deps)

	// Cash register sessions
	registerRegisterRoutes(protected, h)

	// Dashboard
	registerDashboardRoutes(protected, h)

	// Products
	registerProductRoutes(protected, h)

	// Categories
	registerCategoryRoutes(protected, h)

	// Orders
	registerOrderRoutes(protected, h)

	// Purchases
	registerPurchaseRoutes(protected, h)

	// Customers
	registerCustomerRoutes(protected, h)

	// Suppliers
	registerSupplierRoutes(protected, h)

	// Payment methods
	registerPaymentMethodRoutes(protected, h)

	// Settings
	settings := protected.Group("/settings")
	settings.Use(middleware.RequirePermission("manage-settings"))
	{
		settings.GET("", h.Settings.Get)
		settings.PUT("", h.Settings.Update)
	}

	// Users and roles (Admin)
	registerUserRoutes(protected, h)

	// Printer
	registerPrinterRoutes(protected, h)
}

func registerPOSRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("/pos")
	pos.Use(middleware.RequirePermission("operate-pos"))
	{
		pos.GET("/ticket", h.POS.GetTicket)
		pos.DELETE("/ticket", h.POS.ClearTicket)
		pos.POST("/ticket/items", h.POS.AddItem)
		pos.PUT("/ticket/items/:index", h.POS.UpdateItem)
		pos.DELETE("/ticket/items/:index", h.POS.RemoveItem)
		pos.PUT("/ticket/discount", h.POS.SetDiscount)
		pos.PUT("/ticket/customer", h.POS.SetCustomer)
		pos.POST("/ticket/payments", h.POS.AddPayment)
		pos.PUT("/ticket/payments/:index", h.POS.UpdatePayment)
		pos.DELETE("/ticket/payments/:index", h.POS.RemovePayment)
		// Checkout replays the committed sale when a client retries with
		// the same Idempotency-Key
		pos.POST("/checkout", middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		}), h.POS.Checkout)
	}
}

func registerRegisterRoutes(protected *gin.RouterGroup, h *Handlers) {
	register := protected.Group("/register")
	register.Use(middleware.RequirePermission("manage-register"))
	{
		register.GET("/session", h.Register.Current)
		register.POST("/open", h.Register.Open)
		register.POST("/close", h.Register.Close)
		register.GET("/balance", h.Register.Balance)
		register.GET("/movements", h.Register.ListMovements)
		register.POST("/movements", h.Register.AddMovement)
		register.GET("/sessions", h.Register.List)
		register.GET("/sessions/:id", h.Register.Get)
	}
}

func registerDashboardRoutes(protected *gin.RouterGroup, h *Handlers) {
	dashboard := protected.Group("/dashboard")
	dashboard.Use(middleware.RequirePermission("view-dashboard"))
	{
		dashboard.GET("", h.Dashboard.Stats)
		dashboard.GET("/top-products", h.Dashboard.TopProducts)
		dashboard.GET("/top-customers", h.Dashboard.TopCustomers)
		dashboard.GET("/low-stock", h.Dashboard.LowStock)
	}
}

func registerProductRoutes(protected *gin.RouterGroup, h *Handlers) {
	// Reading the catalog only needs POS access; writes need the manage
	// permission
	products := protected.Group("/products")
	{
		products.GET("", h.Product.List)
		products.GET("/low-stock", h.Product.LowStock)
		products.GET("/code/:code", h.Product.GetByCode)
		products.GET("/:slug", h.Product.Get)

		manage := products.Group("")
		manage.Use(middleware.RequirePermission("manage-products"))
		{
			manage.POST("", h.Product.Create)
			manage.PUT("/:slug", h.Product.Update)
			manage.DELETE("/:slug", h.Product.Delete)
		}
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.GET("/:slug", h.Category.Get)

		manage := categories.Group("")
		manage.Use(middleware.RequirePermission("manage-categories"))
		{
			manage.POST("", h.Category.Create)
			manage.PUT("/:slug", h.Category.Update)
			manage.DELETE("/:slug", h.Category.Delete)
		}
	}
}

func registerOrderRoutes(protected *gin.RouterGroup, h *Handlers) {
	orders := protected.Group("/orders")
	orders.Use(middleware.RequirePermission("manage-orders"))
	{
		orders.GET("", h.Order.List)
		orders.GET("/:id", h.Order.Get)
		orders.POST("/:id/cancel", h.Order.Cancel)
	}
}

func registerPurchaseRoutes(protected *gin.RouterGroup, h *Handlers) {
	purchases := protected.Group("/purchases")
	purchases.Use(middleware.RequirePermission("manage-purchases"))
	{
		purchases.GET("", h.Purchase.List)
		purchases.POST("", h.Purchase.Create)
		purchases.GET("/:id", h.Purchase.Get)
		purchases.POST("/:id/approve", h.Purchase.Approve)
		purchases.DELETE("/:id", h.Purchase.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	customers.Use(middleware.RequirePermission("manage-customers"))
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
	}
}

func registerSupplierRoutes(protected *gin.RouterGroup, h *Handlers) {
	suppliers := protected.Group("/suppliers")
	suppliers.Use(middleware.RequirePermission("manage-suppliers"))
	{
		suppliers.GET("", h.Supplier.List)
		suppliers.POST("", h.Supplier.Create)
		suppliers.GET("/:id", h.Supplier.Get)
		suppliers.PUT("/:id", h.Supplier.Update)
		suppliers.DELETE("/:id", h.Supplier.Delete)
	}
}

func registerPaymentMethodRoutes(protected *gin.RouterGroup, h *Handlers) {
	methods := protected.Group("/payment-methods")
	{
		// The POS screen lists active methods; management is gated
		methods.GET("", h.PaymentMethod.List)
		methods.GET("/:id", h.PaymentMethod.Get)

		manage := methods.Group("")
		manage.Use(middleware.RequirePermission("manage-payment-methods"))
		{
			manage.POST("", h.PaymentMethod.Create)
			manage.PUT("/:id", h.PaymentMethod.Update)
			manage.DELETE("/:id", h.PaymentMethod.Delete)
		}
	}
}

func registerUserRoutes(protected *gin.RouterGroup, h *Handlers) {
	users := protected.Group("/users")
	users.Use(middleware.RequirePermission("manage-users"))
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.DELETE("/:id", h.User.Delete)
		users.POST("/:id/roles", h.User.AssignRole)
		users.DELETE("/:id/roles/:role", h.User.RemoveRole)
	}

	roles := protected.Group("/roles")
	roles.Use(middleware.RequirePermission("manage-users"))
	{
		roles.GET("", h.User.ListRoles)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	printer.Use(middleware.RequirePermission("operate-pos"))
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/test", h.Printer.Test)
		printer.POST("/orders/:id", h.Printer.PrintOrder)
	}
}
