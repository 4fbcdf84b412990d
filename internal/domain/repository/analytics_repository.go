package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TopProductResult represents a product's sales performance
type TopProductResult struct {
	ProductID    uuid.UUID
	ProductName  string
	ProductCode  string
	QuantitySold int
	Revenue      int64 // cents
}

// CategorySalesResult represents sales aggregated by category
type CategorySalesResult struct {
	CategoryID   uuid.UUID
	CategoryName string
	TotalSales   int64 // cents
	OrderCount   int
	Percentage   float64
}

// TopCustomerResult represents a customer's spending data
type TopCustomerResult struct {
	CustomerID   uuid.UUID
	CustomerName string
	TotalSpent   int64 // cents
	OrderCount   int
}

// DailySalesResult represents sales data for a single day
type DailySalesResult struct {
	Date    time.Time
	Revenue int64 // cents
	Profit  int64 // cents
}

// PaymentKindSalesResult represents sales aggregated by payment method
type PaymentKindSalesResult struct {
	PaymentMethodID uuid.UUID
	MethodName      string
	Total           int64 // cents
	OrderCount      int
}

// AnalyticsRepository defines interface for analytics/aggregation queries
type AnalyticsRepository interface {
	// GetTopProducts returns top selling products by revenue
	GetTopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]TopProductResult, error)

	// GetSalesByCategory returns sales aggregated by category with percentages
	GetSalesByCategory(ctx context.Context, userID uuid.UUID) ([]CategorySalesResult, error)

	// GetTopCustomers returns top customers by total spending
	GetTopCustomers(ctx context.Context, userID uuid.UUID, limit int) ([]TopCustomerResult, error)

	// GetDailySales returns daily sales data for the last N days
	GetDailySales(ctx context.Context, userID uuid.UUID, days int) ([]DailySalesResult, error)

	// GetSalesByPaymentMethod returns sales aggregated by payment method
	GetSalesByPaymentMethod(ctx context.Context, userID uuid.UUID) ([]PaymentKindSalesResult, error)

	// GetTotalRevenue returns total revenue in cents from completed orders
	GetTotalRevenue(ctx context.Context, userID uuid.UUID) (int64, error)

	// GetMonthlyRevenue returns revenue in cents for the current month
	GetMonthlyRevenue(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountOrders returns the total number of orders
	CountOrders(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountCustomers returns the total number of customers
	CountCustomers(ctx context.Context, userID uuid.UUID) (int64, error)

	// CountProducts returns the total number of products
	CountProducts(ctx context.Context, userID uuid.UUID) (int64, error)
}
