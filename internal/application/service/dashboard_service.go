package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
)

// DashboardService provides aggregated sales statistics for the admin panel
type DashboardService struct {
	analyticsRepo repository.AnalyticsRepository
	productRepo   repository.ProductRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	analyticsRepo repository.AnalyticsRepository,
	productRepo repository.ProductRepository,
) *DashboardService {
	return &DashboardService{
		analyticsRepo: analyticsRepo,
		productRepo:   productRepo,
	}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TotalCustomers    int64                `json:"total_customers"`
	TotalProducts     int64                `json:"total_products"`
	TotalOrders       int64                `json:"total_orders"`
	TotalRevenue      float64              `json:"total_revenue"`
	MonthlyRevenue    float64              `json:"monthly_revenue"`
	LowStockCount     int64                `json:"low_stock_count"`
	DailySalesData    []DailySalesPoint    `json:"daily_sales_data"`
	CategorySalesData []CategorySalesPoint `json:"category_sales_data"`
	PaymentSalesData  []PaymentSalesPoint  `json:"payment_sales_data"`
}

// DailySalesPoint represents a daily sales data point
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Profit  float64 `json:"profit"`
}

// CategorySalesPoint represents sales by category
type CategorySalesPoint struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// PaymentSalesPoint represents sales by payment method
type PaymentSalesPoint struct {
	Method     string  `json:"method"`
	Amount     float64 `json:"amount"`
	OrderCount int     `json:"order_count"`
}

// GetDashboardStats returns dashboard statistics
func (s *DashboardService) GetDashboardStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	customerCount, err := s.analyticsRepo.CountCustomers(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = customerCount

	productCount, err := s.analyticsRepo.CountProducts(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalProducts = productCount

	orderCount, err := s.analyticsRepo.CountOrders(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalOrders = orderCount

	totalRevenue, err := s.analyticsRepo.GetTotalRevenue(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = float64(totalRevenue) / 100

	monthlyRevenue, err := s.analyticsRepo.GetMonthlyRevenue(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue = float64(monthlyRevenue) / 100

	lowStock, err := s.productRepo.ListLowStock(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = int64(len(lowStock))

	dailySales, err := s.analyticsRepo.GetDailySales(ctx, userID, 30)
	if err != nil {
		return nil, err
	}
	stats.DailySalesData = make([]DailySalesPoint, 0, len(dailySales))
	for _, d := range dailySales {
		stats.DailySalesData = append(stats.DailySalesData, DailySalesPoint{
			Date:    d.Date.Format("2006-01-02"),
			Revenue: float64(d.Revenue) / 100,
			Profit:  float64(d.Profit) / 100,
		})
	}

	categorySales, err := s.analyticsRepo.GetSalesByCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.CategorySalesData = make([]CategorySalesPoint, 0, len(categorySales))
	for _, c := range categorySales {
		stats.CategorySalesData = append(stats.CategorySalesData, CategorySalesPoint{
			Category:   c.CategoryName,
			Amount:     float64(c.TotalSales) / 100,
			Percentage: c.Percentage,
		})
	}

	paymentSales, err := s.analyticsRepo.GetSalesByPaymentMethod(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.PaymentSalesData = make([]PaymentSalesPoint, 0, len(paymentSales))
	for _, p := range paymentSales {
		stats.PaymentSalesData = append(stats.PaymentSalesData, PaymentSalesPoint{
			Method:     p.MethodName,
			Amount:     float64(p.Total) / 100,
			OrderCount: p.OrderCount,
		})
	}

	return stats, nil
}

// TopProduct is one row of the best sellers report
type TopProduct struct {
	ProductID    uuid.UUID `json:"product_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	QuantitySold int       `json:"quantity_sold"`
	Revenue      float64   `json:"revenue"`
}

// GetTopProducts returns the best selling products by revenue
func (s *DashboardService) GetTopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]TopProduct, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	results, err := s.analyticsRepo.GetTopProducts(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	products := make([]TopProduct, 0, len(results))
	for _, r := range results {
		products = append(products, TopProduct{
			ProductID:    r.ProductID,
			Name:         r.ProductName,
			Code:         r.ProductCode,
			QuantitySold: r.QuantitySold,
			Revenue:      float64(r.Revenue) / 100,
		})
	}
	return products, nil
}

// TopCustomer is one row of the top customers report
type TopCustomer struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Name       string    `json:"name"`
	TotalSpent float64   `json:"total_spent"`
	OrderCount int       `json:"order_count"`
}

// GetTopCustomers returns the highest spending customers
func (s *DashboardService) GetTopCustomers(ctx context.Context, userID uuid.UUID, limit int) ([]TopCustomer, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	results, err := s.analyticsRepo.GetTopCustomers(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	customers := make([]TopCustomer, 0, len(results))
	for _, r := range results {
		customers = append(customers, TopCustomer{
			CustomerID: r.CustomerID,
			Name:       r.CustomerName,
			TotalSpent: float64(r.TotalSpent) / 100,
			OrderCount: r.OrderCount,
		})
	}
	return customers, nil
}

// GetLowStockProducts returns products at or below their alert threshold
func (s *DashboardService) GetLowStockProducts(ctx context.Context, userID uuid.UUID) ([]entity.Product, error) {
	return s.productRepo.ListLowStock(ctx, userID)
}
