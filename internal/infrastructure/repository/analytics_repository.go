package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	domainRepo "github.com/mvcardoso/pdv-api/internal/domain/repository"
	"gorm.io/gorm"
)

type analyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) domainRepo.AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (r *analyticsRepository) GetTopProducts(ctx context.Context, userID uuid.UUID, limit int) ([]domainRepo.TopProductResult, error) {
	var results []domainRepo.TopProductResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			p.id as product_id,
			p.name as product_name,
			p.code as product_code,
			COALESCE(SUM(oi.quantity), 0) as quantity_sold,
			COALESCE(SUM(oi.line_total), 0) as revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_status = 1 AND o.user_id = ?
		GROUP BY p.id, p.name, p.code
		ORDER BY revenue DESC
		LIMIT ?
	`, userID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByCategory(ctx context.Context, userID uuid.UUID) ([]domainRepo.CategorySalesResult, error) {
	var results []domainRepo.CategorySalesResult

	// Total sales first, for percentage calculation
	var totalSales int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(oi.line_total), 0)
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_status = 1 AND o.user_id = ?
	`, userID).Scan(&totalSales).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COALESCE(c.id, '00000000-0000-0000-0000-000000000000') as category_id,
			COALESCE(c.name, 'Sem categoria') as category_name,
			COALESCE(SUM(oi.line_total), 0) as total_sales,
			COUNT(DISTINCT o.id) as order_count
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN categories c ON c.id = p.category_id
		JOIN orders o ON o.id = oi.order_id
		WHERE o.order_status = 1 AND o.user_id = ?
		GROUP BY c.id, c.name
		ORDER BY total_sales DESC
	`, userID).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	for i := range results {
		if totalSales > 0 {
			results[i].Percentage = (float64(results[i].TotalSales) / float64(totalSales)) * 100
		}
	}

	return results, nil
}

func (r *analyticsRepository) GetTopCustomers(ctx context.Context, userID uuid.UUID, limit int) ([]domainRepo.TopCustomerResult, error) {
	var results []domainRepo.TopCustomerResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			c.id as customer_id,
			c.name as customer_name,
			COALESCE(SUM(o.total), 0) as total_spent,
			COUNT(o.id) as order_count
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.order_status = 1 AND o.user_id = ?
		GROUP BY c.id, c.name
		ORDER BY total_spent DESC
		LIMIT ?
	`, userID, limit).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetDailySales(ctx context.Context, userID uuid.UUID, days int) ([]domainRepo.DailySalesResult, error) {
	results := make([]domainRepo.DailySalesResult, 0, days)
	now := time.Now()

	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i)
		startOfDay := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		endOfDay := startOfDay.Add(24 * time.Hour)

		var revenue sql.NullInt64
		err := r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(total), 0)
			FROM orders
			WHERE order_status = 1 AND user_id = ?
			AND order_date >= ? AND order_date < ?
		`, userID, startOfDay, endOfDay).Scan(&revenue).Error

		if err != nil {
			return nil, err
		}

		var profit sql.NullInt64
		err = r.db.WithContext(ctx).Raw(`
			SELECT COALESCE(SUM(oi.line_total - p.cost_price * oi.quantity), 0)
			FROM order_items oi
			JOIN products p ON p.id = oi.product_id
			JOIN orders o ON o.id = oi.order_id
			WHERE o.order_status = 1 AND o.user_id = ?
			AND o.order_date >= ? AND o.order_date < ?
		`, userID, startOfDay, endOfDay).Scan(&profit).Error

		if err != nil {
			return nil, err
		}

		results = append(results, domainRepo.DailySalesResult{
			Date:    startOfDay,
			Revenue: revenue.Int64,
			Profit:  profit.Int64,
		})
	}

	return results, nil
}

func (r *analyticsRepository) GetSalesByPaymentMethod(ctx context.Context, userID uuid.UUID) ([]domainRepo.PaymentKindSalesResult, error) {
	var results []domainRepo.PaymentKindSalesResult

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			pm.id as payment_method_id,
			pm.name as method_name,
			COALESCE(SUM(op.amount), 0) as total,
			COUNT(DISTINCT o.id) as order_count
		FROM order_payments op
		JOIN payment_methods pm ON pm.id = op.payment_method_id
		JOIN orders o ON o.id = op.order_id
		WHERE o.order_status = 1 AND o.user_id = ?
		GROUP BY pm.id, pm.name
		ORDER BY total DESC
	`, userID).Scan(&results).Error

	if err != nil {
		return nil, err
	}

	return results, nil
}

func (r *analyticsRepository) GetTotalRevenue(ctx context.Context, userID uuid.UUID) (int64, error) {
	var revenue int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE order_status = 1 AND user_id = ?
	`, userID).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) GetMonthlyRevenue(ctx context.Context, userID uuid.UUID) (int64, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var revenue int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0)
		FROM orders
		WHERE order_status = 1 AND user_id = ? AND order_date >= ?
	`, userID, startOfMonth).Scan(&revenue).Error

	return revenue, err
}

func (r *analyticsRepository) CountOrders(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM orders WHERE user_id = ? AND deleted_at IS NULL
	`, userID).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) CountCustomers(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM customers WHERE user_id = ? AND deleted_at IS NULL
	`, userID).Scan(&count).Error
	return count, err
}

func (r *analyticsRepository) CountProducts(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM products WHERE user_id = ? AND deleted_at IS NULL
	`, userID).Scan(&count).Error
	return count, err
}
