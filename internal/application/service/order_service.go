package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/internal/domain/pos"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/pkg/apperror"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
	"github.com/mvcardoso/pdv-api/pkg/utils"
)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo        repository.OrderRepository
	orderItemRepo    repository.OrderItemRepository
	orderPaymentRepo repository.OrderPaymentRepository
	productRepo      repository.ProductRepository
	customerRepo     repository.CustomerRepository
	methodRepo       repository.PaymentMethodRepository
	registerService  *RegisterService
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	orderPaymentRepo repository.OrderPaymentRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	methodRepo repository.PaymentMethodRepository,
	registerService *RegisterService,
) *OrderService {
	return &OrderService{
		orderRepo:        orderRepo,
		orderItemRepo:    orderItemRepo,
		orderPaymentRepo: orderPaymentRepo,
		productRepo:      productRepo,
		customerRepo:     customerRepo,
		methodRepo:       methodRepo,
		registerService:  registerService,
	}
}

// SubmitOrder persists a finalized ticket payload as an order with its items
// and payments, decrementing stock atomically per product. The cash portion of
// the sale is appended to the register ledger.
func (s *OrderService) SubmitOrder(ctx context.Context, userID uuid.UUID, req *pos.OrderRequest) (*entity.Order, error) {
	// Validate customer
	customer, err := s.customerRepo.GetByID(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	// Batch fetch products (prevents N+1)
	productIDs := make([]uuid.UUID, len(req.Items))
	for i, item := range req.Items {
		productIDs[i] = item.ProductID
	}
	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	orderItems := make([]entity.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, exists := productMap[line.ProductID]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", line.ProductID))
		}
		if !product.Active {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Product %s is inactive", product.Name))
		}
		orderItems = append(orderItems, entity.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		})
	}

	// Validate payment methods and build payment rows
	orderPayments := make([]entity.OrderPayment, 0, len(req.Payments))
	var cashAmount int64
	for _, p := range req.Payments {
		method, err := s.methodRepo.GetByID(ctx, p.PaymentMethodID)
		if err != nil {
			return nil, err
		}
		if method == nil {
			return nil, apperror.NewNotFoundError("Payment method")
		}
		if !method.Active {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("Payment method %s is inactive", method.Name))
		}
		if p.InstallmentCount < 1 || p.InstallmentCount > method.MaxInstallments {
			return nil, apperror.NewUnprocessableError(fmt.Sprintf("Invalid installment count for %s", method.Name))
		}
		if method.Kind.IsCashLike() {
			cashAmount += p.Amount
		}
		orderPayments = append(orderPayments, entity.OrderPayment{
			PaymentMethodID:   p.PaymentMethodID,
			InstallmentCount:  p.InstallmentCount,
			Amount:            p.Amount,
			InstallmentAmount: p.InstallmentAmount,
		})
	}

	// Atomically decrement stock; roll back prior decrements on failure
	decremented := make([]pos.OrderLine, 0, len(req.Items))
	for _, line := range req.Items {
		if err := s.productRepo.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			for _, done := range decremented {
				_ = s.productRepo.AdjustStock(ctx, done.ProductID, done.Quantity)
			}
			name := line.ProductID.String()
			if product, exists := productMap[line.ProductID]; exists {
				name = product.Name
			}
			return nil, apperror.NewConflictError(fmt.Sprintf("Insufficient stock for %s", name))
		}
		decremented = append(decremented, line)
	}

	restoreStock := func() {
		for _, done := range decremented {
			_ = s.productRepo.AdjustStock(ctx, done.ProductID, done.Quantity)
		}
	}

	sessionID := req.RegisterSessionID
	order := &entity.Order{
		UserID:            userID,
		CustomerID:        req.CustomerID,
		RegisterSessionID: &sessionID,
		OrderDate:         time.Now(),
		OrderStatus:       enum.OrderStatusComplete,
		OrderNo:           utils.GenerateOrderNo(),
		TotalProducts:     req.TotalProducts,
		SubTotal:          req.SubTotal,
		Discount:          req.Discount,
		Total:             req.Total,
		Paid:              req.Total,
		Due:               0,
		FromRegister:      req.FromRegister,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		restoreStock()
		return nil, err
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
	}
	if err := s.orderItemRepo.CreateBatch(ctx, orderItems); err != nil {
		restoreStock()
		return nil, err
	}

	for i := range orderPayments {
		orderPayments[i].OrderID = order.ID
	}
	if err := s.orderPaymentRepo.CreateBatch(ctx, orderPayments); err != nil {
		restoreStock()
		return nil, err
	}

	// Cash lands in the drawer; card and transfer amounts do not
	if err := s.registerService.RecordSaleMovement(ctx, sessionID, order.ID, cashAmount, order.OrderNo); err != nil {
		return nil, err
	}

	return s.orderRepo.GetWithDetails(ctx, order.ID)
}

// GetOrder retrieves an order by ID with items and payments
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// ListOrdersWithCursor lists orders with cursor-based pagination
func (s *OrderService) ListOrdersWithCursor(ctx context.Context, userID uuid.UUID, params *repository.OrderCursorFilterParams) (*pagination.CursorPaginatedResult[entity.Order], error) {
	orders, err := s.orderRepo.ListWithCursor(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hasPrev := params.Cursor.Cursor != ""

	cursorPag, items := pagination.NewCursorPagination(orders, params.Cursor.Limit,
		func(o entity.Order) string { return o.ID.String() },
		func(o entity.Order) time.Time { return o.CreatedAt },
	)
	cursorPag.HasPrev = hasPrev

	return pagination.NewCursorPaginatedResult(items, cursorPag), nil
}

// CancelOrder cancels an order, restores stock, and writes a reversing cash
// entry when the sale had a cash portion.
func (s *OrderService) CancelOrder(ctx context.Context, userID, orderID uuid.UUID, isAdmin bool) error {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}

	if !isAdmin && order.UserID != userID {
		return apperror.ErrForbidden
	}

	if order.OrderStatus == enum.OrderStatusCancelled {
		return apperror.NewBadRequestError("Order is already cancelled")
	}

	// Restore stock
	for _, item := range order.Items {
		if err := s.productRepo.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	// Reverse the cash portion in the originating session's ledger
	if order.RegisterSessionID != nil {
		var cashAmount int64
		for _, p := range order.Payments {
			if p.PaymentMethod.Kind.IsCashLike() {
				cashAmount += p.Amount
			}
		}
		if err := s.registerService.RecordReversal(ctx, *order.RegisterSessionID, order.ID, cashAmount, order.OrderNo); err != nil {
			return err
		}
	}

	return s.orderRepo.UpdateStatus(ctx, orderID, enum.OrderStatusCancelled)
}
