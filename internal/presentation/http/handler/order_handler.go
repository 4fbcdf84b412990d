package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/domain/enum"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func parseOrderStatus(s string) *enum.OrderStatus {
	var status enum.OrderStatus
	switch s {
	case "pending", "Pending":
		status = enum.OrderStatusPending
	case "complete", "Complete":
		status = enum.OrderStatusComplete
	case "cancelled", "Cancelled":
		status = enum.OrderStatusCancelled
	default:
		return nil
	}
	return &status
}

func parseDateRange(c *gin.Context) (start, end *time.Time) {
	if s := c.Query("start_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			start = &t
		}
	}
	if s := c.Query("end_date"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			e := t.Add(24*time.Hour - time.Second)
			end = &e
		}
	}
	return start, end
}

// List handles listing orders (supports both page-based and cursor-based pagination)
func (h *OrderHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	startDate, endDate := parseDateRange(c)

	params := &repository.OrderFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:    c.Query("search"),
		Status:    parseOrderStatus(c.Query("status")),
		StartDate: startDate,
		EndDate:   endDate,
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if customerIDStr := c.Query("customer_id"); customerIDStr != "" {
		if customerID, err := uuid.Parse(customerIDStr); err == nil {
			params.CustomerID = &customerID
		}
	}
	if sessionIDStr := c.Query("session_id"); sessionIDStr != "" {
		if sessionID, err := uuid.Parse(sessionIDStr); err == nil {
			params.RegisterSessionID = &sessionID
		}
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Orders retrieved successfully", result)
}

// listWithCursor handles listing orders with cursor-based pagination
func (h *OrderHandler) listWithCursor(c *gin.Context, userID uuid.UUID) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	startDate, endDate := parseDateRange(c)

	params := &repository.OrderCursorFilterParams{
		Cursor: &pagination.CursorParams{
			Cursor:    c.Query("cursor"),
			Direction: pagination.CursorDirection(c.DefaultQuery("direction", "next")),
			Limit:     limit,
		},
		Search:    c.Query("search"),
		Status:    parseOrderStatus(c.Query("status")),
		StartDate: startDate,
		EndDate:   endDate,
	}

	result, err := h.orderService.ListOrdersWithCursor(c.Request.Context(), userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Orders retrieved successfully", result)
}

// Get handles getting a single order with items and payments
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", nil)
}
