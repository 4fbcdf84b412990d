package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats returns aggregated dashboard statistics
func (h *DashboardHandler) Stats(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := h.dashboardService.GetDashboardStats(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard stats retrieved successfully", stats)
}

// TopProducts returns the best selling products
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	products, err := h.dashboardService.GetTopProducts(c.Request.Context(), *userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top products retrieved successfully", products)
}

// TopCustomers returns the highest spending customers
func (h *DashboardHandler) TopCustomers(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	customers, err := h.dashboardService.GetTopCustomers(c.Request.Context(), *userID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Top customers retrieved successfully", customers)
}

// LowStock returns products at or below their alert threshold
func (h *DashboardHandler) LowStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	products, err := h.dashboardService.GetLowStockProducts(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}
