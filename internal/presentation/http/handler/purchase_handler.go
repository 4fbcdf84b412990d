package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/domain/entity"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// PurchaseHandler handles supplier purchase HTTP requests
type PurchaseHandler struct {
	purchaseService *service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler
func NewPurchaseHandler(purchaseService *service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// List handles listing purchases
func (h *PurchaseHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	var status *entity.PurchaseStatus
	switch c.Query("status") {
	case "pending":
		s := entity.PurchaseStatusPending
		status = &s
	case "approved":
		s := entity.PurchaseStatusApproved
		status = &s
	}

	result, err := h.purchaseService.ListPurchases(c.Request.Context(), *userID, params, c.Query("search"), status)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Purchases retrieved successfully", result)
}

// Create handles creating a pending purchase
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		SupplierID   uuid.UUID  `json:"supplier_id" binding:"required"`
		PurchaseDate *time.Time `json:"purchase_date"`
		Items        []struct {
			ProductID uuid.UUID `json:"product_id" binding:"required"`
			Quantity  int       `json:"quantity" binding:"required"`
			UnitCost  float64   `json:"unit_cost"`
		} `json:"items" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	items := make([]service.PurchaseItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.PurchaseItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitCost:  item.UnitCost,
		})
	}

	purchase, err := h.purchaseService.CreatePurchase(c.Request.Context(), &service.CreatePurchaseInput{
		UserID:       *userID,
		SupplierID:   req.SupplierID,
		PurchaseDate: req.PurchaseDate,
		Items:        items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Purchase created successfully", purchase)
}

// Get handles getting a single purchase with its items
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetPurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase retrieved successfully", purchase)
}

// Approve handles approving a purchase and receiving its stock
func (h *PurchaseHandler) Approve(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.ApprovePurchase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Purchase approved successfully", purchase)
}

// Delete handles deleting a pending purchase
func (h *PurchaseHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.purchaseService.DeletePurchase(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
