package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customerService *service.CustomerService
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// List handles listing customers (supports both page-based and cursor-based pagination)
func (h *CustomerHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	search := c.Query("search")

	// Check if cursor-based pagination is requested
	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, search)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.customerService.ListCustomers(c.Request.Context(), *userID, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Customers retrieved successfully", result)
}

// listWithCursor handles listing customers with cursor-based pagination
func (h *CustomerHandler) listWithCursor(c *gin.Context, userID uuid.UUID, search string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &pagination.CursorParams{
		Cursor:    cursor,
		Direction: pagination.CursorDirection(direction),
		Limit:     limit,
	}

	result, err := h.customerService.ListCustomersWithCursor(c.Request.Context(), userID, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Customers retrieved successfully", result)
}

// Create handles creating a customer
func (h *CustomerHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Document *string `json:"document"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), &service.CreateCustomerInput{
		UserID:   *userID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
		Address:  req.Address,
		City:     req.City,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Customer created successfully", customer)
}

// Get handles getting a single customer
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetCustomer(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer retrieved successfully", customer)
}

// Update handles updating a customer
func (h *CustomerHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Document *string `json:"document"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Notes    *string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), &service.UpdateCustomerInput{
		UserID:   *userID,
		ID:       id,
		IsAdmin:  IsAdmin(c),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Document: req.Document,
		Address:  req.Address,
		City:     req.City,
		Notes:    req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Customer updated successfully", customer)
}

// Delete handles deleting a customer
func (h *CustomerHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// SupplierHandler handles supplier-related HTTP requests
type SupplierHandler struct {
	supplierService *service.SupplierService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(supplierService *service.SupplierService) *SupplierHandler {
	return &SupplierHandler{supplierService: supplierService}
}

// List handles listing suppliers
func (h *SupplierHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	search := c.Query("search")

	params := &pagination.PaginationParams{
		Page:    page,
		PerPage: perPage,
	}

	result, err := h.supplierService.ListSuppliers(c.Request.Context(), *userID, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Suppliers retrieved successfully", result)
}

// Create handles creating a supplier
func (h *SupplierHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		CompanyName *string `json:"company_name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		Document    *string `json:"document"`
		Address     *string `json:"address"`
		City        *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.supplierService.CreateSupplier(c.Request.Context(), &service.CreateSupplierInput{
		UserID:      *userID,
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Document:    req.Document,
		Address:     req.Address,
		City:        req.City,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Supplier created successfully", supplier)
}

// Get handles getting a single supplier
func (h *SupplierHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	supplier, err := h.supplierService.GetSupplier(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier retrieved successfully", supplier)
}

// Update handles updating a supplier
func (h *SupplierHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name        *string `json:"name"`
		CompanyName *string `json:"company_name"`
		Email       *string `json:"email"`
		Phone       *string `json:"phone"`
		Document    *string `json:"document"`
		Address     *string `json:"address"`
		City        *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	supplier, err := h.supplierService.UpdateSupplier(c.Request.Context(), &service.UpdateSupplierInput{
		UserID:      *userID,
		ID:          id,
		IsAdmin:     IsAdmin(c),
		Name:        req.Name,
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		Document:    req.Document,
		Address:     req.Address,
		City:        req.City,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Supplier updated successfully", supplier)
}

// Delete handles deleting a supplier
func (h *SupplierHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.supplierService.DeleteSupplier(c.Request.Context(), *userID, id, IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
