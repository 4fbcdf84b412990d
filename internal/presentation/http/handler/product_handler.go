package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/domain/repository"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
	"github.com/mvcardoso/pdv-api/pkg/pagination"
)

// ProductHandler handles product-related HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing products (supports both page-based and cursor-based pagination)
func (h *ProductHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	search := c.Query("search")

	if cursor := c.Query("cursor"); cursor != "" || c.Query("limit") != "" {
		h.listWithCursor(c, *userID, search)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))

	params := &repository.ProductFilterParams{
		Pagination: &pagination.PaginationParams{
			Page:    page,
			PerPage: perPage,
		},
		Search:     search,
		ActiveOnly: c.Query("active") == "true",
		LowStock:   c.Query("low_stock") == "true",
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	if categoryIDStr := c.Query("category_id"); categoryIDStr != "" {
		if categoryID, err := uuid.Parse(categoryIDStr); err == nil {
			params.CategoryID = &categoryID
		}
	}

	result, err := h.productService.ListProducts(c.Request.Context(), *userID, params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Products retrieved successfully", result)
}

// listWithCursor handles listing products with cursor-based pagination
func (h *ProductHandler) listWithCursor(c *gin.Context, userID uuid.UUID, search string) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "15"))
	cursor := c.Query("cursor")
	direction := c.DefaultQuery("direction", "next")

	params := &pagination.CursorParams{
		Cursor:    cursor,
		Direction: pagination.CursorDirection(direction),
		Limit:     limit,
	}

	result, err := h.productService.ListProductsWithCursor(c.Request.Context(), userID, params, search)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, 200, "Products retrieved successfully", result)
}

// Create handles creating a product
func (h *ProductHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CategoryID    *uuid.UUID `json:"category_id"`
		Name          string     `json:"name" binding:"required"`
		Code          string     `json:"code"`
		Quantity      int        `json:"quantity"`
		QuantityAlert int        `json:"quantity_alert"`
		CostPrice     float64    `json:"cost_price"`
		SellingPrice  float64    `json:"selling_price" binding:"required"`
		Notes         *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), &service.CreateProductInput{
		UserID:        *userID,
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Code:          req.Code,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product created successfully", product)
}

// Get handles getting a single product by slug
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// GetByCode handles barcode lookup for the POS screen
func (h *ProductHandler) GetByCode(c *gin.Context) {
	product, err := h.productService.GetProductByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Update handles updating a product
func (h *ProductHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CategoryID    *uuid.UUID `json:"category_id"`
		Name          *string    `json:"name"`
		Code          *string    `json:"code"`
		Quantity      *int       `json:"quantity"`
		QuantityAlert *int       `json:"quantity_alert"`
		CostPrice     *float64   `json:"cost_price"`
		SellingPrice  *float64   `json:"selling_price"`
		Active        *bool      `json:"active"`
		Notes         *string    `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), &service.UpdateProductInput{
		UserID:        *userID,
		ProductSlug:   c.Param("slug"),
		SkipUserCheck: IsAdmin(c),
		CategoryID:    req.CategoryID,
		Name:          req.Name,
		Code:          req.Code,
		Quantity:      req.Quantity,
		QuantityAlert: req.QuantityAlert,
		CostPrice:     req.CostPrice,
		SellingPrice:  req.SellingPrice,
		Active:        req.Active,
		Notes:         req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles deleting a product
func (h *ProductHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), *userID, c.Param("slug"), IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// LowStock handles listing products at or below their alert threshold
func (h *ProductHandler) LowStock(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	products, err := h.productService.GetLowStockProducts(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Low stock products retrieved successfully", products)
}

// CategoryHandler handles category-related HTTP requests
type CategoryHandler struct {
	categoryService *service.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// List handles listing categories
func (h *CategoryHandler) List(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	categories, err := h.categoryService.ListCategories(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Categories retrieved successfully", categories)
}

// Create handles creating a category
func (h *CategoryHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), *userID, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Category created successfully", category)
}

// Get handles getting a single category by slug
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category retrieved successfully", category)
}

// Update handles renaming a category
func (h *CategoryHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), *userID, c.Param("slug"), req.Name, IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Category updated successfully", category)
}

// Delete handles deleting a category
func (h *CategoryHandler) Delete(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	if err := h.categoryService.DeleteCategory(c.Request.Context(), *userID, c.Param("slug"), IsAdmin(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
