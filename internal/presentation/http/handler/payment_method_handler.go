package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// PaymentMethodHandler handles payment method HTTP requests
type PaymentMethodHandler struct {
	methodService *service.PaymentMethodService
}

// NewPaymentMethodHandler creates a new payment method handler
func NewPaymentMethodHandler(methodService *service.PaymentMethodService) *PaymentMethodHandler {
	return &PaymentMethodHandler{methodService: methodService}
}

// List handles listing payment methods
func (h *PaymentMethodHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	methods, err := h.methodService.ListPaymentMethods(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment methods retrieved successfully", methods)
}

// Create handles creating a payment method
func (h *PaymentMethodHandler) Create(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		Kind            string `json:"kind" binding:"required"`
		MaxInstallments int    `json:"max_installments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := h.methodService.CreatePaymentMethod(c.Request.Context(), &service.CreatePaymentMethodInput{
		Name:            req.Name,
		Kind:            req.Kind,
		MaxInstallments: req.MaxInstallments,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment method created successfully", method)
}

// Get handles getting a single payment method
func (h *PaymentMethodHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	method, err := h.methodService.GetPaymentMethod(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method retrieved successfully", method)
}

// Update handles updating a payment method
func (h *PaymentMethodHandler) Update(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		Name            *string `json:"name"`
		MaxInstallments *int    `json:"max_installments"`
		Active          *bool   `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	method, err := h.methodService.UpdatePaymentMethod(c.Request.Context(), &service.UpdatePaymentMethodInput{
		ID:              id,
		Name:            req.Name,
		MaxInstallments: req.MaxInstallments,
		Active:          req.Active,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment method updated successfully", method)
}

// Delete handles deactivating a payment method
func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.methodService.DeletePaymentMethod(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
