package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/domain/pos"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// POSHandler handles the point-of-sale ticket endpoints
type POSHandler struct {
	posService *service.POSService
}

// NewPOSHandler creates a new POS handler
func NewPOSHandler(posService *service.POSService) *POSHandler {
	return &POSHandler{posService: posService}
}

// ticketError maps ticket domain errors onto HTTP status codes before falling
// back to the generic error response.
func ticketError(c *gin.Context, err error) {
	var npErr *pos.NotPostableError
	switch {
	case errors.As(err, &npErr):
		c.JSON(422, response.APIResponse{
			Success: false,
			Message: npErr.Error(),
			Errors:  gin.H{"reason": npErr.Reason},
		})
	case errors.Is(err, pos.ErrInvalidQuantity),
		errors.Is(err, pos.ErrInvalidAmount),
		errors.Is(err, pos.ErrInvalidDiscount),
		errors.Is(err, pos.ErrInvalidInstallment),
		errors.Is(err, pos.ErrIndexOutOfRange):
		response.BadRequest(c, err.Error())
	case errors.Is(err, pos.ErrPaymentNotNeeded):
		response.ErrorWithCode(c, 409, err.Error())
	default:
		response.Error(c, err)
	}
}

// GetTicket returns the operator's current ticket
func (h *POSHandler) GetTicket(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.posService.GetTicket(c.Request.Context(), *userID)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Ticket retrieved successfully", view)
}

// ClearTicket discards the current ticket
func (h *POSHandler) ClearTicket(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	view, err := h.posService.ClearTicket(c.Request.Context(), *userID)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Ticket cleared", view)
}

// AddItem adds a product to the ticket by ID or barcode
func (h *POSHandler) AddItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		ProductID *uuid.UUID `json:"product_id"`
		Code      string     `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.posService.AddItem(c.Request.Context(), *userID, req.ProductID, req.Code)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Item added", view)
}

// UpdateItem changes a line item's quantity
func (h *POSHandler) UpdateItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.posService.SetItemQuantity(c.Request.Context(), *userID, index, req.Quantity)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Item updated", view)
}

// RemoveItem removes the line item at the given position
func (h *POSHandler) RemoveItem(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	view, err := h.posService.RemoveItem(c.Request.Context(), *userID, index)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Item removed", view)
}

// SetDiscount sets the ticket's manual discount
func (h *POSHandler) SetDiscount(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.posService.SetDiscount(c.Request.Context(), *userID, req.Amount)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Discount applied", view)
}

// SetCustomer attaches a customer to the ticket
func (h *POSHandler) SetCustomer(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		CustomerID uuid.UUID `json:"customer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.posService.SetCustomer(c.Request.Context(), *userID, req.CustomerID)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Customer set", view)
}

// AddPayment adds a payment allocation covering the remaining balance
func (h *POSHandler) AddPayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		PaymentMethodID uuid.UUID `json:"payment_method_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	view, err := h.posService.AddPayment(c.Request.Context(), *userID, req.PaymentMethodID)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Payment added", view)
}

// UpdatePayment changes a payment allocation's amount and/or installments
func (h *POSHandler) UpdatePayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	var req struct {
		Amount       *float64 `json:"amount"`
		Installments *int     `json:"installments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.Amount == nil && req.Installments == nil {
		response.BadRequest(c, "Nothing to update")
		return
	}

	view, err := h.posService.UpdatePayment(c.Request.Context(), *userID, index, req.Amount, req.Installments)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Payment updated", view)
}

// RemovePayment removes the payment allocation at the given position
func (h *POSHandler) RemovePayment(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	index, ok := parseIndexParam(c, "index")
	if !ok {
		return
	}

	view, err := h.posService.RemovePayment(c.Request.Context(), *userID, index)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.OK(c, "Payment removed", view)
}

// Checkout finalizes the ticket into an order
func (h *POSHandler) Checkout(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	result, err := h.posService.Checkout(c.Request.Context(), *userID)
	if err != nil {
		ticketError(c, err)
		return
	}

	response.Created(c, "Sale completed successfully", result)
}
