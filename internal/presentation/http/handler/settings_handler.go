package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// SettingsHandler handles store settings HTTP requests
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// Get returns the user's store settings
func (h *SettingsHandler) Get(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	settings, err := h.settingsService.GetSettings(c.Request.Context(), *userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings retrieved successfully", settings)
}

// Update saves the user's store settings
func (h *SettingsHandler) Update(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req struct {
		StoreName     *string `json:"store_name"`
		ReceiptHeader *string `json:"receipt_header"`
		ReceiptFooter *string `json:"receipt_footer"`
		CurrencyCode  *string `json:"currency_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), &service.UpdateSettingsInput{
		UserID:        *userID,
		StoreName:     req.StoreName,
		ReceiptHeader: req.ReceiptHeader,
		ReceiptFooter: req.ReceiptFooter,
		CurrencyCode:  req.CurrencyCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Settings updated successfully", settings)
}
