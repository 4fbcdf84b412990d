package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/mvcardoso/pdv-api/internal/application/service"
	"github.com/mvcardoso/pdv-api/internal/presentation/http/dto/response"
)

// PrinterHandler handles receipt printer HTTP requests
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// Status returns the configured printer and its availability
func (h *PrinterHandler) Status(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus())
}

// Test prints a short test receipt
func (h *PrinterHandler) Test(c *gin.Context) {
	receipt, err := h.printerService.TestPrint()
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Test receipt printed", receipt)
}

// PrintOrder reprints the receipt of an existing order
func (h *PrinterHandler) PrintOrder(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.printerService.PrintOrderReceipt(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Receipt printed", receipt)
}
