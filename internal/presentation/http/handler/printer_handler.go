package handler

import (
	"github.com/ezequiel-pelliza/cajaclara/internal/application/service"
	"github.com/ezequiel-pelliza/cajaclara/internal/presentation/http/dto/response"
	"github.com/ezequiel-pelliza/cajaclara/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// PrinterHandler handles receipt printing
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus returns the printer connection status
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	response.OK(c, "Printer status retrieved", h.printerService.GetStatus(c.Request.Context()))
}

// PrintSale prints the ticket of a recorded sale
func (h *PrinterHandler) PrintSale(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	receipt, err := h.printerService.PrintSale(c.Request.Context(), id)
	if err != nil {
		// the receipt is still shown on screen when only the printer failed
		if receipt != nil && apperror.IsCollaborator(err) {
			_ = c.Error(err)
			response.OK(c, "Receipt generated but printing failed", gin.H{
				"receipt": receipt,
				"warning": apperror.GetAppError(err).Message,
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Receipt printed", gin.H{"receipt": receipt})
}
