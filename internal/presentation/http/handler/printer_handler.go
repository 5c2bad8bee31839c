package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/request"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
)

// PrinterHandler handles printer-related HTTP requests.
type PrinterHandler struct {
	printerService *service.PrinterService
}

// NewPrinterHandler creates a new printer handler.
func NewPrinterHandler(printerService *service.PrinterService) *PrinterHandler {
	return &PrinterHandler{printerService: printerService}
}

// GetStatus probes the receipt and kitchen printers.
func (h *PrinterHandler) GetStatus(c *gin.Context) {
	status := h.printerService.GetStatus(c.Request.Context())
	response.OK(c, "Printer status retrieved", status)
}

// TestPrint sends a sample receipt to the receipt printer.
func (h *PrinterHandler) TestPrint(c *gin.Context) {
	result, err := h.printerService.TestPrint(c.Request.Context())
	respondPrint(c, result, err, "Test page sent to printer")
}

// PrintReceipt reprints the documents of a stored order.
func (h *PrinterHandler) PrintReceipt(c *gin.Context) {
	var req request.PrintReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	printType := service.PrintType(req.PrintType)
	if printType == "" {
		printType = service.PrintBoth
	}

	result, err := h.printerService.PrintOrderByID(c.Request.Context(), req.OrderID, printType)
	respondPrint(c, result, err, "Order printed successfully")
}

// respondPrint reports a partial print as success with a warning, and a
// print where nothing came out as an error.
func respondPrint(c *gin.Context, result *service.PrintResult, err error, message string) {
	if err != nil {
		if result != nil && len(result.Printed) > 0 {
			response.OK(c, "Printed with errors", gin.H{
				"result":  result,
				"warning": err.Error(),
			})
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, message, result)
}

// OpenDrawer kicks the cash drawer.
func (h *PrinterHandler) OpenDrawer(c *gin.Context) {
	if err := h.printerService.OpenDrawer(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Cash drawer opened", nil)
}

// ListPrinters lists the spooler's printers.
func (h *PrinterHandler) ListPrinters(c *gin.Context) {
	printers, err := h.printerService.ListPrinters(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Printers retrieved", printers)
}

// Queue lists pending spooler jobs.
func (h *PrinterHandler) Queue(c *gin.Context) {
	jobs, err := h.printerService.Queue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Print queue retrieved", jobs)
}
