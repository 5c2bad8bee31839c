package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/request"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
	"github.com/sangkips/counterpos/pkg/display"
)

// DisplayHandler handles customer display HTTP requests
type DisplayHandler struct {
	displayService *service.DisplayService
}

// NewDisplayHandler creates a new display handler
func NewDisplayHandler(displayService *service.DisplayService) *DisplayHandler {
	return &DisplayHandler{displayService: displayService}
}

// Connect opens the display port
func (h *DisplayHandler) Connect(c *gin.Context) {
	var req request.DisplayConnectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	status, err := h.displayService.Connect(c.Request.Context(), req.Port, req.BaudRate)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Display connected", status)
}

// Disconnect closes the display port
func (h *DisplayHandler) Disconnect(c *gin.Context) {
	response.OK(c, "Display disconnected", h.displayService.Disconnect())
}

// Status returns the display state
func (h *DisplayHandler) Status(c *gin.Context) {
	response.OK(c, "Display status retrieved", h.displayService.Status())
}

// Ports lists serial ports
func (h *DisplayHandler) Ports(c *gin.Context) {
	ports, err := h.displayService.Ports()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Serial ports retrieved", ports)
}

// Cart updates the display for a cart change. The till is never blocked on
// the display: a disconnected display is reported, not treated as an error.
func (h *DisplayHandler) Cart(c *gin.Context) {
	var req request.CartEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	shown := h.displayService.CartChanged(display.CartEvent{
		Action:    display.CartAction(req.Action),
		ItemName:  req.ItemName,
		ItemPrice: req.ItemPrice,
		CartTotal: req.CartTotal,
		ItemCount: req.ItemCount,
	})
	response.OK(c, "Display updated", gin.H{"shown": shown})
}

// Welcome shows the greeting
func (h *DisplayHandler) Welcome(c *gin.Context) {
	response.OK(c, "Display updated", gin.H{"shown": h.displayService.ShowWelcome()})
}
