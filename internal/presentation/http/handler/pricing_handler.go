package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/request"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
)

// PricingHandler prices carts for the till
type PricingHandler struct {
	pricingService *service.PricingService
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *service.PricingService) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// Quote prices a cart with an optional discount or coupon
// @Summary Price a cart
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body request.QuoteRequest true "Cart"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 422 {object} response.APIResponse
// @Router /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req request.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	quote, err := h.pricingService.Quote(c.Request.Context(), &service.QuoteInput{
		Items:    toCartItems(req.Items),
		Discount: toDiscount(req.Discount),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Cart priced successfully", quote)
}
