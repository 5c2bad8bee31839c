package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sangkips/counterpos/internal/application/service"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/request"
	"github.com/sangkips/counterpos/internal/presentation/http/dto/response"
	"github.com/sangkips/counterpos/pkg/pagination"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// CouponHandler handles coupon HTTP requests
type CouponHandler struct {
	couponService *service.CouponService
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(couponService *service.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func toCouponInput(req *request.CouponRequest) *service.CouponInput {
	return &service.CouponInput{
		Code:           req.Code,
		Description:    req.Description,
		Type:           pricing.DiscountType(req.Type),
		Value:          req.Value,
		MinOrderAmount: req.MinOrderAmount,
		MaxDiscount:    req.MaxDiscount,
		UsageLimit:     req.UsageLimit,
		StartsAt:       req.StartsAt,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       req.IsActive,
	}
}

// List returns a page of coupons
func (h *CouponHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "15"))
	activeOnly, _ := strconv.ParseBool(c.Query("active"))

	result, err := h.couponService.ListCoupons(c.Request.Context(), &repository.CouponFilterParams{
		Pagination: &pagination.PaginationParams{Page: page, PerPage: perPage},
		Search:     c.Query("search"),
		ActiveOnly: activeOnly,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, 200, "Coupons retrieved successfully", result)
}

// Create adds a coupon
func (h *CouponHandler) Create(c *gin.Context) {
	var req request.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	coupon, err := h.couponService.CreateCoupon(c.Request.Context(), toCouponInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Coupon created successfully", coupon)
}

// Get returns one coupon
func (h *CouponHandler) Get(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	coupon, err := h.couponService.GetCoupon(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon retrieved successfully", coupon)
}

// Update replaces a coupon's rules
func (h *CouponHandler) Update(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	var req request.CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	coupon, err := h.couponService.UpdateCoupon(c.Request.Context(), id, toCouponInput(&req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon updated successfully", coupon)
}

// Delete removes a coupon
func (h *CouponHandler) Delete(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid coupon ID")
		return
	}

	if err := h.couponService.DeleteCoupon(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Validate checks a code against a subtotal without redeeming it
// @Summary Validate coupon
// @Tags coupons
// @Accept json
// @Produce json
// @Param request body request.ValidateCouponRequest true "Code and subtotal"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse "error_code names the rejection"
// @Router /coupons/validate [post]
func (h *CouponHandler) Validate(c *gin.Context) {
	var req request.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.couponService.ValidateCoupon(c.Request.Context(), req.Code, req.Subtotal)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Coupon is valid", result)
}
