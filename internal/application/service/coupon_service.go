package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/internal/logger"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/pagination"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// CouponService handles coupon administration and validation
type CouponService struct {
	couponRepo repository.CouponRepository
	logger     *logger.Logger
	now        func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(couponRepo repository.CouponRepository, log *logger.Logger) *CouponService {
	return &CouponService{
		couponRepo: couponRepo,
		logger:     log.Named("coupon"),
		now:        time.Now,
	}
}

// CouponInput represents the create/update coupon input
type CouponInput struct {
	Code           string
	Description    string
	Type           pricing.DiscountType
	Value          decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	IsActive       *bool
}

func (in *CouponInput) validate() error {
	var fieldErrors []apperror.FieldError
	if pricing.NormalizeCouponCode(in.Code) == "" {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "code", Message: "Code is required"})
	}
	discount := pricing.CouponDiscount(in.Code, in.Type, in.Value, in.MaxDiscount)
	if err := pricing.ValidateDiscount(discount); err != nil {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "value", Message: err.Error()})
	}
	if in.MinOrderAmount != nil && in.MinOrderAmount.IsNegative() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "min_order_amount", Message: "Minimum order amount must not be negative"})
	}
	if in.UsageLimit != nil && *in.UsageLimit < 0 {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "usage_limit", Message: "Usage limit must not be negative"})
	}
	if in.StartsAt != nil && in.ExpiresAt != nil && in.ExpiresAt.Before(*in.StartsAt) {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "expires_at", Message: "Expiry must be after start"})
	}
	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

func (in *CouponInput) apply(c *entity.Coupon) {
	c.Code = pricing.NormalizeCouponCode(in.Code)
	c.Description = strings.TrimSpace(in.Description)
	c.Type = in.Type
	c.Value = in.Value
	c.MinOrderAmount = in.MinOrderAmount
	c.MaxDiscount = in.MaxDiscount
	c.UsageLimit = in.UsageLimit
	c.StartsAt = in.StartsAt
	c.ExpiresAt = in.ExpiresAt
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

// CreateCoupon creates a new coupon. Codes are unique ignoring case.
func (s *CouponService) CreateCoupon(ctx context.Context, input *CouponInput) (*entity.Coupon, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	existing, err := s.couponRepo.GetByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("Coupon code already exists")
	}

	coupon := &entity.Coupon{IsActive: true}
	input.apply(coupon)
	if err := s.couponRepo.Create(ctx, coupon); err != nil {
		return nil, err
	}

	s.logger.Infow("coupon created", "code", coupon.Code, "type", coupon.Type, "value", coupon.Value.String())
	return coupon, nil
}

// GetCoupon returns a coupon by ID
func (s *CouponService) GetCoupon(ctx context.Context, id uuid.UUID) (*entity.Coupon, error) {
	coupon, err := s.couponRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, apperror.NewNotFoundError("Coupon")
	}
	return coupon, nil
}

// UpdateCoupon replaces a coupon's rules. The usage count is kept.
func (s *CouponService) UpdateCoupon(ctx context.Context, id uuid.UUID, input *CouponInput) (*entity.Coupon, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	coupon, err := s.GetCoupon(ctx, id)
	if err != nil {
		return nil, err
	}

	if pricing.NormalizeCouponCode(input.Code) != coupon.Code {
		existing, err := s.couponRepo.GetByCode(ctx, input.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != coupon.ID {
			return nil, apperror.NewConflictError("Coupon code already exists")
		}
	}

	input.apply(coupon)
	if err := s.couponRepo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// DeleteCoupon removes a coupon
func (s *CouponService) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCoupon(ctx, id); err != nil {
		return err
	}
	return s.couponRepo.Delete(ctx, id)
}

// ListCoupons returns a page of coupons
func (s *CouponService) ListCoupons(ctx context.Context, params *repository.CouponFilterParams) (*pagination.PaginatedResult[entity.Coupon], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()

	coupons, total, err := s.couponRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.FromParams(coupons, params.Pagination, total), nil
}

// CouponValidation is the result of checking a code against a subtotal
type CouponValidation struct {
	ID             uuid.UUID            `json:"id"`
	Code           string               `json:"code"`
	Type           pricing.DiscountType `json:"type"`
	Value          decimal.Decimal      `json:"value"`
	MaxDiscount    *decimal.Decimal     `json:"max_discount,omitempty"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
}

// ValidateCoupon checks a code against a subtotal without redeeming it
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponValidation, error) {
	coupon, err := s.couponRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var rule *pricing.Coupon
	if coupon != nil {
		rule = coupon.Rule()
	}
	discount, err := pricing.ValidateCoupon(rule, subtotal, s.now())
	if err != nil {
		return nil, err
	}

	return &CouponValidation{
		ID:             coupon.ID,
		Code:           coupon.Code,
		Type:           coupon.Type,
		Value:          coupon.Value,
		MaxDiscount:    coupon.MaxDiscount,
		DiscountAmount: discount.Amount(subtotal).Round(2),
	}, nil
}
