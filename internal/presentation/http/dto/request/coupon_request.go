package request

import (
	"time"

	"github.com/shopspring/decimal"
)

// CouponRequest creates or replaces a coupon
type CouponRequest struct {
	Code           string           `json:"code" binding:"required,max=64"`
	Description    string           `json:"description" binding:"max=255"`
	Type           string           `json:"type" binding:"required,oneof=percentage fixed"`
	Value          decimal.Decimal  `json:"value"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	MaxDiscount    *decimal.Decimal `json:"max_discount"`
	UsageLimit     *int             `json:"usage_limit"`
	StartsAt       *time.Time       `json:"starts_at"`
	ExpiresAt      *time.Time       `json:"expires_at"`
	IsActive       *bool            `json:"is_active"`
}

// ValidateCouponRequest checks a code against a cart subtotal
type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}
