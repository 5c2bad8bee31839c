package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest is one cart line sent by the till. Prices are looked up
// server side.
type CartItemRequest struct {
	ProductID   uuid.UUID   `json:"product_id" binding:"required"`
	Quantity    int         `json:"quantity"`
	ModifierIDs []uuid.UUID `json:"modifier_ids"`
	Note        string      `json:"note" binding:"max=255"`
}

// DiscountRequest selects a manual discount or a coupon code
type DiscountRequest struct {
	Type       string          `json:"type" binding:"omitempty,oneof=percentage fixed"`
	Value      decimal.Decimal `json:"value"`
	CouponCode string          `json:"coupon_code" binding:"max=64"`
}

// QuoteRequest prices a cart without committing it
type QuoteRequest struct {
	Items    []CartItemRequest `json:"items" binding:"required,dive"`
	Discount *DiscountRequest  `json:"discount"`
}
