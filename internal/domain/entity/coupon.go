package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sangkips/counterpos/pkg/pricing"
)

// Coupon is a named discount managed from the back office
type Coupon struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key" json:"id"`
	Code           string               `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description    string               `gorm:"type:text" json:"description,omitempty"`
	Type           pricing.DiscountType `gorm:"size:20;not null" json:"type"`
	Value          decimal.Decimal      `gorm:"type:numeric(12,2);not null" json:"value"`
	MinOrderAmount *decimal.Decimal     `gorm:"type:numeric(12,2)" json:"min_order_amount,omitempty"`
	MaxDiscount    *decimal.Decimal     `gorm:"type:numeric(12,2)" json:"max_discount,omitempty"`
	UsageLimit     *int                 `json:"usage_limit,omitempty"`
	UsageCount     int                  `gorm:"default:0;not null" json:"usage_count"`
	StartsAt       *time.Time           `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time           `json:"expires_at,omitempty"`
	IsActive       bool                 `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	DeletedAt      gorm.DeletedAt       `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID and normalizes the code before creating a coupon
func (c *Coupon) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Code = pricing.NormalizeCouponCode(c.Code)
	return nil
}

// BeforeSave keeps stored codes upper-case
func (c *Coupon) BeforeSave(tx *gorm.DB) error {
	c.Code = pricing.NormalizeCouponCode(c.Code)
	return nil
}

// TableName returns the table name for the Coupon model
func (Coupon) TableName() string {
	return "coupons"
}

// Rule converts the stored coupon to the rule set the pricing engine validates
func (c *Coupon) Rule() *pricing.Coupon {
	return &pricing.Coupon{
		Code:           c.Code,
		Type:           c.Type,
		Value:          c.Value,
		MinOrderAmount: c.MinOrderAmount,
		MaxDiscount:    c.MaxDiscount,
		UsageLimit:     c.UsageLimit,
		UsageCount:     c.UsageCount,
		StartsAt:       c.StartsAt,
		ExpiresAt:      c.ExpiresAt,
		IsActive:       c.IsActive,
	}
}

// CouponRedemption records that a coupon was used by an order. The unique
// index on (coupon_id, order_id) makes redemption idempotent per order.
type CouponRedemption struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CouponID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_coupon_order"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BeforeCreate generates a UUID before creating a redemption
func (r *CouponRedemption) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for CouponRedemption
func (CouponRedemption) TableName() string {
	return "coupon_redemptions"
}
