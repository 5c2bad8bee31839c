package pricing

import (
	"github.com/shopspring/decimal"
)

// DiscountType is the kind of discount applied to an order.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
	DiscountTypeCoupon     DiscountType = "coupon"
)

func (t DiscountType) String() string {
	return string(t)
}

// Discount describes a discount before it is resolved against a subtotal.
//
// For DiscountTypeCoupon, CouponType selects whether Value is a percentage
// or a fixed amount and MaxDiscount optionally caps the result.
type Discount struct {
	Type        DiscountType     `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	CouponCode  string           `json:"coupon_code,omitempty"`
	CouponType  DiscountType     `json:"coupon_type,omitempty"`
	MaxDiscount *decimal.Decimal `json:"max_discount,omitempty"`
}

// PercentageDiscount returns a discount of value percent of the subtotal.
func PercentageDiscount(value decimal.Decimal) *Discount {
	return &Discount{Type: DiscountTypePercentage, Value: value}
}

// FixedDiscount returns a discount of a fixed amount.
func FixedDiscount(value decimal.Decimal) *Discount {
	return &Discount{Type: DiscountTypeFixed, Value: value}
}

// CouponDiscount returns a discount backed by a validated coupon.
func CouponDiscount(code string, couponType DiscountType, value decimal.Decimal, maxDiscount *decimal.Decimal) *Discount {
	return &Discount{
		Type:        DiscountTypeCoupon,
		Value:       value,
		CouponCode:  code,
		CouponType:  couponType,
		MaxDiscount: maxDiscount,
	}
}

// Amount resolves the discount against subtotal. The result is always
// within [0, subtotal].
func (d Discount) Amount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal

	switch d.Type {
	case DiscountTypePercentage:
		amount = percentOf(subtotal, d.Value)
	case DiscountTypeFixed:
		amount = d.Value
	case DiscountTypeCoupon:
		if d.CouponType == DiscountTypePercentage {
			amount = percentOf(subtotal, d.Value)
		} else {
			amount = d.Value
		}
		if d.MaxDiscount != nil && amount.GreaterThan(*d.MaxDiscount) {
			amount = *d.MaxDiscount
		}
	default:
		amount = decimal.Zero
	}

	return clamp(amount, decimal.Zero, subtotal)
}

func percentOf(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

func clamp(v, lo, hi decimal.Decimal) decimal.Decimal {
	if hi.LessThan(lo) {
		hi = lo
	}
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
