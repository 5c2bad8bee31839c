package pricing

import (
	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// ErrValidation marks malformed pricing input. Orders carrying it are rejected
// before anything is committed.
var ErrValidation = errors.New("validation error")

// ValidateLines rejects empty carts, quantities below one and negative prices.
func ValidateLines(lines []CartLine) error {
	if len(lines) == 0 {
		return errors.Mark(errors.New("cart must contain at least one line"), ErrValidation)
	}

	for i, l := range lines {
		if l.Quantity < 1 {
			return errors.Mark(errors.Newf("line %d (%s): quantity must be at least 1", i+1, l.ProductID), ErrValidation)
		}
		if l.UnitBasePrice.IsNegative() {
			return errors.Mark(errors.Newf("line %d (%s): price must not be negative", i+1, l.ProductID), ErrValidation)
		}
		for _, m := range l.Modifiers {
			if m.Price.IsNegative() {
				return errors.Mark(errors.Newf("line %d (%s): modifier %q price must not be negative", i+1, l.ProductID, m.Name), ErrValidation)
			}
		}
	}
	return nil
}

// ValidateDiscount rejects negative values and percentages above 100.
// A nil discount is valid.
func ValidateDiscount(d *Discount) error {
	if d == nil {
		return nil
	}

	if d.Value.IsNegative() {
		return errors.Mark(errors.Newf("%s discount must not be negative", d.Type), ErrValidation)
	}

	kind := d.Type
	if kind == DiscountTypeCoupon {
		kind = d.CouponType
		if d.MaxDiscount != nil && d.MaxDiscount.IsNegative() {
			return errors.Mark(errors.New("coupon max discount must not be negative"), ErrValidation)
		}
	}

	switch kind {
	case DiscountTypePercentage:
		if d.Value.GreaterThan(hundred) {
			return errors.Mark(errors.New("percentage discount must not exceed 100"), ErrValidation)
		}
	case DiscountTypeFixed:
	default:
		return errors.Mark(errors.Newf("unknown discount type %q", d.Type), ErrValidation)
	}
	return nil
}

// ValidateTaxRate rejects negative tax rates.
func ValidateTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return errors.Mark(errors.New("tax rate must not be negative"), ErrValidation)
	}
	return nil
}

// IsValidation reports whether err carries ErrValidation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
