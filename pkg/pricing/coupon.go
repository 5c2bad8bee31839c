package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// ErrCoupon marks every coupon rejection. Use AsCouponError to get the code.
var ErrCoupon = errors.New("coupon rejected")

// CouponErrorCode identifies why a coupon was rejected.
type CouponErrorCode string

const (
	CouponErrorNotFound          CouponErrorCode = "COUPON_NOT_FOUND"
	CouponErrorInactive          CouponErrorCode = "COUPON_INACTIVE"
	CouponErrorExpired           CouponErrorCode = "COUPON_EXPIRED"
	CouponErrorNotYetValid       CouponErrorCode = "COUPON_NOT_YET_VALID"
	CouponErrorUsageLimitReached CouponErrorCode = "COUPON_USAGE_LIMIT_REACHED"
	CouponErrorBelowMinimum      CouponErrorCode = "COUPON_BELOW_MINIMUM"
)

func (c CouponErrorCode) String() string {
	return string(c)
}

// CouponError is a user-facing coupon rejection.
type CouponError struct {
	Code    CouponErrorCode        `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *CouponError) Error() string {
	return e.Message
}

// Is makes errors.Is(err, ErrCoupon) hold for any CouponError.
func (e *CouponError) Is(target error) bool {
	return target == ErrCoupon
}

// NewCouponError builds a CouponError with the default message for code.
func NewCouponError(code CouponErrorCode) *CouponError {
	return &CouponError{Code: code, Message: couponMessages[code]}
}

var couponMessages = map[CouponErrorCode]string{
	CouponErrorNotFound:          "Invalid coupon code",
	CouponErrorInactive:          "This coupon is no longer active",
	CouponErrorExpired:           "This coupon has expired",
	CouponErrorNotYetValid:       "This coupon is not yet valid",
	CouponErrorUsageLimitReached: "This coupon has reached its usage limit",
	CouponErrorBelowMinimum:      "Order total is below the coupon minimum",
}

// AsCouponError extracts a CouponError from err.
func AsCouponError(err error) (*CouponError, bool) {
	var cerr *CouponError
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}

// IsCouponError reports whether err is a coupon rejection.
func IsCouponError(err error) bool {
	return errors.Is(err, ErrCoupon)
}

// Coupon is the rule set of a named discount as persisted by the back office.
type Coupon struct {
	Code           string
	Type           DiscountType
	Value          decimal.Decimal
	MinOrderAmount *decimal.Decimal
	MaxDiscount    *decimal.Decimal
	UsageLimit     *int
	UsageCount     int
	StartsAt       *time.Time
	ExpiresAt      *time.Time
	IsActive       bool
}

// NormalizeCouponCode returns the canonical, case-insensitive form of a code.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidateCoupon checks c against the pre-discount subtotal at time now and
// returns the discount it grants. A nil coupon means the code was unknown.
//
// The coupon's usage count is not touched.
func ValidateCoupon(c *Coupon, subtotal decimal.Decimal, now time.Time) (*Discount, error) {
	if c == nil {
		return nil, NewCouponError(CouponErrorNotFound)
	}

	if !c.IsActive {
		return nil, NewCouponError(CouponErrorInactive)
	}

	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		cerr := NewCouponError(CouponErrorExpired)
		cerr.Details = map[string]interface{}{"expires_at": c.ExpiresAt}
		return nil, cerr
	}

	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		cerr := NewCouponError(CouponErrorNotYetValid)
		cerr.Details = map[string]interface{}{"starts_at": c.StartsAt}
		return nil, cerr
	}

	if c.UsageLimit != nil && c.UsageCount >= *c.UsageLimit {
		return nil, NewCouponError(CouponErrorUsageLimitReached)
	}

	if c.MinOrderAmount != nil && subtotal.LessThan(*c.MinOrderAmount) {
		return nil, &CouponError{
			Code:    CouponErrorBelowMinimum,
			Message: fmt.Sprintf("Minimum order amount of %s required", c.MinOrderAmount.StringFixed(2)),
			Details: map[string]interface{}{
				"min_order_amount": c.MinOrderAmount.StringFixed(2),
				"subtotal":         subtotal.StringFixed(2),
			},
		}
	}

	return CouponDiscount(NormalizeCouponCode(c.Code), c.Type, c.Value, c.MaxDiscount), nil
}
