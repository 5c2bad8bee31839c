package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/sangkips/counterpos/internal/domain/entity"
	"github.com/sangkips/counterpos/internal/domain/repository"
	"github.com/sangkips/counterpos/pkg/apperror"
	"github.com/sangkips/counterpos/pkg/pricing"
)

// PricingService prices carts against the current menu, coupons and tax rate.
// Prices always come from the menu, never from the client.
type PricingService struct {
	productRepo repository.ProductRepository
	couponRepo  repository.CouponRepository
	settings    *SettingsService
	now         func() time.Time
}

// NewPricingService creates a new pricing service
func NewPricingService(
	productRepo repository.ProductRepository,
	couponRepo repository.CouponRepository,
	settings *SettingsService,
) *PricingService {
	return &PricingService{
		productRepo: productRepo,
		couponRepo:  couponRepo,
		settings:    settings,
		now:         time.Now,
	}
}

// CartItemInput represents one cart line as sent by the till
type CartItemInput struct {
	ProductID   uuid.UUID
	Quantity    int
	ModifierIDs []uuid.UUID
	Note        string
}

// DiscountInput selects a manual discount or a coupon. CouponCode wins
// when both are given.
type DiscountInput struct {
	Type       pricing.DiscountType
	Value      decimal.Decimal
	CouponCode string
}

// QuoteInput represents a cart to price
type QuoteInput struct {
	Items    []CartItemInput
	Discount *DiscountInput
}

// QuoteLine is a priced cart line
type QuoteLine struct {
	ProductID  uuid.UUID          `json:"product_id"`
	Name       string             `json:"name"`
	Quantity   int                `json:"quantity"`
	UnitPrice  decimal.Decimal    `json:"unit_price"`
	TotalPrice decimal.Decimal    `json:"total_price"`
	Modifiers  []pricing.Modifier `json:"modifiers,omitempty"`
	Note       string             `json:"note,omitempty"`
}

// Quote is a priced cart. Totals are rounded to cents.
type Quote struct {
	Lines    []QuoteLine         `json:"lines"`
	Totals   pricing.PricedOrder `json:"totals"`
	Discount *pricing.Discount   `json:"discount,omitempty"`

	coupon *entity.Coupon
	raw    pricing.PricedOrder
}

// Quote prices the cart
func (s *PricingService) Quote(ctx context.Context, input *QuoteInput) (*Quote, error) {
	lines, err := s.resolveLines(ctx, input.Items)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateLines(lines); err != nil {
		return nil, err
	}

	quote := &Quote{}
	subtotal := pricing.Subtotal(lines)

	if input.Discount != nil {
		quote.Discount, quote.coupon, err = s.resolveDiscount(ctx, input.Discount, subtotal)
		if err != nil {
			return nil, err
		}
	}

	taxRate, err := s.settings.TaxRate(ctx)
	if err != nil {
		return nil, err
	}

	quote.raw = pricing.Calculate(lines, quote.Discount, taxRate)
	quote.Totals = quote.raw.Rounded()
	quote.Lines = lo.Map(lines, func(l pricing.CartLine, _ int) QuoteLine {
		return QuoteLine{
			ProductID:  uuid.MustParse(l.ProductID),
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice(),
			TotalPrice: l.TotalPrice(),
			Modifiers:  l.Modifiers,
			Note:       l.Note,
		}
	})
	return quote, nil
}

func (s *PricingService) resolveLines(ctx context.Context, items []CartItemInput) ([]pricing.CartLine, error) {
	ids := lo.Map(items, func(i CartItemInput, _ int) uuid.UUID { return i.ProductID })
	products, err := s.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	lines := make([]pricing.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok || !product.IsAvailable {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", item.ProductID))
		}

		line := pricing.CartLine{
			ProductID:     product.ID.String(),
			Name:          product.Name,
			UnitBasePrice: product.Price,
			Quantity:      item.Quantity,
			Note:          item.Note,
		}
		for _, modID := range item.ModifierIDs {
			mod, ok := product.Modifier(modID)
			if !ok {
				return nil, apperror.NewNotFoundError(fmt.Sprintf("Modifier %s", modID))
			}
			line.Modifiers = append(line.Modifiers, pricing.Modifier{
				ID:    mod.ID.String(),
				Name:  mod.Name,
				Price: mod.Price,
			})
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *PricingService) resolveDiscount(ctx context.Context, input *DiscountInput, subtotal decimal.Decimal) (*pricing.Discount, *entity.Coupon, error) {
	if input.CouponCode != "" {
		coupon, err := s.couponRepo.GetByCode(ctx, input.CouponCode)
		if err != nil {
			return nil, nil, err
		}
		var rule *pricing.Coupon
		if coupon != nil {
			rule = coupon.Rule()
		}
		discount, err := pricing.ValidateCoupon(rule, subtotal, s.now())
		if err != nil {
			return nil, nil, err
		}
		return discount, coupon, nil
	}

	var discount *pricing.Discount
	switch input.Type {
	case "":
		return nil, nil, nil
	case pricing.DiscountTypePercentage:
		discount = pricing.PercentageDiscount(input.Value)
	case pricing.DiscountTypeFixed:
		discount = pricing.FixedDiscount(input.Value)
	default:
		discount = &pricing.Discount{Type: input.Type, Value: input.Value}
	}
	if err := pricing.ValidateDiscount(discount); err != nil {
		return nil, nil, err
	}
	return discount, nil, nil
}
