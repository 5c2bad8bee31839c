package pricing

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Modifier is a selected product option priced on top of the base price.
type Modifier struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// CartLine is a single product line in a cart or order.
type CartLine struct {
	ProductID     string          `json:"product_id"`
	Name          string          `json:"name"`
	UnitBasePrice decimal.Decimal `json:"unit_base_price"`
	Quantity      int             `json:"quantity"`
	Modifiers     []Modifier      `json:"modifiers,omitempty"`
	Note          string          `json:"note,omitempty"`
}

// UnitPrice returns the base price plus all modifier prices.
func (l CartLine) UnitPrice() decimal.Decimal {
	unit := l.UnitBasePrice
	for _, m := range l.Modifiers {
		unit = unit.Add(m.Price)
	}
	return unit
}

// TotalPrice returns UnitPrice multiplied by the quantity.
func (l CartLine) TotalPrice() decimal.Decimal {
	return l.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PricedOrder holds the monetary breakdown of an order at full precision.
type PricedOrder struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxRate        decimal.Decimal `json:"tax_rate"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	Total          decimal.Decimal `json:"total"`
}

// AfterDiscount returns the subtotal net of the discount.
func (p PricedOrder) AfterDiscount() decimal.Decimal {
	return p.Subtotal.Sub(p.DiscountAmount)
}

// Rounded returns a copy with every amount rounded to 2 decimal places.
// The tax rate is left untouched.
func (p PricedOrder) Rounded() PricedOrder {
	return PricedOrder{
		Subtotal:       p.Subtotal.Round(2),
		DiscountAmount: p.DiscountAmount.Round(2),
		TaxRate:        p.TaxRate,
		TaxAmount:      p.TaxAmount.Round(2),
		Total:          p.Total.Round(2),
	}
}

// Subtotal sums the line totals without rounding.
func Subtotal(lines []CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.TotalPrice())
	}
	return subtotal
}

// Calculate prices the cart. discount may be nil. taxRate is a percentage (10 means 10%).
//
// Inputs are expected to have passed ValidateLines and ValidateDiscount.
func Calculate(lines []CartLine, discount *Discount, taxRate decimal.Decimal) PricedOrder {
	subtotal := Subtotal(lines)

	discountAmount := decimal.Zero
	if discount != nil {
		discountAmount = discount.Amount(subtotal)
	}

	afterDiscount := subtotal.Sub(discountAmount)
	tax := afterDiscount.Mul(taxRate).Div(hundred)

	return PricedOrder{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxRate:        taxRate,
		TaxAmount:      tax,
		Total:          afterDiscount.Add(tax),
	}
}
