package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCartLine_TotalPrice(t *testing.T) {
	line := CartLine{
		ProductID:     "kebab",
		UnitBasePrice: d("8.50"),
		Quantity:      3,
		Modifiers: []Modifier{
			{ID: "m1", Name: "Extra cheese", Price: d("0.75")},
			{ID: "m2", Name: "Garlic sauce", Price: d("0")},
		},
	}

	assert.True(t, d("9.25").Equal(line.UnitPrice()))
	assert.True(t, d("27.75").Equal(line.TotalPrice()))
}

func TestCalculate_PercentageDiscountWithTax(t *testing.T) {
	lines := []CartLine{{ProductID: "wrap", UnitBasePrice: d("6.99"), Quantity: 2}}

	got := Calculate(lines, PercentageDiscount(d("10")), d("10"))

	assert.Equal(t, "13.98", got.Subtotal.String())
	assert.Equal(t, "1.398", got.DiscountAmount.String())
	assert.Equal(t, "12.582", got.AfterDiscount().String())
	assert.Equal(t, "1.2582", got.TaxAmount.String())
	assert.Equal(t, "13.8402", got.Total.String())
	assert.Equal(t, "$13.84", FormatMoney("$", got.Total))

	rounded := got.Rounded()
	assert.Equal(t, "13.84", rounded.Total.StringFixed(2))
	assert.Equal(t, "1.40", rounded.DiscountAmount.StringFixed(2))
	assert.Equal(t, "10", rounded.TaxRate.String())
}

func TestCalculate_NoDiscount(t *testing.T) {
	lines := []CartLine{
		{ProductID: "a", UnitBasePrice: d("5"), Quantity: 1},
		{ProductID: "b", UnitBasePrice: d("2.50"), Quantity: 2},
	}

	got := Calculate(lines, nil, d("20"))

	assert.Equal(t, "10", got.Subtotal.String())
	assert.True(t, got.DiscountAmount.IsZero())
	assert.Equal(t, "2", got.TaxAmount.String())
	assert.Equal(t, "12", got.Total.String())
}

func TestCalculate_DiscountClamping(t *testing.T) {
	lines := []CartLine{{ProductID: "a", UnitBasePrice: d("12.00"), Quantity: 1}}
	maxCap := d("3")

	tests := []struct {
		name     string
		discount *Discount
		want     string
	}{
		{name: "fixed above subtotal clamps to subtotal", discount: FixedDiscount(d("50")), want: "12"},
		{name: "fixed below subtotal", discount: FixedDiscount(d("2.5")), want: "2.5"},
		{name: "percentage 100", discount: PercentageDiscount(d("100")), want: "12"},
		{name: "coupon percentage capped", discount: CouponDiscount("SAVE50", DiscountTypePercentage, d("50"), &maxCap), want: "3"},
		{name: "coupon fixed uncapped", discount: CouponDiscount("FIVE", DiscountTypeFixed, d("5"), nil), want: "5"},
		{name: "coupon fixed above subtotal", discount: CouponDiscount("BIG", DiscountTypeFixed, d("100"), nil), want: "12"},
		{name: "negative fixed clamps to zero", discount: FixedDiscount(d("-4")), want: "0"},
		{name: "unknown type is no discount", discount: &Discount{Type: "bogus", Value: d("4")}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(lines, tt.discount, d("10"))
			assert.Equal(t, tt.want, got.DiscountAmount.String())
			assert.False(t, got.Total.IsNegative())
		})
	}
}

func TestCalculate_TotalMatchesFormula(t *testing.T) {
	carts := [][]CartLine{
		{{UnitBasePrice: d("0.01"), Quantity: 1}},
		{{UnitBasePrice: d("3.33"), Quantity: 3}, {UnitBasePrice: d("1.10"), Quantity: 7}},
		{{UnitBasePrice: d("19.99"), Quantity: 1, Modifiers: []Modifier{{Price: d("1.01")}}}},
	}
	discounts := []*Discount{nil, FixedDiscount(d("1")), PercentageDiscount(d("15")), FixedDiscount(d("0"))}
	rates := []decimal.Decimal{d("0"), d("10"), d("12.5"), d("20")}

	for _, cart := range carts {
		for _, disc := range discounts {
			for _, rate := range rates {
				got := Calculate(cart, disc, rate)
				want := got.Subtotal.Sub(got.DiscountAmount).Mul(decimal.NewFromInt(1).Add(rate.Div(d("100"))))
				assert.True(t, want.Round(2).Equal(got.Total.Round(2)), "total %s want %s", got.Total, want)
				assert.False(t, got.Total.IsNegative())
			}
		}
	}
}

func TestCalculate_MonotonicInQuantity(t *testing.T) {
	discount := FixedDiscount(d("5"))
	prev := decimal.Zero
	for qty := 1; qty <= 20; qty++ {
		lines := []CartLine{
			{UnitBasePrice: d("2.35"), Quantity: qty},
			{UnitBasePrice: d("1.00"), Quantity: 1},
		}
		got := Calculate(lines, discount, d("10"))
		require.True(t, got.Total.GreaterThanOrEqual(prev), "qty %d total %s < %s", qty, got.Total, prev)
		prev = got.Total
	}
}
