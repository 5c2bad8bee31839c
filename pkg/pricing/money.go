package pricing

import (
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount with the currency symbol, rounded to 2 decimal
// places half away from zero.
func FormatMoney(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}
