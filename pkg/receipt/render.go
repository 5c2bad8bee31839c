package receipt

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Asset refs looked up through the AssetResolver.
const (
	RefLogo = "logo"
	RefQR   = "qr"
)

const timestampLayout = "02/01/2006 15:04"

// Shop holds the settings printed on customer receipts.
type Shop struct {
	Name           string
	Address        string
	Phone          string
	VATNumber      string
	TaxLabel       string // defaults to "Tax"
	CurrencySymbol string
	Footer         string
}

// ItemModifier is a modifier as printed under its item.
type ItemModifier struct {
	Name  string
	Price decimal.Decimal
}

// Item is a resolved order line.
type Item struct {
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	Note       string
	Modifiers  []ItemModifier
}

// Order is a priced order ready to be printed.
type Order struct {
	Number         int
	Type           string
	PaymentMethod  string
	CustomerName   string
	Notes          string
	CreatedAt      time.Time
	Items          []Item
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxRate        decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
}

var orderTypeLabels = map[string]string{
	"dine_in":  "DINE IN",
	"takeaway": "TAKEAWAY",
	"delivery": "DELIVERY",
	"online":   "ONLINE ORDER",
}

// OrderTypeLabel returns the printed label for an order type.
func OrderTypeLabel(orderType string) string {
	if label, ok := orderTypeLabels[orderType]; ok {
		return label
	}
	return strings.ToUpper(strings.NewReplacer("_", " ", "-", " ").Replace(orderType))
}

func money(symbol string, amount decimal.Decimal) string {
	return symbol + amount.StringFixed(2)
}

// RenderCustomerReceipt lays out the customer receipt for order. Missing
// logo or QR assets degrade to text or are left out.
func RenderCustomerReceipt(order Order, shop Shop, width int, assets AssetResolver) *Document {
	b := NewBuilder(KindCustomer, width)
	sym := shop.CurrencySymbol

	b.Image(RefLogo, assets, AlignCenter,
		Text{Value: shop.Name, Align: AlignCenter, Scale: ScaleDouble, Bold: true})
	if shop.Address != "" {
		b.Center(shop.Address)
	}
	if shop.Phone != "" {
		b.Center("Tel: " + shop.Phone)
	}
	b.Divider('-')

	b.Text(Text{Value: OrderTypeLabel(order.Type), Align: AlignCenter, Scale: ScaleTall, Bold: true})
	b.Text(Text{Value: fmt.Sprintf("Order #%d", order.Number), Align: AlignCenter, Scale: ScaleDouble})
	b.Center(order.CreatedAt.Format(timestampLayout))
	b.Divider('-')

	for _, item := range order.Items {
		b.KeyValue(fmt.Sprintf("%dx %s", item.Quantity, item.Name), money(sym, item.TotalPrice))
		for _, mod := range item.Modifiers {
			if mod.Price.IsPositive() {
				b.KeyValue("  + "+mod.Name, money(sym, mod.Price))
			} else {
				b.Left("  + " + mod.Name)
			}
		}
		if item.Note != "" {
			b.Left("  Note: " + item.Note)
		}
	}
	b.Divider('-')

	b.KeyValue("Subtotal", money(sym, order.Subtotal))
	if order.DiscountAmount.IsPositive() {
		b.KeyValue("Discount", "-"+money(sym, order.DiscountAmount))
	}
	label := shop.TaxLabel
	if label == "" {
		label = "Tax"
	}
	b.KeyValue(fmt.Sprintf("%s (%s%%)", label, order.TaxRate.String()), money(sym, order.TaxAmount))
	b.KeyValueScaled("TOTAL", money(sym, order.Total), ScaleTall, true)
	b.Divider('-')

	if order.PaymentMethod != "" {
		b.Center("Paid by: " + strings.ToUpper(order.PaymentMethod))
	}
	if shop.VATNumber != "" {
		b.Center("VAT No: " + shop.VATNumber)
	}
	if shop.Footer != "" {
		b.Feed(1)
		b.Center(shop.Footer)
	}
	b.Image(RefQR, assets, AlignCenter)

	return b.Feed(4).Cut().Build()
}

// RenderKitchenDocket lays out the kitchen docket for order. It never prints
// prices.
func RenderKitchenDocket(order Order, width int) *Document {
	b := NewBuilder(KindKitchen, width)

	b.Text(Text{Value: fmt.Sprintf("#%d", order.Number), Align: AlignCenter, Scale: ScaleDouble, Bold: true})
	b.Text(Text{Value: OrderTypeLabel(order.Type), Align: AlignCenter, Scale: ScaleTall, Bold: true})
	b.Center(order.CreatedAt.Format(timestampLayout))
	b.Divider('=')

	if order.CustomerName != "" {
		b.Left("Customer: " + order.CustomerName)
		b.Divider('=')
	}

	for _, item := range order.Items {
		b.Text(Text{Value: fmt.Sprintf("%dx %s", item.Quantity, item.Name), Scale: ScaleTall, Bold: true})
		for _, mod := range item.Modifiers {
			b.Left("  + " + mod.Name)
		}
		if item.Note != "" {
			b.Text(Text{Value: fmt.Sprintf("  *** %s ***", item.Note), Bold: true})
		}
		b.Feed(1)
	}

	count := lo.SumBy(order.Items, func(it Item) int { return it.Quantity })
	b.Left(fmt.Sprintf("Items: %d", count))

	if order.Notes != "" {
		b.Divider('=')
		b.Text(Text{Value: "NOTES: " + order.Notes, Bold: true})
	}
	b.Divider('=')

	return b.Feed(4).Cut().Build()
}
