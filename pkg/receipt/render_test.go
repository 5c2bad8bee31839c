package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleOrder() Order {
	return Order{
		Number:        42,
		Type:          "dine_in",
		PaymentMethod: "card",
		CustomerName:  "Sam",
		Notes:         "Allergic to nuts",
		CreatedAt:     time.Date(2024, 3, 9, 18, 5, 0, 0, time.UTC),
		Items: []Item{
			{
				Name:       "Chicken Wrap",
				Quantity:   2,
				UnitPrice:  dec("6.99"),
				TotalPrice: dec("13.98"),
				Note:       "no onion",
				Modifiers: []ItemModifier{
					{Name: "Extra cheese", Price: dec("0.50")},
					{Name: "Mild", Price: dec("0")},
				},
			},
		},
		Subtotal:       dec("13.98"),
		DiscountAmount: dec("1.398"),
		TaxRate:        dec("10"),
		TaxAmount:      dec("1.2582"),
		Total:          dec("13.8402"),
	}
}

func sampleShop() Shop {
	return Shop{
		Name:           "Corner Grill",
		Address:        "1 High Street",
		Phone:          "01234 567890",
		VATNumber:      "GB123",
		TaxLabel:       "VAT",
		CurrencySymbol: "$",
		Footer:         "Thank you!",
	}
}

// flatten renders a document to plain lines the way a simulated printer would.
func flatten(doc *Document) []string {
	var out []string
	for _, in := range doc.Instructions() {
		switch v := in.(type) {
		case Text:
			out = append(out, v.Lines(doc.Width())...)
		case ColumnRow:
			for _, l := range v.Lines() {
				out = append(out, strings.TrimRight(l, " "))
			}
		case Image:
			out = append(out, "[image "+v.Ref+"]")
		case Feed:
			for i := 0; i < v.Lines; i++ {
				out = append(out, "")
			}
		case Cut:
			out = append(out, "[cut]")
		}
	}
	return out
}

func TestRenderCustomerReceipt(t *testing.T) {
	doc := RenderCustomerReceipt(sampleOrder(), sampleShop(), 32, nil)
	lines := flatten(doc)
	text := strings.Join(lines, "\n")

	assert.Equal(t, KindCustomer, doc.Kind())
	assert.Equal(t, "Corner Grill", lines[0])
	assert.Contains(t, lines, "Tel: 01234 567890")
	assert.Contains(t, lines, "DINE IN")
	assert.Contains(t, lines, "Order #42")
	assert.Contains(t, lines, "09/03/2024 18:05")
	assert.Contains(t, lines, "2x Chicken Wrap           $13.98")
	assert.Contains(t, lines, "  + Extra cheese           $0.50")
	assert.Contains(t, lines, "  + Mild")
	assert.Contains(t, lines, "  Note: no onion")
	assert.Contains(t, lines, "Subtotal                  $13.98")
	assert.Contains(t, lines, "Discount                  -$1.40")
	assert.Contains(t, lines, "VAT (10%)                  $1.26")
	assert.Contains(t, lines, "TOTAL                     $13.84")
	assert.Contains(t, lines, "Paid by: CARD")
	assert.Contains(t, lines, "VAT No: GB123")
	assert.Contains(t, lines, "Thank you!")
	assert.NotContains(t, text, "[image")

	require.GreaterOrEqual(t, len(lines), 5)
	assert.Equal(t, []string{"", "", "", "", "[cut]"}, lines[len(lines)-5:])
}

func TestRenderCustomerReceipt_TotalIsBoldTall(t *testing.T) {
	doc := RenderCustomerReceipt(sampleOrder(), sampleShop(), 32, nil)

	var total *ColumnRow
	for _, in := range doc.Instructions() {
		if row, ok := in.(ColumnRow); ok && row.Cells[0] == "TOTAL" {
			total = &row
		}
	}
	require.NotNil(t, total)
	assert.True(t, total.Bold)
	assert.Equal(t, ScaleTall, total.Scale)
}

func TestRenderCustomerReceipt_Assets(t *testing.T) {
	logo := &Bitmap{Width: 8, Height: 1, Data: []byte{0xAA}}
	assets := AssetResolverFunc(func(ref string) (*Bitmap, error) {
		if ref == RefLogo {
			return logo, nil
		}
		return nil, ErrAssetMissing
	})

	doc := RenderCustomerReceipt(sampleOrder(), sampleShop(), 32, assets)

	first, ok := doc.Instructions()[0].(Image)
	require.True(t, ok)
	assert.Equal(t, RefLogo, first.Ref)
	assert.Equal(t, "Corner Grill", first.Fallback[0].Value)

	images := 0
	for _, in := range doc.Instructions() {
		if _, ok := in.(Image); ok {
			images++
		}
	}
	assert.Equal(t, 1, images, "missing QR is left out")
}

func TestRenderCustomerReceipt_NoDiscountDefaultLabel(t *testing.T) {
	order := sampleOrder()
	order.DiscountAmount = decimal.Zero
	shop := sampleShop()
	shop.TaxLabel = ""

	lines := flatten(RenderCustomerReceipt(order, shop, 32, nil))
	text := strings.Join(lines, "\n")

	assert.NotContains(t, text, "Discount")
	assert.Contains(t, text, "Tax (10%)")
	assert.Contains(t, text, "TOTAL")
}

func TestRenderKitchenDocket(t *testing.T) {
	doc := RenderKitchenDocket(sampleOrder(), 32)
	lines := flatten(doc)
	text := strings.Join(lines, "\n")

	assert.Equal(t, KindKitchen, doc.Kind())
	assert.Equal(t, "#42", lines[0])
	assert.Contains(t, lines, "DINE IN")
	assert.Contains(t, lines, "Customer: Sam")
	assert.Contains(t, lines, "2x Chicken Wrap")
	assert.Contains(t, lines, "  + Extra cheese")
	assert.Contains(t, lines, "  *** no onion ***")
	assert.Contains(t, lines, "Items: 2")
	assert.Contains(t, lines, "NOTES: Allergic to nuts")
	assert.Equal(t, []string{"", "", "", "", "[cut]"}, lines[len(lines)-5:])

	assert.NotContains(t, text, "$")
	assert.NotContains(t, text, "TOTAL")
	assert.NotContains(t, text, "13.98")
	for _, in := range doc.Instructions() {
		_, isRow := in.(ColumnRow)
		assert.False(t, isRow, "kitchen docket has no price columns")
	}
}

func TestOrderTypeLabel(t *testing.T) {
	tests := map[string]string{
		"dine_in":      "DINE IN",
		"online":       "ONLINE ORDER",
		"takeaway":     "TAKEAWAY",
		"click-and_go": "CLICK AND GO",
	}
	for in, want := range tests {
		assert.Equal(t, want, OrderTypeLabel(in), in)
	}
}
