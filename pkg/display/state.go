package display

import (
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultWidth is the number of characters per display line.
const DefaultWidth = 20

// Kind identifies what a State shows.
type Kind int

const (
	KindWelcome Kind = iota
	KindItemAdded
	KindTotal
	KindBlank
)

func (k Kind) String() string {
	switch k {
	case KindWelcome:
		return "welcome"
	case KindItemAdded:
		return "item_added"
	case KindTotal:
		return "total"
	case KindBlank:
		return "blank"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// State is one screen of the customer display.
type State struct {
	Kind         Kind            `json:"kind"`
	ItemName     string          `json:"item_name,omitempty"`
	ItemPrice    decimal.Decimal `json:"item_price"`
	RunningTotal decimal.Decimal `json:"running_total"`
}

// Welcome is shown while the cart is empty.
func Welcome() State {
	return State{Kind: KindWelcome}
}

// ItemAdded shows the item just added and the new cart total.
func ItemAdded(name string, price, runningTotal decimal.Decimal) State {
	return State{Kind: KindItemAdded, ItemName: name, ItemPrice: price, RunningTotal: runningTotal}
}

// Total shows only the cart total.
func Total(amount decimal.Decimal) State {
	return State{Kind: KindTotal, RunningTotal: amount}
}

// Blank clears the display.
func Blank() State {
	return State{Kind: KindBlank}
}

// Format holds the text settings of a display.
type Format struct {
	Width          int
	Title          string
	Greeting       string
	CurrencySymbol string
}

func (f Format) width() int {
	if f.Width <= 0 {
		return DefaultWidth
	}
	return f.Width
}

// Lines returns the two lines for s, each exactly f.Width characters and
// centered within it.
func (s State) Lines(f Format) (string, string) {
	w := f.width()
	sym := f.CurrencySymbol

	var l1, l2 string
	switch s.Kind {
	case KindWelcome:
		l1, l2 = f.Title, f.Greeting
	case KindItemAdded:
		l1 = justify(s.ItemName, sym+s.ItemPrice.StringFixed(2), w)
		l2 = justify("Total:", sym+s.RunningTotal.StringFixed(2), w)
	case KindTotal:
		l1 = "TOTAL"
		l2 = justify("Total:", sym+s.RunningTotal.StringFixed(2), w)
	}
	return center(l1, w), center(l2, w)
}

// justify puts left and right at opposite ends of a w-wide line, truncating
// left so at least one space separates them.
func justify(left, right string, w int) string {
	rw := utf8.RuneCountInString(right)
	maxLeft := w - rw - 1
	if maxLeft < 0 {
		return truncate(right, w)
	}
	left = truncate(left, maxLeft)
	gap := w - utf8.RuneCountInString(left) - rw
	return left + strings.Repeat(" ", gap) + right
}

func center(s string, w int) string {
	s = truncate(strings.TrimSpace(s), w)
	n := utf8.RuneCountInString(s)
	pad := (w - n) / 2
	return strings.Repeat(" ", pad) + s + strings.Repeat(" ", w-pad-n)
}

func truncate(s string, w int) string {
	if utf8.RuneCountInString(s) <= w {
		return s
	}
	return string([]rune(s)[:w])
}

// CartAction is the kind of cart mutation that triggered a display update.
type CartAction string

const (
	CartItemAdded   CartAction = "added"
	CartItemUpdated CartAction = "updated"
	CartItemRemoved CartAction = "removed"
	CartCleared     CartAction = "cleared"
)

// CartEvent describes a cart mutation.
type CartEvent struct {
	Action    CartAction      `json:"action"`
	ItemName  string          `json:"item_name"`
	ItemPrice decimal.Decimal `json:"item_price"`
	CartTotal decimal.Decimal `json:"cart_total"`
	ItemCount int             `json:"item_count"`
}

// StateForCart picks the display state for a cart mutation: Welcome when
// the cart is empty, ItemAdded right after an add, Total otherwise.
func StateForCart(ev CartEvent) State {
	switch {
	case ev.ItemCount <= 0 || ev.Action == CartCleared:
		return Welcome()
	case ev.Action == CartItemAdded:
		return ItemAdded(ev.ItemName, ev.ItemPrice, ev.CartTotal)
	default:
		return Total(ev.CartTotal)
	}
}
