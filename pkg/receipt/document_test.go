package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_BuildIsImmutable(t *testing.T) {
	b := NewBuilder(KindCustomer, 0)
	doc := b.Center("hello").Cut().Build()

	b.Left("later")

	assert.Equal(t, DefaultWidth, doc.Width())
	assert.Equal(t, 2, doc.Len())

	ins := doc.Instructions()
	ins[0] = Feed{Lines: 9}
	assert.Equal(t, Text{Value: "hello", Align: AlignCenter}, doc.Instructions()[0])
}

func TestBuilder_Divider(t *testing.T) {
	doc := NewBuilder(KindKitchen, 10).Divider('=').Build()

	require.Equal(t, 1, doc.Len())
	assert.Equal(t, "==========", doc.Instructions()[0].(Text).Value)
}

func TestBuilder_KeyValue(t *testing.T) {
	doc := NewBuilder(KindCustomer, 20).KeyValue("Subtotal", "$10.00").Build()

	row := doc.Instructions()[0].(ColumnRow)
	assert.Equal(t, []int{14, 6}, row.Widths)
	assert.Equal(t, []string{"Subtotal      $10.00"}, row.Lines())
}

func TestBuilder_ImageFallback(t *testing.T) {
	fallback := Text{Value: "SHOP", Align: AlignCenter, Scale: ScaleDouble, Bold: true}
	missing := AssetResolverFunc(func(string) (*Bitmap, error) { return nil, ErrAssetMissing })
	found := AssetResolverFunc(func(string) (*Bitmap, error) {
		return &Bitmap{Width: 8, Height: 1, Data: []byte{0xFF}}, nil
	})

	tests := []struct {
		name     string
		resolver AssetResolver
		want     Instruction
	}{
		{name: "nil resolver", resolver: nil, want: fallback},
		{name: "missing asset", resolver: missing, want: fallback},
		{name: "found", resolver: found, want: Image{
			Ref:      RefLogo,
			Bitmap:   &Bitmap{Width: 8, Height: 1, Data: []byte{0xFF}},
			Align:    AlignCenter,
			Fallback: []Text{fallback},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := NewBuilder(KindCustomer, 32).Image(RefLogo, tt.resolver, AlignCenter, fallback).Build()
			require.Equal(t, 1, doc.Len())
			assert.Equal(t, tt.want, doc.Instructions()[0])
		})
	}
}

func TestColumnRow_LinesWrap(t *testing.T) {
	row := ColumnRow{
		Cells:  []string{"2x Large pepperoni pizza", "$24.00"},
		Widths: []int{14, 6},
		Aligns: []Align{AlignLeft, AlignRight},
	}

	assert.Equal(t, []string{
		"2x Large      $24.00",
		"pepperoni           ",
		"pizza               ",
	}, row.Lines())
}

func TestPad(t *testing.T) {
	assert.Equal(t, "ab   ", Pad("ab", 5, AlignLeft))
	assert.Equal(t, "   ab", Pad("ab", 5, AlignRight))
	assert.Equal(t, " ab  ", Pad("ab", 5, AlignCenter))
	assert.Equal(t, "abc", Pad("abcdef", 3, AlignLeft))
	assert.Equal(t, "", Pad("x", 0, AlignLeft))
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{""}, Wrap("", 10))
	assert.Equal(t, []string{"one two", "three"}, Wrap("one two three", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, Wrap("abcdefghij", 4))
}

func TestText_LinesDoubleWidth(t *testing.T) {
	txt := Text{Value: "DOUBLE WIDE TEXT", Scale: ScaleDouble}

	assert.Equal(t, []string{"DOUBLE", "WIDE", "TEXT"}, txt.Lines(16))
	assert.Equal(t, []string{"DOUBLE WIDE TEXT"}, Text{Value: "DOUBLE WIDE TEXT"}.Lines(16))
}
