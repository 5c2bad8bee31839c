package receipt

import (
	"strings"
	"unicode/utf8"
)

// DefaultWidth is the character width of 58mm paper.
const DefaultWidth = 32

// Builder accumulates instructions for a Document.
//
//	doc := receipt.NewBuilder(receipt.KindCustomer, 32).
//		Center("My Shop").
//		Divider('-').
//		KeyValue("Subtotal", "$10.00").
//		Feed(4).
//		Cut().
//		Build()
type Builder struct {
	kind         Kind
	width        int
	instructions []Instruction
}

// NewBuilder creates a builder for a document of the given kind and width.
// A width of zero or less selects DefaultWidth.
func NewBuilder(kind Kind, width int) *Builder {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Builder{kind: kind, width: width}
}

// Width returns the character width documents are built for.
func (b *Builder) Width() int {
	return b.width
}

// Add appends raw instructions.
func (b *Builder) Add(in ...Instruction) *Builder {
	b.instructions = append(b.instructions, in...)
	return b
}

// Text appends a text line.
func (b *Builder) Text(t Text) *Builder {
	return b.Add(t)
}

// Left appends a left-aligned normal line.
func (b *Builder) Left(s string) *Builder {
	return b.Add(Text{Value: s, Align: AlignLeft})
}

// Center appends a centered normal line.
func (b *Builder) Center(s string) *Builder {
	return b.Add(Text{Value: s, Align: AlignCenter})
}

// Divider appends a full-width line of ch.
func (b *Builder) Divider(ch rune) *Builder {
	return b.Add(Text{Value: strings.Repeat(string(ch), b.width)})
}

// Columns appends a column row.
func (b *Builder) Columns(row ColumnRow) *Builder {
	return b.Add(row)
}

// KeyValue appends a row with key on the left and value right-aligned.
func (b *Builder) KeyValue(key, value string) *Builder {
	return b.Columns(b.keyValueRow(key, value, ScaleNormal))
}

// KeyValueScaled is KeyValue with a character scale and weight.
func (b *Builder) KeyValueScaled(key, value string, scale Scale, bold bool) *Builder {
	row := b.keyValueRow(key, value, scale)
	row.Bold = bold
	return b.Columns(row)
}

func (b *Builder) keyValueRow(key, value string, scale Scale) ColumnRow {
	width := b.width
	if scale.DoubleWidth() {
		width /= 2
	}
	vw := utf8.RuneCountInString(value)
	if vw >= width {
		vw = width / 2
	}
	return ColumnRow{
		Cells:  []string{key, value},
		Widths: []int{width - vw, vw},
		Aligns: []Align{AlignLeft, AlignRight},
		Scale:  scale,
	}
}

// Image appends an image resolved from ref. When the resolver is nil or
// cannot produce the asset, the fallback lines are appended instead.
func (b *Builder) Image(ref string, resolver AssetResolver, align Align, fallback ...Text) *Builder {
	if resolver != nil {
		if bm, err := resolver.Resolve(ref); err == nil && bm != nil {
			return b.Add(Image{Ref: ref, Bitmap: bm, Align: align, Fallback: fallback})
		}
	}
	for _, t := range fallback {
		b.Add(t)
	}
	return b
}

// Feed appends n blank lines.
func (b *Builder) Feed(n int) *Builder {
	if n <= 0 {
		return b
	}
	return b.Add(Feed{Lines: n})
}

// Cut appends a paper cut.
func (b *Builder) Cut() *Builder {
	return b.Add(Cut{})
}

// Build returns the finished document. The builder may keep being used;
// later additions do not affect documents already built.
func (b *Builder) Build() *Document {
	out := make([]Instruction, len(b.instructions))
	copy(out, b.instructions)
	return &Document{kind: b.kind, width: b.width, instructions: out}
}
