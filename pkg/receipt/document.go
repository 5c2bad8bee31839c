package receipt

import (
	"strings"
	"unicode/utf8"
)

// Align is the horizontal alignment of a text line, column or image.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Scale is the character magnification of a text line.
type Scale int

const (
	ScaleNormal Scale = iota
	ScaleWide         // double width
	ScaleTall         // double height
	ScaleDouble       // double width + double height
)

// DoubleWidth reports whether characters are printed at twice their width.
func (s Scale) DoubleWidth() bool {
	return s == ScaleWide || s == ScaleDouble
}

// DoubleHeight reports whether characters are printed at twice their height.
func (s Scale) DoubleHeight() bool {
	return s == ScaleTall || s == ScaleDouble
}

// Kind names the purpose of a document.
type Kind string

const (
	KindCustomer Kind = "customer"
	KindKitchen  Kind = "kitchen"
)

// Instruction is one drawing step of a Document. The concrete types are
// Text, Image, ColumnRow, Feed and Cut.
type Instruction interface {
	instruction()
}

// Text prints a single line.
type Text struct {
	Value string
	Align Align
	Scale Scale
	Bold  bool
}

// Image prints a raster bitmap. Fallback is printed instead when the bitmap
// is missing or malformed.
type Image struct {
	Ref      string
	Bitmap   *Bitmap
	Align    Align
	Fallback []Text
}

// ColumnRow prints cells side by side. Widths are in characters; a cell that
// does not fit wraps onto continuation lines.
type ColumnRow struct {
	Cells  []string
	Widths []int
	Aligns []Align
	Bold   bool
	Scale  Scale
}

// Feed advances the paper by Lines empty lines.
type Feed struct {
	Lines int
}

// Cut cuts the paper.
type Cut struct{}

func (Text) instruction()      {}
func (Image) instruction()     {}
func (ColumnRow) instruction() {}
func (Feed) instruction()      {}
func (Cut) instruction()       {}

// Document is an ordered, immutable list of drawing instructions. Build one
// with a Builder.
type Document struct {
	kind         Kind
	width        int
	instructions []Instruction
}

// Kind returns the document kind.
func (d *Document) Kind() Kind { return d.kind }

// Width returns the paper width in characters at normal scale.
func (d *Document) Width() int { return d.width }

// Len returns the number of instructions.
func (d *Document) Len() int { return len(d.instructions) }

// Instructions returns a copy of the instruction list.
func (d *Document) Instructions() []Instruction {
	out := make([]Instruction, len(d.instructions))
	copy(out, d.instructions)
	return out
}

// Lines wraps the text to a paper of width characters, accounting for
// double-width scaling. Alignment is left to the printer.
func (t Text) Lines(width int) []string {
	if t.Scale.DoubleWidth() {
		width /= 2
	}
	if utf8.RuneCountInString(t.Value) <= width {
		return []string{t.Value}
	}
	return Wrap(t.Value, width)
}

// Lines returns the row as printable lines, each exactly the sum of the
// column widths. Cells wider than their column wrap at word boundaries.
func (r ColumnRow) Lines() []string {
	cols := len(r.Cells)
	if len(r.Widths) < cols {
		cols = len(r.Widths)
	}
	if cols == 0 {
		return nil
	}

	wrapped := make([][]string, cols)
	height := 1
	for i := 0; i < cols; i++ {
		wrapped[i] = Wrap(r.Cells[i], r.Widths[i])
		if len(wrapped[i]) > height {
			height = len(wrapped[i])
		}
	}

	lines := make([]string, height)
	for row := 0; row < height; row++ {
		var sb strings.Builder
		for i := 0; i < cols; i++ {
			cell := ""
			if row < len(wrapped[i]) {
				cell = wrapped[i][row]
			}
			align := AlignLeft
			if i < len(r.Aligns) {
				align = r.Aligns[i]
			}
			sb.WriteString(Pad(cell, r.Widths[i], align))
		}
		lines[row] = sb.String()
	}
	return lines
}

// Pad fits s into exactly width characters using the given alignment.
// Longer strings are truncated.
func Pad(s string, width int, align Align) string {
	if width <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(s)
	if n > width {
		return string([]rune(s)[:width])
	}
	gap := width - n
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + s
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}

// Wrap splits s into lines of at most width characters, breaking on spaces
// where possible. An empty string yields one empty line.
func Wrap(s string, width int) []string {
	if width <= 0 {
		return []string{""}
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur []rune
	for _, w := range words {
		word := []rune(w)
		for len(word) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(word[:width]))
			word = word[width:]
		}
		switch {
		case len(cur) == 0:
			cur = word
		case len(cur)+1+len(word) <= width:
			cur = append(append(cur, ' '), word...)
		default:
			lines = append(lines, string(cur))
			cur = word
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}
