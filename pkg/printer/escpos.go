package printer

import (
	"bytes"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/sangkips/counterpos/pkg/receipt"
)

// ESC/POS command constants
const (
	ESC = 0x1B
	GS  = 0x1D
	LF  = 0x0A
)

// Print mode bits for ESC ! n
const (
	ModeEmphasized   = 0x08
	ModeDoubleHeight = 0x10
	ModeDoubleWidth  = 0x20
)

// command accumulates an ESC/POS byte stream.
type command struct {
	buf bytes.Buffer
}

// Init sends ESC @ and selects code page 437.
func (c *command) Init() *command {
	c.buf.Write([]byte{ESC, '@'})
	c.buf.Write([]byte{ESC, 't', 0x00})
	return c
}

// SetAlign sends ESC a n.
func (c *command) SetAlign(align receipt.Align) *command {
	c.buf.Write([]byte{ESC, 'a', byte(align)})
	return c
}

// SetMode sends ESC ! n for the given scale and weight.
func (c *command) SetMode(scale receipt.Scale, bold bool) *command {
	c.buf.Write([]byte{ESC, '!', modeByte(scale, bold)})
	return c
}

// Text writes s in CP437 followed by a line feed.
func (c *command) Text(s string) *command {
	c.buf.Write(encodeCP437(s))
	c.buf.WriteByte(LF)
	return c
}

// FeedLines sends n line feeds.
func (c *command) FeedLines(n int) *command {
	for i := 0; i < n; i++ {
		c.buf.WriteByte(LF)
	}
	return c
}

// Raster sends GS v 0 with the bitmap. The caller validates bm first.
func (c *command) Raster(bm *receipt.Bitmap) *command {
	c.buf.Write(RasterHeader(bm.BytesPerRow(), bm.Height))
	c.buf.Write(bm.Data)
	return c
}

// Cut sends GS V 0 (full cut).
func (c *command) Cut() *command {
	c.buf.Write([]byte{GS, 'V', 0x00})
	return c
}

// Drawer pulses the cash drawer kick pin 2: ESC p 0 25 250.
func (c *command) Drawer() *command {
	c.buf.Write([]byte{ESC, 'p', 0x00, 0x19, 0xFA})
	return c
}

func (c *command) Bytes() []byte {
	return c.buf.Bytes()
}

// RasterHeader returns GS v 0 m xL xH yL yH for normal density, where x is
// the row length in bytes and y the height in dots.
func RasterHeader(bytesPerRow, height int) []byte {
	return []byte{
		GS, 'v', '0', 0x00,
		byte(bytesPerRow & 0xFF), byte(bytesPerRow >> 8),
		byte(height & 0xFF), byte(height >> 8),
	}
}

func modeByte(scale receipt.Scale, bold bool) byte {
	var n byte
	if bold {
		n |= ModeEmphasized
	}
	if scale.DoubleHeight() {
		n |= ModeDoubleHeight
	}
	if scale.DoubleWidth() {
		n |= ModeDoubleWidth
	}
	return n
}

func encodeCP437(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x80 {
			out = append(out, byte(r))
			continue
		}
		if b, ok := charmap.CodePage437.EncodeRune(r); ok {
			out = append(out, b)
			continue
		}
		out = append(out, '?')
	}
	return out
}

// Encoder translates documents into ESC/POS bytes.
type Encoder struct {
	logger *zap.SugaredLogger
}

// NewEncoder creates an encoder. A nil logger discards warnings.
func NewEncoder(logger *zap.SugaredLogger) *Encoder {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Encoder{logger: logger}
}

// Encode returns the byte stream for doc. Images whose bitmap is malformed
// are replaced by their fallback text.
func (e *Encoder) Encode(doc *receipt.Document) []byte {
	c := &command{}
	c.Init()

	for _, in := range doc.Instructions() {
		switch v := in.(type) {
		case receipt.Text:
			e.text(c, v, doc.Width())
		case receipt.ColumnRow:
			c.SetAlign(receipt.AlignLeft).SetMode(v.Scale, v.Bold)
			for _, line := range v.Lines() {
				c.Text(line)
			}
		case receipt.Image:
			if err := v.Bitmap.Validate(); err != nil {
				e.logger.Warnw("image unusable, printing fallback", "ref", v.Ref, "error", err)
				for _, t := range v.Fallback {
					e.text(c, t, doc.Width())
				}
				continue
			}
			c.SetAlign(v.Align).SetMode(receipt.ScaleNormal, false).Raster(v.Bitmap)
		case receipt.Feed:
			c.FeedLines(v.Lines)
		case receipt.Cut:
			c.Cut()
		}
	}

	c.SetAlign(receipt.AlignLeft).SetMode(receipt.ScaleNormal, false)
	return c.Bytes()
}

// DrawerKick returns a stream that only opens the cash drawer.
func (e *Encoder) DrawerKick() []byte {
	c := &command{}
	return c.Init().Drawer().Bytes()
}

func (e *Encoder) text(c *command, t receipt.Text, width int) {
	c.SetAlign(t.Align).SetMode(t.Scale, t.Bold)
	for _, line := range t.Lines(width) {
		c.Text(line)
	}
}
