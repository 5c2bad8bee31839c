package receipt

import (
	"image"

	"github.com/cockroachdb/errors"
)

var (
	// ErrAssetMissing is returned by an AssetResolver that has nothing for a ref.
	ErrAssetMissing = errors.New("asset missing")
	// ErrMalformedBitmap is returned by Bitmap.Validate.
	ErrMalformedBitmap = errors.New("malformed bitmap")
)

// AssetResolver supplies bitmaps for image refs such as "logo" and "qr".
type AssetResolver interface {
	Resolve(ref string) (*Bitmap, error)
}

// AssetResolverFunc adapts a function to AssetResolver.
type AssetResolverFunc func(ref string) (*Bitmap, error)

// Resolve calls f(ref).
func (f AssetResolverFunc) Resolve(ref string) (*Bitmap, error) {
	return f(ref)
}

// Bitmap is a 1-bit raster image. Rows are packed MSB first, each row padded
// to a whole byte; a set bit prints a black dot.
type Bitmap struct {
	Width  int // dots
	Height int // dots
	Data   []byte
}

// BytesPerRow returns the packed row length.
func (b *Bitmap) BytesPerRow() int {
	return (b.Width + 7) / 8
}

// Validate checks the dimensions against the data length.
func (b *Bitmap) Validate() error {
	if b == nil {
		return errors.Mark(errors.New("nil bitmap"), ErrMalformedBitmap)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return errors.Mark(errors.Newf("invalid size %dx%d", b.Width, b.Height), ErrMalformedBitmap)
	}
	if b.BytesPerRow() > 0xFFFF || b.Height > 0xFFFF {
		return errors.Mark(errors.Newf("size %dx%d exceeds raster limits", b.Width, b.Height), ErrMalformedBitmap)
	}
	if want := b.BytesPerRow() * b.Height; len(b.Data) != want {
		return errors.Mark(errors.Newf("have %d bytes, want %d", len(b.Data), want), ErrMalformedBitmap)
	}
	return nil
}

// Dot reports whether the dot at (x, y) is black.
func (b *Bitmap) Dot(x, y int) bool {
	i := y*b.BytesPerRow() + x/8
	return b.Data[i]&(0x80>>uint(x%8)) != 0
}

// RasterFromImage converts img to a bitmap no wider than maxWidth dots,
// scaling down with nearest-neighbour sampling. Dots darker than mid-grey
// are black; transparent pixels are white.
func RasterFromImage(img image.Image, maxWidth int) *Bitmap {
	bounds := img.Bounds()
	srcW, srcH := bounds.Dx(), bounds.Dy()
	if srcW <= 0 || srcH <= 0 {
		return &Bitmap{}
	}

	w, h := srcW, srcH
	if maxWidth > 0 && w > maxWidth {
		w = maxWidth
		h = srcH * maxWidth / srcW
		if h < 1 {
			h = 1
		}
	}

	bm := &Bitmap{Width: w, Height: h}
	bpr := bm.BytesPerRow()
	bm.Data = make([]byte, bpr*h)

	for y := 0; y < h; y++ {
		sy := bounds.Min.Y + y*srcH/h
		for x := 0; x < w; x++ {
			sx := bounds.Min.X + x*srcW/w
			if isDark(img, sx, sy) {
				bm.Data[y*bpr+x/8] |= 0x80 >> uint(x%8)
			}
		}
	}
	return bm
}

func isDark(img image.Image, x, y int) bool {
	r, g, b, a := img.At(x, y).RGBA()
	if a < 0x8000 {
		return false
	}
	lum := (299*r + 587*g + 114*b) / 1000
	return lum < 0x8000
}
