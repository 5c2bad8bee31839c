package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/counterpos/pkg/receipt"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.SetGray(x, 0, color.Gray{Y: 0xFF})
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestResolver_LoadsAndCaches(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.png")
	writePNG(t, logo, 800, 100)

	r := NewResolver(map[string]string{receipt.RefLogo: logo, receipt.RefQR: ""}, 384, 0)

	bm, err := r.Resolve(receipt.RefLogo)
	require.NoError(t, err)
	assert.Equal(t, 384, bm.Width)
	assert.Equal(t, 48, bm.Height)
	assert.Equal(t, byte(0x00), bm.Data[0], "first row is white")
	assert.Equal(t, byte(0xFF), bm.Data[bm.BytesPerRow()], "second row is black")

	require.NoError(t, os.Remove(logo))
	cached, err := r.Resolve(receipt.RefLogo)
	require.NoError(t, err)
	assert.Same(t, bm, cached)
}

func TestResolver_Missing(t *testing.T) {
	dir := t.TempDir()
	r := NewResolver(map[string]string{receipt.RefLogo: filepath.Join(dir, "nope.png")}, 0, 0)

	_, err := r.Resolve(receipt.RefLogo)
	assert.True(t, errors.Is(err, receipt.ErrAssetMissing))

	_, err = r.Resolve(receipt.RefQR)
	assert.True(t, errors.Is(err, receipt.ErrAssetMissing))

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o600))
	r.SetPath(receipt.RefQR, garbage)
	_, err = r.Resolve(receipt.RefQR)
	assert.True(t, errors.Is(err, receipt.ErrAssetMissing))
}

func TestResolver_SetPathInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	r := NewResolver(map[string]string{receipt.RefLogo: path}, 0, 0)

	_, err := r.Resolve(receipt.RefLogo)
	require.Error(t, err)

	writePNG(t, path, 16, 4)
	_, err = r.Resolve(receipt.RefLogo)
	require.Error(t, err, "failed loads are cached")

	r.SetPath(receipt.RefLogo, path)
	bm, err := r.Resolve(receipt.RefLogo)
	require.NoError(t, err)
	assert.Equal(t, 16, bm.Width)
}

func TestResolver_FeedsRenderer(t *testing.T) {
	dir := t.TempDir()
	qr := filepath.Join(dir, "qr.png")
	writePNG(t, qr, 64, 64)
	r := NewResolver(map[string]string{receipt.RefQR: qr}, 0, 0)

	doc := receipt.RenderCustomerReceipt(receipt.Order{Number: 1}, receipt.Shop{Name: "Shop"}, 32, r)

	var refs []string
	for _, in := range doc.Instructions() {
		if img, ok := in.(receipt.Image); ok {
			refs = append(refs, img.Ref)
		}
	}
	assert.Equal(t, []string{receipt.RefQR}, refs)
}
