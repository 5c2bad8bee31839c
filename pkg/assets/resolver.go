package assets

import (
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	goCache "github.com/patrickmn/go-cache"

	"github.com/sangkips/counterpos/pkg/receipt"
)

// DefaultMaxWidth is the printable width of 58mm paper in dots.
const DefaultMaxWidth = 384

// DefaultTTL is how long a loaded bitmap, or a failed load, stays cached.
const DefaultTTL = 10 * time.Minute

// missing is cached for refs whose file could not be loaded.
type missing struct {
	err error
}

// Resolver loads image files for asset refs, converts them to printer
// bitmaps and caches the result.
type Resolver struct {
	mu       sync.RWMutex
	paths    map[string]string
	maxWidth int
	cache    *goCache.Cache
}

// NewResolver creates a resolver over ref → file path mappings. Empty paths
// are ignored.
func NewResolver(paths map[string]string, maxWidth int, ttl time.Duration) *Resolver {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	r := &Resolver{
		paths:    make(map[string]string, len(paths)),
		maxWidth: maxWidth,
		cache:    goCache.New(ttl, 2*ttl),
	}
	for ref, path := range paths {
		if path != "" {
			r.paths[ref] = path
		}
	}
	return r
}

// Resolve returns the bitmap for ref or an error marked with
// receipt.ErrAssetMissing.
func (r *Resolver) Resolve(ref string) (*receipt.Bitmap, error) {
	if v, ok := r.cache.Get(ref); ok {
		switch c := v.(type) {
		case *receipt.Bitmap:
			return c, nil
		case missing:
			return nil, c.err
		}
	}

	r.mu.RLock()
	path, ok := r.paths[ref]
	r.mu.RUnlock()
	if !ok {
		return nil, errors.Mark(errors.Newf("assets: no file configured for %q", ref), receipt.ErrAssetMissing)
	}

	bm, err := r.load(path)
	if err != nil {
		err = errors.Mark(errors.Wrapf(err, "assets: load %q from %s", ref, path), receipt.ErrAssetMissing)
		r.cache.SetDefault(ref, missing{err: err})
		return nil, err
	}
	r.cache.SetDefault(ref, bm)
	return bm, nil
}

// SetPath points ref at a new file and drops any cached result for it.
func (r *Resolver) SetPath(ref, path string) {
	r.mu.Lock()
	if path == "" {
		delete(r.paths, ref)
	} else {
		r.paths[ref] = path
	}
	r.mu.Unlock()
	r.cache.Delete(ref)
}

// Flush drops every cached bitmap.
func (r *Resolver) Flush() {
	r.cache.Flush()
}

func (r *Resolver) load(path string) (*receipt.Bitmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, errors.Wrap(err, "decode image")
	}
	bm := receipt.RasterFromImage(img, r.maxWidth)
	if err := bm.Validate(); err != nil {
		return nil, err
	}
	return bm, nil
}
