package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
)

// Luminance converts img to a single-channel raster with samples in [0, 1].
//
// Colour is reduced with ITU-R BT.601 weights (0.299 R + 0.587 G + 0.114 B)
// applied to un-premultiplied colour, so the alpha channel is ignored rather
// than blended against a background.
func Luminance(img image.Image) (*detection.Raster, error) {
	gray := imaging.Grayscale(img)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image is empty (%dx%d)", w, h)
	}

	pix := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			pix[y*w+x] = row[x*4]
		}
	}
	return detection.FromUint8(pix, h, w)
}

// Channels converts img to an H×W×3 RGB raster with samples in [0, 1].
// Alpha is dropped.
func Channels(img image.Image) (*detection.Raster, error) {
	nrgba := imaging.Clone(img)
	w, h := nrgba.Rect.Dx(), nrgba.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("image is empty (%dx%d)", w, h)
	}

	pix := make([]uint8, w*h*3)
	for y := 0; y < h; y++ {
		row := nrgba.Pix[y*nrgba.Stride:]
		for x := 0; x < w; x++ {
			copy(pix[(y*w+x)*3:(y*w+x)*3+3], row[x*4:x*4+3])
		}
	}
	return detection.FromUint8(pix, h, w, 3)
}

// LuminanceLoader resolves image paths into luminance rasters for the
// detector. It implements detection.Loader.
type LuminanceLoader struct {
	Cache   *ImageCache
	Options Options
}

// NewLuminanceLoader creates a loader reading through cache.
// A nil cache gets a private one.
func NewLuminanceLoader(cache *ImageCache, opts Options) *LuminanceLoader {
	if cache == nil {
		cache = NewImageCache()
	}
	return &LuminanceLoader{Cache: cache, Options: opts}
}

// LoadLuminance decodes path, applies the loader's preprocessing options and
// returns the luminance raster. Unreadable files yield *DecodeError.
func (l *LuminanceLoader) LoadLuminance(path string) (*detection.Raster, error) {
	img, err := l.Cache.Load(path)
	if err != nil {
		return nil, err
	}
	img, err = Preprocess(img, l.Options)
	if err != nil {
		return nil, err
	}
	return Luminance(img)
}
