package detection

import (
	"math"
	"sort"
)

// DefaultQuantile keeps the brightest 1% of the accumulator.
const DefaultQuantile = 0.99

// Center is a detected circle center in array order: Row is y, Col is x.
type Center struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// CirclesResult contains every accumulator pixel at or above the threshold.
type CirclesResult struct {
	// Centers are in row-major order, not sorted by score. A single circle
	// usually produces a small cluster of neighbouring centers.
	Centers []Center `json:"centers"`

	// Count is len(Centers).
	Count int `json:"count"`

	// Threshold is the accumulator value at the requested quantile.
	Threshold float64 `json:"threshold"`

	// MaxScore is the largest accumulator value.
	MaxScore float64 `json:"max_score"`

	Radius   float64 `json:"radius"`
	Quantile float64 `json:"quantile"`
}

// Loader turns an image reference into a single-channel luminance raster.
// Decoding, colour and alpha handling are entirely the loader's business.
type Loader interface {
	LoadLuminance(path string) (*Raster, error)
}

// Detector finds circles of a known radius.
type Detector struct {
	transformer *Transformer
}

// NewDetector creates a detector backed by t. A nil t uses the default transformer.
func NewDetector(t *Transformer) *Detector {
	if t == nil {
		t = defaultTransformer
	}
	return &Detector{transformer: t}
}

// FindCircles returns the centers of circles of the given radius in a
// grayscale image, using the default transformer.
func FindCircles(img *Raster, radius, quantile float64) ([]Center, error) {
	return NewDetector(nil).FindCircles(img, radius, quantile)
}

// FindCircles returns the coordinates whose accumulator value is at or above
// the given quantile of all accumulator values. See Detect.
func (d *Detector) FindCircles(img *Raster, radius, quantile float64) ([]Center, error) {
	res, err := d.Detect(img, radius, quantile)
	if err != nil {
		return nil, err
	}
	return res.Centers, nil
}

// FindCirclesIn loads path through loader and runs FindCircles on the result.
// Loader errors are returned unchanged.
func (d *Detector) FindCirclesIn(loader Loader, path string, radius, quantile float64) ([]Center, error) {
	res, err := d.DetectIn(loader, path, radius, quantile)
	if err != nil {
		return nil, err
	}
	return res.Centers, nil
}

// DetectIn is Detect on an image obtained from loader. Arguments are
// validated before the loader is called.
func (d *Detector) DetectIn(loader Loader, path string, radius, quantile float64) (*CirclesResult, error) {
	if err := validateQuantile(quantile); err != nil {
		return nil, err
	}
	if err := validateRadius(radius); err != nil {
		return nil, err
	}
	img, err := loader.LoadLuminance(path)
	if err != nil {
		return nil, err
	}
	return d.Detect(img, radius, quantile)
}

// Transformer returns the transformer backing d.
func (d *Detector) Transformer() *Transformer { return d.transformer }

// Detect thresholds the Hough accumulator of img.
//
// img must be grayscale: rank 2, or rank 3 with a single channel. Rasters
// with several channels are rejected with *InvalidShapeError because their
// centers would need a channel index.
//
// quantile is in [0, 1]; 0 selects the minimum accumulator value as the
// threshold (so every pixel is returned) and 1 the maximum. An image with no
// signal has a constant accumulator and therefore returns every pixel.
//
// Errors are *InvalidQuantileError, *InvalidRadiusError or *InvalidShapeError.
func (d *Detector) Detect(img *Raster, radius, quantile float64) (*CirclesResult, error) {
	if err := validateQuantile(quantile); err != nil {
		return nil, err
	}
	if err := validateRadius(radius); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, &InvalidShapeError{Reason: "image is nil"}
	}
	if img.Squeeze().channels != 1 {
		return nil, &InvalidShapeError{Shape: img.Shape(), Reason: "circle search requires a single-channel image"}
	}

	acc, err := d.transformer.Hough(img, radius)
	if err != nil {
		return nil, err
	}
	acc = acc.Squeeze()

	threshold := Quantile(acc.pix, quantile)
	centers := make([]Center, 0)
	for y := 0; y < acc.height; y++ {
		row := acc.pix[y*acc.width : (y+1)*acc.width]
		for x, v := range row {
			if v >= threshold {
				centers = append(centers, Center{Row: y, Col: x})
			}
		}
	}

	return &CirclesResult{
		Centers:   centers,
		Count:     len(centers),
		Threshold: threshold,
		MaxScore:  acc.Max(),
		Radius:    radius,
		Quantile:  quantile,
	}, nil
}

// Quantile returns the q-th quantile of values, interpolating linearly
// between order statistics: with the values sorted ascending and
// h = (len-1)·q, the result is s[⌊h⌋] + (h-⌊h⌋)·(s[⌈h⌉]-s[⌊h⌋]).
//
// values is not modified. It panics on an empty slice.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		panic("detection: quantile of empty slice")
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)

	h := float64(len(s)-1) * q
	lo := math.Floor(h)
	hi := math.Ceil(h)
	a, b := s[int(lo)], s[int(hi)]
	return a + (h-lo)*(b-a)
}
