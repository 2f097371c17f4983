package detection

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Method selects how the accumulator is computed.
type Method int

const (
	// MethodAuto picks direct or FFT correlation from an operation-count estimate.
	MethodAuto Method = iota
	// MethodDirect sums over the non-zero kernel taps at every pixel.
	MethodDirect
	// MethodFFT multiplies zero-padded spectra.
	MethodFFT
)

func (m Method) String() string {
	switch m {
	case MethodAuto:
		return "auto"
	case MethodDirect:
		return "direct"
	case MethodFFT:
		return "fft"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod converts "auto", "direct" or "fft" (case-insensitive) to a Method.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return MethodAuto, nil
	case "direct":
		return MethodDirect, nil
	case "fft":
		return MethodFFT, nil
	default:
		return MethodAuto, fmt.Errorf("unknown convolution method: %q", s)
	}
}

// Transformer computes Hough accumulators.
//
// A Transformer is safe for concurrent use. Kernels are shared through its
// KernelCache.
type Transformer struct {
	method  Method
	kernels *KernelCache
}

// NewTransformer creates a transformer using the given method and cache.
// A nil cache gets a private one.
func NewTransformer(method Method, kernels *KernelCache) *Transformer {
	if kernels == nil {
		kernels = NewKernelCache()
	}
	return &Transformer{method: method, kernels: kernels}
}

var defaultTransformer = NewTransformer(MethodAuto, NewKernelCache())

// Hough correlates img with the ring kernel for radius using the default
// transformer. See Transformer.Hough.
func Hough(img *Raster, radius float64) (*Raster, error) {
	return defaultTransformer.Hough(img, radius)
}

// Method returns the configured correlation method.
func (t *Transformer) Method() Method { return t.method }

// Kernels returns the transformer's kernel cache.
func (t *Transformer) Kernels() *KernelCache { return t.kernels }

// Hough scores every pixel of img as a candidate center of a circle of the
// given radius.
//
// The result has img's shape and rank. Each channel of a 3-D raster is
// correlated on its own; channels never mix. Borders are zero-padded, so
// pixels near an edge only see the part of the ring that lies inside the
// image.
//
// Returns *InvalidRadiusError for radius < 1 or non-finite radius.
func (t *Transformer) Hough(img *Raster, radius float64) (*Raster, error) {
	if img == nil {
		return nil, &InvalidShapeError{Reason: "image is nil"}
	}
	k, err := t.kernels.Get(radius)
	if err != nil {
		return nil, err
	}

	h, w := img.height, img.width
	method := t.method
	if method == MethodAuto {
		method = chooseMethod(h, w, img.channels, k)
	}

	acc := zeroLike(img)
	switch method {
	case MethodFFT:
		c := newFFTCorrelator(h, w, k)
		for ch := 0; ch < img.channels; ch++ {
			acc.setPlane(ch, c.correlate(img.plane(ch)))
		}
	default:
		for ch := 0; ch < img.channels; ch++ {
			acc.setPlane(ch, correlateDirect(img.plane(ch), h, w, k))
		}
	}
	return acc, nil
}

// correlateDirect computes the "same" cross-correlation of an H×W plane with
// k by adding one shifted, scaled copy of the plane per non-zero tap.
func correlateDirect(plane []float64, h, w int, k *Kernel) []float64 {
	out := make([]float64, h*w)
	for _, t := range k.taps {
		y0, y1 := max(0, -t.dy), min(h, h-t.dy)
		x0, x1 := max(0, -t.dx), min(w, w-t.dx)
		if y0 >= y1 || x0 >= x1 {
			continue
		}
		for y := y0; y < y1; y++ {
			dst := out[y*w+x0 : y*w+x1]
			src := plane[(y+t.dy)*w+x0+t.dx : (y+t.dy)*w+x1+t.dx]
			floats.AddScaled(dst, t.w, src)
		}
	}
	return out
}

// chooseMethod compares rough multiply-add counts of both strategies.
func chooseMethod(h, w, channels int, k *Kernel) Method {
	direct := float64(len(k.taps)) * float64(h*w) * float64(channels)

	side := k.Size()
	cells := float64((h + side - 1) * (w + side - 1))
	// One kernel transform plus a forward and an inverse transform per
	// channel, each about 5·N·log2(N) real operations.
	fft := 5 * cells * math.Log2(cells) * float64(1+2*channels)

	if fft < direct {
		return MethodFFT
	}
	return MethodDirect
}
