package detection

import "gonum.org/v1/gonum/floats"

// Raster is the canonical image representation used by the detector.
//
// Samples are float64 intensities, stored row-major with channels interleaved
// (index = (y*Width + x)*Channels + c). Integer input is scaled into [0, 1] at
// construction; float input is taken as-is and is expected to already lie in
// [0, 1].
//
// A Raster remembers whether it was built as a 2-D (H×W) or 3-D (H×W×C)
// array. An H×W×1 raster is rank 3 until Squeeze is called.
//
// Rasters are never modified after construction. Accessors that expose the
// sample slice return copies.
type Raster struct {
	height   int
	width    int
	channels int
	rank     int
	pix      []float64
}

// FromFloat64 builds a raster from float samples already in [0, 1].
//
// The shape must have two (height, width) or three (height, width, channels)
// positive extents whose product equals len(pix). The samples are copied.
func FromFloat64(pix []float64, shape ...int) (*Raster, error) {
	r, err := newRaster(len(pix), shape)
	if err != nil {
		return nil, err
	}
	copy(r.pix, pix)
	return r, nil
}

// FromUint8 builds a raster from 8-bit samples, dividing each by 255.
//
// Shape rules are the same as for FromFloat64.
func FromUint8(pix []uint8, shape ...int) (*Raster, error) {
	r, err := newRaster(len(pix), shape)
	if err != nil {
		return nil, err
	}
	for i, v := range pix {
		r.pix[i] = float64(v) / 255
	}
	return r, nil
}

func newRaster(n int, shape []int) (*Raster, error) {
	if len(shape) != 2 && len(shape) != 3 {
		return nil, &InvalidShapeError{Shape: append([]int(nil), shape...), Reason: "image must be 2-D or 3-D"}
	}
	size := 1
	for _, d := range shape {
		if d <= 0 {
			return nil, &InvalidShapeError{Shape: append([]int(nil), shape...), Reason: "every dimension must be non-empty"}
		}
		size *= d
	}
	if size != n {
		return nil, &InvalidShapeError{Shape: append([]int(nil), shape...), Reason: "sample count does not match shape"}
	}

	r := &Raster{
		height:   shape[0],
		width:    shape[1],
		channels: 1,
		rank:     len(shape),
		pix:      make([]float64, size),
	}
	if len(shape) == 3 {
		r.channels = shape[2]
	}
	return r, nil
}

// zeroLike returns an all-zero raster with the same shape and rank as r.
func zeroLike(r *Raster) *Raster {
	return &Raster{
		height:   r.height,
		width:    r.width,
		channels: r.channels,
		rank:     r.rank,
		pix:      make([]float64, len(r.pix)),
	}
}

// Height returns the number of rows.
func (r *Raster) Height() int { return r.height }

// Width returns the number of columns.
func (r *Raster) Width() int { return r.width }

// Channels returns the number of channels (1 for rank-2 rasters).
func (r *Raster) Channels() int { return r.channels }

// Rank returns 2 for H×W rasters and 3 for H×W×C rasters.
func (r *Raster) Rank() int { return r.rank }

// Shape returns the raster's extents in (height, width[, channels]) order.
func (r *Raster) Shape() []int {
	if r.rank == 2 {
		return []int{r.height, r.width}
	}
	return []int{r.height, r.width, r.channels}
}

// At returns the sample at row y, column x and channel c.
// It panics if the coordinates are out of range, like slice indexing.
func (r *Raster) At(y, x, c int) float64 {
	if y < 0 || y >= r.height || x < 0 || x >= r.width || c < 0 || c >= r.channels {
		panic("detection: raster index out of range")
	}
	return r.pix[(y*r.width+x)*r.channels+c]
}

// Values returns a copy of all samples in row-major, channel-interleaved order.
func (r *Raster) Values() []float64 {
	return append([]float64(nil), r.pix...)
}

// Plane returns a copy of channel c as a row-major H×W slice.
func (r *Raster) Plane(c int) []float64 {
	if c < 0 || c >= r.channels {
		panic("detection: channel index out of range")
	}
	return r.plane(c)
}

func (r *Raster) plane(c int) []float64 {
	if r.channels == 1 {
		return append([]float64(nil), r.pix...)
	}
	out := make([]float64, r.height*r.width)
	for i := range out {
		out[i] = r.pix[i*r.channels+c]
	}
	return out
}

func (r *Raster) setPlane(c int, plane []float64) {
	if r.channels == 1 {
		copy(r.pix, plane)
		return
	}
	for i, v := range plane {
		r.pix[i*r.channels+c] = v
	}
}

// Squeeze drops a trailing singleton channel dimension.
// Rasters that are already rank 2, or have more than one channel, are returned unchanged.
func (r *Raster) Squeeze() *Raster {
	if r.rank != 3 || r.channels != 1 {
		return r
	}
	return &Raster{
		height:   r.height,
		width:    r.width,
		channels: 1,
		rank:     2,
		pix:      r.pix,
	}
}

// Min returns the smallest sample.
func (r *Raster) Min() float64 { return floats.Min(r.pix) }

// Max returns the largest sample.
func (r *Raster) Max() float64 { return floats.Max(r.pix) }
