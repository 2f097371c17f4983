package detection

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// fft2 computes two-dimensional DFTs of row-major complex grids by applying
// one-dimensional transforms along rows and then columns.
type fft2 struct {
	rows, cols int
	rowFFT     *fourier.CmplxFFT
	colFFT     *fourier.CmplxFFT
	rowBuf     []complex128
	colIn      []complex128
	colOut     []complex128
}

func newFFT2(rows, cols int) *fft2 {
	return &fft2{
		rows:   rows,
		cols:   cols,
		rowFFT: fourier.NewCmplxFFT(cols),
		colFFT: fourier.NewCmplxFFT(rows),
		rowBuf: make([]complex128, cols),
		colIn:  make([]complex128, rows),
		colOut: make([]complex128, rows),
	}
}

// forward replaces data with its unnormalized 2-D DFT.
func (f *fft2) forward(data []complex128) {
	for r := 0; r < f.rows; r++ {
		row := data[r*f.cols : (r+1)*f.cols]
		f.rowFFT.Coefficients(f.rowBuf, row)
		copy(row, f.rowBuf)
	}
	for c := 0; c < f.cols; c++ {
		for r := 0; r < f.rows; r++ {
			f.colIn[r] = data[r*f.cols+c]
		}
		f.colFFT.Coefficients(f.colOut, f.colIn)
		for r := 0; r < f.rows; r++ {
			data[r*f.cols+c] = f.colOut[r]
		}
	}
}

// inverse replaces data with its inverse 2-D DFT, scaled by 1/(rows*cols).
// It uses the identity ifft(x) = conj(fft(conj(x))) / N.
func (f *fft2) inverse(data []complex128) {
	for i, v := range data {
		data[i] = cmplx.Conj(v)
	}
	f.forward(data)
	scale := complex(1/float64(f.rows*f.cols), 0)
	for i, v := range data {
		data[i] = cmplx.Conj(v) * scale
	}
}

// fftCorrelator correlates H×W planes with one kernel through zero-padded
// FFTs. The kernel spectrum is computed once and reused for every plane.
type fftCorrelator struct {
	h, w     int
	n        int
	rows     int
	cols     int
	fft      *fft2
	spectrum []complex128
}

func newFFTCorrelator(h, w int, k *Kernel) *fftCorrelator {
	side := k.Size()
	c := &fftCorrelator{
		h:    h,
		w:    w,
		n:    k.n,
		rows: h + side - 1,
		cols: w + side - 1,
	}
	c.fft = newFFT2(c.rows, c.cols)

	c.spectrum = make([]complex128, c.rows*c.cols)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			c.spectrum[y*c.cols+x] = complex(k.weights[y*side+x], 0)
		}
	}
	c.fft.forward(c.spectrum)
	return c
}

// correlate returns the "same"-sized response of plane to the kernel.
// Padding the grid to (h+side-1)×(w+side-1) makes the circular convolution
// equal to the linear one, so no wrap-around reaches the cropped window.
func (c *fftCorrelator) correlate(plane []float64) []float64 {
	grid := make([]complex128, c.rows*c.cols)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			grid[y*c.cols+x] = complex(plane[y*c.w+x], 0)
		}
	}

	c.fft.forward(grid)
	for i := range grid {
		grid[i] *= c.spectrum[i]
	}
	c.fft.inverse(grid)

	out := make([]float64, c.h*c.w)
	for y := 0; y < c.h; y++ {
		for x := 0; x < c.w; x++ {
			out[y*c.w+x] = real(grid[(y+c.n)*c.cols+x+c.n])
		}
	}
	return out
}
