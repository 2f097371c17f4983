package detection

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Kernel is a normalized ring-shaped matched filter for circles of one radius.
//
// The kernel is a square (2n+1)×(2n+1) array, n = round(radius), with its
// origin at (n, n). Entries are non-negative, sum to 1 and are symmetric
// under the eight reflections and rotations of the square. A Kernel is
// immutable once built.
type Kernel struct {
	radius  float64
	n       int
	weights []float64 // row-major, side×side
	taps    []tap
}

// tap is one non-zero kernel entry expressed as an offset from the origin.
type tap struct {
	dy, dx int
	w      float64
}

// CreateTemplate rasterizes a ring of the given radius and normalizes it.
//
// The ring is walked one octant at a time starting at (n, 0) and moving toward
// the 45° diagonal. At each step the current point (i, j) is written, with the
// value i, into its eight mirror images. Whichever of "decrement i" or
// "increment j" lands closer to the true radius is taken next. Points that are
// visited more than once keep the value of the last write, so for small radii
// the weights depend on that visiting order.
//
// Returns *InvalidRadiusError if radius is not finite, is below 1 or exceeds
// MaxRadius.
func CreateTemplate(radius float64) (*Kernel, error) {
	if err := validateRadius(radius); err != nil {
		return nil, err
	}

	n := int(math.RoundToEven(radius))
	side := 2*n + 1
	w := make([]float64, side*side)

	set := func(y, x int, v float64) { w[y*side+x] = v }

	i, j := n, 0
	for i >= j {
		v := float64(i)
		for _, p := range [2][2]int{{i, j}, {j, i}} {
			a, b := p[0], p[1]
			set(n-a, n-b, v)
			set(n-a, n+b, v)
			set(n+a, n-b, v)
			set(n+a, n+b, v)
		}

		rDec := math.Hypot(float64(i-1), float64(j))
		rInc := math.Hypot(float64(i), float64(j+1))
		if math.Abs(rDec-radius) > math.Abs(rInc-radius) {
			j++
		} else {
			i--
		}
	}

	floats.Scale(1/floats.Sum(w), w)

	k := &Kernel{radius: radius, n: n, weights: w}
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			if v := w[y*side+x]; v != 0 {
				k.taps = append(k.taps, tap{dy: y - n, dx: x - n, w: v})
			}
		}
	}
	return k, nil
}

// Radius returns the radius the kernel was built for.
func (k *Kernel) Radius() float64 { return k.radius }

// N returns the rounded radius, i.e. the distance from the origin to an edge.
func (k *Kernel) N() int { return k.n }

// Size returns the side length 2n+1.
func (k *Kernel) Size() int { return 2*k.n + 1 }

// At returns the weight at row y, column x of the kernel array.
func (k *Kernel) At(y, x int) float64 {
	side := k.Size()
	if y < 0 || y >= side || x < 0 || x >= side {
		panic("detection: kernel index out of range")
	}
	return k.weights[y*side+x]
}

// Taps returns the number of non-zero weights.
func (k *Kernel) Taps() int { return len(k.taps) }

// Sum returns the total weight. It is 1 up to rounding.
func (k *Kernel) Sum() float64 { return floats.Sum(k.weights) }

// Matrix returns a copy of the weights as a dense matrix.
func (k *Kernel) Matrix() *mat.Dense {
	side := k.Size()
	return mat.NewDense(side, side, append([]float64(nil), k.weights...))
}

// KernelCache memoizes kernels by radius.
//
// A kernel depends on the exact radius and not only on its rounded value:
// the octant walk compares candidate points against the unrounded radius.
// Entries are immutable and stored once per key, so cached kernels may be
// shared freely between goroutines. A bounded cache evicts its oldest entry
// when a new radius would exceed the limit.
type KernelCache struct {
	mu      sync.RWMutex
	kernels map[float64]*Kernel
	order   []float64
	limit   int
}

// NewKernelCache creates an empty, unbounded kernel cache.
func NewKernelCache() *KernelCache {
	return NewBoundedKernelCache(0)
}

// NewBoundedKernelCache creates an empty cache holding at most limit kernels.
// A limit of zero or less means no limit.
func NewBoundedKernelCache(limit int) *KernelCache {
	if limit < 0 {
		limit = 0
	}
	return &KernelCache{
		kernels: make(map[float64]*Kernel),
		limit:   limit,
	}
}

// Get returns the kernel for radius, building and storing it on first use.
func (c *KernelCache) Get(radius float64) (*Kernel, error) {
	c.mu.RLock()
	if k, ok := c.kernels[radius]; ok {
		c.mu.RUnlock()
		return k, nil
	}
	c.mu.RUnlock()

	k, err := CreateTemplate(radius)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.kernels[radius]; ok {
		return existing, nil
	}
	if c.limit > 0 && len(c.order) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.kernels, oldest)
	}
	c.kernels[radius] = k
	c.order = append(c.order, radius)
	return k, nil
}

// Len returns the number of cached kernels.
func (c *KernelCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.kernels)
}

// Limit returns the maximum number of cached kernels, or 0 if unbounded.
func (c *KernelCache) Limit() int { return c.limit }

// Clear drops every cached kernel.
func (c *KernelCache) Clear() {
	c.mu.Lock()
	c.kernels = make(map[float64]*Kernel)
	c.order = nil
	c.mu.Unlock()
}
