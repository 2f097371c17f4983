package detection

import (
	"fmt"
	"math"
)

// MaxRadius is the largest radius CreateTemplate accepts. The kernel holds
// (2n+1)² weights, so the bound keeps its side length representable and its
// allocation finite.
const MaxRadius = 8192

// InvalidRadiusError reports a radius that cannot produce a ring kernel.
// Radii below 1 round to an empty ring whose normalization would divide by zero.
type InvalidRadiusError struct {
	Radius float64
}

func (e *InvalidRadiusError) Error() string {
	switch {
	case math.IsNaN(e.Radius) || math.IsInf(e.Radius, 0):
		return fmt.Sprintf("invalid radius %v: must be finite", e.Radius)
	case e.Radius <= 0:
		return fmt.Sprintf("invalid radius %v: must be positive", e.Radius)
	case e.Radius > MaxRadius:
		return fmt.Sprintf("invalid radius %v: must be <= %d", e.Radius, MaxRadius)
	default:
		return fmt.Sprintf("invalid radius %v: must be >= 1", e.Radius)
	}
}

// InvalidShapeError reports an image whose dimensions are not usable.
type InvalidShapeError struct {
	Shape  []int
	Reason string
}

func (e *InvalidShapeError) Error() string {
	return fmt.Sprintf("invalid image shape %v: %s", e.Shape, e.Reason)
}

// InvalidQuantileError reports a quantile outside [0, 1].
type InvalidQuantileError struct {
	Quantile float64
}

func (e *InvalidQuantileError) Error() string {
	return fmt.Sprintf("invalid quantile %v: must be in [0, 1]", e.Quantile)
}

func validateRadius(radius float64) error {
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 1 || radius > MaxRadius {
		return &InvalidRadiusError{Radius: radius}
	}
	return nil
}

func validateQuantile(q float64) error {
	if math.IsNaN(q) || q < 0 || q > 1 {
		return &InvalidQuantileError{Quantile: q}
	}
	return nil
}
