package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// Region is a rectangle in pixel coordinates. (X1, Y1) is inclusive and
// (X2, Y2) is exclusive.
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts r to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Validate checks that r is non-empty and lies inside bounds.
func (r Region) Validate(bounds image.Rectangle) error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return nil
}

// Options controls how an image is prepared before circle detection.
type Options struct {
	// Region restricts detection to part of the image. Coordinates found in
	// the cropped image are relative to (Region.X1, Region.Y1).
	Region *Region

	// BlurSigma applies a Gaussian blur of this radius when positive.
	// A light blur widens thin outlines and suppresses pixel noise.
	BlurSigma float64

	// Invert flips intensities, for dark circles drawn on a light background.
	// The detector responds to bright rings.
	Invert bool
}

// Preprocess applies opts to img in the order crop, blur, invert.
// With zero Options the image is returned unchanged.
func Preprocess(img image.Image, opts Options) (image.Image, error) {
	if opts.BlurSigma < 0 {
		return nil, fmt.Errorf("blur sigma must be non-negative, got %v", opts.BlurSigma)
	}

	if opts.Region != nil {
		if err := opts.Region.Validate(img.Bounds()); err != nil {
			return nil, err
		}
		img = imaging.Crop(img, opts.Region.Rect())
	}
	if opts.BlurSigma > 0 {
		img = blur.Gaussian(img, opts.BlurSigma)
	}
	if opts.Invert {
		img = effect.Invert(img)
	}
	return img, nil
}
