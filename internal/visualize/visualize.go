// Package visualize renders rasters, kernels and detections as images.
//
// Nothing here feeds back into detection: a Visualizer only receives arrays
// after the fact and shares no state with the detector.
package visualize

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
)

// Visualizer displays a raster somewhere: a file, a stream, a UI.
type Visualizer interface {
	Display(r *detection.Raster) error
}

// PNGVisualizer writes each displayed raster to W as a PNG heat map.
type PNGVisualizer struct {
	W io.Writer
}

// Display renders r with Heatmap and encodes it to v.W.
func (v *PNGVisualizer) Display(r *detection.Raster) error {
	img, err := Heatmap(r)
	if err != nil {
		return err
	}
	if err := imaging.Encode(v.W, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode heat map: %w", err)
	}
	return nil
}

// gradient runs from dark blue through teal and green to yellow.
var gradient = mustGradient("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")

func mustGradient(hexes ...string) []colorful.Color {
	stops := make([]colorful.Color, len(hexes))
	for i, h := range hexes {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		stops[i] = c
	}
	return stops
}

// colorAt maps t in [0, 1] onto the gradient, blending neighbouring stops in
// CIE L*u*v* so that brightness grows evenly.
func colorAt(t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(gradient)-1)
	i := int(pos)
	if i >= len(gradient)-1 {
		i = len(gradient) - 2
	}
	c := gradient[i].BlendLuv(gradient[i+1], pos-float64(i)).Clamped()
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// Heatmap renders r scaled so its minimum maps to 0 and its maximum to 1.
//
// Single-channel rasters are coloured along a blue-to-yellow gradient.
// Three-channel rasters are shown as RGB. Other channel counts are rejected.
func Heatmap(r *detection.Raster) (*image.NRGBA, error) {
	if r == nil {
		return nil, fmt.Errorf("nothing to display")
	}
	channels := r.Channels()
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("cannot display %d-channel raster", channels)
	}

	lo, hi := r.Min(), r.Max()
	span := hi - lo
	scale := func(v float64) float64 {
		if span == 0 {
			return 0
		}
		return (v - lo) / span
	}

	h, w := r.Height(), r.Width()
	vals := r.Values()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if channels == 1 {
				img.SetNRGBA(x, y, colorAt(scale(vals[i])))
				continue
			}
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(math.Round(255 * scale(vals[i*3]))),
				G: uint8(math.Round(255 * scale(vals[i*3+1]))),
				B: uint8(math.Round(255 * scale(vals[i*3+2]))),
				A: 255,
			})
		}
	}
	return img, nil
}

// Overlay draws a cross at every center and the ring of the given radius
// around it, on a copy of img. hexColor is "#RRGGBB"; empty means red.
// Centers are in raster order (row, col) relative to img's top-left corner.
func Overlay(img image.Image, centers []detection.Center, radius float64, hexColor string) (*image.NRGBA, error) {
	if hexColor == "" {
		hexColor = "#FF0000"
	}
	c, err := colorful.Hex(hexColor)
	if err != nil {
		return nil, fmt.Errorf("invalid marker color %q: %w", hexColor, err)
	}
	cr, cg, cb := c.RGB255()
	mark := color.NRGBA{R: cr, G: cg, B: cb, A: 255}

	out := imaging.Clone(img)
	bounds := out.Bounds()
	set := func(x, y int) {
		if image.Pt(x, y).In(bounds) {
			out.SetNRGBA(x, y, mark)
		}
	}

	steps := int(math.Ceil(2*math.Pi*radius)) * 2
	for _, ctr := range centers {
		for d := -2; d <= 2; d++ {
			set(ctr.Col+d, ctr.Row)
			set(ctr.Col, ctr.Row+d)
		}
		for s := 0; s < steps; s++ {
			a := 2 * math.Pi * float64(s) / float64(steps)
			set(ctr.Col+int(math.Round(radius*math.Cos(a))), ctr.Row+int(math.Round(radius*math.Sin(a))))
		}
	}
	return out, nil
}

// EncodedImage is a PNG ready to embed in a JSON response.
type EncodedImage struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeBase64PNG converts img to a base64 PNG.
func EncodeBase64PNG(img image.Image) (*EncodedImage, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &EncodedImage{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// KernelRaster exposes a kernel's weights as a raster so it can be displayed.
func KernelRaster(k *detection.Kernel) (*detection.Raster, error) {
	side := k.Size()
	pix := make([]float64, 0, side*side)
	for y := 0; y < side; y++ {
		for x := 0; x < side; x++ {
			pix = append(pix, k.At(y, x))
		}
	}
	return detection.FromFloat64(pix, side, side)
}
