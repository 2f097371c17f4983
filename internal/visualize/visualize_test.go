package visualize

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/ironsheep/hough-circles-mcp/internal/detection"
)

func TestHeatmap_Gray(t *testing.T) {
	r, _ := detection.FromFloat64([]float64{0, 0.5, 1, 0.25}, 2, 2)
	img, err := Heatmap(r)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Fatalf("size: got %dx%d, want 2x2", b.Dx(), b.Dy())
	}

	lo := img.NRGBAAt(0, 0)
	hi := img.NRGBAAt(0, 1)
	if lo != colorAt(0) || hi != colorAt(1) {
		t.Errorf("extremes should map to gradient ends: got %v and %v", lo, hi)
	}
	if lum(hi) <= lum(lo) {
		t.Error("maximum should render brighter than minimum")
	}
}

func TestHeatmap_Constant(t *testing.T) {
	r, _ := detection.FromFloat64(make([]float64, 9), 3, 3)
	img, err := Heatmap(r)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if img.NRGBAAt(1, 1) != colorAt(0) {
		t.Error("constant raster should render with the gradient start")
	}
}

func TestHeatmap_RGB(t *testing.T) {
	r, _ := detection.FromFloat64([]float64{1, 0, 0, 0, 0, 1}, 1, 2, 3)
	img, err := Heatmap(r)
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("pixel 0: got %v, want red", got)
	}
	if got := img.NRGBAAt(1, 0); got != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("pixel 1: got %v, want blue", got)
	}
}

func TestHeatmap_UnsupportedChannels(t *testing.T) {
	r, _ := detection.FromFloat64(make([]float64, 8), 2, 2, 2)
	if _, err := Heatmap(r); err == nil {
		t.Error("expected error for 2-channel raster")
	}
	if _, err := Heatmap(nil); err == nil {
		t.Error("expected error for nil raster")
	}
}

func TestPNGVisualizer_Display(t *testing.T) {
	k, _ := detection.CreateTemplate(5)
	r, err := KernelRaster(k)
	if err != nil {
		t.Fatalf("KernelRaster failed: %v", err)
	}

	var buf bytes.Buffer
	var v Visualizer = &PNGVisualizer{W: &buf}
	if err := v.Display(r); err != nil {
		t.Fatalf("Display failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 11 || b.Dy() != 11 {
		t.Errorf("size: got %dx%d, want 11x11", b.Dx(), b.Dy())
	}
}

func TestOverlay(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 30))
	out, err := Overlay(src, []detection.Center{{Row: 15, Col: 20}}, 8, "#00FF00")
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}

	green := color.NRGBA{0, 255, 0, 255}
	if out.NRGBAAt(20, 15) != green {
		t.Error("center should be marked")
	}
	if out.NRGBAAt(28, 15) != green {
		t.Error("ring point to the right of the center should be marked")
	}
	if out.NRGBAAt(0, 0) == green {
		t.Error("far pixel should be untouched")
	}
	if src.GrayAt(20, 15).Y != 0 {
		t.Error("Overlay must not modify the source image")
	}
}

func TestOverlay_ClipsAtBorder(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	if _, err := Overlay(src, []detection.Center{{Row: 0, Col: 9}}, 30, ""); err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
}

func TestOverlay_InvalidColor(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	if _, err := Overlay(src, nil, 3, "not-a-color"); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestEncodeBase64PNG(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 7, 5))
	enc, err := EncodeBase64PNG(src)
	if err != nil {
		t.Fatalf("EncodeBase64PNG failed: %v", err)
	}
	if enc.Width != 7 || enc.Height != 5 || enc.MimeType != "image/png" {
		t.Errorf("unexpected metadata: %+v", enc)
	}

	data, err := base64.StdEncoding.DecodeString(enc.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("payload is not a PNG: %v", err)
	}
}

func lum(c color.NRGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
