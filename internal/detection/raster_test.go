package detection

import (
	"errors"
	"testing"
)

func TestFromUint8_Normalizes(t *testing.T) {
	r, err := FromUint8([]uint8{0, 51, 255, 102}, 2, 2)
	if err != nil {
		t.Fatalf("FromUint8 failed: %v", err)
	}

	want := []float64{0, 0.2, 1, 0.4}
	for i, v := range r.Values() {
		if diff := v - want[i]; diff > 1e-15 || diff < -1e-15 {
			t.Errorf("sample %d: got %v, want %v", i, v, want[i])
		}
	}
	if r.Rank() != 2 || r.Channels() != 1 {
		t.Errorf("rank/channels: got %d/%d, want 2/1", r.Rank(), r.Channels())
	}
}

func TestFromFloat64_KeepsValues(t *testing.T) {
	src := []float64{0.25, 0.5, 0.75, 1, 0, 0.1}
	r, err := FromFloat64(src, 1, 2, 3)
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}
	if r.At(0, 1, 2) != 0.1 || r.At(0, 0, 0) != 0.25 {
		t.Errorf("At returned wrong samples: %v", r.Values())
	}

	// The raster owns a copy of the samples.
	src[0] = 9
	if r.At(0, 0, 0) != 0.25 {
		t.Error("FromFloat64 should copy its input")
	}
	vals := r.Values()
	vals[1] = 9
	if r.At(0, 0, 1) != 0.5 {
		t.Error("Values should return a copy")
	}
}

func TestRaster_InvalidShape(t *testing.T) {
	tests := []struct {
		name  string
		n     int
		shape []int
	}{
		{"1-D", 4, []int{4}},
		{"4-D", 16, []int{2, 2, 2, 2}},
		{"no shape", 0, nil},
		{"zero height", 0, []int{0, 5}},
		{"zero channels", 0, []int{2, 2, 0}},
		{"negative width", 4, []int{-2, -2}},
		{"count mismatch", 5, []int{2, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromFloat64(make([]float64, tt.n), tt.shape...)
			var shapeErr *InvalidShapeError
			if !errors.As(err, &shapeErr) {
				t.Fatalf("got %v, want *InvalidShapeError", err)
			}
			if shapeErr.Error() == "" {
				t.Error("error message should not be empty")
			}

			_, err = FromUint8(make([]uint8, tt.n), tt.shape...)
			if !errors.As(err, &shapeErr) {
				t.Fatalf("FromUint8: got %v, want *InvalidShapeError", err)
			}
		})
	}
}

func TestRaster_Squeeze(t *testing.T) {
	r, _ := FromFloat64(make([]float64, 6), 2, 3, 1)
	if r.Rank() != 3 {
		t.Fatalf("rank: got %d, want 3", r.Rank())
	}
	s := r.Squeeze()
	if s.Rank() != 2 {
		t.Errorf("squeezed rank: got %d, want 2", s.Rank())
	}
	if got := s.Shape(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Errorf("squeezed shape: got %v, want [2 3]", got)
	}

	color, _ := FromFloat64(make([]float64, 18), 2, 3, 3)
	if color.Squeeze() != color {
		t.Error("Squeeze should leave multi-channel rasters unchanged")
	}
}

func TestRaster_Plane(t *testing.T) {
	r, _ := FromUint8([]uint8{
		0, 255, 0, 255, 255, 0,
		255, 0, 0, 0, 0, 255,
	}, 2, 2, 3)

	red := r.Plane(0)
	want := []float64{0, 1, 1, 0}
	for i := range want {
		if red[i] != want[i] {
			t.Fatalf("Plane(0): got %v, want %v", red, want)
		}
	}
	if r.Min() != 0 || r.Max() != 1 {
		t.Errorf("Min/Max: got %v/%v, want 0/1", r.Min(), r.Max())
	}
}

func TestRaster_AtOutOfRangePanics(t *testing.T) {
	r, _ := FromFloat64(make([]float64, 4), 2, 2)
	defer func() {
		if recover() == nil {
			t.Error("At should panic for out-of-range coordinates")
		}
	}()
	r.At(2, 0, 0)
}
