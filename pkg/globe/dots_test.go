package globe

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func filledMask(w, h int, alpha uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{A: alpha})
		}
	}
	return img
}

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.DotRows = 40
	return cfg
}

func TestNewDotFieldTransparentMask(t *testing.T) {
	field, err := NewDotField(smallConfig(), filledMask(360, 180, 0))
	if err != nil {
		t.Fatalf("NewDotField: %v", err)
	}
	if field.Count() != 0 {
		t.Errorf("Count() = %d; want 0", field.Count())
	}
}

func TestNewDotFieldOpaqueMask(t *testing.T) {
	cfg := smallConfig()
	field, err := NewDotField(cfg, filledMask(360, 180, 255))
	if err != nil {
		t.Fatalf("NewDotField: %v", err)
	}
	if field.Count() < 1000 {
		t.Fatalf("Count() = %d; want a populated globe", field.Count())
	}
	for i := 0; i < field.Count(); i++ {
		p := field.Mesh.MatrixAt(i).Position()
		if math.Abs(p.Norm()-cfg.GlobeRadius) > 1e-9 {
			t.Fatalf("dot %d at radius %v; want %v", i, p.Norm(), cfg.GlobeRadius)
		}
	}
}

func TestNewDotFieldThreshold(t *testing.T) {
	// alpha 90 is not above the threshold
	field, err := NewDotField(smallConfig(), filledMask(360, 180, 90))
	if err != nil {
		t.Fatalf("NewDotField: %v", err)
	}
	if field.Count() != 0 {
		t.Errorf("Count() = %d; want 0", field.Count())
	}
}

func TestNewDotFieldErrors(t *testing.T) {
	if _, err := NewDotField(smallConfig(), nil); !errors.Is(err, ErrMissingMask) {
		t.Errorf("NewDotField(nil mask) = %v; want ErrMissingMask", err)
	}

	cfg := smallConfig()
	cfg.GlobeRadius = 0
	if _, err := NewDotField(cfg, filledMask(4, 2, 255)); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewDotField(radius 0) = %v; want ErrInvalidConfig", err)
	}
}

func TestMaskVisible(t *testing.T) {
	mask := filledMask(4, 2, 0)
	mask.SetNRGBA(0, 0, color.NRGBA{A: 255})

	tests := []struct {
		lon, lat float64
		want     bool
	}{
		{-180, 90, true},
		{180, 90, true}, // wraps onto column 0
		{-180, -90, false},
		{0, 90, false},
		{-170, 60, true},
	}
	for _, tt := range tests {
		if got := MaskVisible(mask, tt.lon, tt.lat, 90); got != tt.want {
			t.Errorf("MaskVisible(%v, %v) = %v; want %v", tt.lon, tt.lat, got, tt.want)
		}
	}
}

func TestDotFieldDispose(t *testing.T) {
	field, err := NewDotField(smallConfig(), filledMask(36, 18, 255))
	if err != nil {
		t.Fatalf("NewDotField: %v", err)
	}
	field.Dispose()
	if !field.Mesh.Geometry.Disposed() || !field.Mesh.Material.Disposed() {
		t.Error("Dispose() left the dot geometry or material alive")
	}
}
