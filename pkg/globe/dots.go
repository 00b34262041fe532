package globe

import (
	"fmt"
	"image"
	"math"

	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// DotField is the static land layer: one outward-facing dot per lattice
// sample that falls on land in the mask.
type DotField struct {
	Mesh *scene.InstancedMesh
}

// NewDotField samples mask on a latitude/longitude lattice and bakes every
// accepted sample into a single instanced mesh. The mask is read through
// image.Image so any decoded PNG, or an image rasterised from polygons, works.
func NewDotField(cfg Config, mask image.Image) (*DotField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if mask == nil {
		return nil, fmt.Errorf("dot field: %w", ErrMissingMask)
	}

	up := r3.Vector{Y: 1}
	unit := r3.Vector{X: 1, Y: 1, Z: 1}
	var matrices []scene.Mat4

	step := 180 / float64(cfg.DotRows)
	for lat := -90.0; lat <= 90; lat += step {
		radius := math.Cos(degToRad(math.Abs(lat))) * cfg.GlobeRadius
		circumference := radius * math.Pi * 2
		dotsForRow := circumference * cfg.DotsPerUnit
		for i := 0; float64(i) < dotsForRow; i++ {
			lon := -180 + 360*float64(i)/dotsForRow
			if !MaskVisible(mask, lon, lat, cfg.MaskAlphaThreshold) {
				continue
			}
			pos := ToCartesian(lat, lon, cfg.GlobeRadius)
			lookAt := ToCartesian(lat, lon, cfg.GlobeRadius+5)
			matrices = append(matrices, scene.Compose(pos, scene.LookRotation(pos, lookAt, up), unit))
		}
	}

	material := scene.NewMaterial("globe-dots", ColorDot)
	material.Transparent = true
	material.AlphaTest = 0.02
	mesh := scene.NewInstancedMesh(scene.NewCircleGeometry(cfg.DotSize, 5), material, len(matrices))
	mesh.Name = "globe-dots"
	for i, m := range matrices {
		mesh.SetMatrixAt(i, m)
	}
	return &DotField{Mesh: mesh}, nil
}

// Count is the number of land dots.
func (d *DotField) Count() int {
	return d.Mesh.Count()
}

// Dispose releases the dot geometry and material.
func (d *DotField) Dispose() {
	d.Mesh.Dispose()
}

// MaskVisible maps (lon, lat) onto an equirectangular mask and reports
// whether the pixel's alpha exceeds threshold. Longitude wraps at the
// antimeridian; latitude clamps at the poles.
func MaskVisible(mask image.Image, lon, lat float64, threshold uint8) bool {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return false
	}

	x := int((lon+180)/360*float64(w) + .5)
	x %= w
	if x < 0 {
		x += w
	}
	y := h - int((lat+90)/180*float64(h)-.5)
	row := y - 1
	if row < 0 {
		row = 0
	}
	if row >= h {
		row = h - 1
	}

	_, _, _, a := mask.At(b.Min.X+x, b.Min.Y+row).RGBA()
	return uint8(a>>8) > threshold
}
