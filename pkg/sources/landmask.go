package sources

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"strings"

	geojson "github.com/paulmach/go.geojson"
)

var landColor = color.NRGBA{255, 255, 255, 255}

// RasterizeLand fills every polygon of a geojson feature collection into an
// equirectangular width x height image: opaque on land, transparent
// elsewhere. Row 0 is latitude 90.
func RasterizeLand(data []byte, width, height int) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid mask size %dx%d", width, height)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse land polygons: %w", err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		if f.Geometry.IsPolygon() {
			fillPolygon(img, f.Geometry.Polygon, landColor)
		} else if f.Geometry.IsMultiPolygon() {
			for _, poly := range f.Geometry.MultiPolygon {
				fillPolygon(img, poly, landColor)
			}
		}
	}
	return img, nil
}

func project(lat, lng float64, width, height int) (x, y float64) {
	x = (lng + 180) / 360 * float64(width)
	y = (90 - lat) / 180 * float64(height)
	return x, y
}

// fillPolygon scanline-fills a polygon given as geojson rings (outer ring
// first, holes after) using the even-odd rule.
func fillPolygon(img *image.NRGBA, rings [][][]float64, c color.NRGBA) {
	if len(rings) == 0 {
		return
	}
	width, height := img.Rect.Dx(), img.Rect.Dy()
	type point struct{ x, y float64 }
	projectedRings := make([][]point, len(rings))
	minY, maxY := float64(height), 0.0
	for i, ring := range rings {
		projectedRings[i] = make([]point, len(ring))
		for j, p := range ring {
			x, y := project(p[1], p[0], width, height)
			projectedRings[i][j] = point{x, y}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	for y := int(minY); y <= int(maxY); y++ {
		if y < 0 || y >= height {
			continue
		}
		var nodes []int
		// sample at the pixel centre
		fy := float64(y) + .5
		for _, ring := range projectedRings {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(nodeX+.5))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe > width {
				xe = width
			}
			for x := xs; x < xe; x++ {
				off := y*img.Stride + x*4
				img.Pix[off], img.Pix[off+1], img.Pix[off+2], img.Pix[off+3] = c.R, c.G, c.B, c.A
			}
		}
	}
}

// LandMask loads a mask from a PNG, or rasterises one from geojson polygons.
// src is a file path, a URL or a name from LandMaskURLs.
func (l Loader) LandMask(src string, width, height int) (image.Image, error) {
	if u, ok := LandMaskURLs[src]; ok {
		src = u
	}
	var mask image.Image
	err := l.load(src, "[MASK]", func(b []byte) error {
		var err error
		if strings.HasSuffix(strings.ToLower(src), ".png") {
			mask, err = png.Decode(bytes.NewReader(b))
		} else {
			mask, err = RasterizeLand(b, width, height)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load land mask %s: %w", src, err)
	}
	return mask, nil
}
