package globeengine

import (
	"image"
	"image/color"
	"math"
	"time"

	"github.com/golang/geo/r3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// maxBatchVertices keeps a dot batch addressable by uint16 indices.
const maxBatchVertices = 16000 * 4

// InitTextures creates the images the renderer draws with. It must be called
// before the first Draw.
func (e *Engine) InitTextures() {
	e.whiteImage = ebiten.NewImage(3, 3)
	e.whiteImage.Fill(color.White)
	e.whiteSubImage = e.whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)

	size := 128
	if e.Width > 2000 {
		size = 256
	}
	e.glowImage = ebiten.NewImage(size, size)
	pixels := make([]byte, size*size*4)
	center, maxDist := float64(size)/2.0, float64(size)/2.0
	inner := e.Config.LandingRingInner / e.Config.LandingRingOuter
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)-center, float64(y)-center
			dist := math.Sqrt(dx*dx+dy*dy) / maxDist
			if dist >= 1 || dist <= inner {
				continue
			}
			val := math.Sin((dist - inner) / (1 - inner) * math.Pi)
			i := (y*size + x) * 4
			pixels[i+0], pixels[i+1], pixels[i+2] = 255, 255, 255
			pixels[i+3] = uint8(val * 255)
		}
	}
	e.glowImage.WritePixels(pixels)
}

func (e *Engine) Draw(screen *ebiten.Image) {
	screen.Fill(ColorBackground)
	if e.arcs == nil || e.whiteImage == nil {
		return
	}
	m := e.Camera.Matrix()

	e.drawGlobe(screen)
	e.drawDots(screen, m)
	e.drawSpikes(screen, m)
	e.drawArcs(screen, m)
	e.drawLandings(screen, m)
	e.drawLegend(screen)
	e.drawStatus(screen)
	e.drawCard(screen)

	if e.captureNext {
		e.captureNext = false
		e.captureFrame(screen, "frame", time.Now())
	}
}

func (e *Engine) drawGlobe(screen *ebiten.Image) {
	cx, cy := float32(e.Width)/2, float32(e.Height)/2
	r := float32(e.Camera.GlobeRadius(e.Config.GlobeRadius))
	vector.DrawFilledCircle(screen, cx, cy, r*1.03, fade(ColorHalo, .35), true)
	vector.DrawFilledCircle(screen, cx, cy, r, ColorOcean, true)
}

func (e *Engine) drawDots(screen *ebiten.Image, m scene.Mat4) {
	mesh := e.dots.Mesh
	c := fade(mesh.Material.Color, mesh.Material.Opacity)
	cr, cg, cb, ca := float32(c.R)/255, float32(c.G)/255, float32(c.B)/255, float32(c.A)/255
	R := e.Config.GlobeRadius

	for _, im := range mesh.Matrices {
		w := m.TransformPoint(im.Position())
		if e.Camera.Occluded(w, R) {
			continue
		}
		p, ok := e.Camera.Project(w)
		if !ok {
			continue
		}
		half := float32(math.Max(e.Config.DotSize*p.Scale, .6))
		e.appendQuad(float32(p.X), float32(p.Y), half, cr, cg, cb, ca)
		if len(e.vertices) >= maxBatchVertices {
			e.flush(screen)
		}
	}
	e.flush(screen)
}

func (e *Engine) appendQuad(x, y, half, r, g, b, a float32) {
	base := uint16(len(e.vertices))
	for _, corner := range [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}} {
		e.vertices = append(e.vertices, ebiten.Vertex{
			DstX:   x + corner[0]*half,
			DstY:   y + corner[1]*half,
			SrcX:   1,
			SrcY:   1,
			ColorR: r,
			ColorG: g,
			ColorB: b,
			ColorA: a,
		})
	}
	e.indices = append(e.indices, base, base+1, base+2, base, base+2, base+3)
}

func (e *Engine) flush(screen *ebiten.Image) {
	if len(e.indices) == 0 {
		return
	}
	screen.DrawTriangles(e.vertices, e.indices, e.whiteSubImage, &ebiten.DrawTrianglesOptions{})
	e.vertices = e.vertices[:0]
	e.indices = e.indices[:0]
}

func (e *Engine) drawSpikes(screen *ebiten.Image, m scene.Mat4) {
	R := e.Config.GlobeRadius
	spikes := e.spikes.Spikes
	c := fade(spikes.Material.Color, spikes.Material.Opacity)

	for _, im := range spikes.Matrices {
		base := m.TransformPoint(im.Position())
		if e.Camera.Occluded(base, R) {
			continue
		}
		pb, okB := e.Camera.Project(base)
		pt, okT := e.Camera.Project(m.TransformPoint(im.TransformPoint(r3.Vector{Z: -1})))
		if !okB || !okT {
			continue
		}
		width := math.Max(e.Config.SpikeRadius*2*pt.Scale, 1)
		vector.StrokeLine(screen, float32(pb.X), float32(pb.Y), float32(pt.X), float32(pt.Y), float32(width), c, true)
	}

	particles := e.spikes.Particles
	for i, pos := range particles.Positions {
		w := m.TransformPoint(pos)
		if e.Camera.Occluded(w, R) {
			continue
		}
		p, ok := e.Camera.Project(w)
		if !ok {
			continue
		}
		radius := math.Max(particles.Material.Size/2*p.Scale, 1)
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(radius), fade(particles.Colors[i], .8), true)
	}
}

func (e *Engine) drawArcs(screen *ebiten.Image, m scene.Mat4) {
	R := e.Config.GlobeRadius
	for _, s := range e.arcs.Slots() {
		if s.Line == nil {
			continue
		}
		g := s.Line.Geometry
		c := fade(s.Line.Material.Color, s.Line.Material.Opacity)
		from, to := scene.TubeSegmentRange(g, e.Config.TubeRadiusSegments)
		for i := from; i < to; i++ {
			pa, pb, visible := e.visibleSegment(m.TransformPoint(g.Path[i]), m.TransformPoint(g.Path[i+1]), R)
			if !visible {
				continue
			}
			width := math.Max(e.Config.TubeRadius*2*pa.Scale, 1)
			vector.StrokeLine(screen, float32(pa.X), float32(pa.Y), float32(pb.X), float32(pb.Y), float32(width), c, true)
		}
	}
}

func (e *Engine) drawLandings(screen *ebiten.Image, m scene.Mat4) {
	R := e.Config.GlobeRadius
	for _, s := range e.arcs.Slots() {
		if s.Dot == nil {
			continue
		}
		w := m.TransformPoint(s.Dot.Transform.Position)
		if e.Camera.Occluded(w, R) {
			continue
		}
		p, ok := e.Camera.Project(w)
		if !ok {
			continue
		}
		scale := s.Dot.Transform.Scale.X
		radius := e.Config.LandingDotRadius * scale * p.Scale
		if radius > .1 {
			vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(radius), fade(s.Dot.Material.Color, s.Dot.Material.Opacity), true)
		}
		if s.Ring != nil && s.Ring.Material.Opacity > s.Ring.Material.AlphaTest {
			ringScale := s.Ring.Transform.Scale.X
			e.drawGlow(screen, p.X, p.Y, e.Config.LandingRingOuter*ringScale*p.Scale, s.Ring.Material.Color, s.Ring.Material.Opacity)
		}
	}
}

func (e *Engine) drawGlow(screen *ebiten.Image, x, y, radius float64, c color.RGBA, alpha float64) {
	imgW := e.glowImage.Bounds().Dx()
	halfW := float64(imgW) / 2
	scale := radius * 2 / float64(imgW)

	op := &ebiten.DrawImageOptions{}
	op.Blend = ebiten.BlendLighter
	op.GeoM.Translate(-halfW, -halfW)
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate(x, y)
	r, g, b := float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0
	op.ColorScale.Scale(float32(r*alpha), float32(g*alpha), float32(b*alpha), float32(alpha))
	screen.DrawImage(e.glowImage, op)
}

// fade scales a color by alpha, keeping it premultiplied.
func fade(c color.RGBA, alpha float64) color.RGBA {
	a := clamp(alpha, 0, 1)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
