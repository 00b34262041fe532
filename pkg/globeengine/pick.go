package globeengine

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/globe"
	"github.com/sudorandom/pr-globe/pkg/scene"
)

// spikeHitWidth is the width of the box around each spike that counts as a
// hit.
const spikeHitWidth = .75

// pickArc returns the nearest animating arc whose hit tube passes under the
// screen point (x, y).
func (e *Engine) pickArc(x, y float64) (globe.HitInfo, bool) {
	m := e.Camera.Matrix()
	R := e.Config.GlobeRadius

	best := math.Inf(1)
	var found globe.HitInfo
	ok := false
	for _, s := range e.arcs.Slots() {
		if s.LineHit == nil {
			continue
		}
		info, valid := e.arcs.Resolve(s.LineHit)
		if !valid {
			continue
		}
		g := s.LineHit.Geometry
		from, to := scene.TubeSegmentRange(g, e.Config.TubeRadiusSegments)
		for i := from; i < to; i++ {
			pa, pb, visible := e.visibleSegment(m.TransformPoint(g.Path[i]), m.TransformPoint(g.Path[i+1]), R)
			if !visible {
				continue
			}
			if segmentDistance(x, y, pa, pb) > e.Config.TubeHitRadius*math.Max(pa.Scale, pb.Scale) {
				continue
			}
			if depth := math.Min(pa.Depth, pb.Depth); depth < best {
				best, found, ok = depth, info, true
			}
		}
	}
	return found, ok
}

// pickSpike returns the nearest visible spike under the screen point (x, y).
func (e *Engine) pickSpike(x, y float64) (globe.SpikeHit, bool) {
	m := e.Camera.Matrix()
	R := e.Config.GlobeRadius

	best := math.Inf(1)
	var found globe.SpikeHit
	ok := false
	for i := 0; i < e.spikes.Count(); i++ {
		hit, _ := e.spikes.Pick(i)
		base := m.TransformPoint(hit.Base)
		if e.Camera.Occluded(base, R) {
			continue
		}
		pb, okB := e.Camera.Project(base)
		pt, okT := e.Camera.Project(m.TransformPoint(hit.Tip))
		if !okB || !okT {
			continue
		}
		if segmentDistance(x, y, pb, pt) > spikeHitWidth/2*pb.Scale {
			continue
		}
		if pt.Depth < best {
			best, found, ok = pt.Depth, hit, true
		}
	}
	return found, ok
}

// visibleSegment projects the world-space segment ab. It reports false when
// either end is hidden behind the globe or cannot be projected; drawing and
// picking share it so nothing invisible can be hovered.
func (e *Engine) visibleSegment(a, b r3.Vector, radius float64) (pa, pb ScreenPoint, ok bool) {
	if e.Camera.Occluded(a, radius) || e.Camera.Occluded(b, radius) {
		return pa, pb, false
	}
	pa, okA := e.Camera.Project(a)
	pb, okB := e.Camera.Project(b)
	return pa, pb, okA && okB
}

// segmentDistance is the screen distance from (x, y) to the segment ab.
func segmentDistance(x, y float64, a, b ScreenPoint) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	t := 0.0
	if l2 > 0 {
		t = clamp(((x-a.X)*dx+(y-a.Y)*dy)/l2, 0, 1)
	}
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}
