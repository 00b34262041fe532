package globe

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// ArcState is where an arc is in its activation cycle.
type ArcState int

const (
	StateInactive ArcState = iota
	StateDrawing
	StateHolding
	StateRetracting
	StateLandingOut
	StateDisposed
)

func (s ArcState) String() string {
	switch s {
	case StateInactive:
		return "inactive"
	case StateDrawing:
		return "drawing"
	case StateHolding:
		return "holding"
	case StateRetracting:
		return "retracting"
	case StateLandingOut:
		return "landing-out"
	case StateDisposed:
		return "disposed"
	}
	return fmt.Sprintf("ArcState(%d)", int(s))
}

// animating reports whether an arc in state s still owns its line meshes.
func (s ArcState) animating() bool {
	return s == StateDrawing || s == StateHolding || s == StateRetracting
}

// slot is one in-flight activation of an arc. line and lineHit are cleared
// once the arc has retracted; ring is cleared once landing-in finishes.
type slot struct {
	arc     int
	line    *scene.Mesh
	lineHit *scene.Mesh
	dot     *scene.Mesh
	ring    *scene.Mesh
}

// Slot is a read-only view of an in-flight activation, for renderers.
type Slot struct {
	Arc     int
	State   ArcState
	Line    *scene.Mesh
	LineHit *scene.Mesh
	Dot     *scene.Mesh
	Ring    *scene.Mesh
}

// ArcEngine reveals, holds and retracts a rotating subset of arcs. It is not
// safe for concurrent use; Update is meant to be called once per frame.
type ArcEngine struct {
	cfg   Config
	Group *scene.Group

	arcs   []*ArcRecord
	states []ArcState

	tubeMaterial      *scene.Material
	highlightMaterial *scene.Material
	hiddenMaterial    *scene.Material
	dotGeometry       *scene.Geometry

	cursor        float64
	lastActivated int
	active        []*slot
	retiring      []*slot
	highlighted   *scene.Mesh
	highlightInfo HitInfo
}

// NewArcEngine builds an arc for every usable pair. Pairs with invalid
// coordinates or endpoints closer than cfg.MinArcDistance are skipped; their
// input position is still reported through HitInfo.DataIndex.
func NewArcEngine(cfg Config, pairs []Pair) (*ArcEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tubeMaterial := scene.NewMaterial("arc-tube", ColorArc)
	tubeMaterial.Transparent = true
	tubeMaterial.Opacity = .95
	tubeMaterial.Blending = scene.AdditiveBlending

	highlightMaterial := tubeMaterial.Clone()
	highlightMaterial.Name = "arc-highlight"
	highlightMaterial.Color = ColorHighlight
	highlightMaterial.Opacity = 1

	e := &ArcEngine{
		cfg:               cfg,
		Group:             scene.NewGroup("arcs"),
		tubeMaterial:      tubeMaterial,
		highlightMaterial: highlightMaterial,
		hiddenMaterial:    scene.HiddenMaterial("arc-hit"),
		dotGeometry:       scene.NewCircleGeometry(cfg.LandingDotRadius, 8),
		lastActivated:     -1,
	}

	for i, p := range pairs {
		rec, tube, hit, ok := BuildArc(cfg, i, p)
		if !ok {
			continue
		}
		rec.LineMeshIndex = len(e.arcs)

		rec.Line = scene.NewMesh(tube, tubeMaterial)
		rec.Line.Name = "line"
		rec.LineHit = scene.NewMesh(hit, e.hiddenMaterial)
		rec.LineHit.Name = "lineHitMesh"
		rec.LineHit.UserData = rec.HitInfo

		e.arcs = append(e.arcs, rec)
	}
	e.states = make([]ArcState, len(e.arcs))
	return e, nil
}

// Len is the number of animatable arcs.
func (e *ArcEngine) Len() int {
	return len(e.arcs)
}

// Arc returns the record for a line mesh index.
func (e *ArcEngine) Arc(i int) *ArcRecord {
	return e.arcs[i]
}

// Arcs returns every record in line mesh order.
func (e *ArcEngine) Arcs() []*ArcRecord {
	return e.arcs
}

// Cursor is the fractional activation cursor.
func (e *ArcEngine) Cursor() float64 {
	return e.cursor
}

// State reports where arc i is in its current cycle.
func (e *ArcEngine) State(i int) ArcState {
	if i < 0 || i >= len(e.states) {
		return StateInactive
	}
	return e.states[i]
}

// ActiveCount is the number of arcs drawing, holding or retracting.
func (e *ArcEngine) ActiveCount() int {
	return len(e.active)
}

// RetiringCount is the number of landing dots still shrinking.
func (e *ArcEngine) RetiringCount() int {
	return len(e.retiring)
}

// Slots lists the in-flight activations, active ones first, each pool in
// activation order.
func (e *ArcEngine) Slots() []Slot {
	out := make([]Slot, 0, len(e.active)+len(e.retiring))
	for _, pool := range [][]*slot{e.active, e.retiring} {
		for _, s := range pool {
			state := e.states[s.arc]
			if s.line == nil {
				state = StateLandingOut
			}
			out = append(out, Slot{
				Arc:     s.arc,
				State:   state,
				Line:    s.line,
				LineHit: s.lineHit,
				Dot:     s.dot,
				Ring:    s.ring,
			})
		}
	}
	return out
}

// Update advances every animation by delta seconds. It returns the index of
// the arc activated during this call, or -1. A delta that is not a positive
// finite number leaves the engine untouched.
func (e *ArcEngine) Update(delta float64) int {
	if !(delta > 0) || math.IsInf(delta, 1) {
		return -1
	}
	activated := e.advanceCursor(delta)

	step := delta * e.cfg.LineAnimationSpeed
	next := e.active[:0]
	for _, s := range e.active {
		if e.animate(s, step) {
			next = append(next, s)
			continue
		}
		e.retire(s)
	}
	clear(e.active[len(next):])
	e.active = next

	remaining := e.retiring[:0]
	for _, s := range e.retiring {
		if e.landOut(s) {
			remaining = append(remaining, s)
		}
	}
	clear(e.retiring[len(remaining):])
	e.retiring = remaining

	return activated
}

func (e *ArcEngine) advanceCursor(delta float64) int {
	if len(e.arcs) == 0 {
		return -1
	}
	e.cursor += delta * e.cfg.DataIncrementSpeed
	idx := int(math.Floor(e.cursor))
	if idx >= len(e.arcs) {
		e.cursor = 0
		e.lastActivated = -1
		return -1
	}
	if idx <= e.lastActivated {
		return -1
	}
	e.lastActivated = idx
	if e.states[idx].animating() {
		return -1
	}
	e.activate(idx)
	return idx
}

func (e *ArcEngine) activate(i int) {
	arc := e.arcs[i]
	arc.Line.Geometry.SetDrawRange(0, 0)
	arc.LineHit.Geometry.SetDrawRange(0, 0)

	dot := scene.NewMesh(e.dotGeometry, e.tubeMaterial)
	dot.Name = "landing-dot"
	dot.Transform.Position = arc.Landing.Position
	dot.Transform.LookAt(arc.Landing.LookAt)
	dot.Transform.Scale = r3.Vector{Z: 1}

	ringMaterial := scene.NewMaterial("landing-ring", ColorArc)
	ringMaterial.Transparent = true
	ringMaterial.Opacity = 0
	ringMaterial.AlphaTest = .02
	ringMaterial.Blending = scene.AdditiveBlending
	ring := scene.NewMesh(scene.NewRingGeometry(e.cfg.LandingRingInner, e.cfg.LandingRingOuter, 16), ringMaterial)
	ring.Name = "landing-ring"
	ring.Transform = dot.Transform

	e.Group.Add(arc.Line)
	e.Group.Add(arc.LineHit)
	e.Group.Add(dot)
	e.Group.Add(ring)

	e.active = append(e.active, &slot{
		arc:     i,
		line:    arc.Line,
		lineHit: arc.LineHit,
		dot:     dot,
		ring:    ring,
	})
	e.states[i] = StateDrawing
}

// animate advances the draw range of an active slot and reports whether it
// is still active afterwards.
func (e *ArcEngine) animate(s *slot, step float64) bool {
	g := s.line.Geometry
	hg := s.lineHit.Geometry
	total := float64(g.IndexCount())
	frac := float64(e.cfg.TubeHitFraction)
	radial := float64(e.cfg.TubeRadiusSegments)

	dr := g.DrawRange()
	count := dr.Count + step
	start := dr.Start + step

	if count >= total && start < total {
		e.landIn(s)
	}

	switch {
	case start >= total:
		return false
	case count >= total*e.cfg.PauseLengthFactor+e.cfg.MinPause:
		start = radial * math.Ceil(start/radial)
		hitStart := radial * math.Ceil(start/frac/radial)
		g.SetDrawRange(start, count)
		hg.SetDrawRange(hitStart, count/frac)
		e.states[s.arc] = StateRetracting
	default:
		g.SetDrawRange(0, count)
		hg.SetDrawRange(0, count/frac)
		if count >= total {
			e.states[s.arc] = StateHolding
		} else {
			e.states[s.arc] = StateDrawing
		}
	}
	return true
}

// retire detaches the line meshes of a fully retracted slot and hands it to
// the landing-out pool.
func (e *ArcEngine) retire(s *slot) {
	s.line.Geometry.SetDrawRange(0, 0)
	s.lineHit.Geometry.SetDrawRange(0, 0)
	if e.highlighted == s.line {
		e.ResetHighlight()
	}
	e.Group.Remove(s.line)
	e.Group.Remove(s.lineHit)
	s.line = nil
	s.lineHit = nil

	e.states[s.arc] = StateLandingOut
	e.retiring = append(e.retiring, s)
}

// Resolve is the pick-resolution contract: given a mesh returned by a hit
// test it reports the arc it belongs to.
func (e *ArcEngine) Resolve(m *scene.Mesh) (HitInfo, bool) {
	if m == nil {
		return HitInfo{}, false
	}
	info, ok := m.UserData.(HitInfo)
	if !ok || info.LineMeshIndex < 0 || info.LineMeshIndex >= len(e.arcs) {
		return HitInfo{}, false
	}
	return info, true
}

// Highlight swaps the tube material of the arc in info for the highlight
// material. At most one arc is highlighted; the previous one is restored.
func (e *ArcEngine) Highlight(info HitInfo) bool {
	if info.LineMeshIndex < 0 || info.LineMeshIndex >= len(e.arcs) {
		return false
	}
	line := e.arcs[info.LineMeshIndex].Line
	if e.highlighted == line {
		return true
	}
	e.ResetHighlight()
	line.Material = e.highlightMaterial
	e.highlighted = line
	e.highlightInfo = e.arcs[info.LineMeshIndex].HitInfo
	return true
}

// Highlighted returns the highlighted arc, if any.
func (e *ArcEngine) Highlighted() (HitInfo, bool) {
	if e.highlighted == nil {
		return HitInfo{}, false
	}
	return e.highlightInfo, true
}

// ResetHighlight restores the default material on the highlighted arc.
func (e *ArcEngine) ResetHighlight() {
	if e.highlighted == nil {
		return
	}
	e.highlighted.Material = e.tubeMaterial
	e.highlighted = nil
}

// Dispose tears down every geometry and material the engine owns. The
// engine must not be used afterwards.
func (e *ArcEngine) Dispose() {
	e.ResetHighlight()
	for _, pool := range [][]*slot{e.active, e.retiring} {
		for _, s := range pool {
			if s.ring != nil {
				s.ring.Dispose()
			}
		}
	}
	for i, arc := range e.arcs {
		arc.Line.Geometry.Dispose()
		arc.LineHit.Geometry.Dispose()
		e.states[i] = StateDisposed
	}
	e.tubeMaterial.Dispose()
	e.highlightMaterial.Dispose()
	e.hiddenMaterial.Dispose()
	e.dotGeometry.Dispose()

	e.active = nil
	e.retiring = nil
	e.Group = scene.NewGroup("arcs")
}
