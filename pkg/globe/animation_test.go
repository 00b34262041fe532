package globe

import (
	"math"
	"reflect"
	"testing"
)

func TestNewArcEngineSkipsUnusablePairs(t *testing.T) {
	pairs := []Pair{
		{sanFrancisco, berlin},
		{berlin, berlin},
		{GeoCoordinate{math.NaN(), 0}, tokyo},
		{tokyo, saoPaulo},
	}
	eng, err := NewArcEngine(DefaultConfig(), pairs)
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	if eng.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", eng.Len())
	}
	want := HitInfo{DataIndex: 3, LineMeshIndex: 1}
	if got := eng.Arc(1).HitInfo; got != want {
		t.Errorf("Arc(1).HitInfo = %+v; want %+v", got, want)
	}
	if got, ok := eng.Resolve(eng.Arc(1).LineHit); !ok || got != want {
		t.Errorf("Resolve(Arc(1).LineHit) = %+v, %v; want %+v, true", got, ok, want)
	}
	if _, ok := eng.Resolve(eng.Arc(1).Line); ok {
		t.Error("Resolve(Arc(1).Line) succeeded on a visible tube")
	}
	if eng.Group.Len() != 0 {
		t.Errorf("Group.Len() = %d before any update; want 0", eng.Group.Len())
	}
}

func TestNewArcEngineEmpty(t *testing.T) {
	eng, err := NewArcEngine(DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	for i := 0; i < 10; i++ {
		if got := eng.Update(1); got != -1 {
			t.Fatalf("Update() = %d on an empty engine; want -1", got)
		}
	}
	eng.Dispose()
}

func TestArcEngineInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LandingOutEasing = 1
	if _, err := NewArcEngine(cfg, nil); err == nil {
		t.Error("NewArcEngine accepted an easing of 1")
	}
}

func TestArcEngineActivationIsCyclic(t *testing.T) {
	cfg := DefaultConfig()
	eng, err := NewArcEngine(cfg, []Pair{{sanFrancisco, berlin}, {tokyo, saoPaulo}, {berlin, tokyo}})
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}

	// 1.5 * 0.125 is exact, so the cursor lands on 3 after 16 frames
	const delta = 0.125
	frames := int(float64(eng.Len()) / cfg.DataIncrementSpeed / delta)
	var activated []int
	for i := 0; i < frames; i++ {
		if idx := eng.Update(delta); idx >= 0 {
			activated = append(activated, idx)
		}
	}
	if want := []int{0, 1, 2}; !reflect.DeepEqual(activated, want) {
		t.Errorf("activated %v; want %v", activated, want)
	}
	if eng.Cursor() != 0 {
		t.Errorf("Cursor() = %v after a full cycle; want 0", eng.Cursor())
	}
	if eng.ActiveCount() != 3 {
		t.Errorf("ActiveCount() = %d; want 3", eng.ActiveCount())
	}

	// arc 0 is still drawing, so the second cycle must not restart it
	if idx := eng.Update(delta); idx != -1 {
		t.Errorf("Update() = %d while arc 0 is in flight; want -1", idx)
	}
	if eng.ActiveCount() != 3 {
		t.Errorf("ActiveCount() = %d; want 3", eng.ActiveCount())
	}
}

func TestArcEngineIgnoresBadDelta(t *testing.T) {
	cfg := DefaultConfig()
	eng, err := NewArcEngine(cfg, []Pair{{sanFrancisco, berlin}, {tokyo, saoPaulo}})
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	if idx := eng.Update(0.5); idx != 0 {
		t.Fatalf("Update(0.5) = %d; want 0", idx)
	}
	cursor := eng.Cursor()

	for _, delta := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -1} {
		if idx := eng.Update(delta); idx != -1 {
			t.Errorf("Update(%v) = %d; want -1", delta, idx)
		}
		if eng.Cursor() != cursor {
			t.Errorf("Cursor() = %v after Update(%v); want %v", eng.Cursor(), delta, cursor)
		}
	}

	if idx := eng.Update(0.5); idx != 1 {
		t.Errorf("Update(0.5) after bad deltas = %d; want 1", idx)
	}
}

func TestArcEngineLifecycle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataIncrementSpeed = .01 // one activation in the window under test
	eng, err := NewArcEngine(cfg, []Pair{{sanFrancisco, berlin}})
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	line := eng.Arc(0).Line.Geometry
	hit := eng.Arc(0).LineHit.Geometry

	if got := eng.Update(1.0 / 60); got != 0 {
		t.Fatalf("first Update() = %d; want 0", got)
	}
	if eng.State(0) != StateDrawing {
		t.Fatalf("State(0) = %v; want drawing", eng.State(0))
	}
	if eng.Group.Len() != 4 {
		t.Fatalf("Group.Len() = %d; want line, hit line, dot and ring", eng.Group.Len())
	}

	seen := map[ArcState]bool{StateDrawing: true}
	var prevCount, prevStart, prevScale float64
	ringGone := false
	for frame := 0; frame < 5000 && eng.State(0) != StateDisposed; frame++ {
		eng.Update(1.0 / 60)
		state := eng.State(0)
		seen[state] = true

		dr := line.DrawRange()
		if dr.Start > dr.Count {
			t.Fatalf("frame %d: start %v > count %v", frame, dr.Start, dr.Count)
		}
		if hdr := hit.DrawRange(); hdr.Start > hdr.Count {
			t.Fatalf("frame %d: hit start %v > count %v", frame, hdr.Start, hdr.Count)
		}
		switch state {
		case StateDrawing, StateHolding:
			if dr.Count < prevCount || dr.Start != 0 {
				t.Fatalf("frame %d (%v): draw range %+v after count %v", frame, state, dr, prevCount)
			}
		case StateRetracting:
			if dr.Start < prevStart {
				t.Fatalf("frame %d: start went back from %v to %v", frame, prevStart, dr.Start)
			}
			if math.Mod(dr.Start, float64(cfg.TubeRadiusSegments)) != 0 {
				t.Fatalf("frame %d: start %v not a whole radial segment", frame, dr.Start)
			}
		case StateLandingOut:
			if dr.Count != 0 {
				t.Fatalf("frame %d: retired line still has draw range %+v", frame, dr)
			}
			if eng.Group.Contains(eng.Arc(0).Line) {
				t.Fatalf("frame %d: retired line still attached", frame)
			}
		}
		prevCount, prevStart = dr.Count, dr.Start

		slots := eng.Slots()
		if len(slots) != 1 {
			continue
		}
		scale := slots[0].Dot.Transform.Scale.X
		switch state {
		case StateHolding, StateRetracting:
			if prevScale <= .99 && scale <= prevScale {
				t.Fatalf("frame %d: landing-in scale %v did not grow from %v", frame, scale, prevScale)
			}
			if scale >= 1 {
				t.Fatalf("frame %d: landing-in scale %v overshot", frame, scale)
			}
		case StateLandingOut:
			if scale >= prevScale {
				t.Fatalf("frame %d: landing-out scale %v did not shrink from %v", frame, scale, prevScale)
			}
			if slots[0].Ring != nil {
				t.Fatalf("frame %d: ring outlived landing-in", frame)
			}
			ringGone = true
		}
		prevScale = scale
	}

	for _, s := range []ArcState{StateDrawing, StateHolding, StateRetracting, StateLandingOut, StateDisposed} {
		if !seen[s] {
			t.Errorf("never saw state %v", s)
		}
	}
	if !ringGone {
		t.Error("landing-out never observed")
	}
	if eng.ActiveCount() != 0 || eng.RetiringCount() != 0 || eng.Group.Len() != 0 {
		t.Errorf("after the cycle: active %d, retiring %d, group %d; want all 0",
			eng.ActiveCount(), eng.RetiringCount(), eng.Group.Len())
	}
}

func TestArcEngineHighlight(t *testing.T) {
	eng, err := NewArcEngine(DefaultConfig(), []Pair{{sanFrancisco, berlin}, {tokyo, saoPaulo}})
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	a, _ := eng.Resolve(eng.Arc(0).LineHit)
	b, _ := eng.Resolve(eng.Arc(1).LineHit)
	def := eng.Arc(0).Line.Material

	if !eng.Highlight(a) {
		t.Fatal("Highlight(a) failed")
	}
	if eng.Arc(0).Line.Material == def || eng.Arc(0).Line.Material.Color != ColorHighlight {
		t.Error("arc 0 not highlighted")
	}

	eng.Highlight(b)
	if eng.Arc(0).Line.Material != def {
		t.Error("arc 0 not restored when arc 1 was highlighted")
	}
	if eng.Arc(1).Line.Material.Color != ColorHighlight {
		t.Error("arc 1 not highlighted")
	}
	if got, ok := eng.Highlighted(); !ok || got != b {
		t.Errorf("Highlighted() = %+v, %v; want %+v", got, ok, b)
	}

	eng.ResetHighlight()
	if eng.Arc(1).Line.Material != def {
		t.Error("ResetHighlight() left arc 1 highlighted")
	}
	if _, ok := eng.Highlighted(); ok {
		t.Error("Highlighted() reports an arc after ResetHighlight()")
	}
	if eng.Highlight(HitInfo{LineMeshIndex: 9}) {
		t.Error("Highlight() accepted an unknown arc")
	}
}

func TestArcEngineDispose(t *testing.T) {
	eng, err := NewArcEngine(DefaultConfig(), []Pair{{sanFrancisco, berlin}, {tokyo, saoPaulo}})
	if err != nil {
		t.Fatalf("NewArcEngine: %v", err)
	}
	for i := 0; i < 120; i++ {
		eng.Update(1.0 / 60)
	}
	slots := eng.Slots()
	if len(slots) == 0 {
		t.Fatal("no slots in flight before Dispose")
	}
	eng.Dispose()

	for i, arc := range eng.Arcs() {
		if !arc.Line.Geometry.Disposed() || !arc.LineHit.Geometry.Disposed() {
			t.Errorf("arc %d geometry not disposed", i)
		}
		if !arc.Line.Material.Disposed() {
			t.Errorf("arc %d material not disposed", i)
		}
		if eng.State(i) != StateDisposed {
			t.Errorf("State(%d) = %v; want disposed", i, eng.State(i))
		}
	}
	for _, s := range slots {
		if s.Ring != nil && !s.Ring.Geometry.Disposed() {
			t.Error("landing ring not disposed")
		}
	}
	if eng.Group.Len() != 0 || eng.ActiveCount() != 0 {
		t.Errorf("Group.Len() = %d, ActiveCount() = %d after Dispose; want 0", eng.Group.Len(), eng.ActiveCount())
	}
}
