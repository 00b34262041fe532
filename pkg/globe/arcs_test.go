package globe

import (
	"math"
	"testing"
)

var (
	sanFrancisco = GeoCoordinate{37.77, -122.42}
	berlin       = GeoCoordinate{52.52, 13.40}
	tokyo        = GeoCoordinate{35.68, 139.69}
	saoPaulo     = GeoCoordinate{-23.55, -46.63}
)

func TestArcHeightScalar(t *testing.T) {
	tests := []struct {
		distance float64
		scalar   float64
		tier     ArcTier
	}{
		{20, 1.2, TierLow},
		{35, 1.35, TierLow},
		{40, 2.04, TierMid}, // 1.85R is 46.25, so 40 is not yet the steep tier
		{46.25, 2.2025, TierMid},
		{48, 3.16, TierHigh},
		{50, 3.25, TierHigh},
	}
	for _, tt := range tests {
		scalar, tier := ArcHeightScalar(tt.distance, 25)
		if tier != tt.tier || math.Abs(scalar-tt.scalar) > 1e-9 {
			t.Errorf("ArcHeightScalar(%v, 25) = %v, %v; want %v, %v", tt.distance, scalar, tier, tt.scalar, tt.tier)
		}
	}
}

func TestBuildArcExcludesDegeneratePairs(t *testing.T) {
	tests := []struct {
		name string
		pair Pair
	}{
		{"identical endpoints", Pair{berlin, berlin}},
		{"too close", Pair{GeoCoordinate{0, 0}, GeoCoordinate{0, 3}}},
		{"invalid origin", Pair{GeoCoordinate{math.NaN(), 0}, berlin}},
		{"invalid merge", Pair{berlin, GeoCoordinate{0, 200}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, ok := BuildArc(DefaultConfig(), 0, tt.pair); ok {
				t.Errorf("BuildArc(%v) succeeded; want excluded", tt.pair)
			}
		})
	}
}

func TestBuildArc(t *testing.T) {
	cfg := DefaultConfig()
	R := cfg.GlobeRadius
	rec, tube, hit, ok := BuildArc(cfg, 7, Pair{sanFrancisco, berlin})
	if !ok {
		t.Fatal("BuildArc(SF -> Berlin) excluded")
	}

	if want := 20 + int(rec.Curve.Length()); rec.Segments != want {
		t.Errorf("Segments = %d; want %d", rec.Segments, want)
	}
	perSegment := cfg.TubeRadiusSegments * 6
	if got, want := tube.IndexCount(), rec.Segments*perSegment; got != want {
		t.Errorf("tube.IndexCount() = %d; want %d", got, want)
	}
	if got, want := hit.IndexCount(), rec.Segments/4*perSegment; got != want {
		t.Errorf("hit.IndexCount() = %d; want %d", got, want)
	}
	if dr := tube.DrawRange(); dr.Start != 0 || dr.Count != 0 {
		t.Errorf("tube draw range = %+v; want hidden", dr)
	}
	if dr := hit.DrawRange(); dr.Start != 0 || dr.Count != 0 {
		t.Errorf("hit draw range = %+v; want hidden", dr)
	}

	v0 := ToCartesian(sanFrancisco.Lat, sanFrancisco.Lon, R)
	v1 := ToCartesian(berlin.Lat, berlin.Lon, R)
	if rec.Curve.Point(0).Distance(v0) > 1e-9 || rec.Curve.Point(1).Distance(v1) > 1e-9 {
		t.Errorf("curve runs %v -> %v; want %v -> %v", rec.Curve.Point(0), rec.Curve.Point(1), v0, v1)
	}
	if math.Abs(rec.Distance-v0.Distance(v1)) > 1e-9 {
		t.Errorf("Distance = %v; want %v", rec.Distance, v0.Distance(v1))
	}
	for _, c := range []float64{.25, .5, .75} {
		if p := rec.Curve.Point(c); p.Norm() <= R {
			t.Errorf("curve dips into the globe at t=%v: |p| = %v", c, p.Norm())
		}
	}

	if got, want := rec.Landing.Position.Norm(), R+7.0/10000; math.Abs(got-want) > 1e-9 {
		t.Errorf("|Landing.Position| = %v; want %v", got, want)
	}
	if got := rec.Landing.LookAt.Norm(); math.Abs(got-(R+5)) > 1e-9 {
		t.Errorf("|Landing.LookAt| = %v; want %v", got, R+5)
	}
	if rec.DataIndex != 7 {
		t.Errorf("DataIndex = %d; want 7", rec.DataIndex)
	}
}

func TestBuildArcTiers(t *testing.T) {
	tests := []struct {
		name string
		pair Pair
		tier ArcTier
	}{
		{"short hop", Pair{GeoCoordinate{0, 0}, GeoCoordinate{0, 47}}, TierLow},
		{"long hop", Pair{GeoCoordinate{0, 0}, GeoCoordinate{0, 120}}, TierMid},
		{"antipodal", Pair{GeoCoordinate{0, 0}, GeoCoordinate{0, 180}}, TierHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _, _, ok := BuildArc(DefaultConfig(), 0, tt.pair)
			if !ok {
				t.Fatalf("BuildArc(%v) excluded", tt.pair)
			}
			if rec.Tier != tt.tier {
				t.Errorf("Tier = %v (distance %v); want %v", rec.Tier, rec.Distance, tt.tier)
			}
		})
	}
}

func TestArcControlPointsFlattenLongArcs(t *testing.T) {
	cfg := DefaultConfig()
	R := cfg.GlobeRadius
	p := Pair{tokyo, saoPaulo}
	v0 := ToCartesian(p.Origin.Lat, p.Origin.Lon, R)
	v1 := ToCartesian(p.Merge.Lat, p.Merge.Lon, R)
	ctrl0, ctrl1, scalar, _ := ArcControlPoints(cfg, p, v0, v1)

	// both controls sit above the surface and closer to their own end
	if ctrl0.Norm() <= R || ctrl1.Norm() <= R {
		t.Errorf("control points |%v|, |%v| not above the globe", ctrl0.Norm(), ctrl1.Norm())
	}
	if ctrl0.Distance(v0) >= ctrl0.Distance(v1) || ctrl1.Distance(v1) >= ctrl1.Distance(v0) {
		t.Errorf("control points %v, %v are not ordered along the arc", ctrl0, ctrl1)
	}
	if scalar <= 1 {
		t.Errorf("height scalar = %v; want > 1", scalar)
	}
}
