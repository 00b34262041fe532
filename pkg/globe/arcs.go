package globe

import (
	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// Pair is one pull request: where it was opened and where it was merged.
type Pair struct {
	Origin, Merge GeoCoordinate
}

// ArcTier is the height band an arc falls into; longer hops fly higher.
type ArcTier int

const (
	TierLow ArcTier = iota
	TierMid
	TierHigh
)

func (t ArcTier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMid:
		return "mid"
	case TierHigh:
		return "high"
	}
	return "unknown"
}

// HitInfo is stored on every hit-test tube and identifies the arc it
// belongs to.
type HitInfo struct {
	DataIndex     int
	LineMeshIndex int
}

// Landing is where the landing dot of an arc sits and what it faces.
type Landing struct {
	Position r3.Vector
	LookAt   r3.Vector
}

// ArcRecord is one buildable merge arc. Records are built once and reused by
// every activation cycle.
type ArcRecord struct {
	HitInfo
	Pair

	Distance     float64
	Tier         ArcTier
	HeightScalar float64
	Curve        *scene.CubicBezier
	Segments     int
	Landing      Landing

	// Line and LineHit are owned by the engine; they are attached to the
	// scene only while the arc is animating.
	Line    *scene.Mesh
	LineHit *scene.Mesh
}

// ArcHeightScalar returns how far above the globe the midpoint of an arc of
// the given chord distance is lifted, as a multiple of the radius.
func ArcHeightScalar(distance, radius float64) (float64, ArcTier) {
	switch {
	case distance > radius*1.85:
		return MapLinear(distance, 0, radius*2, 1, 3.25), TierHigh
	case distance > radius*1.4:
		return MapLinear(distance, 0, radius*2, 1, 2.3), TierMid
	default:
		return MapLinear(distance, 0, radius*2, 1, 1.5), TierLow
	}
}

// ArcControlPoints returns the two inner control points of the bezier between
// the projected origin v0 and merge v1.
func ArcControlPoints(cfg Config, p Pair, v0, v1 r3.Vector) (ctrl0, ctrl1 r3.Vector, scalar float64, tier ArcTier) {
	R := cfg.GlobeRadius
	distance := v0.Distance(v1)

	scalar, tier = ArcHeightScalar(distance, R)
	midLat, midLon := Midpoint(p.Origin.Lat, p.Origin.Lon, p.Merge.Lat, p.Merge.Lon)
	mid := ToCartesian(midLat, midLon, R*scalar)

	// Pull the controls towards the ends on long arcs so they flatten out.
	t0 := MapLinear(distance, 15, 35, .2, .15)
	t1 := MapLinear(distance, 15, 35, .8, .85)
	provisional := scene.NewCubicBezier(v0, mid, mid, v1)
	ctrl0 = provisional.Point(t0)
	ctrl1 = provisional.Point(t1)

	lift := MapLinear(distance, 0, R*2, 1, 1.5)
	return ctrl0.Mul(lift), ctrl1.Mul(lift), scalar, tier
}

// BuildArc builds the curve and both tube geometries for one pair. It
// reports false when either coordinate is invalid or the endpoints are too
// close together to animate. dataIndex is the pair's position in the input
// and nudges the landing outward so overlapping landings do not z-fight.
func BuildArc(cfg Config, dataIndex int, p Pair) (*ArcRecord, *scene.Geometry, *scene.Geometry, bool) {
	if !IsValidCoordinate(p.Origin) || !IsValidCoordinate(p.Merge) {
		return nil, nil, nil, false
	}
	R := cfg.GlobeRadius
	v0 := ToCartesian(p.Origin.Lat, p.Origin.Lon, R)
	v1 := ToCartesian(p.Merge.Lat, p.Merge.Lon, R)
	distance := v0.Distance(v1)
	if !(distance > cfg.MinArcDistance) {
		return nil, nil, nil, false
	}

	ctrl0, ctrl1, scalar, tier := ArcControlPoints(cfg, p, v0, v1)
	curve := scene.NewCubicBezier(v0, ctrl0, ctrl1, v1)
	segments := cfg.MinTubeSegments + int(curve.Length())

	tube := scene.NewTubeGeometry(curve, segments, cfg.TubeRadius, cfg.TubeRadiusSegments)
	hit := scene.NewTubeGeometry(curve, segments/cfg.TubeHitFraction, cfg.TubeHitRadius, cfg.TubeRadiusSegments)
	tube.SetDrawRange(0, 0)
	hit.SetDrawRange(0, 0)

	rec := &ArcRecord{
		HitInfo:      HitInfo{DataIndex: dataIndex},
		Pair:         p,
		Distance:     distance,
		Tier:         tier,
		HeightScalar: scalar,
		Curve:        curve,
		Segments:     segments,
		Landing: Landing{
			Position: ToCartesian(p.Merge.Lat, p.Merge.Lon, R+float64(dataIndex)/10000),
			LookAt:   ToCartesian(p.Merge.Lat, p.Merge.Lon, R+5),
		},
	}
	return rec, tube, hit, true
}
