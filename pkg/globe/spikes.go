package globe

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/golang/geo/r3"

	"github.com/sudorandom/pr-globe/pkg/scene"
)

// RandSource supplies the cosmetic jitter on spike heights. *rand.Rand
// satisfies it.
type RandSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// SpikeField is the "opened" layer: one spike per valid origin, scaled by
// how many other origins are nearby, with a matching invisible hit volume
// and a glow particle beyond its tip. All three share the same index.
type SpikeField struct {
	Group      *scene.Group
	Spikes     *scene.InstancedMesh
	HitVolumes *scene.InstancedMesh
	Particles  *scene.Points

	// DataIndex maps a spike index back to the input index it came from.
	DataIndex []int
	Densities []int
	Heights   []float64

	MinDensity, MaxDensity int
}

// SpikeHit is the result of resolving a picked hit volume.
type SpikeHit struct {
	Index     int
	DataIndex int
	Density   int
	Height    float64
	Base      r3.Vector
	Tip       r3.Vector
	Particle  r3.Vector
}

// NewSpikeField builds spikes for origins. Invalid coordinates are skipped
// and take no index. rnd may be nil, in which case the global math/rand
// source is used.
func NewSpikeField(cfg Config, origins []GeoCoordinate, rnd RandSource) (*SpikeField, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rnd == nil {
		rnd = globalRand{}
	}
	R := cfg.GlobeRadius

	var positions []r3.Vector
	var dataIndex []int
	var coords []GeoCoordinate
	for i, c := range origins {
		if !IsValidCoordinate(c) {
			continue
		}
		positions = append(positions, ToCartesian(c.Lat, c.Lon, R))
		dataIndex = append(dataIndex, i)
		coords = append(coords, c)
	}
	densities, minDensity, maxDensity := Densities(positions, cfg.DensityRadius)

	spikeGeometry := scene.NewCylinderGeometry(cfg.SpikeRadius, cfg.SpikeRadius, 1, 6).
		Translate(r3.Vector{Y: .5}).
		RotateX(-math.Pi / 2)
	spikeMaterial := scene.NewMaterial("spikes", ColorSpike)
	spikeMaterial.Transparent = true
	spikeMaterial.Opacity = .4
	spikeMaterial.AlphaTest = .05
	spikeMaterial.Blending = scene.AdditiveBlending
	spikes := scene.NewInstancedMesh(spikeGeometry, spikeMaterial, len(positions))
	spikes.Name = "spikes"

	hitGeometry := scene.NewBoxGeometry(.75, 1, .75).
		Translate(r3.Vector{Y: .5}).
		RotateX(-math.Pi / 2)
	hits := scene.NewInstancedMesh(hitGeometry, scene.HiddenMaterial("spike-hits"), len(positions))
	hits.Name = "spike-hits"

	particleMaterial := scene.NewMaterial("spike-particles", ColorSpike)
	particleMaterial.AlphaTest = .05
	particleMaterial.Size = .8
	particles := &scene.Points{
		Name:      "spike-particles",
		Positions: make([]r3.Vector, 0, len(positions)),
		Colors:    make([]color.RGBA, 0, len(positions)),
		Material:  particleMaterial,
	}

	heights := make([]float64, len(positions))
	origin := r3.Vector{}
	up := r3.Vector{Y: 1}
	for i, pos := range positions {
		height := R * .075
		if maxDensity > minDensity {
			height = MapLinear(float64(densities[i]), float64(minDensity), float64(maxDensity), R*.075, R*.15)
		}
		height += rnd.Float64()*cfg.SpikeJitter*2 - cfg.SpikeJitter
		heights[i] = height

		m := scene.Compose(pos, scene.LookRotation(pos, origin, up), r3.Vector{X: 1, Y: 1, Z: height})
		spikes.SetMatrixAt(i, m)
		hits.SetMatrixAt(i, m)

		c := coords[i]
		particles.Positions = append(particles.Positions, ToCartesian(c.Lat, c.Lon, R+height+.75))
		particles.Colors = append(particles.Colors, ColorSpike)
	}

	group := scene.NewGroup("opened")
	group.Add(hits)
	group.Add(spikes)
	group.Add(particles)

	return &SpikeField{
		Group:      group,
		Spikes:     spikes,
		HitVolumes: hits,
		Particles:  particles,
		DataIndex:  dataIndex,
		Densities:  densities,
		Heights:    heights,
		MinDensity: minDensity,
		MaxDensity: maxDensity,
	}, nil
}

// Count is the number of spikes.
func (s *SpikeField) Count() int {
	return len(s.DataIndex)
}

// Pick resolves a hit-volume index to its spike and particle.
func (s *SpikeField) Pick(index int) (SpikeHit, bool) {
	if index < 0 || index >= len(s.DataIndex) {
		return SpikeHit{}, false
	}
	m := s.Spikes.MatrixAt(index)
	return SpikeHit{
		Index:     index,
		DataIndex: s.DataIndex[index],
		Density:   s.Densities[index],
		Height:    s.Heights[index],
		Base:      m.Position(),
		Tip:       m.TransformPoint(r3.Vector{Z: -1}),
		Particle:  s.Particles.Positions[index],
	}, true
}

// Dispose releases every geometry and material of the field.
func (s *SpikeField) Dispose() {
	s.Group.Dispose()
}
