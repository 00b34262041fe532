// Package globe builds the pull-request globe: the land dot field, the
// density-scaled spike field and the animated merge arcs. Everything here is
// single threaded and driven by the caller's render loop.
package globe

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrInvalidConfig = errors.New("invalid globe config")
	ErrMissingMask   = errors.New("missing land mask")
)

var (
	ColorDot       = color.RGBA{0x3A, 0x44, 0x94, 0xFF}
	ColorSpike     = color.RGBA{0x21, 0x88, 0xFF, 0xFF}
	ColorArc       = color.RGBA{0xF4, 0x6B, 0xBE, 0xFF}
	ColorHighlight = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
)

// Config holds every tunable of the generators. It is passed by value and
// never modified after construction.
type Config struct {
	GlobeRadius float64

	// Dot field
	DotRows            int
	DotSize            float64
	DotsPerUnit        float64
	MaskAlphaThreshold uint8

	// Spike field
	SpikeRadius   float64
	DensityRadius float64
	SpikeJitter   float64

	// Arcs
	MinArcDistance     float64
	TubeRadius         float64
	TubeRadiusSegments int
	TubeHitRadius      float64
	TubeHitFraction    int
	MinTubeSegments    int
	DataIncrementSpeed float64
	LineAnimationSpeed float64
	PauseLengthFactor  float64
	MinPause           float64
	LandingInEasing    float64
	LandingOutEasing   float64
	LandingDotRadius   float64
	LandingRingInner   float64
	LandingRingOuter   float64
}

// DefaultConfig returns the stock globe.
func DefaultConfig() Config {
	return Config{
		GlobeRadius: 25,

		DotRows:            200,
		DotSize:            0.095,
		DotsPerUnit:        2,
		MaskAlphaThreshold: 90,

		SpikeRadius:   0.065,
		DensityRadius: 10,
		SpikeJitter:   0.875,

		MinArcDistance:     1.5,
		TubeRadius:         0.08,
		TubeRadiusSegments: 3,
		TubeHitRadius:      0.6,
		TubeHitFraction:    4,
		MinTubeSegments:    20,
		DataIncrementSpeed: 1.5,
		LineAnimationSpeed: 600,
		PauseLengthFactor:  2,
		MinPause:           2000,
		LandingInEasing:    0.06,
		LandingOutEasing:   0.15,
		LandingDotRadius:   0.35,
		LandingRingInner:   1.55,
		LandingRingOuter:   1.8,
	}
}

// Validate reports the first setting that makes the globe unbuildable.
func (c Config) Validate() error {
	switch {
	case !(c.GlobeRadius > 0):
		return fmt.Errorf("%w: globe radius must be positive, got %v", ErrInvalidConfig, c.GlobeRadius)
	case c.DotRows <= 0:
		return fmt.Errorf("%w: dot rows must be positive, got %d", ErrInvalidConfig, c.DotRows)
	case !(c.DotsPerUnit > 0):
		return fmt.Errorf("%w: dots per unit must be positive, got %v", ErrInvalidConfig, c.DotsPerUnit)
	case c.DensityRadius < 0:
		return fmt.Errorf("%w: density radius must not be negative, got %v", ErrInvalidConfig, c.DensityRadius)
	case c.TubeRadiusSegments < 3:
		return fmt.Errorf("%w: tube radius segments must be at least 3, got %d", ErrInvalidConfig, c.TubeRadiusSegments)
	case c.TubeHitFraction <= 0:
		return fmt.Errorf("%w: tube hit fraction must be positive, got %d", ErrInvalidConfig, c.TubeHitFraction)
	case c.DataIncrementSpeed <= 0 || c.LineAnimationSpeed <= 0:
		return fmt.Errorf("%w: animation speeds must be positive", ErrInvalidConfig)
	case c.LandingInEasing <= 0 || c.LandingInEasing >= 1 || c.LandingOutEasing <= 0 || c.LandingOutEasing >= 1:
		return fmt.Errorf("%w: landing easing must be in (0, 1)", ErrInvalidConfig)
	}
	return nil
}
