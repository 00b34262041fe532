package globe

import "github.com/golang/geo/r3"

// landIn grows the landing dot and ring towards full size. The ring fades as
// it grows and is thrown away once it is effectively full size.
func (e *ArcEngine) landIn(s *slot) {
	scale := s.dot.Transform.Scale.X
	if scale > .99 {
		if s.ring != nil {
			e.dropRing(s)
		}
		return
	}

	scale += (1 - scale) * e.cfg.LandingInEasing
	s.dot.Transform.Scale = r3.Vector{X: scale, Y: scale, Z: 1}
	if s.ring != nil {
		s.ring.Transform.Scale = r3.Vector{X: scale, Y: scale, Z: 1}
		s.ring.Material.Opacity = 1 - scale
	}
}

// landOut shrinks the landing dot of a retired slot and reports whether the
// slot should stay in the landing-out pool.
func (e *ArcEngine) landOut(s *slot) bool {
	scale := s.dot.Transform.Scale.X
	if scale < .01 {
		// the dot shares the engine's geometry and material, so it is only
		// detached here; Dispose releases them
		e.Group.Remove(s.dot)
		s.dot = nil
		if s.ring != nil {
			e.dropRing(s)
		}
		if e.states[s.arc] == StateLandingOut {
			e.states[s.arc] = StateDisposed
		}
		return false
	}

	scale -= scale * e.cfg.LandingOutEasing
	s.dot.Transform.Scale = r3.Vector{X: scale, Y: scale, Z: 1}
	return true
}

func (e *ArcEngine) dropRing(s *slot) {
	e.Group.Remove(s.ring)
	s.ring.Dispose()
	s.ring = nil
}
