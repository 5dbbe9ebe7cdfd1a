package metrics

import (
	"github.com/Linux0Hat/physicium/internal/physics"
)

// Stability is the fraction of observed frames in which every body is
// finite and within threshold of the origin.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap physics.Snapshot) {
	s.samples++
	for _, b := range snap.Bodies {
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() || b.Position.Length() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
