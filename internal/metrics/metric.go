// Package metrics derives scalar observables from world snapshots.
package metrics

import "github.com/Linux0Hat/physicium/internal/physics"

// Metric accumulates a value over a sequence of frames.
type Metric interface {
	Name() string
	Observe(s physics.Snapshot)
	Value() float64
	Reset()
}

// Standard returns the metric set reported by runs and the live HUD.
func Standard(bound float64) []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewStability(bound),
	}
}
