package metrics

import (
	"math"

	"github.com/Linux0Hat/physicium/internal/physics"
)

// KineticEnergy is the sum of ½mv² over dynamic bodies.
func KineticEnergy(s physics.Snapshot) float64 {
	ke := 0.0
	for _, b := range s.Bodies {
		if b.Static {
			continue
		}
		ke += 0.5 * b.Mass * b.Velocity.LengthSq()
	}
	return ke
}

// PotentialEnergy combines the uniform field term -m g·p of dynamic bodies
// with pairwise gravitational potential when universal gravitation is on.
func PotentialEnergy(s physics.Snapshot) float64 {
	pe := 0.0
	for _, b := range s.Bodies {
		if b.Static {
			continue
		}
		pe -= b.Mass * s.Gravity.Dot(b.Position)
	}
	if !s.UniversalGravitation {
		return pe
	}
	for i := range s.Bodies {
		for j := i + 1; j < len(s.Bodies); j++ {
			if s.Bodies[i].Static && s.Bodies[j].Static {
				continue
			}
			pe += physics.PotentialEnergy(s.Bodies[i], s.Bodies[j], s.G)
		}
	}
	return pe
}

func TotalEnergy(s physics.Snapshot) float64 {
	return KineticEnergy(s) + PotentialEnergy(s)
}

// Momentum is the total linear momentum of the dynamic bodies.
func Momentum(s physics.Snapshot) physics.Vector2 {
	var p physics.Vector2
	for _, b := range s.Bodies {
		if b.Static {
			continue
		}
		p = p.Add(b.Velocity.Scale(b.Mass))
	}
	return p
}

type Energy struct {
	name        string
	samples     int
	totalEnergy float64
	last        float64
}

// NewEnergy tracks the mean total energy over observed frames.
func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s physics.Snapshot) {
	e.last = TotalEnergy(s)
	e.totalEnergy += e.last
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

// Last returns the energy of the most recent frame.
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.last = 0
	e.samples = 0
}

// EnergyDrift records the largest relative departure of total energy from
// the first observed frame.
type EnergyDrift struct {
	name          string
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s physics.Snapshot) {
	energy := TotalEnergy(s)

	if e.samples == 0 {
		e.initialEnergy = energy
	}

	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift records the largest absolute change of total momentum
// relative to the first observed frame.
type MomentumDrift struct {
	name     string
	initial  physics.Vector2
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s physics.Snapshot) {
	p := Momentum(s)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, p.Distance(m.initial))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = physics.Vector2{}
	m.maxDrift = 0
	m.samples = 0
}
