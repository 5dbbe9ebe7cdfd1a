package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linux0Hat/physicium/internal/physics"
)

func snapshot(bodies ...physics.BodyState) physics.Snapshot {
	return physics.Snapshot{Gravity: physics.Vec(0, -10), Bodies: bodies}
}

func TestKineticEnergyAndMomentum(t *testing.T) {
	s := snapshot(
		physics.BodyState{Velocity: physics.Vec(3, 4), Mass: 2},
		physics.BodyState{Velocity: physics.Vec(-1, 0), Mass: 1},
		physics.BodyState{Velocity: physics.Vec(100, 0), Mass: 50, Static: true},
	)

	assert.InDelta(t, 25.5, KineticEnergy(s), 1e-12)
	assert.Equal(t, physics.Vec(5, 8), Momentum(s))
}

func TestPotentialEnergy(t *testing.T) {
	s := snapshot(
		physics.BodyState{Position: physics.Vec(0, 2), Mass: 3, Radius: 0.1},
		physics.BodyState{Position: physics.Vec(0, -1), Mass: 1, Radius: 0.1, Static: true},
	)
	assert.InDelta(t, 60, PotentialEnergy(s), 1e-12, "m g h for dynamic bodies only")

	s.Gravity = physics.Vector2{}
	s.UniversalGravitation = true
	s.G = 2
	assert.InDelta(t, -2, PotentialEnergy(s), 1e-12, "-G m1 m2 / d with d = 3")
}

func TestEnergyConservationInFreeFall(t *testing.T) {
	cfg := physics.DefaultConfig()
	w := physics.NewWorld(cfg)
	_, err := w.AddObject(0, 100, 2, 0, 1, 3)
	require.NoError(t, err)

	drift := NewEnergyDrift()
	drift.Observe(w.Snapshot())
	for i := 0; i < 60; i++ {
		w.ApplyPhysic(16)
		drift.Observe(w.Snapshot())
	}

	// semi-implicit Euler under constant g drifts by O(dt) per unit height
	assert.Less(t, drift.Value(), 0.01)
	assert.Greater(t, drift.Value(), 0.0)

	drift.Reset()
	assert.Zero(t, drift.Value())
}

func TestEnergyMean(t *testing.T) {
	m := NewEnergy()
	assert.Zero(t, m.Value())

	m.Observe(snapshot(physics.BodyState{Velocity: physics.Vec(2, 0), Mass: 1}))
	m.Observe(snapshot(physics.BodyState{Velocity: physics.Vec(4, 0), Mass: 1}))

	assert.InDelta(t, 5, m.Value(), 1e-12)
	assert.InDelta(t, 8, m.Last(), 1e-12)

	m.Reset()
	assert.Zero(t, m.Value())
	assert.Zero(t, m.Last())
}

func TestMomentumDriftAcrossCollision(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Gravity = physics.Vector2{}
	w := physics.NewWorld(cfg)
	_, err := w.AddObject(-2, 0, 3, 0, 1, 2, physics.WithRestitution(0.7))
	require.NoError(t, err)
	_, err = w.AddObject(2, 0, -1, 0, 1, 5, physics.WithRestitution(0.7))
	require.NoError(t, err)

	md := NewMomentumDrift()
	md.Observe(w.Snapshot())
	for i := 0; i < 120; i++ {
		w.ApplyPhysic(16)
		md.Observe(w.Snapshot())
	}
	assert.InDelta(t, 0, md.Value(), 1e-9)
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	assert.Equal(t, 1.0, s.Value())

	s.Observe(snapshot(physics.BodyState{Position: physics.Vec(1, 1)}))
	s.Observe(snapshot(physics.BodyState{Position: physics.Vec(20, 0)}))
	s.Observe(snapshot(physics.BodyState{Velocity: physics.Vec(math.NaN(), 0)}))
	s.Observe(snapshot(physics.BodyState{}))

	assert.InDelta(t, 0.5, s.Value(), 1e-12)

	s.Reset()
	assert.Equal(t, 1.0, s.Value())
}

func TestStandardNames(t *testing.T) {
	var names []string
	for _, m := range Standard(100) {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"energy", "energy_drift", "momentum_drift", "stability"}, names)
}
