package scenario

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linux0Hat/physicium/internal/physics"
)

func TestParsePreset(t *testing.T) {
	for _, k := range Presets() {
		got, err := ParsePreset(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParsePreset("  Universal ")
	require.NoError(t, err)
	assert.Equal(t, Universal, got)

	_, err = ParsePreset("pendulum")
	assert.ErrorIs(t, err, ErrUnknownPreset)

	_, err = Preset(PresetKind(42))
	assert.ErrorIs(t, err, ErrUnknownPreset)
	assert.Equal(t, "PresetKind(42)", PresetKind(42).String())
}

func TestPresetKind_NextCycles(t *testing.T) {
	assert.Equal(t, Universal, Collision.Next())
	assert.Equal(t, Billiards, Universal.Next())
	assert.Equal(t, Collision, Billiards.Next())
}

func TestBuild_Collision(t *testing.T) {
	w, cam, err := Build(Collision, physics.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, Camera{MeterSize: 50}, cam)
	assert.Equal(t, 3, w.BodyCount())
	assert.Equal(t, physics.Vec(0, -physics.StandardGravity), w.Gravity())

	ground, _ := w.Body(2)
	require.True(t, ground.Static)

	for i := 0; i < 600; i++ {
		w.ApplyPhysic(16)
	}
	require.NoError(t, w.Validate())

	for h := physics.Handle(0); h < 2; h++ {
		b, _ := w.Body(h)
		d := b.Position.Distance(ground.Position)
		assert.GreaterOrEqual(t, d, ground.Radius+b.Radius-0.05, "ball %d stays above the ground", h)
	}
	after, _ := w.Body(2)
	assert.Equal(t, ground.Position, after.Position)
}

func TestBuild_UniversalOrbit(t *testing.T) {
	w, cam, err := Build(Universal, physics.DefaultConfig())
	require.NoError(t, err)

	assert.True(t, cam.Follow)
	assert.Equal(t, 1.0, cam.MeterSize)
	assert.Equal(t, physics.Vector2{}, w.Gravity())

	for i := 0; i < 190; i++ {
		w.ApplyPhysic(16)
	}
	require.NoError(t, w.Validate())

	star, _ := w.Body(0)
	sat, _ := w.Body(1)
	assert.InEpsilon(t, 300, sat.Position.Distance(star.Position), 0.1, "satellite stays on its circular orbit")
	assert.Zero(t, w.LastContacts())
}

func TestBuild_BilliardsStaysOnTable(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.Broadphase = physics.NewSpatialHash(0)
	w, _, err := Build(Billiards, cfg)
	require.NoError(t, err)

	snap := w.Snapshot()
	dynamic := 0
	for _, b := range snap.Bodies {
		if !b.Static {
			dynamic++
		}
	}
	assert.Equal(t, 11, dynamic)

	for i := 0; i < 600; i++ {
		w.ApplyPhysic(16)
	}
	require.NoError(t, w.Validate())

	for _, b := range w.Snapshot().Bodies {
		if b.Static {
			continue
		}
		assert.Less(t, b.Position.X, tableHalfWidth+cushionRadius, "ball %d", b.Handle)
		assert.Greater(t, b.Position.X, -tableHalfWidth-cushionRadius, "ball %d", b.Handle)
		assert.Less(t, b.Position.Y, tableHalfHeight+cushionRadius, "ball %d", b.Handle)
		assert.Greater(t, b.Position.Y, -tableHalfHeight-cushionRadius, "ball %d", b.Handle)
	}
}

func TestBuild_UnknownPreset(t *testing.T) {
	_, _, err := Build(PresetKind(-1), physics.DefaultConfig())
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestCamera_ScaledMeterSize(t *testing.T) {
	cam := Camera{MeterSize: 50}
	assert.Equal(t, 50.0, cam.ScaledMeterSize(800, 800))
	assert.Equal(t, 10.0, cam.ScaledMeterSize(160, 400))
	assert.Equal(t, 0.5, Camera{}.ScaledMeterSize(400, 400))
}
