package scenario

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Linux0Hat/physicium/internal/physics"
)

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "billiards.yaml")
	want := billiards()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scenario mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	sc, err := Parse([]byte(`
name: pair
universal_gravitation: true
g: 1
camera:
  meter_size: 20
bodies:
  - position: {x: -1, y: 0}
    radius: 0.5
    mass: 2
  - position: {x: 1, y: 0}
    velocity: {x: 0, y: 1}
    radius: 0.5
    mass: 2
    restitution: 0.3
    static: true
`))
	require.NoError(t, err)
	assert.Nil(t, sc.Gravity)
	require.Len(t, sc.Bodies, 2)
	assert.Nil(t, sc.Bodies[0].Restitution)

	cfg := physics.DefaultConfig()
	w, err := sc.World(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Gravity, w.Gravity(), "gravity falls back to the base config")
	snap := w.Snapshot()
	assert.True(t, snap.UniversalGravitation)
	assert.Equal(t, 1.0, snap.G)
	assert.Equal(t, physics.DefaultRestitution, snap.Bodies[0].Restitution)
	assert.Equal(t, 0.3, snap.Bodies[1].Restitution)
	assert.Equal(t, physics.Vector2{}, snap.Bodies[1].Velocity, "static bodies do not move")
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown field", "name: x\nbodies: [{radius: 1, mass: 1}]\nwind: 3\n"},
		{"no bodies", "name: x\n"},
		{"negative g", "name: x\ng: -1\nbodies: [{radius: 1, mass: 1}]\n"},
		{"bad yaml", "name: [x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}

	_, err := Parse([]byte("name: x\nbodies: []\n"))
	assert.ErrorIs(t, err, ErrInvalidScenario)
}

func TestWorld_InvalidBody(t *testing.T) {
	sc := &Scenario{Name: "bad", Bodies: []BodyDef{
		{Radius: 1, Mass: 1},
		{Radius: 0, Mass: 1},
	}}
	_, err := sc.World(physics.DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, physics.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "body 1")
}

func TestFromSnapshot(t *testing.T) {
	w, cam, err := Build(Collision, physics.DefaultConfig())
	require.NoError(t, err)
	w.ApplyPhysic(100)

	sc := FromSnapshot("saved", w.Snapshot(), cam)
	rebuilt, err := sc.World(physics.DefaultConfig())
	require.NoError(t, err)

	want := w.Snapshot().Bodies
	got := rebuilt.Snapshot().Bodies
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("bodies mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, cam, sc.Camera)
}
