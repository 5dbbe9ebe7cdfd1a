package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
)

func TestEnsembleRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	base := physics.DefaultConfig()
	base.Broadphase = physics.NewSpatialHash(0)
	e := NewEnsemble(scenario.Presets(), base, 1e4)

	results, err := e.Run(context.Background(), RunConfig{FrameMs: 16, Duration: 0.5, ValidateState: true})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for i, kind := range scenario.Presets() {
		res := results[i]
		require.NotNil(t, res)
		assert.Equal(t, kind.String(), res.Scenario)
		assert.NoError(t, res.Err)
		assert.Equal(t, 31, res.Frames)
		assert.Equal(t, 1.0, res.Metrics["stability"])
	}
}

func TestEnsembleRun_InvalidConfig(t *testing.T) {
	e := NewEnsemble(scenario.Presets(), physics.DefaultConfig(), 1)
	_, err := e.Run(context.Background(), RunConfig{})
	assert.Error(t, err)
}
