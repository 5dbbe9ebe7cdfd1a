package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Linux0Hat/physicium/internal/metrics"
	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
)

// Ensemble runs several presets concurrently, one goroutine per world.
type Ensemble struct {
	presets []scenario.PresetKind
	base    physics.Config
	bound   float64
}

// NewEnsemble prepares a batch. bound is the distance from the origin
// beyond which the stability metric counts a frame as escaped.
func NewEnsemble(presets []scenario.PresetKind, base physics.Config, bound float64) *Ensemble {
	return &Ensemble{presets: presets, base: base, bound: bound}
}

// Run returns one result per preset, in preset order. A failing run does
// not cancel the others; its error is kept in Result.Err.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	results := make([]*Result, len(e.presets))

	g, ctx := errgroup.WithContext(ctx)
	for i, kind := range e.presets {
		g.Go(func() error {
			base := e.base
			// a spatial hash keeps per-call scratch state, so worlds must not share one
			if h, ok := base.Broadphase.(*physics.SpatialHash); ok {
				base.Broadphase = physics.NewSpatialHash(h.CellSize)
			}
			w, _, err := scenario.Build(kind, base)
			if err != nil {
				return err
			}
			s := New(kind.String(), w)
			for _, m := range metrics.Standard(e.bound) {
				s.AddMetric(m)
			}
			res, err := s.Run(ctx, cfg)
			if res == nil {
				res = &Result{Scenario: kind.String()}
			}
			res.Err = err
			results[i] = res
			return ctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
