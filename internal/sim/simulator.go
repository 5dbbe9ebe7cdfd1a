package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/Linux0Hat/physicium/internal/metrics"
	"github.com/Linux0Hat/physicium/internal/physics"
)

// Simulator runs a world headless in fixed frames, feeding metrics and
// observers after every frame.
type Simulator struct {
	name      string
	world     *physics.World
	metrics   []metrics.Metric
	observers []Observer
}

func New(name string, world *physics.World) *Simulator {
	return &Simulator{
		name:      name,
		world:     world,
		metrics:   make([]metrics.Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m metrics.Metric) { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }

func (s *Simulator) World() *physics.World { return s.world }

func (s *Simulator) observe(snap physics.Snapshot, result *Result) error {
	result.Kinetic = append(result.Kinetic, metrics.KineticEnergy(snap))
	result.Energy = append(result.Energy, metrics.TotalEnergy(snap))
	for _, m := range s.metrics {
		m.Observe(snap)
	}
	for _, obs := range s.observers {
		if err := obs.OnFrame(snap); err != nil {
			return fmt.Errorf("observer at t=%.4f: %w", snap.Time, err)
		}
	}
	return nil
}

// frameCapacity bounds the series preallocation; longer runs grow by append.
const frameCapacity = 1 << 16

// Run steps the world until cfg.Duration simulated seconds have passed or
// ctx is cancelled. Frames longer than the world's MaxStep are shortened to
// it, so the run always covers the full duration. The partial result is
// returned alongside any error.
func (s *Simulator) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	frameMs := math.Min(cfg.FrameMs, s.world.MaxStep()*1000)
	n := math.Floor(cfg.Duration*1000/frameMs + 1e-6)
	if n > MaxFrames {
		return nil, fmt.Errorf("run needs %.0f frames of %gms, limit is %d", n, frameMs, MaxFrames)
	}
	steps := int(n)

	capacity := min(steps+1, frameCapacity)
	result := &Result{
		Scenario: s.name,
		Kinetic:  make([]float64, 0, capacity),
		Energy:   make([]float64, 0, capacity),
		Metrics:  make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	finish := func() {
		result.Final = s.world.Snapshot()
		result.Time = result.Final.Time
		for _, m := range s.metrics {
			result.Metrics[m.Name()] = m.Value()
		}
	}

	if err := s.observe(s.world.Snapshot(), result); err != nil {
		finish()
		return result, err
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			finish()
			return result, ctx.Err()
		default:
		}

		s.world.ApplyPhysic(frameMs)
		result.Frames++
		result.Contacts += s.world.LastContacts()

		if cfg.ValidateState {
			if err := s.world.Validate(); err != nil {
				finish()
				return result, fmt.Errorf("frame %d: %w", i, err)
			}
		}

		if err := s.observe(s.world.Snapshot(), result); err != nil {
			finish()
			return result, err
		}
	}

	finish()
	return result, nil
}
