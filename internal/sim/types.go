package sim

import (
	"fmt"
	"math"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
)

// FrameInput carries the user controls for one frame.
type FrameInput struct {
	Paused           bool
	Follow           bool
	ShowVectors      bool
	ShowVectorValues bool
	Preset           scenario.PresetKind
}

// Observer sees every frame of a headless run, including the initial one.
type Observer interface {
	OnFrame(s physics.Snapshot) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(physics.Snapshot) error

func (f ObserverFunc) OnFrame(s physics.Snapshot) error { return f(s) }

// MaxFrames is the largest number of frames a single headless run may take.
const MaxFrames = 10_000_000

// RunConfig drives a headless run in fixed frames of FrameMs wall-clock
// milliseconds for Duration simulated seconds. Frames are capped at the
// world's MaxStep.
type RunConfig struct {
	FrameMs  float64
	Duration float64
	// ValidateState stops the run at the first non-finite body.
	ValidateState bool
}

// Validate checks the frame length and duration.
func (c RunConfig) Validate() error {
	if math.IsNaN(c.FrameMs) || math.IsInf(c.FrameMs, 0) || c.FrameMs <= 0 {
		return fmt.Errorf("frame ms must be positive, got %v", c.FrameMs)
	}
	if math.IsNaN(c.Duration) || math.IsInf(c.Duration, 0) || c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", c.Duration)
	}
	return nil
}

type Result struct {
	Scenario string
	Frames   int
	Time     float64
	Contacts int
	Kinetic  []float64
	Energy   []float64
	Metrics  map[string]float64
	Final    physics.Snapshot
	Err      error
}
