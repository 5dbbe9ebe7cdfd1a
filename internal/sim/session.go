package sim

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Linux0Hat/physicium/internal/physics"
	"github.com/Linux0Hat/physicium/internal/scenario"
	"github.com/Linux0Hat/physicium/internal/view"
)

// SessionConfig sets up an interactive Session.
type SessionConfig struct {
	Physics physics.Config
	Preset  scenario.PresetKind
	// Width and Height are the drawing surface size in pixels.
	Width, Height int
	// VectorScale converts speed to velocity-line length in pixels.
	VectorScale float64
	Renderer    *view.Renderer
	Logger      *zap.Logger
}

// Session is the frame loop of the live view: it owns a World, the camera
// and the renderer, and applies one FrameInput per tick.
type Session struct {
	cfg      SessionConfig
	world    *physics.World
	viewport *view.Viewport
	renderer *view.Renderer
	camera   scenario.Camera
	preset   scenario.PresetKind
	zoom     float64
	logger   *zap.Logger
	frames   int
}

func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("surface size must be positive, got %dx%d: %w", cfg.Width, cfg.Height, view.ErrInvalidParameter)
	}
	if cfg.Renderer == nil {
		cfg.Renderer = view.NewRenderer()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	s := &Session{
		cfg:      cfg,
		viewport: view.NewViewport(cfg.Width, cfg.Height),
		renderer: cfg.Renderer,
		logger:   cfg.Logger.Named("session"),
		zoom:     1,
	}
	if err := s.load(cfg.Preset); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) load(kind scenario.PresetKind) error {
	w, cam, err := scenario.Build(kind, s.cfg.Physics)
	if err != nil {
		return err
	}
	s.world, s.camera, s.preset = w, cam, kind
	s.zoom = 1
	s.frames = 0
	s.applyMeterSize()
	s.logger.Info("preset loaded",
		zap.Stringer("preset", kind),
		zap.Int("bodies", w.BodyCount()),
		zap.Float64("meter_size", s.viewport.MeterSize()))
	return nil
}

func (s *Session) applyMeterSize() {
	m := s.camera.ScaledMeterSize(s.cfg.Width, s.cfg.Height) * s.zoom
	if err := s.viewport.SetMeterSize(m); err != nil {
		s.logger.Warn("rejected meter size", zap.Float64("meter_size", m), zap.Error(err))
	}
}

// Frame advances the world by elapsedMs unless paused, moves the camera
// and draws the frame on sink. A preset different from the current one
// replaces the world before stepping.
func (s *Session) Frame(in FrameInput, elapsedMs float64, sink view.Sink) error {
	if in.Preset != s.preset {
		if err := s.load(in.Preset); err != nil {
			return err
		}
	}

	if !in.Paused {
		s.world.ApplyPhysic(elapsedMs)
		s.frames++
	}

	snap := s.world.Snapshot()
	if in.Follow && len(snap.Bodies) > 0 {
		p := snap.Bodies[0].Position
		s.viewport.SetViewCenter(p.X, p.Y)
	} else {
		s.viewport.SetViewCenter(0, 0)
	}

	if sink != nil {
		s.renderer.Draw(snap, s.viewport, sink)
		if in.ShowVectors {
			s.renderer.DrawVectors(snap, s.viewport, sink, s.cfg.VectorScale, in.ShowVectorValues)
		}
	}
	return nil
}

// Reset rebuilds the current preset from scratch.
func (s *Session) Reset() error {
	return s.load(s.preset)
}

// Zoom multiplies the camera scale by factor.
func (s *Session) Zoom(factor float64) {
	z := s.zoom * factor
	if z <= 0 || math.IsNaN(z) || math.IsInf(z, 0) {
		return
	}
	s.zoom = z
	s.applyMeterSize()
}

// Check validates the world; the live view calls it periodically and
// reloads the preset on failure.
func (s *Session) Check() error {
	if err := s.world.Validate(); err != nil {
		s.logger.Error("world diverged", zap.Stringer("preset", s.preset), zap.Error(err))
		return err
	}
	return nil
}

func (s *Session) Snapshot() physics.Snapshot { return s.world.Snapshot() }

func (s *Session) World() *physics.World { return s.world }

func (s *Session) Viewport() *view.Viewport { return s.viewport }

func (s *Session) Camera() scenario.Camera { return s.camera }

func (s *Session) Preset() scenario.PresetKind { return s.preset }

// Frames counts the frames that advanced the world since the last load.
func (s *Session) Frames() int { return s.frames }
