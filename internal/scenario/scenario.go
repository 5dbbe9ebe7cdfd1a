package scenario

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Linux0Hat/physicium/internal/physics"
)

// Vec is the YAML form of a physics.Vector2.
type Vec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vec) vector() physics.Vector2 { return physics.Vec(v.X, v.Y) }

// Camera holds the view settings a scenario is meant to be watched with.
// MeterSize is given for an 800 pixel canvas; Follow keeps body 0 centered.
type Camera struct {
	MeterSize float64 `yaml:"meter_size"`
	Follow    bool    `yaml:"follow"`
}

// ReferenceCanvas is the canvas size, in pixels, Camera.MeterSize refers to.
const ReferenceCanvas = 800.0

// ScaledMeterSize adapts MeterSize to a canvas of w x h pixels so the same
// region of the world stays in frame.
func (c Camera) ScaledMeterSize(w, h int) float64 {
	m := c.MeterSize
	if m <= 0 {
		m = 1
	}
	return m * float64(min(w, h)) / ReferenceCanvas
}

type BodyDef struct {
	Position    Vec      `yaml:"position"`
	Velocity    Vec      `yaml:"velocity"`
	Radius      float64  `yaml:"radius"`
	Mass        float64  `yaml:"mass"`
	Restitution *float64 `yaml:"restitution,omitempty"`
	Static      bool     `yaml:"static,omitempty"`
}

// Scenario is a serialisable initial world.
type Scenario struct {
	Name                 string    `yaml:"name"`
	Description          string    `yaml:"description,omitempty"`
	Gravity              *Vec      `yaml:"gravity,omitempty"`
	UniversalGravitation bool      `yaml:"universal_gravitation"`
	G                    float64   `yaml:"g,omitempty"`
	Camera               Camera    `yaml:"camera"`
	Bodies               []BodyDef `yaml:"bodies"`
}

func (s *Scenario) Validate() error {
	if s.Gravity != nil && !s.Gravity.vector().IsFinite() {
		return fmt.Errorf("gravity must be finite: %w", ErrInvalidScenario)
	}
	if math.IsNaN(s.G) || math.IsInf(s.G, 0) || s.G < 0 {
		return fmt.Errorf("g must be a non-negative number, got %v: %w", s.G, ErrInvalidScenario)
	}
	if math.IsNaN(s.Camera.MeterSize) || s.Camera.MeterSize < 0 {
		return fmt.Errorf("camera meter size must be positive, got %v: %w", s.Camera.MeterSize, ErrInvalidScenario)
	}
	if len(s.Bodies) == 0 {
		return fmt.Errorf("no bodies: %w", ErrInvalidScenario)
	}
	return nil
}

// World builds a fresh World from the scenario. Integration settings come
// from base; gravity and gravitation settings from the scenario when set.
// Body validation errors name the offending body index.
func (s *Scenario) World(base physics.Config) (*physics.World, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	cfg := base
	if s.Gravity != nil {
		cfg.Gravity = s.Gravity.vector()
	}
	cfg.UniversalGravitation = s.UniversalGravitation
	if s.G > 0 {
		cfg.G = s.G
	}

	w := physics.NewWorld(cfg)
	for i, b := range s.Bodies {
		_, err := w.AddBody(physics.BodySpec{
			Position:    b.Position.vector(),
			Velocity:    b.Velocity.vector(),
			Radius:      b.Radius,
			Mass:        b.Mass,
			Restitution: b.Restitution,
			Static:      b.Static,
		})
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
	}
	return w, nil
}

// FromSnapshot captures the current state of a world as a scenario.
func FromSnapshot(name string, snap physics.Snapshot, cam Camera) *Scenario {
	sc := &Scenario{
		Name:                 name,
		Gravity:              &Vec{snap.Gravity.X, snap.Gravity.Y},
		UniversalGravitation: snap.UniversalGravitation,
		G:                    snap.G,
		Camera:               cam,
		Bodies:               make([]BodyDef, 0, len(snap.Bodies)),
	}
	for _, b := range snap.Bodies {
		sc.Bodies = append(sc.Bodies, BodyDef{
			Position:    Vec{b.Position.X, b.Position.Y},
			Velocity:    Vec{b.Velocity.X, b.Velocity.Y},
			Radius:      b.Radius,
			Mass:        b.Mass,
			Restitution: restitution(b.Restitution),
			Static:      b.Static,
		})
	}
	return sc
}

func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("decoding scenario: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

func Marshal(sc *Scenario) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(sc); err != nil {
		return nil, fmt.Errorf("encoding scenario: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func Save(path string, sc *Scenario) error {
	data, err := Marshal(sc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario: %w", err)
	}
	return nil
}
