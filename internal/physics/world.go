package physics

import (
	"fmt"
	"math"
)

const (
	// StandardGravity is the magnitude of the default downward field.
	StandardGravity = 9.8

	// DefaultMaxStep bounds a single step so tab-switch gaps and first-frame
	// timestamps cannot blow up the integrator.
	DefaultMaxStep = 1.0 / 30.0

	// GravitationalConstant is G in SI units.
	GravitationalConstant = 6.674e-11

	DefaultRestitution       = 0.5
	DefaultParallelThreshold = 64
)

// Config holds the tunables of a World.
type Config struct {
	Gravity              Vector2
	MaxStep              float64 // seconds
	UniversalGravitation bool
	G                    float64
	DefaultRestitution   float64
	Broadphase           Broadphase
	// ParallelThreshold is the body count from which the universal
	// gravitation pass is sharded across goroutines. Zero disables it.
	ParallelThreshold int
}

func DefaultConfig() Config {
	return Config{
		Gravity:            Vector2{0, -StandardGravity},
		MaxStep:            DefaultMaxStep,
		G:                  GravitationalConstant,
		DefaultRestitution: DefaultRestitution,
		Broadphase:         BruteForce{},
		ParallelThreshold:  DefaultParallelThreshold,
	}
}

// World owns the bodies, the force model and the collision system.
// A World is not safe for concurrent use.
type World struct {
	bodies       []Body
	forces       *ForceModel
	collisions   *CollisionSystem
	maxStep      float64
	restitution  float64
	time         float64
	steps        int
	lastContacts int
}

// NewWorld creates an empty world. Zero-valued fields of cfg fall back to
// their defaults, except Gravity, G and ParallelThreshold which are taken
// as given.
func NewWorld(cfg Config) *World {
	if cfg.MaxStep <= 0 || math.IsNaN(cfg.MaxStep) {
		cfg.MaxStep = DefaultMaxStep
	}
	if cfg.Broadphase == nil {
		cfg.Broadphase = BruteForce{}
	}
	return &World{
		bodies: make([]Body, 0, 8),
		forces: &ForceModel{
			Gravity:           cfg.Gravity,
			Universal:         cfg.UniversalGravitation,
			G:                 cfg.G,
			ParallelThreshold: cfg.ParallelThreshold,
		},
		collisions:  NewCollisionSystem(cfg.Broadphase),
		maxStep:     cfg.MaxStep,
		restitution: ClampRestitution(cfg.DefaultRestitution, DefaultRestitution),
	}
}

// AddObject appends a body and returns its handle. Restitution defaults to
// the world default and is clamped into [0,1].
func (w *World) AddObject(posX, posY, velX, velY, radius, mass float64, opts ...BodyOption) (Handle, error) {
	spec := BodySpec{
		Position: Vector2{posX, posY},
		Velocity: Vector2{velX, velY},
		Radius:   radius,
		Mass:     mass,
	}
	for _, opt := range opts {
		opt(&spec)
	}
	return w.AddBody(spec)
}

// AddBody is the struct form of AddObject.
func (w *World) AddBody(spec BodySpec) (Handle, error) {
	if err := spec.validate(); err != nil {
		return -1, fmt.Errorf("add body %d: %w", len(w.bodies), err)
	}
	e := w.restitution
	if spec.Restitution != nil {
		e = ClampRestitution(*spec.Restitution, w.restitution)
	}
	b := Body{
		Position:    spec.Position,
		Velocity:    spec.Velocity,
		Radius:      spec.Radius,
		Mass:        spec.Mass,
		Restitution: e,
		Static:      spec.Static,
	}
	if b.Static {
		b.Velocity = Vector2{}
	}
	w.bodies = append(w.bodies, b)
	return Handle(len(w.bodies) - 1), nil
}

func (w *World) BodyCount() int { return len(w.bodies) }

func (w *World) Gravity() Vector2 { return w.forces.Gravity }

func (w *World) SetGravity(g Vector2) error {
	if !g.IsFinite() {
		return fmt.Errorf("gravity must be finite, got %v: %w", g, ErrInvalidParameter)
	}
	w.forces.Gravity = g
	return nil
}

func (w *World) SetGravityX(x float64) error {
	return w.SetGravity(Vector2{x, w.forces.Gravity.Y})
}

func (w *World) SetGravityY(y float64) error {
	return w.SetGravity(Vector2{w.forces.Gravity.X, y})
}

func (w *World) EnableUniversalGravitation(on bool) {
	w.forces.Universal = on
}

func (w *World) SetGravitationalConstant(g float64) error {
	if !isFinite(g) || g < 0 {
		return fmt.Errorf("gravitational constant must be non-negative, got %v: %w", g, ErrInvalidParameter)
	}
	w.forces.G = g
	return nil
}

// MaxStep is the largest dt, in seconds, a single step will integrate.
func (w *World) MaxStep() float64 { return w.maxStep }

// Time is the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// LastContacts is the number of colliding pairs resolved by the last step.
func (w *World) LastContacts() int { return w.lastContacts }

// ApplyPhysic advances the world by elapsedMs milliseconds.
func (w *World) ApplyPhysic(elapsedMs float64) {
	w.Step(elapsedMs / 1000)
}

// Step advances the world by dt seconds. Non-positive or NaN dt is a no-op;
// dt above MaxStep is clamped. The step runs to completion: forces, then
// semi-implicit Euler, then collision resolution.
func (w *World) Step(dt float64) {
	if math.IsNaN(dt) || dt <= 0 {
		return
	}
	if dt > w.maxStep {
		dt = w.maxStep
	}

	w.forces.Accumulate(w.bodies)

	for i := range w.bodies {
		b := &w.bodies[i]
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(b.Force.Scale(dt / b.Mass))
		b.Position = b.Position.Add(b.Velocity.Scale(dt))
	}

	w.lastContacts = w.collisions.Resolve(w.bodies)
	w.time += dt
	w.steps++
}

// Validate reports the first body whose state holds NaN or Inf.
func (w *World) Validate() error {
	for i := range w.bodies {
		b := &w.bodies[i]
		if !b.Position.IsFinite() || !b.Velocity.IsFinite() {
			return &BodyError{Handle: Handle(i), Wrapped: ErrNumericInstability}
		}
	}
	return nil
}
