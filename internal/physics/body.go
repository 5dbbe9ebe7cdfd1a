package physics

import (
	"fmt"
	"math"
)

// Handle identifies a body by its insertion index. Handles are stable for
// the lifetime of a World.
type Handle int

// Body is a simulated circular object.
type Body struct {
	Position    Vector2
	Velocity    Vector2
	Force       Vector2 // accumulator, reset every step
	Radius      float64
	Mass        float64
	Restitution float64
	Static      bool
}

// InvMass is zero for static bodies.
func (b *Body) InvMass() float64 {
	if b.Static {
		return 0
	}
	return 1 / b.Mass
}

func (b *Body) applyForce(f Vector2) {
	if b.Static {
		return
	}
	b.Force = b.Force.Add(f)
}

// BodySpec describes a body to insert into a World.
type BodySpec struct {
	Position    Vector2
	Velocity    Vector2
	Radius      float64
	Mass        float64
	Restitution *float64 // nil selects the world default
	Static      bool
}

// BodyOption adjusts a BodySpec built by AddObject.
type BodyOption func(*BodySpec)

// WithRestitution sets the restitution coefficient. Values outside [0,1]
// are clamped.
func WithRestitution(e float64) BodyOption {
	return func(s *BodySpec) {
		s.Restitution = &e
	}
}

// Static marks the body as immovable: it is never integrated and never
// displaced by collisions.
func Static() BodyOption {
	return func(s *BodySpec) {
		s.Static = true
	}
}

func (s BodySpec) validate() error {
	if !isFinite(s.Radius) || s.Radius <= 0 {
		return fmt.Errorf("radius must be positive, got %v: %w", s.Radius, ErrInvalidParameter)
	}
	if !isFinite(s.Mass) || s.Mass <= 0 {
		return fmt.Errorf("mass must be positive, got %v: %w", s.Mass, ErrInvalidParameter)
	}
	if !s.Position.IsFinite() {
		return fmt.Errorf("position must be finite, got %v: %w", s.Position, ErrInvalidParameter)
	}
	if !s.Velocity.IsFinite() {
		return fmt.Errorf("velocity must be finite, got %v: %w", s.Velocity, ErrInvalidParameter)
	}
	return nil
}

// ClampRestitution maps e into [0,1]. NaN maps to fallback.
func ClampRestitution(e, fallback float64) float64 {
	if math.IsNaN(e) {
		return fallback
	}
	return math.Max(0, math.Min(1, e))
}
