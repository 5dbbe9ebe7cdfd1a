package physics

// BodyState is the public, read-only state of a body.
type BodyState struct {
	Handle      Handle
	Position    Vector2
	Velocity    Vector2
	Radius      float64
	Mass        float64
	Restitution float64
	Static      bool
}

// Snapshot is a copy of the world state in handle order. It shares no
// memory with the World.
type Snapshot struct {
	Time                 float64
	Steps                int
	Gravity              Vector2
	UniversalGravitation bool
	G                    float64
	Bodies               []BodyState
}

func (b *Body) state(h Handle) BodyState {
	return BodyState{
		Handle:      h,
		Position:    b.Position,
		Velocity:    b.Velocity,
		Radius:      b.Radius,
		Mass:        b.Mass,
		Restitution: b.Restitution,
		Static:      b.Static,
	}
}

// Snapshot copies the current state.
func (w *World) Snapshot() Snapshot {
	bodies := make([]BodyState, len(w.bodies))
	for i := range w.bodies {
		bodies[i] = w.bodies[i].state(Handle(i))
	}
	return Snapshot{
		Time:                 w.time,
		Steps:                w.steps,
		Gravity:              w.forces.Gravity,
		UniversalGravitation: w.forces.Universal,
		G:                    w.forces.G,
		Bodies:               bodies,
	}
}

// GetWorld is an alias of Snapshot.
func (w *World) GetWorld() Snapshot { return w.Snapshot() }

// Body returns the state of a single body.
func (w *World) Body(h Handle) (BodyState, bool) {
	if h < 0 || int(h) >= len(w.bodies) {
		return BodyState{}, false
	}
	return w.bodies[h].state(h), true
}
