package physics

import "math"

// Contact describes an overlapping pair. Normal points from A to B.
type Contact struct {
	A, B        int
	Normal      Vector2
	Penetration float64
}

// CollisionSystem detects and resolves overlapping circles.
type CollisionSystem struct {
	broadphase Broadphase
	pairs      []Pair
}

func NewCollisionSystem(bp Broadphase) *CollisionSystem {
	if bp == nil {
		bp = BruteForce{}
	}
	return &CollisionSystem{broadphase: bp}
}

// Detect returns the contact between bodies i and j, if they overlap.
func Detect(bodies []Body, i, j int) (Contact, bool) {
	a, b := &bodies[i], &bodies[j]
	if a.Static && b.Static {
		return Contact{}, false
	}
	delta := b.Position.Sub(a.Position)
	distSq := delta.LengthSq()
	rsum := a.Radius + b.Radius
	if distSq >= rsum*rsum {
		return Contact{}, false
	}
	dist := math.Sqrt(distSq)
	normal := Vector2{1, 0}
	if dist > 0 {
		normal = delta.Scale(1 / dist)
	}
	return Contact{A: i, B: j, Normal: normal, Penetration: rsum - dist}, true
}

// Resolve runs one detection and resolution pass in ascending pair order
// and returns the number of contacts resolved. Chains of three or more
// overlapping bodies may keep residual overlap until the next step.
func (c *CollisionSystem) Resolve(bodies []Body) int {
	c.pairs = c.broadphase.Pairs(bodies, c.pairs)
	n := 0
	for _, p := range c.pairs {
		contact, ok := Detect(bodies, p.A, p.B)
		if !ok {
			continue
		}
		ResolveContact(bodies, contact)
		n++
	}
	return n
}

// ResolveContact separates the pair along the normal in proportion to
// inverse mass, then applies a restitution impulse using the smaller of
// the two coefficients. Static bodies are never moved.
func ResolveContact(bodies []Body, c Contact) {
	a, b := &bodies[c.A], &bodies[c.B]
	invA, invB := a.InvMass(), b.InvMass()
	invSum := invA + invB
	if invSum == 0 {
		return
	}

	correction := c.Normal.Scale(c.Penetration / invSum)
	a.Position = a.Position.Sub(correction.Scale(invA))
	b.Position = b.Position.Add(correction.Scale(invB))

	vn := b.Velocity.Sub(a.Velocity).Dot(c.Normal)
	if vn >= 0 {
		return
	}
	e := math.Min(a.Restitution, b.Restitution)
	impulse := c.Normal.Scale(-(1 + e) * vn / invSum)
	a.Velocity = a.Velocity.Sub(impulse.Scale(invA))
	b.Velocity = b.Velocity.Add(impulse.Scale(invB))
}
