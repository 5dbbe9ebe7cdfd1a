package physics

import (
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ForceModel computes the per-step forces on every body: a uniform field
// and, optionally, pairwise universal gravitation.
type ForceModel struct {
	Gravity           Vector2
	Universal         bool
	G                 float64
	ParallelThreshold int
}

// Accumulate resets the accumulators of dynamic bodies and fills them.
// It returns only once every force is in place.
func (f *ForceModel) Accumulate(bodies []Body) {
	for i := range bodies {
		b := &bodies[i]
		b.Force = Vector2{}
		if b.Static {
			continue
		}
		b.Force = f.Gravity.Scale(b.Mass)
	}

	if !f.Universal || f.G == 0 {
		return
	}
	if f.ParallelThreshold > 0 && len(bodies) >= f.ParallelThreshold {
		f.accumulateParallel(bodies)
		return
	}
	f.accumulatePairs(bodies)
}

func (f *ForceModel) accumulatePairs(bodies []Body) {
	n := len(bodies)
	for i := 0; i < n; i++ {
		a := &bodies[i]
		for j := i + 1; j < n; j++ {
			b := &bodies[j]
			if a.Static && b.Static {
				continue
			}
			force, ok := Attraction(a, b, f.G)
			if !ok {
				continue
			}
			a.applyForce(force)
			b.applyForce(force.Neg())
		}
	}
}

// accumulateParallel shards bodies across workers. Each worker sums the
// attraction on the bodies it owns and writes only their accumulators, so
// no accumulator is shared between goroutines.
func (f *ForceModel) accumulateParallel(bodies []Body) {
	n := len(bodies)
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var g errgroup.Group
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				a := &bodies[i]
				if a.Static {
					continue
				}
				var sum Vector2
				for j := 0; j < n; j++ {
					if j == i {
						continue
					}
					force, ok := Attraction(a, &bodies[j], f.G)
					if ok {
						sum = sum.Add(force)
					}
				}
				a.Force = a.Force.Add(sum)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Attraction returns the gravitational force exerted on a by b. The center
// distance is floored at the sum of the radii so touching bodies cannot
// produce unbounded forces. Coincident centers have no direction and
// report false.
func Attraction(a, b *Body, g float64) (Vector2, bool) {
	delta := b.Position.Sub(a.Position)
	d := delta.Length()
	if d == 0 {
		return Vector2{}, false
	}
	r := math.Max(d, a.Radius+b.Radius)
	// Dividing before multiplying keeps G*m1*m2 in range for large masses.
	mag := (g * a.Mass / r) * (b.Mass / r)
	return delta.Scale(mag / d), true
}

// PotentialEnergy is the gravitational potential of a pair, using the same
// distance floor as Attraction.
func PotentialEnergy(a, b BodyState, g float64) float64 {
	d := a.Position.Distance(b.Position)
	r := math.Max(d, a.Radius+b.Radius)
	return -g * a.Mass * b.Mass / r
}
