// Package physics implements a 2D rigid-circle simulation.
//
// A [World] owns an ordered set of bodies and advances them in discrete
// steps:
//
//   - [ForceModel]: uniform gravity plus optional pairwise universal gravitation
//   - semi-implicit Euler integration (velocity first, then position)
//   - [CollisionSystem]: circle-circle detection and restitution impulses,
//     with a pluggable [Broadphase] ([BruteForce] or [SpatialHash])
//
// # Example
//
//	w := physics.NewWorld(physics.DefaultConfig())
//	w.AddObject(0, 10, 0, 0, 0.5, 1, physics.WithRestitution(0.8))
//	w.AddObject(0, -100, 0, 0, 100, 1, physics.Static())
//	w.ApplyPhysic(16)
//	snap := w.Snapshot()
//
// # Numeric guards
//
// Step clamps dt to [Config.MaxStep] and the gravitation pass floors the
// center distance at the sum of radii. Once NaN enters body state every
// later step is corrupted, so both guards are always on.
//
// # Thread Safety
//
// A World is NOT thread-safe. Step joins its internal workers before
// integrating, so callers never observe a half-filled accumulator.
package physics
