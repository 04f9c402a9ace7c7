// Package behavior implements Craig Reynolds' steering behaviors for boids.
// Boids is an artificial life program, developed by Craig Reynolds in 1986,
// which simulates the flocking behaviour of birds, and related group motion.
// https://en.wikipedia.org/wiki/Boids
//
// Every function here is pure: it reads the state it is given and returns a
// bounded steering force, it never mutates the agent or the neighborhood.
package behavior

import (
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Body is the kinematic state a behavior needs to know about an agent.
type Body struct {
	Position geometry.Vector3D
	Velocity geometry.Vector3D
}

// Limits carries the speed and force caps shared by all behaviors.
type Limits struct {
	MaxSpeed float64 // magnitude of every desired velocity
	MaxForce float64 // F_max, the cap of a single steering force
}

// Neighborhood is a read-only view over a population.
// It may contain the querying agent itself, which is skipped because its distance is 0.
type Neighborhood interface {
	Len() int
	Body(i int) Body
}

// Bodies is a frozen Neighborhood, typically a per-tick copy of the population.
type Bodies []Body

// Len implements Neighborhood.
func (b Bodies) Len() int { return len(b) }

// Body implements Neighborhood.
func (b Bodies) Body(i int) Body { return b[i] }

// Obstacle is a static sphere that boids steer around.
type Obstacle struct {
	Position geometry.Vector3D `json:"position"`
	Radius   float64           `json:"radius"`
}

// steerTowards turns a desired heading into a bounded correction of the current velocity:
// (heading at max speed - velocity), clamped to maxForce.
func steerTowards(self Body, heading geometry.Vector3D, lim Limits, maxForce float64) geometry.Vector3D {
	desired := heading.WithLen(lim.MaxSpeed)
	return desired.Sub(self.Velocity).Limit(maxForce)
}

// inRange is the neighbor predicate shared by the flocking rules: 0 < d < radius.
func inRange(d, radius float64) bool {
	return d > 0 && d < radius
}

// ============================================================================
// Core flocking rules
// ============================================================================

// Separate steers away from neighbors closer than radius.
// Each neighbor contributes its away direction divided by its distance, so the
// nearest ones weigh the most. Returns the zero vector when nobody is in range.
func Separate(self Body, flock Neighborhood, radius float64, lim Limits) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0

	for i := 0; i < flock.Len(); i++ {
		other := flock.Body(i)
		d := self.Position.DistanceTo(other.Position)
		if !inRange(d, radius) {
			continue
		}
		away := self.Position.Sub(other.Position).Normalize().Div(d)
		sum = sum.Add(away)
		count++
	}

	if count == 0 {
		return geometry.Vector3D{}
	}
	avg := sum.Div(float64(count))
	return steerTowards(self, avg, lim, lim.MaxForce)
}

// Align steers towards the average heading of neighbors closer than radius.
func Align(self Body, flock Neighborhood, radius float64, lim Limits) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0

	for i := 0; i < flock.Len(); i++ {
		other := flock.Body(i)
		if !inRange(self.Position.DistanceTo(other.Position), radius) {
			continue
		}
		sum = sum.Add(other.Velocity)
		count++
	}

	if count == 0 {
		return geometry.Vector3D{}
	}
	return steerTowards(self, sum.Div(float64(count)), lim, lim.MaxForce)
}

// Cohere steers towards the center of mass of neighbors closer than radius.
func Cohere(self Body, flock Neighborhood, radius float64, lim Limits) geometry.Vector3D {
	var sum geometry.Vector3D
	count := 0

	for i := 0; i < flock.Len(); i++ {
		other := flock.Body(i)
		if !inRange(self.Position.DistanceTo(other.Position), radius) {
			continue
		}
		sum = sum.Add(other.Position)
		count++
	}

	if count == 0 {
		return geometry.Vector3D{}
	}
	return Seek(self, sum.Div(float64(count)), lim)
}

// ============================================================================
// Additional behaviors
// ============================================================================

// Seek steers towards target at max speed.
func Seek(self Body, target geometry.Vector3D, lim Limits) geometry.Vector3D {
	return steerTowards(self, target.Sub(self.Position), lim, lim.MaxForce)
}

// Flee steers away from a threat closer than radius.
// The force is capped at 2*MaxForce and fades linearly from full strength
// at the threat to nothing at the radius.
func Flee(self Body, threat geometry.Vector3D, radius float64, lim Limits) geometry.Vector3D {
	d := self.Position.DistanceTo(threat)
	if d >= radius {
		return geometry.Vector3D{}
	}
	strength := (radius - d) / radius
	steer := steerTowards(self, self.Position.Sub(threat), lim, 2*lim.MaxForce)
	return steer.Mul(strength)
}

// AvoidObstacles steers around every obstacle whose surface is closer than margin.
// Contributions are summed, not averaged, so overlapping obstacles compound
// before the result is turned into a force capped at 2*MaxForce.
func AvoidObstacles(self Body, obstacles []Obstacle, margin float64, lim Limits) geometry.Vector3D {
	var sum geometry.Vector3D

	for _, obs := range obstacles {
		d := self.Position.DistanceTo(obs.Position)
		avoidDist := obs.Radius + margin
		if d >= avoidDist {
			continue
		}
		strength := (avoidDist - d) / avoidDist
		away := self.Position.Sub(obs.Position).Normalize()
		sum = sum.Add(away.Mul(strength))
	}

	if sum.IsZero() {
		return geometry.Vector3D{}
	}
	return steerTowards(self, sum, lim, 2*lim.MaxForce)
}

// Bounds describes the soft walls used by ContainWithinBounds.
type Bounds struct {
	HalfExtent float64 // the world is the cube [-HalfExtent, HalfExtent]^3
	Margin     float64 // fraction of HalfExtent where the walls start pushing, 0.8 by default
	Strength   float64 // restoring force per unit of overshoot, 0.5 by default
}

// ContainWithinBounds pushes back, independently on each axis, every coordinate
// beyond Margin*HalfExtent with a force proportional to the overshoot.
// The resulting vector is clamped to MaxForce.
func ContainWithinBounds(self Body, b Bounds, lim Limits) geometry.Vector3D {
	limit := b.Margin * b.HalfExtent
	steer := geometry.Vector3D{
		X: restoreAxis(self.Position.X, limit, b.Strength),
		Y: restoreAxis(self.Position.Y, limit, b.Strength),
		Z: restoreAxis(self.Position.Z, limit, b.Strength),
	}
	return steer.Limit(lim.MaxForce)
}

func restoreAxis(coord, limit, strength float64) float64 {
	switch {
	case coord > limit:
		return -strength * (coord - limit)
	case coord < -limit:
		return -strength * (coord + limit)
	default:
		return 0
	}
}
