package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Predator chases the nearest boid. Boids flee it when predator evasion is enabled.
type Predator struct {
	Entity
}

// NewPredator returns a predator at position moving with velocity.
func NewPredator(position, velocity geometry.Vector3D, trailLength int) *Predator {
	return &Predator{Entity: Entity{
		ID:       "predator",
		Position: position,
		Velocity: velocity,
		Trail:    NewTrail(trailLength),
	}}
}

// Nearest returns the index of the closest body in flock, or -1 when flock is empty.
// On ties the first one wins.
func (p *Predator) Nearest(flock behavior.Neighborhood) int {
	nearest := -1
	best := math.Inf(1)
	for i := 0; i < flock.Len(); i++ {
		d := p.Position.DistanceSquaredTo(flock.Body(i).Position)
		if d < best {
			best = d
			nearest = i
		}
	}
	return nearest
}

// Update moves the predator one tick towards the nearest boid of flock.
// Its pursuit speed and turn rate are fractions of the boid limits given by cfg,
// and a soft wall starting at cfg.BoundaryMargin*halfExtent nudges it back inside.
// With an empty flock it targets its own position and only decelerates.
func (p *Predator) Update(flock behavior.Neighborhood, cfg PredatorConfig, lim behavior.Limits, halfExtent float64) {
	target := p.Position
	if i := p.Nearest(flock); i >= 0 {
		target = flock.Body(i).Position
	}

	desired := target.Sub(p.Position).Normalize().Mul(lim.MaxSpeed * cfg.CruiseFactor)
	steer := desired.Sub(p.Velocity).Limit(lim.MaxForce * cfg.ForceFactor)
	p.Velocity = p.Velocity.Add(steer).Limit(lim.MaxSpeed * cfg.SpeedFactor)

	wall := halfExtent * cfg.BoundaryMargin
	p.Velocity.X += nudge(p.Position.X, wall, cfg.BoundaryNudge)
	p.Velocity.Y += nudge(p.Position.Y, wall, cfg.BoundaryNudge)
	p.Velocity.Z += nudge(p.Position.Z, wall, cfg.BoundaryNudge)

	p.UpdatePhysics()
}

func nudge(coord, wall, amount float64) float64 {
	switch {
	case coord > wall:
		return -amount
	case coord < -wall:
		return amount
	default:
		return 0
	}
}
