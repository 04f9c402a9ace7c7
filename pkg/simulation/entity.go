package simulation

import (
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

// Entity is the kinematic state shared by boids and the predator.
type Entity struct {
	ID       string
	Position geometry.Vector3D
	Velocity geometry.Vector3D
	Trail    *Trail
}

// UpdatePhysics applies the velocity to the Entity position and records it in the trail.
func (e *Entity) UpdatePhysics() {
	e.Position = e.Position.Add(e.Velocity)
	e.Trail.Push(e.Position)
}

// Body returns the read-only view consumed by steering behaviors.
func (e *Entity) Body() behavior.Body {
	return behavior.Body{Position: e.Position, Velocity: e.Velocity}
}

// flockView exposes the live population as a behavior.Neighborhood.
// Reads go straight to the boids, so peers already integrated during the
// current tick are seen at their new position.
type flockView []*Boid

func (f flockView) Len() int { return len(f) }

func (f flockView) Body(i int) behavior.Body { return f[i].Body() }
