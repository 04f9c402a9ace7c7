package simulation

import (
	"math"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
)

const (
	maxBankAngle  = 45.0 // degrees
	bankGain      = 50.0
	bankSmoothing = 0.1
)

// SpeedLimits bounds the magnitude of a boid velocity after every update.
type SpeedLimits struct {
	Min float64
	Max float64
}

// Boid is one agent of the flock.
type Boid struct {
	Entity
	Acceleration geometry.Vector3D
	Color        Color
	// BankAngle is the visual roll in degrees, it never feeds back into the motion.
	BankAngle float64
	Speed     SpeedLimits
}

// NewBoid returns a boid at rest at position with an empty trail of trailLength points.
func NewBoid(id string, position geometry.Vector3D, speed SpeedLimits, trailLength int) *Boid {
	return &Boid{
		Entity: Entity{
			ID:       id,
			Position: position,
			Trail:    NewTrail(trailLength),
		},
		Speed: speed,
		Color: Color{R: 1, G: 1, B: 1},
	}
}

// ApplyForce accumulates f into the acceleration of the current tick.
func (b *Boid) ApplyForce(f geometry.Vector3D) {
	b.Acceleration = b.Acceleration.Add(f)
}

// Update integrates one tick:
// the bank angle eases towards the turn rate, the acceleration is added to the velocity,
// the speed is clamped to [Min, Max], the position moves and the acceleration is reset.
// A boid with zero velocity after acceleration stays at rest.
func (b *Boid) Update() {
	target := b.Velocity.Cross(b.Acceleration).Y * b.Acceleration.Len() * bankGain
	target = math.Max(-maxBankAngle, math.Min(maxBankAngle, target))
	b.BankAngle += (target - b.BankAngle) * bankSmoothing

	b.Velocity = b.Velocity.Add(b.Acceleration)

	speed := b.Velocity.Len()
	switch {
	case speed > b.Speed.Max:
		b.Velocity = b.Velocity.WithLen(b.Speed.Max)
	case speed > 0 && speed < b.Speed.Min:
		b.Velocity = b.Velocity.WithLen(b.Speed.Min)
	}

	b.UpdatePhysics()
	b.Acceleration = geometry.Vector3D{}
}
