package simulation

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/behavior"
	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

var (
	testLimits   = behavior.Limits{MaxSpeed: 2, MaxForce: 0.1}
	testPredator = DefaultConfig().Predator
)

func TestPredator_Nearest(t *testing.T) {
	p := NewPredator(geometry.Zero, geometry.Zero, 60)

	tests := []struct {
		name  string
		flock behavior.Bodies
		want  int
	}{
		{"empty flock", nil, -1},
		{"single boid", behavior.Bodies{{Position: geometry.NewVector(5, 0, 0)}}, 0},
		{"closest wins", behavior.Bodies{
			{Position: geometry.NewVector(10, 0, 0)},
			{Position: geometry.NewVector(0, 3, 0)},
			{Position: geometry.NewVector(0, 0, -7)},
		}, 1},
		{"first of equals wins", behavior.Bodies{
			{Position: geometry.NewVector(0, 0, 9)},
			{Position: geometry.NewVector(4, 0, 0)},
			{Position: geometry.NewVector(-4, 0, 0)},
		}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Nearest(tt.flock))
		})
	}
}

func TestPredator_ChasesNearestBoid(t *testing.T) {
	p := NewPredator(geometry.Zero, geometry.Zero, 60)
	flock := behavior.Bodies{
		{Position: geometry.NewVector(0, 0, 30)},
		{Position: geometry.NewVector(10, 0, 0)},
	}

	p.Update(flock, testPredator, testLimits, 50)

	// from rest the turn is capped at 0.5*MaxForce
	assert.InDelta(t, 0.05, p.Velocity.X, 1e-12)
	assert.InDelta(t, 0, p.Velocity.Y, 1e-12)
	assert.InDelta(t, 0, p.Velocity.Z, 1e-12)
	assert.Equal(t, p.Position, p.Trail.At(0))
}

func TestPredator_SpeedIsCapped(t *testing.T) {
	p := NewPredator(geometry.Zero, geometry.NewVector(1, 0, 0), 60)
	flock := behavior.Bodies{{Position: geometry.NewVector(-40, 0, 0)}}

	for i := 0; i < 500; i++ {
		p.Update(flock, testPredator, testLimits, 50)
		// the boundary nudge is applied after the cap
		assert.LessOrEqual(t, p.Velocity.Len(), 0.8*testLimits.MaxSpeed+0.2)
	}
}

func TestPredator_EmptyFlockDecelerates(t *testing.T) {
	p := NewPredator(geometry.Zero, geometry.NewVector(1, 0, 0), 60)

	p.Update(behavior.Bodies{}, testPredator, testLimits, 50)

	assert.InDelta(t, 0.95, p.Velocity.X, 1e-12)
	assert.True(t, p.Position.Eq(geometry.NewVector(0.95, 0, 0)))
}

func TestPredator_BoundaryNudge(t *testing.T) {
	p := NewPredator(geometry.NewVector(46, -46, 0), geometry.Zero, 60)

	p.Update(behavior.Bodies{}, testPredator, testLimits, 50)

	// past 0.9*50 on x and -y, untouched on z
	assert.InDelta(t, -0.1, p.Velocity.X, 1e-12)
	assert.InDelta(t, 0.1, p.Velocity.Y, 1e-12)
	assert.Equal(t, 0.0, p.Velocity.Z)
}

func TestPredator_TrailCap(t *testing.T) {
	p := NewPredator(geometry.Zero, geometry.NewVector(1, 0, 0), 60)
	for i := 0; i < 100; i++ {
		p.Update(behavior.Bodies{{Position: geometry.NewVector(0, 0, 1)}}, testPredator, testLimits, 50)
	}
	assert.Equal(t, 60, p.Trail.Len())
}
