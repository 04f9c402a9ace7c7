package viewer

import (
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestBoidShape(t *testing.T) {
	pos := geometry.NewVector(1, 2, 3)
	vel := geometry.NewVector(2, 0, 0)

	flat := boidShape(pos, vel, 0, true)
	assert.True(t, flat[0].Eq(geometry.NewVector(1+2*boidSize, 2, 3)), "nose points along velocity")
	assert.InDelta(t, 2, flat[1].Y, 1e-9)
	assert.InDelta(t, 2, flat[2].Y, 1e-9)
	assert.InDelta(t, 2*boidSize, flat[1].DistanceTo(flat[2]), 1e-9)

	banked := boidShape(pos, vel, 45, true)
	assert.NotEqual(t, flat[1].Y, banked[1].Y, "wings roll with the bank angle")
	assert.InDelta(t, 2*boidSize, banked[1].DistanceTo(banked[2]), 1e-9)

	unbanked := boidShape(pos, vel, 45, false)
	assert.Equal(t, flat, unbanked)
}

func TestBoidShape_Degenerate(t *testing.T) {
	// no velocity and vertical velocity both fall back to a fixed wing axis
	for _, vel := range []geometry.Vector3D{{}, geometry.NewVector(0, -3, 0)} {
		shape := boidShape(geometry.Vector3D{}, vel, 10, true)
		for _, p := range shape {
			assert.True(t, p.IsFinite())
		}
	}
}

func TestCubeEdges(t *testing.T) {
	edges := cubeEdges(50)
	for _, e := range edges {
		assert.InDelta(t, 100, e[0].DistanceTo(e[1]), 1e-9)
	}
	seen := map[[2]geometry.Vector3D]bool{}
	for _, e := range edges {
		seen[e] = true
	}
	assert.Len(t, seen, 12)
}

func TestTrailAlpha(t *testing.T) {
	assert.Equal(t, 0.5, trailAlpha(0, 10))
	assert.InDelta(t, 0.05, trailAlpha(9, 10), 1e-9)
}

func TestMarker_GlidesWithinARunAndJumpsOnReset(t *testing.T) {
	var m marker
	m.follow(geometry.NewVector(10, 0, 0), "run-1")
	assert.Equal(t, geometry.NewVector(10, 0, 0), m.pos, "first target is taken as is")

	target := geometry.NewVector(20, 0, 0)
	m.follow(target, "run-1")
	assert.InDelta(t, 10+10*goalEase, m.pos.X, 1e-9)
	for i := 0; i < 200; i++ {
		m.follow(target, "run-1")
	}
	assert.InDelta(t, 20, m.pos.X, 1e-6)

	m.follow(geometry.NewVector(-5, 3, 1), "run-2")
	assert.Equal(t, geometry.NewVector(-5, 3, 1), m.pos)
}
