package viewer

import (
	"math"
	"testing"

	"github.com/lao-tseu-is-alive/go-flocking-simulation/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frontCamera() Camera {
	c := NewCamera(800, 600)
	c.Pitch, c.Yaw = 0, 0
	return c
}

func TestCamera_Eye(t *testing.T) {
	c := frontCamera()
	eye := c.Eye()
	assert.InDelta(t, 0, eye.X, 1e-9)
	assert.InDelta(t, 0, eye.Y, 1e-9)
	assert.InDelta(t, 150, eye.Z, 1e-9)

	assert.InDelta(t, 150, NewCamera(800, 600).Eye().Len(), 1e-9)
}

func TestCamera_Project(t *testing.T) {
	c := frontCamera()

	x, y, depth, ok := c.Project(geometry.Vector3D{})
	require.True(t, ok)
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)
	assert.InDelta(t, 150, depth, 1e-9)

	x, y, _, ok = c.Project(geometry.NewVector(10, 10, 0))
	require.True(t, ok)
	assert.Greater(t, x, 400.0, "+x is to the right")
	assert.Less(t, y, 300.0, "+y is up")

	// at the edge of the field of view
	half := 150 * math.Tan(22.5*math.Pi/180)
	_, y, _, ok = c.Project(geometry.NewVector(0, half, 0))
	require.True(t, ok)
	assert.InDelta(t, 0, y, 1e-6)

	_, _, _, ok = c.Project(geometry.NewVector(0, 0, 200))
	assert.False(t, ok, "points behind the camera are not drawn")
}

func TestCamera_ScaleShrinksWithDistance(t *testing.T) {
	v := frontCamera().view()
	assert.Greater(t, v.scale(50), v.scale(150))
}

func TestCamera_OrbitAndZoomClamp(t *testing.T) {
	c := NewCamera(800, 600)
	c.Orbit(100, 0)
	assert.Equal(t, 89.0, c.Pitch)
	c.Orbit(-500, 0)
	assert.Equal(t, -89.0, c.Pitch)
	c.Orbit(0, 360)
	assert.InDelta(t, 45, c.Yaw, 1e-9)

	c.Zoom(-1000)
	assert.Equal(t, 50.0, c.Distance)
	c.Zoom(1000)
	assert.Equal(t, 300.0, c.Distance)
}
